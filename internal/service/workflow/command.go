package workflow

import (
	"errors"
	"fmt"
	"strings"
)

// OutputKind identifies one button of an output menu. The wire form is
// the callback-data label the button carries.
type OutputKind string

const (
	KindMessage   OutputKind = "output_message"
	KindTextFile  OutputKind = "output_txt"
	KindBoth      OutputKind = "output_both"
	KindDocxFile  OutputKind = "output_docx"
	KindSummarize OutputKind = "output_summarize"

	KindSummaryMessage  OutputKind = "summary_message"
	KindSummaryTextFile OutputKind = "summary_txt"
	KindSummaryDocxFile OutputKind = "summary_docx"
)

// ErrInvalidOption is returned for callback data that does not parse into
// a known output kind and session key.
var ErrInvalidOption = errors.New("invalid output option")

// Command is the typed form of a button press: which output the user
// chose, and which session it refers to. Callback data is parsed into a
// Command once, at the transport boundary; no string routing happens
// past this point.
type Command struct {
	Kind OutputKind
	Key  string
}

// ParseCallbackData parses "<kind>|<key>" callback data into a Command
func ParseCallbackData(data string) (Command, error) {
	kind, key, found := strings.Cut(data, "|")
	if !found || key == "" {
		return Command{}, fmt.Errorf("%w: %q", ErrInvalidOption, data)
	}

	switch OutputKind(kind) {
	case KindMessage, KindTextFile, KindBoth, KindDocxFile, KindSummarize,
		KindSummaryMessage, KindSummaryTextFile, KindSummaryDocxFile:
		return Command{Kind: OutputKind(kind), Key: key}, nil
	default:
		return Command{}, fmt.Errorf("%w: %q", ErrInvalidOption, kind)
	}
}

// CallbackData renders the command back into button callback data
func (c Command) CallbackData() string {
	return string(c.Kind) + "|" + c.Key
}
