package workflow

import (
	"errors"
	"testing"
)

func TestParseCallbackData(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		expected Command
		wantErr  bool
	}{
		{
			name:     "primary message option",
			data:     "output_message|ab12cd34",
			expected: Command{Kind: KindMessage, Key: "ab12cd34"},
		},
		{
			name:     "txt option",
			data:     "output_txt|ab12cd34",
			expected: Command{Kind: KindTextFile, Key: "ab12cd34"},
		},
		{
			name:     "summarize option",
			data:     "output_summarize|ab12cd34",
			expected: Command{Kind: KindSummarize, Key: "ab12cd34"},
		},
		{
			name:     "summary docx option",
			data:     "summary_docx|ab12cd34",
			expected: Command{Kind: KindSummaryDocxFile, Key: "ab12cd34"},
		},
		{
			name:    "unknown kind",
			data:    "output_pdf|ab12cd34",
			wantErr: true,
		},
		{
			name:    "missing key",
			data:    "output_txt|",
			wantErr: true,
		},
		{
			name:    "no delimiter",
			data:    "output_txt",
			wantErr: true,
		},
		{
			name:    "empty data",
			data:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := ParseCallbackData(tt.data)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected error for %q, got command %+v", tt.data, cmd)
				}
				if !errors.Is(err, ErrInvalidOption) {
					t.Errorf("Expected ErrInvalidOption, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCallbackData(%q) failed: %v", tt.data, err)
			}
			if cmd != tt.expected {
				t.Errorf("Expected %+v, got %+v", tt.expected, cmd)
			}
		})
	}
}

func TestCommandCallbackDataRoundTrip(t *testing.T) {
	original := Command{Kind: KindBoth, Key: "ab12cd34"}

	parsed, err := ParseCallbackData(original.CallbackData())
	if err != nil {
		t.Fatalf("Failed to parse rendered callback data: %v", err)
	}

	if parsed != original {
		t.Errorf("Expected %+v, got %+v", original, parsed)
	}
}
