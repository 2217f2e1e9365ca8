package docai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	documentai "google.golang.org/api/documentai/v1"
	"google.golang.org/api/option"
)

// ErrUnsupportedFormat is returned for inputs that are neither a
// recognized image nor a PDF. The gate runs locally, before any remote
// call is issued.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Role selects which Document AI processor handles a request
type Role string

const (
	// RoleExtract runs the OCR/text-extraction processor
	RoleExtract Role = "extract"
	// RoleSummarize runs the summarizer processor
	RoleSummarize Role = "summarize"
)

// Client handles Google Document AI operations
type Client struct {
	svc                   *documentai.Service
	projectID             string
	location              string
	processorID           string
	summarizerProcessorID string
}

// NewClient creates a new Document AI client against the regional endpoint
func NewClient(ctx context.Context, projectID, location, processorID, summarizerProcessorID, credentialsFile string) (*Client, error) {
	opts := []option.ClientOption{
		option.WithEndpoint(fmt.Sprintf("https://%s-documentai.googleapis.com/", location)),
	}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	svc, err := documentai.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating documentai service: %w", err)
	}

	return &Client{
		svc:                   svc,
		projectID:             projectID,
		location:              location,
		processorID:           processorID,
		summarizerProcessorID: summarizerProcessorID,
	}, nil
}

// Result represents the text and labeled entities of a processed document
type Result struct {
	Text     string
	Entities []Entity
}

// Entity represents one labeled entity of a processed document
type Entity struct {
	Type        string
	MentionText string
}

// Process sends raw document bytes through the processor selected by role
func (c *Client) Process(ctx context.Context, content []byte, mimeType string, role Role) (*Result, error) {
	processorID := c.processorID
	if role == RoleSummarize {
		processorID = c.summarizerProcessorID
	}

	name := fmt.Sprintf("projects/%s/locations/%s/processors/%s", c.projectID, c.location, processorID)

	req := &documentai.GoogleCloudDocumentaiV1ProcessRequest{
		RawDocument: &documentai.GoogleCloudDocumentaiV1RawDocument{
			Content:  base64.StdEncoding.EncodeToString(content),
			MimeType: mimeType,
		},
	}

	resp, err := c.svc.Projects.Locations.Processors.Process(name, req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("processing document with %s processor: %w", role, err)
	}
	if resp.Document == nil {
		return nil, fmt.Errorf("empty document in %s processor response", role)
	}

	result := &Result{Text: resp.Document.Text}
	for _, entity := range resp.Document.Entities {
		result.Entities = append(result.Entities, Entity{
			Type:        entity.Type,
			MentionText: entity.MentionText,
		})
	}

	return result, nil
}

// SummaryText assembles the summary from "summary"-typed entities in
// document order, one line each. When the processor labels none, the
// whole-document text is returned as-is.
func (r *Result) SummaryText() string {
	var sb strings.Builder
	for _, entity := range r.Entities {
		if entity.Type == "summary" {
			sb.WriteString(entity.MentionText)
			sb.WriteString("\n")
		}
	}

	if sb.Len() == 0 {
		return r.Text
	}
	return sb.String()
}

// MimeTypeFor maps a filename to the MIME type Document AI expects,
// rejecting anything that is not a JPEG, PNG or PDF
func MimeTypeFor(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg", nil
	case ".png":
		return "image/png", nil
	case ".pdf":
		return "application/pdf", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}
