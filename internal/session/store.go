package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a session key is unknown or expired.
// Callers treat it as a normal stale-session condition, not a failure.
var ErrNotFound = errors.New("session entry not found")

// Store defines session artifact storage operations
type Store interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Set(ctx context.Context, key string, entry *Entry) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Entry represents one stored artifact: the extracted (or summarized)
// text plus an optional back-reference to the downloaded source file.
type Entry struct {
	Key        string    `json:"key"`
	Text       string    `json:"text"`
	SourcePath string    `json:"source_path,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

const summaryKeyPrefix = "summary:"

// NewKey mints a fresh 8-character session key. Keys are embedded in
// callback data, so they must be unguessable and collision-free for the
// process lifetime.
func NewKey() string {
	return uuid.New().String()[:8]
}

// SummaryKey derives the key under which a session's summary artifact is
// stored. The derivation is deterministic so the summary menu can find the
// artifact from the parent key alone.
func SummaryKey(parentKey string) string {
	return summaryKeyPrefix + parentKey
}
