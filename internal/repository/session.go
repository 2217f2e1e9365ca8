package repository

import (
	"context"

	"github.com/pep299/docai-telegram-bot/internal/session"
)

// SessionRepository defines artifact-store operations keyed by session key.
// Unknown keys surface session.ErrNotFound; callers treat that as a stale
// session, not a failure.
type SessionRepository interface {
	// Create mints a fresh key and stores the extracted text with its
	// source-file back-reference
	Create(ctx context.Context, text, sourcePath string) (string, error)
	GetText(ctx context.Context, key string) (string, error)
	// GetSourcePath returns the recorded source path, or "" when the
	// session exists but carries no back-reference
	GetSourcePath(ctx context.Context, key string) (string, error)
	PutSummary(ctx context.Context, key, text string) error
	GetSummary(ctx context.Context, key string) (string, error)
	Close() error
}

type sessionRepository struct {
	store session.Store
}

func NewSessionRepository(store session.Store) SessionRepository {
	return &sessionRepository{
		store: store,
	}
}

func (s *sessionRepository) Create(ctx context.Context, text, sourcePath string) (string, error) {
	key := session.NewKey()
	entry := &session.Entry{
		Text:       text,
		SourcePath: sourcePath,
	}
	if err := s.store.Set(ctx, key, entry); err != nil {
		return "", err
	}
	return key, nil
}

func (s *sessionRepository) GetText(ctx context.Context, key string) (string, error) {
	entry, err := s.store.Get(ctx, key)
	if err != nil {
		return "", err
	}
	return entry.Text, nil
}

func (s *sessionRepository) GetSourcePath(ctx context.Context, key string) (string, error) {
	entry, err := s.store.Get(ctx, key)
	if err != nil {
		return "", err
	}
	return entry.SourcePath, nil
}

func (s *sessionRepository) PutSummary(ctx context.Context, key, text string) error {
	entry := &session.Entry{
		Text: text,
	}
	return s.store.Set(ctx, session.SummaryKey(key), entry)
}

func (s *sessionRepository) GetSummary(ctx context.Context, key string) (string, error) {
	entry, err := s.store.Get(ctx, session.SummaryKey(key))
	if err != nil {
		return "", err
	}
	return entry.Text, nil
}

func (s *sessionRepository) Close() error {
	return s.store.Close()
}
