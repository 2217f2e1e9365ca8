package mocks

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/pep299/docai-telegram-bot/internal/telegram"
)

// SentMessage records one SendMessage call
type SentMessage struct {
	ChatID int64
	Text   string
}

// SentKeyboard records one SendMessageWithKeyboard call
type SentKeyboard struct {
	ChatID   int64
	Text     string
	Keyboard telegram.InlineKeyboardMarkup
}

// SentDocument records one SendDocument call
type SentDocument struct {
	ChatID      int64
	LocalPath   string
	DisplayName string
	Caption     string
}

// MockTelegramRepo records outbound calls and serves canned files
type MockTelegramRepo struct {
	mu sync.Mutex

	Messages          []SentMessage
	Keyboards         []SentKeyboard
	Documents         []SentDocument
	AnsweredCallbacks []string

	// FileContent is written to destPath by DownloadFile
	FileContent []byte
	// SendErr, when set, fails every outbound send
	SendErr error
}

func (m *MockTelegramRepo) GetUpdates(ctx context.Context, offset int64, timeoutSeconds int) ([]telegram.Update, error) {
	return nil, nil
}

func (m *MockTelegramRepo) SendMessage(ctx context.Context, chatID int64, text string) error {
	if m.SendErr != nil {
		return m.SendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, SentMessage{ChatID: chatID, Text: text})
	return nil
}

func (m *MockTelegramRepo) SendMessageWithKeyboard(ctx context.Context, chatID int64, text string, keyboard telegram.InlineKeyboardMarkup) error {
	if m.SendErr != nil {
		return m.SendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Keyboards = append(m.Keyboards, SentKeyboard{ChatID: chatID, Text: text, Keyboard: keyboard})
	return nil
}

func (m *MockTelegramRepo) SendDocument(ctx context.Context, chatID int64, localPath, displayName, caption string) error {
	if m.SendErr != nil {
		return m.SendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Documents = append(m.Documents, SentDocument{ChatID: chatID, LocalPath: localPath, DisplayName: displayName, Caption: caption})
	return nil
}

func (m *MockTelegramRepo) AnswerCallbackQuery(ctx context.Context, callbackQueryID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AnsweredCallbacks = append(m.AnsweredCallbacks, callbackQueryID)
	return nil
}

func (m *MockTelegramRepo) GetFile(ctx context.Context, fileID string) (*telegram.File, error) {
	return &telegram.File{FileID: fileID, FilePath: "documents/" + fileID}, nil
}

func (m *MockTelegramRepo) DownloadFile(ctx context.Context, filePath, destPath string) error {
	content := m.FileContent
	if content == nil {
		content = []byte("file-bytes")
	}
	if err := os.WriteFile(destPath, content, 0o644); err != nil {
		return fmt.Errorf("writing mock download: %w", err)
	}
	return nil
}

// LastMessage returns the most recently sent message text, or ""
func (m *MockTelegramRepo) LastMessage() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Messages) == 0 {
		return ""
	}
	return m.Messages[len(m.Messages)-1].Text
}
