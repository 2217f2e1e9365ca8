package repository

import (
	"context"

	"github.com/pep299/docai-telegram-bot/internal/telegram"
)

// TelegramRepository defines the conversation transport operations the
// workflow needs
type TelegramRepository interface {
	GetUpdates(ctx context.Context, offset int64, timeoutSeconds int) ([]telegram.Update, error)
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendMessageWithKeyboard(ctx context.Context, chatID int64, text string, keyboard telegram.InlineKeyboardMarkup) error
	SendDocument(ctx context.Context, chatID int64, localPath, displayName, caption string) error
	AnswerCallbackQuery(ctx context.Context, callbackQueryID string) error
	GetFile(ctx context.Context, fileID string) (*telegram.File, error)
	DownloadFile(ctx context.Context, filePath, destPath string) error
}

type telegramRepository struct {
	client *telegram.Client
}

func NewTelegramRepository(client *telegram.Client) TelegramRepository {
	return &telegramRepository{
		client: client,
	}
}

func (t *telegramRepository) GetUpdates(ctx context.Context, offset int64, timeoutSeconds int) ([]telegram.Update, error) {
	return t.client.GetUpdates(ctx, offset, timeoutSeconds)
}

func (t *telegramRepository) SendMessage(ctx context.Context, chatID int64, text string) error {
	return t.client.SendMessage(ctx, chatID, text)
}

func (t *telegramRepository) SendMessageWithKeyboard(ctx context.Context, chatID int64, text string, keyboard telegram.InlineKeyboardMarkup) error {
	return t.client.SendMessageWithKeyboard(ctx, chatID, text, keyboard)
}

func (t *telegramRepository) SendDocument(ctx context.Context, chatID int64, localPath, displayName, caption string) error {
	return t.client.SendDocument(ctx, chatID, localPath, displayName, caption)
}

func (t *telegramRepository) AnswerCallbackQuery(ctx context.Context, callbackQueryID string) error {
	return t.client.AnswerCallbackQuery(ctx, callbackQueryID)
}

func (t *telegramRepository) GetFile(ctx context.Context, fileID string) (*telegram.File, error) {
	return t.client.GetFile(ctx, fileID)
}

func (t *telegramRepository) DownloadFile(ctx context.Context, filePath, destPath string) error {
	return t.client.DownloadFile(ctx, filePath, destPath)
}
