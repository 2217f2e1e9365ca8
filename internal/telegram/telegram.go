package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"time"
)

// Client handles Telegram Bot API operations
type Client struct {
	token       string
	httpClient  *http.Client
	apiBaseURL  string
	fileBaseURL string
}

// NewClient creates a new Telegram Bot API client
func NewClient(token string) *Client {
	return &Client{
		token:       token,
		apiBaseURL:  "https://api.telegram.org",
		fileBaseURL: "https://api.telegram.org/file",
		httpClient: &http.Client{
			// Long polling holds the connection open, so this must exceed
			// the getUpdates timeout parameter.
			Timeout: 90 * time.Second,
		},
	}
}

// Update represents an incoming Telegram update
type Update struct {
	UpdateID      int64          `json:"update_id"`
	Message       *Message       `json:"message,omitempty"`
	CallbackQuery *CallbackQuery `json:"callback_query,omitempty"`
}

// Message represents a Telegram message
type Message struct {
	MessageID int64       `json:"message_id"`
	Chat      Chat        `json:"chat"`
	Text      string      `json:"text,omitempty"`
	Document  *Document   `json:"document,omitempty"`
	Photo     []PhotoSize `json:"photo,omitempty"`
}

// Chat represents a Telegram chat
type Chat struct {
	ID int64 `json:"id"`
}

// Document represents an attached file
type Document struct {
	FileID   string `json:"file_id"`
	FileName string `json:"file_name,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
}

// PhotoSize represents one size variant of an attached photo.
// Telegram sends variants smallest-first; the last is the original.
type PhotoSize struct {
	FileID string `json:"file_id"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// CallbackQuery represents a button press on an inline keyboard
type CallbackQuery struct {
	ID      string   `json:"id"`
	Data    string   `json:"data,omitempty"`
	Message *Message `json:"message,omitempty"`
}

// File represents file metadata returned by getFile
type File struct {
	FileID   string `json:"file_id"`
	FilePath string `json:"file_path,omitempty"`
}

// InlineKeyboardMarkup represents an inline keyboard attached to a message
type InlineKeyboardMarkup struct {
	InlineKeyboard [][]InlineKeyboardButton `json:"inline_keyboard"`
}

// InlineKeyboardButton represents one button of an inline keyboard
type InlineKeyboardButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data,omitempty"`
}

// apiResponse represents the Bot API response envelope
type apiResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
}

// GetUpdates fetches pending updates via long polling
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeoutSeconds int) ([]Update, error) {
	req := struct {
		Offset  int64 `json:"offset"`
		Timeout int   `json:"timeout"`
	}{Offset: offset, Timeout: timeoutSeconds}

	result, err := c.call(ctx, "getUpdates", req)
	if err != nil {
		return nil, err
	}

	var updates []Update
	if err := json.Unmarshal(result, &updates); err != nil {
		return nil, fmt.Errorf("unmarshaling updates: %w", err)
	}

	return updates, nil
}

// SendMessage sends a plain text message to a chat
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	req := struct {
		ChatID int64  `json:"chat_id"`
		Text   string `json:"text"`
	}{ChatID: chatID, Text: text}

	_, err := c.call(ctx, "sendMessage", req)
	return err
}

// SendMessageWithKeyboard sends a text message with an inline keyboard
func (c *Client) SendMessageWithKeyboard(ctx context.Context, chatID int64, text string, keyboard InlineKeyboardMarkup) error {
	req := struct {
		ChatID      int64                `json:"chat_id"`
		Text        string               `json:"text"`
		ReplyMarkup InlineKeyboardMarkup `json:"reply_markup"`
	}{ChatID: chatID, Text: text, ReplyMarkup: keyboard}

	_, err := c.call(ctx, "sendMessage", req)
	return err
}

// AnswerCallbackQuery acknowledges a button press so the client stops
// showing its progress indicator
func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackQueryID string) error {
	req := struct {
		CallbackQueryID string `json:"callback_query_id"`
	}{CallbackQueryID: callbackQueryID}

	_, err := c.call(ctx, "answerCallbackQuery", req)
	return err
}

// GetFile resolves a file ID into a downloadable file path
func (c *Client) GetFile(ctx context.Context, fileID string) (*File, error) {
	req := struct {
		FileID string `json:"file_id"`
	}{FileID: fileID}

	result, err := c.call(ctx, "getFile", req)
	if err != nil {
		return nil, err
	}

	var file File
	if err := json.Unmarshal(result, &file); err != nil {
		return nil, fmt.Errorf("unmarshaling file: %w", err)
	}

	return &file, nil
}

// DownloadFile downloads a file resolved by GetFile to destPath
func (c *Client) DownloadFile(ctx context.Context, filePath, destPath string) error {
	url := fmt.Sprintf("%s/bot%s/%s", c.fileBaseURL, c.token, filePath)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("downloading file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code downloading file: %d", resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("creating destination file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("writing destination file: %w", err)
	}

	return nil
}

// SendDocument uploads a local file to a chat with a display filename and
// caption. The display name is what the user sees, never the local name.
func (c *Client) SendDocument(ctx context.Context, chatID int64, localPath, displayName, caption string) error {
	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("opening document: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("chat_id", fmt.Sprintf("%d", chatID)); err != nil {
		return fmt.Errorf("writing chat_id field: %w", err)
	}
	if caption != "" {
		if err := writer.WriteField("caption", caption); err != nil {
			return fmt.Errorf("writing caption field: %w", err)
		}
	}

	if displayName == "" {
		displayName = path.Base(localPath)
	}
	part, err := writer.CreateFormFile("document", displayName)
	if err != nil {
		return fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("copying document data: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing multipart writer: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendDocument", c.apiBaseURL, c.token)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, &body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	return c.checkResponse(resp)
}

// call posts a JSON request to the given Bot API method
func (c *Client) call(ctx context.Context, method string, payload interface{}) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s request: %w", method, err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.apiBaseURL, c.token, method)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var apiResp apiResponse
	if err := json.Unmarshal(data, &apiResp); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w", method, err)
	}

	if !apiResp.OK {
		return nil, fmt.Errorf("%s failed with status %d: %s", method, resp.StatusCode, apiResp.Description)
	}

	return apiResp.Result, nil
}

// checkResponse validates a Bot API response envelope without a result
func (c *Client) checkResponse(resp *http.Response) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	var apiResp apiResponse
	if err := json.Unmarshal(data, &apiResp); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	if !apiResp.OK {
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, apiResp.Description)
	}

	return nil
}
