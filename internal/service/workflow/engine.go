package workflow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"

	"github.com/pep299/docai-telegram-bot/internal/docai"
	"github.com/pep299/docai-telegram-bot/internal/render"
	"github.com/pep299/docai-telegram-bot/internal/repository"
	"github.com/pep299/docai-telegram-bot/internal/session"
	"github.com/pep299/docai-telegram-bot/internal/telegram"
)

// User-facing notices. Every failure class gets its own message so the
// user can tell a stale menu from an empty document.
const (
	greetingMessage           = "👋 Send me an image or a PDF, and I'll extract the text! You can choose the output format."
	processingMessage         = "🔄 Processing file, please wait..."
	summarizingMessage        = "🔄 Summarizing document, please wait..."
	noTextMessage             = "❌ No text recognized."
	noSummaryMessage          = "❌ No summary could be generated."
	unsupportedFormatMessage  = "❌ Unsupported file format."
	staleSessionMessage       = "❌ Error retrieving processed text."
	staleSummaryMessage       = "❌ Error retrieving summary."
	missingSourceMessage      = "❌ Cannot find the original file for summarization."
	invalidOptionMessage      = "❌ Invalid option."
	documentFailureMessage    = "❌ An error occurred while processing the document. Please try again!"
	selectionFailureMessage   = "❌ An error occurred while processing your selection."
	chooseOutputMessage       = "📝 Choose an output format:"
	chooseSummaryMessage      = "📝 Choose an output format for the summary:"
	extractedTextHeader       = "📜 Extracted Text:\n\n"
	summaryHeader             = "📝 Document Summary:\n\n"
	textFileCaption           = "📄 Here is your extracted text file."
	docxFileCaption           = "📜 Here is your extracted text as a Word document."
	summaryTextFileCaption    = "📄 Here is your document summary."
	summaryDocxFileCaption    = "📜 Here is your document summary as a Word document."
)

// Engine drives the extraction workflow: ingest, extraction, output
// choice, delivery, and the optional summarization sub-flow.
type Engine struct {
	telegramRepo   repository.TelegramRepository
	processorRepo  repository.ProcessorRepository
	sessionRepo    repository.SessionRepository
	downloadsDir   string
	outputsDir     string
	chunkSize      int
	processTimeout time.Duration
}

// NewEngine creates a workflow engine
func NewEngine(
	telegramRepo repository.TelegramRepository,
	processorRepo repository.ProcessorRepository,
	sessionRepo repository.SessionRepository,
	downloadsDir, outputsDir string,
	chunkSize int,
	processTimeout time.Duration,
) *Engine {
	return &Engine{
		telegramRepo:   telegramRepo,
		processorRepo:  processorRepo,
		sessionRepo:    sessionRepo,
		downloadsDir:   downloadsDir,
		outputsDir:     outputsDir,
		chunkSize:      chunkSize,
		processTimeout: processTimeout,
	}
}

// HandleUpdate dispatches one inbound update. All failures are converted
// to user-facing notices here; nothing propagates to the update loop.
func (e *Engine) HandleUpdate(ctx context.Context, update telegram.Update) {
	logger := log.New(funcframework.LogWriter(ctx), "", 0)

	switch {
	case update.CallbackQuery != nil:
		if err := e.handleCallback(ctx, update.CallbackQuery); err != nil {
			logger.Printf("Error handling output choice: %v", err)
			e.notify(ctx, callbackChatID(update.CallbackQuery), selectionFailureMessage)
		}
	case update.Message != nil && update.Message.Text == "/start":
		if err := e.handleStart(ctx, update.Message.Chat.ID); err != nil {
			logger.Printf("Error handling start command: %v", err)
		}
	case update.Message != nil && (update.Message.Document != nil || len(update.Message.Photo) > 0):
		if err := e.handleDocument(ctx, update.Message); err != nil {
			logger.Printf("Error processing file: %v", err)
			e.notify(ctx, update.Message.Chat.ID, documentFailureMessage)
		}
	}
}

// handleStart replies to the /start command with the greeting
func (e *Engine) handleStart(ctx context.Context, chatID int64) error {
	return e.telegramRepo.SendMessage(ctx, chatID, greetingMessage)
}

// handleDocument downloads an inbound file, runs extraction, stores the
// artifact and presents the primary output menu
func (e *Engine) handleDocument(ctx context.Context, msg *telegram.Message) error {
	logger := log.New(funcframework.LogWriter(ctx), "", 0)
	chatID := msg.Chat.ID

	fileID, fileName := inboundFile(msg)

	// Reject unsupported formats before any download or remote call
	mimeType, err := docai.MimeTypeFor(fileName)
	if err != nil {
		if errors.Is(err, docai.ErrUnsupportedFormat) {
			return e.telegramRepo.SendMessage(ctx, chatID, unsupportedFormatMessage)
		}
		return err
	}

	file, err := e.telegramRepo.GetFile(ctx, fileID)
	if err != nil {
		return fmt.Errorf("resolving file %s: %w", fileID, err)
	}

	// File IDs are transport-unique, so the local name is collision-safe
	localPath := filepath.Join(e.downloadsDir, fileID+filepath.Ext(fileName))
	if err := e.telegramRepo.DownloadFile(ctx, file.FilePath, localPath); err != nil {
		return fmt.Errorf("downloading file %s: %w", fileID, err)
	}

	if err := e.telegramRepo.SendMessage(ctx, chatID, processingMessage); err != nil {
		return fmt.Errorf("sending processing notice: %w", err)
	}

	start := time.Now()
	text, err := e.extract(ctx, localPath, mimeType)
	if err != nil {
		return fmt.Errorf("extracting text: %w", err)
	}
	logger.Printf("Extraction completed file=%s duration_ms=%d chars=%d",
		fileID, time.Since(start).Milliseconds(), len(text))

	if text == "" {
		// Terminal failure of this request, not retried
		return e.telegramRepo.SendMessage(ctx, chatID, noTextMessage)
	}

	key, err := e.sessionRepo.Create(ctx, text, localPath)
	if err != nil {
		return fmt.Errorf("storing extracted text: %w", err)
	}
	logger.Printf("Session created key=%s source=%s", key, localPath)

	return e.telegramRepo.SendMessageWithKeyboard(ctx, chatID, chooseOutputMessage, primaryKeyboard(key))
}

// handleCallback processes one button press
func (e *Engine) handleCallback(ctx context.Context, cb *telegram.CallbackQuery) error {
	logger := log.New(funcframework.LogWriter(ctx), "", 0)
	chatID := callbackChatID(cb)
	if chatID == 0 {
		return fmt.Errorf("callback %s has no originating message", cb.ID)
	}

	if err := e.telegramRepo.AnswerCallbackQuery(ctx, cb.ID); err != nil {
		logger.Printf("Error acknowledging callback %s: %v", cb.ID, err)
	}

	cmd, err := ParseCallbackData(cb.Data)
	if err != nil {
		logger.Printf("Invalid callback data %q: %v", cb.Data, err)
		return e.telegramRepo.SendMessage(ctx, chatID, invalidOptionMessage)
	}

	switch cmd.Kind {
	case KindMessage, KindTextFile, KindBoth, KindDocxFile:
		return e.deliverPrimary(ctx, chatID, cmd)
	case KindSummarize:
		return e.summarize(ctx, chatID, cmd.Key)
	case KindSummaryMessage, KindSummaryTextFile, KindSummaryDocxFile:
		return e.deliverSummary(ctx, chatID, cmd)
	default:
		return e.telegramRepo.SendMessage(ctx, chatID, invalidOptionMessage)
	}
}

// deliverPrimary renders the extracted text in the chosen output kind
func (e *Engine) deliverPrimary(ctx context.Context, chatID int64, cmd Command) error {
	text, err := e.sessionRepo.GetText(ctx, cmd.Key)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return e.telegramRepo.SendMessage(ctx, chatID, staleSessionMessage)
		}
		return fmt.Errorf("retrieving session %s: %w", cmd.Key, err)
	}

	switch cmd.Kind {
	case KindMessage:
		return e.sendChunks(ctx, chatID, extractedTextHeader+text)
	case KindTextFile:
		return e.sendTextFile(ctx, chatID, cmd.Key+".txt", text, render.TextFileName, textFileCaption)
	case KindBoth:
		if err := e.sendChunks(ctx, chatID, extractedTextHeader+text); err != nil {
			return err
		}
		return e.sendTextFile(ctx, chatID, cmd.Key+".txt", text, render.TextFileName, textFileCaption)
	case KindDocxFile:
		return e.sendDocxFile(ctx, chatID, cmd.Key+".docx", text, render.DocxFileName, docxFileCaption)
	}
	return nil
}

// summarize runs the summarizer processor against the session's source
// file and presents the summary output menu
func (e *Engine) summarize(ctx context.Context, chatID int64, key string) error {
	logger := log.New(funcframework.LogWriter(ctx), "", 0)

	sourcePath, err := e.sessionRepo.GetSourcePath(ctx, key)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return e.telegramRepo.SendMessage(ctx, chatID, staleSessionMessage)
		}
		return fmt.Errorf("retrieving source path for %s: %w", key, err)
	}
	if sourcePath == "" {
		return e.telegramRepo.SendMessage(ctx, chatID, missingSourceMessage)
	}

	mimeType, err := docai.MimeTypeFor(sourcePath)
	if err != nil {
		if errors.Is(err, docai.ErrUnsupportedFormat) {
			return e.telegramRepo.SendMessage(ctx, chatID, unsupportedFormatMessage)
		}
		return err
	}

	if err := e.telegramRepo.SendMessage(ctx, chatID, summarizingMessage); err != nil {
		return fmt.Errorf("sending summarizing notice: %w", err)
	}

	content, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("reading source file %s: %w", sourcePath, err)
	}

	processCtx, cancel := context.WithTimeout(ctx, e.processTimeout)
	defer cancel()

	start := time.Now()
	result, err := e.processorRepo.Process(processCtx, content, mimeType, docai.RoleSummarize)
	if err != nil {
		return fmt.Errorf("summarizing document: %w", err)
	}

	summary := result.SummaryText()
	logger.Printf("Summarization completed key=%s duration_ms=%d chars=%d",
		key, time.Since(start).Milliseconds(), len(summary))

	if isBlank(summary) {
		return e.telegramRepo.SendMessage(ctx, chatID, noSummaryMessage)
	}

	if err := e.sessionRepo.PutSummary(ctx, key, summary); err != nil {
		return fmt.Errorf("storing summary for %s: %w", key, err)
	}

	return e.telegramRepo.SendMessageWithKeyboard(ctx, chatID, chooseSummaryMessage, summaryKeyboard(key))
}

// deliverSummary renders the stored summary in the chosen output kind
func (e *Engine) deliverSummary(ctx context.Context, chatID int64, cmd Command) error {
	summary, err := e.sessionRepo.GetSummary(ctx, cmd.Key)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return e.telegramRepo.SendMessage(ctx, chatID, staleSummaryMessage)
		}
		return fmt.Errorf("retrieving summary for %s: %w", cmd.Key, err)
	}

	switch cmd.Kind {
	case KindSummaryMessage:
		return e.sendChunks(ctx, chatID, summaryHeader+summary)
	case KindSummaryTextFile:
		return e.sendTextFile(ctx, chatID, "summary_"+cmd.Key+".txt", summary, render.SummaryTextFileName, summaryTextFileCaption)
	case KindSummaryDocxFile:
		return e.sendDocxFile(ctx, chatID, "summary_"+cmd.Key+".docx", summary, render.SummaryDocxFileName, summaryDocxFileCaption)
	}
	return nil
}

// extract downloads nothing; it reads the already-downloaded file and
// runs the extraction processor under the configured timeout. Blank
// results collapse to "".
func (e *Engine) extract(ctx context.Context, localPath, mimeType string) (string, error) {
	content, err := os.ReadFile(localPath)
	if err != nil {
		return "", fmt.Errorf("reading downloaded file: %w", err)
	}

	processCtx, cancel := context.WithTimeout(ctx, e.processTimeout)
	defer cancel()

	result, err := e.processorRepo.Process(processCtx, content, mimeType, docai.RoleExtract)
	if err != nil {
		return "", err
	}

	if isBlank(result.Text) {
		return "", nil
	}
	return result.Text, nil
}

// sendChunks delivers text as consecutive messages within the transport's
// size limit, in order
func (e *Engine) sendChunks(ctx context.Context, chatID int64, text string) error {
	for _, chunk := range render.Chunk(text, e.chunkSize) {
		if err := e.telegramRepo.SendMessage(ctx, chatID, chunk); err != nil {
			return fmt.Errorf("sending text chunk: %w", err)
		}
	}
	return nil
}

func (e *Engine) sendTextFile(ctx context.Context, chatID int64, localName, text, displayName, caption string) error {
	path, err := render.WriteTXT(e.outputsDir, localName, text)
	if err != nil {
		return err
	}
	return e.telegramRepo.SendDocument(ctx, chatID, path, displayName, caption)
}

func (e *Engine) sendDocxFile(ctx context.Context, chatID int64, localName, text, displayName, caption string) error {
	path, err := render.WriteDOCX(e.outputsDir, localName, text)
	if err != nil {
		return err
	}
	return e.telegramRepo.SendDocument(ctx, chatID, path, displayName, caption)
}

// notify sends a failure notice, swallowing send errors: the original
// failure is already logged and there is nothing better to do
func (e *Engine) notify(ctx context.Context, chatID int64, text string) {
	if chatID == 0 {
		return
	}
	if err := e.telegramRepo.SendMessage(ctx, chatID, text); err != nil {
		logger := log.New(funcframework.LogWriter(ctx), "", 0)
		logger.Printf("Error sending notice to chat %d: %v", chatID, err)
	}
}

// inboundFile picks the file reference of an inbound message: the
// attached document, or the largest variant of an attached photo
func inboundFile(msg *telegram.Message) (fileID, fileName string) {
	if msg.Document != nil {
		name := msg.Document.FileName
		if name == "" {
			name = msg.Document.FileID + ".pdf"
		}
		return msg.Document.FileID, name
	}
	photo := msg.Photo[len(msg.Photo)-1]
	return photo.FileID, photo.FileID + ".jpg"
}

func callbackChatID(cb *telegram.CallbackQuery) int64 {
	if cb.Message == nil {
		return 0
	}
	return cb.Message.Chat.ID
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}

// primaryKeyboard builds the five-option menu shown after extraction
func primaryKeyboard(key string) telegram.InlineKeyboardMarkup {
	return telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{
				{Text: "📩 Message", CallbackData: Command{Kind: KindMessage, Key: key}.CallbackData()},
				{Text: "📄 TXT File", CallbackData: Command{Kind: KindTextFile, Key: key}.CallbackData()},
			},
			{
				{Text: "📄+📩 TXT & Message", CallbackData: Command{Kind: KindBoth, Key: key}.CallbackData()},
				{Text: "📜 Word File (DOCX)", CallbackData: Command{Kind: KindDocxFile, Key: key}.CallbackData()},
			},
			{
				{Text: "📝 Summarize Document", CallbackData: Command{Kind: KindSummarize, Key: key}.CallbackData()},
			},
		},
	}
}

// summaryKeyboard builds the three-option menu shown after summarization
func summaryKeyboard(key string) telegram.InlineKeyboardMarkup {
	return telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{
				{Text: "📩 Message", CallbackData: Command{Kind: KindSummaryMessage, Key: key}.CallbackData()},
				{Text: "📄 TXT File", CallbackData: Command{Kind: KindSummaryTextFile, Key: key}.CallbackData()},
			},
			{
				{Text: "📜 Word File (DOCX)", CallbackData: Command{Kind: KindSummaryDocxFile, Key: key}.CallbackData()},
			},
		},
	}
}
