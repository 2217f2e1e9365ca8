package application

import (
	"context"
	"fmt"
	"os"

	"github.com/pep299/docai-telegram-bot/internal/docai"
	"github.com/pep299/docai-telegram-bot/internal/infrastructure"
	"github.com/pep299/docai-telegram-bot/internal/repository"
	"github.com/pep299/docai-telegram-bot/internal/service/workflow"
	"github.com/pep299/docai-telegram-bot/internal/session"
	"github.com/pep299/docai-telegram-bot/internal/telegram"
	"github.com/pep299/docai-telegram-bot/internal/transport/handler"
)

// Application represents the application with all business logic components
type Application struct {
	Config         *infrastructure.Config
	Engine         *workflow.Engine
	Poller         *workflow.Poller
	WebhookHandler *handler.Webhook

	// SessionSweeper is set only for the Cloud Storage session backing;
	// the in-memory store sweeps itself.
	SessionSweeper *session.CloudStorageStore

	cleanup func() error
}

// New creates a new application instance with all dependencies
func New(ctx context.Context) (*Application, error) {
	// Load configuration
	cfg, err := infrastructure.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	// Both directories must exist before the first download
	if err := os.MkdirAll(cfg.DownloadsDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating downloads dir: %w", err)
	}
	if err := os.MkdirAll(cfg.OutputsDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating outputs dir: %w", err)
	}

	// Initialize session store backing
	var store session.Store
	var sweeper *session.CloudStorageStore
	switch cfg.SessionStore {
	case "cloud-storage":
		gcsStore, err := session.NewCloudStorageStore(ctx, cfg.SessionBucket, cfg.SessionTTL)
		if err != nil {
			return nil, fmt.Errorf("creating cloud storage session store: %w", err)
		}
		store = gcsStore
		sweeper = gcsStore
	default:
		store = session.NewMemoryStore(cfg.SessionTTL)
	}

	// Create clients
	telegramClient := telegram.NewClient(cfg.BotToken)
	docaiClient, err := docai.NewClient(ctx, cfg.ProjectID, cfg.Location,
		cfg.ProcessorID, cfg.SummarizerProcessorID, cfg.CredentialsFile)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("creating documentai client: %w", err)
	}

	// Create repositories
	telegramRepo := repository.NewTelegramRepository(telegramClient)
	processorRepo := repository.NewProcessorRepository(docaiClient)
	sessionRepo := repository.NewSessionRepository(store)

	// Create the workflow engine and its entry points
	engine := workflow.NewEngine(telegramRepo, processorRepo, sessionRepo,
		cfg.DownloadsDir, cfg.OutputsDir, cfg.MessageChunkSize, cfg.ProcessTimeout)
	poller := workflow.NewPoller(engine, telegramRepo)
	webhookHandler := handler.NewWebhook(engine)

	// Cleanup function
	cleanup := func() error {
		return sessionRepo.Close()
	}

	return &Application{
		Config:         cfg,
		Engine:         engine,
		Poller:         poller,
		WebhookHandler: webhookHandler,
		SessionSweeper: sweeper,
		cleanup:        cleanup,
	}, nil
}

// Close cleans up application resources
func (a *Application) Close() error {
	if a.cleanup != nil {
		return a.cleanup()
	}
	return nil
}
