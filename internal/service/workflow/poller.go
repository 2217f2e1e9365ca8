package workflow

import (
	"context"
	"log"
	"runtime/debug"
	"time"

	"github.com/pep299/docai-telegram-bot/internal/repository"
	"github.com/pep299/docai-telegram-bot/internal/telegram"
)

// Poller drives the engine from the Bot API long-polling endpoint
type Poller struct {
	engine       *Engine
	telegramRepo repository.TelegramRepository
	pollTimeout  int
}

// NewPoller creates an update poller
func NewPoller(engine *Engine, telegramRepo repository.TelegramRepository) *Poller {
	return &Poller{
		engine:       engine,
		telegramRepo: telegramRepo,
		pollTimeout:  30,
	}
}

// Run polls for updates until ctx is canceled. Each update is handled in
// its own goroutine so one slow extraction does not stall acknowledgment
// of unrelated events.
func (p *Poller) Run(ctx context.Context) error {
	var offset int64

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		updates, err := p.telegramRepo.GetUpdates(ctx, offset, p.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("❌ Error fetching updates: %v", err)
			time.Sleep(3 * time.Second)
			continue
		}

		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			go p.dispatch(ctx, update)
		}
	}
}

// dispatch guards the engine against panics so one failing session never
// takes down the update loop
func (p *Poller) dispatch(ctx context.Context, update telegram.Update) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Panic handling update %d: %v\nStack:\n%s", update.UpdateID, r, debug.Stack())
		}
	}()

	p.engine.HandleUpdate(ctx, update)
}
