package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"github.com/pep299/docai-telegram-bot/internal/application"
	"github.com/pep299/docai-telegram-bot/internal/infrastructure"
)

var (
	Version   string = "dev"
	Commit    string = "unknown"
	BuildTime string = "unknown"
)

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showHelp {
		fmt.Printf("Document AI Telegram Bot\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nEnvironment Variables:\n")
		fmt.Printf("  BOT_TOKEN                Telegram bot token (required)\n")
		fmt.Printf("  PROJECT_ID               Google Cloud project ID (required)\n")
		fmt.Printf("  LOCATION                 Document AI location (default: us)\n")
		fmt.Printf("  PROCESSOR_ID             Extraction processor ID (required)\n")
		fmt.Printf("  SUMMARIZER_PROCESSOR_ID  Summarizer processor ID (required)\n")
		fmt.Printf("  GOOGLE_CREDENTIALS       Service account key file path\n")
		fmt.Printf("  SESSION_STORE            Session store: memory or cloud-storage (default: memory)\n")
		fmt.Printf("  SESSION_TTL              Session lifetime (default: 24h)\n")
		fmt.Printf("  FILE_TTL                 Downloaded/rendered file lifetime (default: 24h)\n")
		os.Exit(0)
	}

	if *showVersion {
		fmt.Printf("Document AI Telegram Bot\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Commit: %s\n", Commit)
		fmt.Printf("Build Time: %s\n", BuildTime)
		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create application
	app, err := application.New(ctx)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}
	defer app.Close()

	// Schedule stale-file sweeps so downloads and outputs don't grow
	// without bound
	c := cron.New()
	_, err = c.AddFunc("@hourly", func() {
		sweepFiles(app)
		if app.SessionSweeper != nil {
			if removed, err := app.SessionSweeper.Sweep(ctx); err != nil {
				log.Printf("❌ Session sweep failed: %v", err)
			} else if removed > 0 {
				log.Printf("🧹 Swept %d expired session entries", removed)
			}
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule cleanup: %v", err)
	}
	c.Start()
	defer c.Stop()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start the update poller
	errChan := make(chan error, 1)
	go func() {
		log.Printf("🤖 Bot is running!")
		errChan <- app.Poller.Run(ctx)
	}()

	select {
	case <-sigChan:
		log.Println("🛑 Shutting down bot...")
		cancel()
		<-errChan
	case err := <-errChan:
		if err != nil && err != context.Canceled {
			log.Fatalf("Poller stopped: %v", err)
		}
	}

	log.Println("✅ Bot stopped")
}

func sweepFiles(app *application.Application) {
	for _, dir := range []string{app.Config.DownloadsDir, app.Config.OutputsDir} {
		removed, err := infrastructure.SweepDir(dir, app.Config.FileTTL)
		if err != nil {
			log.Printf("❌ File sweep failed for %s: %v", dir, err)
			continue
		}
		if removed > 0 {
			log.Printf("🧹 Swept %d stale files from %s", removed, dir)
		}
	}
}
