package server

import (
	"context"
	"log"
	"net/http"
	"runtime/debug"

	"github.com/gorilla/mux"

	"github.com/pep299/docai-telegram-bot/internal/application"
	"github.com/pep299/docai-telegram-bot/internal/transport/middleware"
	"github.com/pep299/docai-telegram-bot/internal/transport/response"
)

// CreateHandler creates the main HTTP handler for webhook-mode operation
func CreateHandler() (http.Handler, func(), error) {
	// Create application (handles all DI and business logic)
	app, err := application.New(context.Background())
	if err != nil {
		log.Printf("Error creating application: %v\nStack:\n%s", err, debug.Stack())
		return nil, nil, err
	}

	// Create auth middleware
	authMiddleware := middleware.Auth(app.Config.WebhookSecretToken)

	// Setup routes (pure HTTP routing)
	router := mux.NewRouter()
	router.Handle("/webhook", authMiddleware(app.WebhookHandler)).Methods("POST")
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		response.WriteSuccess(w, "ok", nil)
	}).Methods("GET")

	// Return handler and cleanup function
	cleanup := func() {
		app.Close()
	}

	return router, cleanup, nil
}

// HandleRequest handles a single HTTP request (for Cloud Functions)
func HandleRequest(w http.ResponseWriter, r *http.Request) {
	handler, cleanup, err := CreateHandler()
	if err != nil {
		log.Printf("Failed to create handler: %v\nStack:\n%s", err, debug.Stack())
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	defer cleanup()

	handler.ServeHTTP(w, r)
}
