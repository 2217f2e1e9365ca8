package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"

	"github.com/pep299/docai-telegram-bot/internal/service/workflow"
	"github.com/pep299/docai-telegram-bot/internal/telegram"
	"github.com/pep299/docai-telegram-bot/internal/transport/response"
)

// Webhook receives Telegram webhook deliveries and feeds them to the
// workflow engine
type Webhook struct {
	engine *workflow.Engine
}

func NewWebhook(engine *workflow.Engine) *Webhook {
	return &Webhook{engine: engine}
}

func (h *Webhook) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := log.New(funcframework.LogWriter(r.Context()), "", 0)

	var update telegram.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		logger.Printf("Invalid webhook payload: %v", err)
		response.WriteBadRequest(w, "Invalid update payload")
		return
	}

	logger.Printf("Webhook update received update_id=%d", update.UpdateID)

	// Handled synchronously: Telegram retries on non-200, and a Cloud
	// Functions instance may be frozen once the response is written.
	h.engine.HandleUpdate(r.Context(), update)

	response.WriteSuccess(w, "Update processed", nil)
}
