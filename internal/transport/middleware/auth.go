package middleware

import (
	"crypto/subtle"
	"net/http"
)

// Telegram echoes the secret token configured on setWebhook in this
// header on every webhook delivery.
const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// Auth creates a webhook authentication middleware for http.Handler.
// An empty configured token disables the check (local development).
func Auth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Check POST method
			if r.Method != "POST" {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
				return
			}

			// Check secret token
			if token != "" {
				got := r.Header.Get(secretTokenHeader)
				if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
					http.Error(w, "Unauthorized", http.StatusUnauthorized)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
