package infrastructure

import (
	"errors"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("BOT_TOKEN", "12345:secret")
	t.Setenv("PROJECT_ID", "test-project")
	t.Setenv("PROCESSOR_ID", "proc-1")
	t.Setenv("SUMMARIZER_PROCESSOR_ID", "proc-2")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	config, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if config.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", config.Port)
	}
	if config.Location != "us" {
		t.Errorf("Expected default location us, got %s", config.Location)
	}
	if config.SessionStore != "memory" {
		t.Errorf("Expected default session store memory, got %s", config.SessionStore)
	}
	if config.SessionTTL != 24*time.Hour {
		t.Errorf("Expected default session TTL 24h, got %v", config.SessionTTL)
	}
	if config.MessageChunkSize != 4096 {
		t.Errorf("Expected default chunk size 4096, got %d", config.MessageChunkSize)
	}
	if config.ProcessTimeout != 120*time.Second {
		t.Errorf("Expected default process timeout 120s, got %v", config.ProcessTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LOCATION", "eu")
	t.Setenv("SESSION_STORE", "cloud-storage")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("MESSAGE_CHUNK_SIZE", "512")
	t.Setenv("PROCESS_TIMEOUT", "45s")

	config, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if config.Location != "eu" {
		t.Errorf("Expected location eu, got %s", config.Location)
	}
	if config.SessionStore != "cloud-storage" {
		t.Errorf("Expected session store cloud-storage, got %s", config.SessionStore)
	}
	if config.SessionTTL != 30*time.Minute {
		t.Errorf("Expected session TTL 30m, got %v", config.SessionTTL)
	}
	if config.MessageChunkSize != 512 {
		t.Errorf("Expected chunk size 512, got %d", config.MessageChunkSize)
	}
	if config.ProcessTimeout != 45*time.Second {
		t.Errorf("Expected process timeout 45s, got %v", config.ProcessTimeout)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	tests := []struct {
		name  string
		unset string
		field string
	}{
		{"missing bot token", "BOT_TOKEN", "BOT_TOKEN"},
		{"missing project", "PROJECT_ID", "PROJECT_ID"},
		{"missing processor", "PROCESSOR_ID", "PROCESSOR_ID"},
		{"missing summarizer processor", "SUMMARIZER_PROCESSOR_ID", "SUMMARIZER_PROCESSOR_ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.unset, "")

			_, err := Load()
			if err == nil {
				t.Fatal("Expected error, got nil")
			}

			var configErr *ConfigError
			if !errors.As(err, &configErr) {
				t.Fatalf("Expected ConfigError, got %T", err)
			}
			if configErr.Field != tt.field {
				t.Errorf("Expected error field %s, got %s", tt.field, configErr.Field)
			}
		})
	}
}

func TestLoadMalformedBotToken(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BOT_TOKEN", "no-colon-here")

	_, err := Load()
	if err == nil {
		t.Fatal("Expected error, got nil")
	}

	var configErr *ConfigError
	if !errors.As(err, &configErr) {
		t.Fatalf("Expected ConfigError, got %T", err)
	}
	if configErr.Field != "BOT_TOKEN" {
		t.Errorf("Expected error field BOT_TOKEN, got %s", configErr.Field)
	}
}

func TestLoadInvalidSessionStore(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SESSION_STORE", "redis")

	_, err := Load()
	if err == nil {
		t.Fatal("Expected error, got nil")
	}

	var configErr *ConfigError
	if !errors.As(err, &configErr) {
		t.Fatalf("Expected ConfigError, got %T", err)
	}
	if configErr.Field != "SESSION_STORE" {
		t.Errorf("Expected error field SESSION_STORE, got %s", configErr.Field)
	}
}

func TestConfigErrorMessage(t *testing.T) {
	err := &ConfigError{Field: "BOT_TOKEN", Message: "Telegram bot token is required"}
	expected := "BOT_TOKEN: Telegram bot token is required"
	if err.Error() != expected {
		t.Errorf("Expected %q, got %q", expected, err.Error())
	}
}
