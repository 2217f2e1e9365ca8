package infrastructure

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server settings (webhook mode)
	Port string `json:"port"`
	Host string `json:"host"`

	// Telegram settings
	BotToken           string `json:"-"` // Don't expose in JSON
	WebhookSecretToken string `json:"-"` // Don't expose in JSON

	// Document AI settings
	ProjectID             string `json:"project_id"`
	Location              string `json:"location"`
	ProcessorID           string `json:"processor_id"`
	SummarizerProcessorID string `json:"summarizer_processor_id"`
	CredentialsFile       string `json:"-"` // Don't expose in JSON

	// Local storage settings
	DownloadsDir string `json:"downloads_dir"`
	OutputsDir   string `json:"outputs_dir"`

	// Session store settings
	SessionStore  string        `json:"session_store"` // "memory" or "cloud-storage"
	SessionBucket string        `json:"session_bucket"`
	SessionTTL    time.Duration `json:"session_ttl"`
	FileTTL       time.Duration `json:"file_ttl"`

	// Delivery settings
	MessageChunkSize int           `json:"message_chunk_size"`
	ProcessTimeout   time.Duration `json:"process_timeout"`
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	config := &Config{
		Port:                  getEnvOrDefault("PORT", "8080"),
		Host:                  getEnvOrDefault("HOST", "0.0.0.0"),
		BotToken:              getEnvOrDefault("BOT_TOKEN", ""),
		WebhookSecretToken:    getEnvOrDefault("WEBHOOK_SECRET_TOKEN", ""),
		ProjectID:             getEnvOrDefault("PROJECT_ID", ""),
		Location:              getEnvOrDefault("LOCATION", "us"),
		ProcessorID:           getEnvOrDefault("PROCESSOR_ID", ""),
		SummarizerProcessorID: getEnvOrDefault("SUMMARIZER_PROCESSOR_ID", ""),
		CredentialsFile:       getEnvOrDefault("GOOGLE_CREDENTIALS", ""),
		DownloadsDir:          getEnvOrDefault("DOWNLOADS_DIR", "downloads"),
		OutputsDir:            getEnvOrDefault("OUTPUTS_DIR", "outputs"),
		SessionStore:          getEnvOrDefault("SESSION_STORE", "memory"),
		SessionBucket:         getEnvOrDefault("SESSION_BUCKET", "docai-telegram-sessions"),
		SessionTTL:            getEnvOrDefaultDuration("SESSION_TTL", 24*time.Hour),
		FileTTL:               getEnvOrDefaultDuration("FILE_TTL", 24*time.Hour),
		MessageChunkSize:      getEnvOrDefaultInt("MESSAGE_CHUNK_SIZE", 4096),
		ProcessTimeout:        getEnvOrDefaultDuration("PROCESS_TIMEOUT", 120*time.Second),
	}

	return config, config.validate()
}

// validate checks if required configuration values are present
func (c *Config) validate() error {
	if c.BotToken == "" {
		return &ConfigError{Field: "BOT_TOKEN", Message: "Telegram bot token is required"}
	}
	if !strings.Contains(c.BotToken, ":") {
		return &ConfigError{Field: "BOT_TOKEN", Message: "must have the form <id>:<secret>"}
	}
	if c.ProjectID == "" {
		return &ConfigError{Field: "PROJECT_ID", Message: "Google Cloud project ID is required"}
	}
	if c.ProcessorID == "" {
		return &ConfigError{Field: "PROCESSOR_ID", Message: "Document AI processor ID is required"}
	}
	if c.SummarizerProcessorID == "" {
		return &ConfigError{Field: "SUMMARIZER_PROCESSOR_ID", Message: "Document AI summarizer processor ID is required"}
	}
	if c.SessionStore != "memory" && c.SessionStore != "cloud-storage" {
		return &ConfigError{Field: "SESSION_STORE", Message: "must be memory or cloud-storage"}
	}
	if c.MessageChunkSize <= 0 {
		return &ConfigError{Field: "MESSAGE_CHUNK_SIZE", Message: "must be positive"}
	}
	return nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default if not set
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvOrDefaultDuration returns environment variable value as duration or default if not set
func getEnvOrDefaultDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
