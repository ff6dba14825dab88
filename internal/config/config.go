package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Server   ServerConfig
	Slack    SlackConfig
	AI       AIConfig
	ToolExec ToolExecConfig
	Token    TokenConfig
	Policy   PolicyConfig
	Postgres PostgresConfig
}

type ServerConfig struct {
	Port        string
	CORSOrigins []string
}

type SlackConfig struct {
	BotToken      string
	SigningSecret string
}

type AIConfig struct {
	APIKey string
	// EmbedModel / ChatModel default to text-embedding-004 / gemini-2.0-flash
	EmbedModel string
	ChatModel  string
	// MaxEmbeddingChars is the configured truncation point for embedding input.
	MaxEmbeddingChars int
	RetrievalLimit    int
}

type ToolExecConfig struct {
	BaseURL string
}

type TokenConfig struct {
	SigningSecret string
}

type PolicyConfig struct {
	// DiskAutoThreshold is the minimum parse confidence for AUTO_REPLACE
	// on disk-utilization alerts.
	DiskAutoThreshold float64
}

type PostgresConfig struct {
	DatabaseURL string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	SSLMode     string
}

func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:        getenv("PORT", "3000"),
			CORSOrigins: splitList(os.Getenv("CORS_ORIGINS")),
		},
		Slack: SlackConfig{
			BotToken:      os.Getenv("SLACK_BOT_TOKEN"),
			SigningSecret: os.Getenv("SLACK_SIGNING_SECRET"),
		},
		AI: AIConfig{
			APIKey:            os.Getenv("AI_API_KEY"),
			EmbedModel:        os.Getenv("AI_EMBED_MODEL"),
			ChatModel:         os.Getenv("AI_CHAT_MODEL"),
			MaxEmbeddingChars: getenvInt("MAX_EMBEDDING_LENGTH", 10000),
			RetrievalLimit:    getenvInt("RETRIEVAL_LIMIT", 5),
		},
		ToolExec: ToolExecConfig{
			BaseURL: os.Getenv("TOOL_EXEC_URL"),
		},
		Token: TokenConfig{
			SigningSecret: os.Getenv("TOKEN_SIGNING_SECRET"),
		},
		Policy: PolicyConfig{
			DiskAutoThreshold: getenvFloat("AUTO_THRESHOLD_DISK", 0.95),
		},
		Postgres: PostgresConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Host:        getenv("PGHOST", "localhost"),
			Port:        getenv("PGPORT", "5432"),
			User:        os.Getenv("PGUSER"),
			Password:    os.Getenv("PGPASSWORD"),
			Database:    os.Getenv("PGDATABASE"),
			SSLMode:     getenv("PGSSLMODE", "disable"),
		},
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func getenvFloat(key string, fallback float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitList(val string) []string {
	if val == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
