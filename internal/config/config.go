package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the bot
type Config struct {
	// Discord
	DiscordToken string

	// Storage
	DataDir string

	// Channels for automated announcements. An empty ID disables the
	// corresponding announcement.
	RolesChannelID    string
	VoiceLogChannelID string

	// Trivia
	TriviaBaseURL string

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		DiscordToken:      os.Getenv("DISCORD_BOT_TOKEN"),
		DataDir:           getEnvOrDefault("DATA_DIR", "./guild_data"),
		RolesChannelID:    os.Getenv("ROLES_CHANNEL_ID"),
		VoiceLogChannelID: os.Getenv("VOICE_LOG_CHANNEL_ID"),
		TriviaBaseURL:     getEnvOrDefault("TRIVIA_BASE_URL", "https://opentdb.com"),
		LogLevel:          getEnvOrDefault("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if cfg.DiscordToken == "" {
		return nil, fmt.Errorf("DISCORD_BOT_TOKEN is required")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
