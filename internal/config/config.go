package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	Discord   DiscordConfig
	Redis     RedisConfig
	Archetype ArchetypeConfig
}

// DiscordConfig holds Discord-specific configuration
type DiscordConfig struct {
	Token   string
	AppID   string
	GuildID string // Optional: for guild-specific commands

	// NotifyChannelID is the channel apply/remove notifications go to.
	// Empty means notifications only reach the log.
	NotifyChannelID string
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// ArchetypeConfig holds archetype content source configuration
type ArchetypeConfig struct {
	// BaseURL points at the archetype content API serving archetype and
	// feature records.
	BaseURL string

	// Curators lists user IDs allowed to write the curated fix tier.
	Curators []string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Discord: DiscordConfig{
			Token:           os.Getenv("DISCORD_TOKEN"),
			AppID:           os.Getenv("DISCORD_APP_ID"),
			GuildID:         os.Getenv("DISCORD_GUILD_ID"),
			NotifyChannelID: os.Getenv("DISCORD_NOTIFY_CHANNEL"),
		},
		Redis: RedisConfig{
			Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvAsIntOrDefault("REDIS_DB", 0),
		},
		Archetype: ArchetypeConfig{
			BaseURL:  getEnvOrDefault("ARCHETYPE_API_URL", "https://api.pathbinder.dev/v1"),
			Curators: splitList(os.Getenv("ARCHETYPE_CURATORS")),
		},
	}

	// Validate required fields
	if cfg.Discord.Token == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN is required")
	}
	if cfg.Discord.AppID == "" {
		return nil, fmt.Errorf("DISCORD_APP_ID is required")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}

	var out []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
