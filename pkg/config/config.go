package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	GitHub   GitHubConfig
	Avatar   AvatarConfig
	Renderer RendererConfig
	Log      LogConfig
}

type GitHubConfig struct {
	Token   string
	APIURL  string
	Timeout int // seconds
}

type AvatarConfig struct {
	Width   int
	Height  int
	Timeout int // seconds
}

type RendererConfig struct {
	Binary  string
	Timeout int // seconds
}

type LogConfig struct {
	Level  string
	Format string
}

var AppConfig *Config

// Load loads configuration from .env file and environment variables
func Load() error {
	// a missing .env file is fine, an unreadable or malformed one is not
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}

	AppConfig = &Config{
		GitHub: GitHubConfig{
			Token:   strings.TrimSpace(os.Getenv("GITHUB_TOKEN")),
			APIURL:  getEnv("GITHUB_API_URL", "https://api.github.com"),
			Timeout: getEnvAsInt("HTTP_TIMEOUT", 10),
		},
		Avatar: AvatarConfig{
			Width:   getEnvAsInt("AVATAR_WIDTH", 24),
			Height:  getEnvAsInt("AVATAR_HEIGHT", 12),
			Timeout: getEnvAsInt("AVATAR_TIMEOUT", 5),
		},
		Renderer: RendererConfig{
			Binary:  getEnv("RENDERER_BIN", "chafa"),
			Timeout: getEnvAsInt("RENDER_TIMEOUT", 10),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "warn"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}

	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets a positive integer environment variable or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}
