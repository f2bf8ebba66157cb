package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// OAuthCredentials holds one provider's OAuth application credentials.
type OAuthCredentials struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Port     string
	LogLevel string

	Spotify OAuthCredentials
	Google  OAuthCredentials
	Deezer  OAuthCredentials

	AppleDeveloperToken string
	AppleAppID          string
	AppleRedirectURL    string
}

// Load reads configuration from .env file (if present) and environment variables.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		Spotify: OAuthCredentials{
			ClientID:     os.Getenv("SPOTIFY_CLIENT_ID"),
			ClientSecret: os.Getenv("SPOTIFY_CLIENT_SECRET"),
			RedirectURL:  getEnv("SPOTIFY_REDIRECT_URI", "http://localhost:8080/callback/spotify"),
		},
		Google: OAuthCredentials{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			RedirectURL:  getEnv("GOOGLE_REDIRECT_URI", "http://localhost:8080/callback/youtube"),
		},
		Deezer: OAuthCredentials{
			ClientID:     os.Getenv("DEEZER_APP_ID"),
			ClientSecret: os.Getenv("DEEZER_APP_SECRET"),
			RedirectURL:  getEnv("DEEZER_REDIRECT_URI", "http://localhost:8080/callback/deezer"),
		},

		AppleDeveloperToken: os.Getenv("APPLE_DEVELOPER_TOKEN"),
		AppleAppID:          os.Getenv("APPLE_APP_ID"),
		AppleRedirectURL:    getEnv("APPLE_REDIRECT_URI", "http://localhost:8080/callback/applemusic"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
