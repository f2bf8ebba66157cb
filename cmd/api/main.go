package main

import (
	"net/http"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/tunebridge/tunebridge/internal/adapters"
	"github.com/tunebridge/tunebridge/internal/adapters/applemusic"
	"github.com/tunebridge/tunebridge/internal/adapters/deezer"
	handler "github.com/tunebridge/tunebridge/internal/adapters/http"
	"github.com/tunebridge/tunebridge/internal/adapters/spotify"
	"github.com/tunebridge/tunebridge/internal/adapters/youtube"
	"github.com/tunebridge/tunebridge/internal/app"
	"github.com/tunebridge/tunebridge/internal/config"

	_ "github.com/tunebridge/tunebridge/docs"
)

// @title			TuneBridge API
// @version		1.0
// @description	API for transferring playlists between streaming services
// @description	(Spotify, YouTube Music, Deezer, Apple Music). Transfers stream
// @description	phase-by-phase progress over server-sent events.

// @contact.name	TuneBridge API Support
// @license.name	MIT

// @host		localhost:8080
// @BasePath	/

// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
// @description				Bearer token for the streaming provider (e.g. "Bearer your_token_here")
func main() {
	cfg := config.Load()

	logger := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
		Prefix:          "tunebridge",
	})
	if level, err := charmlog.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	httpClient := &http.Client{}

	registry := adapters.NewProviderRegistry(
		spotify.NewProvider(httpClient, cfg.Spotify.ClientID, cfg.Spotify.ClientSecret, cfg.Spotify.RedirectURL),
		youtube.NewProvider(httpClient, cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.RedirectURL),
		deezer.NewProvider(httpClient, cfg.Deezer.ClientID, cfg.Deezer.ClientSecret, cfg.Deezer.RedirectURL),
		applemusic.NewProvider(httpClient, cfg.AppleDeveloperToken, cfg.AppleAppID, cfg.AppleRedirectURL),
	)

	transferService := app.NewService(registry, logger)

	r := gin.Default()
	h := handler.NewHandler(transferService)
	h.RegisterRoutes(r)

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	addr := ":" + cfg.Port
	logger.Info("starting TuneBridge API", "addr", addr)
	logger.Info("registered providers", "providers", registry.List())
	logger.Info("swagger UI", "url", "http://localhost"+addr+"/swagger/index.html")

	if err := r.Run(addr); err != nil {
		logger.Fatal("failed to start server", "err", err)
	}
}
