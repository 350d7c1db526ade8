package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isdelr/fluxfeed-be/internal/api"
	"github.com/isdelr/fluxfeed-be/internal/auth"
	"github.com/isdelr/fluxfeed-be/internal/config"
	"github.com/isdelr/fluxfeed-be/internal/logger"
	"github.com/isdelr/fluxfeed-be/internal/monitoring"
	"github.com/isdelr/fluxfeed-be/internal/policy"
	"github.com/isdelr/fluxfeed-be/internal/resolve"
	"github.com/isdelr/fluxfeed-be/internal/services"
	"github.com/isdelr/fluxfeed-be/internal/store/sqlite"
	"github.com/isdelr/fluxfeed-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set up database-backed stores
	db, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	// Session and credential primitives share the config, never globals
	tokens := auth.NewTokenCodec(cfg.JWTSecret, cfg.TokenTTL)
	hasher := auth.NewHasher(cfg.BcryptCost)

	// Set up WebSocket hub for the activity stream
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	eventService := services.NewEventService(db.Events, hub)
	userService := services.NewUserService(db.Users, hasher, tokens, eventService)
	postService := services.NewPostService(db.Posts, db.Comments, eventService)
	resolver := resolve.New(db.Users, db.Posts, db.Comments)

	// Register operations; protection is declared here and nowhere else
	registry := policy.NewRegistry()
	api.NewOperations(userService, postService, eventService, resolver).Register(registry)

	// Set up and run the background activity snapshotter
	snapshotter := monitoring.NewSnapshotter(db.DB(), eventService)
	if err := snapshotter.Start(cfg.SnapshotSpec); err != nil {
		log.Fatal().Err(err).Msg("Failed to start snapshotter")
	}

	// Set up router
	router := api.NewRouter(tokens, registry, hub, cfg.AllowedOrigin)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	snapshotter.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
