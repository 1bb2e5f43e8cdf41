package main

import (
	"MomentumBot/api"
	"MomentumBot/config"
	"MomentumBot/handler"
	"MomentumBot/repo"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("error loading configuration")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store, err := repo.NewFirestoreConnector(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("error initializing Firestore")
	}
	defer store.Close()

	codes, err := repo.LoadCodePool(cfg.CodesFile)
	if err != nil {
		log.Fatal().Err(err).Msg("error loading event code pool")
	}
	log.Info().Int("codes", codes.Size()).Msg("loaded event code pool")

	slackClient := slack.New(cfg.SlackBotToken)
	router := handler.NewRouter(cfg, store, slackClient, codes)
	server := api.NewServer(store, router)

	engine := gin.Default()
	server.RegisterRoutes(engine)

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: engine,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("bot listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error shutting down server")
	}
	log.Info().Msg("bot stopped")
}
