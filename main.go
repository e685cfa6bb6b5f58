// main.go
//
// Entry point for the card games server.
//   - Loads .env (development), then environment config.
//   - Loads the card catalog from CARDS_FILE, CARDS_URL, or the embedded set.
//   - Opens the high score backend selected by SCORE_BACKEND.
//   - Serves HTTP until SIGINT/SIGTERM.

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/cardgames/internal/cards"
	"github.com/robalobadob/cardgames/internal/config"
	"github.com/robalobadob/cardgames/internal/httpserver"
	"github.com/robalobadob/cardgames/internal/logging"
	"github.com/robalobadob/cardgames/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadApp()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logging.Init(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog := cards.New(catalogSource(cfg.Server))
	if list, err := catalog.Load(ctx); err != nil {
		// The server still starts; /health reports the failure and every
		// game start answers not_enough_cards.
		log.Warn().Err(err).Msg("card catalog unavailable")
	} else {
		log.Info().Int("cards", len(list)).Msg("card catalog loaded")
	}

	kv, err := store.Open(ctx, cfg.Store)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Store.Backend).Msg("failed to open score store")
	}
	defer kv.Close()

	srv := httpserver.New(cfg.Server, catalog, kv)
	log.Info().Str("addr", cfg.Server.HTTPAddr).Str("backend", cfg.Store.Backend).Msg("starting cardgames server")
	if err := srv.Start(ctx, cfg.Server.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

func catalogSource(cfg config.ServerConfig) cards.Source {
	switch {
	case cfg.CardsFile != "":
		return cards.FileSource(cfg.CardsFile)
	case cfg.CardsURL != "":
		return cards.HTTPSource(cfg.CardsURL, nil)
	}
	return cards.EmbeddedSource()
}
