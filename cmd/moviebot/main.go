// main.go — Moviebot, a chat-driven movie catalog.
//
// Users manage a shared movie list with prefixed text commands
// (default prefix "!"):
//
//	!addmovie <name>[*<name>...]   — add movies, enriched once from TMDB
//	!listmovies                    — list every movie, chunked to fit the transport
//	!updatemovie <old> <new...>    — rename a movie
//	!deletemovie <name>            — delete a movie
//	!deleteall                     — delete every movie
//	!randommovie                   — pick a random movie
//	!roll <sides>                  — roll a dice
//	!setprefix <p>                 — change the command prefix
//	!help                          — command summary
//
// Ops endpoints (env: MOVIEBOT_OPS_ADDR, default :8112):
//
//	GET /health    — liveness + record count
//	GET /metrics   — Prometheus scrape endpoint
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/kylemdonovan/moviebot/internal/bot"
	"github.com/kylemdonovan/moviebot/internal/catalog"
	"github.com/kylemdonovan/moviebot/internal/config"
	"github.com/kylemdonovan/moviebot/internal/logger"
	"github.com/kylemdonovan/moviebot/internal/metrics"
	"github.com/kylemdonovan/moviebot/internal/telemetry"
	"github.com/kylemdonovan/moviebot/internal/tmdb"
	"github.com/kylemdonovan/moviebot/internal/transport"
)

// version is stamped at build time: -ldflags "-X main.version=$(git rev-parse --short HEAD)"
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.LogFormat, cfg.LogLevel)

	if err := telemetry.Init(cfg.SentryDSN, version); err != nil {
		log.Warn("sentry init failed, continuing without error reporting", "error", err)
	}
	defer telemetry.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := catalog.OpenPG(ctx, cfg.PostgresURL)
	if err != nil {
		log.Error("postgres connection failed", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	enricher := tmdb.NewClient(cfg.TMDBAPIKey, log)
	repo := catalog.NewRepository(store, enricher, log)
	router := bot.NewRouter(cfg.Prefix, repo, log)

	tg, err := transport.NewTelegram(cfg.TelegramToken, router, log)
	if err != nil {
		log.Error("telegram auth failed", "error", err)
		os.Exit(1)
	}

	go serveOps(ctx, cfg.OpsAddr, store, log)

	log.Info("moviebot starting", "version", version, "prefix", cfg.Prefix)
	if err := tg.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("transport stopped", "error", err)
		os.Exit(1)
	}
	log.Info("moviebot shut down")
}

// serveOps exposes /health and /metrics for probes and Prometheus. The
// listener dies with the process; no graceful drain needed for two GETs.
func serveOps(ctx context.Context, addr string, store *catalog.PGStore, log *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		count, err := store.Count(r.Context())
		status := "ok"
		if err != nil {
			status = "degraded"
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  status,
			"service": "moviebot",
			"movies":  count,
		})
	})

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()
	log.Info("ops server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("ops server failed", "error", err)
	}
}
