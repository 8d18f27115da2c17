package main

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"matchday-app/internal/config"
	"matchday-app/internal/fetch"
	"matchday-app/internal/store"
	"matchday-app/internal/web"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

//go:embed templates/* templates/partials/* static/* static/css/*
var content embed.FS

const sessionMaxAge = 7 * 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	config.SetupLogging(cfg)

	templates, err := web.NewTemplates(content)
	if err != nil {
		log.Fatal().Err(err).Msg("templates")
	}

	appStore, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("store")
	}

	client := fetch.NewClient(fetch.Options{
		BaseURL: cfg.UpstreamURL,
		Timeout: cfg.FetchTimeout,
	})
	server := web.NewServer(appStore, templates, client, web.Options{Leagues: cfg.Leagues})

	staticFS, err := fs.Sub(content, "static")
	if err != nil {
		log.Fatal().Err(err).Msg("static fs")
	}
	r := chi.NewRouter()
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	r.Mount("/", server.Routes())

	if cfg.Lambda {
		log.Info().Msg("starting in lambda mode")
		adapter := httpadapter.New(r)
		lambda.Start(adapter.ProxyWithContext)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go pruneSessions(ctx, server)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", cfg.Addr).Str("upstream", cfg.UpstreamURL).Msg("starting http server")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server")
	}
}

func openStore(cfg config.Config) (store.Store, error) {
	switch {
	case cfg.PostgresDSN != "":
		log.Info().Msg("using postgres session store")
		return store.NewPostgresStore(cfg.PostgresDSN, store.PostgresOptions{MigrationsDir: cfg.PostgresMigrationsDir})
	case cfg.DBPath != "":
		log.Info().Str("path", cfg.DBPath).Msg("using sqlite session store")
		return store.NewSQLiteStore(cfg.DBPath, store.SQLiteOptions{MigrationsDir: cfg.DBMigrationsDir})
	}
	log.Info().Msg("using in-memory session store")
	return store.NewMemoryStore(), nil
}

func pruneSessions(ctx context.Context, server *web.Server) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := server.PruneIdle(sessionMaxAge)
			if err != nil {
				log.Warn().Err(err).Msg("prune sessions")
				continue
			}
			if removed > 0 {
				log.Info().Int("removed", removed).Msg("pruned idle sessions")
			}
		}
	}
}
