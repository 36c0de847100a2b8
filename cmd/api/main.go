package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vml-arquivos/font-conexa-v2/internal/audit"
	"github.com/vml-arquivos/font-conexa-v2/internal/auth"
	"github.com/vml-arquivos/font-conexa-v2/internal/compras"
	"github.com/vml-arquivos/font-conexa-v2/internal/conexa"
	"github.com/vml-arquivos/font-conexa-v2/internal/config"
	"github.com/vml-arquivos/font-conexa-v2/internal/db"
	"github.com/vml-arquivos/font-conexa-v2/internal/diario"
	"github.com/vml-arquivos/font-conexa-v2/internal/gate"
	internalhttp "github.com/vml-arquivos/font-conexa-v2/internal/http"
	"github.com/vml-arquivos/font-conexa-v2/internal/session"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("api encerrada com erro")
	}
}

func run() error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx := context.Background()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("redis parse: %w", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	var pool *pgxpool.Pool
	if cfg.AuditDBDSN != "" {
		pool, err = db.NewPool(ctx, cfg.AuditDBDSN)
		if err != nil {
			return fmt.Errorf("auditoria db: %w", err)
		}
		defer pool.Close()
	} else {
		log.Info().Msg("AUDIT_DB_DSN ausente: auditoria persistente desligada")
	}
	recorder := audit.NewRecorder(pool)

	backend, err := conexa.New(conexa.Config{BaseURL: cfg.ConexaBaseURL, Timeout: cfg.ConexaTimeout})
	if err != nil {
		return fmt.Errorf("conexa: %w", err)
	}

	loc, err := gate.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("timezone: %w", err)
	}

	store := session.NewStore(redisClient, cfg.SessionTTL)
	jwtManager := auth.NewJWTManager(cfg.SessionSecret, cfg.AccessTTL)
	sessions := session.NewManager(backend, store, jwtManager, cfg.RefreshTTL)

	comprasService := compras.NewService(backend, recorder)
	diarioService := diario.NewService(backend, store, loc)

	handler := internalhttp.NewRouter(cfg, backend, sessions, recorder, comprasService, diarioService)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("API ouvindo em :%d", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("encerrando...")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
