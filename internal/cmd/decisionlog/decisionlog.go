// Package decisionlog parses API service flags and launches the service.
package decisionlog

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/louisbranch/decisionlog/internal/auth"
	decisiondomain "github.com/louisbranch/decisionlog/internal/decision/domain"
	api "github.com/louisbranch/decisionlog/internal/http"
	msgdomain "github.com/louisbranch/decisionlog/internal/messaging/domain"
	entrypoint "github.com/louisbranch/decisionlog/internal/platform/cmd"
	"github.com/louisbranch/decisionlog/internal/storage/sqlite"
	teamdomain "github.com/louisbranch/decisionlog/internal/team/domain"
)

const shutdownTimeout = 10 * time.Second

// Config holds API command configuration.
type Config struct {
	Host        string        `env:"DECISIONLOG_HOST" envDefault:"localhost"`
	Port        int           `env:"DECISIONLOG_PORT" envDefault:"8080"`
	DBPath      string        `env:"DECISIONLOG_DB_PATH" envDefault:"decisionlog.db"`
	TokenSecret string        `env:"DECISIONLOG_TOKEN_SECRET"`
	TokenTTL    time.Duration `env:"DECISIONLOG_TOKEN_TTL" envDefault:"24h"`
	ResetTTL    time.Duration `env:"DECISIONLOG_RESET_TTL" envDefault:"1h"`
	Dev         bool          `env:"DECISIONLOG_DEV" envDefault:"false"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Host, "host", cfg.Host, "The HTTP server host")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The HTTP server port")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the sqlite database file")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the HTTP API service and blocks until ctx is canceled.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceAPI, func(ctx context.Context) error {
		return run(ctx, cfg)
	})
}

func run(ctx context.Context, cfg Config) error {
	if cfg.TokenSecret == "" {
		return fmt.Errorf("DECISIONLOG_TOKEN_SECRET is required")
	}

	logger, err := newLogger(cfg.Dev)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("close store", zap.Error(err))
		}
	}()

	tokens, err := auth.NewTokenIssuer([]byte(cfg.TokenSecret), entrypoint.ServiceAPI, cfg.TokenTTL, nil)
	if err != nil {
		return fmt.Errorf("build token issuer: %w", err)
	}
	resets := auth.NewResetTokenStore(cfg.ResetTTL, nil)

	classifier := decisiondomain.NewClassifier(decisiondomain.DefaultRules())
	services := api.Services{
		Auth:      auth.NewService(store, tokens, resets, nil, nil),
		Teams:     teamdomain.NewService(store, nil, nil),
		Messaging: msgdomain.NewService(store, classifier, nil, nil),
		Decisions: decisiondomain.NewService(store, messageSource{store}, channelSource{store}, roleSource{store}, nil, nil),
		Analyzer:  classifier,
	}

	srv, err := api.NewServer(services, logger, api.Config{Host: cfg.Host, Port: cfg.Port})
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http: %w", err)
	}
	return nil
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
