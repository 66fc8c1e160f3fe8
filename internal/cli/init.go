// Package cli provides the initialization helpers and subcommands of the
// ledger command-line front end.
package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"

	"bookkeeping/internal/chart"
	"bookkeeping/internal/config"
	"bookkeeping/internal/log"
	"bookkeeping/internal/services"
	"bookkeeping/internal/storage"
)

// SetupLogger builds the application logger from cfg and installs it as the
// slog default, so storage-level slog calls share its handler.
func SetupLogger(cfg *config.Config, out io.Writer) *log.Logger {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.DefaultConfig().Level
	}
	logger := log.New(log.Config{
		Level:     level,
		Format:    cfg.LogFormat,
		Component: log.ComponentCLI,
		Output:    out,
	})
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile(filenames ...string) {
	_ = godotenv.Load(filenames...)
}

// LoadAndValidateConfig loads configuration and validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// InitLedger opens the SQLite store named by cfg and wraps it in a ledger
// service configured from the same settings.
func InitLedger(cfg *config.Config, logger *log.Logger) (*services.LedgerService, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}

	store, err := storage.NewSQLiteRepository(cfg.DBPath, storage.Options{
		EnforceCategoryKind: cfg.EnforceCategoryKind,
	})
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", log.FieldError, err, log.FieldDBPath, cfg.DBPath)
		return nil, err
	}

	logger.Debug("Ledger opened",
		log.FieldOperation, log.OpStartup,
		log.FieldDBPath, cfg.DBPath)

	return services.NewLedgerService(store, services.Options{
		Location:               loc,
		Currency:               cfg.Currency,
		ReverseBalanceOnDelete: cfg.ReverseBalanceOnDelete,
		Frame:                  chart.Frame{Width: cfg.ChartWidth, Height: cfg.ChartHeight},
	}, logger), nil
}

// App is handed to every subcommand through subcommands' Execute arguments.
type App struct {
	Config *config.Config
	Logger *log.Logger
	Out    io.Writer
	Now    func() time.Time
}

// NewApp loads .env, the configuration and the logger. Log output goes to
// stderr so command output on Out stays clean.
func NewApp() (*App, error) {
	LoadEnvFile()
	cfg, err := LoadAndValidateConfig()
	if err != nil {
		return nil, err
	}
	return &App{
		Config: cfg,
		Logger: SetupLogger(cfg, os.Stderr),
		Out:    os.Stdout,
		Now:    time.Now,
	}, nil
}

// Open opens the ledger for one command. The caller closes it.
func (a *App) Open() (*services.LedgerService, error) {
	return InitLedger(a.Config, a.Logger)
}
