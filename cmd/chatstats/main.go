package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xaenox/chat-features/internal/analyzer"
	"github.com/xaenox/chat-features/internal/models"
	"github.com/xaenox/chat-features/internal/parser"
	"github.com/xaenox/chat-features/internal/report"
	"github.com/xaenox/chat-features/internal/storage"
	"github.com/xaenox/chat-features/pkg/config"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	flags := pflag.NewFlagSet("chatstats", pflag.ExitOnError)
	configPath := flags.String("config", "", "path to a YAML config file")
	flags.String("source", config.SourceFile, "message source: file, memory, sqlite or postgres")
	flags.String("path", "", "exported chat file to parse")
	flags.String("conversation", "", "stored conversation id to analyze")
	flags.Bool("import", false, "parse --path and save it into the configured database first")
	flags.String("root", "", "participant whose perspective the analysis takes")
	flags.StringSlice("pattern", nil, "literal pattern to count per sender (repeatable)")
	flags.String("format", report.FormatText, "output format: text or json")
	flags.String("log-level", "info", "log level")
	flags.Parse(os.Args[1:])

	cfg, err := config.LoadConfig(*configPath, flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chatstats: %v\n", err)
		os.Exit(2)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chatstats: %v\n", err)
		os.Exit(2)
	}
	defer logger.Sync()

	ctx := context.Background()
	conv, err := loadConversation(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to load conversation", zap.Error(err), zap.String("source", cfg.Source.Type))
	}

	r, err := analyzer.New(analyzer.SettingsFromConfig(cfg.Analysis), logger).Analyze(conv)
	if err != nil {
		logger.Fatal("Failed to analyze conversation", zap.Error(err), zap.String("conversation_id", conv.ID))
	}

	if err := report.Write(os.Stdout, r, cfg.Output.Format); err != nil {
		logger.Fatal("Failed to write report", zap.Error(err))
	}
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

func loadConversation(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*models.Conversation, error) {
	p := parser.New(cfg.Location(), parser.DateOrder(cfg.Source.DateOrder), logger)

	switch cfg.Source.Type {
	case config.SourceFile:
		return p.ParseFile(cfg.Source.Path)
	case config.SourceMemory:
		conv, err := p.ParseFile(cfg.Source.Path)
		if err != nil {
			return nil, err
		}
		return roundTrip(ctx, storage.NewMemoryStorage(), conv)
	}

	store, err := openStore(cfg, logger)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	if !cfg.Source.Import {
		return store.GetConversation(ctx, cfg.Source.ConversationID)
	}

	conv, err := p.ParseFile(cfg.Source.Path)
	if err != nil {
		return nil, err
	}
	if err := store.SaveConversation(ctx, conv); err != nil {
		return nil, err
	}
	logger.Info("Imported conversation",
		zap.String("conversation_id", conv.ID),
		zap.String("name", conv.Name),
		zap.Int("messages", len(conv.Messages)))
	return conv, nil
}

func openStore(cfg *config.Config, logger *zap.Logger) (storage.Storage, error) {
	switch cfg.Source.Type {
	case config.SourceSQLite:
		logger.Info("Using SQLite storage", zap.String("path", cfg.Database.SQLitePath))
		return storage.NewSQLiteStorage(cfg.Database.SQLitePath, logger)
	case config.SourcePostgres:
		logger.Info("Using PostgreSQL storage", zap.String("host", cfg.Database.Host))
		return storage.NewPostgresStorage(storage.DatabaseConfig{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.DBName,
			SSLMode:  cfg.Database.SSLMode,
		}, logger)
	default:
		return nil, fmt.Errorf("unsupported source %q", cfg.Source.Type)
	}
}

func roundTrip(ctx context.Context, store storage.Storage, conv *models.Conversation) (*models.Conversation, error) {
	defer store.Close()
	if err := store.SaveConversation(ctx, conv); err != nil {
		return nil, err
	}
	return store.GetConversation(ctx, conv.ID)
}
