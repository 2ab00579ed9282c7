package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/olivia-0916/storybot/internal/adapters/blob/gcs"
	"github.com/olivia-0916/storybot/internal/adapters/llm/gemini"
	"github.com/olivia-0916/storybot/internal/adapters/llm/openai"
	sqliterepo "github.com/olivia-0916/storybot/internal/adapters/repo/sqlite"
	tomlrepo "github.com/olivia-0916/storybot/internal/adapters/repo/toml"
	"github.com/olivia-0916/storybot/internal/application"
	"github.com/olivia-0916/storybot/internal/extract"
	"github.com/olivia-0916/storybot/internal/ports"
	"github.com/olivia-0916/storybot/internal/worker"
)

type app struct {
	cfg       *viper.Viper
	engine    *extract.Engine
	snapshots ports.SnapshotRepository
	chatLog   ports.ChatLogger
}

type characterConfig struct {
	ID      string   `mapstructure:"id"`
	Aliases []string `mapstructure:"aliases"`
}

// wireApp builds everything that needs no network credentials. The render
// stack (summarizer, image backend, blob store) is wired per command through
// newService, so commands like version work without API keys.
func wireApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	snapshots, chatLog, err := wireStorage(cfg)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:       cfg,
		engine:    extract.NewEngine(registryFromConfig(cfg)),
		snapshots: snapshots,
		chatLog:   chatLog,
	}, nil
}

func loadConfig() (*viper.Viper, error) {
	cfg := viper.New()
	cfg.SetConfigName("storybot")
	cfg.SetConfigType("toml")
	cfg.AddConfigPath(".")
	if homeDir, err := os.UserHomeDir(); err == nil {
		cfg.AddConfigPath(filepath.Join(homeDir, ".storybot"))
	}

	if err := cfg.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg.SetDefault("storage.driver", "toml")
	cfg.SetDefault("render.workers", worker.DefaultWorkers)
	cfg.SetDefault("render.queue", worker.DefaultQueueSize)
	cfg.SetDefault("gcs.bucket", envOrDefault("GCS_BUCKET", "storybotimage"))
	return cfg, nil
}

func wireStorage(cfg *viper.Viper) (ports.SnapshotRepository, ports.ChatLogger, error) {
	switch driver := cfg.GetString("storage.driver"); driver {
	case "sqlite":
		path := cfg.GetString("storage.path")
		if path == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return nil, nil, fmt.Errorf("resolve home directory: %w", err)
			}
			path = filepath.Join(homeDir, ".storybot", "storybot.db")
			if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
				return nil, nil, fmt.Errorf("create storage directory: %w", err)
			}
		}
		repo, err := sqliterepo.NewRepository(path)
		if err != nil {
			return nil, nil, fmt.Errorf("wire sqlite storage: %w", err)
		}
		return repo, repo, nil

	case "toml":
		repo, err := tomlrepo.NewRepository(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("wire toml storage: %w", err)
		}
		return repo, nil, nil

	case "none":
		// In-memory only: durability is off, availability is not.
		return nil, nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

func registryFromConfig(cfg *viper.Viper) *extract.Registry {
	registry := extract.DefaultRegistry()

	var characters []characterConfig
	if err := cfg.UnmarshalKey("characters", &characters); err != nil {
		return registry
	}
	for _, c := range characters {
		registry.Add(c.ID, c.Aliases...)
	}
	return registry
}

// newService assembles the story service with a live render stack reporting
// to the given notifier. Workers stop when ctx is canceled.
func (a *app) newService(ctx context.Context, notifier ports.Notifier) (*application.StoryService, error) {
	summarizer, err := openai.NewSummarizer()
	if err != nil {
		return nil, fmt.Errorf("wire summarizer: %w", err)
	}

	generator, err := gemini.NewGenerator(ctx, envOrDefault("GEMINI_API_KEY", ""))
	if err != nil {
		return nil, fmt.Errorf("wire image generator: %w", err)
	}

	images, err := gcs.NewStore(ctx, a.cfg.GetString("gcs.bucket"), a.cfg.GetDuration("gcs.url_ttl"))
	if err != nil {
		return nil, fmt.Errorf("wire image store: %w", err)
	}

	pool := worker.NewPool(generator, images, notifier,
		a.cfg.GetInt("render.workers"), a.cfg.GetInt("render.queue"))
	pool.Start(ctx)

	return application.NewStoryService(a.engine, a.snapshots, a.chatLog, summarizer, pool, ports.SystemClock{}), nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
