// Package toml is a file-backed snapshot store: one TOML document holding
// every user's latest story snapshot. It needs no external service, which
// makes it the default storage driver for local runs.
package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/olivia-0916/storybot/internal/domain"
	"github.com/olivia-0916/storybot/internal/ports"
)

const (
	storiesPathKey  = "storage.path"
	storiesDir      = ".storybot"
	storiesFile     = "stories.toml"
	storiesFileMode = 0o600
	storiesDirMode  = 0o700
	tempFilePattern = ".stories-*.toml.tmp"
)

type Repository struct {
	path string
	mu   *sync.RWMutex
}

// Writers to the same file share one lock regardless of how many Repository
// values point at it.
var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.SnapshotRepository = (*Repository)(nil)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg.SetDefault(storiesPathKey, filepath.Join(homeDir, storiesDir, storiesFile))

	path := cfg.GetString(storiesPathKey)
	if path == "" {
		return nil, errors.New("stories path is empty")
	}
	path, err = filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve stories path: %w", err)
	}
	path = filepath.Clean(path)

	return &Repository{path: path, mu: lockForPath(path)}, nil
}

func (r *Repository) Load(ctx context.Context, key domain.SessionKey) (domain.StorySnapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.StorySnapshot{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readFile()
	if err != nil {
		return domain.StorySnapshot{}, err
	}

	for _, entry := range file.Stories {
		if entry.Key == string(key) {
			return fromSchema(entry), nil
		}
	}
	return domain.StorySnapshot{}, domain.ErrSnapshotNotFound
}

func (r *Repository) Save(ctx context.Context, key domain.SessionKey, snapshot domain.StorySnapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readFile()
	if err != nil {
		return err
	}

	encoded := toSchema(key, snapshot)
	updated := false
	for i := range file.Stories {
		if file.Stories[i].Key == encoded.Key {
			file.Stories[i] = encoded
			updated = true
			break
		}
	}
	if !updated {
		file.Stories = append(file.Stories, encoded)
	}

	return r.writeFile(file)
}

func (r *Repository) readFile() (fileSchema, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{}, nil
		}
		return fileSchema{}, fmt.Errorf("read stories file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode stories file: %w", err)
	}
	return file, nil
}

func (r *Repository) writeFile(file fileSchema) error {
	if err := os.MkdirAll(filepath.Dir(r.path), storiesDirMode); err != nil {
		return fmt.Errorf("create stories directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode stories file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp stories file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp stories file: %w", err)
	}
	if err := tempFile.Chmod(storiesFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp stories file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp stories file: %w", err)
	}

	if err := os.Rename(tempName, r.path); err != nil {
		return fmt.Errorf("replace stories file: %w", err)
	}
	cleanup = false

	return nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}
	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}
