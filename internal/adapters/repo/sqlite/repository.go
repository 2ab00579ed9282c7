package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sqlitedriver "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/olivia-0916/storybot/internal/domain"
	"github.com/olivia-0916/storybot/internal/ports"
)

// Repository persists story snapshots and the chat log in one sqlite file.
type Repository struct {
	db *gorm.DB
}

type storyRecord struct {
	gorm.Model
	SessionKey string `gorm:"uniqueIndex"`
	StoryID    string
	Paragraphs string
	Cards      string
}

type chatRecord struct {
	gorm.Model
	SessionKey string `gorm:"index"`
	Role       string
	Text       string
	SentAt     time.Time
}

var (
	_ ports.SnapshotRepository = (*Repository)(nil)
	_ ports.ChatLogger         = (*Repository)(nil)
)

func NewRepository(path string) (*Repository, error) {
	db, err := gorm.Open(sqlitedriver.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap sql database: %w", err)
	}
	if _, err := sqlDB.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if err := db.AutoMigrate(&storyRecord{}, &chatRecord{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Load(ctx context.Context, key domain.SessionKey) (domain.StorySnapshot, error) {
	var record storyRecord
	err := r.db.WithContext(ctx).Where("session_key = ?", string(key)).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.StorySnapshot{}, domain.ErrSnapshotNotFound
		}
		return domain.StorySnapshot{}, fmt.Errorf("load story record: %w", err)
	}

	snapshot := domain.StorySnapshot{StoryID: record.StoryID}
	if record.Paragraphs != "" {
		if err := json.Unmarshal([]byte(record.Paragraphs), &snapshot.Paragraphs); err != nil {
			return domain.StorySnapshot{}, fmt.Errorf("decode paragraphs: %w", err)
		}
	}
	if record.Cards != "" {
		if err := json.Unmarshal([]byte(record.Cards), &snapshot.Cards); err != nil {
			return domain.StorySnapshot{}, fmt.Errorf("decode character cards: %w", err)
		}
	}
	return snapshot, nil
}

func (r *Repository) Save(ctx context.Context, key domain.SessionKey, snapshot domain.StorySnapshot) error {
	paragraphs, err := json.Marshal(snapshot.Paragraphs)
	if err != nil {
		return fmt.Errorf("encode paragraphs: %w", err)
	}
	cards, err := json.Marshal(snapshot.Cards)
	if err != nil {
		return fmt.Errorf("encode character cards: %w", err)
	}

	record := storyRecord{SessionKey: string(key)}
	tx := r.db.WithContext(ctx)
	if err := tx.Where("session_key = ?", string(key)).FirstOrCreate(&record).Error; err != nil {
		return fmt.Errorf("upsert story record: %w", err)
	}

	updates := map[string]any{
		"story_id":   snapshot.StoryID,
		"paragraphs": string(paragraphs),
		"cards":      string(cards),
	}
	if err := tx.Model(&storyRecord{}).Where("id = ?", record.ID).Updates(updates).Error; err != nil {
		return fmt.Errorf("update story record: %w", err)
	}
	return nil
}

func (r *Repository) Append(ctx context.Context, key domain.SessionKey, role domain.Role, text string, at time.Time) error {
	record := chatRecord{
		SessionKey: string(key),
		Role:       string(role),
		Text:       text,
		SentAt:     at,
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("append chat record: %w", err)
	}
	return nil
}
