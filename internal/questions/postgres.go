package questions

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/quizwall/backend/internal/game"
)

type questionRecord struct {
	ID   int    `gorm:"primaryKey"`
	Text string `gorm:"type:text;not null"`
}

func (questionRecord) TableName() string { return "questions" }

// Postgres persists the catalog across restarts. Session state stays in
// memory; only the question pool survives the process.
type Postgres struct {
	db *gorm.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := db.AutoMigrate(&questionRecord{}); err != nil {
		return nil, fmt.Errorf("migrate questions: %w", err)
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) List(ctx context.Context) ([]game.Question, error) {
	var records []questionRecord
	if err := p.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]game.Question, len(records))
	for i, rec := range records {
		out[i] = game.Question{ID: rec.ID, Text: rec.Text}
	}
	return out, nil
}

func (p *Postgres) Get(ctx context.Context, id int) (game.Question, error) {
	var rec questionRecord
	err := p.db.WithContext(ctx).First(&rec, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return game.Question{}, ErrNotFound
	}
	if err != nil {
		return game.Question{}, err
	}
	return game.Question{ID: rec.ID, Text: rec.Text}, nil
}

func (p *Postgres) Add(ctx context.Context, text string) (game.Question, error) {
	rec := questionRecord{Text: text}
	if err := p.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return game.Question{}, err
	}
	return game.Question{ID: rec.ID, Text: rec.Text}, nil
}

func (p *Postgres) Remove(ctx context.Context, id int) error {
	res := p.db.WithContext(ctx).Delete(&questionRecord{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) Seed(ctx context.Context, texts []string) error {
	var count int64
	if err := p.db.WithContext(ctx).Model(&questionRecord{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, text := range texts {
		if err := p.db.WithContext(ctx).Create(&questionRecord{Text: text}).Error; err != nil {
			return err
		}
	}
	return nil
}
