package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Payamchegini021/Melody-generator/internal/models"
	"gorm.io/gorm"
)

// MelodyRecord is the database row shape for a stored melody. Notes and
// generation parameters are serialized to JSON text columns; the engine's
// in-memory types stay free of persistence tags.
type MelodyRecord struct {
	ID        string    `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
	Name      string `gorm:"not null"`
	Notes     string `gorm:"type:text;not null"`
	Params    string `gorm:"type:text;not null"`
}

// GormStore persists melodies through gorm.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps a connected gorm handle.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Get returns the melody stored under id, or ErrNotFound.
func (s *GormStore) Get(id string) (models.GeneratedMelody, error) {
	var record MelodyRecord
	if err := s.db.First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.GeneratedMelody{}, ErrNotFound
		}
		return models.GeneratedMelody{}, fmt.Errorf("loading melody %s: %w", id, err)
	}
	return recordToMelody(record)
}

// Put stores a melody, replacing any previous entry with the same id.
func (s *GormStore) Put(melody models.GeneratedMelody) error {
	record, err := melodyToRecord(melody)
	if err != nil {
		return err
	}
	if err := s.db.Save(&record).Error; err != nil {
		return fmt.Errorf("saving melody %s: %w", melody.ID, err)
	}
	return nil
}

// Delete removes the melody under id. Deleting an absent id returns
// ErrNotFound.
func (s *GormStore) Delete(id string) error {
	result := s.db.Delete(&MelodyRecord{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("deleting melody %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAll returns every stored melody, newest first.
func (s *GormStore) ListAll() ([]models.GeneratedMelody, error) {
	var records []MelodyRecord
	if err := s.db.Order("created_at desc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("listing melodies: %w", err)
	}

	melodies := make([]models.GeneratedMelody, 0, len(records))
	for _, record := range records {
		melody, err := recordToMelody(record)
		if err != nil {
			return nil, err
		}
		melodies = append(melodies, melody)
	}
	return melodies, nil
}

func melodyToRecord(melody models.GeneratedMelody) (MelodyRecord, error) {
	notes, err := json.Marshal(melody.Notes)
	if err != nil {
		return MelodyRecord{}, fmt.Errorf("encoding notes for melody %s: %w", melody.ID, err)
	}
	params, err := json.Marshal(melody.Params)
	if err != nil {
		return MelodyRecord{}, fmt.Errorf("encoding params for melody %s: %w", melody.ID, err)
	}
	return MelodyRecord{
		ID:        melody.ID,
		CreatedAt: melody.CreatedAt,
		Name:      melody.Name,
		Notes:     string(notes),
		Params:    string(params),
	}, nil
}

func recordToMelody(record MelodyRecord) (models.GeneratedMelody, error) {
	melody := models.GeneratedMelody{
		ID:        record.ID,
		Name:      record.Name,
		CreatedAt: record.CreatedAt,
	}
	if err := json.Unmarshal([]byte(record.Notes), &melody.Notes); err != nil {
		return models.GeneratedMelody{}, fmt.Errorf("decoding notes for melody %s: %w", record.ID, err)
	}
	if err := json.Unmarshal([]byte(record.Params), &melody.Params); err != nil {
		return models.GeneratedMelody{}, fmt.Errorf("decoding params for melody %s: %w", record.ID, err)
	}
	return melody, nil
}
