// Package store persists generated melodies keyed by id. The engine only
// consumes the Store interface; the gorm-backed implementation is used when
// a database is configured and the in-memory one otherwise.
package store

import (
	"errors"

	"github.com/Payamchegini021/Melody-generator/internal/models"
)

// ErrNotFound is returned when no melody exists under the requested id.
var ErrNotFound = errors.New("melody not found")

// Store is the persistence contract the melody service depends on.
type Store interface {
	Get(id string) (models.GeneratedMelody, error)
	Put(melody models.GeneratedMelody) error
	Delete(id string) error
	ListAll() ([]models.GeneratedMelody, error)
}
