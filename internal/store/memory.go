package store

import (
	"sort"
	"sync"

	"github.com/Payamchegini021/Melody-generator/internal/models"
)

// MemoryStore keeps melodies in a mutex-guarded map. It is the default
// store for self-hosted and development setups without a database.
type MemoryStore struct {
	mu       sync.RWMutex
	melodies map[string]models.GeneratedMelody
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		melodies: make(map[string]models.GeneratedMelody),
	}
}

// Get returns the melody stored under id, or ErrNotFound.
func (s *MemoryStore) Get(id string) (models.GeneratedMelody, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	melody, ok := s.melodies[id]
	if !ok {
		return models.GeneratedMelody{}, ErrNotFound
	}
	return melody, nil
}

// Put stores a melody, replacing any previous entry with the same id.
func (s *MemoryStore) Put(melody models.GeneratedMelody) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.melodies[melody.ID] = melody
	return nil
}

// Delete removes the melody under id. Deleting an absent id returns
// ErrNotFound.
func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.melodies[id]; !ok {
		return ErrNotFound
	}
	delete(s.melodies, id)
	return nil
}

// ListAll returns every stored melody, newest first.
func (s *MemoryStore) ListAll() ([]models.GeneratedMelody, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	melodies := make([]models.GeneratedMelody, 0, len(s.melodies))
	for _, melody := range s.melodies {
		melodies = append(melodies, melody)
	}
	// Tie-break equal timestamps by id so the order is stable across
	// calls despite map iteration.
	sort.SliceStable(melodies, func(i, j int) bool {
		if !melodies[i].CreatedAt.Equal(melodies[j].CreatedAt) {
			return melodies[i].CreatedAt.After(melodies[j].CreatedAt)
		}
		return melodies[i].ID < melodies[j].ID
	})
	return melodies, nil
}
