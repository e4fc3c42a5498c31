// Package markov implements the trainable note-transition model behind the
// melody generator: a variable-order Markov chain over (pitch, duration)
// pairs. Raw transition counts are accumulated across training calls and
// normalized to probabilities only when queried, so repeated training keeps
// accumulating frequency correctly.
package markov

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"

	"github.com/Payamchegini021/Melody-generator/internal/models"
)

// DefaultVelocity is the placeholder velocity on sampled notes; the caller
// re-samples velocity when it places the note.
const DefaultVelocity = 64

// Outcome is a next-note key: the note reduced to pitch and duration, with
// velocity and start time discarded.
type Outcome struct {
	Pitch    int
	Duration float64
}

// Model is an order-k Markov chain keyed by windows of the last k notes.
// One generator instance exclusively owns one Model; the mutex keeps Train
// and SampleNext from interleaving when callers share it anyway.
type Model struct {
	mu     sync.Mutex
	order  int
	rng    *rand.Rand
	counts map[string]map[Outcome]int
	totals map[string]int
}

// New creates an empty model of the given order (window length). Orders
// below 1 are treated as 1. The rand source is used for weighted sampling;
// pass a seeded source for reproducible generation.
func New(order int, rng *rand.Rand) *Model {
	if order < 1 {
		order = 1
	}
	return &Model{
		order:  order,
		rng:    rng,
		counts: make(map[string]map[Outcome]int),
		totals: make(map[string]int),
	}
}

// Order returns the fixed window length of the model.
func (m *Model) Order() int {
	return m.order
}

// Train records one occurrence of each next note under its preceding
// order-length window. Sequences shorter than order+1 are a no-op, so a
// training call either fully applies or changes nothing.
func (m *Model) Train(sequence []models.Note) {
	if len(sequence) < m.order+1 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := 0; i+m.order < len(sequence); i++ {
		key := stateKey(sequence[i : i+m.order])
		next := sequence[i+m.order]
		outcome := Outcome{Pitch: next.Pitch, Duration: next.DurationBeats}

		if m.counts[key] == nil {
			m.counts[key] = make(map[Outcome]int)
		}
		m.counts[key][outcome]++
		m.totals[key]++
	}
}

// SampleNext draws the next note given the last notes played, using a
// cumulative-probability draw over the learned distribution. It returns
// false when the window has no learned continuation (or fewer than order
// notes were supplied); that is an expected condition, not an error. The
// returned note carries a placeholder velocity and zero start time.
func (m *Model) SampleNext(lastNotes []models.Note) (models.Note, bool) {
	if len(lastNotes) < m.order {
		return models.Note{}, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := stateKey(lastNotes[len(lastNotes)-m.order:])
	dist := m.counts[key]
	total := m.totals[key]
	if len(dist) == 0 || total == 0 {
		return models.Note{}, false
	}

	// Iterate outcomes in a stable order so a fixed rand source reproduces
	// the same draw.
	outcomes := sortedOutcomes(dist)

	r := m.rng.Float64()
	cumulative := 0.0
	picked := outcomes[len(outcomes)-1]
	for _, outcome := range outcomes {
		cumulative += float64(dist[outcome]) / float64(total)
		if r < cumulative {
			picked = outcome
			break
		}
	}

	return models.Note{
		Pitch:         picked.Pitch,
		Velocity:      DefaultVelocity,
		StartBeats:    0,
		DurationBeats: picked.Duration,
	}, true
}

// Transitions exposes the normalized outgoing distribution for a window,
// mainly for observability and tests. Returns nil when the window is
// unknown.
func (m *Model) Transitions(lastNotes []models.Note) map[Outcome]float64 {
	if len(lastNotes) < m.order {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := stateKey(lastNotes[len(lastNotes)-m.order:])
	dist := m.counts[key]
	total := m.totals[key]
	if len(dist) == 0 || total == 0 {
		return nil
	}

	probs := make(map[Outcome]float64, len(dist))
	for outcome, count := range dist {
		probs[outcome] = float64(count) / float64(total)
	}
	return probs
}

// Reset clears all learned state.
func (m *Model) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts = make(map[string]map[Outcome]int)
	m.totals = make(map[string]int)
}

// Size returns the number of distinct window keys the model has seen.
func (m *Model) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.counts)
}

func stateKey(window []models.Note) string {
	parts := make([]string, len(window))
	for i, note := range window {
		parts[i] = fmt.Sprintf("%d:%g", note.Pitch, note.DurationBeats)
	}
	return strings.Join(parts, "|")
}

func sortedOutcomes(dist map[Outcome]int) []Outcome {
	outcomes := make([]Outcome, 0, len(dist))
	for outcome := range dist {
		outcomes = append(outcomes, outcome)
	}
	sort.Slice(outcomes, func(i, j int) bool {
		if outcomes[i].Pitch != outcomes[j].Pitch {
			return outcomes[i].Pitch < outcomes[j].Pitch
		}
		return outcomes[i].Duration < outcomes[j].Duration
	})
	return outcomes
}
