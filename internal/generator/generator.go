// Package generator orchestrates melody synthesis: it seeds a starting
// note, asks the transition model for continuations, falls back to a
// constrained random walk when the model has none, and repairs oversized
// leaps afterwards.
package generator

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/Payamchegini021/Melody-generator/internal/markov"
	"github.com/Payamchegini021/Melody-generator/internal/models"
	"github.com/Payamchegini021/Melody-generator/internal/theory"
	"github.com/Payamchegini021/Melody-generator/pkg/embedded"
	"github.com/google/uuid"
)

const (
	beatsPerMeasure = 4
	defaultOrder    = 2

	velocityFloor = 64
	velocitySpan  = 33 // sampled velocity in [64, 96]
)

// Candidate durations in beats and their weights for the two rhythm
// regimes. Dense favors short values.
var (
	durationChoices = []float64{0.25, 0.5, 1, 2}
	denseWeights    = []float64{0.4, 0.4, 0.15, 0.05}
	sparseWeights   = []float64{0.1, 0.3, 0.4, 0.2}
)

// Generator produces melodies. It exclusively owns one transition model,
// which accumulates training data across calls for the generator's
// lifetime. The mutex serializes Generate: the rand source is shared with
// the model and *rand.Rand is not safe for concurrent use.
type Generator struct {
	mu    sync.Mutex
	model *markov.Model
	rng   *rand.Rand
}

// New creates a generator with a time-seeded rand source.
func New() *Generator {
	return NewWithSource(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithSource creates a generator driven by the given rand source, so
// generation is reproducible under a fixed seed. The transition model is
// hand-seeded from the embedded training patterns.
func NewWithSource(rng *rand.Rand) *Generator {
	g := &Generator{
		model: markov.New(defaultOrder, rng),
		rng:   rng,
	}
	g.seedModel()
	return g
}

type seedFile struct {
	Patterns []struct {
		Name  string        `json:"name"`
		Notes []models.Note `json:"notes"`
	} `json:"patterns"`
}

func (g *Generator) seedModel() {
	var seeds seedFile
	if err := json.Unmarshal(embedded.SeedPatternsJSON, &seeds); err != nil {
		log.Printf("Failed to parse embedded seed patterns: %v", err)
		return
	}
	for _, pattern := range seeds.Patterns {
		g.model.Train(pattern.Notes)
	}
}

// Generate synthesizes one melody from the given parameters. Invalid
// parameters are reported as an error; degraded conditions (no scale pitch
// in range, no model continuation) never fail and fall back to the
// documented policies instead.
func (g *Generator) Generate(params models.GenerationParams) (models.GeneratedMelody, error) {
	if err := validateParams(params); err != nil {
		return models.GeneratedMelody{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	totalBeats := float64(params.Measures * beatsPerMeasure)
	maxInterval := int(params.Complexity*12) + 1
	maxLeap := int(params.Complexity*12) + 7

	seed := g.seedNote(params)
	notes := []models.Note{seed}
	currentTime := seed.DurationBeats

	for currentTime < totalBeats {
		candidate, fromModel := g.model.SampleNext(notes)
		if fromModel && candidate.Pitch >= params.RangeLow && candidate.Pitch <= params.RangeHigh &&
			params.Scale.Contains(candidate.Pitch) {
			// Keep the sampled pitch, re-roll timing and dynamics.
			candidate.DurationBeats = g.sampleDuration(params.RhythmDensity)
			candidate.Velocity = g.sampleVelocity()
		} else {
			candidate = g.randomWalkNote(notes[len(notes)-1], params, maxInterval)
		}

		if currentTime+candidate.DurationBeats > totalBeats {
			break
		}
		candidate.StartBeats = currentTime
		notes = append(notes, candidate)
		currentTime += candidate.DurationBeats
	}

	repairLeaps(notes, maxLeap)

	return models.GeneratedMelody{
		ID:        uuid.New().String(),
		Name:      defaultName(params),
		Notes:     notes,
		Params:    params,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// TrainFromMelody feeds an already-generated melody back into the
// transition model for online learning.
func (g *Generator) TrainFromMelody(melody models.GeneratedMelody) {
	g.model.Train(melody.Notes)
}

// ModelSize reports the number of distinct windows the transition model
// has learned.
func (g *Generator) ModelSize() int {
	return g.model.Size()
}

// ResetModel clears all learned transitions, including the seed patterns.
func (g *Generator) ResetModel() {
	g.model.Reset()
}

func validateParams(params models.GenerationParams) error {
	if params.Measures <= 0 {
		return fmt.Errorf("measures must be positive, got %d", params.Measures)
	}
	if params.Complexity < 0 || params.Complexity > 1 {
		return fmt.Errorf("complexity must be in [0,1], got %g", params.Complexity)
	}
	if params.RhythmDensity < 0 || params.RhythmDensity > 1 {
		return fmt.Errorf("rhythm_density must be in [0,1], got %g", params.RhythmDensity)
	}
	if params.RangeLow > params.RangeHigh {
		return fmt.Errorf("range_low %d exceeds range_high %d", params.RangeLow, params.RangeHigh)
	}
	if len(params.Scale.Notes) != 7 {
		return fmt.Errorf("scale is not initialized; build it with theory.NewScale")
	}
	return nil
}

// seedNote picks the first note: a uniform choice among all scale pitches
// inside the range, degrading to the range floor when the scale and range
// do not intersect.
func (g *Generator) seedNote(params models.GenerationParams) models.Note {
	candidates := scalePitchesInRange(params.Scale, params.RangeLow, params.RangeHigh)

	pitch := params.RangeLow
	if len(candidates) > 0 {
		pitch = candidates[g.rng.Intn(len(candidates))]
	}

	return models.Note{
		Pitch:         pitch,
		Velocity:      g.sampleVelocity(),
		StartBeats:    0,
		DurationBeats: g.sampleDuration(params.RhythmDensity),
	}
}

// randomWalkNote synthesizes a continuation when the model has none: a
// uniform interval step from the previous pitch, clamped to the range and
// snapped to the scale.
func (g *Generator) randomWalkNote(prev models.Note, params models.GenerationParams, maxInterval int) models.Note {
	interval := g.rng.Intn(2*maxInterval+1) - maxInterval
	pitch := prev.Pitch + interval

	if pitch < params.RangeLow {
		pitch = params.RangeLow
	}
	if pitch > params.RangeHigh {
		pitch = params.RangeHigh
	}
	if !params.Scale.Contains(pitch) {
		pitch = theory.NearestScaleNote(pitch, params.Scale)
	}

	return models.Note{
		Pitch:         pitch,
		Velocity:      g.sampleVelocity(),
		DurationBeats: g.sampleDuration(params.RhythmDensity),
	}
}

// repairLeaps clamps adjacent leaps to maxLeap semitones, keeping the
// direction of motion. It deliberately does not re-check scale membership
// or range after clamping.
func repairLeaps(notes []models.Note, maxLeap int) {
	for i := 1; i < len(notes); i++ {
		diff := notes[i].Pitch - notes[i-1].Pitch
		if diff > maxLeap {
			notes[i].Pitch = notes[i-1].Pitch + maxLeap
		} else if diff < -maxLeap {
			notes[i].Pitch = notes[i-1].Pitch - maxLeap
		}
	}
}

func (g *Generator) sampleDuration(rhythmDensity float64) float64 {
	weights := sparseWeights
	if rhythmDensity > 0.5 {
		weights = denseWeights
	}

	r := g.rng.Float64()
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if r < cumulative {
			return durationChoices[i]
		}
	}
	return durationChoices[len(durationChoices)-1]
}

func (g *Generator) sampleVelocity() int {
	return velocityFloor + g.rng.Intn(velocitySpan)
}

func scalePitchesInRange(scale theory.Scale, low, high int) []int {
	var pitches []int
	for pitch := low; pitch <= high; pitch++ {
		if scale.Contains(pitch) {
			pitches = append(pitches, pitch)
		}
	}
	return pitches
}

func defaultName(params models.GenerationParams) string {
	return fmt.Sprintf("%s %s, %d bars",
		theory.PitchClassName(params.Scale.Root), params.Scale.Type, params.Measures)
}
