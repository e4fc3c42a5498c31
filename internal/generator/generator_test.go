package generator

import (
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/Payamchegini021/Melody-generator/internal/models"
	"github.com/Payamchegini021/Melody-generator/internal/theory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParams(t *testing.T) models.GenerationParams {
	t.Helper()
	scale, err := theory.NewScale(0, theory.ScaleMajor)
	require.NoError(t, err)
	return models.GenerationParams{
		Measures:      2,
		Complexity:    0.5,
		RhythmDensity: 0.5,
		RangeLow:      55,
		RangeHigh:     79,
		Scale:         scale,
	}
}

func TestGenerateBasicShape(t *testing.T) {
	g := NewWithSource(rand.New(rand.NewSource(7)))
	params := testParams(t)

	melody, err := g.Generate(params)
	require.NoError(t, err)

	assert.NotEmpty(t, melody.ID)
	assert.NotEmpty(t, melody.Name)
	assert.False(t, melody.CreatedAt.IsZero())
	assert.Equal(t, params, melody.Params)
	require.NotEmpty(t, melody.Notes)

	totalBeats := float64(params.Measures * beatsPerMeasure)
	assert.Equal(t, 0.0, melody.Notes[0].StartBeats)

	prevEnd := 0.0
	for _, note := range melody.Notes {
		assert.Equal(t, prevEnd, note.StartBeats, "notes must be contiguous")
		assert.Greater(t, note.DurationBeats, 0.0)
		assert.GreaterOrEqual(t, note.Velocity, 64)
		assert.LessOrEqual(t, note.Velocity, 96)
		prevEnd = note.StartBeats + note.DurationBeats
	}
	assert.LessOrEqual(t, prevEnd, totalBeats)
}

func TestGenerateReproducibleUnderFixedSeed(t *testing.T) {
	params := testParams(t)

	first, err := NewWithSource(rand.New(rand.NewSource(42))).Generate(params)
	require.NoError(t, err)
	second, err := NewWithSource(rand.New(rand.NewSource(42))).Generate(params)
	require.NoError(t, err)

	// IDs and timestamps differ per call; the musical content must not.
	assert.Equal(t, first.Notes, second.Notes)
}

func TestGeneratePitchesInRange(t *testing.T) {
	params := testParams(t)
	params.Complexity = 1 // widest leaps, hardest case for the repair pass

	for seed := int64(0); seed < 20; seed++ {
		g := NewWithSource(rand.New(rand.NewSource(seed)))
		melody, err := g.Generate(params)
		require.NoError(t, err)

		for i, note := range melody.Notes {
			assert.GreaterOrEqual(t, note.Pitch, params.RangeLow, "seed %d note %d", seed, i)
			assert.LessOrEqual(t, note.Pitch, params.RangeHigh, "seed %d note %d", seed, i)
		}
	}
}

func TestGenerateTerminationBound(t *testing.T) {
	params := testParams(t)
	params.Measures = 8
	params.RhythmDensity = 1 // favors the shortest durations

	g := NewWithSource(rand.New(rand.NewSource(3)))
	melody, err := g.Generate(params)
	require.NoError(t, err)

	// Every duration is at least a 16th, so the note count is bounded.
	totalBeats := float64(params.Measures * beatsPerMeasure)
	maxNotes := int(totalBeats / 0.25)
	assert.LessOrEqual(t, len(melody.Notes), maxNotes)
}

func TestGenerateZeroComplexityStaysDiatonic(t *testing.T) {
	scale, err := theory.NewScale(0, theory.ScaleMajor)
	require.NoError(t, err)
	params := models.GenerationParams{
		Measures:      1,
		Complexity:    0,
		RhythmDensity: 0,
		RangeLow:      60,
		RangeHigh:     72,
		Scale:         scale,
	}

	// With complexity 0 the walk moves at most one semitone and the repair
	// clamp is 7, so pitches stay on the C major scale inside the octave.
	allowed := map[int]bool{60: true, 62: true, 64: true, 65: true, 67: true, 69: true, 71: true, 72: true}

	for seed := int64(0); seed < 25; seed++ {
		g := NewWithSource(rand.New(rand.NewSource(seed)))
		melody, err := g.Generate(params)
		require.NoError(t, err)

		for i, note := range melody.Notes {
			assert.True(t, allowed[note.Pitch], "seed %d note %d: pitch %d", seed, i, note.Pitch)
			if i > 0 {
				leap := int(math.Abs(float64(note.Pitch - melody.Notes[i-1].Pitch)))
				assert.LessOrEqual(t, leap, 7, "seed %d note %d", seed, i)
			}
		}
	}
}

func TestGenerateDegradesWhenScaleMissesRange(t *testing.T) {
	scale, err := theory.NewScale(0, theory.ScaleMajor)
	require.NoError(t, err)
	params := models.GenerationParams{
		Measures:      1,
		Complexity:    0,
		RhythmDensity: 0,
		RangeLow:      61, // C#4..C#4: no C major pitch in range
		RangeHigh:     61,
		Scale:         scale,
	}

	g := NewWithSource(rand.New(rand.NewSource(11)))
	melody, err := g.Generate(params)
	require.NoError(t, err)
	require.NotEmpty(t, melody.Notes)

	// The seed degrades to the range floor rather than failing.
	assert.Equal(t, params.RangeLow, melody.Notes[0].Pitch)
}

func TestGenerateInvalidParams(t *testing.T) {
	g := NewWithSource(rand.New(rand.NewSource(5)))

	tests := []struct {
		name   string
		mutate func(*models.GenerationParams)
	}{
		{"zero measures", func(p *models.GenerationParams) { p.Measures = 0 }},
		{"negative complexity", func(p *models.GenerationParams) { p.Complexity = -0.1 }},
		{"complexity above one", func(p *models.GenerationParams) { p.Complexity = 1.5 }},
		{"density above one", func(p *models.GenerationParams) { p.RhythmDensity = 2 }},
		{"inverted range", func(p *models.GenerationParams) { p.RangeLow = 80; p.RangeHigh = 60 }},
		{"missing scale", func(p *models.GenerationParams) { p.Scale = theory.Scale{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := testParams(t)
			tt.mutate(&params)
			_, err := g.Generate(params)
			assert.Error(t, err)
		})
	}
}

func TestModelSeededAtConstruction(t *testing.T) {
	g := NewWithSource(rand.New(rand.NewSource(1)))

	// The embedded patterns hand-seed the model before any user training.
	assert.Greater(t, g.ModelSize(), 0)
}

func TestTrainFromMelodyGrowsModel(t *testing.T) {
	g := NewWithSource(rand.New(rand.NewSource(9)))
	before := g.ModelSize()

	melody, err := g.Generate(testParams(t))
	require.NoError(t, err)
	g.TrainFromMelody(melody)

	assert.GreaterOrEqual(t, g.ModelSize(), before)
}

func TestResetModelClearsSeeds(t *testing.T) {
	g := NewWithSource(rand.New(rand.NewSource(2)))
	require.Greater(t, g.ModelSize(), 0)

	g.ResetModel()
	assert.Equal(t, 0, g.ModelSize())

	// Generation still works, fully on the random-walk fallback.
	melody, err := g.Generate(testParams(t))
	require.NoError(t, err)
	assert.NotEmpty(t, melody.Notes)
}

func TestGenerateConcurrentUse(t *testing.T) {
	g := NewWithSource(rand.New(rand.NewSource(6)))
	params := testParams(t)

	// One generator serves all HTTP handlers, so Generate and
	// TrainFromMelody must be safe from multiple goroutines.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				melody, err := g.Generate(params)
				assert.NoError(t, err)
				assert.NotEmpty(t, melody.Notes)
				g.TrainFromMelody(melody)
			}
		}()
	}
	wg.Wait()

	assert.Greater(t, g.ModelSize(), 0)
}

func TestSampleDurationPolicy(t *testing.T) {
	g := NewWithSource(rand.New(rand.NewSource(4)))

	valid := map[float64]bool{0.25: true, 0.5: true, 1: true, 2: true}
	shortCount := 0
	const draws = 2000
	for i := 0; i < draws; i++ {
		d := g.sampleDuration(1)
		require.True(t, valid[d], "unexpected duration %g", d)
		if d <= 0.5 {
			shortCount++
		}
	}
	// Dense rhythm weights put 80% of mass on 16ths and 8ths.
	assert.Greater(t, float64(shortCount)/draws, 0.7)

	longCount := 0
	for i := 0; i < draws; i++ {
		if g.sampleDuration(0) >= 1 {
			longCount++
		}
	}
	// Sparse weights put 60% of mass on quarters and halves.
	assert.Greater(t, float64(longCount)/draws, 0.5)
}
