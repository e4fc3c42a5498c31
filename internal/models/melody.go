package models

import (
	"time"

	"github.com/Payamchegini021/Melody-generator/internal/theory"
)

// Note represents a single musical note with timing and pitch information.
// Pitch is a MIDI-style absolute semitone number (60 = middle C), timing is
// in beat units and tempo-independent.
type Note struct {
	Pitch         int     `json:"pitch"`
	Velocity      int     `json:"velocity"`
	StartBeats    float64 `json:"startBeats"`
	DurationBeats float64 `json:"durationBeats"`
}

// GenerationParams wraps the user's generation parameters for one call.
type GenerationParams struct {
	Measures      int          `json:"measures"`       // Length in 4/4 measures
	Complexity    float64      `json:"complexity"`     // 0.0-1.0, widens intervals and allowed leaps
	RhythmDensity float64      `json:"rhythm_density"` // 0.0-1.0, >0.5 favors short durations
	RangeLow      int          `json:"range_low"`
	RangeHigh     int          `json:"range_high"`
	Scale         theory.Scale `json:"scale"`
}

// GeneratedMelody is the output of one generation call.
type GeneratedMelody struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Notes     []Note           `json:"notes"`
	Params    GenerationParams `json:"params"`
	CreatedAt time.Time        `json:"created_at"`
}
