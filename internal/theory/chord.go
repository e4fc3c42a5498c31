package theory

import "fmt"

// ChordType identifies a chord quality.
type ChordType string

const (
	ChordMajor      ChordType = "major"
	ChordMinor      ChordType = "minor"
	ChordDiminished ChordType = "diminished"
	ChordAugmented  ChordType = "augmented"
	ChordMajor7     ChordType = "major7"
	ChordMinor7     ChordType = "minor7"
	ChordDominant7  ChordType = "dominant7"
	ChordSus2       ChordType = "sus2"
	ChordSus4       ChordType = "sus4"
)

// Semitone interval templates from the chord root.
var chordIntervals = map[ChordType][]int{
	ChordMajor:      {0, 4, 7},
	ChordMinor:      {0, 3, 7},
	ChordDiminished: {0, 3, 6},
	ChordAugmented:  {0, 4, 8},
	ChordMajor7:     {0, 4, 7, 11},
	ChordMinor7:     {0, 3, 7, 10},
	ChordDominant7:  {0, 4, 7, 10},
	ChordSus2:       {0, 2, 7},
	ChordSus4:       {0, 5, 7},
}

// Chord is a value object: an absolute root pitch, a quality, and an
// inversion count.
type Chord struct {
	Root      int       `json:"root"` // absolute pitch, not a pitch class
	Type      ChordType `json:"type"`
	Inversion int       `json:"inversion"`
}

// ChordNotes expands a chord to its absolute pitches. Each inversion step
// moves the current lowest note up one octave, so inversion 1 of C major
// {60,64,67} yields {64,67,72}.
func ChordNotes(chord Chord) ([]int, error) {
	intervals, ok := chordIntervals[chord.Type]
	if !ok {
		return nil, fmt.Errorf("unknown chord type: %q", chord.Type)
	}
	if chord.Inversion < 0 {
		return nil, fmt.Errorf("chord inversion must be non-negative, got %d", chord.Inversion)
	}

	notes := make([]int, len(intervals))
	for i, interval := range intervals {
		notes[i] = chord.Root + interval
	}

	for i := 0; i < chord.Inversion; i++ {
		lowest := notes[0]
		notes = append(notes[1:], lowest+12)
	}

	return notes, nil
}
