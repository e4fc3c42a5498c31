// Package theory provides the pure music-theory primitives the melody
// generator builds on: scales, chords, and pitch-name conversions. Pitches
// are MIDI-style absolute semitone numbers (60 = middle C), pitch classes
// are pitch mod 12.
package theory

import "fmt"

// ScaleType identifies one of the supported scale/mode kinds.
type ScaleType string

const (
	ScaleMajor      ScaleType = "major"
	ScaleMinor      ScaleType = "minor"
	ScaleDorian     ScaleType = "dorian"
	ScalePhrygian   ScaleType = "phrygian"
	ScaleLydian     ScaleType = "lydian"
	ScaleMixolydian ScaleType = "mixolydian"
	ScaleAeolian    ScaleType = "aeolian"
	ScaleLocrian    ScaleType = "locrian"
)

// Semitone interval templates from the root, 7 degrees each.
var scaleIntervals = map[ScaleType][]int{
	ScaleMajor:      {0, 2, 4, 5, 7, 9, 11},
	ScaleMinor:      {0, 2, 3, 5, 7, 8, 10},
	ScaleDorian:     {0, 2, 3, 5, 7, 9, 10},
	ScalePhrygian:   {0, 1, 3, 5, 7, 8, 10},
	ScaleLydian:     {0, 2, 4, 6, 7, 9, 11},
	ScaleMixolydian: {0, 2, 4, 5, 7, 9, 10},
	ScaleAeolian:    {0, 2, 3, 5, 7, 8, 10},
	ScaleLocrian:    {0, 1, 3, 5, 6, 8, 10},
}

// Scale is a value object: a root pitch class plus the 7 pitch classes
// derived from the type's interval template.
type Scale struct {
	Root  int       `json:"root"` // pitch class 0-11
	Type  ScaleType `json:"type"`
	Notes []int     `json:"notes"` // 7 pitch classes, template order
}

// NewScale derives a scale from a root pitch class and a scale type.
// Returns an error for an unknown type or a root outside 0-11.
func NewScale(root int, scaleType ScaleType) (Scale, error) {
	if root < 0 || root > 11 {
		return Scale{}, fmt.Errorf("scale root must be a pitch class 0-11, got %d", root)
	}
	intervals, ok := scaleIntervals[scaleType]
	if !ok {
		return Scale{}, fmt.Errorf("unknown scale type: %q", scaleType)
	}

	notes := make([]int, len(intervals))
	for i, interval := range intervals {
		notes[i] = (root + interval) % 12
	}

	return Scale{
		Root:  root,
		Type:  scaleType,
		Notes: notes,
	}, nil
}

// ScaleTypes lists the supported scale kinds in a stable order.
func ScaleTypes() []ScaleType {
	return []ScaleType{
		ScaleMajor, ScaleMinor, ScaleDorian, ScalePhrygian,
		ScaleLydian, ScaleMixolydian, ScaleAeolian, ScaleLocrian,
	}
}

// Contains reports whether the pitch's pitch class belongs to the scale.
func (s Scale) Contains(pitch int) bool {
	pc := pitchClass(pitch)
	for _, note := range s.Notes {
		if note == pc {
			return true
		}
	}
	return false
}

// Degree returns the zero-based scale degree of the pitch, or false if the
// pitch class is not in the scale.
func (s Scale) Degree(pitch int) (int, bool) {
	pc := pitchClass(pitch)
	for i, note := range s.Notes {
		if note == pc {
			return i, true
		}
	}
	return 0, false
}

// NearestScaleNote snaps a pitch to the scale: among the 7 scale pitch
// classes it picks the one closest to the pitch's own class (ties go to the
// earlier scale degree), keeping the pitch's octave.
func NearestScaleNote(pitch int, scale Scale) int {
	pc := pitchClass(pitch)
	best := scale.Notes[0]
	bestDist := absInt(pc - best)
	for _, note := range scale.Notes[1:] {
		if d := absInt(pc - note); d < bestDist {
			best = note
			bestDist = d
		}
	}
	return pitch - pc + best
}

func pitchClass(pitch int) int {
	pc := pitch % 12
	if pc < 0 {
		pc += 12
	}
	return pc
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
