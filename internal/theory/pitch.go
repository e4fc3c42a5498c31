package theory

import (
	"fmt"
	"regexp"
	"strconv"
)

// Names of the 12 pitch classes, sharps only.
var pitchClassNames = []string{
	"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B",
}

// Semitone offsets from C for the natural note letters.
var noteLetterOffsets = map[string]int{
	"C": 0, "D": 2, "E": 4, "F": 5, "G": 7, "A": 9, "B": 11,
}

// Strict <letter>[#]<octave> grammar, e.g. "C4", "F#3", "A#-1".
var pitchNamePattern = regexp.MustCompile(`^([A-G])(#?)(-?\d+)$`)

// PitchName renders an absolute pitch as a note name with octave, using
// sharps: 60 -> "C4", 61 -> "C#4", 0 -> "C-1".
func PitchName(pitch int) string {
	return fmt.Sprintf("%s%d", pitchClassNames[pitchClass(pitch)], pitch/12-1)
}

// PitchClassName renders a pitch class without octave, e.g. 0 -> "C".
func PitchClassName(pc int) string {
	return pitchClassNames[pitchClass(pc)]
}

// ParsePitchName is the inverse of PitchName. It accepts only the strict
// letter[#]octave form and errors on anything else (flats included).
func ParsePitchName(name string) (int, error) {
	m := pitchNamePattern.FindStringSubmatch(name)
	if m == nil {
		return 0, fmt.Errorf("malformed pitch name: %q", name)
	}

	semitone := noteLetterOffsets[m[1]]
	if m[2] == "#" {
		semitone++
	}

	octave, err := strconv.Atoi(m[3])
	if err != nil {
		return 0, fmt.Errorf("invalid octave in pitch name %q: %w", name, err)
	}

	// (octave + 1) * 12 + semitone gives C-1 = 0, C4 = 60.
	return (octave+1)*12 + semitone, nil
}
