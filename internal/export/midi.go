package export

import (
	"math"

	"github.com/Payamchegini021/Melody-generator/internal/models"
)

const (
	ticksPerQuarter = 96

	statusNoteOn  = 0x90
	statusNoteOff = 0x80

	releaseVelocity = 0x40
)

// EncodeMIDI renders a melody as a Standard MIDI File: format 0, one
// track, 96 ticks per quarter note. Each note becomes a delta-timed
// note-on followed by a duration-timed note-off; the track ends with the
// end-of-track meta event.
func EncodeMIDI(melody models.GeneratedMelody) ([]byte, error) {
	var track []byte

	// Notes are monophonic and ordered by start time, so the delta for
	// each note-on is the gap from the previous note's release.
	prevEndTicks := 0
	for _, note := range melody.Notes {
		startTicks := beatsToTicks(note.StartBeats)
		durationTicks := beatsToTicks(note.DurationBeats)

		delta := startTicks - prevEndTicks
		if delta < 0 {
			delta = 0
		}

		track = append(track, encodeVarLen(delta)...)
		track = append(track, statusNoteOn, clampMIDIByte(note.Pitch), clampMIDIByte(note.Velocity))

		track = append(track, encodeVarLen(durationTicks)...)
		track = append(track, statusNoteOff, clampMIDIByte(note.Pitch), releaseVelocity)

		prevEndTicks = startTicks + durationTicks
	}

	// End-of-track meta event.
	track = append(track, 0x00, 0xFF, 0x2F, 0x00)

	// Header chunk: format 0, one track, 96 ticks per quarter.
	out := []byte{
		'M', 'T', 'h', 'd',
		0, 0, 0, 6,
		0, 0,
		0, 1,
		0, ticksPerQuarter,
	}

	out = append(out, 'M', 'T', 'r', 'k')
	trackLen := uint32(len(track))
	out = append(out,
		byte(trackLen>>24),
		byte(trackLen>>16),
		byte(trackLen>>8),
		byte(trackLen),
	)
	out = append(out, track...)

	return out, nil
}

// encodeVarLen encodes an integer as a MIDI variable-length quantity:
// 7 bits per byte, most-significant first, continuation bit set on all but
// the last byte.
func encodeVarLen(value int) []byte {
	buffer := []byte{byte(value & 0x7F)}
	value >>= 7
	for value > 0 {
		buffer = append([]byte{byte(value&0x7F | 0x80)}, buffer...)
		value >>= 7
	}
	return buffer
}

func beatsToTicks(beats float64) int {
	return int(math.Round(beats * ticksPerQuarter))
}

func clampMIDIByte(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 127 {
		return 127
	}
	return byte(v)
}
