// Package playback maps beat-domain melodies onto the wall clock. It does
// the scheduling math only; audible rendering belongs to whatever MIDI or
// audio backend consumes the events.
package playback

import (
	"fmt"
	"time"

	"github.com/Payamchegini021/Melody-generator/internal/models"
)

const secondsPerMinute = 60

// Event is one scheduled note: absolute offset from playback start plus
// how long the note sounds.
type Event struct {
	Pitch    int
	Velocity int
	At       time.Duration
	Duration time.Duration
}

// Schedule converts a melody's notes to wall-clock events at the given
// tempo. Relative timing comes straight from the notes' beat positions, so
// the same melody schedules correctly at any tempo.
func Schedule(notes []models.Note, bpm float64) ([]Event, error) {
	if bpm <= 0 {
		return nil, fmt.Errorf("tempo must be positive, got %g bpm", bpm)
	}

	beatDuration := time.Duration(float64(time.Second) * secondsPerMinute / bpm)

	events := make([]Event, len(notes))
	for i, note := range notes {
		events[i] = Event{
			Pitch:    note.Pitch,
			Velocity: note.Velocity,
			At:       time.Duration(note.StartBeats * float64(beatDuration)),
			Duration: time.Duration(note.DurationBeats * float64(beatDuration)),
		}
	}
	return events, nil
}

// TotalDuration reports when the last event finishes.
func TotalDuration(events []Event) time.Duration {
	var end time.Duration
	for _, ev := range events {
		if finish := ev.At + ev.Duration; finish > end {
			end = finish
		}
	}
	return end
}
