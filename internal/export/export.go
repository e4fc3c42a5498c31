// Package export encodes generated melodies into interchange formats.
package export

import (
	"fmt"

	"github.com/Payamchegini021/Melody-generator/internal/models"
)

// Format is an export target format tag.
type Format string

const (
	FormatMIDI     Format = "midi"
	FormatMusicXML Format = "musicxml"
)

// ContentType returns the MIME type for the encoded artifact.
func (f Format) ContentType() string {
	switch f {
	case FormatMIDI:
		return "audio/midi"
	case FormatMusicXML:
		return "application/vnd.recordare.musicxml+xml"
	default:
		return "application/octet-stream"
	}
}

// FileExtension returns the conventional file extension, without the dot.
func (f Format) FileExtension() string {
	switch f {
	case FormatMIDI:
		return "mid"
	case FormatMusicXML:
		return "musicxml"
	default:
		return "bin"
	}
}

// Encode renders a melody in the requested format.
func Encode(melody models.GeneratedMelody, format Format) ([]byte, error) {
	switch format {
	case FormatMIDI:
		return EncodeMIDI(melody)
	case FormatMusicXML:
		return EncodeMusicXML(melody)
	default:
		return nil, fmt.Errorf("unknown export format: %q", format)
	}
}
