package export

import (
	"bytes"
	"fmt"

	"github.com/Payamchegini021/Melody-generator/internal/models"
)

// Divisions per quarter note; 1 division = one 16th, the shortest
// duration the generator emits.
const xmlDivisions = 4

var stepForPitchClass = []struct {
	step  string
	alter int
}{
	{"C", 0}, {"C", 1}, {"D", 0}, {"D", 1}, {"E", 0}, {"F", 0},
	{"F", 1}, {"G", 0}, {"G", 1}, {"A", 0}, {"A", 1}, {"B", 0},
}

var noteTypeForDivisions = map[int]string{
	1: "16th", 2: "eighth", 4: "quarter", 8: "half", 16: "whole",
}

// EncodeMusicXML renders a melody as a minimal single-part score-partwise
// MusicXML document in 4/4.
func EncodeMusicXML(melody models.GeneratedMelody) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	buf.WriteString(`<!DOCTYPE score-partwise PUBLIC "-//Recordare//DTD MusicXML 4.0 Partwise//EN" "http://www.musicxml.org/dtds/partwise.dtd">` + "\n")
	buf.WriteString(`<score-partwise version="4.0">` + "\n")
	fmt.Fprintf(&buf, "  <work><work-title>%s</work-title></work>\n", xmlEscape(melody.Name))
	buf.WriteString("  <part-list>\n")
	buf.WriteString(`    <score-part id="P1"><part-name>Melody</part-name></score-part>` + "\n")
	buf.WriteString("  </part-list>\n")
	buf.WriteString(`  <part id="P1">` + "\n")

	measure := 0
	measureOpen := false
	for _, note := range melody.Notes {
		noteMeasure := int(note.StartBeats) / beatsPerMeasure
		for !measureOpen || noteMeasure >= measure {
			if measureOpen {
				buf.WriteString("    </measure>\n")
			}
			measure++
			fmt.Fprintf(&buf, `    <measure number="%d">`+"\n", measure)
			if measure == 1 {
				fmt.Fprintf(&buf, "      <attributes><divisions>%d</divisions>"+
					"<time><beats>4</beats><beat-type>4</beat-type></time></attributes>\n", xmlDivisions)
			}
			measureOpen = true
		}
		writeXMLNote(&buf, note)
	}
	if measureOpen {
		buf.WriteString("    </measure>\n")
	}

	buf.WriteString("  </part>\n")
	buf.WriteString("</score-partwise>\n")

	return buf.Bytes(), nil
}

const beatsPerMeasure = 4

func writeXMLNote(buf *bytes.Buffer, note models.Note) {
	pc := note.Pitch % 12
	if pc < 0 {
		pc += 12
	}
	entry := stepForPitchClass[pc]
	octave := note.Pitch/12 - 1
	divisions := int(note.DurationBeats * xmlDivisions)
	if divisions < 1 {
		divisions = 1
	}

	buf.WriteString("      <note>\n")
	buf.WriteString("        <pitch>")
	fmt.Fprintf(buf, "<step>%s</step>", entry.step)
	if entry.alter != 0 {
		fmt.Fprintf(buf, "<alter>%d</alter>", entry.alter)
	}
	fmt.Fprintf(buf, "<octave>%d</octave>", octave)
	buf.WriteString("</pitch>\n")
	fmt.Fprintf(buf, "        <duration>%d</duration>\n", divisions)
	if noteType, ok := noteTypeForDivisions[divisions]; ok {
		fmt.Fprintf(buf, "        <type>%s</type>\n", noteType)
	}
	buf.WriteString("      </note>\n")
}

func xmlEscape(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
