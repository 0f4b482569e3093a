// Package chronicle renders a printable PDF mission log: the beats the
// player has visited, the battles fought, and their current standing.
package chronicle

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf/v2"

	"starquest/internal/game"
)

const (
	pageW     = 595
	pageH     = 842
	margin    = 48
	titleSize = 18
	headSize  = 11
	bodySize  = 9
	lineH     = 14.0
)

// Generate returns PDF bytes for the session's mission log. The log is
// a journey: every stop appears in visit order, revisits included, with
// battle outcomes interleaved where they happened.
func Generate(sess *game.Session) ([]byte, error) {
	story := sess.Story()
	p := sess.Player

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, 0)
	// Core fonts expect cp1252, not UTF-8; player and enemy names go
	// through the translator so they survive outside ASCII.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	newPage := func() float64 {
		pdf.AddPage()
		// Parchment background with a plain ruled border
		pdf.SetFillColor(245, 238, 220)
		pdf.Rect(0, 0, pageW, pageH, "F")
		pdf.SetDrawColor(70, 55, 40)
		pdf.SetLineWidth(1.5)
		pdf.Rect(margin/2, margin/2, pageW-margin, pageH-margin, "D")
		pdf.SetLineWidth(1)
		return margin + 10
	}

	y := newPage()
	pdf.SetTextColor(60, 45, 30)
	pdf.SetFont("Helvetica", "B", titleSize)
	pdf.SetXY(margin, y)
	pdf.CellFormat(pageW-2*margin, 20, "Mission Log", "", 0, "C", false, 0, "")
	y += 24

	pdf.SetFont("Helvetica", "I", headSize)
	pdf.SetXY(margin, y)
	subtitle := story.Title
	if subtitle == "" {
		subtitle = story.ID
	}
	pdf.CellFormat(pageW-2*margin, 14, tr(fmt.Sprintf("%s - the journey of %s", subtitle, p.Name)), "", 0, "C", false, 0, "")
	y += 30

	pdf.SetFont("Helvetica", "B", headSize)
	pdf.SetXY(margin, y)
	pdf.CellFormat(0, 14, "Stops along the way", "", 0, "L", false, 0, "")
	y += lineH + 4

	pdf.SetFont("Helvetica", "", bodySize)
	for i, id := range sess.Visited {
		if y > pageH-margin-60 {
			y = newPage()
			pdf.SetFont("Helvetica", "", bodySize)
			pdf.SetTextColor(60, 45, 30)
		}
		pdf.SetXY(margin+6, y)
		pdf.CellFormat(0, 12, tr(fmt.Sprintf("%2d. %s", i+1, stopLabel(story, id))), "", 0, "L", false, 0, "")
		y += lineH
	}
	y += 10

	if len(sess.Battles) > 0 {
		pdf.SetFont("Helvetica", "B", headSize)
		pdf.SetXY(margin, y)
		pdf.CellFormat(0, 14, "Battles", "", 0, "L", false, 0, "")
		y += lineH + 4
		pdf.SetFont("Helvetica", "", bodySize)
		for _, b := range sess.Battles {
			if y > pageH-margin-60 {
				y = newPage()
				pdf.SetFont("Helvetica", "", bodySize)
				pdf.SetTextColor(60, 45, 30)
			}
			outcome := "defeated"
			if b.Won {
				outcome = "victorious"
			}
			pdf.SetXY(margin+6, y)
			pdf.CellFormat(0, 12, tr(fmt.Sprintf("vs %s - %s", b.Enemy, outcome)), "", 0, "L", false, 0, "")
			y += lineH
		}
		y += 10
	}

	pdf.SetFont("Helvetica", "B", headSize)
	pdf.SetXY(margin, y)
	pdf.CellFormat(0, 14, "Standing", "", 0, "L", false, 0, "")
	y += lineH + 4
	pdf.SetFont("Helvetica", "", bodySize)
	for _, line := range []string{
		fmt.Sprintf("Level %d, %d experience (%d to next level)", p.Level, p.Experience, p.ExpToNextLevel()),
		fmt.Sprintf("Health %d / %d, attack %d", p.Health, p.MaxHealth, p.Attack),
		fmt.Sprintf("Skill points: %d", p.SkillPoints),
	} {
		pdf.SetXY(margin+6, y)
		pdf.CellFormat(0, 12, line, "", 0, "L", false, 0, "")
		y += lineH
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// stopLabel prefers the authored caption, falling back to a humanized
// node id (e.g. "crash_site" -> "Crash Site").
func stopLabel(story *game.Story, id string) string {
	if n := story.Nodes[id]; n != nil && n.Caption != "" {
		return n.Caption
	}
	words := strings.Split(strings.ReplaceAll(id, "_", " "), " ")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
