package fonts

import (
	"strings"
	"unicode/utf8"
)

const (
	charWidthRatio   = 0.55
	monoWidthRatio   = 0.6
	boldWidthFactor  = 1.1
	ascentRatio      = 0.8
	descentRatio     = 0.2
	wideRuneFactor   = 1.8
	narrowRuneFactor = 0.5
)

// Heuristic estimates text metrics from an average character width. Line
// metrics always add up to the requested size, so font-size corrections
// based on them are neutral.
type Heuristic struct{}

// Advance estimates the width of the first line of text.
func (Heuristic) Advance(d Descriptor, text string) float64 {
	if line, _, ok := strings.Cut(text, "\n"); ok {
		text = line
	}
	ratio := charWidthRatio
	if isMonospace(strings.ToLower(d.Family)) {
		ratio = monoWidthRatio
	}
	if d.Bold {
		ratio *= boldWidthFactor
	}

	var units float64
	for len(text) > 0 {
		r, n := utf8.DecodeRuneInString(text)
		text = text[n:]
		switch {
		case r >= 0x1100 && r <= 0xFFDC:
			units += wideRuneFactor
		case strings.ContainsRune("il.,:;'|!", r):
			units += narrowRuneFactor
		default:
			units++
		}
	}
	return units * ratio * d.size()
}

// Metrics splits the size into ascent and descent with no leading.
func (Heuristic) Metrics(d Descriptor) LineMetrics {
	s := d.size()
	return LineMetrics{Ascent: s * ascentRatio, Descent: s * descentRatio}
}
