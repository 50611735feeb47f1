package geom

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseFloat reads a number, tolerating surrounding space and a trailing
// unit such as "cm" or "pt".
func ParseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "abcdefghijklmnopqrstuvwxyz%")
	return strconv.ParseFloat(s, 64)
}

// ParsePoint reads "x,y".
func ParsePoint(s string) (Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return Point{}, fmt.Errorf("point %q: missing comma", s)
	}
	x, err := ParseFloat(xs)
	if err != nil {
		return Point{}, fmt.Errorf("point %q: %w", s, err)
	}
	y, err := ParseFloat(ys)
	if err != nil {
		return Point{}, fmt.Errorf("point %q: %w", s, err)
	}
	return Point{x, y}, nil
}

// ParsePoints reads an SVG point list ("x,y x,y ..."). Numbers may be
// separated by whitespace or commas. An empty list is valid.
func ParsePoints(s string) ([]Point, error) {
	nums, err := scanNumbers(s)
	if err != nil {
		return nil, err
	}
	if len(nums)%2 != 0 {
		return nil, fmt.Errorf("point list %q: odd number of coordinates", s)
	}
	pts := make([]Point, 0, len(nums)/2)
	for i := 0; i < len(nums); i += 2 {
		pts = append(pts, Point{nums[i], nums[i+1]})
	}
	return pts, nil
}

// ParseRect reads a rectangle written as "x1,y1;x2,y2".
func ParseRect(s string) (Range, error) {
	a, b, ok := strings.Cut(s, ";")
	if !ok {
		return Range{}, fmt.Errorf("rectangle %q: missing ';'", s)
	}
	p1, err := ParsePoint(a)
	if err != nil {
		return Range{}, err
	}
	p2, err := ParsePoint(b)
	if err != nil {
		return Range{}, err
	}
	return NewRange(p1, p2), nil
}

// FormatPoints writes pts as "x,y x,y ...".
func FormatPoints(pts []Point) string {
	var sb strings.Builder
	for i, p := range pts {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(p.String())
	}
	return sb.String()
}

// scanNumbers splits SVG number syntax: "1,2 3-4" yields 1 2 3 -4 and
// ".5.5" yields .5 .5.
func scanNumbers(s string) ([]float64, error) {
	sc := numberScanner{s: s}
	var out []float64
	for {
		sc.skipSeparators()
		if sc.done() {
			return out, nil
		}
		v, err := sc.number()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}

type numberScanner struct {
	s   string
	pos int
}

func (sc *numberScanner) done() bool { return sc.pos >= len(sc.s) }

func (sc *numberScanner) peek() byte {
	if sc.done() {
		return 0
	}
	return sc.s[sc.pos]
}

func (sc *numberScanner) skipSeparators() {
	for !sc.done() {
		switch sc.peek() {
		case ' ', '\t', '\n', '\r', ',':
			sc.pos++
		default:
			return
		}
	}
}

func (sc *numberScanner) skipSpace() {
	for !sc.done() {
		switch sc.peek() {
		case ' ', '\t', '\n', '\r':
			sc.pos++
		default:
			return
		}
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// startsNumber reports whether the next token is a number.
func (sc *numberScanner) startsNumber() bool {
	c := sc.peek()
	return isDigit(c) || c == '-' || c == '+' || c == '.'
}

func (sc *numberScanner) number() (float64, error) {
	start := sc.pos
	if c := sc.peek(); c == '+' || c == '-' {
		sc.pos++
	}
	digits := 0
	for isDigit(sc.peek()) {
		sc.pos++
		digits++
	}
	if sc.peek() == '.' {
		sc.pos++
		for isDigit(sc.peek()) {
			sc.pos++
			digits++
		}
	}
	if digits == 0 {
		return 0, fmt.Errorf("invalid number at offset %d in %q", start, sc.s)
	}
	if c := sc.peek(); c == 'e' || c == 'E' {
		save := sc.pos
		sc.pos++
		if c := sc.peek(); c == '+' || c == '-' {
			sc.pos++
		}
		if !isDigit(sc.peek()) {
			sc.pos = save
		}
		for isDigit(sc.peek()) {
			sc.pos++
		}
	}
	v, err := strconv.ParseFloat(sc.s[start:sc.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", sc.s[start:sc.pos], err)
	}
	return v, nil
}
