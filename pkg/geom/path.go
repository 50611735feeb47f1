package geom

import (
	"fmt"
	"strings"
)

// ParsePath reads SVG path data. Supported commands are M, L, H, V, C, S,
// Q, T and Z in absolute and relative form. Quadratic segments are raised
// to cubics. When a subpath closes on its own start point the duplicate end
// vertex is dropped, so the closing segment carries the final curve.
func ParsePath(d string) (PolyPolygon, error) {
	sc := numberScanner{s: d}
	var (
		out      PolyPolygon
		cur      *Polygon
		pos      Point
		start    Point
		cmd      byte
		lastCtrl Point
		lastKind byte
	)

	flush := func() {
		if cur != nil && len(cur.Vertices) > 0 {
			out = append(out, *cur)
		}
		cur = nil
	}
	ensure := func() {
		if cur == nil {
			cur = &Polygon{}
			cur.LineTo(pos)
			start = pos
		}
	}
	read := func(n int) ([]float64, error) {
		vals := make([]float64, n)
		for i := range vals {
			sc.skipSeparators()
			if sc.done() || !sc.startsNumber() {
				return nil, fmt.Errorf("path %q: command %c needs %d numbers", d, cmd, n)
			}
			v, err := sc.number()
			if err != nil {
				return nil, err
			}
			vals[i] = v
		}
		return vals, nil
	}

	for {
		sc.skipSeparators()
		if sc.done() {
			break
		}
		c := sc.peek()
		switch {
		case strings.IndexByte("MmLlHhVvCcSsQqTtZz", c) >= 0:
			cmd = c
			sc.pos++
		case sc.startsNumber() && cmd != 0 && cmd != 'Z' && cmd != 'z':
			// implicit repetition of the previous command
		default:
			return nil, fmt.Errorf("path %q: unexpected %q at offset %d", d, c, sc.pos)
		}

		rel := cmd >= 'a' && cmd <= 'z'
		abs := func(x, y float64) Point {
			if rel {
				return Point{pos.X + x, pos.Y + y}
			}
			return Point{x, y}
		}

		kind := cmd &^ 0x20 // upper case
		switch kind {
		case 'M':
			v, err := read(2)
			if err != nil {
				return nil, err
			}
			flush()
			pos = abs(v[0], v[1])
			ensure()
			// further pairs are line-tos
			if rel {
				cmd = 'l'
			} else {
				cmd = 'L'
			}
		case 'L':
			v, err := read(2)
			if err != nil {
				return nil, err
			}
			ensure()
			pos = abs(v[0], v[1])
			cur.LineTo(pos)
		case 'H':
			v, err := read(1)
			if err != nil {
				return nil, err
			}
			ensure()
			if rel {
				pos.X += v[0]
			} else {
				pos.X = v[0]
			}
			cur.LineTo(pos)
		case 'V':
			v, err := read(1)
			if err != nil {
				return nil, err
			}
			ensure()
			if rel {
				pos.Y += v[0]
			} else {
				pos.Y = v[0]
			}
			cur.LineTo(pos)
		case 'C':
			v, err := read(6)
			if err != nil {
				return nil, err
			}
			ensure()
			c1, c2, end := abs(v[0], v[1]), abs(v[2], v[3]), abs(v[4], v[5])
			cur.CurveTo(c1, c2, end)
			pos, lastCtrl = end, c2
		case 'S':
			v, err := read(4)
			if err != nil {
				return nil, err
			}
			ensure()
			c1 := pos
			if lastKind == 'C' || lastKind == 'S' {
				c1 = pos.Scale(2).Sub(lastCtrl)
			}
			c2, end := abs(v[0], v[1]), abs(v[2], v[3])
			cur.CurveTo(c1, c2, end)
			pos, lastCtrl = end, c2
		case 'Q':
			v, err := read(4)
			if err != nil {
				return nil, err
			}
			ensure()
			q, end := abs(v[0], v[1]), abs(v[2], v[3])
			cur.CurveTo(pos.Lerp(q, 2.0/3), end.Lerp(q, 2.0/3), end)
			pos, lastCtrl = end, q
		case 'T':
			v, err := read(2)
			if err != nil {
				return nil, err
			}
			ensure()
			q := pos
			if lastKind == 'Q' || lastKind == 'T' {
				q = pos.Scale(2).Sub(lastCtrl)
			}
			end := abs(v[0], v[1])
			cur.CurveTo(pos.Lerp(q, 2.0/3), end.Lerp(q, 2.0/3), end)
			pos, lastCtrl = end, q
		case 'Z':
			if cur != nil {
				closePolygon(cur)
				flush()
			}
			pos = start
		}
		lastKind = kind
	}
	flush()
	return out, nil
}

func closePolygon(p *Polygon) {
	p.Closed = true
	n := len(p.Vertices)
	if n < 2 {
		return
	}
	last := p.Vertices[n-1]
	if !last.Control && last.Point == p.Vertices[0].Point {
		p.Vertices = p.Vertices[:n-1]
	}
}

// FormatPath writes absolute path data: "M x,y L x,y C x,y x,y x,y Z".
func FormatPath(pp PolyPolygon) string {
	var sb strings.Builder
	for _, p := range pp {
		on := p.onCurve()
		if len(on) == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString("M" + p.Vertices[on[0]].Point.String())
		for i := 0; i < p.SegmentCount(); i++ {
			seg, curved := p.segment(i)
			closing := p.Closed && i == len(on)-1
			switch {
			case curved:
				sb.WriteString(" C" + seg.C1.String() + " " + seg.C2.String() + " " + seg.End.String())
			case !closing:
				sb.WriteString(" L" + seg.End.String())
			}
		}
		if p.Closed {
			sb.WriteString(" Z")
		}
	}
	return sb.String()
}
