package route

import (
	"errors"
	"fmt"

	"github.com/matzehuels/diaconv/pkg/geom"
)

// Sentinel errors returned by [Router.Route].
var (
	// ErrNoLayout is returned when no candidate scored below MaxBadness.
	ErrNoLayout = errors.New("no orthogonal layout")

	// ErrHintMismatch is returned when the best layout has a different
	// number of points than the caller can use.
	ErrHintMismatch = errors.New("layout point count differs from hint")

	// ErrEndpointMismatch is returned when the best layout does not start
	// and end exactly on the anchors.
	ErrEndpointMismatch = errors.New("layout endpoints differ from anchors")
)

// Config holds the tuning constants of the badness function.
type Config struct {
	// MinClearance is the distance a connector keeps from its anchors
	// before turning. Segments shorter than this are penalised steeply.
	MinClearance float64 `toml:"min_clearance" yaml:"min_clearance" json:"min_clearance"`

	// MaxSmallBadness bounds the penalty of a segment shorter than
	// MinClearance.
	MaxSmallBadness float64 `toml:"max_small_badness" yaml:"max_small_badness" json:"max_small_badness"`

	// ExtraSegmentBadness is charged for every segment.
	ExtraSegmentBadness float64 `toml:"extra_segment_badness" yaml:"extra_segment_badness" json:"extra_segment_badness"`

	// MaxBadness is the score a layout must beat to count as found.
	MaxBadness float64 `toml:"max_badness" yaml:"max_badness" json:"max_badness"`
}

// DefaultConfig returns the constants Dia uses.
func DefaultConfig() Config {
	return Config{
		MinClearance:        0,
		MaxSmallBadness:     10,
		ExtraSegmentBadness: 10,
		MaxBadness:          10000,
	}
}

// Validate checks that every constant is usable.
func (c Config) Validate() error {
	switch {
	case c.MinClearance < 0:
		return fmt.Errorf("min_clearance must be >= 0, got %v", c.MinClearance)
	case c.MaxSmallBadness < 0:
		return fmt.Errorf("max_small_badness must be >= 0, got %v", c.MaxSmallBadness)
	case c.ExtraSegmentBadness < 0:
		return fmt.Errorf("extra_segment_badness must be >= 0, got %v", c.ExtraSegmentBadness)
	case c.MaxBadness <= 0:
		return fmt.Errorf("max_badness must be > 0, got %v", c.MaxBadness)
	}
	return nil
}

// Anchor is a connector end: a position and the directions a connector
// may use there.
type Anchor struct {
	Pos geom.Point
	Dir Direction
}

// Layout is a routed orthogonal polyline.
type Layout struct {
	Points  []geom.Point
	Badness float64
}

// Segments returns the number of segments in l.
func (l Layout) Segments() int {
	if len(l.Points) == 0 {
		return 0
	}
	return len(l.Points) - 1
}

// improvement is how much a candidate must beat the current best by.
const improvement = 1e-5

// Router computes orthogonal connector layouts. It holds no state besides
// its configuration and is safe for concurrent use.
type Router struct {
	cfg Config
}

// New returns a Router using cfg.
func New(cfg Config) *Router {
	return &Router{cfg: cfg}
}

// Config returns the router's configuration.
func (r *Router) Config() Config { return r.cfg }

// Best returns the lowest-badness layout from one anchor to the other.
// Candidates are generated for every start and end direction allowed by
// the anchors, in the order North, East, South, West; ties keep the
// earlier candidate.
func (r *Router) Best(from, to Anchor) (Layout, error) {
	best := Layout{Badness: r.cfg.MaxBadness}
	found := false

	for _, startDir := range directions {
		if from.Dir&startDir == 0 {
			continue
		}
		for _, endDir := range directions {
			if to.Dir&endDir == 0 {
				continue
			}
			rel, normEnd := normalize(startDir, endDir, from.Pos, to.Pos)

			var pts []geom.Point
			var badness float64
			switch normEnd {
			case North:
				pts, badness = r.parallel(rel)
			case South:
				pts, badness = r.opposite(rel)
			default:
				pts, badness = r.orthogonal(rel, normEnd)
			}
			if len(pts) == 0 || badness-best.Badness >= -improvement {
				continue
			}
			best = Layout{
				Points:  unnormalize(startDir, from.Pos, to.Pos, rel, pts),
				Badness: badness,
			}
			found = true
		}
	}
	if !found {
		return Layout{}, ErrNoLayout
	}
	return best, nil
}

// Route returns the best layout when it has exactly hint points and starts
// and ends on the anchors. A hint of 0 accepts any point count.
func (r *Router) Route(from, to Anchor, hint int) (Layout, error) {
	l, err := r.Best(from, to)
	if err != nil {
		return Layout{}, err
	}
	if hint > 0 && len(l.Points) != hint {
		return Layout{}, fmt.Errorf("%w: got %d, want %d", ErrHintMismatch, len(l.Points), hint)
	}
	if l.Points[0] != from.Pos || l.Points[len(l.Points)-1] != to.Pos {
		return Layout{}, ErrEndpointMismatch
	}
	return l, nil
}

// normalize moves the start anchor to the origin and rotates so startDir
// points North. It returns the end position and end direction in that
// frame.
func normalize(startDir, endDir Direction, start, end geom.Point) (geom.Point, Direction) {
	p := end.Sub(start)
	switch startDir {
	case East:
		p = rotateCCW(p)
		if endDir == North {
			return p, West
		}
		return p, endDir / 2
	case West:
		p = rotateCW(p)
		if endDir == West {
			return p, North
		}
		return p, endDir * 2
	case South:
		p = rotate180(p)
		if endDir < South {
			return p, endDir * 4
		}
		return p, endDir / 4
	}
	return p, endDir
}

// unnormalize maps normalized points back to world coordinates. Points
// equal to the normalized anchors map to the anchors exactly, so callers
// can compare endpoints without a tolerance.
func unnormalize(startDir Direction, start, end, rel geom.Point, pts []geom.Point) []geom.Point {
	out := make([]geom.Point, len(pts))
	for i, p := range pts {
		switch {
		case p == (geom.Point{}):
			out[i] = start
			continue
		case p == rel:
			out[i] = end
			continue
		}
		switch startDir {
		case West:
			p = rotateCCW(p)
		case South:
			p = rotate180(p)
		case East:
			p = rotateCW(p)
		}
		out[i] = p.Add(start)
	}
	return out
}

func rotateCCW(p geom.Point) geom.Point { return geom.Point{X: p.Y, Y: -p.X} }
func rotateCW(p geom.Point) geom.Point  { return geom.Point{X: -p.Y, Y: p.X} }
func rotate180(p geom.Point) geom.Point { return geom.Point{X: -p.X, Y: -p.Y} }
