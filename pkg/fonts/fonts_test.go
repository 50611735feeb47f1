package fonts

import (
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestHeuristic(t *testing.T) {
	var h Heuristic
	d := Descriptor{Family: "sans", Size: 10}

	tests := []struct {
		text string
		want float64
	}{
		{"", 0},
		{"abc", 3 * 0.55 * 10},
		{"ii", 2 * 0.5 * 0.55 * 10},
		{"ab\nlonger line", 2 * 0.55 * 10},
	}
	for _, tt := range tests {
		if got := h.Advance(d, tt.text); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Advance(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}

	m := h.Metrics(d)
	if math.Abs(m.Height()-10) > 1e-9 {
		t.Errorf("Metrics().Height() = %v, want 10", m.Height())
	}
	if got := h.Metrics(Descriptor{}).Height(); math.Abs(got-DefaultSize) > 1e-9 {
		t.Errorf("zero size Height() = %v, want %v", got, DefaultSize)
	}
}

func TestProviderMeasures(t *testing.T) {
	p, err := NewProvider()
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	d := Descriptor{Family: "sans", Size: 12}

	short, long := p.Advance(d, "Box"), p.Advance(d, "Box with text")
	if short <= 0 || long <= short {
		t.Errorf("Advance: short=%v long=%v, want 0 < short < long", short, long)
	}

	big := p.Advance(Descriptor{Family: "sans", Size: 24}, "Box with text")
	if ratio := big / long; math.Abs(ratio-2) > 0.1 {
		t.Errorf("doubling the size scaled the width by %v, want ~2", ratio)
	}

	m := p.Metrics(d)
	if m.Ascent <= 0 || m.Descent <= 0 || m.Leading < 0 {
		t.Errorf("Metrics() = %+v, want positive ascent and descent", m)
	}

	mono := Descriptor{Family: "Courier", Size: 12}
	if a, b := p.Advance(mono, "iiii"), p.Advance(mono, "MMMM"); math.Abs(a-b) > 1e-9 {
		t.Errorf("monospace widths differ: %v vs %v", a, b)
	}
}

func TestProviderConcurrent(t *testing.T) {
	p, err := NewProvider()
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(size float64) {
			defer wg.Done()
			d := Descriptor{Size: size}
			for j := 0; j < 50; j++ {
				p.Advance(d, "concurrent")
				p.Metrics(d)
			}
		}(float64(8 + i))
	}
	wg.Wait()
}

func TestProviderLoadDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Custom-Bold.ttf"), goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := NewProvider()
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	n, err := p.LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if n != 1 {
		t.Errorf("LoadDir loaded %d fonts, want 1", n)
	}

	// the registered bold face is Go Regular, so it matches the built-in regular width
	custom := p.Advance(Descriptor{Family: "custom", Size: 12, Bold: true}, "text")
	builtin := p.Advance(Descriptor{Family: "sans", Size: 12}, "text")
	if math.Abs(custom-builtin) > 1e-9 {
		t.Errorf("registered face width = %v, want %v", custom, builtin)
	}

	if err := p.Register("broken", false, false, []byte("not a font")); err == nil {
		t.Error("Register with invalid data should fail")
	}
}
