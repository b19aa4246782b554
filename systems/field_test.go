package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/wishtree/config"
)

func defaultConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	return cfg
}

func TestConicalVolumeBounds(t *testing.T) {
	cone := ConicalVolume{Height: 10, MaxRadius: 4}
	white := SolidPalette(colorful.Color{R: 1, G: 1, B: 1})
	buf := Generate(5000, cone, white, Range{Min: 0.1, Max: 0.1}, rand.New(rand.NewSource(1)))

	const tol = 1e-4
	for i := 0; i < buf.Len(); i++ {
		x, y, z := buf.Position(i)
		if y < 0 || float64(y) > cone.Height+tol {
			t.Fatalf("particle %d y=%v outside [0, %v]", i, y, cone.Height)
		}
		dist := math.Hypot(float64(x), float64(z))
		if limit := cone.RadiusAt(float64(y)); dist > limit+tol {
			t.Fatalf("particle %d at distance %v exceeds radius %v at y=%v", i, dist, limit, y)
		}
	}
}

func TestStarPolygonBounds(t *testing.T) {
	star := DefaultStar()
	rng := rand.New(rand.NewSource(2))

	outer := 0
	const n = 10000
	for i := 0; i < n; i++ {
		x, y, z := star.Sample(rng)
		if r := math.Hypot(x, y); r > star.MaxExtent()+1e-9 {
			t.Fatalf("sample %d radius %v exceeds %v", i, r, star.MaxExtent())
		} else if r > star.CoreRadius {
			outer++
		}
		if math.Abs(z) > star.Depth/2 {
			t.Fatalf("sample %d z=%v outside depth %v", i, z, star.Depth)
		}
	}
	// Only the outer magnitude can exceed the core radius
	if frac := float64(outer) / n; frac <= 0 || frac > star.CoreRatio {
		t.Errorf("fraction beyond core radius %v should be in (0, %v]", frac, star.CoreRatio)
	}
}

func TestUniformBoxBounds(t *testing.T) {
	box := UniformBox{Min: [3]float64{-1, 2, -3}, Max: [3]float64{1, 4, 3}}
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 1000; i++ {
		x, y, z := box.Sample(rng)
		if x < -1 || x >= 1 || y < 2 || y >= 4 || z < -3 || z >= 3 {
			t.Fatalf("sample (%v, %v, %v) outside box", x, y, z)
		}
	}
}

func TestGenerateAttributes(t *testing.T) {
	cfg := defaultConfig(t)
	palette, err := NewPalette(cfg.Tree.Palette)
	if err != nil {
		t.Fatal(err)
	}
	size := NewRange(cfg.Tree.Size)
	buf := Generate(4000, ConicalVolume{Height: 10, MaxRadius: 4}, palette, size, rand.New(rand.NewSource(4)))

	if !buf.Valid() {
		t.Fatal("buffer lengths disagree")
	}

	gold := make([]float64, buf.Len())
	for i := 0; i < buf.Len(); i++ {
		r, g, b := buf.Color(i)
		for _, c := range []float32{r, g, b} {
			if c < 0 || c > 1 {
				t.Fatalf("particle %d color channel %v outside [0,1]", i, c)
			}
		}
		if s := float64(buf.Sizes[i]); s < size.Min-1e-6 || s > size.Max+1e-6 {
			t.Fatalf("particle %d size %v outside %v", i, s, size)
		}
		if s := buf.Seeds[i]; s < 0 || s >= 1 {
			t.Fatalf("particle %d seed %v outside [0,1)", i, s)
		}
		// Greens have a dim red channel, gold a saturated one
		if r > 0.5 {
			gold[i] = 1
		}
	}

	if frac := stat.Mean(gold, nil); math.Abs(frac-0.4) > 0.03 {
		t.Errorf("gold fraction %v, expected about 0.4", frac)
	}
}

func TestPaletteBlendStaysBetweenEndpoints(t *testing.T) {
	p, err := NewPalette([]config.PaletteEntry{{Color: "#0a4d1c", Blend: "#16a34a", Weight: 1}})
	if err != nil {
		t.Fatal(err)
	}
	from, _ := colorful.Hex("#0a4d1c")
	to, _ := colorful.Hex("#16a34a")
	rng := rand.New(rand.NewSource(5))

	for i := 0; i < 500; i++ {
		c := p.Sample(rng)
		if c.G < from.G-1e-9 || c.G > to.G+1e-9 {
			t.Fatalf("blended green %v outside [%v, %v]", c.G, from.G, to.G)
		}
	}
}

func TestNewPaletteErrors(t *testing.T) {
	tests := []struct {
		name    string
		entries []config.PaletteEntry
	}{
		{"empty", nil},
		{"zero weights", []config.PaletteEntry{{Color: "#ffffff", Weight: 0}}},
		{"bad color", []config.PaletteEntry{{Color: "gold", Weight: 1}}},
		{"bad blend", []config.PaletteEntry{{Color: "#ffffff", Blend: "#12", Weight: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewPalette(tt.entries); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRangeRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	if got := (Range{Min: 2, Max: 2}).Random(rng); got != 2 {
		t.Errorf("degenerate range returned %v", got)
	}
	r := Range{Min: 2, Max: 8}
	for i := 0; i < 1000; i++ {
		if v := r.Random(rng); v < 2 || v >= 8 {
			t.Fatalf("value %v outside [2,8)", v)
		}
	}
}
