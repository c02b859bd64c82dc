package filters

import (
	"errors"
	"image"
	"testing"

	"github.com/imamik/photofx/internal/pixbuf"
)

var (
	red   = px{255, 0, 0, 255}
	green = px{0, 255, 0, 200}
	blue  = px{0, 0, 255, 100}
	white = px{255, 255, 255, 50}
)

func TestMirror(t *testing.T) {
	b := newBuffer(t, 3, 1, red, green, blue)
	out := Mirror(b, true)
	want := []px{blue, green, red}
	for x, w := range want {
		if got := pixelAt(out, x, 0); got != w {
			t.Errorf("pixel %d = %v, want %v", x, got, w)
		}
	}
}

func TestMirrorRoundTrip(t *testing.T) {
	for _, size := range [][2]int{{1, 1}, {2, 3}, {7, 5}, {16, 1}} {
		src := gradientBuffer(t, size[0], size[1])
		want := src.Clone()
		assertSamePix(t, "mirror twice", Mirror(Mirror(src, true), true), want)
	}
}

func TestKaleidoscope(t *testing.T) {
	tests := []struct {
		name string
		in   []px
		want []px
	}{
		{"even width", []px{red, green, blue, white}, []px{red, green, green, red}},
		{"odd width", []px{red, green, blue, white, red}, []px{red, green, blue, green, red}},
		{"single column", []px{blue}, []px{blue}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Kaleidoscope(newBuffer(t, len(tt.in), 1, tt.in...), 10)
			for x, w := range tt.want {
				if got := pixelAt(out, x, 0); got != w {
					t.Errorf("pixel %d = %v, want %v", x, got, w)
				}
			}
		})
	}
}

func TestMosaicUniform(t *testing.T) {
	for _, block := range []int{1, 2, 3, 4, 7, 100} {
		src := uniformBuffer(t, 7, 5, px{12, 34, 56, 78})
		want := src.Clone()
		assertSamePix(t, "mosaic", Mosaic(src, block), want)
	}
}

func TestMosaicAveragesAndKeepsAlpha(t *testing.T) {
	b := newBuffer(t, 3, 1, px{10, 0, 1, 1}, px{21, 5, 2, 2}, px{99, 99, 99, 3})
	out := Mosaic(b, 2)
	want := []px{{15, 2, 1, 1}, {15, 2, 1, 2}, {99, 99, 99, 3}}
	for x, w := range want {
		if got := pixelAt(out, x, 0); got != w {
			t.Errorf("pixel %d = %v, want %v", x, got, w)
		}
	}
}

func TestCrystallizeBlockSize(t *testing.T) {
	src := gradientBuffer(t, 6, 6)
	assertSamePix(t, "crystallize 4", Crystallize(src.Clone(), 4), src)
	assertSamePix(t, "crystallize 10", Crystallize(src.Clone(), 10), Mosaic(src.Clone(), 2))
}

func TestFisheyeSinglePixel(t *testing.T) {
	src := newBuffer(t, 1, 1, green)
	if got := pixelAt(Fisheye(src, 80), 0, 0); got != green {
		t.Errorf("Fisheye on 1x1 = %v, want %v", got, green)
	}
}

func TestFisheyeOutOfBoundsKeepsOwnPixel(t *testing.T) {
	src := gradientBuffer(t, 4, 4)
	out := Fisheye(src.Clone(), 1000)
	for _, p := range [][2]int{{0, 0}, {3, 0}, {0, 3}, {3, 3}} {
		if got, want := pixelAt(out, p[0], p[1]), pixelAt(src, p[0], p[1]); got != want {
			t.Errorf("corner %v = %v, want own pixel %v", p, got, want)
		}
	}
}

func TestSwirlUniformAndCentre(t *testing.T) {
	src := uniformBuffer(t, 6, 4, blue)
	want := src.Clone()
	assertSamePix(t, "swirl uniform", Swirl(src, 250), want)

	g := gradientBuffer(t, 4, 4)
	out := Swirl(g.Clone(), 90)
	if got, want := pixelAt(out, 2, 2), pixelAt(g, 2, 2); got != want {
		t.Errorf("centre pixel = %v, want %v", got, want)
	}
}

func TestPixelateBlocks(t *testing.T) {
	a, b, c, d := px{10, 20, 30, 255}, px{200, 100, 0, 255}, px{0, 0, 0, 255}, px{90, 90, 90, 255}
	src := newBuffer(t, 4, 4,
		a, a, b, b,
		a, a, b, b,
		c, c, d, d,
		c, c, d, d,
	)
	out := must(t)(Pixelate(src, 2, nil))
	for by := 0; by < 4; by += 2 {
		for bx := 0; bx < 4; bx += 2 {
			first := pixelAt(out, bx, by)
			for y := by; y < by+2; y++ {
				for x := bx; x < bx+2; x++ {
					if got := pixelAt(out, x, y); got != first {
						t.Errorf("block (%d,%d) not uniform: %v vs %v", bx, by, got, first)
					}
				}
			}
		}
	}
}

func TestPixelateLargeFactorIsUniform(t *testing.T) {
	out := must(t)(Pixelate(gradientBuffer(t, 5, 3), 50, nil))
	first := pixelAt(out, 0, 0)
	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			if got := pixelAt(out, x, y); got != first {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, first)
			}
		}
	}
}

func TestPixelateUsesInjectedResampler(t *testing.T) {
	var calls []bool
	stub := func(img *image.NRGBA, w, h int, smooth bool) *image.NRGBA {
		calls = append(calls, smooth)
		return image.NewNRGBA(image.Rect(0, 0, w, h))
	}
	if _, err := Pixelate(gradientBuffer(t, 8, 8), 4, stub); err != nil {
		t.Fatalf("Pixelate() error = %v", err)
	}
	if len(calls) != 2 || calls[0] || calls[1] {
		t.Errorf("resampler calls = %v, want [false false]", calls)
	}

	broken := func(img *image.NRGBA, w, h int, smooth bool) *image.NRGBA {
		return image.NewNRGBA(image.Rect(0, 0, 1, 1))
	}
	if _, err := Pixelate(gradientBuffer(t, 8, 8), 4, broken); !errors.Is(err, pixbuf.ErrInvalidBuffer) {
		t.Errorf("Pixelate() with wrong-size resampler error = %v, want ErrInvalidBuffer", err)
	}
}

func TestGeometricPreservesAlpha(t *testing.T) {
	src := uniformBuffer(t, 9, 9, px{40, 80, 120, 33})
	apply := map[string]func(*pixbuf.Buffer) *pixbuf.Buffer{
		"fisheye":      func(b *pixbuf.Buffer) *pixbuf.Buffer { return Fisheye(b, -60) },
		"swirl":        func(b *pixbuf.Buffer) *pixbuf.Buffer { return Swirl(b, 300) },
		"mirror":       func(b *pixbuf.Buffer) *pixbuf.Buffer { return Mirror(b, true) },
		"kaleidoscope": func(b *pixbuf.Buffer) *pixbuf.Buffer { return Kaleidoscope(b, 1) },
		"mosaic":       func(b *pixbuf.Buffer) *pixbuf.Buffer { return Mosaic(b, 4) },
	}
	for name, fn := range apply {
		assertAlphaPreserved(t, name, fn(src.Clone()), src)
	}
}

func TestPixelateKeepsSourceAlpha(t *testing.T) {
	opaque, transparent := px{200, 100, 50, 255}, px{10, 20, 30, 0}
	src := newBuffer(t, 2, 2,
		opaque, transparent,
		opaque, transparent,
	)
	out := must(t)(Pixelate(src, 2, nil))
	first := pixelAt(out, 0, 0)
	if first != opaque && first != transparent {
		t.Fatalf("pixelate block = %v, want one of the source pixels", first)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if got := pixelAt(out, x, y); got != first {
				t.Errorf("pixel (%d,%d) = %v, want %v", x, y, got, first)
			}
		}
	}

	grad := gradientBuffer(t, 9, 6)
	out = must(t)(Pixelate(grad.Clone(), 3, nil))
	alphas := map[uint8]bool{}
	for i := 3; i < len(grad.Pix); i += 4 {
		alphas[grad.Pix[i]] = true
	}
	for i := 3; i < len(out.Pix); i += 4 {
		if !alphas[out.Pix[i]] {
			t.Fatalf("alpha %d at byte %d is not a source alpha", out.Pix[i], i)
		}
	}
}
