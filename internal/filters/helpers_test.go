package filters

import (
	"bytes"
	"testing"

	"github.com/imamik/photofx/internal/pixbuf"
)

type px [4]uint8

// newBuffer builds a w x h buffer from row-major pixels.
func newBuffer(t *testing.T, w, h int, pixels ...px) *pixbuf.Buffer {
	t.Helper()
	b, err := pixbuf.New(w, h)
	if err != nil {
		t.Fatalf("pixbuf.New() error = %v", err)
	}
	if len(pixels) != w*h {
		t.Fatalf("newBuffer: got %d pixels for %dx%d", len(pixels), w, h)
	}
	for i, p := range pixels {
		copy(b.Pix[i*4:], p[:])
	}
	return b
}

func uniformBuffer(t *testing.T, w, h int, p px) *pixbuf.Buffer {
	t.Helper()
	pixels := make([]px, w*h)
	for i := range pixels {
		pixels[i] = p
	}
	return newBuffer(t, w, h, pixels...)
}

// gradientBuffer has distinct, non-trivial values in every channel and a
// varying alpha.
func gradientBuffer(t *testing.T, w, h int) *pixbuf.Buffer {
	t.Helper()
	pixels := make([]px, 0, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pixels = append(pixels, px{
				uint8((x * 255) / max(w-1, 1)),
				uint8((y * 255) / max(h-1, 1)),
				uint8((x*37 + y*91) % 256),
				uint8(128 + (x+y)%128),
			})
		}
	}
	return newBuffer(t, w, h, pixels...)
}

func pixelAt(b *pixbuf.Buffer, x, y int) px {
	i := b.Offset(x, y)
	return px{b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3]}
}

func assertSamePix(t *testing.T, name string, got, want *pixbuf.Buffer) {
	t.Helper()
	if got.Width != want.Width || got.Height != want.Height {
		t.Fatalf("%s: size %dx%d, want %dx%d", name, got.Width, got.Height, want.Width, want.Height)
	}
	if !bytes.Equal(got.Pix, want.Pix) {
		t.Errorf("%s: pixel data differs from expected", name)
	}
}

func assertAlphaPreserved(t *testing.T, name string, got, want *pixbuf.Buffer) {
	t.Helper()
	for i := 3; i < len(want.Pix); i += 4 {
		if got.Pix[i] != want.Pix[i] {
			t.Fatalf("%s: alpha at byte %d = %d, want %d", name, i, got.Pix[i], want.Pix[i])
		}
	}
}

// must unwraps an effect result, failing the test on error:
// must(t)(Cartoon(b, 1)).
func must(t *testing.T) func(*pixbuf.Buffer, error) *pixbuf.Buffer {
	t.Helper()
	return func(b *pixbuf.Buffer, err error) *pixbuf.Buffer {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return b
	}
}
