// Package filters contains the individual image effects. Each effect takes
// ownership of a buffer and returns the buffer the caller must use from then
// on: per-pixel effects modify and return their input, neighbourhood and
// geometric effects return a new allocation. Alpha is never altered except by
// Glow, which composites.
package filters

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"

	"github.com/imamik/photofx/internal/pixbuf"
)

// BlurFunc blurs img with the given radius in pixels.
type BlurFunc func(img *image.NRGBA, radius float64) *image.NRGBA

// ResampleFunc scales img to w x h. With smooth set, an area-averaging filter
// is used; otherwise nearest neighbour.
type ResampleFunc func(img *image.NRGBA, w, h int, smooth bool) *image.NRGBA

// GaussianBlur is the default BlurFunc.
func GaussianBlur(img *image.NRGBA, radius float64) *image.NRGBA {
	if radius <= 0 {
		return imaging.Clone(img)
	}
	return imaging.Clone(blur.Gaussian(img, radius))
}

// BoxBlur is a cheaper BlurFunc.
func BoxBlur(img *image.NRGBA, radius float64) *image.NRGBA {
	if radius <= 0 {
		return imaging.Clone(img)
	}
	return imaging.Clone(blur.Box(img, radius))
}

// Resample is the default ResampleFunc.
func Resample(img *image.NRGBA, w, h int, smooth bool) *image.NRGBA {
	if smooth {
		return imaging.Resize(img, w, h, imaging.Box)
	}
	return imaging.Resize(img, w, h, imaging.NearestNeighbor)
}

type lut [256]uint8

func newLUT(fn func(c float64) float64) *lut {
	var t lut
	for i := range t {
		t[i] = pixbuf.Clamp(fn(float64(i)))
	}
	return &t
}

// applyLUTs maps R, G and B through their tables in place. A nil table leaves
// the channel untouched.
func applyLUTs(b *pixbuf.Buffer, r, g, bl *lut) *pixbuf.Buffer {
	for i := 0; i < len(b.Pix); i += 4 {
		if r != nil {
			b.Pix[i] = r[b.Pix[i]]
		}
		if g != nil {
			b.Pix[i+1] = g[b.Pix[i+1]]
		}
		if bl != nil {
			b.Pix[i+2] = bl[b.Pix[i+2]]
		}
	}
	return b
}

func applyLUT(b *pixbuf.Buffer, t *lut) *pixbuf.Buffer {
	return applyLUTs(b, t, t, t)
}

// fromNRGBA wraps the result of an image-level primitive, checking that it
// kept the expected size.
func fromNRGBA(img *image.NRGBA, w, h int) (*pixbuf.Buffer, error) {
	out, err := pixbuf.FromImage(img)
	if err != nil {
		return nil, err
	}
	if out.Width != w || out.Height != h {
		return nil, fmt.Errorf("%w: primitive returned %dx%d, want %dx%d",
			pixbuf.ErrInvalidBuffer, out.Width, out.Height, w, h)
	}
	return out, nil
}
