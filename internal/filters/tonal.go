package filters

import (
	"math"

	"github.com/imamik/photofx/internal/pixbuf"
)

const (
	highlightThreshold = 220
	shadowThreshold    = 35
)

// Exposure scales R, G and B by value/100.
func Exposure(b *pixbuf.Buffer, value float64) *pixbuf.Buffer {
	f := value / 100
	return applyLUT(b, newLUT(func(c float64) float64 { return c * f }))
}

// Gamma applies 255*(c/255)^(1/g) with g = value/100. A zero gamma is
// treated as 1.
func Gamma(b *pixbuf.Buffer, value float64) *pixbuf.Buffer {
	g := value / 100
	if g == 0 {
		g = 1
	}
	inv := 1 / g
	return applyLUT(b, newLUT(func(c float64) float64 {
		return 255 * math.Pow(c/255, inv)
	}))
}

// Temperature warms (value > 100) or cools (value < 100) by shifting red
// and blue in opposite directions by up to 50 per 100 points.
func Temperature(b *pixbuf.Buffer, value float64) *pixbuf.Buffer {
	adj := (value - 100) / 100 * 50
	red := newLUT(func(c float64) float64 { return c + adj })
	blue := newLUT(func(c float64) float64 { return c - adj })
	return applyLUTs(b, red, nil, blue)
}

// Clarity stretches channels away from mid grey.
func Clarity(b *pixbuf.Buffer, value float64) *pixbuf.Buffer {
	f := 1 + value/100
	return applyLUT(b, newLUT(func(c float64) float64 { return 128 + (c-128)*f }))
}

// Highlights pulls channels above 220 down by value/100*50.
func Highlights(b *pixbuf.Buffer, value float64) *pixbuf.Buffer {
	adj := value / 100 * 50
	return applyLUT(b, newLUT(func(c float64) float64 {
		if c > highlightThreshold {
			return c - adj
		}
		return c
	}))
}

// Shadows lifts channels below 35 by value/100*50.
func Shadows(b *pixbuf.Buffer, value float64) *pixbuf.Buffer {
	adj := value / 100 * 50
	return applyLUT(b, newLUT(func(c float64) float64 {
		if c < shadowThreshold {
			return c + adj
		}
		return c
	}))
}

// Posterize quantises each channel to levels evenly spaced values. Fewer
// than two levels has no defined step and leaves the buffer untouched.
func Posterize(b *pixbuf.Buffer, levels float64) *pixbuf.Buffer {
	if !(levels >= 2) {
		return b
	}
	step := 255 / (levels - 1)
	return applyLUT(b, newLUT(func(c float64) float64 {
		return pixbuf.Round(c/step) * step
	}))
}

// Contrast applies the classic 8-bit contrast curve for percent in
// (-255, 259).
func Contrast(b *pixbuf.Buffer, percent float64) *pixbuf.Buffer {
	f := 259 * (percent + 255) / (255 * (259 - percent))
	return applyLUT(b, newLUT(func(c float64) float64 { return f*(c-128) + 128 }))
}

// Grayscale sets R, G and B to their floored mean.
func Grayscale(b *pixbuf.Buffer) *pixbuf.Buffer {
	for i := 0; i < len(b.Pix); i += 4 {
		avg := uint8((int(b.Pix[i]) + int(b.Pix[i+1]) + int(b.Pix[i+2])) / 3)
		b.Pix[i], b.Pix[i+1], b.Pix[i+2] = avg, avg, avg
	}
	return b
}
