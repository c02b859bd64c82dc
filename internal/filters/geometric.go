package filters

import (
	"math"

	"github.com/disintegration/imaging"

	"github.com/imamik/photofx/internal/pixbuf"
)

// warp inverse-maps every destination pixel through fn. When the source
// position falls outside the image the destination keeps its own original
// pixel.
func warp(src *pixbuf.Buffer, fn func(x, y float64) (float64, float64)) *pixbuf.Buffer {
	dst := src.NewLike()
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			fx, fy := fn(float64(x), float64(y))
			sx, sy := int(pixbuf.Round(fx)), int(pixbuf.Round(fy))
			d := src.Offset(x, y)
			s := d
			if src.In(sx, sy) {
				s = src.Offset(sx, sy)
			}
			copy(dst.Pix[d:d+4], src.Pix[s:s+4])
		}
	}
	return dst
}

// Fisheye pushes sampling outward (positive strength) or inward (negative)
// in proportion to the squared distance from the centre.
func Fisheye(b *pixbuf.Buffer, strength int) *pixbuf.Buffer {
	if strength == 0 {
		return b
	}
	cx, cy := float64(b.Width)/2, float64(b.Height)/2
	maxDist := math.Sqrt(cx*cx + cy*cy)
	k := float64(strength) / 100
	return warp(b, func(x, y float64) (float64, float64) {
		dx, dy := x-cx, y-cy
		r := math.Sqrt(dx*dx + dy*dy)
		theta := math.Atan2(dy, dx)
		rd := r + k*r*r/maxDist
		return cx + rd*math.Cos(theta), cy + rd*math.Sin(theta)
	})
}

// Swirl rotates sampling around the centre by an angle that grows linearly
// with the radius.
func Swirl(b *pixbuf.Buffer, intensity int) *pixbuf.Buffer {
	if intensity <= 0 {
		return b
	}
	cx, cy := float64(b.Width)/2, float64(b.Height)/2
	w := float64(b.Width)
	s := float64(intensity) / 100
	return warp(b, func(x, y float64) (float64, float64) {
		dx, dy := x-cx, y-cy
		r := math.Sqrt(dx*dx + dy*dy)
		theta := math.Atan2(dy, dx) + s*(r/w)
		return cx + r*math.Cos(theta), cy + r*math.Sin(theta)
	})
}

// Mirror flips horizontally when enabled.
func Mirror(b *pixbuf.Buffer, enabled bool) *pixbuf.Buffer {
	if !enabled {
		return b
	}
	flipped := imaging.FlipH(b.NRGBA())
	return &pixbuf.Buffer{Width: b.Width, Height: b.Height, Pix: flipped.Pix}
}

// Kaleidoscope keeps the left half and mirrors it onto the right half.
func Kaleidoscope(b *pixbuf.Buffer, intensity int) *pixbuf.Buffer {
	if intensity <= 0 {
		return b
	}
	dst := b.NewLike()
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			sx := min(x, b.Width-1-x)
			d, s := b.Offset(x, y), b.Offset(sx, y)
			copy(dst.Pix[d:d+4], b.Pix[s:s+4])
		}
	}
	return dst
}

// Pixelate shrinks the image by factor and scales it back, both with nearest
// neighbour, leaving factor-sized blocks of source pixels.
func Pixelate(b *pixbuf.Buffer, factor int, resample ResampleFunc) (*pixbuf.Buffer, error) {
	if factor <= 0 {
		return b, nil
	}
	if resample == nil {
		resample = Resample
	}
	sw := max(1, b.Width/factor)
	sh := max(1, b.Height/factor)
	small := resample(b.NRGBA(), sw, sh, false)
	return fromNRGBA(resample(small, b.Width, b.Height, false), b.Width, b.Height)
}

// Mosaic replaces every blockSize x blockSize tile by the floored mean colour
// of its in-bounds pixels. Each pixel keeps its own alpha.
func Mosaic(b *pixbuf.Buffer, blockSize int) *pixbuf.Buffer {
	if blockSize <= 0 {
		return b
	}
	dst := b.NewLike()
	for ty := 0; ty < b.Height; ty += blockSize {
		yEnd := min(ty+blockSize, b.Height)
		for tx := 0; tx < b.Width; tx += blockSize {
			xEnd := min(tx+blockSize, b.Width)
			var r, g, bl, n int
			for y := ty; y < yEnd; y++ {
				for x := tx; x < xEnd; x++ {
					i := b.Offset(x, y)
					r += int(b.Pix[i])
					g += int(b.Pix[i+1])
					bl += int(b.Pix[i+2])
					n++
				}
			}
			mr, mg, mb := uint8(r/n), uint8(g/n), uint8(bl/n)
			for y := ty; y < yEnd; y++ {
				for x := tx; x < xEnd; x++ {
					i := b.Offset(x, y)
					dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2] = mr, mg, mb
					dst.Pix[i+3] = b.Pix[i+3]
				}
			}
		}
	}
	return dst
}

// Crystallize is a mosaic with tiles of intensity/5 pixels, at least one.
func Crystallize(b *pixbuf.Buffer, intensity int) *pixbuf.Buffer {
	if intensity <= 0 {
		return b
	}
	return Mosaic(b, max(1, intensity/5))
}
