// Package canvas applies the drawing-surface adjustments that run before the
// pixel pipeline: the linear colour filters of a 2D canvas (brightness,
// contrast, saturate, hue-rotate, grayscale, sepia, invert), a Gaussian blur,
// and rotation about the image centre.
package canvas

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/imamik/photofx/internal/params"
	"github.com/imamik/photofx/internal/pixbuf"
)

// Keys lists the parameters consumed by Apply, in application order.
var Keys = []string{
	params.Brightness,
	params.Contrast,
	params.Saturation,
	params.Hue,
	params.Grayscale,
	params.Sepia,
	params.Invert,
	params.Blur,
	params.Rotate,
}

// Active reports whether any canvas parameter differs from its default.
func Active(p params.Set) bool {
	for _, k := range Keys {
		if !p.IsDefault(k) {
			return true
		}
	}
	return false
}

// Apply returns a new image with every non-identity canvas adjustment applied.
// The source is never modified.
func Apply(img image.Image, p params.Set) *image.NRGBA {
	out := imaging.Clone(img)

	if v := p.Float(params.Brightness); v != 100 {
		s := v / 100
		out = adjust(out, func(c float64) float64 { return c * s })
	}
	if v := p.Float(params.Contrast); v != 100 {
		s := v / 100
		out = adjust(out, func(c float64) float64 { return (c-127.5)*s + 127.5 })
	}
	if v := p.Float(params.Saturation); v != 100 {
		out = transform(out, saturate(v/100))
	}
	if v := p.Float(params.Hue); v != 0 {
		out = transform(out, hueRotate(v))
	}
	if v := p.Float(params.Grayscale); v > 0 {
		out = transform(out, grayscale(math.Min(v/100, 1)))
	}
	if v := p.Float(params.Sepia); v > 0 {
		out = transform(out, sepia(math.Min(v/100, 1)))
	}
	if v := p.Float(params.Invert); v > 0 {
		a := math.Min(v/100, 1)
		out = adjust(out, func(c float64) float64 { return a*(255-c) + (1-a)*c })
	}
	if v := p.Float(params.Blur); v > 0 {
		out = imaging.Blur(out, v)
	}
	if deg := p.Int(params.Rotate); deg%360 != 0 {
		out = Rotate(out, float64(deg))
	}
	return out
}

// matrix is a row-major 3x3 colour matrix applied to R, G and B.
type matrix [9]float64

func adjust(img *image.NRGBA, fn func(c float64) float64) *image.NRGBA {
	var table [256]uint8
	for i := range table {
		table[i] = pixbuf.Clamp(fn(float64(i)))
	}
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{R: table[c.R], G: table[c.G], B: table[c.B], A: c.A}
	})
}

func transform(img *image.NRGBA, m matrix) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		r, g, b := float64(c.R), float64(c.G), float64(c.B)
		return color.NRGBA{
			R: pixbuf.Clamp(m[0]*r + m[1]*g + m[2]*b),
			G: pixbuf.Clamp(m[3]*r + m[4]*g + m[5]*b),
			B: pixbuf.Clamp(m[6]*r + m[7]*g + m[8]*b),
			A: c.A,
		}
	})
}

func saturate(s float64) matrix {
	return matrix{
		0.213 + 0.787*s, 0.715 - 0.715*s, 0.072 - 0.072*s,
		0.213 - 0.213*s, 0.715 + 0.285*s, 0.072 - 0.072*s,
		0.213 - 0.213*s, 0.715 - 0.715*s, 0.072 + 0.928*s,
	}
}

func hueRotate(deg float64) matrix {
	rad := deg * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	return matrix{
		0.213 + cos*0.787 - sin*0.213, 0.715 - cos*0.715 - sin*0.715, 0.072 - cos*0.072 + sin*0.928,
		0.213 - cos*0.213 + sin*0.143, 0.715 + cos*0.285 + sin*0.140, 0.072 - cos*0.072 - sin*0.283,
		0.213 - cos*0.213 - sin*0.787, 0.715 - cos*0.715 + sin*0.715, 0.072 + cos*0.928 + sin*0.072,
	}
}

// grayscale and sepia take the amount in [0,1].
func grayscale(amount float64) matrix {
	a := 1 - amount
	return matrix{
		0.2126 + 0.7874*a, 0.7152 - 0.7152*a, 0.0722 - 0.0722*a,
		0.2126 - 0.2126*a, 0.7152 + 0.2848*a, 0.0722 - 0.0722*a,
		0.2126 - 0.2126*a, 0.7152 - 0.7152*a, 0.0722 + 0.9278*a,
	}
}

func sepia(amount float64) matrix {
	a := 1 - amount
	return matrix{
		0.393 + 0.607*a, 0.769 - 0.769*a, 0.189 - 0.189*a,
		0.349 - 0.349*a, 0.686 + 0.314*a, 0.168 - 0.168*a,
		0.272 - 0.272*a, 0.534 - 0.534*a, 0.131 + 0.869*a,
	}
}

// Rotate turns img clockwise by deg degrees about its centre onto a
// transparent canvas of the same size. Corners that leave the canvas are
// cropped.
func Rotate(img *image.NRGBA, deg float64) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	rad := deg * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	cx := float64(b.Min.X) + float64(b.Dx())/2
	cy := float64(b.Min.Y) + float64(b.Dy())/2
	ox, oy := float64(b.Dx())/2, float64(b.Dy())/2

	s2d := f64.Aff3{
		cos, -sin, ox - cos*cx + sin*cy,
		sin, cos, oy - sin*cx - cos*cy,
	}
	draw.BiLinear.Transform(dst, s2d, img, b, draw.Over, nil)
	return dst
}
