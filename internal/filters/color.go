package filters

import (
	"math"

	"github.com/imamik/photofx/internal/pixbuf"
)

// RGB is a per-channel offset, R, G, B.
type RGB [3]float64

// Matrix is a 3x3 channel mixing matrix: row i gives the weights of input
// R, G and B for output channel i.
type Matrix [3][3]float64

// IdentityMatrix leaves every channel as is.
var IdentityMatrix = Matrix{
	{1, 0, 0},
	{0, 1, 0},
	{0, 0, 1},
}

var sepiaMatrix = Matrix{
	{0.393, 0.769, 0.189},
	{0.349, 0.686, 0.168},
	{0.272, 0.534, 0.131},
}

// Duotone maps the pixel mean onto a black-to-blue ramp, blending further
// towards blue as value approaches 100.
func Duotone(b *pixbuf.Buffer, value float64) *pixbuf.Buffer {
	if value <= 0 {
		return b
	}
	t := value / 100
	for i := 0; i < len(b.Pix); i += 4 {
		avg := (float64(b.Pix[i]) + float64(b.Pix[i+1]) + float64(b.Pix[i+2])) / 3
		rg := pixbuf.Clamp(avg * (1 - t))
		b.Pix[i] = rg
		b.Pix[i+1] = rg
		b.Pix[i+2] = pixbuf.Clamp(avg + (255-avg)*t)
	}
	return b
}

// Solarize inverts every channel above threshold.
func Solarize(b *pixbuf.Buffer, threshold int) *pixbuf.Buffer {
	if threshold <= 0 {
		return b
	}
	return applyLUT(b, newLUT(func(c float64) float64 {
		if c > float64(threshold) {
			return 255 - c
		}
		return c
	}))
}

// Retro applies a fixed sepia matrix.
func Retro(b *pixbuf.Buffer, intensity int) *pixbuf.Buffer {
	if intensity <= 0 {
		return b
	}
	return mix(b, sepiaMatrix)
}

// ColorBalance adds a fixed offset to each channel.
func ColorBalance(b *pixbuf.Buffer, offset RGB) *pixbuf.Buffer {
	if offset == (RGB{}) {
		return b
	}
	var tables [3]*lut
	for ch := range tables {
		d := offset[ch]
		tables[ch] = newLUT(func(c float64) float64 { return c + d })
	}
	return applyLUTs(b, tables[0], tables[1], tables[2])
}

// SplitToning tints pixels whose channel mean is below 128 with shadow and
// the rest with highlight.
func SplitToning(b *pixbuf.Buffer, shadow, highlight RGB) *pixbuf.Buffer {
	if shadow == (RGB{}) && highlight == (RGB{}) {
		return b
	}
	for i := 0; i < len(b.Pix); i += 4 {
		avg := (float64(b.Pix[i]) + float64(b.Pix[i+1]) + float64(b.Pix[i+2])) / 3
		tint := highlight
		if avg < 128 {
			tint = shadow
		}
		for ch := 0; ch < 3; ch++ {
			b.Pix[i+ch] = pixbuf.Clamp(float64(b.Pix[i+ch]) + tint[ch])
		}
	}
	return b
}

// ChannelMixer recombines channels through m.
func ChannelMixer(b *pixbuf.Buffer, m Matrix) *pixbuf.Buffer {
	if m == IdentityMatrix {
		return b
	}
	return mix(b, m)
}

func mix(b *pixbuf.Buffer, m Matrix) *pixbuf.Buffer {
	for i := 0; i < len(b.Pix); i += 4 {
		r, g, bl := float64(b.Pix[i]), float64(b.Pix[i+1]), float64(b.Pix[i+2])
		for ch := 0; ch < 3; ch++ {
			b.Pix[i+ch] = pixbuf.Clamp(r*m[ch][0] + g*m[ch][1] + bl*m[ch][2])
		}
	}
	return b
}

// ToneCurve raises each normalised channel to the power value/100.
func ToneCurve(b *pixbuf.Buffer, value int) *pixbuf.Buffer {
	exp := float64(value) / 100
	if exp == 1 {
		return b
	}
	return applyLUT(b, newLUT(func(c float64) float64 {
		return 255 * math.Pow(c/255, exp)
	}))
}
