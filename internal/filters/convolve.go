package filters

import (
	"github.com/imamik/photofx/internal/convolution"
	"github.com/imamik/photofx/internal/pixbuf"
)

var boxKernel = convolution.Box(3)

// NoiseReduction smooths with a 3x3 box kernel. The strength only gates the
// effect; any positive value applies the same blur.
func NoiseReduction(b *pixbuf.Buffer, value float64) (*pixbuf.Buffer, error) {
	if value <= 0 {
		return b, nil
	}
	return convolution.Convolve(b, boxKernel)
}

// Sharpness convolves with a cross-shaped unsharp kernel of weight value/100.
func Sharpness(b *pixbuf.Buffer, value float64) (*pixbuf.Buffer, error) {
	if value <= 0 {
		return b, nil
	}
	f := value / 100
	k := convolution.MustKernel(
		0, -f, 0,
		-f, 1+4*f, -f,
		0, -f, 0,
	)
	return convolution.Convolve(b, k)
}

// Emboss convolves with a diagonal relief kernel of weight value/100.
func Emboss(b *pixbuf.Buffer, value float64) (*pixbuf.Buffer, error) {
	if value <= 0 {
		return b, nil
	}
	f := value / 100
	k := convolution.MustKernel(
		-2*f, -f, 0,
		-f, 1+4*f, -f,
		0, -f, 2*f,
	)
	return convolution.Convolve(b, k)
}

// Sketch detects edges with the Laplacian and inverts them, giving dark
// lines on white.
func Sketch(b *pixbuf.Buffer, intensity int) (*pixbuf.Buffer, error) {
	if intensity <= 0 {
		return b, nil
	}
	edges, err := convolution.Convolve(b, convolution.Laplacian)
	if err != nil {
		return nil, err
	}
	for i := 0; i < len(edges.Pix); i += 4 {
		edges.Pix[i] = 255 - edges.Pix[i]
		edges.Pix[i+1] = 255 - edges.Pix[i+1]
		edges.Pix[i+2] = 255 - edges.Pix[i+2]
	}
	return edges, nil
}
