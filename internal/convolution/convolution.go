// Package convolution implements square-kernel 2D convolution over a
// pixbuf.Buffer. Neighbours outside the image are skipped rather than padded,
// so kernels that sum to one darken slightly towards the borders.
package convolution

import (
	"errors"
	"fmt"
	"math"

	"github.com/imamik/photofx/internal/pixbuf"
)

// ErrInvalidKernel is returned for kernels that are not odd-sized squares.
var ErrInvalidKernel = errors.New("invalid convolution kernel")

// Kernel is a Size x Size matrix of weights in row-major order.
type Kernel struct {
	Size    int
	Weights []float64
}

// NewKernel infers the size from the number of weights.
func NewKernel(weights ...float64) (Kernel, error) {
	size := int(math.Sqrt(float64(len(weights))))
	k := Kernel{Size: size, Weights: weights}
	if err := k.Validate(); err != nil {
		return Kernel{}, err
	}
	return k, nil
}

// MustKernel is like NewKernel but panics on an invalid kernel. It is meant
// for package-level kernel literals.
func MustKernel(weights ...float64) Kernel {
	k, err := NewKernel(weights...)
	if err != nil {
		panic(err)
	}
	return k
}

// Validate checks that the kernel has a unique centre.
func (k Kernel) Validate() error {
	if k.Size <= 0 || k.Size%2 == 0 {
		return fmt.Errorf("%w: size %d is not odd", ErrInvalidKernel, k.Size)
	}
	if len(k.Weights) != k.Size*k.Size {
		return fmt.Errorf("%w: %d weights for size %d", ErrInvalidKernel, len(k.Weights), k.Size)
	}
	return nil
}

// Box returns a size x size averaging kernel.
func Box(size int) Kernel {
	w := make([]float64, size*size)
	for i := range w {
		w[i] = 1 / float64(size*size)
	}
	return Kernel{Size: size, Weights: w}
}

// Laplacian is the 8-neighbour edge detection kernel.
var Laplacian = MustKernel(
	-1, -1, -1,
	-1, 8, -1,
	-1, -1, -1,
)

// Convolve returns a new buffer where R, G and B are the kernel-weighted sum
// of the in-bounds neighbourhood, clamped to [0,255]. Alpha is copied.
// No normalisation is applied.
func Convolve(src *pixbuf.Buffer, k Kernel) (*pixbuf.Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if err := k.Validate(); err != nil {
		return nil, err
	}

	w, h := src.Width, src.Height
	half := k.Size / 2
	dst := src.NewLike()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var r, g, b float64
			for ky := -half; ky <= half; ky++ {
				sy := y + ky
				if sy < 0 || sy >= h {
					continue
				}
				for kx := -half; kx <= half; kx++ {
					sx := x + kx
					if sx < 0 || sx >= w {
						continue
					}
					i := (sy*w + sx) * 4
					kv := k.Weights[(ky+half)*k.Size+(kx+half)]
					r += float64(src.Pix[i]) * kv
					g += float64(src.Pix[i+1]) * kv
					b += float64(src.Pix[i+2]) * kv
				}
			}
			i := (y*w + x) * 4
			dst.Pix[i] = pixbuf.Clamp(r)
			dst.Pix[i+1] = pixbuf.Clamp(g)
			dst.Pix[i+2] = pixbuf.Clamp(b)
			dst.Pix[i+3] = src.Pix[i+3]
		}
	}
	return dst, nil
}
