// Package pixbuf holds the in-memory raster every effect works on: a
// width/height-tagged, interleaved, non-premultiplied RGBA byte slice.
package pixbuf

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// ErrInvalidBuffer is returned when a buffer has non-positive dimensions or
// its data length does not match Width*Height*4.
var ErrInvalidBuffer = errors.New("invalid pixel buffer")

// Buffer is an RGBA raster. Pix is laid out row-major, four bytes per pixel.
type Buffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// New allocates a zeroed (transparent black) buffer.
func New(width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidBuffer, width, height)
	}
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}, nil
}

// FromImage copies any image into a new buffer.
func FromImage(img image.Image) (*Buffer, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidBuffer)
	}
	nrgba := imaging.Clone(img)
	b := &Buffer{
		Width:  nrgba.Rect.Dx(),
		Height: nrgba.Rect.Dy(),
		Pix:    nrgba.Pix,
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate reports whether the buffer satisfies its size invariant.
func (b *Buffer) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil buffer", ErrInvalidBuffer)
	}
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidBuffer, b.Width, b.Height)
	}
	if want := b.Width * b.Height * 4; len(b.Pix) != want {
		return fmt.Errorf("%w: data length %d, want %d", ErrInvalidBuffer, len(b.Pix), want)
	}
	return nil
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	pix := make([]uint8, len(b.Pix))
	copy(pix, b.Pix)
	return &Buffer{Width: b.Width, Height: b.Height, Pix: pix}
}

// NewLike allocates a zeroed buffer with the same dimensions as b.
func (b *Buffer) NewLike() *Buffer {
	return &Buffer{Width: b.Width, Height: b.Height, Pix: make([]uint8, len(b.Pix))}
}

// Offset returns the index of the red byte of pixel (x, y).
func (b *Buffer) Offset(x, y int) int {
	return (y*b.Width + x) * 4
}

// In reports whether (x, y) lies inside the buffer.
func (b *Buffer) In(x, y int) bool {
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}

// NRGBA exposes the buffer as an *image.NRGBA sharing the same memory.
func (b *Buffer) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: b.Width * 4,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// Replace adopts img as the buffer's new content. img must have the same size.
func (b *Buffer) Replace(img image.Image) error {
	nb, err := FromImage(img)
	if err != nil {
		return err
	}
	if nb.Width != b.Width || nb.Height != b.Height {
		return fmt.Errorf("%w: replacement is %dx%d, want %dx%d",
			ErrInvalidBuffer, nb.Width, nb.Height, b.Width, b.Height)
	}
	b.Pix = nb.Pix
	return nil
}

// Clamp converts v to a byte the way a clamped byte array does on store:
// NaN becomes 0, values are limited to [0,255] and rounded half to even.
func Clamp(v float64) uint8 {
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(math.RoundToEven(v))
}

// Round rounds half up (towards positive infinity), matching the rounding the
// geometric and quantizing effects are defined with.
func Round(v float64) float64 {
	return math.Floor(v + 0.5)
}
