// Package photofx applies a fixed, ordered chain of photo effects to images.
//
// An image first passes through the canvas stage (brightness, contrast,
// saturation, hue, grayscale, sepia, invert, blur, rotate) and then through
// the effect pipeline. Every effect is controlled by a named parameter;
// absent parameters use their defaults and unknown ones are ignored.
package photofx

import (
	"image"

	"github.com/imamik/photofx/internal/canvas"
	"github.com/imamik/photofx/internal/filters"
	"github.com/imamik/photofx/internal/params"
	"github.com/imamik/photofx/internal/pipeline"
	"github.com/imamik/photofx/internal/pixbuf"
)

// Params maps parameter names to values. Booleans are 0 or 1.
type Params = params.Set

// Buffer is an RGBA image with non-premultiplied 8-bit channels.
type Buffer = pixbuf.Buffer

// BlurFunc and ResampleFunc are the host primitives used by glow and
// pixelate.
type (
	BlurFunc     = filters.BlurFunc
	ResampleFunc = filters.ResampleFunc
)

var (
	ErrInvalidBuffer = pixbuf.ErrInvalidBuffer
	ErrInvalidValue  = params.ErrInvalidValue
)

type Options struct {
	Params   Params
	Blur     BlurFunc
	Resample ResampleFunc
}

func DefaultOptions() Options {
	return Options{
		Params:   Params{},
		Blur:     filters.GaussianBlur,
		Resample: filters.Resample,
	}
}

func (o Options) runner() *pipeline.Runner {
	r := pipeline.NewRunner()
	if o.Blur != nil {
		r.Blur = o.Blur
	}
	if o.Resample != nil {
		r.Resample = o.Resample
	}
	return r
}

// Run applies the effect pipeline to src and returns a new buffer. src is
// not modified, and nothing is returned on error.
func Run(src *Buffer, p Params) (*Buffer, error) {
	return pipeline.NewRunner().Run(src, p)
}

// Process reads inputPath, applies the canvas stage and the pipeline, and
// writes outputPath in the format given by its extension.
func Process(inputPath, outputPath string, opts Options) error {
	return pipeline.Process(inputPath, outputPath, pipeline.Options{
		Params: opts.Params,
		Runner: opts.runner(),
	})
}

// ProcessImage is Process for an in-memory image.
func ProcessImage(img image.Image, opts Options) (image.Image, error) {
	return opts.runner().RunImage(canvas.Apply(img, opts.Params), opts.Params)
}

// Effects returns the pipeline step names in application order.
func Effects() []string {
	steps := pipeline.Steps()
	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = s.Name
	}
	return names
}

// Defaults returns a copy of every known parameter with its default value.
func Defaults() Params {
	return Params(params.Defaults).Clone()
}
