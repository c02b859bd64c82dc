package pipeline

import (
	"fmt"
	"image"

	"github.com/sirupsen/logrus"

	"github.com/imamik/photofx/internal/filters"
	"github.com/imamik/photofx/internal/params"
	"github.com/imamik/photofx/internal/pixbuf"
)

// Runner applies the ordered effect steps to a buffer. The host primitives
// used by glow and pixelate are injected; a zero Runner uses the defaults.
// A Runner holds no per-run state and may be shared between goroutines.
type Runner struct {
	Blur     filters.BlurFunc
	Resample filters.ResampleFunc
	Logger   *logrus.Logger
}

// NewRunner returns a Runner with a Gaussian blur, box/nearest resampling
// and the standard logger.
func NewRunner() *Runner {
	return &Runner{
		Blur:     filters.GaussianBlur,
		Resample: filters.Resample,
		Logger:   logrus.StandardLogger(),
	}
}

func (r *Runner) logger() *logrus.Logger {
	if r.Logger == nil {
		return logrus.StandardLogger()
	}
	return r.Logger
}

// Run applies every active step to a private copy of src and returns the
// result. src is never modified. On error no partial result is returned.
func (r *Runner) Run(src *pixbuf.Buffer, p params.Set) (*pixbuf.Buffer, error) {
	log := r.logger()
	if err := src.Validate(); err != nil {
		log.WithFields(logrus.Fields{
			"function": "Runner.Run",
			"error":    err.Error(),
		}).Error("Invalid source buffer")
		return nil, err
	}
	if p == nil {
		p = params.Set{}
	}
	if unknown := p.Unknown(); len(unknown) > 0 {
		log.WithFields(logrus.Fields{
			"function": "Runner.Run",
			"keys":     unknown,
		}).Debug("Ignoring unknown parameters")
	}

	current := src.Clone()
	applied := 0
	for i, s := range steps {
		if !s.Active(p) {
			continue
		}
		log.WithFields(logrus.Fields{
			"function":   "Runner.Run",
			"step_index": i,
			"step":       s.Name,
		}).Debug("Applying step")

		next, err := s.apply(r, current, p)
		if err == nil {
			err = next.Validate()
		}
		if err != nil {
			log.WithFields(logrus.Fields{
				"function":   "Runner.Run",
				"step_index": i,
				"step":       s.Name,
				"error":      err.Error(),
			}).Error("Step failed")
			return nil, fmt.Errorf("step %s: %w", s.Name, err)
		}
		current = next
		applied++
	}

	log.WithFields(logrus.Fields{
		"function": "Runner.Run",
		"applied":  applied,
		"width":    current.Width,
		"height":   current.Height,
	}).Debug("Pipeline complete")
	return current, nil
}

// RunImage converts img to a buffer, runs the pipeline and returns the result
// as an image sharing the output buffer.
func (r *Runner) RunImage(img image.Image, p params.Set) (*image.NRGBA, error) {
	src, err := pixbuf.FromImage(img)
	if err != nil {
		return nil, err
	}
	out, err := r.Run(src, p)
	if err != nil {
		return nil, err
	}
	return out.NRGBA(), nil
}
