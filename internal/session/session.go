// Package session holds the state of one interactive edit: the loaded
// original, the live parameters, the rendered output and its history.
// Parameter changes render in the background through a coalescing
// scheduler.
package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"

	"github.com/imamik/photofx/internal/canvas"
	"github.com/imamik/photofx/internal/history"
	"github.com/imamik/photofx/internal/params"
	"github.com/imamik/photofx/internal/pipeline"
	"github.com/imamik/photofx/internal/render"
)

// ErrNoImage is returned by operations that need a loaded image.
var ErrNoImage = errors.New("no image loaded")

// Options configures a Session. Zero values select the defaults.
type Options struct {
	Runner       *pipeline.Runner
	Logger       *logrus.Logger
	HistoryLimit int
	// Debounce delays each background render so bursts of Set calls share it.
	Debounce time.Duration
}

type Session struct {
	runner  *pipeline.Runner
	log     *logrus.Logger
	history *history.Stack
	sched   *render.Scheduler

	mu       sync.Mutex
	original image.Image
	params   params.Set
	output   *image.NRGBA
	err      error
}

func New(opts Options) *Session {
	s := &Session{
		runner:  opts.Runner,
		log:     opts.Logger,
		history: history.New(opts.HistoryLimit),
		params:  params.Set{},
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner()
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}
	s.sched = render.New(s.render, opts.Debounce)
	return s
}

// Load replaces the original image, resets parameters and history, and
// renders synchronously. The result becomes the base history entry.
func (s *Session) Load(img image.Image) error {
	s.sched.Wait()

	s.mu.Lock()
	s.original = imaging.Clone(img)
	s.params = params.Set{}
	s.output = nil
	s.err = nil
	s.mu.Unlock()

	return s.restart()
}

// Set changes one parameter and schedules a background render.
func (s *Session) Set(key string, value float64) error {
	if !params.Known(key) {
		return fmt.Errorf("%w: unknown parameter %q", params.ErrInvalidValue, key)
	}

	s.mu.Lock()
	if s.original == nil {
		s.mu.Unlock()
		return ErrNoImage
	}
	s.params[key] = value
	s.mu.Unlock()

	s.sched.Request()
	return nil
}

// Wait blocks until pending renders have finished and returns the error of
// the last one.
func (s *Session) Wait() error {
	s.sched.Wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Commit waits for rendering and records the output in history.
func (s *Session) Commit() error {
	if err := s.Wait(); err != nil {
		return err
	}
	s.mu.Lock()
	out := s.output
	s.mu.Unlock()
	if out == nil {
		return ErrNoImage
	}
	return s.history.Push(out)
}

// Undo restores the previous committed output. Parameters are left as they
// are; the next Set renders from the original again.
func (s *Session) Undo() error {
	s.sched.Wait()
	img, err := s.history.Undo()
	if err != nil {
		return err
	}
	s.show(img)
	return nil
}

// Redo restores the most recently undone output.
func (s *Session) Redo() error {
	s.sched.Wait()
	img, err := s.history.Redo()
	if err != nil {
		return err
	}
	s.show(img)
	return nil
}

// Reset restores every parameter to its default, clears history and renders
// the original again.
func (s *Session) Reset() error {
	s.sched.Wait()

	s.mu.Lock()
	if s.original == nil {
		s.mu.Unlock()
		return ErrNoImage
	}
	s.params = params.Set{}
	s.mu.Unlock()

	return s.restart()
}

// Image returns the latest rendered output, or nil before Load.
func (s *Session) Image() *image.NRGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.output
}

// Params returns a copy of the live parameters.
func (s *Session) Params() params.Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params.Clone()
}

// History returns the undo and redo stack sizes.
func (s *Session) History() (undo, redo int) {
	return s.history.Len()
}

// Close stops background rendering.
func (s *Session) Close() {
	s.sched.Close()
}

func (s *Session) restart() error {
	s.history.Reset()
	s.render(context.Background())

	s.mu.Lock()
	err, out := s.err, s.output
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.history.Push(out)
}

func (s *Session) show(img image.Image) {
	out := imaging.Clone(img)
	s.mu.Lock()
	s.output = out
	s.err = nil
	s.mu.Unlock()
}

// render runs the canvas stage and the pipeline on a snapshot of the current
// state. A cancelled render leaves the previous output in place.
func (s *Session) render(ctx context.Context) {
	s.mu.Lock()
	src, p := s.original, s.params.Clone()
	s.mu.Unlock()
	if src == nil {
		return
	}

	start := time.Now()
	out, err := s.runner.RunImage(canvas.Apply(src, p), p)
	if ctx.Err() != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"function": "Session.render",
			"error":    err.Error(),
		}).Error("Render failed")
		s.err = err
		return
	}
	s.output = out
	s.err = nil
	s.log.WithFields(logrus.Fields{
		"function": "Session.render",
		"duration": time.Since(start).String(),
	}).Debug("Render complete")
}
