package session

import (
	"errors"
	"image"
	"image/color"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/imamik/photofx/internal/history"
	"github.com/imamik/photofx/internal/params"
	"github.com/imamik/photofx/internal/pipeline"
)

func solid(c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func newSession(t *testing.T) *Session {
	t.Helper()
	logger, _ := logtest.NewNullLogger()
	r := pipeline.NewRunner()
	r.Logger = logger
	s := New(Options{Runner: r, Logger: logger})
	t.Cleanup(s.Close)
	return s
}

func pixel(s *Session) color.NRGBA {
	return s.Image().NRGBAAt(1, 1)
}

func TestLoadRendersAndSeedsHistory(t *testing.T) {
	s := newSession(t)
	if s.Image() != nil {
		t.Fatal("Image() before Load() should be nil")
	}
	if err := s.Load(solid(color.NRGBA{100, 100, 100, 255})); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := pixel(s); got != (color.NRGBA{100, 100, 100, 255}) {
		t.Errorf("pixel = %v", got)
	}
	if u, r := s.History(); u != 1 || r != 0 {
		t.Errorf("History() = %d, %d, want 1, 0", u, r)
	}
}

func TestSetBeforeLoad(t *testing.T) {
	s := newSession(t)
	if err := s.Set(params.Exposure, 150); !errors.Is(err, ErrNoImage) {
		t.Errorf("Set() error = %v, want ErrNoImage", err)
	}
}

func TestSetUnknownKey(t *testing.T) {
	s := newSession(t)
	_ = s.Load(solid(color.NRGBA{1, 2, 3, 255}))
	if err := s.Set("crop", 1); !errors.Is(err, params.ErrInvalidValue) {
		t.Errorf("Set() error = %v, want ErrInvalidValue", err)
	}
}

func TestSetRendersFromOriginal(t *testing.T) {
	s := newSession(t)
	_ = s.Load(solid(color.NRGBA{100, 100, 100, 255}))

	if err := s.Set(params.Exposure, 150); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Wait(); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if got := pixel(s); got.R != 150 {
		t.Errorf("after exposure 150 = %v, want R 150", got)
	}

	// A second change renders from the original, not the previous output.
	_ = s.Set(params.Exposure, 200)
	_ = s.Wait()
	if got := pixel(s); got.R != 200 {
		t.Errorf("after exposure 200 = %v, want R 200", got)
	}
	if got := s.Params()[params.Exposure]; got != 200 {
		t.Errorf("Params()[exposure] = %v, want 200", got)
	}
}

func TestCommitUndoRedo(t *testing.T) {
	s := newSession(t)
	_ = s.Load(solid(color.NRGBA{100, 100, 100, 255}))

	_ = s.Set(params.Exposure, 150)
	if err := s.Commit(); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	_ = s.Set(params.Exposure, 200)
	if err := s.Commit(); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	if err := s.Undo(); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if got := pixel(s).R; got != 150 {
		t.Errorf("after Undo = %d, want 150", got)
	}
	_ = s.Undo()
	if got := pixel(s).R; got != 100 {
		t.Errorf("after second Undo = %d, want 100", got)
	}
	if err := s.Undo(); !errors.Is(err, history.ErrEmpty) {
		t.Errorf("Undo() past base = %v, want ErrEmpty", err)
	}

	if err := s.Redo(); err != nil {
		t.Fatalf("Redo() error = %v", err)
	}
	if got := pixel(s).R; got != 150 {
		t.Errorf("after Redo = %d, want 150", got)
	}
}

func TestReset(t *testing.T) {
	s := newSession(t)
	_ = s.Load(solid(color.NRGBA{100, 100, 100, 255}))
	_ = s.Set(params.Invert, 100)
	_ = s.Set(params.Mirror, 1)
	_ = s.Commit()

	if err := s.Reset(); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if got := pixel(s); got != (color.NRGBA{100, 100, 100, 255}) {
		t.Errorf("pixel after Reset = %v", got)
	}
	if len(s.Params()) != 0 {
		t.Errorf("Params() after Reset = %v, want empty", s.Params())
	}
	if u, r := s.History(); u != 1 || r != 0 {
		t.Errorf("History() after Reset = %d, %d, want 1, 0", u, r)
	}
}

func TestResetBeforeLoad(t *testing.T) {
	s := newSession(t)
	if err := s.Reset(); !errors.Is(err, ErrNoImage) {
		t.Errorf("Reset() error = %v, want ErrNoImage", err)
	}
}

func TestLoadEmptyImage(t *testing.T) {
	s := newSession(t)
	if err := s.Load(image.NewNRGBA(image.Rect(0, 0, 0, 0))); err == nil {
		t.Error("Load() of an empty image should fail")
	}
}
