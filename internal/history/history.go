// Package history keeps undo and redo stacks of encoded image snapshots.
package history

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// ErrEmpty is returned by Undo and Redo when there is nothing to restore.
var ErrEmpty = errors.New("history is empty")

// Stack holds PNG-encoded snapshots. The first snapshot pushed after Reset is
// the base state and is never undone. A Stack is not safe for concurrent use.
type Stack struct {
	undo  [][]byte
	redo  [][]byte
	limit int
}

// New returns a Stack that keeps at most limit undo snapshots, dropping the
// oldest after the base. A limit below 2 means unbounded.
func New(limit int) *Stack {
	return &Stack{limit: limit}
}

// Push records img as the newest state and discards the redo stack.
func (s *Stack) Push(img image.Image) error {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	s.undo = append(s.undo, buf.Bytes())
	s.redo = nil

	if s.limit >= 2 && len(s.undo) > s.limit {
		s.undo = append(s.undo[:1], s.undo[len(s.undo)-s.limit+1:]...)
	}
	return nil
}

// Undo moves the newest state to the redo stack and returns the state below
// it.
func (s *Stack) Undo() (image.Image, error) {
	if len(s.undo) < 2 {
		return nil, ErrEmpty
	}
	top := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, top)
	return decode(s.undo[len(s.undo)-1])
}

// Redo restores the most recently undone state.
func (s *Stack) Redo() (image.Image, error) {
	if len(s.redo) == 0 {
		return nil, ErrEmpty
	}
	top := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = append(s.undo, top)
	return decode(top)
}

// Reset drops every snapshot.
func (s *Stack) Reset() {
	s.undo = nil
	s.redo = nil
}

// Len returns the sizes of the undo and redo stacks.
func (s *Stack) Len() (undo, redo int) {
	return len(s.undo), len(s.redo)
}

func (s *Stack) CanUndo() bool { return len(s.undo) > 1 }

func (s *Stack) CanRedo() bool { return len(s.redo) > 0 }

func decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return img, nil
}
