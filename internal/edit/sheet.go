package edit

import (
	"context"
	"fmt"
	"sync"

	"github.com/opencouncil/finsight/internal/shared"
)

// Sheet is an ordered collection of editable cells with keyboard-driven
// navigation. Tab navigation always resolves the current cell's save before
// focus moves, and a failed save pins focus in place so the entered value is
// never lost by navigating away.
//
// Safe for concurrent use: the UI reads focus from its event loop while tab
// saves resolve on other goroutines. The lock covers focus only; it is never
// held across a submission, so reads stay responsive while a save is in
// flight and the cell's own in-flight guard serializes the submissions.
type Sheet struct {
	mu    sync.Mutex
	cells []*Cell
	focus int
}

// NewSheet orders the given cells for sequential editing.
func NewSheet(cells []*Cell) (*Sheet, error) {
	if len(cells) == 0 {
		return nil, fmt.Errorf("%w: sheet needs at least one cell", shared.ErrInvalidInput)
	}
	return &Sheet{cells: cells}, nil
}

// Cells returns the ordered cell list.
func (s *Sheet) Cells() []*Cell {
	return s.cells
}

// Focused returns the cell that currently holds focus.
func (s *Sheet) Focused() *Cell {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cells[s.focus]
}

// FocusIndex reports the position of the focused cell.
func (s *Sheet) FocusIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focus
}

// Focus moves focus directly to index, wrapping out-of-range values. It does
// not touch cell state; callers cancel or save the previous cell first.
func (s *Sheet) Focus(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setFocus(index)
}

// setFocus wraps index into range. Callers hold s.mu.
func (s *Sheet) setFocus(index int) {
	n := len(s.cells)
	s.focus = ((index % n) + n) % n
}

// TabNext saves the focused cell if its value changed, then moves focus to
// the next cell, wrapping at the end. Focus moves only after the save
// resolves: a failed save or a pending disambiguation keeps focus in place.
func (s *Sheet) TabNext(ctx context.Context) (*SubmitResult, error) {
	return s.tab(ctx, 1)
}

// TabPrev is TabNext in the other direction, wrapping at the start.
func (s *Sheet) TabPrev(ctx context.Context) (*SubmitResult, error) {
	return s.tab(ctx, -1)
}

func (s *Sheet) tab(ctx context.Context, step int) (*SubmitResult, error) {
	cell := s.Focused()

	var result *SubmitResult
	switch cell.State() {
	case StateSubmitting:
		return nil, shared.ErrSubmissionInFlight
	case StateEditing:
		if cell.Changed() {
			saved, err := cell.Submit(ctx)
			if err != nil {
				return nil, err
			}
			if saved.Disambiguation != nil {
				return saved, nil
			}
			result = saved
		} else {
			cell.Cancel()
		}
	}

	s.mu.Lock()
	s.setFocus(s.focus + step)
	s.mu.Unlock()
	return result, nil
}
