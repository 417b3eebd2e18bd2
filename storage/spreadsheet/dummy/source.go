// Package dummysheet is an in-memory roster.Source.
package dummysheet

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/hwunzipper/core/roster"
)

var ErrNoRange = errors.New("range not found")

type Source struct {
	mu     sync.RWMutex
	cells  map[string][][]roster.Cell
	values map[string][][]string
	calls  int
}

var _ roster.Source = (*Source)(nil)

func New() *Source {
	return &Source{
		cells:  make(map[string][][]roster.Cell),
		values: make(map[string][][]string),
	}
}

// SetCells stores the cells returned for `rng`.
func (s *Source) SetCells(rng string, rows [][]roster.Cell) *Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cells[rng] = rows
	return s
}

// SetValues stores the values returned for `rng`.
func (s *Source) SetValues(rng string, rows [][]string) *Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[rng] = rows
	return s
}

// Calls returns how many ranges were read.
func (s *Source) Calls() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calls
}

func (s *Source) Cells(_ context.Context, rng string) ([][]roster.Cell, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	rows, ok := s.cells[rng]
	if !ok {
		return nil, errors.Wrap(ErrNoRange, rng)
	}
	return rows, nil
}

func (s *Source) Values(_ context.Context, rng string) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	rows, ok := s.values[rng]
	if !ok {
		return nil, errors.Wrap(ErrNoRange, rng)
	}
	return rows, nil
}
