// Package repository holds the latest computed board per position for the
// HTTP layer to serve. It is request-lifetime state, not persistence: a
// restart starts empty and the next analytical pass repopulates it.
package repository

import (
	"context"
	"sync"
	"time"

	"github.com/fieldgeneral/dynasty/internal/domain/model"
)

// Board is one position's published output: the full ownership-attributed
// board with trade values, and the truncated tier view.
type Board struct {
	Position    model.Position
	RunID       string
	GeneratedAt time.Time
	Ranked      []model.RankedPlayerRow
	Tiered      []model.RankedPlayerRow
}

// Store provides read/write access to published boards.
type Store interface {
	// Put publishes a board, replacing any previous board for the position.
	Put(ctx context.Context, b Board)

	// Get returns the latest board for a position.
	// Returns ErrNotFound if no pass has published that position yet.
	Get(ctx context.Context, pos model.Position) (Board, error)

	// Positions lists positions with a published board, in display order.
	Positions(ctx context.Context) []model.Position

	// Count returns the number of published boards.
	Count(ctx context.Context) int
}

// BoardStore implements Store with a mutex-guarded map.
type BoardStore struct {
	mu     sync.RWMutex
	boards map[model.Position]Board
}

// NewBoardStore creates an empty board store.
func NewBoardStore() *BoardStore {
	return &BoardStore{
		boards: make(map[model.Position]Board),
	}
}

// Put publishes a board, replacing any previous board for the position.
func (s *BoardStore) Put(_ context.Context, b Board) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boards[b.Position] = b
}

// Get returns the latest board for a position.
func (s *BoardStore) Get(_ context.Context, pos model.Position) (Board, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.boards[pos]
	if !ok {
		return Board{}, ErrNotFound
	}
	return b, nil
}

// Positions lists positions with a published board, in display order.
func (s *BoardStore) Positions(_ context.Context) []model.Position {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Position, 0, len(s.boards))
	for _, pos := range model.Positions() {
		if _, ok := s.boards[pos]; ok {
			out = append(out, pos)
		}
	}
	return out
}

// Count returns the number of published boards.
func (s *BoardStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.boards)
}
