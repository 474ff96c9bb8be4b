package client

import (
	"context"
	"sync"

	"trellix/internal/board"
	"trellix/internal/mutation"
	"trellix/internal/ordering"

	"github.com/google/uuid"
)

// API is the part of Client a Session needs.
type API interface {
	Snapshot(ctx context.Context, boardID string) (board.Snapshot, error)
	Submit(ctx context.Context, boardID string, m mutation.Mutation) error
}

// Session keeps the last authoritative snapshot of one board together with
// the mutations still in flight, and renders their overlay on demand.
type Session struct {
	api     API
	boardID string
	pending *board.PendingSet

	mu        sync.RWMutex
	snap      board.Snapshot
	fetchSeq  uint64
	storedSeq uint64

	inflight sync.WaitGroup
}

func NewSession(api API, boardID string) *Session {
	return &Session{
		api:     api,
		boardID: boardID,
		pending: board.NewPendingSet(),
	}
}

func (s *Session) BoardID() string {
	return s.boardID
}

// Refresh replaces the snapshot with the server's. A response older than
// one already stored is dropped.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.fetchSeq++
	seq := s.fetchSeq
	s.mu.Unlock()

	snap, err := s.api.Snapshot(ctx, s.boardID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq > s.storedSeq {
		s.snap = snap
		s.storedSeq = seq
	}
	return nil
}

// View is the snapshot with every pending mutation applied.
func (s *Session) View() board.View {
	s.mu.RLock()
	snap := s.snap
	s.mu.RUnlock()
	return board.Merge(snap, s.pending.List())
}

// Pending is the number of mutations still in flight.
func (s *Session) Pending() int {
	return s.pending.Len()
}

// Apply shows m optimistically, sends it, and settles it. On success the
// snapshot is refreshed before the pending record is dropped, so the view
// never flickers back. On failure the record is dropped and the view
// reverts. A response for a mutation superseded in the meantime leaves the
// newer record in place.
func (s *Session) Apply(ctx context.Context, m mutation.Mutation) error {
	m, ticket := s.track(m)
	return s.send(ctx, m, ticket)
}

// ApplyAsync shows m at once and sends it in the background. The channel
// receives the result and is then closed.
func (s *Session) ApplyAsync(ctx context.Context, m mutation.Mutation) <-chan error {
	m, ticket := s.track(m)
	done := make(chan error, 1)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		defer close(done)
		done <- s.send(ctx, m, ticket)
	}()
	return done
}

// Wait blocks until every ApplyAsync call has finished.
func (s *Session) Wait() {
	s.inflight.Wait()
}

func (s *Session) track(m mutation.Mutation) (mutation.Mutation, board.Ticket) {
	if m.Intent == mutation.UpdateBoardName && m.BoardID == "" {
		m.BoardID = s.boardID
	}
	return m, s.pending.Add(m)
}

func (s *Session) send(ctx context.Context, m mutation.Mutation, ticket board.Ticket) error {
	if err := s.api.Submit(ctx, s.boardID, m); err != nil {
		s.pending.Settle(ticket)
		return err
	}
	err := s.Refresh(ctx)
	s.pending.Settle(ticket)
	return err
}

// AddColumn creates a column at the end of the board and returns its id.
func (s *Session) AddColumn(ctx context.Context, name string) (string, error) {
	id := uuid.NewString()
	err := s.Apply(ctx, mutation.Mutation{Intent: mutation.CreateColumn, ID: id, Name: name})
	return id, err
}

func (s *Session) RenameColumn(ctx context.Context, columnID, name string) error {
	return s.Apply(ctx, mutation.Mutation{Intent: mutation.UpdateColumn, ColumnID: columnID, Name: name})
}

func (s *Session) RenameBoard(ctx context.Context, name string) error {
	return s.Apply(ctx, mutation.Mutation{Intent: mutation.UpdateBoardName, BoardID: s.boardID, Name: name})
}

// NewCard builds the createItem for a card at the bottom of a column.
func (s *Session) NewCard(columnID, title string, content *string) mutation.Mutation {
	id := uuid.NewString()
	return mutation.Mutation{
		Intent:   mutation.CreateItem,
		ID:       id,
		ColumnID: columnID,
		Title:    title,
		Content:  content,
		Order:    slotOrder(s.View(), columnID, id, -1),
	}
}

// AddCard appends a card to the bottom of a column and returns its id.
func (s *Session) AddCard(ctx context.Context, columnID, title string, content *string) (string, error) {
	m := s.NewCard(columnID, title, content)
	return m.ID, s.Apply(ctx, m)
}

// MoveTo builds the moveItem dropping a card at index within a column
// (negative means last). The card's title and content travel with it, so
// the move also stands in for a createItem still in flight.
func (s *Session) MoveTo(itemID, columnID string, index int) mutation.Mutation {
	return moveIn(s.View(), itemID, columnID, index)
}

func (s *Session) MoveCard(ctx context.Context, itemID, columnID string, index int) error {
	return s.Apply(ctx, s.MoveTo(itemID, columnID, index))
}

// MoveCards drops several cards into a column starting at index, keeping
// the given order, and sends the moves concurrently. Every move is in the
// view when MoveCards returns; the channels report their results.
func (s *Session) MoveCards(ctx context.Context, itemIDs []string, columnID string, index int) []<-chan error {
	s.mu.RLock()
	snap := s.snap
	s.mu.RUnlock()

	pending := s.pending.List()
	moves := make([]mutation.Mutation, 0, len(itemIDs))
	for i, id := range itemIDs {
		at := index
		if at >= 0 {
			at += i
		}
		m := moveIn(board.Merge(snap, append(pending, moves...)), id, columnID, at)
		moves = append(moves, m)
	}

	results := make([]<-chan error, len(moves))
	for i, m := range moves {
		results[i] = s.ApplyAsync(ctx, m)
	}
	return results
}

func (s *Session) DeleteCard(ctx context.Context, itemID string) error {
	return s.Apply(ctx, mutation.Mutation{Intent: mutation.DeleteCard, ID: itemID})
}

func moveIn(view board.View, itemID, columnID string, index int) mutation.Mutation {
	m := mutation.Mutation{
		Intent:   mutation.MoveItem,
		ID:       itemID,
		ColumnID: columnID,
		Order:    slotOrder(view, columnID, itemID, index),
	}
	if it, ok := view.Item(itemID); ok {
		m.Title = it.Title
		m.Content = it.Content
	}
	return m
}

func slotOrder(view board.View, columnID, itemID string, index int) float64 {
	var siblings []float64
	if col, ok := view.Column(columnID); ok {
		siblings = col.Orders(itemID)
	}
	if index < 0 {
		index = len(siblings)
	}
	return ordering.ForSlot(siblings, index)
}
