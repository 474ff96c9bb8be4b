package board

import (
	"sort"
	"sync"

	"trellix/internal/mutation"
)

// Ticket identifies one submission of a mutation into its slot.
type Ticket struct {
	Key string
	Seq uint64
}

type pendingEntry struct {
	seq uint64
	m   mutation.Mutation
}

// PendingSet holds the mutations that are in flight, at most one per slot
// key. It is safe for concurrent use.
type PendingSet struct {
	mu      sync.Mutex
	seq     uint64
	entries map[string]pendingEntry
}

// NewPendingSet returns an empty set.
func NewPendingSet() *PendingSet {
	return &PendingSet{entries: make(map[string]pendingEntry)}
}

// Add stores m in its slot, superseding whatever was pending there.
func (p *PendingSet) Add(m mutation.Mutation) Ticket {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.seq++
	key := m.Key()
	p.entries[key] = pendingEntry{seq: p.seq, m: m}
	return Ticket{Key: key, Seq: p.seq}
}

// Settle ends the life of t's submission. It returns false when t was
// superseded by a later Add to the same slot; the caller must then ignore
// the response of the request it tracks.
func (p *PendingSet) Settle(t Ticket) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	e, ok := p.entries[t.Key]
	if !ok || e.seq != t.Seq {
		return false
	}
	delete(p.entries, t.Key)
	return true
}

// List returns the pending mutations in arrival order.
func (p *PendingSet) List() []mutation.Mutation {
	p.mu.Lock()
	entries := make([]pendingEntry, 0, len(p.entries))
	for _, e := range p.entries {
		entries = append(entries, e)
	}
	p.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })
	out := make([]mutation.Mutation, len(entries))
	for i, e := range entries {
		out[i] = e.m
	}
	return out
}

// Len returns the number of occupied slots.
func (p *PendingSet) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}
