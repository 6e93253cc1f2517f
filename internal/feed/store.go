// Package feed owns the two bounded, newest-first capture collections.
// All mutation goes through the Store; nothing else touches the backing
// slices.
package feed

import (
	"sync"

	"github.com/hawky-ai/hawkd/internal/item"
)

// Target selects which collection an operation applies to.
type Target string

const (
	// Transient holds recent ad-hoc captures. Memory-only; lost on restart.
	Transient Target = "transient"

	// Saved holds user-confirmed saves. Written through to durable storage.
	Saved Target = "saved"
)

// Persister receives the saved collection after every successful mutation.
// Implementations own failure handling; a failed write never propagates back
// here (the in-memory state stays authoritative for the process lifetime).
type Persister interface {
	WriteSaved(items []item.Item)
}

// Store is the sole authority for what is currently captured.
type Store struct {
	mu        sync.Mutex
	transient []item.Item
	saved     []item.Item
	savedGen  uint64

	transientCap int
	savedCap     int

	// persistMu serializes write-through; persistedGen is guarded by it.
	// Concurrent saved mutations snapshot under mu, then persist in
	// generation order so an older snapshot can never land after a newer
	// one.
	persist      Persister
	persistMu    sync.Mutex
	persistedGen uint64
}

// NewStore creates a Store with the given capacities. persist may be nil for
// a memory-only store (tests, CLI read paths).
func NewStore(transientCap, savedCap int, persist Persister) *Store {
	return &Store{
		transientCap: transientCap,
		savedCap:     savedCap,
		persist:      persist,
	}
}

// SeedSaved replaces the saved collection with previously persisted state.
// Called once at startup, before any requests are served; it does not write
// back through. Input beyond capacity is truncated oldest-first.
func (s *Store) SeedSaved(items []item.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(items) > s.savedCap {
		items = items[:s.savedCap]
	}
	s.saved = append([]item.Item(nil), items...)
}

// Insert prepends an item to the target collection, evicting the oldest entry
// first when at capacity so the bound is never exceeded, even transiently.
// Saved-collection inserts write through.
func (s *Store) Insert(it item.Item, target Target) {
	s.mu.Lock()

	var snapshot []item.Item
	var gen uint64
	if target == Saved {
		s.saved = prepend(s.saved, it, s.savedCap)
		snapshot = append([]item.Item(nil), s.saved...)
		s.savedGen++
		gen = s.savedGen
	} else {
		s.transient = prepend(s.transient, it, s.transientCap)
	}

	s.mu.Unlock()

	if snapshot != nil {
		s.writeThrough(gen, snapshot)
	}
}

// List returns a newest-first snapshot of the target collection. Repeated
// calls re-read current state.
func (s *Store) List(target Target) []item.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	src := s.transient
	if target == Saved {
		src = s.saved
	}
	return append([]item.Item{}, src...)
}

// Len reports the current size of the target collection.
func (s *Store) Len(target Target) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if target == Saved {
		return len(s.saved)
	}
	return len(s.transient)
}

// DeleteByID removes a saved item by id and reports whether one was found.
// Transient items are ephemeral and not individually deletable. A successful
// delete writes through.
func (s *Store) DeleteByID(id string) bool {
	s.mu.Lock()

	found := false
	kept := s.saved[:0]
	for _, it := range s.saved {
		if !found && it.ID == id {
			found = true
			continue
		}
		kept = append(kept, it)
	}
	s.saved = kept

	var snapshot []item.Item
	var gen uint64
	if found {
		snapshot = append([]item.Item(nil), s.saved...)
		s.savedGen++
		gen = s.savedGen
	}

	s.mu.Unlock()

	if found {
		s.writeThrough(gen, snapshot)
	}
	return found
}

// writeThrough hands a saved-collection snapshot to the persister. Writes
// are serialized and ordered by generation; a snapshot overtaken while
// waiting is dropped, since a newer one already reached the persister.
func (s *Store) writeThrough(gen uint64, snapshot []item.Item) {
	if s.persist == nil {
		return
	}

	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	if gen <= s.persistedGen {
		return
	}
	s.persistedGen = gen
	s.persist.WriteSaved(snapshot)
}

// prepend inserts at the head while keeping len(list) <= capacity.
func prepend(list []item.Item, it item.Item, capacity int) []item.Item {
	if capacity <= 0 {
		return nil
	}
	if len(list) >= capacity {
		list = list[:capacity-1]
	}
	out := make([]item.Item, 0, len(list)+1)
	out = append(out, it)
	return append(out, list...)
}
