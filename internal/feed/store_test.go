package feed

import (
	"fmt"
	"sync"
	"testing"

	"github.com/hawky-ai/hawkd/internal/item"
)

// recordingPersister captures write-through calls for assertions.
type recordingPersister struct {
	mu     sync.Mutex
	writes [][]item.Item
}

func (p *recordingPersister) WriteSaved(items []item.Item) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.writes = append(p.writes, items)
}

func (p *recordingPersister) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.writes)
}

func (p *recordingPersister) last() []item.Item {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.writes) == 0 {
		return nil
	}
	return p.writes[len(p.writes)-1]
}

func makeItem(id string) item.Item {
	return item.Item{ID: id, SavedAt: "2025-01-01T00:00:00Z"}
}

func TestInsert_NewestFirst(t *testing.T) {
	s := NewStore(50, 100, nil)

	s.Insert(makeItem("a"), Transient)
	s.Insert(makeItem("b"), Transient)

	got := s.List(Transient)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != "b" || got[1].ID != "a" {
		t.Errorf("order = [%s %s], want [b a]", got[0].ID, got[1].ID)
	}
}

func TestInsert_SavedCapacityEvictsOldest(t *testing.T) {
	s := NewStore(50, 100, nil)

	for i := 0; i < 101; i++ {
		s.Insert(makeItem(fmt.Sprintf("item-%d", i)), Saved)
	}

	got := s.List(Saved)
	if len(got) != 100 {
		t.Fatalf("len = %d, want 100", len(got))
	}
	if got[0].ID != "item-100" {
		t.Errorf("newest = %s, want item-100", got[0].ID)
	}
	if got[99].ID != "item-1" {
		t.Errorf("oldest = %s, want item-1 (item-0 evicted)", got[99].ID)
	}
}

func TestInsert_TransientCapacityEvictsOldest(t *testing.T) {
	s := NewStore(50, 100, nil)

	for i := 0; i < 51; i++ {
		s.Insert(makeItem(fmt.Sprintf("item-%d", i)), Transient)
	}

	got := s.List(Transient)
	if len(got) != 50 {
		t.Fatalf("len = %d, want 50", len(got))
	}
	if got[49].ID != "item-1" {
		t.Errorf("oldest = %s, want item-1", got[49].ID)
	}
}

func TestInsert_SavedWritesThrough(t *testing.T) {
	p := &recordingPersister{}
	s := NewStore(50, 100, p)

	s.Insert(makeItem("a"), Saved)

	if p.count() != 1 {
		t.Fatalf("writes = %d, want 1", p.count())
	}
	if len(p.last()) != 1 || p.last()[0].ID != "a" {
		t.Errorf("write-through snapshot = %v", p.last())
	}
}

func TestInsert_TransientDoesNotWriteThrough(t *testing.T) {
	p := &recordingPersister{}
	s := NewStore(50, 100, p)

	s.Insert(makeItem("a"), Transient)

	if p.count() != 0 {
		t.Errorf("writes = %d, want 0", p.count())
	}
}

func TestDeleteByID(t *testing.T) {
	p := &recordingPersister{}
	s := NewStore(50, 100, p)

	s.Insert(makeItem("a"), Saved)
	s.Insert(makeItem("b"), Saved)
	s.Insert(makeItem("c"), Saved)

	if !s.DeleteByID("b") {
		t.Fatal("DeleteByID(b) = false, want true")
	}

	got := s.List(Saved)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != "c" || got[1].ID != "a" {
		t.Errorf("remaining = [%s %s], want [c a]", got[0].ID, got[1].ID)
	}

	// insert x3 + delete x1
	if p.count() != 4 {
		t.Errorf("writes = %d, want 4", p.count())
	}
}

func TestDeleteByID_NotFound(t *testing.T) {
	p := &recordingPersister{}
	s := NewStore(50, 100, p)
	s.Insert(makeItem("a"), Saved)

	if s.DeleteByID("missing") {
		t.Error("DeleteByID(missing) = true, want false")
	}
	if s.Len(Saved) != 1 {
		t.Errorf("Len = %d, want 1 (no mutation)", s.Len(Saved))
	}
	if p.count() != 1 {
		t.Errorf("writes = %d, want 1 (no write-through on miss)", p.count())
	}
}

func TestSeedSaved(t *testing.T) {
	s := NewStore(50, 3, nil)

	s.SeedSaved([]item.Item{makeItem("a"), makeItem("b"), makeItem("c"), makeItem("d")})

	got := s.List(Saved)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3 (truncated to capacity)", len(got))
	}
	if got[0].ID != "a" {
		t.Errorf("head = %s, want a", got[0].ID)
	}
}

func TestList_SnapshotIsolation(t *testing.T) {
	s := NewStore(50, 100, nil)
	s.Insert(makeItem("a"), Saved)

	snap := s.List(Saved)
	snap[0].ID = "mutated"

	if s.List(Saved)[0].ID != "a" {
		t.Error("List snapshot mutation leaked into the store")
	}
}

func TestInsert_ConcurrentBoundedAtCapacity(t *testing.T) {
	s := NewStore(50, 100, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s.Insert(makeItem(fmt.Sprintf("w%d-%d", worker, j)), Saved)
			}
		}(i)
	}
	wg.Wait()

	if got := s.Len(Saved); got != 100 {
		t.Errorf("Len = %d, want exactly 100 after concurrent inserts", got)
	}
}

// stallingPersister blocks its first write until released, so a test can
// overlap two write-throughs deterministically.
type stallingPersister struct {
	recordingPersister
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (p *stallingPersister) WriteSaved(items []item.Item) {
	first := false
	p.once.Do(func() { first = true })
	if first {
		close(p.entered)
		<-p.release
	}
	p.recordingPersister.WriteSaved(items)
}

func TestInsert_OverlappingWritesStayOrdered(t *testing.T) {
	p := &stallingPersister{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	s := NewStore(5, 5, p)

	firstDone := make(chan struct{})
	go func() {
		s.Insert(makeItem("a"), Saved)
		close(firstDone)
	}()
	<-p.entered // first write-through is in flight and stalled

	secondDone := make(chan struct{})
	go func() {
		s.Insert(makeItem("b"), Saved)
		close(secondDone)
	}()

	close(p.release)
	<-firstDone
	<-secondDone

	last := p.last()
	if len(last) != 2 {
		t.Fatalf("final write has %d items, want 2", len(last))
	}
	if last[0].ID != "b" || last[1].ID != "a" {
		t.Errorf("final write = [%s %s], want [b a]", last[0].ID, last[1].ID)
	}

	// No write may shrink the durable collection while only inserting.
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := 1; i < len(p.writes); i++ {
		if len(p.writes[i]) < len(p.writes[i-1]) {
			t.Errorf("write %d has %d items after a write with %d", i, len(p.writes[i]), len(p.writes[i-1]))
		}
	}
}

func TestWriteThrough_DropsOvertakenSnapshot(t *testing.T) {
	p := &recordingPersister{}
	s := NewStore(5, 5, p)

	s.Insert(makeItem("a"), Saved)
	s.Insert(makeItem("b"), Saved)

	// A snapshot from before the second insert arrives late.
	s.writeThrough(1, []item.Item{makeItem("a")})

	if got := p.count(); got != 2 {
		t.Fatalf("persister saw %d writes, want 2 (stale snapshot dropped)", got)
	}
	last := p.last()
	if len(last) != 2 || last[0].ID != "b" {
		t.Errorf("durable state regressed: %v", last)
	}
}

func TestConcurrentSavedMutations_FinalWriteMatchesState(t *testing.T) {
	p := &recordingPersister{}
	s := NewStore(50, 100, p)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				s.Insert(makeItem(fmt.Sprintf("w%d-%d", worker, j)), Saved)
			}
		}(i)
	}
	wg.Wait()

	last := p.last()
	state := s.List(Saved)
	if len(last) != len(state) {
		t.Fatalf("final write has %d items, state has %d", len(last), len(state))
	}
	for i := range state {
		if last[i].ID != state[i].ID {
			t.Fatalf("final write diverges from state at %d: %s != %s", i, last[i].ID, state[i].ID)
		}
	}
}
