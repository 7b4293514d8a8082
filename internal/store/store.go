// Package store holds the in-memory task collections and broadcasts every
// change to subscribers.
package store

import (
	"sync"

	"taskstore/internal/service"
)

// Snapshot is a copy of the store at one version. Each caller and each
// subscriber receives its own copy.
type Snapshot struct {
	Version uint64
	Lists   map[string][]service.Task
}

// Tasks returns the collection for listID and whether the list is loaded.
func (s Snapshot) Tasks(listID string) ([]service.Task, bool) {
	tasks, ok := s.Lists[listID]
	return tasks, ok
}

// subscriber receives snapshots on a one-slot channel. A pending snapshot
// is replaced by a newer one, so a slow reader only ever sees the latest.
type subscriber struct {
	ch chan Snapshot
}

// Store maps parent-list IDs to task collections.
// The zero value is not usable; call New.
type Store struct {
	mu          sync.Mutex
	lists       map[string][]service.Task
	version     uint64
	subscribers map[*subscriber]struct{}
}

// New creates an empty store.
func New() *Store {
	return &Store{
		lists:       make(map[string][]service.Task),
		subscribers: make(map[*subscriber]struct{}),
	}
}

// Tasks returns a copy of the collection for listID.
// ok is false if the list was never loaded.
func (s *Store) Tasks(listID string) ([]service.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tasks, ok := s.lists[listID]
	if !ok {
		return nil, false
	}
	return cloneTasks(tasks), true
}

// Snapshot returns a copy of every list at the current version.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Update runs fn with exclusive access to listID's collection and stores its
// result. cur is a private copy; loaded is false if the list was never
// loaded. If fn returns an error the store is unchanged and nothing is
// published. Otherwise the version is bumped and subscribers are notified
// before the lock is released, so they observe versions in order.
//
// Concurrent updates to the same list are applied in the order they reach
// Update; nothing sequences them against the requests that produced them.
func (s *Store) Update(listID string, fn func(cur []service.Task, loaded bool) ([]service.Task, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, loaded := s.lists[listID]
	next, err := fn(cloneTasks(cur), loaded)
	if err != nil {
		return err
	}
	if next == nil {
		next = []service.Task{}
	}
	s.lists[listID] = next
	s.version++
	s.publishLocked()
	return nil
}

// Subscribe registers a subscriber. The current snapshot is delivered
// immediately. The returned function unsubscribes and closes the channel;
// it is safe to call more than once.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	sub := &subscriber{ch: make(chan Snapshot, 1)}

	s.mu.Lock()
	s.subscribers[sub] = struct{}{}
	sub.ch <- s.snapshotLocked()
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, sub)
			s.mu.Unlock()
			close(sub.ch)
		})
	}
	return sub.ch, cancel
}

// publishLocked delivers a fresh copy of the current state to every
// subscriber without blocking. Callers must hold s.mu.
func (s *Store) publishLocked() {
	for sub := range s.subscribers {
		snap := s.snapshotLocked()
		// Drop any undelivered snapshot; only the latest matters.
		select {
		case <-sub.ch:
		default:
		}
		sub.ch <- snap
	}
}

func (s *Store) snapshotLocked() Snapshot {
	lists := make(map[string][]service.Task, len(s.lists))
	for id, tasks := range s.lists {
		lists[id] = cloneTasks(tasks)
	}
	return Snapshot{Version: s.version, Lists: lists}
}

func cloneTasks(tasks []service.Task) []service.Task {
	if tasks == nil {
		return nil
	}
	out := make([]service.Task, len(tasks))
	copy(out, tasks)
	return out
}
