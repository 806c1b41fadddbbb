package campfeed

import (
	"sync"

	"camp-tracker/models/entities"
)

// SnapshotStore owns the current snapshot per feed. Snapshots are immutable;
// Replace swaps the whole pointer under the lock, so readers either see the
// previous snapshot or the complete new one, never a mix.
type SnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[string]*entities.FeedSnapshot
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{snapshots: map[string]*entities.FeedSnapshot{}}
}

func (s *SnapshotStore) Current(feed string) (*entities.FeedSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[feed]
	return snap, ok
}

func (s *SnapshotStore) Replace(feed string, snap *entities.FeedSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[feed] = snap
}

func (s *SnapshotStore) Feeds() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	feeds := make([]string, 0, len(s.snapshots))
	for feed := range s.snapshots {
		feeds = append(feeds, feed)
	}
	return feeds
}
