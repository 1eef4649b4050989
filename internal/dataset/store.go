package dataset

import (
	"sync"
	"time"
)

// Store holds the current dataset per account, in memory. One dataset per
// user; an upload replaces the previous one. Entries older than ttl are
// misses and get removed by EvictExpired. ttl <= 0 disables expiry.
type Store struct {
	ttl time.Duration

	mu     sync.RWMutex
	byUser map[string]*Dataset
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:    ttl,
		byUser: make(map[string]*Dataset),
	}
}

// Put replaces the user's current dataset.
func (s *Store) Put(username string, d *Dataset) {
	s.mu.Lock()
	s.byUser[username] = d
	s.mu.Unlock()
}

// Get returns the user's current dataset, treating an expired one as absent.
func (s *Store) Get(username string) (*Dataset, bool) {
	s.mu.RLock()
	d, ok := s.byUser[username]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if s.expired(d, time.Now()) {
		s.Delete(username)
		return nil, false
	}
	return d, true
}

func (s *Store) Delete(username string) {
	s.mu.Lock()
	delete(s.byUser, username)
	s.mu.Unlock()
}

// Len returns the number of datasets currently held, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byUser)
}

// EvictExpired removes datasets past their ttl and returns how many.
func (s *Store) EvictExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for user, d := range s.byUser {
		if s.expired(d, now) {
			delete(s.byUser, user)
			n++
		}
	}
	return n
}

func (s *Store) expired(d *Dataset, now time.Time) bool {
	return s.ttl > 0 && now.Sub(d.UploadedAt) > s.ttl
}
