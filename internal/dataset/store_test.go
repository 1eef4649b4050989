package dataset

import (
	"testing"
	"time"
)

func testDataset(uploadedAt time.Time) *Dataset {
	return &Dataset{
		Name:       "t.csv",
		Columns:    []string{"a"},
		Rows:       []map[string]string{{"a": "1"}},
		UploadedAt: uploadedAt,
	}
}

func TestStore_PutGet(t *testing.T) {
	s := NewStore(time.Hour)

	if _, ok := s.Get("alice"); ok {
		t.Error("empty store must miss")
	}

	s.Put("alice", testDataset(time.Now()))
	ds, ok := s.Get("alice")
	if !ok || ds.Name != "t.csv" {
		t.Errorf("get after put: ok=%v ds=%+v", ok, ds)
	}

	// Another user must not see it.
	if _, ok := s.Get("bob"); ok {
		t.Error("datasets must be per user")
	}
}

func TestStore_PutReplaces(t *testing.T) {
	s := NewStore(time.Hour)

	s.Put("alice", testDataset(time.Now()))
	second := testDataset(time.Now())
	second.Name = "second.csv"
	s.Put("alice", second)

	ds, ok := s.Get("alice")
	if !ok || ds.Name != "second.csv" {
		t.Errorf("expected replacement, got %+v", ds)
	}
	if s.Len() != 1 {
		t.Errorf("len: got %d, want 1", s.Len())
	}
}

func TestStore_ExpiredIsMiss(t *testing.T) {
	s := NewStore(time.Minute)

	s.Put("alice", testDataset(time.Now().Add(-2*time.Minute)))
	if _, ok := s.Get("alice"); ok {
		t.Error("expired dataset must be a miss")
	}
	if s.Len() != 0 {
		t.Error("expired dataset must be dropped on access")
	}
}

func TestStore_EvictExpired(t *testing.T) {
	s := NewStore(time.Minute)

	s.Put("old", testDataset(time.Now().Add(-5*time.Minute)))
	s.Put("fresh", testDataset(time.Now()))

	if n := s.EvictExpired(time.Now()); n != 1 {
		t.Errorf("evicted %d, want 1", n)
	}
	if _, ok := s.Get("fresh"); !ok {
		t.Error("fresh dataset must survive eviction")
	}
}

func TestStore_NoTTL(t *testing.T) {
	s := NewStore(0)

	s.Put("alice", testDataset(time.Now().Add(-24*time.Hour)))
	if _, ok := s.Get("alice"); !ok {
		t.Error("ttl 0 must disable expiry")
	}
	if n := s.EvictExpired(time.Now()); n != 0 {
		t.Errorf("evicted %d, want 0", n)
	}
}
