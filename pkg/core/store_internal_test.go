package core

import (
	"math"
	"testing"
)

func TestStore_IDExhaustion(t *testing.T) {
	s := NewStore()
	s.nextID = math.MaxUint64 - 1

	id, err := s.Create("last", "", nil, ColorDefault)
	if err != nil {
		t.Fatalf("expected final id to be allocated, got %v", err)
	}
	if id != math.MaxUint64-1 {
		t.Errorf("unexpected id %d", id)
	}

	if _, err := s.Create("overflow", "", nil, ColorDefault); err != ErrIDExhausted {
		t.Fatalf("expected ErrIDExhausted, got %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("failed create must not append, len=%d", s.Len())
	}
}
