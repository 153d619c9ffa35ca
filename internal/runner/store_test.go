package runner_test

import (
	"testing"

	"github.com/hperssn/pomobot/internal/runner"
)

func TestSessionStore_PutReturnsPrevious(t *testing.T) {
	s := runner.NewSessionStore()
	a := newHandle(t, 60, 60)
	b := newHandle(t, 60, 60)

	if prev := s.Put("user-1", a); prev != nil {
		t.Fatalf("expected no previous handle")
	}
	if prev := s.Put("user-1", b); prev != a {
		t.Fatalf("expected previous handle to be returned")
	}

	got, ok := s.Get("user-1")
	if !ok || got != b {
		t.Fatalf("expected latest handle to be stored")
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
}

func TestSessionStore_RemoveIsIdempotent(t *testing.T) {
	s := runner.NewSessionStore()
	s.Put("user-1", newHandle(t, 60, 60))

	if _, ok := s.Remove("user-1"); !ok {
		t.Fatalf("expected first remove to find the handle")
	}
	if _, ok := s.Remove("user-1"); ok {
		t.Fatalf("expected second remove to be a no-op")
	}
}

func TestSessionStore_RemoveIfKeepsSuccessor(t *testing.T) {
	s := runner.NewSessionStore()
	old := newHandle(t, 60, 60)
	next := newHandle(t, 60, 60)

	s.Put("user-1", old)
	s.Put("user-1", next)

	if s.RemoveIf("user-1", old) {
		t.Fatalf("RemoveIf removed a successor")
	}
	if !s.RemoveIf("user-1", next) {
		t.Fatalf("RemoveIf did not remove the current handle")
	}
	if _, ok := s.Get("user-1"); ok {
		t.Fatalf("expected store to be empty")
	}
}

func TestSessionStore_CancelAll(t *testing.T) {
	s := runner.NewSessionStore()
	s.Put("user-1", newHandle(t, 60, 60))
	s.Put("user-2", newHandle(t, 60, 60))

	handles := s.CancelAll()
	if len(handles) != 2 {
		t.Fatalf("CancelAll() returned %d handles, want 2", len(handles))
	}
	for _, h := range handles {
		if !h.Cancelled() {
			t.Errorf("handle for %s not cancelled", h.UserID())
		}
	}
	if s.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", s.Len())
	}
}
