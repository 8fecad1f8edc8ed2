package session_test

import (
	"testing"

	"buildaq/internal/session"
)

func TestLock_StartsLocked(t *testing.T) {
	l := session.NewLock()
	if l.IsUnlocked() {
		t.Fatal("new lock should start locked")
	}
	if l.Reason() != session.DefaultReason {
		t.Fatalf("unexpected reason: %q", l.Reason())
	}
}

func TestLock_UnlockAndRelock(t *testing.T) {
	l := session.NewLock()

	l.Unlock("abc123")
	if !l.IsUnlocked() {
		t.Fatal("should be unlocked")
	}
	code, ok := l.Passphrase()
	if !ok || code != "abc123" {
		t.Fatalf("passphrase: got %q, %v", code, ok)
	}

	l.Lock("Locked after focus left")
	if l.IsUnlocked() {
		t.Fatal("should be locked")
	}
	if _, ok := l.Passphrase(); ok {
		t.Fatal("passphrase should be cleared")
	}
	if l.Reason() != "Locked after focus left" {
		t.Fatalf("reason: %q", l.Reason())
	}
}

func TestLock_EmptyReasonFallsBack(t *testing.T) {
	l := session.NewLock()
	l.Unlock("x")
	l.Lock("")
	if l.Reason() != session.DefaultReason {
		t.Fatalf("reason: %q", l.Reason())
	}
}
