package store_test

import (
	"path/filepath"
	"testing"

	"buildaq/internal/crypto"
	"buildaq/internal/domain"
	"buildaq/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "chat.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seal(t *testing.T, text string) domain.Envelope {
	t.Helper()
	env, err := crypto.Seal(text, "abc123", "You")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	return env
}

func TestLog_AppendIsIdempotent(t *testing.T) {
	l := store.NewLog(openStore(t))
	env := seal(t, "hello")

	if !l.Append(env) {
		t.Fatal("first append should insert")
	}
	if l.Append(env) {
		t.Fatal("second append of the same id should be rejected")
	}
	if got := l.Len(); got != 1 {
		t.Fatalf("len: got %d, want 1", got)
	}
}

func TestLog_DedupUnderReorder(t *testing.T) {
	l := store.NewLog(openStore(t))
	a := seal(t, "first")
	b := seal(t, "second")

	l.Append(a)
	l.Append(a) // duplicate delivered between A and B
	l.Append(b)

	got := l.All()
	if len(got) != 2 || got[0].ID != a.ID || got[1].ID != b.ID {
		t.Fatalf("want [A B], got %v", got)
	}
}

func TestLog_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chat.db")

	s, err := store.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	l := store.NewLog(s)
	env := seal(t, "durable")
	l.Append(env)
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s2, err := store.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	l2 := store.NewLog(s2)
	got := l2.All()
	if len(got) != 1 || got[0].ID != env.ID {
		t.Fatalf("hydrated log mismatch: %v", got)
	}
}

func TestLog_ClearPersists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chat.db")

	s, _ := store.Open(path)
	l := store.NewLog(s)
	l.Append(seal(t, "gone soon"))
	l.Clear()
	s.Close()

	s2, _ := store.Open(path)
	defer s2.Close()
	if got := store.NewLog(s2).Len(); got != 0 {
		t.Fatalf("want empty after clear, got %d", got)
	}
}

func TestLog_MemoryOnlyWithoutDatabase(t *testing.T) {
	l := store.NewLog(nil) // degraded mode: no persistence available
	env := seal(t, "ephemeral")
	if !l.Append(env) {
		t.Fatal("append should still work in memory")
	}
	if l.Len() != 1 {
		t.Fatal("in-memory log lost the envelope")
	}
}

func TestLog_ValidateShape(t *testing.T) {
	l := store.NewLog(nil)
	complete := seal(t, "ok")

	if !l.ValidateShape(complete) {
		t.Fatal("complete envelope should validate")
	}
	cases := map[string]func(domain.Envelope) domain.Envelope{
		"missing id":         func(e domain.Envelope) domain.Envelope { e.ID = ""; return e },
		"missing sender":     func(e domain.Envelope) domain.Envelope { e.Sender = ""; return e },
		"missing at":         func(e domain.Envelope) domain.Envelope { e.At = ""; return e },
		"missing salt":       func(e domain.Envelope) domain.Envelope { e.Salt = ""; return e },
		"missing iv":         func(e domain.Envelope) domain.Envelope { e.IV = ""; return e },
		"missing ciphertext": func(e domain.Envelope) domain.Envelope { e.Ciphertext = ""; return e },
	}
	for name, strip := range cases {
		t.Run(name, func(t *testing.T) {
			if l.ValidateShape(strip(complete)) {
				t.Fatal("should be rejected")
			}
		})
	}
}

func TestLog_ExportImportRoundTrip(t *testing.T) {
	l := store.NewLog(openStore(t))
	a := seal(t, "one")
	b := seal(t, "two")
	l.Append(a)
	l.Append(b)

	payload, err := l.Export()
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	fresh := store.NewLog(openStore(t))
	if err := fresh.Import(payload); err != nil {
		t.Fatalf("import: %v", err)
	}
	got := fresh.All()
	if len(got) != 2 || got[0].ID != a.ID || got[1].ID != b.ID {
		t.Fatalf("import mismatch: %v", got)
	}
}

func TestLog_ImportRejectsGarbage(t *testing.T) {
	l := store.NewLog(openStore(t))
	l.Append(seal(t, "keep me"))

	for _, payload := range []string{"not base64!!", "aGVsbG8=" /* base64 of "hello" */} {
		if err := l.Import(payload); err == nil {
			t.Fatalf("payload %q should be rejected", payload)
		}
	}
	if l.Len() != 1 {
		t.Fatal("failed import must not touch the conversation")
	}
}
