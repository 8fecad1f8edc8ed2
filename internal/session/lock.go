package session

import "sync"

// DefaultReason is shown while locked and no more specific reason applies.
const DefaultReason = "Locked - enter the code"

// Lock gates access to the shared code. A zero value is locked.
type Lock struct {
	mu         sync.Mutex
	passphrase string
	reason     string
}

func NewLock() *Lock {
	return &Lock{reason: DefaultReason}
}

// Unlock stores the passphrase and marks the session unlocked.
func (l *Lock) Unlock(passphrase string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.passphrase = passphrase
	l.reason = ""
}

// Lock clears the held passphrase and records why. An empty reason falls
// back to DefaultReason.
func (l *Lock) Lock(reason string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.passphrase = ""
	if reason == "" {
		reason = DefaultReason
	}
	l.reason = reason
}

func (l *Lock) IsUnlocked() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.passphrase != ""
}

// Passphrase returns the held code and whether one is set.
func (l *Lock) Passphrase() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.passphrase, l.passphrase != ""
}

// Reason returns the label shown while locked.
func (l *Lock) Reason() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reason
}
