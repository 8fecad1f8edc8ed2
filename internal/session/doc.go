// Package session holds the currently unlocked passphrase, if any.
//
// The lock never decides on its own when to re-lock: focus loss, suspension
// and explicit user action are host policies delivered as calls to Lock.
package session
