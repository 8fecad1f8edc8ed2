// Package store persists the conversation and relay configuration.
//
// State lives in two independent key-value slots of a single bbolt database:
// the message log (a JSON array of envelopes, rewritten after every mutation)
// and the relay configuration. Durability is best effort: if the database
// cannot be opened or written, the conversation keeps working in memory for
// the session and the failure is logged.
package store
