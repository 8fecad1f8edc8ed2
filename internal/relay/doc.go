// Package relay ships locally sealed envelopes to a room and merges envelopes
// received from it into the message log.
//
// The Syncer is a connection state machine
// (Disconnected/Connecting/Connected/Reconnecting) that owns the reconnect
// policy: exponential backoff capped at 30 seconds, a single cancellable
// retry timer, and an idempotent Disconnect that is terminal until the next
// Connect. The transport underneath is pluggable; this package also provides
// the TCP implementation that pairs with the relayd daemon.
package relay
