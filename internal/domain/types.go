package domain

// Envelope is the unit of persistence and transport: one passphrase-encrypted
// note. Field names are fixed by the wire and snapshot formats.
//
// Everything except ID is opaque on receipt. Envelopes are immutable once
// appended to a log; a failed decryption only affects the local view.
type Envelope struct {
	ID         string `json:"id"`
	Sender     string `json:"sender"`
	At         string `json:"at"` // RFC 3339, set by the sealing party, not verified
	Salt       string `json:"salt"`
	IV         string `json:"iv"`
	Ciphertext string `json:"ciphertext"`
}

// RelayConfig is the persisted connection target.
type RelayConfig struct {
	RelayAddr string `json:"relayAddr"`
	Room      string `json:"room"`
}
