package store

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"buildaq/internal/domain"
)

// ErrBadImport is returned when an import payload is not a base64-encoded
// JSON array of envelopes. Import is the one destructive-if-wrong operation,
// so nothing is replaced until the payload fully decodes.
var ErrBadImport = errors.New("import payload is not an encoded conversation")

// Export encodes the full conversation as base64 JSON. This is the bulk
// backup path, not part of the hot path.
func (l *Log) Export() (string, error) {
	raw, err := l.marshal()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// Import replaces the conversation with a previously exported payload.
func (l *Log) Import(payload string) error {
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadImport, err)
	}
	var messages []domain.Envelope
	if err := json.Unmarshal(raw, &messages); err != nil {
		return fmt.Errorf("%w: %v", ErrBadImport, err)
	}
	l.Replace(messages)
	return nil
}
