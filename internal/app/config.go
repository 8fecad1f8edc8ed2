package app

import "buildaq/internal/domain"

// Config holds runtime wiring options for building the app.
type Config struct {
	Home      string           // config directory, e.g. $HOME/.buildaq
	Transport domain.Transport // optional; defaults to the TCP transport
}
