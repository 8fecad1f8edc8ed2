// Package app wires application dependencies for the CLI.
//
// It builds the concrete store, session lock, transport and relay sync from
// Config, exposing them via the Wire struct for commands to use.
package app
