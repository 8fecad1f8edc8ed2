// Package commands defines the buildaq CLI and wires dependencies for
// subcommands.
//
// Commands
//
//   - chat     Connect to a relay room and exchange sealed notes live
//   - send     Seal a note into the local conversation
//   - log      Render the conversation with the shared code
//   - demo     Seal a sample note under the demo code
//   - export   Print the conversation as a portable backup payload
//   - import   Replace the conversation from a backup payload
//   - clear    Erase the local conversation
//
// # Implementation
//
// The root command builds a dependency graph (store, session lock, relay
// sync) before any subcommand runs, so handlers share one app context. The
// relay address and room are remembered across runs in the config slot.
package commands
