// Command relayd runs the room relay daemon buildaq clients connect to.
//
// It forwards sealed envelopes between the members of a room without being
// able to read them. Configuration comes from the environment:
//
//	BUILDAQ_LISTEN_ADDR  listen address (default ":7350")
package main
