// Package hub implements the room relay used by relayd.
//
// The hub is blind: it reads only the join frame's room name for routing and
// forwards message frames byte-for-byte to every other member of that room.
// Envelope contents stay opaque to it.
package hub
