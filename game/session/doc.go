// Package session owns the live matches. Each Session pairs two
// participants (humans, or a human and the bot) with one game state, a
// one-second tick loop, and debounced view pushes to the connected
// clients. All mutations of a session's state are serialized behind its
// mutex: the tick loop, the intent handlers and the bot policy all take
// it for the duration of one transition, and sessions share nothing
// with each other.
//
// The Manager is the registry and matchmaker: it pairs queued players
// first-in-first-out, creates bot sessions on demand, resolves a client
// id to its seat, and tears a session down when a participant
// disconnects.
package session
