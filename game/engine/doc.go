// Package engine implements the turn state machine of a Yam Master
// match: the roll budget, the choice and placement sub-states, turn
// rotation with timer re-arming, and win detection.
//
// A Game owns one GameState for the lifetime of a session. All
// transitions go through intent methods (Roll, ToggleLock, SelectChoice,
// PlaceCell) plus the timer hooks (TickSecond, ExpireTurn); every
// end-of-turn path funnels through a single completeTurn transition so
// the human-vs-human and human-vs-bot flows cannot drift.
//
// The engine performs no I/O and knows nothing about transports. The
// owning session serializes every call, so the engine itself is
// lock-free.
package engine
