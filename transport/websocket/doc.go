// Package websocket provides the WebSocket transport of the dice game
// server.
//
// The websocket package implements:
//   - Real-time bidirectional communication
//   - Per-client event pushes driven by the session layer
//   - Inbound event dispatch into the game service
//   - Connection lifecycle management
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each client connection is handled by dedicated
// read and write goroutines. The Hub implements session.Emitter, so the
// game sessions push their view projections through it without knowing
// about connections.
//
// Message Protocol:
//
// Frames are JSON envelopes in both directions:
//   - Incoming: {"event": "game.dices.lock", "data": {"idDice": 3}}
//   - Outgoing: {"event": "game.deck.view-state", "data": {...}}
//
// Identity:
//
// Each connection is assigned a fresh client id on upgrade. The id is
// what the matchmaking queue and the sessions key on; closing the
// connection tears the client's session down.
//
// Usage:
//
//	hub := websocket.NewHub()
//	manager := session.NewManager(hub, settings)
//	hub.Bind(service.NewGameService(manager))
//	http.HandleFunc("/ws", hub.ServeWS)
//
// Connection Lifecycle:
//
// 1. Client connects and receives an identity
// 2. Client joins the queue or a bot game
// 3. Client sends turn intents, receives debounced view states
// 4. Disconnection removes the client and ends its match
package websocket
