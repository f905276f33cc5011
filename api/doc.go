// Package api provides the HTTP surface of the dice game server.
//
// The api package implements:
//   - Session observability endpoints
//   - Health reporting
//   - WebSocket upgrade routing
//
// Endpoints:
//
//	GET /api/health              - server health, connection and session counts
//	GET /api/sessions            - list live sessions (order, limit query params)
//	GET /api/sessions/{id}       - one session summary
//	GET /api/sessions/{id}/state - full authoritative game state
//	GET /ws                      - WebSocket upgrade; the game is played here
//
// The REST endpoints are read-only: every game mutation goes through the
// websocket events or the MCP tools, so the HTTP layer can never race a
// running session.
//
// Usage:
//
//	server := api.NewServer(gameService, hub)
//	http.ListenAndServe(":3000", server)
package api
