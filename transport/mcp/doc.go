// Package mcp provides the Model Context Protocol surface of the dice
// game server.
//
// The mcp package implements:
//   - MCP server for AI agent integration
//   - Tool definitions for every turn intent
//   - Bot-game play with the same identity model as websocket clients
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - create_bot_game: Start a match against the bot, returns a player id
//   - game_state: Get the full authoritative state of a session
//   - roll_dices: Roll the unlocked dice
//   - lock_dice: Toggle the hold flag of one die
//   - select_choice: Commit to a satisfiable combination
//   - select_cell: Claim an open grid cell
//   - list_sessions: List all live sessions
//
// Identity:
//
// An agent is just another client: create_bot_game mints a player id and
// seats it as player:1 of a fresh bot session. Intents carry that id and
// go through the same service and session validation as websocket
// events. The push channel is absent for MCP players, so agents poll
// game_state instead of receiving view events.
//
// Usage:
//
//	mcpServer := mcp.NewServer(gameService)
//	http.Handle("/mcp", handlerFor(mcpServer.GetMCPServer()))
package mcp
