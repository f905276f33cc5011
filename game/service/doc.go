// Package service provides the business logic layer of the dice game
// server.
//
// GameService is the single entry point for every transport: the
// websocket hub translates inbound events into its methods, the REST API
// reads its observability snapshots, and the MCP tool server drives bot
// games through it. The service resolves a client id to its seat via the
// session registry and forwards each intent to the owning session, which
// serializes and validates it against the authoritative game state.
//
// Usage:
//
//	manager := session.NewManager(hub, settings)
//	gameService := service.NewGameService(manager)
//
//	gameService.JoinQueue(ctx, clientID)
//	gameService.RollDices(ctx, clientID)
package service
