package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jmorel/yam-master-server/game/combo"
	"github.com/jmorel/yam-master-server/game/service"
	"github.com/jmorel/yam-master-server/game/session"
)

// Server exposes the dice game to MCP agents. An agent plays a bot game
// exactly like a websocket client does: it gets a player id on
// create_bot_game and submits the same turn intents.
type Server struct {
	service   service.GameService
	mcpServer *server.MCPServer
}

// NewServer creates the MCP tool server over the game service
func NewServer(svc service.GameService) *Server {
	s := &Server{service: svc}
	s.initMCPServer()
	return s
}

// initMCPServer initializes the MCP server with all tools
func (s *Server) initMCPServer() {
	s.mcpServer = server.NewMCPServer(
		"Yam Master Server",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Yam Master - MCP Interface

A turn-based dice game on a 5x5 combination grid, played against the
server bot.

GAME OBJECTIVE:
Claim grid cells by rolling dice combinations. A claimed cell scores its
printed value; a fully owned row or column earns a bonus. When the board
is exhausted the highest total wins.

HOW TO PLAY:
1. create_bot_game - start a match, note your player_id and session_id
2. roll_dices - up to 3 rolls per turn; lock_dice holds dice between rolls
3. game_state - inspect your hand, the satisfiable combinations and the board
4. select_choice - commit to one of the available combinations
5. select_cell - claim an open cell carrying that combination

COMBINATIONS:
- sec-1..sec-6: at least two dice of that face, scored at the face value
- brelan: three of a kind
- carre: four of a kind
- full: three of a kind plus a pair
- suite: five consecutive faces
- yam: five of a kind
- moinshuit: all five dice summing to eight or less
- defi: the wildcard, always satisfiable

Intents that are not yours to make (wrong turn, no roll budget, taken
cell) are silently dropped; check game_state after each action. The turn
timer is authoritative: stall and the turn is forfeited.`),
	)

	s.registerTools()
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "create_bot_game",
		Description: "Start a new match against the bot and get your player identity",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleCreateBotGame)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all live game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListSessions)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the full authoritative state of a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, s.handleGameState)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "roll_dices",
		Description: "Roll the unlocked dice (up to 3 rolls per turn)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"player_id": map[string]interface{}{
					"type":        "string",
					"description": "Your player id from create_bot_game",
				},
			},
			Required: []string{"player_id"},
		},
	}, s.handleRollDices)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "lock_dice",
		Description: "Toggle the hold flag of one die between rolls",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"player_id": map[string]interface{}{
					"type":        "string",
					"description": "Your player id from create_bot_game",
				},
				"id_dice": map[string]interface{}{
					"type":        "integer",
					"description": "Die id (1-5)",
				},
			},
			Required: []string{"player_id", "id_dice"},
		},
	}, s.handleLockDice)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "select_choice",
		Description: "Commit to one of the satisfiable combinations",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"player_id": map[string]interface{}{
					"type":        "string",
					"description": "Your player id from create_bot_game",
				},
				"choice_id": map[string]interface{}{
					"type":        "string",
					"description": "Combination id, e.g. brelan, sec-4, defi",
				},
			},
			Required: []string{"player_id", "choice_id"},
		},
	}, s.handleSelectChoice)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "select_cell",
		Description: "Claim an open grid cell carrying the selected combination",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"player_id": map[string]interface{}{
					"type":        "string",
					"description": "Your player id from create_bot_game",
				},
				"cell_id": map[string]interface{}{
					"type":        "string",
					"description": "Combination id printed on the cell",
				},
				"row_index": map[string]interface{}{
					"type":        "integer",
					"description": "Row of the cell (0-based)",
				},
				"cell_index": map[string]interface{}{
					"type":        "integer",
					"description": "Column of the cell (0-based)",
				},
			},
			Required: []string{"player_id", "cell_id", "row_index", "cell_index"},
		},
	}, s.handleSelectCell)
}

// GetMCPServer returns the underlying MCP server for serving
func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

// Tool handlers

func (s *Server) handleCreateBotGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	playerID := "mcp-" + uuid.NewString()

	info, err := s.service.JoinBotGame(ctx, playerID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Bot game started.\nPlayer: %s\nSession: %s\n\nYou are player:1 and it is your turn. Use roll_dices next.",
		playerID, info.ID)
	return mcp.NewToolResultText(result), nil
}

func (s *Server) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	infos := s.service.ListSessions(ctx)

	var b strings.Builder
	fmt.Fprintf(&b, "Live Sessions (%d):\n\n", len(infos))
	for _, info := range infos {
		fmt.Fprintf(&b, "- %s (vsbot: %v, turn: %s, created: %s)\n",
			info.ID, info.VsBot, info.CurrentTurn, info.CreatedAt.Format("15:04:05"))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	info, err := s.service.GetSession(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	raw, err := s.service.GetSessionState(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatSessionInfo(info) + "\n\nState:\n" + string(raw)
	return mcp.NewToolResultText(result), nil
}

func (s *Server) handleRollDices(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	playerID, _ := args["player_id"].(string)

	if err := s.service.RollDices(ctx, playerID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("Roll submitted. Fetch game_state to see your hand and the available combinations."), nil
}

func (s *Server) handleLockDice(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	playerID, _ := args["player_id"].(string)
	dieID, ok := args["id_dice"].(float64)
	if !ok {
		return mcp.NewToolResultError("id_dice must be an integer"), nil
	}

	if err := s.service.LockDice(ctx, playerID, int(dieID)); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Toggled hold on die %d.", int(dieID))), nil
}

func (s *Server) handleSelectChoice(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	playerID, _ := args["player_id"].(string)
	choiceID, _ := args["choice_id"].(string)

	if err := s.service.SelectChoice(ctx, playerID, combo.ID(choiceID)); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Choice %s submitted. Fetch game_state to see the selectable cells.", choiceID)), nil
}

func (s *Server) handleSelectCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	playerID, _ := args["player_id"].(string)
	cellID, _ := args["cell_id"].(string)
	row, rowOK := args["row_index"].(float64)
	col, colOK := args["cell_index"].(float64)
	if !rowOK || !colOK {
		return mcp.NewToolResultError("row_index and cell_index must be integers"), nil
	}

	if err := s.service.SelectCell(ctx, playerID, combo.ID(cellID), int(row), int(col)); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("Cell claim submitted. Fetch game_state for the scores and whose turn it is."), nil
}

// Formatting helpers

func formatSessionInfo(info *session.Info) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session: %s\n", info.ID)
	fmt.Fprintf(&b, "Turn: %s (timer: %ds, phase: %s)\n", info.CurrentTurn, info.Timer, info.Phase)
	fmt.Fprintf(&b, "Score: player:1 %d - player:2 %d", info.Player1Score, info.Player2Score)
	if info.Winner != "" {
		fmt.Fprintf(&b, "\nGame over, winner: %s", info.Winner)
	}
	return b.String()
}
