package service

import (
	"context"
	"errors"

	"github.com/jmorel/yam-master-server/game/combo"
	"github.com/jmorel/yam-master-server/game/session"
)

// ErrNotInSession is returned when a client id has no seat in any live
// session.
var ErrNotInSession = errors.New("client is not in a session")

// GameService defines all game-related operations. The transports
// (websocket, REST, MCP) talk to the sessions exclusively through it.
type GameService interface {
	// Matchmaking
	JoinQueue(ctx context.Context, clientID string)
	JoinBotGame(ctx context.Context, clientID string) (*session.Info, error)
	Disconnect(ctx context.Context, clientID string)

	// Turn intents
	RollDices(ctx context.Context, clientID string) error
	LockDice(ctx context.Context, clientID string, dieID int) error
	SelectChoice(ctx context.Context, clientID string, choiceID combo.ID) error
	SelectCell(ctx context.Context, clientID string, cellID combo.ID, row, col int) error

	// Observability
	ListSessions(ctx context.Context) []session.Info
	GetSession(ctx context.Context, sessionID string) (*session.Info, error)
	GetSessionState(ctx context.Context, sessionID string) ([]byte, error)
}
