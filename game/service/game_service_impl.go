package service

import (
	"context"
	"fmt"

	"github.com/jmorel/yam-master-server/game/combo"
	"github.com/jmorel/yam-master-server/game/session"
)

// gameServiceImpl implements the GameService interface on top of the
// session registry.
type gameServiceImpl struct {
	manager *session.Manager
}

// NewGameService creates a new game service instance
func NewGameService(manager *session.Manager) GameService {
	return &gameServiceImpl{manager: manager}
}

// JoinQueue enters a client into matchmaking.
func (s *gameServiceImpl) JoinQueue(ctx context.Context, clientID string) {
	s.manager.JoinQueue(clientID)
}

// JoinBotGame starts a single-player match against the bot.
func (s *gameServiceImpl) JoinBotGame(ctx context.Context, clientID string) (*session.Info, error) {
	sess, err := s.manager.JoinBotGame(clientID)
	if err != nil {
		return nil, err
	}
	info := sess.Snapshot()
	return &info, nil
}

// Disconnect removes a client from the queue or tears its session down.
func (s *gameServiceImpl) Disconnect(ctx context.Context, clientID string) {
	s.manager.Disconnect(clientID)
}

// RollDices applies the roll intent for the client's seat.
func (s *gameServiceImpl) RollDices(ctx context.Context, clientID string) error {
	sess, role, ok := s.manager.Lookup(clientID)
	if !ok {
		return ErrNotInSession
	}
	sess.HandleRoll(role)
	return nil
}

// LockDice toggles the hold flag of one die for the client's seat.
func (s *gameServiceImpl) LockDice(ctx context.Context, clientID string, dieID int) error {
	sess, role, ok := s.manager.Lookup(clientID)
	if !ok {
		return ErrNotInSession
	}
	sess.HandleLockDie(role, dieID)
	return nil
}

// SelectChoice commits the client's seat to one of its satisfiable
// combinations.
func (s *gameServiceImpl) SelectChoice(ctx context.Context, clientID string, choiceID combo.ID) error {
	sess, role, ok := s.manager.Lookup(clientID)
	if !ok {
		return ErrNotInSession
	}
	sess.HandleSelectChoice(role, choiceID)
	return nil
}

// SelectCell claims a grid cell for the client's seat.
func (s *gameServiceImpl) SelectCell(ctx context.Context, clientID string, cellID combo.ID, row, col int) error {
	sess, role, ok := s.manager.Lookup(clientID)
	if !ok {
		return ErrNotInSession
	}
	sess.HandleSelectCell(role, cellID, row, col)
	return nil
}

// ListSessions snapshots every live session.
func (s *gameServiceImpl) ListSessions(ctx context.Context) []session.Info {
	return s.manager.Sessions()
}

// GetSession retrieves one session summary.
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*session.Info, error) {
	sess, ok := s.manager.Get(sessionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", session.ErrSessionNotFound, sessionID)
	}
	info := sess.Snapshot()
	return &info, nil
}

// GetSessionState serializes the full game state of one session.
func (s *gameServiceImpl) GetSessionState(ctx context.Context, sessionID string) ([]byte, error) {
	sess, ok := s.manager.Get(sessionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", session.ErrSessionNotFound, sessionID)
	}
	return sess.MarshalState()
}
