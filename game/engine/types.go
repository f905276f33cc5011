package engine

import (
	"errors"

	"github.com/jmorel/yam-master-server/game/combo"
	"github.com/jmorel/yam-master-server/game/dice"
	"github.com/jmorel/yam-master-server/game/grid"
)

// Role identifies a seat at the table. The values are the wire strings
// the clients key their views on.
type Role string

const (
	RolePlayer1 Role = "player:1"
	RolePlayer2 Role = "player:2"
)

// Opponent returns the other seat.
func (r Role) Opponent() Role {
	if r == RolePlayer1 {
		return RolePlayer2
	}
	return RolePlayer1
}

// Phase is the sub-state of the current turn.
type Phase string

const (
	PhaseIdle              Phase = "idle"
	PhaseAwaitingRoll      Phase = "awaiting-roll"
	PhaseAwaitingChoice    Phase = "awaiting-choice"
	PhaseAwaitingPlacement Phase = "awaiting-placement"
	PhaseGameOver          Phase = "game-over"
)

var (
	// ErrNotYourTurn rejects an intent from the seat that is not on turn.
	ErrNotYourTurn = errors.New("not your turn")
	// ErrInvalidReference rejects an intent naming an unknown die or cell.
	ErrInvalidReference = errors.New("invalid reference")
	// ErrNotSelectable rejects a choice or cell that cannot be taken.
	ErrNotSelectable = errors.New("not selectable")
	// ErrGameOver rejects any intent after the game ended.
	ErrGameOver = errors.New("game is over")
	// ErrNotRolled rejects a choice or placement before the first roll.
	ErrNotRolled = errors.New("dice have not been rolled")
)

// ChoiceSet is the set of combinations the current hand satisfies, plus
// the one the player committed to. Recomputed after every roll, cleared
// at turn start.
type ChoiceSet struct {
	Available []combo.Combination `json:"availableChoices"`
	Selected  combo.ID            `json:"idSelectedChoice"`
}

// GameState is the complete truth of one match. It is owned by exactly
// one session and mutated only through Game methods.
type GameState struct {
	Timer        int       `json:"timer"`
	CurrentTurn  Role      `json:"currentTurn"`
	VsBot        bool      `json:"vsbot"`
	Deck         dice.Deck `json:"deck"`
	Choices      ChoiceSet `json:"choices"`
	Grid         grid.Grid `json:"grid"`
	Player1Score int       `json:"player1Score"`
	Player2Score int       `json:"player2Score"`
	Phase        Phase     `json:"phase"`
	Winner       string    `json:"vainqueur,omitempty"`
}

// TurnOutcome reports what a completed placement did, attributed to the
// seat that placed regardless of any rotation that followed.
type TurnOutcome struct {
	By          Role
	Combination combo.ID
	Cell        grid.Position
	Score       int
	Victory     bool
	Winner      string
}
