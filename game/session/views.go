package session

import (
	"github.com/jmorel/yam-master-server/game/combo"
	"github.com/jmorel/yam-master-server/game/dice"
	"github.com/jmorel/yam-master-server/game/engine"
	"github.com/jmorel/yam-master-server/game/grid"
)

// Outbound event names. The deck, choices and grid views are debounced;
// everything else is pushed immediately.
const (
	EventQueueAdded   = "queue.added"
	EventGameStart    = "game.start"
	EventBotGameStart = "botGame.start"
	EventTimer        = "game.timer"
	EventDeckView     = "game.deck.view-state"
	EventChoicesView  = "game.choices.view-state"
	EventGridView     = "game.grid.view-state"
	EventScore        = "game.score"
	EventGameEnd      = "botGame.end"
)

// QueueView tells a waiting client where it stands.
type QueueView struct {
	InQueue bool `json:"inQueue"`
	InGame  bool `json:"inGame"`
}

// StartView is the game-start projection. IDOpponent carries the other
// human's id; bot games carry IDBot instead.
type StartView struct {
	InQueue    bool   `json:"inQueue"`
	InGame     bool   `json:"inGame"`
	IDOpponent string `json:"idOpponent,omitempty"`
	IDBot      string `json:"idBot,omitempty"`
}

// TimerView is the role-scoped countdown: the remaining seconds land on
// whichever side of the screen owns the turn.
type TimerView struct {
	PlayerTimer   int `json:"playerTimer"`
	OpponentTimer int `json:"opponentTimer"`
}

// DeckView projects the hand. The roll button only shows for the seat
// on turn while budget remains.
type DeckView struct {
	Dices             []dice.Die `json:"dices"`
	RollsCounter      int        `json:"rollsCounter"`
	RollsMaximum      int        `json:"rollsMaximum"`
	DisplayRollButton bool       `json:"displayRollButton"`
}

// ChoicesView projects the satisfiable combinations.
type ChoicesView struct {
	AvailableChoices []combo.Combination `json:"availableChoices"`
	IDSelectedChoice combo.ID            `json:"idSelectedChoice"`
	CanMakeChoice    bool                `json:"canMakeChoice"`
}

// GridView projects the board.
type GridView struct {
	Grid           grid.Grid `json:"grid"`
	CanSelectCells bool      `json:"canSelectCells"`
}

// ScoreView is the role-scoped running score.
type ScoreView struct {
	PlayerScore   int `json:"playerScore"`
	OpponentScore int `json:"opponentScore"`
}

// EndView is the terminal game-over payload.
type EndView struct {
	Vainqueur    string `json:"vainqueur"`
	Player1Score int    `json:"player1Score"`
	Player2Score int    `json:"player2Score"`
}

// timerViewFor builds the countdown projection for one seat. The caller
// holds the session lock.
func timerViewFor(role engine.Role, st *engine.GameState) TimerView {
	v := TimerView{}
	if st.CurrentTurn == role {
		v.PlayerTimer = st.Timer
	} else {
		v.OpponentTimer = st.Timer
	}
	return v
}

// deckViewFor builds the deck projection for one seat. Lock state is
// included for both seats, mirroring the original client contract.
func deckViewFor(role engine.Role, st *engine.GameState) DeckView {
	canRoll := st.CurrentTurn == role &&
		st.Deck.RollsUsed < st.Deck.RollsMax &&
		(st.Phase == engine.PhaseAwaitingRoll || st.Phase == engine.PhaseAwaitingChoice)
	return DeckView{
		Dices:             st.Deck.Dice,
		RollsCounter:      st.Deck.RollsUsed,
		RollsMaximum:      st.Deck.RollsMax,
		DisplayRollButton: canRoll,
	}
}

func choicesViewFor(role engine.Role, st *engine.GameState) ChoicesView {
	canChoose := st.CurrentTurn == role &&
		(st.Phase == engine.PhaseAwaitingChoice || st.Phase == engine.PhaseAwaitingPlacement)
	return ChoicesView{
		AvailableChoices: st.Choices.Available,
		IDSelectedChoice: st.Choices.Selected,
		CanMakeChoice:    canChoose,
	}
}

func gridViewFor(role engine.Role, st *engine.GameState) GridView {
	return GridView{
		Grid:           st.Grid,
		CanSelectCells: st.CurrentTurn == role && st.Phase == engine.PhaseAwaitingPlacement,
	}
}

func scoreViewFor(role engine.Role, st *engine.GameState) ScoreView {
	if role == engine.RolePlayer1 {
		return ScoreView{PlayerScore: st.Player1Score, OpponentScore: st.Player2Score}
	}
	return ScoreView{PlayerScore: st.Player2Score, OpponentScore: st.Player1Score}
}
