package engine

import (
	"errors"
	"math/rand"

	"github.com/jmorel/yam-master-server/game/combo"
	"github.com/jmorel/yam-master-server/game/config"
	"github.com/jmorel/yam-master-server/game/dice"
	"github.com/jmorel/yam-master-server/game/grid"
)

// Game drives the turn state machine over a single GameState. It is not
// safe for concurrent use; the owning session serializes every call.
type Game struct {
	state *GameState
	cfg   *config.Settings
	rng   *rand.Rand
}

// New creates a game in the Idle phase with player 1 on turn.
func New(vsBot bool, cfg *config.Settings, rng *rand.Rand) *Game {
	return &Game{
		state: &GameState{
			Timer:       cfg.TurnDurationSeconds,
			CurrentTurn: RolePlayer1,
			VsBot:       vsBot,
			Deck:        dice.New(cfg.RollsPerTurn),
			Grid:        grid.New(),
			Phase:       PhaseIdle,
		},
		cfg: cfg,
		rng: rng,
	}
}

// Start moves the game out of Idle once the initial views have been
// pushed to the participants.
func (g *Game) Start() {
	if g.state.Phase == PhaseIdle {
		g.state.Phase = PhaseAwaitingRoll
	}
}

// State exposes the game truth. Callers must hold the session lock and
// must not retain the pointer across transitions.
func (g *Game) State() *GameState {
	return g.state
}

// Over reports whether the game reached its terminal state.
func (g *Game) Over() bool {
	return g.state.Phase == PhaseGameOver
}

// Score returns the stored running score for a seat.
func (g *Game) Score(r Role) int {
	if r == RolePlayer1 {
		return g.state.Player1Score
	}
	return g.state.Player2Score
}

func (g *Game) setScore(r Role, score int) {
	if r == RolePlayer1 {
		g.state.Player1Score = score
	} else {
		g.state.Player2Score = score
	}
}

// guard rejects intents that are out of turn or after game end.
func (g *Game) guard(r Role) error {
	if g.Over() {
		return ErrGameOver
	}
	if r != g.state.CurrentTurn {
		return ErrNotYourTurn
	}
	return nil
}

// Roll re-samples the unlocked dice and recomputes the available
// choices. A roll past the budget is not rejected: it is treated as the
// final roll, which locks the whole hand and clamps the turn timer to
// the short grace so the player commits quickly.
func (g *Game) Roll(r Role) error {
	if err := g.guard(r); err != nil {
		return err
	}

	st := g.state
	st.Deck.Roll(g.rng)
	if st.Deck.RollsUsed < st.Deck.RollsMax {
		st.Deck.RollsUsed++
	}

	st.Choices.Available = combo.Find(st.Deck.Values())
	st.Choices.Selected = ""
	st.Grid.ResetSelectable()
	st.Phase = PhaseAwaitingChoice

	if st.Deck.RollsUsed >= st.Deck.RollsMax {
		st.Deck.LockAll()
		if st.Timer > g.cfg.FinalRollGraceSeconds {
			st.Timer = g.cfg.FinalRollGraceSeconds
		}
	}
	return nil
}

// ToggleLock flips the lock flag of one die between rolls.
func (g *Game) ToggleLock(r Role, dieID int) error {
	if err := g.guard(r); err != nil {
		return err
	}
	if g.state.Deck.RollsUsed == 0 {
		// nothing to hold before the first roll
		return ErrNotRolled
	}
	if err := g.state.Deck.ToggleLock(dieID); err != nil {
		return ErrInvalidReference
	}
	return nil
}

// SelectChoice commits the player to one of the available combinations
// and highlights the matching unclaimed cells.
func (g *Game) SelectChoice(r Role, id combo.ID) error {
	if err := g.guard(r); err != nil {
		return err
	}

	st := g.state
	if st.Deck.RollsUsed == 0 {
		return ErrNotRolled
	}
	available := false
	for _, c := range st.Choices.Available {
		if c.ID == id {
			available = true
			break
		}
	}
	if !available {
		return ErrNotSelectable
	}

	st.Choices.Selected = id
	st.Grid.ResetSelectable()
	st.Grid.MarkSelectable(id)
	st.Phase = PhaseAwaitingPlacement
	return nil
}

// PlaceCell claims the identified cell for the acting seat, scores that
// seat, and either ends the game or rotates the turn. The score is
// always attributed to the seat that placed, never to whichever seat is
// current after rotation.
func (g *Game) PlaceCell(r Role, id combo.ID, row, col int) (*TurnOutcome, error) {
	if err := g.guard(r); err != nil {
		return nil, err
	}

	st := g.state
	if st.Choices.Selected == "" {
		return nil, ErrNotSelectable
	}
	if id != st.Choices.Selected {
		return nil, ErrNotSelectable
	}

	st.Grid.ResetSelectable()
	if err := st.Grid.SelectCell(id, row, col, string(r)); err != nil {
		if errors.Is(err, grid.ErrInvalidCell) {
			return nil, ErrInvalidReference
		}
		return nil, ErrNotSelectable
	}

	result := st.Grid.ComputeScore(string(r), string(r.Opponent()))
	g.setScore(r, result.Score)

	outcome := &TurnOutcome{
		By:          r,
		Combination: id,
		Cell:        grid.Position{Row: row, Col: col},
		Score:       result.Score,
		Victory:     result.Victory,
		Winner:      result.Winner,
	}
	if result.Victory {
		g.endGame(result.Winner)
	} else {
		g.completeTurn()
	}
	return outcome, nil
}

// ExpireTurn forces the end-of-turn rotation. Called when the timer runs
// out (a stalling player forfeits the rest of their turn) and when the
// bot ends a turn without a placement.
func (g *Game) ExpireTurn() {
	if g.Over() {
		return
	}
	g.completeTurn()
}

// TickSecond decrements the turn timer by one second and reports whether
// it reached zero.
func (g *Game) TickSecond() bool {
	if g.Over() {
		return false
	}
	g.state.Timer--
	return g.state.Timer <= 0
}

// completeTurn is the single end-of-turn transition: rotate the seat,
// re-arm the timer, and reset the per-turn sub-state. Every call site
// (placement, expiry, bot forfeit) goes through here.
func (g *Game) completeTurn() {
	st := g.state
	st.CurrentTurn = st.CurrentTurn.Opponent()

	if st.VsBot && st.CurrentTurn == RolePlayer2 {
		st.Timer = g.cfg.BotTurnDurationSeconds
	} else {
		st.Timer = g.cfg.TurnDurationSeconds
	}

	st.Deck = dice.New(g.cfg.RollsPerTurn)
	st.Choices = ChoiceSet{}
	st.Grid.ResetSelectable()
	st.Phase = PhaseAwaitingRoll
}

// endGame freezes the session in its terminal state.
func (g *Game) endGame(winner string) {
	st := g.state
	st.Phase = PhaseGameOver
	st.Winner = winner
	st.Timer = 0
	st.Grid.ResetSelectable()
}
