package engine

import (
	"math/rand"
	"testing"

	"github.com/jmorel/yam-master-server/game/combo"
	"github.com/jmorel/yam-master-server/game/config"
)

func newTestGame(vsBot bool) *Game {
	g := New(vsBot, config.Default(), rand.New(rand.NewSource(42)))
	g.Start()
	return g
}

func TestNewGameInitialState(t *testing.T) {
	g := New(false, config.Default(), rand.New(rand.NewSource(1)))

	st := g.State()
	if st.Phase != PhaseIdle {
		t.Errorf("phase = %s, want idle", st.Phase)
	}
	if st.CurrentTurn != RolePlayer1 {
		t.Errorf("current turn = %s, want player:1", st.CurrentTurn)
	}
	if st.Timer != config.Default().TurnDurationSeconds {
		t.Errorf("timer = %d, want %d", st.Timer, config.Default().TurnDurationSeconds)
	}

	g.Start()
	if g.State().Phase != PhaseAwaitingRoll {
		t.Errorf("phase after Start = %s, want awaiting-roll", g.State().Phase)
	}
}

func TestRollOutOfTurn(t *testing.T) {
	g := newTestGame(false)

	if err := g.Roll(RolePlayer2); err != ErrNotYourTurn {
		t.Fatalf("expected ErrNotYourTurn, got %v", err)
	}
	if g.State().Deck.RollsUsed != 0 {
		t.Error("rejected roll must not consume budget")
	}
}

func TestRollComputesChoices(t *testing.T) {
	g := newTestGame(false)

	if err := g.Roll(RolePlayer1); err != nil {
		t.Fatalf("Roll: %v", err)
	}

	st := g.State()
	if st.Deck.RollsUsed != 1 {
		t.Errorf("rolls used = %d, want 1", st.Deck.RollsUsed)
	}
	if st.Phase != PhaseAwaitingChoice {
		t.Errorf("phase = %s, want awaiting-choice", st.Phase)
	}
	if len(st.Choices.Available) == 0 {
		t.Fatal("choices should be recomputed after a roll")
	}
	// the wildcard is always offered
	found := false
	for _, c := range st.Choices.Available {
		if c.ID == combo.Defi {
			found = true
		}
	}
	if !found {
		t.Error("defi should be among the available choices")
	}
}

func TestFinalRollLocksHandAndClampsTimer(t *testing.T) {
	cfg := config.Default()
	g := New(false, cfg, rand.New(rand.NewSource(3)))
	g.Start()

	for i := 0; i < cfg.RollsPerTurn; i++ {
		if err := g.Roll(RolePlayer1); err != nil {
			t.Fatalf("roll %d: %v", i+1, err)
		}
	}

	st := g.State()
	for _, die := range st.Deck.Dice {
		if !die.Locked {
			t.Errorf("die %d should be locked after the final roll", die.ID)
		}
	}
	if st.Timer != cfg.FinalRollGraceSeconds {
		t.Errorf("timer = %d, want clamp to %d", st.Timer, cfg.FinalRollGraceSeconds)
	}
}

func TestRollBeyondBudgetIsTreatedAsFinalRoll(t *testing.T) {
	cfg := config.Default()
	g := newTestGame(false)

	for i := 0; i < cfg.RollsPerTurn; i++ {
		g.Roll(RolePlayer1)
	}
	// free a die and push past the budget; the roll is accepted but the
	// hand is immediately frozen again
	g.State().Deck.Dice[0].Locked = false
	if err := g.Roll(RolePlayer1); err != nil {
		t.Fatalf("over-budget roll should not error, got %v", err)
	}

	st := g.State()
	if st.Deck.RollsUsed != cfg.RollsPerTurn {
		t.Errorf("rolls used = %d, want %d", st.Deck.RollsUsed, cfg.RollsPerTurn)
	}
	for _, die := range st.Deck.Dice {
		if !die.Locked {
			t.Errorf("die %d should be re-locked", die.ID)
		}
	}
}

func TestToggleLock(t *testing.T) {
	g := newTestGame(false)

	if err := g.ToggleLock(RolePlayer1, 1); err != ErrNotRolled {
		t.Fatalf("lock before first roll: expected ErrNotRolled, got %v", err)
	}

	g.Roll(RolePlayer1)
	if err := g.ToggleLock(RolePlayer1, 99); err != ErrInvalidReference {
		t.Fatalf("unknown die: expected ErrInvalidReference, got %v", err)
	}
	if err := g.ToggleLock(RolePlayer1, 1); err != nil {
		t.Fatalf("ToggleLock: %v", err)
	}
	if !g.State().Deck.Dice[0].Locked {
		t.Error("die 1 should be locked")
	}
	if err := g.ToggleLock(RolePlayer2, 1); err != ErrNotYourTurn {
		t.Fatalf("expected ErrNotYourTurn, got %v", err)
	}
}

func TestSelectChoice(t *testing.T) {
	g := newTestGame(false)

	if err := g.SelectChoice(RolePlayer1, combo.Defi); err != ErrNotRolled {
		t.Fatalf("choice before roll: expected ErrNotRolled, got %v", err)
	}

	g.Roll(RolePlayer1)
	if err := g.SelectChoice(RolePlayer1, combo.ID("nonsense")); err != ErrNotSelectable {
		t.Fatalf("unknown choice: expected ErrNotSelectable, got %v", err)
	}

	if err := g.SelectChoice(RolePlayer1, combo.Defi); err != nil {
		t.Fatalf("SelectChoice: %v", err)
	}

	st := g.State()
	if st.Choices.Selected != combo.Defi {
		t.Errorf("selected = %s, want defi", st.Choices.Selected)
	}
	if st.Phase != PhaseAwaitingPlacement {
		t.Errorf("phase = %s, want awaiting-placement", st.Phase)
	}
	if !st.Grid[0][2].CanBeChecked || !st.Grid[4][3].CanBeChecked {
		t.Error("unclaimed defi cells should be highlighted")
	}
}

func TestPlaceCellRequiresSelectedChoice(t *testing.T) {
	g := newTestGame(false)
	g.Roll(RolePlayer1)

	if _, err := g.PlaceCell(RolePlayer1, combo.Defi, 0, 2); err != ErrNotSelectable {
		t.Fatalf("expected ErrNotSelectable without a selected choice, got %v", err)
	}
}

func TestPlaceCellScoresPlacerAndRotates(t *testing.T) {
	g := newTestGame(false)
	g.Roll(RolePlayer1)
	g.SelectChoice(RolePlayer1, combo.Defi)

	outcome, err := g.PlaceCell(RolePlayer1, combo.Defi, 0, 2)
	if err != nil {
		t.Fatalf("PlaceCell: %v", err)
	}

	if outcome.By != RolePlayer1 {
		t.Errorf("outcome attributed to %s, want player:1", outcome.By)
	}
	if outcome.Victory {
		t.Error("single placement should not win")
	}

	st := g.State()
	if st.Player1Score != 10 {
		t.Errorf("player 1 score = %d, want 10 (defi cell)", st.Player1Score)
	}
	if st.Player2Score != 0 {
		t.Errorf("player 2 score = %d, want 0", st.Player2Score)
	}
	if st.CurrentTurn != RolePlayer2 {
		t.Errorf("turn = %s, want player:2", st.CurrentTurn)
	}
	if st.Phase != PhaseAwaitingRoll {
		t.Errorf("phase = %s, want awaiting-roll", st.Phase)
	}
	if st.Deck.RollsUsed != 0 {
		t.Error("deck should be fresh after rotation")
	}
	if st.Timer != config.Default().TurnDurationSeconds {
		t.Errorf("timer = %d, want fresh turn duration", st.Timer)
	}
}

func TestRotationStrictlyAlternates(t *testing.T) {
	g := newTestGame(false)

	expect := []Role{RolePlayer2, RolePlayer1, RolePlayer2, RolePlayer1}
	for i, want := range expect {
		g.ExpireTurn()
		if got := g.State().CurrentTurn; got != want {
			t.Fatalf("rotation %d: turn = %s, want %s", i+1, got, want)
		}
	}
}

func TestBotTurnUsesShortTimer(t *testing.T) {
	cfg := config.Default()
	g := New(true, cfg, rand.New(rand.NewSource(5)))
	g.Start()

	g.ExpireTurn()
	if got := g.State().Timer; got != cfg.BotTurnDurationSeconds {
		t.Errorf("bot turn timer = %d, want %d", got, cfg.BotTurnDurationSeconds)
	}

	g.ExpireTurn()
	if got := g.State().Timer; got != cfg.TurnDurationSeconds {
		t.Errorf("human turn timer = %d, want %d", got, cfg.TurnDurationSeconds)
	}
}

func TestTickSecond(t *testing.T) {
	cfg := config.Default()
	g := newTestGame(false)

	for i := 0; i < cfg.TurnDurationSeconds-1; i++ {
		if g.TickSecond() {
			t.Fatalf("timer expired early at tick %d", i+1)
		}
	}
	if !g.TickSecond() {
		t.Fatal("timer should expire on the last tick")
	}
}

func TestVictoryEndsGame(t *testing.T) {
	g := newTestGame(false)

	// claim everything except one defi cell
	st := g.State()
	for row := range st.Grid {
		for col := range st.Grid[row] {
			st.Grid[row][col].Owner = string(RolePlayer1)
		}
	}
	st.Grid[0][2].Owner = ""

	g.Roll(RolePlayer1)
	if err := g.SelectChoice(RolePlayer1, combo.Defi); err != nil {
		t.Fatalf("SelectChoice: %v", err)
	}
	outcome, err := g.PlaceCell(RolePlayer1, combo.Defi, 0, 2)
	if err != nil {
		t.Fatalf("PlaceCell: %v", err)
	}

	if !outcome.Victory {
		t.Fatal("placing the last cell should end the game")
	}
	if outcome.Winner != string(RolePlayer1) {
		t.Errorf("winner = %q, want player:1", outcome.Winner)
	}
	if !g.Over() {
		t.Fatal("game should be over")
	}
	if g.State().Winner != string(RolePlayer1) {
		t.Errorf("state winner = %q, want player:1", g.State().Winner)
	}

	// terminal state accepts no further intents
	if err := g.Roll(RolePlayer1); err != ErrGameOver {
		t.Errorf("expected ErrGameOver, got %v", err)
	}
	if err := g.Roll(RolePlayer2); err != ErrGameOver {
		t.Errorf("expected ErrGameOver, got %v", err)
	}
}
