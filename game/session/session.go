package session

import (
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jmorel/yam-master-server/game/bot"
	"github.com/jmorel/yam-master-server/game/combo"
	"github.com/jmorel/yam-master-server/game/config"
	"github.com/jmorel/yam-master-server/game/engine"
)

// BotID is the synthetic participant id reported to clients as the
// opponent in bot games.
const BotID = "bot"

// ParticipantKind tags a seat as a connected human or the bot.
type ParticipantKind int

const (
	KindHuman ParticipantKind = iota
	KindBot
)

// Participant is one seat of a session: either a connected client or
// the bot. The turn machine and the broadcasts branch on the kind; there
// is no fake transport behind the bot.
type Participant struct {
	Kind ParticipantKind
	ID   string
}

// HumanParticipant wraps a connected client id.
func HumanParticipant(clientID string) Participant {
	return Participant{Kind: KindHuman, ID: clientID}
}

// BotParticipant returns the synthetic second seat of a bot game.
func BotParticipant() Participant {
	return Participant{Kind: KindBot, ID: BotID}
}

// IsBot reports whether the seat is the bot.
func (p Participant) IsBot() bool {
	return p.Kind == KindBot
}

// Emitter pushes an event to a single connected client. Pushes are
// fire-and-forget: failures are not retried and never roll back state.
type Emitter interface {
	Emit(clientID, event string, payload any)
}

// debounced view kinds
type viewKind int

const (
	viewDeck viewKind = iota
	viewChoices
	viewGrid
	viewKindCount
)

// Session is one live match. Every mutation of its game state happens
// with mu held: intent handlers, the tick loop, and the bot policy all
// run as serialized transitions. Sessions are fully independent of each
// other.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu      sync.Mutex
	game    *engine.Game
	players map[engine.Role]Participant
	emitter Emitter
	cfg     *config.Settings
	rng     *rand.Rand
	pending [viewKindCount]bool

	done      chan struct{}
	closeOnce sync.Once
}

func newSession(id string, p1, p2 Participant, emitter Emitter, cfg *config.Settings) *Session {
	vsBot := p2.IsBot()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Session{
		ID:        id,
		CreatedAt: time.Now(),
		game:      engine.New(vsBot, cfg, rng),
		players: map[engine.Role]Participant{
			engine.RolePlayer1: p1,
			engine.RolePlayer2: p2,
		},
		emitter: emitter,
		cfg:     cfg,
		rng:     rng,
		done:    make(chan struct{}),
	}
}

// VsBot reports whether the second seat is the bot.
func (s *Session) VsBot() bool {
	return s.players[engine.RolePlayer2].IsBot()
}

// start pushes the initial projections and launches the tick loop.
func (s *Session) start() {
	s.mu.Lock()
	st := s.game.State()

	startEvent := EventGameStart
	if st.VsBot {
		startEvent = EventBotGameStart
	}
	for role, p := range s.players {
		if p.IsBot() {
			continue
		}
		view := StartView{InGame: true}
		opponent := s.players[role.Opponent()]
		if opponent.IsBot() {
			view.IDBot = opponent.ID
		} else {
			view.IDOpponent = opponent.ID
		}
		s.emitter.Emit(p.ID, startEvent, view)
	}

	s.game.Start()
	s.emitTimers()
	s.scheduleViews(viewDeck, viewChoices, viewGrid)
	s.mu.Unlock()

	go s.run()
}

// run drives the per-session one-second tick until teardown.
func (s *Session) run() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

// tick decrements the turn timer, and on expiry forces the turn switch:
// a stalling player forfeits the remainder of their turn.
func (s *Session) tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.game.Over() {
		return
	}

	expired := s.game.TickSecond()
	s.emitTimers()
	if !expired {
		return
	}

	s.game.ExpireTurn()
	s.emitTimers()
	s.scheduleViews(viewDeck, viewChoices, viewGrid)
	s.runBotIfDue()
}

// Close stops the tick loop. Idempotent.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

// HandleRoll applies the roll intent for the given seat. The roll budget
// is enforced server-side; an over-budget request degrades to a final
// roll inside the engine.
func (s *Session) HandleRoll(role engine.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.game.Roll(role); err != nil {
		s.rejectIntent("game.dices.roll", role, err)
		return
	}
	s.emitTimers() // the final roll clamps the countdown
	s.scheduleViews(viewDeck, viewChoices)
}

// HandleLockDie toggles the hold flag of one die.
func (s *Session) HandleLockDie(role engine.Role, dieID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.game.ToggleLock(role, dieID); err != nil {
		s.rejectIntent("game.dices.lock", role, err)
		return
	}
	s.scheduleViews(viewDeck)
}

// HandleSelectChoice commits the seat to a combination and highlights
// the matching cells.
func (s *Session) HandleSelectChoice(role engine.Role, id combo.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.game.SelectChoice(role, id); err != nil {
		s.rejectIntent("game.choices.selected", role, err)
		return
	}
	s.scheduleViews(viewChoices, viewGrid)
}

// HandleSelectCell claims a cell, scores the acting seat, and completes
// the turn: either the game ends or the turn rotates, running the bot
// synchronously when the new turn is its.
func (s *Session) HandleSelectCell(role engine.Role, id combo.ID, row, col int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcome, err := s.game.PlaceCell(role, id, row, col)
	if err != nil {
		s.rejectIntent("game.grid.selected", role, err)
		return
	}

	s.emitScores()
	if outcome.Victory {
		s.emitGameEnd(outcome.Winner)
	} else {
		s.emitTimers()
		s.runBotIfDue()
	}
	s.scheduleViews(viewDeck, viewChoices, viewGrid)
}

// runBotIfDue plays the bot's turn synchronously inside the current
// transition. It must be called with mu held, after any rotation.
func (s *Session) runBotIfDue() {
	st := s.game.State()
	if !st.VsBot || s.game.Over() || st.CurrentTurn != engine.RolePlayer2 {
		return
	}

	outcome := bot.PlayTurn(s.game, s.rng)
	if outcome == nil {
		// nothing placeable: the turn still rotates
		s.game.ExpireTurn()
		s.emitTimers()
		return
	}

	log.Debug().
		Str("session", s.ID).
		Str("combination", string(outcome.Combination)).
		Int("score", outcome.Score).
		Msg("bot placed")

	s.emitScores()
	if outcome.Victory {
		s.emitGameEnd(outcome.Winner)
	} else {
		s.emitTimers()
	}
}

func (s *Session) rejectIntent(event string, role engine.Role, err error) {
	log.Debug().
		Str("session", s.ID).
		Str("role", string(role)).
		Str("event", event).
		Err(err).
		Msg("intent rejected")
}

// emitToRole pushes an event to the human behind a seat; bot seats are
// skipped.
func (s *Session) emitToRole(role engine.Role, event string, payload any) {
	p := s.players[role]
	if p.IsBot() {
		return
	}
	s.emitter.Emit(p.ID, event, payload)
}

func (s *Session) emitTimers() {
	st := s.game.State()
	for role := range s.players {
		s.emitToRole(role, EventTimer, timerViewFor(role, st))
	}
}

func (s *Session) emitScores() {
	st := s.game.State()
	for role := range s.players {
		s.emitToRole(role, EventScore, scoreViewFor(role, st))
	}
}

func (s *Session) emitGameEnd(winner string) {
	st := s.game.State()
	view := EndView{
		Vainqueur:    winner,
		Player1Score: st.Player1Score,
		Player2Score: st.Player2Score,
	}
	for role := range s.players {
		s.emitToRole(role, EventGameEnd, view)
	}
}

// scheduleViews arms a debounced push for each view kind, batching rapid
// successive mutations into one client-visible update. Must be called
// with mu held.
func (s *Session) scheduleViews(kinds ...viewKind) {
	for _, kind := range kinds {
		if s.pending[kind] {
			continue
		}
		s.pending[kind] = true
		k := kind
		time.AfterFunc(s.cfg.Debounce(), func() {
			s.flushView(k)
		})
	}
}

// flushView pushes one debounced view to both humans.
func (s *Session) flushView(kind viewKind) {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-s.done:
		return
	default:
	}

	s.pending[kind] = false
	st := s.game.State()
	for role := range s.players {
		switch kind {
		case viewDeck:
			s.emitToRole(role, EventDeckView, deckViewFor(role, st))
		case viewChoices:
			s.emitToRole(role, EventChoicesView, choicesViewFor(role, st))
		case viewGrid:
			s.emitToRole(role, EventGridView, gridViewFor(role, st))
		}
	}
}

// Info is a read-only snapshot for the observability API.
type Info struct {
	ID           string      `json:"id"`
	VsBot        bool        `json:"vsbot"`
	CurrentTurn  engine.Role `json:"currentTurn"`
	Timer        int         `json:"timer"`
	Phase        string      `json:"phase"`
	Player1Score int         `json:"player1Score"`
	Player2Score int         `json:"player2Score"`
	Winner       string      `json:"vainqueur,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// Snapshot returns the session summary.
func (s *Session) Snapshot() Info {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.game.State()
	return Info{
		ID:           s.ID,
		VsBot:        st.VsBot,
		CurrentTurn:  st.CurrentTurn,
		Timer:        st.Timer,
		Phase:        string(st.Phase),
		Player1Score: st.Player1Score,
		Player2Score: st.Player2Score,
		Winner:       st.Winner,
		CreatedAt:    s.CreatedAt,
	}
}

// MarshalState serializes the full game state under the session lock.
func (s *Session) MarshalState() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return json.Marshal(s.game.State())
}
