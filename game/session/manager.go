package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jmorel/yam-master-server/game/config"
	"github.com/jmorel/yam-master-server/game/engine"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrAlreadyPlaying  = errors.New("client is already queued or in a session")
)

// seat binds a connected client to its session and role.
type seat struct {
	session *Session
	role    engine.Role
}

// Manager is the owned registry of live sessions and the matchmaking
// queue. There is no global state: every lookup and every lifecycle
// change goes through it.
type Manager struct {
	mu       sync.Mutex
	emitter  Emitter
	cfg      *config.Settings
	sessions map[string]*Session
	byClient map[string]seat
	queue    []string
}

// NewManager creates an empty registry.
func NewManager(emitter Emitter, cfg *config.Settings) *Manager {
	return &Manager{
		emitter:  emitter,
		cfg:      cfg,
		sessions: make(map[string]*Session),
		byClient: make(map[string]seat),
	}
}

// JoinQueue enters a client into matchmaking. The first two waiting
// clients are paired first-in-first-out into a session; a lone client is
// told it is queued.
func (m *Manager) JoinQueue(clientID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.isKnownLocked(clientID) {
		log.Debug().Str("client", clientID).Msg("queue.join ignored, already playing")
		return
	}

	m.queue = append(m.queue, clientID)
	if len(m.queue) < 2 {
		m.emitter.Emit(clientID, EventQueueAdded, QueueView{InQueue: true})
		return
	}

	p1, p2 := m.queue[0], m.queue[1]
	m.queue = m.queue[2:]
	m.createSessionLocked(HumanParticipant(p1), HumanParticipant(p2))
}

// JoinBotGame creates a single-player session against the bot.
func (m *Manager) JoinBotGame(clientID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.isKnownLocked(clientID) {
		return nil, ErrAlreadyPlaying
	}
	return m.createSessionLocked(HumanParticipant(clientID), BotParticipant()), nil
}

func (m *Manager) isKnownLocked(clientID string) bool {
	if _, ok := m.byClient[clientID]; ok {
		return true
	}
	for _, queued := range m.queue {
		if queued == clientID {
			return true
		}
	}
	return false
}

func (m *Manager) createSessionLocked(p1, p2 Participant) *Session {
	s := newSession(uuid.NewString(), p1, p2, m.emitter, m.cfg)
	m.sessions[s.ID] = s
	m.byClient[p1.ID] = seat{session: s, role: engine.RolePlayer1}
	if !p2.IsBot() {
		m.byClient[p2.ID] = seat{session: s, role: engine.RolePlayer2}
	}

	log.Info().
		Str("session", s.ID).
		Bool("vsbot", p2.IsBot()).
		Msg("session created")

	s.start()
	return s
}

// Lookup resolves a client id to its session and seat.
func (m *Manager) Lookup(clientID string) (*Session, engine.Role, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.byClient[clientID]
	if !ok {
		return nil, "", false
	}
	return st.session, st.role, true
}

// Get returns a session by id.
func (m *Manager) Get(sessionID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	return s, ok
}

// Disconnect removes a client. A queued client just leaves the queue; a
// playing client tears the whole session down, cancelling the timer for
// the companion as well since the match cannot continue.
func (m *Manager) Disconnect(clientID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, queued := range m.queue {
		if queued == clientID {
			m.queue = append(m.queue[:i], m.queue[i+1:]...)
			log.Debug().Str("client", clientID).Msg("client left the queue")
			return
		}
	}

	st, ok := m.byClient[clientID]
	if !ok {
		return
	}

	s := st.session
	s.Close()
	delete(m.sessions, s.ID)
	for _, p := range s.players {
		if !p.IsBot() {
			delete(m.byClient, p.ID)
		}
	}

	log.Info().
		Str("session", s.ID).
		Str("client", clientID).
		Msg("session torn down on disconnect")
}

// Sessions snapshots every live session for the observability API.
func (m *Manager) Sessions() []Info {
	m.mu.Lock()
	list := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		list = append(list, s)
	}
	m.mu.Unlock()

	infos := make([]Info, 0, len(list))
	for _, s := range list {
		infos = append(infos, s.Snapshot())
	}
	return infos
}

// QueueLen reports how many clients are waiting for an opponent.
func (m *Manager) QueueLen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}
