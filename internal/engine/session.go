package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/talgya/statecraft/internal/world"
)

// Tag classifies a notification for the client's sound and toast layer.
type Tag string

const (
	TagClick    Tag = "click"
	TagSuccess  Tag = "success"
	TagFailure  Tag = "failure"
	TagAction   Tag = "action"
	TagNextTurn Tag = "next_turn"
	TagEvent    Tag = "event"
)

// Notification is pushed to subscribers after every dispatch.
type Notification struct {
	Tag     Tag          `json:"tag"`
	Action  string       `json:"action"`
	Turn    int          `json:"turn"`
	Status  world.Status `json:"status"`
	Summary string       `json:"summary"`
	Error   string       `json:"error,omitempty"`
}

// Session owns the live game and serialises every transition on it.
type Session struct {
	eng *Engine

	mu    sync.Mutex
	state *world.GameState

	subMu  sync.Mutex
	subs   map[int]chan Notification
	nextID int

	// OnCommit runs under the session lock after a successful transition.
	// a is nil for a new game, with prev holding any game it replaced; next
	// is nil after a lost civil war.
	OnCommit func(prev, next *world.GameState, a Action)
}

// NewSession returns a session with no game in progress.
func NewSession(eng *Engine) *Session {
	return &Session{eng: eng, subs: make(map[int]chan Notification)}
}

// Engine returns the engine the session dispatches to.
func (s *Session) Engine() *Engine { return s.eng }

// NewGame replaces the current game with a fresh one.
func (s *Session) NewGame(cfg Setup) (*world.GameState, error) {
	s.mu.Lock()
	g, err := s.eng.NewGame(cfg)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	prev := s.state
	s.state = g
	if s.OnCommit != nil {
		s.OnCommit(prev, g, nil)
	}
	s.mu.Unlock()
	s.publish(Notification{Tag: TagSuccess, Action: "new_game", Turn: g.Turn, Status: g.Status(), Summary: "A new government takes office in " + g.Country.Name + "."})
	return g.Clone(), nil
}

// MinisterCandidates draws cabinet candidates for the current game.
func (s *Session) MinisterCandidates() ([]world.Minister, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return nil, ErrGameOver
	}
	return s.eng.MinisterCandidates(s.state), nil
}

// State returns a copy of the current game, or nil.
func (s *Session) State() *world.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// GameID returns the current game's ID, or "" when none is running.
func (s *Session) GameID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return ""
	}
	return s.state.ID
}

// Reset discards the current game.
func (s *Session) Reset() {
	s.mu.Lock()
	s.state = nil
	s.mu.Unlock()
}

// Dispatch applies a to the current game. The returned state is a copy.
func (s *Session) Dispatch(a Action) (*world.GameState, error) {
	if a == nil {
		return nil, fmt.Errorf("%w: nil action", ErrUnknownAction)
	}
	s.mu.Lock()
	prev := s.state
	if prev == nil {
		s.mu.Unlock()
		return nil, ErrGameOver
	}
	next, err := s.eng.Apply(prev, a)
	switch {
	case errors.Is(err, ErrGameOver):
		s.state = nil
		if s.OnCommit != nil {
			s.OnCommit(prev, nil, a)
		}
	case err == nil:
		s.state = next
		if s.OnCommit != nil {
			s.OnCommit(prev, next, a)
		}
	}
	s.mu.Unlock()

	s.publish(notificationFor(prev, next, a, err))
	return next.Clone(), err
}

// notificationFor picks the tag and summary for one dispatch.
func notificationFor(prev, next *world.GameState, a Action, err error) Notification {
	n := Notification{Action: a.Kind(), Turn: prev.Turn, Status: prev.Status()}
	if err != nil {
		n.Tag = TagFailure
		n.Error = err.Error()
		n.Summary = "The action could not be carried out."
		if errors.Is(err, ErrGameOver) {
			n.Summary = "The government has fallen. The game is over."
		}
		return n
	}
	n.Turn, n.Status = next.Turn, next.Status()
	_, isTurn := a.(AdvanceTurn)
	_, isClick := a.(SetBudgetTier)
	if len(next.Logs) > len(prev.Logs) {
		n.Summary = next.Logs[len(next.Logs)-1]
	}
	switch {
	case next.ActiveEvent != nil && prev.ActiveEvent == nil,
		next.Status() != prev.Status():
		n.Tag = TagEvent
	case isTurn:
		n.Tag = TagNextTurn
	case isClick:
		n.Tag = TagClick
	case prev.Status() != world.StatusPlaying:
		n.Tag = TagAction
	default:
		n.Tag = TagSuccess
	}
	return n
}

// Subscribe registers a listener. Notifications are dropped when its
// buffer is full. The returned func unsubscribes and closes the channel.
func (s *Session) Subscribe(buffer int) (<-chan Notification, func()) {
	ch := make(chan Notification, max(buffer, 1))
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
			close(ch)
		})
	}
}

func (s *Session) publish(n Notification) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for id, ch := range s.subs {
		select {
		case ch <- n:
		default:
			slog.Debug("notification dropped", "subscriber", id, "tag", n.Tag)
		}
	}
}

// String describes the session for logs.
func (s *Session) String() string {
	st := s.State()
	if st == nil {
		return "session(idle)"
	}
	return fmt.Sprintf("session(%s turn %d %s)", st.ID, st.Turn, st.Status())
}
