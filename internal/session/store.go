// Package session holds per-conversation question/answer history in memory.
package session

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/google/uuid"
)

// DefaultMaxSessions bounds the number of live sessions.
const DefaultMaxSessions = 1024

// DefaultMaxTurns bounds the history kept per session.
const DefaultMaxTurns = 50

// Turn is one completed question/answer exchange.
type Turn struct {
	Question string
	Answer   string
}

// Session is a conversation's identity and accumulated history.
// Appends are serialized per session; distinct sessions are independent.
type Session struct {
	id       string
	maxTurns int

	mu    sync.Mutex
	turns []Turn
}

// ID returns the session's chat id.
func (s *Session) ID() string {
	return s.id
}

// Turns returns a copy of the history, oldest first.
func (s *Session) Turns() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Append records a completed turn. When the per-session cap is reached the
// oldest turn is dropped.
func (s *Session) Append(question, answer string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, Turn{Question: question, Answer: answer})
	if len(s.turns) > s.maxTurns {
		s.turns = s.turns[len(s.turns)-s.maxTurns:]
	}
}

// Store maps chat ids to sessions, evicting least-recently-used sessions once
// the cap is reached. Lifetime is the process lifetime; nothing is persisted.
type Store struct {
	sessions *lru.Cache[string, *Session]
	maxTurns int
}

// NewStore creates a session store. Non-positive caps fall back to defaults.
func NewStore(maxSessions, maxTurns int) (*Store, error) {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	cache, err := lru.New[string, *Session](maxSessions)
	if err != nil {
		return nil, err
	}
	return &Store{
		sessions: cache,
		maxTurns: maxTurns,
	}, nil
}

// Get returns the session for a chat id, marking it recently used.
func (s *Store) Get(chatID string) (*Session, bool) {
	if chatID == "" {
		return nil, false
	}
	return s.sessions.Get(chatID)
}

// Create mints a fresh chat id and registers an empty session for it.
func (s *Store) Create() *Session {
	sess := &Session{
		id:       uuid.New().String(),
		maxTurns: s.maxTurns,
	}
	s.sessions.Add(sess.id, sess)
	return sess
}

// Resolve returns the session for a chat id, or a fresh session when the id
// is absent or unknown.
func (s *Store) Resolve(chatID string) *Session {
	if sess, ok := s.Get(chatID); ok {
		return sess
	}
	return s.Create()
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	return s.sessions.Len()
}
