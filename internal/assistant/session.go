package assistant

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/careerplus/careerplus-api/internal/llm"
)

// Mode is the wizard a session is in.
type Mode string

// Session modes.
const (
	ModeNone               Mode = "none"
	ModePostGig            Mode = "post_gig"
	ModeRegisterFreelancer Mode = "register_freelancer"
)

// Session is the per-chat conversation state of the Telegram assistant.
type Session struct {
	ChatID    int64             `json:"chat_id"`
	History   []llm.Message     `json:"history"`
	Mode      Mode              `json:"mode"`
	Step      int               `json:"step"`
	Answers   map[string]string `json:"answers,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// NewSession returns an idle session with no history.
func NewSession(chatID int64) *Session {
	return &Session{ChatID: chatID, Mode: ModeNone, History: []llm.Message{}}
}

// InWizard reports whether the session is collecting wizard answers.
func (s *Session) InWizard() bool {
	return s.Mode == ModePostGig || s.Mode == ModeRegisterFreelancer
}

// Start enters mode at its first step with no answers.
func (s *Session) Start(mode Mode) {
	s.Mode = mode
	s.Step = 0
	s.Answers = map[string]string{}
}

// Reset returns the session to idle and discards wizard answers. History is kept.
func (s *Session) Reset() {
	s.Mode = ModeNone
	s.Step = 0
	s.Answers = nil
}

// Remember appends a turn and keeps only the last limit turns.
func (s *Session) Remember(role llm.Role, content string, limit int) {
	s.History = append(s.History, llm.Message{Role: role, Content: content})
	if limit > 0 && len(s.History) > limit {
		s.History = slices.Clone(llm.Tail(s.History, limit))
	}
}

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	cp := *s
	cp.History = slices.Clone(s.History)
	cp.Answers = maps.Clone(s.Answers)
	return &cp
}

// SessionStore persists sessions keyed by chat id. Implementations expire
// sessions that have not been saved within their TTL.
type SessionStore interface {
	// Get returns the chat's session, or a new idle session when none is
	// stored or the stored one has expired.
	Get(ctx context.Context, chatID int64) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, chatID int64) error
}

// MemoryStore is a process-local SessionStore.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[int64]*Session
	ttl      time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

var _ SessionStore = (*MemoryStore)(nil)

// NewMemoryStore creates a MemoryStore whose sessions expire ttl after
// their last save.
func NewMemoryStore(ttl time.Duration, logger *slog.Logger) *MemoryStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoryStore{
		sessions: make(map[int64]*Session),
		ttl:      ttl,
		now:      time.Now,
		logger:   logger.With(slog.String("component", "session_store")),
	}
}

func (m *MemoryStore) expired(s *Session) bool {
	return m.ttl > 0 && m.now().Sub(s.UpdatedAt) >= m.ttl
}

// Get implements SessionStore.
func (m *MemoryStore) Get(_ context.Context, chatID int64) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[chatID]
	if !ok {
		return NewSession(chatID), nil
	}
	if m.expired(s) {
		delete(m.sessions, chatID)
		return NewSession(chatID), nil
	}
	return s.Clone(), nil
}

// Save implements SessionStore. It stamps UpdatedAt.
func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s.UpdatedAt = m.now()
	m.sessions[s.ChatID] = s.Clone()
	return nil
}

// Delete implements SessionStore.
func (m *MemoryStore) Delete(_ context.Context, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, chatID)
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep drops expired sessions and returns how many were removed.
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if m.expired(s) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (m *MemoryStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.logger.Debug("expired sessions swept", slog.Int("count", n))
			}
		}
	}
}
