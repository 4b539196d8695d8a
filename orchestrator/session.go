package orchestrator

import (
	"sync"
	"time"

	"github.com/vaani-ai/vaani/core"
	"github.com/vaani-ai/vaani/language"
	"github.com/vaani-ai/vaani/lead"
)

// State tracks a session through its lifecycle.
type State string

const (
	StateCreated State = "created"
	StateActive  State = "active"
	StateEnded   State = "ended"
)

// Session holds the per-call conversation state. All fields behind mu; a
// session is touched by one telephony stream plus the eviction janitor.
type Session struct {
	ID         string
	CampaignID string
	Phone      string

	// turnMu serializes whole turns so concurrent input events for the
	// same call cannot interleave their history appends.
	turnMu sync.Mutex

	mu         sync.Mutex
	state      State
	lang       language.Language
	history    []core.Message
	transcript []string
	signals    []lead.Signal
	startedAt  time.Time
	lastActive time.Time
}

func newSession(id, campaignID, phone string) *Session {
	now := time.Now()
	return &Session{
		ID:         id,
		CampaignID: campaignID,
		Phone:      phone,
		state:      StateCreated,
		lang:       language.Unknown,
		startedAt:  now,
		lastActive: now,
	}
}

// Language returns the session's current conversation language.
func (s *Session) Language() language.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lang
}

// State returns the session's lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Turns returns how many exchanges the session has recorded.
func (s *Session) Turns() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.transcript) / 2
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastActive = time.Now()
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// recordTurn appends one user/assistant exchange and accumulates the
// user's buying signals.
func (s *Session) recordTurn(userText, reply string, lang language.Language, signals []lead.Signal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateActive
	s.lang = lang
	s.history = append(s.history, core.UserMessage(userText), core.AssistantMessage(reply))
	s.transcript = append(s.transcript, "User: "+userText, "Agent: "+reply)
	s.signals = append(s.signals, signals...)
	s.lastActive = time.Now()
}

// snapshot copies the mutable conversation state for use outside the lock.
func (s *Session) snapshot() (history []core.Message, transcript []string, signals []lead.Signal, lang language.Language) {
	s.mu.Lock()
	defer s.mu.Unlock()
	history = append([]core.Message(nil), s.history...)
	transcript = append([]string(nil), s.transcript...)
	signals = append([]lead.Signal(nil), s.signals...)
	return history, transcript, signals, s.lang
}

func (s *Session) end() {
	s.mu.Lock()
	s.state = StateEnded
	s.mu.Unlock()
}
