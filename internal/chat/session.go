package chat

import (
	"strings"
	"sync"
	"time"

	"github.com/rina-librarian-go/internal/models"
)

// SessionContext is the live conversational state of one authenticated
// session: the visible transcript, at most one answer awaiting the user's
// verdict, and the activity clock. Safe for concurrent use.
//
// The transcript only ever grows by committed exchanges; a staged answer
// that is discarded leaves no trace in it.
type SessionContext struct {
	mu         sync.Mutex
	UserID     int64
	SessionID  int64
	transcript []models.Turn
	pending    *models.PendingMessage
	lastActive time.Time
}

func NewSessionContext(userID, sessionID int64) *SessionContext {
	return &SessionContext{
		UserID:     userID,
		SessionID:  sessionID,
		lastActive: time.Now(),
	}
}

// Stage replaces any previously staged answer. Last write wins.
func (s *SessionContext) Stage(question, answer string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = &models.PendingMessage{Question: question, Answer: answer}
}

// Pending returns a copy of the staged answer, if any.
func (s *SessionContext) Pending() (models.PendingMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return models.PendingMessage{}, false
	}
	return *s.pending, true
}

// TakePending removes and returns the staged answer.
func (s *SessionContext) TakePending() (models.PendingMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return models.PendingMessage{}, false
	}
	p := *s.pending
	s.pending = nil
	return p, true
}

// Discard drops the staged answer. Safe to call with nothing staged.
func (s *SessionContext) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
}

// IsDuplicate reports whether question repeats the most recent committed
// user turn verbatim.
func (s *SessionContext) IsDuplicate(question string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.transcript) - 1; i >= 0; i-- {
		if s.transcript[i].Role == models.RoleUser {
			return s.transcript[i].Content == strings.TrimSpace(question)
		}
	}
	return false
}

// AppendExchange records a committed question/answer pair in the transcript.
func (s *SessionContext) AppendExchange(question, answer string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = append(s.transcript,
		models.Turn{Role: models.RoleUser, Content: question},
		models.Turn{Role: models.RoleAssistant, Content: answer},
	)
}

// Transcript returns a copy of the committed turns.
func (s *SessionContext) Transcript() []models.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Turn, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// ReplaceTranscript swaps in a replayed transcript, dropping anything staged.
// Used when switching to another stored session.
func (s *SessionContext) ReplaceTranscript(turns []models.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = append([]models.Turn(nil), turns...)
	s.pending = nil
}

// Touch resets the activity clock.
func (s *SessionContext) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = time.Now()
}

// LastActive returns the time of the last recorded activity.
func (s *SessionContext) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}
