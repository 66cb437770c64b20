package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rina-librarian-go/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// MemoryStore keeps all records in process memory. Useful for development
// and tests; everything is lost on restart.
type MemoryStore struct {
	mu            sync.RWMutex
	logger        *logrus.Logger
	nextUserID    int64
	nextSessionID int64
	usersByName   map[string]int64
	users         map[int64]models.User
	sessions      map[int64]models.Session
	messages      map[int64][]models.Message
}

func NewMemoryStore(logger *logrus.Logger) *MemoryStore {
	return &MemoryStore{
		logger:      logger,
		usersByName: make(map[string]int64),
		users:       make(map[int64]models.User),
		sessions:    make(map[int64]models.Session),
		messages:    make(map[int64][]models.Message),
	}
}

func (m *MemoryStore) CreateUser(ctx context.Context, username, password string) (int64, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.usersByName[username]; exists {
		return 0, ErrUserExists
	}

	m.nextUserID++
	id := m.nextUserID
	m.usersByName[username] = id
	m.users[id] = models.User{ID: id, Username: username, Password: string(hash)}

	return id, nil
}

func (m *MemoryStore) ValidateUser(ctx context.Context, username, password string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.usersByName[username]
	if !ok {
		return 0, ErrNotFound
	}

	user := m.users[id]
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return 0, ErrNotFound
	}

	return id, nil
}

func (m *MemoryStore) CreateSession(ctx context.Context, userID int64, title string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextSessionID++
	id := m.nextSessionID

	now := time.Now()
	if title == "" {
		title = fmt.Sprintf("Chat %d", now.Unix())
	}

	m.sessions[id] = models.Session{ID: id, UserID: userID, Title: title, CreatedAt: now}
	return id, nil
}

func (m *MemoryStore) LatestSession(ctx context.Context, userID int64) (int64, error) {
	sessions, err := m.Sessions(ctx, userID)
	if err != nil {
		return 0, err
	}
	if len(sessions) == 0 {
		return 0, ErrNotFound
	}
	return sessions[0].ID, nil
}

func (m *MemoryStore) Sessions(ctx context.Context, userID int64) ([]models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var sessions []models.Session
	for _, s := range m.sessions {
		if s.UserID == userID {
			sessions = append(sessions, s)
		}
	}

	// Newest first, matching the redis backend ordering
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].CreatedAt.Equal(sessions[j].CreatedAt) {
			return sessions[i].ID > sessions[j].ID
		}
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})

	return sessions, nil
}

func (m *MemoryStore) RenameSession(ctx context.Context, sessionID int64, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[sessionID]
	if !ok {
		return ErrNotFound
	}

	session.Title = title
	m.sessions[sessionID] = session
	return nil
}

func (m *MemoryStore) DeleteSession(ctx context.Context, sessionID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, sessionID)
	delete(m.messages, sessionID)
	return nil
}

func (m *MemoryStore) AppendMessage(ctx context.Context, msg *models.Message) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.messages[msg.SessionID] = append(m.messages[msg.SessionID], *msg)
	return nil
}

func (m *MemoryStore) MessagesFor(ctx context.Context, sessionID int64) ([]models.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	msgs := m.messages[sessionID]
	out := make([]models.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}
