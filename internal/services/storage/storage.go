package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/rina-librarian-go/internal/config"
	"github.com/rina-librarian-go/internal/models"
	"github.com/sirupsen/logrus"
)

// Sentinel errors shared by all backends.
var (
	ErrNotFound   = errors.New("record not found")
	ErrUserExists = errors.New("username already taken")
)

// Store is the persistent record store for users, sessions and messages.
// Each call is an independent transaction; messages are append-only and a
// session cascade-deletes its messages.
type Store interface {
	// User operations
	CreateUser(ctx context.Context, username, password string) (int64, error)
	ValidateUser(ctx context.Context, username, password string) (int64, error)

	// Session operations
	CreateSession(ctx context.Context, userID int64, title string) (int64, error)
	LatestSession(ctx context.Context, userID int64) (int64, error)
	Sessions(ctx context.Context, userID int64) ([]models.Session, error)
	RenameSession(ctx context.Context, sessionID int64, title string) error
	DeleteSession(ctx context.Context, sessionID int64) error

	// Message operations
	AppendMessage(ctx context.Context, msg *models.Message) error
	MessagesFor(ctx context.Context, sessionID int64) ([]models.Message, error)
}

// Manager manages different storage backends
type Manager struct {
	store       Store
	logger      *logrus.Logger
	redisClient *redis.Client
}

// NewManager creates a new storage manager
func NewManager(cfg *config.Config, logger *logrus.Logger) (*Manager, error) {
	manager := &Manager{logger: logger}

	switch cfg.Storage.Type {
	case "redis":
		redisStore, err := NewRedisStore(cfg, logger)
		if err != nil {
			return nil, err
		}
		manager.store = redisStore
		manager.redisClient = redisStore.client
	case "memory":
		manager.store = NewMemoryStore(logger)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Storage.Type)
	}

	return manager, nil
}

// Delegate methods to underlying store
func (m *Manager) CreateUser(ctx context.Context, username, password string) (int64, error) {
	return m.store.CreateUser(ctx, username, password)
}

func (m *Manager) ValidateUser(ctx context.Context, username, password string) (int64, error) {
	return m.store.ValidateUser(ctx, username, password)
}

func (m *Manager) CreateSession(ctx context.Context, userID int64, title string) (int64, error) {
	return m.store.CreateSession(ctx, userID, title)
}

func (m *Manager) LatestSession(ctx context.Context, userID int64) (int64, error) {
	return m.store.LatestSession(ctx, userID)
}

func (m *Manager) Sessions(ctx context.Context, userID int64) ([]models.Session, error) {
	return m.store.Sessions(ctx, userID)
}

func (m *Manager) RenameSession(ctx context.Context, sessionID int64, title string) error {
	return m.store.RenameSession(ctx, sessionID, title)
}

func (m *Manager) DeleteSession(ctx context.Context, sessionID int64) error {
	return m.store.DeleteSession(ctx, sessionID)
}

func (m *Manager) AppendMessage(ctx context.Context, msg *models.Message) error {
	return m.store.AppendMessage(ctx, msg)
}

func (m *Manager) MessagesFor(ctx context.Context, sessionID int64) ([]models.Message, error) {
	return m.store.MessagesFor(ctx, sessionID)
}

// GetRedisClient returns the Redis client if available
func (m *Manager) GetRedisClient() *redis.Client {
	return m.redisClient
}
