package chat

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rina-librarian-go/internal/config"
	"github.com/sirupsen/logrus"
)

// Registry maps bearer tokens to live session contexts. A context expires
// after the configured idle timeout; activity through Get keeps it alive.
// Expired contexts are gone for good, the user has to log in again.
type Registry struct {
	contexts *cache.Cache
	timeout  time.Duration
	logger   *logrus.Logger
}

func NewRegistry(cfg *config.Config, logger *logrus.Logger) *Registry {
	timeout := cfg.Session.Timeout
	if timeout <= 0 {
		timeout = 180 * time.Second
	}

	return &Registry{
		contexts: cache.New(timeout, timeout),
		timeout:  timeout,
		logger:   logger,
	}
}

// Create registers a new session context and returns its bearer token.
func (r *Registry) Create(sess *SessionContext) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}

	r.contexts.SetDefault(token, sess)
	r.logger.WithFields(logrus.Fields{
		"user_id":    sess.UserID,
		"session_id": sess.SessionID,
	}).Info("Session context created")

	return token, nil
}

// Get resolves a token and, on success, slides the expiry window.
func (r *Registry) Get(token string) (*SessionContext, bool) {
	val, found := r.contexts.Get(token)
	if !found {
		return nil, false
	}

	sess := val.(*SessionContext)
	sess.Touch()
	r.contexts.SetDefault(token, sess)
	return sess, true
}

// Delete drops a session context immediately.
func (r *Registry) Delete(token string) {
	r.contexts.Delete(token)
}

// Count returns the number of live session contexts.
func (r *Registry) Count() int {
	return r.contexts.ItemCount()
}

// Timeout returns the configured idle timeout.
func (r *Registry) Timeout() time.Duration {
	return r.timeout
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
