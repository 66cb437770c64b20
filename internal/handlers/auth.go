package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/rina-librarian-go/internal/chat"
	"github.com/rina-librarian-go/internal/i18n"
	"github.com/rina-librarian-go/internal/models"
	"github.com/rina-librarian-go/internal/services/storage"
	"github.com/sirupsen/logrus"
)

type contextKey string

const sessionContextKey contextKey = "session"

// AuthHandler handles registration, login and bearer-token resolution.
type AuthHandler struct {
	store     storage.Store
	registry  *chat.Registry
	localizer *i18n.Localizer
	logger    *logrus.Logger
}

func NewAuthHandler(store storage.Store, registry *chat.Registry, localizer *i18n.Localizer, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		store:     store,
		registry:  registry,
		localizer: localizer,
		logger:    logger,
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates a new user account.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil || req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required", h.logger)
		return
	}

	userID, err := h.store.CreateUser(r.Context(), req.Username, req.Password)
	if err == storage.ErrUserExists {
		writeError(w, http.StatusConflict, "username already taken", h.logger)
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to create user")
		writeError(w, http.StatusInternalServerError, "internal error", h.logger)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"user_id":  userID,
		"username": req.Username,
	}).Info("User registered")

	writeJSON(w, http.StatusCreated, map[string]interface{}{"user_id": userID}, h.logger)
}

// Login validates credentials, resumes the latest stored session (creating
// one on first login) and replays its transcript into a fresh session
// context. The returned token authenticates all subsequent calls.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil || req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required", h.logger)
		return
	}

	userID, err := h.store.ValidateUser(r.Context(), req.Username, req.Password)
	if err == storage.ErrNotFound {
		writeError(w, http.StatusUnauthorized,
			h.localizer.Get(h.localizer.DefaultLanguage(), i18n.MsgInvalidCredentials, nil), h.logger)
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to validate user")
		writeError(w, http.StatusInternalServerError, "internal error", h.logger)
		return
	}

	sessionID, err := h.store.LatestSession(r.Context(), userID)
	if err == storage.ErrNotFound {
		sessionID, err = h.store.CreateSession(r.Context(), userID, "")
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to resume session")
		writeError(w, http.StatusInternalServerError, "internal error", h.logger)
		return
	}

	sess := chat.NewSessionContext(userID, sessionID)
	turns, err := h.replay(r.Context(), sessionID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to replay history")
		writeError(w, http.StatusInternalServerError, "internal error", h.logger)
		return
	}
	sess.ReplaceTranscript(turns)

	token, err := h.registry.Create(sess)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create session context")
		writeError(w, http.StatusInternalServerError, "internal error", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token":      token,
		"user_id":    userID,
		"session_id": sessionID,
		"transcript": turns,
	}, h.logger)
}

// replay renders stored messages as alternating user/assistant turns.
func (h *AuthHandler) replay(ctx context.Context, sessionID int64) ([]models.Turn, error) {
	msgs, err := h.store.MessagesFor(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	turns := make([]models.Turn, 0, len(msgs)*2)
	for _, m := range msgs {
		turns = append(turns,
			models.Turn{Role: models.RoleUser, Content: m.Question},
			models.Turn{Role: models.RoleAssistant, Content: m.Answer},
		)
	}
	return turns, nil
}

// Middleware resolves the bearer token to a live session context. Expired
// or unknown tokens get a localized session-expired reply and must log in
// again.
func (h *AuthHandler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized,
				h.localizer.Get(h.localizer.DefaultLanguage(), i18n.MsgSessionExpired, nil), h.logger)
			return
		}

		sess, found := h.registry.Get(token)
		if !found {
			writeError(w, http.StatusUnauthorized,
				h.localizer.Get(h.localizer.DefaultLanguage(), i18n.MsgSessionExpired, nil), h.logger)
			return
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionFrom extracts the session context placed by Middleware.
func sessionFrom(r *http.Request) *chat.SessionContext {
	sess, _ := r.Context().Value(sessionContextKey).(*chat.SessionContext)
	return sess
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
