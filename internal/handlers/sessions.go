package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rina-librarian-go/internal/chat"
	"github.com/rina-librarian-go/internal/models"
	"github.com/rina-librarian-go/internal/services/storage"
	"github.com/sirupsen/logrus"
)

// SessionsHandler manages the stored conversation list.
type SessionsHandler struct {
	store  storage.Store
	logger *logrus.Logger
}

func NewSessionsHandler(store storage.Store, logger *logrus.Logger) *SessionsHandler {
	return &SessionsHandler{store: store, logger: logger}
}

// List returns the user's sessions, newest first.
func (h *SessionsHandler) List(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	sessions, err := h.store.Sessions(r.Context(), sess.UserID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list sessions")
		writeError(w, http.StatusInternalServerError, "internal error", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions}, h.logger)
}

type newSessionRequest struct {
	Title string `json:"title"`
}

// Create starts a fresh conversation and switches the live context to it.
func (h *SessionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	var req newSessionRequest
	if err := decodeJSON(r, &req); err != nil && r.ContentLength > 0 {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	sessionID, err := h.store.CreateSession(r.Context(), sess.UserID, req.Title)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create session")
		writeError(w, http.StatusInternalServerError, "internal error", h.logger)
		return
	}

	sess.SessionID = sessionID
	sess.ReplaceTranscript(nil)

	h.logger.WithFields(logrus.Fields{
		"user_id":    sess.UserID,
		"session_id": sessionID,
	}).Info("Session created")

	writeJSON(w, http.StatusCreated, map[string]interface{}{"session_id": sessionID}, h.logger)
}

// Open switches the live context to another stored session and replays its
// transcript.
func (h *SessionsHandler) Open(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	sessionID, ok := h.ownedSessionID(w, r, sess)
	if !ok {
		return
	}

	msgs, err := h.store.MessagesFor(r.Context(), sessionID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load messages")
		writeError(w, http.StatusInternalServerError, "internal error", h.logger)
		return
	}

	turns := make([]models.Turn, 0, len(msgs)*2)
	for _, m := range msgs {
		turns = append(turns,
			models.Turn{Role: models.RoleUser, Content: m.Question},
			models.Turn{Role: models.RoleAssistant, Content: m.Answer},
		)
	}

	sess.SessionID = sessionID
	sess.ReplaceTranscript(turns)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"transcript": turns,
	}, h.logger)
}

type renameSessionRequest struct {
	Title string `json:"title"`
}

// Rename changes a stored session's title.
func (h *SessionsHandler) Rename(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	sessionID, ok := h.ownedSessionID(w, r, sess)
	if !ok {
		return
	}

	var req renameSessionRequest
	if err := decodeJSON(r, &req); err != nil || req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required", h.logger)
		return
	}

	if err := h.store.RenameSession(r.Context(), sessionID, req.Title); err != nil {
		h.logger.WithError(err).Error("Failed to rename session")
		writeError(w, http.StatusInternalServerError, "internal error", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"session_id": sessionID, "title": req.Title}, h.logger)
}

// Delete removes a stored session and its messages. Deleting the active
// session leaves the live context on an empty transcript.
func (h *SessionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	sessionID, ok := h.ownedSessionID(w, r, sess)
	if !ok {
		return
	}

	if err := h.store.DeleteSession(r.Context(), sessionID); err != nil {
		h.logger.WithError(err).Error("Failed to delete session")
		writeError(w, http.StatusInternalServerError, "internal error", h.logger)
		return
	}

	if sess.SessionID == sessionID {
		sess.SessionID = 0
		sess.ReplaceTranscript(nil)
	}

	w.WriteHeader(http.StatusNoContent)
}

// ownedSessionID parses {id} and verifies it belongs to the caller.
func (h *SessionsHandler) ownedSessionID(w http.ResponseWriter, r *http.Request, sess *chat.SessionContext) (int64, bool) {
	sessionID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id", h.logger)
		return 0, false
	}

	owned, err := h.owns(r.Context(), sess.UserID, sessionID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to check session ownership")
		writeError(w, http.StatusInternalServerError, "internal error", h.logger)
		return 0, false
	}
	if !owned {
		writeError(w, http.StatusNotFound, "session not found", h.logger)
		return 0, false
	}

	return sessionID, true
}

func (h *SessionsHandler) owns(ctx context.Context, userID, sessionID int64) (bool, error) {
	sessions, err := h.store.Sessions(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, s := range sessions {
		if s.ID == sessionID {
			return true, nil
		}
	}
	return false, nil
}
