package handlers

import (
	"fmt"
	"net/http"

	"github.com/rina-librarian-go/internal/chat"
	"github.com/rina-librarian-go/internal/i18n"
	"github.com/rina-librarian-go/internal/middleware"
	"github.com/rina-librarian-go/pkg/markdown"
	"github.com/sirupsen/logrus"
)

const maxQuestionBytes = 4096

// ChatHandler serves the conversational endpoints.
type ChatHandler struct {
	service     *chat.Service
	rateLimiter middleware.RateLimiter
	metrics     *middleware.Metrics
	localizer   *i18n.Localizer
	logger      *logrus.Logger
}

func NewChatHandler(
	service *chat.Service,
	rateLimiter middleware.RateLimiter,
	metrics *middleware.Metrics,
	localizer *i18n.Localizer,
	logger *logrus.Logger,
) *ChatHandler {
	return &ChatHandler{
		service:     service,
		rateLimiter: rateLimiter,
		metrics:     metrics,
		localizer:   localizer,
		logger:      logger,
	}
}

type chatRequest struct {
	Question string `json:"question"`
}

type chatResponse struct {
	Response     string `json:"response"`
	ResponseHTML string `json:"response_html,omitempty"`
	Moderated    bool   `json:"moderated,omitempty"`
}

// Chat runs one question through the pipeline and returns the staged answer.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	if !h.rateLimiter.Allow(sess.UserID) {
		h.metrics.RecordRateLimitExceeded(fmt.Sprintf("%d", sess.UserID))
		writeError(w, http.StatusTooManyRequests,
			h.localizer.Get(h.localizer.DefaultLanguage(), i18n.MsgRateLimitExceeded, nil), h.logger)
		return
	}

	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}
	if len(req.Question) > maxQuestionBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "question too long", h.logger)
		return
	}

	reply := h.service.Ask(r.Context(), sess, req.Question)

	cleaned := markdown.CleanLaTeX(reply.Response)
	writeJSON(w, http.StatusOK, chatResponse{
		Response:     cleaned,
		ResponseHTML: markdown.RenderReply(cleaned),
		Moderated:    reply.Moderated,
	}, h.logger)
}

type confirmRequest struct {
	Decision string `json:"decision"`
}

// Confirm settles the staged answer with the user's verdict.
func (h *ChatHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	var req confirmRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	if err := h.service.Confirm(r.Context(), sess, req.Decision); err != nil {
		if req.Decision != chat.DecisionGood && req.Decision != chat.DecisionBad {
			writeError(w, http.StatusBadRequest, "decision must be good or bad", h.logger)
			return
		}
		h.logger.WithError(err).Error("Failed to confirm answer")
		writeError(w, http.StatusInternalServerError, "internal error", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"transcript": sess.Transcript()}, h.logger)
}

// History returns the committed transcript of the active session.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	writeJSON(w, http.StatusOK, map[string]interface{}{"transcript": sess.Transcript()}, h.logger)
}

// Ping is the unauthenticated liveness probe.
func (h *ChatHandler) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}
