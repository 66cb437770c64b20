package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rina-librarian-go/internal/config"
	"github.com/rina-librarian-go/internal/i18n"
	"github.com/rina-librarian-go/internal/middleware"
	"github.com/rina-librarian-go/internal/models"
	"github.com/rina-librarian-go/internal/moderation"
	"github.com/rina-librarian-go/internal/retrieval"
	"github.com/rina-librarian-go/internal/services/ai"
	"github.com/rina-librarian-go/internal/services/cache"
	"github.com/rina-librarian-go/internal/services/storage"
	"github.com/rina-librarian-go/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Reply is the outcome of one question through the pipeline.
type Reply struct {
	Response  string
	Moderated bool
}

// Confirm decisions.
const (
	DecisionGood = "good"
	DecisionBad  = "bad"
)

// Service runs the chat pipeline: moderation gate, answer cache, language
// detection, retrieval routing, answer composition, staging. One instance
// serves all sessions.
type Service struct {
	cfg       *config.Config
	gate      *moderation.Gate
	router    *retrieval.Router
	composer  *Composer
	ai        ai.Service
	cache     cache.Service
	store     storage.Store
	localizer *i18n.Localizer
	metrics   *middleware.Metrics
	logger    *logrus.Logger
}

func NewService(
	cfg *config.Config,
	gate *moderation.Gate,
	router *retrieval.Router,
	composer *Composer,
	aiService ai.Service,
	answerCache cache.Service,
	store storage.Store,
	localizer *i18n.Localizer,
	metrics *middleware.Metrics,
	logger *logrus.Logger,
) *Service {
	return &Service{
		cfg:       cfg,
		gate:      gate,
		router:    router,
		composer:  composer,
		ai:        aiService,
		cache:     answerCache,
		store:     store,
		localizer: localizer,
		metrics:   metrics,
		logger:    logger,
	}
}

// Ask answers one question for the session. Every produced answer is staged
// on the session context, including moderation replies and upstream error
// strings; nothing is persisted until the user confirms.
func (s *Service) Ask(ctx context.Context, sess *SessionContext, question string) Reply {
	s.metrics.RecordQuestionReceived()

	question = strings.TrimSpace(question)
	if question == "" {
		s.metrics.RecordQuestionProcessed("empty")
		return Reply{Response: s.localizer.Get(s.localizer.DefaultLanguage(), i18n.MsgEmptyQuestion, nil)}
	}

	if sess.IsDuplicate(question) {
		s.logger.WithField("user_id", sess.UserID).Debug("Duplicate question dropped")
		s.metrics.RecordQuestionProcessed("duplicate")
		if p, ok := sess.Pending(); ok {
			return Reply{Response: p.Answer}
		}
		return Reply{}
	}

	passed, gated := s.gate.Check(question)
	if !passed {
		s.metrics.RecordModerationBlock(string(s.classify(question)))
		s.metrics.RecordQuestionProcessed("blocked")
		sess.Stage(question, gated)
		return Reply{Response: gated, Moderated: true}
	}

	// In censor mode gated carries the masked text
	cleaned := gated
	if cleaned != question {
		s.metrics.RecordModerationBlock(string(s.classify(question)))
	}

	if answer, hit := s.cache.Get(ctx, cleaned, s.cfg.Models.ChatModel); hit {
		s.metrics.RecordCacheHit()
		s.metrics.RecordQuestionProcessed("cached")
		sess.Stage(question, answer)
		return Reply{Response: answer}
	}
	s.metrics.RecordCacheMiss()

	lang, translated := s.ai.DetectAndTranslate(ctx, cleaned)

	result := s.router.Route(ctx, translated)
	s.metrics.RecordRetrievalPath(pathLabel(result))

	prompt := s.composer.Compose(result, lang, translated)

	start := time.Now()
	answer, err := s.ai.Generate(ctx, prompt, s.cfg.Models.Temperature)
	if err != nil {
		s.metrics.RecordUpstreamRequest(s.cfg.Models.ChatModel, "error", time.Since(start))
		s.metrics.RecordQuestionProcessed("error")
		s.logger.WithError(err).Error("Generation request failed")

		answer = s.localizer.Get(lang, i18n.MsgUpstreamError, nil)
		sess.Stage(question, answer)
		return Reply{Response: answer}
	}
	s.metrics.RecordUpstreamRequest(s.cfg.Models.ChatModel, "success", time.Since(start))

	if answer == "" {
		answer = s.localizer.Get(lang, i18n.MsgNoResponse, nil)
	}

	sess.Stage(question, answer)
	if err := s.cache.Set(ctx, cleaned, s.cfg.Models.ChatModel, answer); err != nil {
		s.logger.WithError(err).Warn("Failed to cache answer")
	}

	s.metrics.RecordQuestionProcessed("success")
	return Reply{Response: answer}
}

// Confirm settles the staged answer. DecisionGood commits it to the record
// store and the transcript; DecisionBad drops it. Both are no-ops when
// nothing is staged.
func (s *Service) Confirm(ctx context.Context, sess *SessionContext, decision string) error {
	switch decision {
	case DecisionBad:
		sess.Discard()
		return nil
	case DecisionGood:
		p, ok := sess.TakePending()
		if !ok {
			return nil
		}

		if sess.UserID == 0 || sess.SessionID == 0 {
			logger.WithSession(s.logger, sess.UserID, sess.SessionID).
				Warn("Missing user or session on confirm, dropping pending answer")
			return nil
		}

		sess.AppendExchange(p.Question, p.Answer)

		start := time.Now()
		err := s.store.AppendMessage(ctx, &models.Message{
			SessionID: sess.SessionID,
			UserID:    sess.UserID,
			Question:  p.Question,
			Answer:    p.Answer,
		})
		if err != nil {
			s.metrics.RecordStorageOperation("append_message", "error", time.Since(start))
			return fmt.Errorf("failed to persist confirmed answer: %w", err)
		}
		s.metrics.RecordStorageOperation("append_message", "success", time.Since(start))
		return nil
	default:
		return fmt.Errorf("unknown decision: %q", decision)
	}
}

// classify re-runs the classifier for the metrics language label.
func (s *Service) classify(question string) models.Language {
	verdict := s.gate.Classifier().Classify(question)
	return verdict.Lang
}

func pathLabel(result retrieval.Result) string {
	switch {
	case result.Title != "":
		return middleware.PathExact
	case len(result.Hits) > 0:
		return middleware.PathSemantic
	default:
		return middleware.PathNone
	}
}
