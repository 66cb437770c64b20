package moderation

import (
	"github.com/rina-librarian-go/internal/i18n"
	"github.com/sirupsen/logrus"
)

// Gate modes.
const (
	ModeBlock  = "block"
	ModeCensor = "censor"
)

// Gate is the single moderation decision point in front of the pipeline.
// It is fully synchronous and makes no external calls.
type Gate struct {
	classifier *Classifier
	mode       string
	localizer  *i18n.Localizer
	logger     *logrus.Logger
}

// NewGate creates a moderation gate with the given mode ("block" or
// "censor").
func NewGate(classifier *Classifier, mode string, localizer *i18n.Localizer, logger *logrus.Logger) *Gate {
	return &Gate{
		classifier: classifier,
		mode:       mode,
		localizer:  localizer,
		logger:     logger,
	}
}

// Check runs the classifier over text and applies the configured mode.
//   - block: profane input returns (false, polite localized reply) and must
//     not continue downstream.
//   - censor: profane input returns (true, masked text) and continues.
//
// Clean input always returns (true, text) unchanged.
func (g *Gate) Check(text string) (bool, string) {
	verdict := g.classifier.Classify(text)
	if !verdict.Profane {
		return true, text
	}

	g.logger.WithFields(logrus.Fields{
		"mode": g.mode,
		"lang": verdict.Lang,
	}).Info("Profanity detected")

	if g.mode == ModeCensor {
		return true, g.classifier.Censorize(text)
	}

	return false, g.localizer.Get(string(verdict.Lang), i18n.MsgModerationReply, nil)
}

// Mode returns the configured gate mode.
func (g *Gate) Mode() string {
	return g.mode
}

// Classifier exposes the underlying classifier for callers that need the
// verdict itself, such as per-language accounting.
func (g *Gate) Classifier() *Classifier {
	return g.classifier
}
