package i18n

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/rina-librarian-go/internal/config"
	"golang.org/x/text/language"
)

// Localizer manages internationalization
type Localizer struct {
	bundle          *i18n.Bundle
	defaultLanguage string
	localizers      map[string]*i18n.Localizer
}

// NewLocalizer creates a new localizer
func NewLocalizer(cfg *config.I18nConfig) (*Localizer, error) {
	bundle := i18n.NewBundle(language.Romanian)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	// Load language files
	for _, lang := range cfg.Languages {
		if _, err := bundle.LoadMessageFile(filepath.Join(cfg.Dir, fmt.Sprintf("%s.json", lang))); err != nil {
			return nil, fmt.Errorf("failed to load language file %s: %w", lang, err)
		}
	}

	localizers := make(map[string]*i18n.Localizer)
	for _, lang := range cfg.Languages {
		localizers[lang] = i18n.NewLocalizer(bundle, lang)
	}

	return &Localizer{
		bundle:          bundle,
		defaultLanguage: cfg.DefaultLanguage,
		localizers:      localizers,
	}, nil
}

// Get returns localized message
func (l *Localizer) Get(lang, messageID string, data map[string]interface{}) string {
	localizer, exists := l.localizers[lang]
	if !exists {
		localizer = l.localizers[l.defaultLanguage]
	}

	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil {
		return messageID // Fallback to message ID
	}

	return msg
}

// DefaultLanguage returns the configured fallback language.
func (l *Localizer) DefaultLanguage() string {
	return l.defaultLanguage
}

// Message IDs
const (
	MsgModerationReply    = "moderation_reply"
	MsgEmptyQuestion      = "empty_question"
	MsgUpstreamError      = "upstream_error"
	MsgRateLimitExceeded  = "rate_limit_exceeded"
	MsgSessionExpired     = "session_expired"
	MsgInvalidCredentials = "invalid_credentials"
	MsgNoResponse         = "no_response"
)
