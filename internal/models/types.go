package models

import (
	"time"
)

// Language identifies one of the two configured languages for profanity
// detection and canned replies.
type Language string

const (
	LangRO Language = "ro"
	LangEN Language = "en"
)

// Book is a single catalog entry, loaded once at startup and never mutated.
type Book struct {
	Title   string   `json:"title"`
	Themes  []string `json:"themes"`
	Summary string   `json:"summary"`
}

// ProfanityVerdict is the result of classifying a user message.
// Lang is only meaningful when Profane is true.
type ProfanityVerdict struct {
	Profane bool
	Lang    Language
}

// RetrievalHit is a ranked result from the semantic search path.
type RetrievalHit struct {
	Title     string
	Score     float64
	SourceDoc string
}

// PendingMessage is a generated answer awaiting user confirmation. It lives
// only in the session context and is never written to storage until committed.
type PendingMessage struct {
	Question string
	Answer   string
}

// Session is a persisted conversation owned by a user.
type Session struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// Message is one committed question/answer exchange. Append-only: once
// written it is never mutated.
type Message struct {
	SessionID int64     `json:"session_id"`
	UserID    int64     `json:"user_id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

// User is a registered account. Password holds the bcrypt hash, never the
// plain text.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Turn is one visible line of a session transcript.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Transcript roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// CacheEntry is a cached generated answer.
type CacheEntry struct {
	Question  string
	Answer    string
	Model     string
	CreatedAt time.Time
}
