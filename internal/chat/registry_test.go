package chat

import (
	"testing"
	"time"

	"github.com/rina-librarian-go/internal/config"
	"github.com/rina-librarian-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T, timeout time.Duration) *Registry {
	t.Helper()

	cfg := &config.Config{}
	cfg.Session.Timeout = timeout
	return NewRegistry(cfg, testLogger())
}

func TestRegistryCreateAndGet(t *testing.T) {
	r := newTestRegistry(t, time.Minute)

	sess := NewSessionContext(1, 10)
	token, err := r.Create(sess)
	require.NoError(t, err)
	assert.Len(t, token, 64)

	got, found := r.Get(token)
	require.True(t, found)
	assert.Same(t, sess, got)
	assert.Equal(t, 1, r.Count())

	_, found = r.Get("no-such-token")
	assert.False(t, found)
}

func TestRegistryTokensAreUnique(t *testing.T) {
	r := newTestRegistry(t, time.Minute)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := r.Create(NewSessionContext(1, 1))
		require.NoError(t, err)
		assert.False(t, seen[token])
		seen[token] = true
	}
}

func TestRegistryExpiry(t *testing.T) {
	r := newTestRegistry(t, 50*time.Millisecond)

	token, err := r.Create(NewSessionContext(1, 10))
	require.NoError(t, err)

	_, found := r.Get(token)
	assert.True(t, found)

	time.Sleep(80 * time.Millisecond)

	_, found = r.Get(token)
	assert.False(t, found, "idle session must expire for good")
}

func TestRegistryActivitySlidesExpiry(t *testing.T) {
	r := newTestRegistry(t, 60*time.Millisecond)

	token, err := r.Create(NewSessionContext(1, 10))
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		time.Sleep(30 * time.Millisecond)
		_, found := r.Get(token)
		require.True(t, found)
	}
}

func TestRegistryDelete(t *testing.T) {
	r := newTestRegistry(t, time.Minute)

	token, err := r.Create(NewSessionContext(1, 10))
	require.NoError(t, err)

	r.Delete(token)
	_, found := r.Get(token)
	assert.False(t, found)
	assert.Equal(t, 0, r.Count())
}

func TestSessionContextReplaceTranscript(t *testing.T) {
	sess := NewSessionContext(1, 10)
	sess.Stage("intrebare", "raspuns")

	turns := []models.Turn{
		{Role: models.RoleUser, Content: "salut"},
		{Role: models.RoleAssistant, Content: "buna"},
	}
	sess.ReplaceTranscript(turns)

	assert.Equal(t, turns, sess.Transcript())
	_, ok := sess.Pending()
	assert.False(t, ok, "switching sessions drops the staged answer")

	assert.True(t, sess.IsDuplicate("salut"))
	assert.False(t, sess.IsDuplicate("alta intrebare"))
}
