package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagediff-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pagediff-cli/internal/core/domain"
)

func seedSession(t *testing.T, store *memory.SessionStore, id string) {
	t.Helper()
	report := testReport()
	report.ID = id
	session := domain.NewSessionFromReport(report, "old.pdf", "new.pdf")
	session.CreatedAt = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(t.Context(), session))
}

func TestSessionListCmd(t *testing.T) {
	defer resetDeps()
	store := memory.NewSessionStore()
	seedSession(t, store, "s-1")
	Initialize(Deps{Sessions: store})

	out, err := execute("session", "list")
	require.NoError(t, err)
	assert.True(t, containsAll(out, "s-1", "old.pdf", "new.pdf", "2026-08-01"), out)
}

func TestSessionListCmd_Empty(t *testing.T) {
	defer resetDeps()
	Initialize(Deps{Sessions: memory.NewSessionStore()})

	out, err := execute("session", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No saved sessions")
}

func TestSessionShowCmd(t *testing.T) {
	defer resetDeps()
	store := memory.NewSessionStore()
	seedSession(t, store, "s-1")
	Initialize(Deps{Sessions: store})

	out, err := execute("session", "show", "s-1")
	require.NoError(t, err)
	assert.True(t, containsAll(out, "s-1", "old.pdf", "new.pdf", "identical", "differs"), out)
}

func TestSessionShowCmd_NotFound(t *testing.T) {
	defer resetDeps()
	Initialize(Deps{Sessions: memory.NewSessionStore()})

	_, err := execute("session", "show", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSessionDeleteCmd(t *testing.T) {
	defer resetDeps()
	store := memory.NewSessionStore()
	seedSession(t, store, "s-1")
	Initialize(Deps{Sessions: store})

	out, err := execute("session", "delete", "s-1")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted")

	_, err = store.Get(t.Context(), "s-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionDeleteCmd_NotFound(t *testing.T) {
	defer resetDeps()
	Initialize(Deps{Sessions: memory.NewSessionStore()})

	_, err := execute("session", "delete", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSessionCmd_NotConfigured(t *testing.T) {
	defer resetDeps()
	Initialize(Deps{})

	_, err := execute("session", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
