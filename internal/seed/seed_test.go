package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/skillswap-api/internal/ledger"
	"github.com/rajivgeraev/skillswap-api/internal/models"
)

func TestLoadEmbeddedFixture(t *testing.T) {
	f, err := Load("")
	require.NoError(t, err)

	assert.Len(t, f.Users, 5)
	assert.Len(t, f.Accounts, 2)
	assert.Len(t, f.SwapRequests, 3)
	assert.Len(t, f.Feedback, 2)
	assert.Len(t, f.Messages, 2)

	s := f.Snapshot()
	require.NoError(t, ledger.New().Import(s))

	statuses := map[string]models.SwapStatus{}
	for _, r := range s.SwapRequests {
		statuses[r.ID] = r.Status
	}
	assert.Equal(t, map[string]models.SwapStatus{
		"sr1": models.SwapPending,
		"sr2": models.SwapAccepted,
		"sr3": models.SwapCompleted,
	}, statuses)

	for _, u := range s.Users {
		assert.NotNil(t, u.SkillsOffered, u.ID)
		assert.True(t, u.IsActive, u.ID)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
users:
  - id: u1
    name: Solo
    email: solo@example.com
    is_public: true
    is_banned: true
    skills_offered: [Go]
`), 0o600))

	f, err := Load(path)
	require.NoError(t, err)
	s := f.Snapshot()
	require.Len(t, s.Users, 1)
	assert.True(t, s.Users[0].IsBanned)
	assert.False(t, s.Users[0].IsActive)
	assert.Equal(t, []string{}, s.Users[0].SkillsWanted)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Parse([]byte("users: [unclosed"))
	assert.Error(t, err)
}
