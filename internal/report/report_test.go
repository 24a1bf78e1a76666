package report

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/skillswap-api/internal/ledger"
	"github.com/rajivgeraev/skillswap-api/internal/seed"
)

func demoSnapshot(t *testing.T) ledger.Snapshot {
	t.Helper()
	fixture, err := seed.Load("")
	require.NoError(t, err)
	l := ledger.New()
	require.NoError(t, l.Import(fixture.Snapshot()))
	return l.Snapshot()
}

func TestFileName(t *testing.T) {
	at := time.Date(2024, 1, 31, 23, 30, 0, 0, time.FixedZone("UTC-5", -5*3600))
	assert.Equal(t, "swaps-report-2024-02-01.json", FileName(Swaps, at))
}

func TestParseCollection(t *testing.T) {
	c, err := ParseCollection("feedback")
	require.NoError(t, err)
	assert.Equal(t, Feedback, c)

	_, err = ParseCollection("messages")
	assert.ErrorIs(t, err, ErrUnknownCollection)
}

func TestBuildUsersReport(t *testing.T) {
	at := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	r, err := Build(Users, demoSnapshot(t), at)
	require.NoError(t, err)
	assert.Equal(t, "users-report-2024-02-01.json", r.FileName)
	assert.Contains(t, string(r.Body), "\n  {\n    \"name\"")

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(r.Body, &rows))
	require.Len(t, rows, 5)
	assert.Equal(t, "Rutvi Shah", rows[0]["name"])
	assert.Equal(t, 3.0, rows[0]["skillsOffered"])
	assert.Equal(t, 4.0, rows[0]["rating"])
	assert.ElementsMatch(t,
		[]string{"name", "email", "skillsOffered", "skillsWanted", "rating", "isActive", "isBanned", "createdAt"},
		keys(rows[0]))
}

func TestBuildSwapsAndFeedbackReports(t *testing.T) {
	s := demoSnapshot(t)
	at := time.Now()

	swaps, err := Build(Swaps, s, at)
	require.NoError(t, err)
	var swapRows []SwapRow
	require.NoError(t, json.Unmarshal(swaps.Body, &swapRows))
	require.Len(t, swapRows, 3)
	assert.Equal(t, "Disu Makadiya", swapRows[0].From)
	assert.Equal(t, "pending", swapRows[0].Status)

	fb, err := Build(Feedback, s, at)
	require.NoError(t, err)
	var fbRows []FeedbackRow
	require.NoError(t, json.Unmarshal(fb.Body, &fbRows))
	require.Len(t, fbRows, 2)
	assert.Equal(t, "sr3", fbRows[0].SwapRequestID)

	_, err = Build(Collection("admins"), s, at)
	assert.ErrorIs(t, err, ErrUnknownCollection)
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
