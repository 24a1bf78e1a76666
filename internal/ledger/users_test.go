package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/skillswap-api/internal/ledger"
	"github.com/rajivgeraev/skillswap-api/internal/models"
)

func userIDs(users []models.User) []string {
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}

func TestRegisterUser(t *testing.T) {
	l := newDemoLedger(t)

	u, err := l.RegisterUser(ledger.NewUser{Name: " Jane ", Email: "jane@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Jane", u.Name)
	assert.True(t, u.IsPublic)
	assert.True(t, u.IsActive)
	assert.False(t, u.IsBanned)
	assert.Zero(t, u.Rating)
	assert.Empty(t, u.SkillsOffered)

	_, err = l.RegisterUser(ledger.NewUser{Name: "Other", Email: "JANE@example.com"})
	assert.ErrorIs(t, err, ledger.ErrEmailTaken)

	_, err = l.RegisterUser(ledger.NewUser{Name: "", Email: "x@example.com"})
	assert.ErrorIs(t, err, ledger.ErrInvalidInput)

	tg, err := l.RegisterUser(ledger.NewUser{Name: "Tg", TelegramID: 42})
	require.NoError(t, err)
	found, err := l.FindUserByTelegramID(42)
	require.NoError(t, err)
	assert.Equal(t, tg.ID, found.ID)
}

func TestUpdateProfile(t *testing.T) {
	l := newDemoLedger(t)

	u, err := l.UpdateProfile("2", models.ProfileUpdate{
		Name:          "Disu M.",
		Location:      " Boston ",
		SkillsOffered: []string{" Go ", "Go", "", "Rust"},
		SkillsWanted:  []string{"Design"},
		Availability:  []string{models.AvailabilityWeekends, models.AvailabilityWeekends},
		IsPublic:      false,
	})
	require.NoError(t, err)
	assert.Equal(t, "Disu M.", u.Name)
	assert.Equal(t, "Boston", u.Location)
	assert.Equal(t, []string{"Go", "Rust"}, u.SkillsOffered)
	assert.Equal(t, []string{models.AvailabilityWeekends}, u.Availability)
	assert.False(t, u.IsPublic)

	_, err = l.UpdateProfile("2", models.ProfileUpdate{Name: "X", Availability: []string{"Sometimes"}})
	assert.ErrorIs(t, err, ledger.ErrInvalidAvailability)

	_, err = l.UpdateProfile("missing", models.ProfileUpdate{Name: "X"})
	assert.ErrorIs(t, err, ledger.ErrUserNotFound)
}

func TestBrowse(t *testing.T) {
	l := newDemoLedger(t)

	t.Run("excludes viewer and private users", func(t *testing.T) {
		ids := userIDs(l.Browse("1", ""))
		assert.ElementsMatch(t, []string{"2", "3", "4"}, ids)
	})

	t.Run("search matches skill name and location", func(t *testing.T) {
		assert.Equal(t, []string{"2"}, userIDs(l.Browse("1", "python")))
		assert.Equal(t, []string{"3"}, userIDs(l.Browse("1", "naitri")))
		assert.Equal(t, []string{"4"}, userIDs(l.Browse("1", "austin")))
		assert.Empty(t, l.Browse("1", "cobol"))
	})

	t.Run("search ignores wanted skills", func(t *testing.T) {
		assert.Empty(t, l.Browse("1", "analytics"))
	})
}

func TestBanHidesFromBrowseOnly(t *testing.T) {
	l := newDemoLedger(t)

	swapsBefore := l.ListSwapRequests("4", ledger.DirectionAll, "")
	feedbackBefore := l.ReceivedFeedback("4")

	banned, err := l.BanUser("4")
	require.NoError(t, err)
	assert.True(t, banned.IsBanned)
	assert.False(t, banned.IsActive)
	assert.NotContains(t, userIDs(l.Browse("1", "")), "4")

	assert.Equal(t, swapsBefore, l.ListSwapRequests("4", ledger.DirectionAll, ""))
	assert.Equal(t, feedbackBefore, l.ReceivedFeedback("4"))

	unbanned, err := l.UnbanUser("4")
	require.NoError(t, err)
	assert.False(t, unbanned.IsBanned)
	assert.True(t, unbanned.IsActive)
	assert.Contains(t, userIDs(l.Browse("1", "")), "4")

	_, err = l.BanUser("missing")
	assert.ErrorIs(t, err, ledger.ErrUserNotFound)
}

func TestDiscardUser(t *testing.T) {
	l := newDemoLedger(t)

	u, err := l.RegisterUser(ledger.NewUser{Name: "Jane", Email: "jane@example.com"})
	require.NoError(t, err)
	require.NoError(t, l.DiscardUser(u.ID))

	_, err = l.GetUser(u.ID)
	assert.ErrorIs(t, err, ledger.ErrUserNotFound)
	_, err = l.RegisterUser(ledger.NewUser{Name: "Jane", Email: "jane@example.com"})
	assert.NoError(t, err, "email must be free again")

	assert.ErrorIs(t, l.DiscardUser("1"), ledger.ErrUserInUse)
	assert.ErrorIs(t, l.DiscardUser("missing"), ledger.ErrUserNotFound)
	assert.Len(t, l.ListUsers(), 6)
}
