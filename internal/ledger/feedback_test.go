package ledger_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/skillswap-api/internal/ledger"
	"github.com/rajivgeraev/skillswap-api/internal/models"
)

// completeSwap создаёт обмен from -> to и доводит его до completed
func completeSwap(t *testing.T, l *ledger.Ledger, from, to string) models.SwapRequest {
	t.Helper()

	req, err := l.CreateSwapRequest(ledger.NewSwapRequest{
		FromUserID:   from,
		ToUserID:     to,
		SkillOffered: "Skill-" + from,
		SkillWanted:  "Skill-" + to,
	})
	require.NoError(t, err)
	_, err = l.SetSwapStatus(to, req.ID, models.SwapAccepted)
	require.NoError(t, err)
	done, err := l.CompleteSwap(from, req.ID)
	require.NoError(t, err)
	return done
}

func TestSubmitFeedbackUpdatesOnlyCounterpart(t *testing.T) {
	l := newDemoLedger(t)

	// Новый обмен между 4 и 1, затем отзыв от 1
	swap := completeSwap(t, l, "4", "1")

	before := l.ListUsers()

	f, err := l.SubmitFeedback(swap.ID, "1", 2, "  ok  ")
	require.NoError(t, err)
	assert.Equal(t, "4", f.ToUserID)
	assert.Equal(t, "ok", f.Comment)

	sakshi, err := l.GetUser("4")
	require.NoError(t, err)
	assert.Equal(t, 2, sakshi.TotalRatings)
	assert.InDelta(t, 3.5, sakshi.Rating, 1e-9) // (5 + 2) / 2

	for _, u := range before {
		if u.ID == "4" {
			continue
		}
		after, err := l.GetUser(u.ID)
		require.NoError(t, err)
		assert.Equal(t, u.Rating, after.Rating, "user %s", u.ID)
		assert.Equal(t, u.TotalRatings, after.TotalRatings, "user %s", u.ID)
	}
	assertRatingsConsistent(t, l)
}

func TestSubmitFeedbackOnSeededSwap(t *testing.T) {
	l := newDemoLedger(t)

	// sr3 уже оценён обеими сторонами
	_, err := l.SubmitFeedback("sr3", "1", 5, "again")
	assert.ErrorIs(t, err, ledger.ErrDuplicateFeedback)

	sakshi, err := l.GetUser("4")
	require.NoError(t, err)
	assert.Equal(t, 1, sakshi.TotalRatings)
	assert.Equal(t, 5.0, sakshi.Rating)
}

func TestSubmitFeedbackValidation(t *testing.T) {
	l := newDemoLedger(t)

	tests := []struct {
		name    string
		swapID  string
		rater   string
		rating  int
		wantErr error
	}{
		{name: "rating too low", swapID: "sr3", rater: "1", rating: 0, wantErr: ledger.ErrInvalidRating},
		{name: "rating too high", swapID: "sr3", rater: "1", rating: 6, wantErr: ledger.ErrInvalidRating},
		{name: "unknown swap", swapID: "missing", rater: "1", rating: 3, wantErr: ledger.ErrSwapNotFound},
		{name: "outsider", swapID: "sr3", rater: "2", rating: 3, wantErr: ledger.ErrForbidden},
		{name: "swap not completed", swapID: "sr2", rater: "1", rating: 3, wantErr: ledger.ErrSwapNotCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.SubmitFeedback(tt.swapID, tt.rater, tt.rating, "")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Len(t, l.AllFeedback(), 2)
	assertRatingsConsistent(t, l)
}

func TestPendingFeedback(t *testing.T) {
	l := newDemoLedger(t)

	assert.Empty(t, l.PendingFeedback("1"))

	swap := completeSwap(t, l, "1", "3")
	pending := l.PendingFeedback("1")
	require.Len(t, pending, 1)
	assert.Equal(t, swap.ID, pending[0].ID)
	assert.Len(t, l.PendingFeedback("3"), 1)

	_, err := l.SubmitFeedback(swap.ID, "1", 4, "")
	require.NoError(t, err)
	assert.Empty(t, l.PendingFeedback("1"))
	assert.Len(t, l.PendingFeedback("3"), 1)

	assert.Len(t, l.GivenFeedback("1"), 2)
	assert.Len(t, l.ReceivedFeedback("3"), 1)
}

func TestConcurrentFeedbackKeepsRatingsConsistent(t *testing.T) {
	l := newDemoLedger(t)

	var swaps []models.SwapRequest
	for i := 0; i < 20; i++ {
		swaps = append(swaps, completeSwap(t, l, "2", "3"))
	}

	var wg sync.WaitGroup
	for i, s := range swaps {
		wg.Add(1)
		go func(i int, s models.SwapRequest) {
			defer wg.Done()
			_, err := l.SubmitFeedback(s.ID, "2", i%5+1, "")
			assert.NoError(t, err)
		}(i, s)
	}
	wg.Wait()

	naitri, err := l.GetUser("3")
	require.NoError(t, err)
	assert.Equal(t, 20, naitri.TotalRatings)
	assert.InDelta(t, 3.0, naitri.Rating, 1e-9)
	assertRatingsConsistent(t, l)
}
