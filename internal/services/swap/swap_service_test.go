package swap

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/services/servicetest"
)

type swapResponse struct {
	Swap  models.SwapRequest `json:"swap"`
	Error string             `json:"error"`
}

type listResponse struct {
	Swaps []models.SwapRequest `json:"swaps"`
	Count int                  `json:"count"`
}

func newTestEnv(t *testing.T) *servicetest.Env {
	t.Helper()
	env := servicetest.New(t)
	NewSwapService(env.Ledger, env.JWT, env.Log).SetupRoutes(env.App)
	return env
}

func TestCreateSwap(t *testing.T) {
	env := newTestEnv(t)
	token := env.Token(t, "1", "user")

	var out swapResponse
	resp := env.Do(t, fiber.MethodPost, "/api/swaps", token, fiber.Map{
		"to_user_id":    "3",
		"skill_offered": "JavaScript",
		"skill_wanted":  "Machine Learning",
		"message":       "Hi!",
	}, &out)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, models.SwapPending, out.Swap.Status)
	assert.Equal(t, "1", out.Swap.FromUserID)
	assert.Equal(t, "Naitri Jasani", out.Swap.ToUserName)

	tests := []struct {
		name string
		body fiber.Map
		want int
	}{
		{name: "unknown recipient", body: fiber.Map{"to_user_id": "404", "skill_offered": "a", "skill_wanted": "b"}, want: http.StatusNotFound},
		{name: "self", body: fiber.Map{"to_user_id": "1", "skill_offered": "a", "skill_wanted": "b"}, want: http.StatusBadRequest},
		{name: "missing skill", body: fiber.Map{"to_user_id": "2", "skill_offered": "a"}, want: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out swapResponse
			resp := env.Do(t, fiber.MethodPost, "/api/swaps", token, tt.body, &out)
			assert.Equal(t, tt.want, resp.StatusCode)
			assert.NotEmpty(t, out.Error)
		})
	}

	assert.Len(t, env.Ledger.AllSwapRequests(), 4)
}

func TestCreateSwapRequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	resp := env.Do(t, fiber.MethodPost, "/api/swaps", "", fiber.Map{"to_user_id": "2"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestBannedUserTokenIsRejected(t *testing.T) {
	env := newTestEnv(t)
	// Токен выпущен до блокировки
	token := env.Token(t, "2", "user")
	_, err := env.Ledger.BanUser("2")
	require.NoError(t, err)

	resp := env.Do(t, fiber.MethodPost, "/api/swaps", token, fiber.Map{
		"to_user_id":    "3",
		"skill_offered": "Python",
		"skill_wanted":  "Machine Learning",
	}, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Len(t, env.Ledger.AllSwapRequests(), 3)

	_, err = env.Ledger.UnbanUser("2")
	require.NoError(t, err)
	resp = env.Do(t, fiber.MethodGet, "/api/swaps", token, nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetMySwaps(t *testing.T) {
	env := newTestEnv(t)
	token := env.Token(t, "1", "user")

	tests := []struct {
		query string
		want  []string
	}{
		{query: "", want: []string{"sr1", "sr2", "sr3"}},
		{query: "?type=incoming", want: []string{"sr1", "sr3"}},
		{query: "?type=outgoing", want: []string{"sr2"}},
		{query: "?status=completed", want: []string{"sr3"}},
		{query: "?type=incoming&status=pending", want: []string{"sr1"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var out listResponse
			resp := env.Do(t, fiber.MethodGet, "/api/swaps"+tt.query, token, nil, &out)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			ids := make([]string, 0, len(out.Swaps))
			for _, s := range out.Swaps {
				ids = append(ids, s.ID)
			}
			assert.Equal(t, tt.want, ids)
			assert.Equal(t, len(tt.want), out.Count)
		})
	}

	resp := env.Do(t, fiber.MethodGet, "/api/swaps?status=unknown", token, nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = env.Do(t, fiber.MethodGet, "/api/swaps?type=sideways", token, nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateSwapStatus(t *testing.T) {
	// sr1: 2 -> 1, pending
	tests := []struct {
		name   string
		actor  string
		status string
		want   int
	}{
		{name: "recipient accepts", actor: "1", status: "accepted", want: http.StatusOK},
		{name: "sender cancels", actor: "2", status: "cancelled", want: http.StatusOK},
		{name: "sender cannot accept", actor: "2", status: "accepted", want: http.StatusForbidden},
		{name: "recipient cannot cancel", actor: "1", status: "cancelled", want: http.StatusForbidden},
		{name: "completed via status", actor: "1", status: "completed", want: http.StatusBadRequest},
		{name: "garbage status", actor: "1", status: "maybe", want: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			resp := env.Do(t, fiber.MethodPut, "/api/swaps/sr1/status", env.Token(t, tt.actor, "user"), fiber.Map{"status": tt.status}, nil)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}

	t.Run("terminal status is final", func(t *testing.T) {
		env := newTestEnv(t)
		token := env.Token(t, "1", "user")
		resp := env.Do(t, fiber.MethodPut, "/api/swaps/sr1/status", token, fiber.Map{"status": "rejected"}, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp = env.Do(t, fiber.MethodPut, "/api/swaps/sr1/status", token, fiber.Map{"status": "accepted"}, nil)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("unknown swap", func(t *testing.T) {
		env := newTestEnv(t)
		resp := env.Do(t, fiber.MethodPut, "/api/swaps/missing/status", env.Token(t, "1", "user"), fiber.Map{"status": "accepted"}, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestCompleteAndDeleteSwap(t *testing.T) {
	env := newTestEnv(t)
	rutvi := env.Token(t, "1", "user")
	disu := env.Token(t, "2", "user")

	// sr2 принят, завершить может любой участник
	var out swapResponse
	resp := env.Do(t, fiber.MethodPost, "/api/swaps/sr2/complete", rutvi, nil, &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.SwapCompleted, out.Swap.Status)

	resp = env.Do(t, fiber.MethodPost, "/api/swaps/sr1/complete", rutvi, nil, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = env.Do(t, fiber.MethodDelete, "/api/swaps/sr1", disu, nil, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = env.Do(t, fiber.MethodPut, "/api/swaps/sr1/status", disu, fiber.Map{"status": "cancelled"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.Do(t, fiber.MethodDelete, "/api/swaps/sr1", env.Token(t, "3", "user"), nil, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.Do(t, fiber.MethodDelete, "/api/swaps/sr1", disu, nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	_, err := env.Ledger.GetSwapRequest("sr1")
	assert.Error(t, err)
}
