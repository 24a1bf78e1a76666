package auth

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rajivgeraev/skillswap-api/internal/config"
	"github.com/rajivgeraev/skillswap-api/internal/ledger"
	"github.com/rajivgeraev/skillswap-api/internal/services/servicetest"
	"github.com/rajivgeraev/skillswap-api/internal/utils"
)

type tokenResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
	User  struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
	Error string `json:"error"`
}

func newTestService(t *testing.T) (*servicetest.Env, *AuthService) {
	t.Helper()

	env := servicetest.New(t)
	store := NewCredentialStore(bcrypt.MinCost)
	require.NoError(t, store.Add("shahrutvi020@gmail.com", "password123", "user", "1"))
	require.NoError(t, store.Add("admin@skillswap.com", "admin123", "admin", "admin"))
	require.NoError(t, store.Add("sakshi@example.com", "sakshi123", "user", "4"))

	s := NewAuthService(&config.Config{}, env.Ledger, store, env.JWT, env.Metrics, env.Log)
	s.SetupRoutes(env.App)
	return env, s
}

func TestLoginHandler(t *testing.T) {
	env, _ := newTestService(t)

	var out tokenResponse
	resp := env.Do(t, fiber.MethodPost, "/api/auth/login", "", fiber.Map{"email": "admin@skillswap.com", "password": "admin123"}, &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "admin", out.Role)
	assert.Equal(t, "admin", out.User.ID)

	claims, err := env.JWT.ValidateToken(out.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.UserID)
	assert.Equal(t, "admin", claims.Role)

	assert.Equal(t, 1.0, testutil.ToFloat64(env.Metrics.LoginAttempts.WithLabelValues("password", "success")))
}

func TestLoginHandlerFailures(t *testing.T) {
	env, _ := newTestService(t)
	_, err := env.Ledger.BanUser("4")
	require.NoError(t, err)

	tests := []struct {
		name string
		body fiber.Map
		want int
	}{
		{name: "wrong password", body: fiber.Map{"email": "shahrutvi020@gmail.com", "password": "nope"}, want: http.StatusUnauthorized},
		{name: "unknown email", body: fiber.Map{"email": "ghost@example.com", "password": "password123"}, want: http.StatusUnauthorized},
		{name: "missing password", body: fiber.Map{"email": "shahrutvi020@gmail.com"}, want: http.StatusBadRequest},
		{name: "not an email", body: fiber.Map{"email": "rutvi", "password": "password123"}, want: http.StatusBadRequest},
		{name: "banned", body: fiber.Map{"email": "sakshi@example.com", "password": "sakshi123"}, want: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out tokenResponse
			resp := env.Do(t, fiber.MethodPost, "/api/auth/login", "", tt.body, &out)
			assert.Equal(t, tt.want, resp.StatusCode)
			assert.Empty(t, out.Token)
			assert.NotEmpty(t, out.Error)
		})
	}
	assert.Equal(t, 2.0, testutil.ToFloat64(env.Metrics.LoginAttempts.WithLabelValues("password", "failure")))
}

func TestRegisterHandler(t *testing.T) {
	env, _ := newTestService(t)

	var out tokenResponse
	resp := env.Do(t, fiber.MethodPost, "/api/auth/register", "", fiber.Map{
		"name":     "Jane Doe",
		"email":    "jane@example.com",
		"password": "secret42",
	}, &out)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "user", out.Role)
	assert.Equal(t, "Jane Doe", out.User.Name)

	user, err := env.Ledger.GetUser(out.User.ID)
	require.NoError(t, err)
	assert.True(t, user.IsPublic)

	// Новая учётная запись сразу работает для входа
	var login tokenResponse
	resp = env.Do(t, fiber.MethodPost, "/api/auth/login", "", fiber.Map{"email": "jane@example.com", "password": "secret42"}, &login)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, out.User.ID, login.User.ID)

	t.Run("duplicate email", func(t *testing.T) {
		var dup tokenResponse
		resp := env.Do(t, fiber.MethodPost, "/api/auth/register", "", fiber.Map{
			"name":     "Other",
			"email":    "JANE@example.com",
			"password": "secret42",
		}, &dup)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("short password", func(t *testing.T) {
		resp := env.Do(t, fiber.MethodPost, "/api/auth/register", "", fiber.Map{
			"name":     "Short",
			"email":    "short@example.com",
			"password": "123",
		}, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

type failingCredentials struct {
	*CredentialStore
}

func (failingCredentials) Add(email, password, role, userID string) error {
	return errors.New("store unavailable")
}

func TestRegisterHandlerRollsBackUser(t *testing.T) {
	env := servicetest.New(t)
	s := NewAuthService(&config.Config{}, env.Ledger, failingCredentials{NewCredentialStore(bcrypt.MinCost)}, env.JWT, env.Metrics, env.Log)
	s.SetupRoutes(env.App)
	before := len(env.Ledger.ListUsers())

	resp := env.Do(t, fiber.MethodPost, "/api/auth/register", "", fiber.Map{
		"name":     "Jane Doe",
		"email":    "jane@example.com",
		"password": "secret42",
	}, nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	assert.Len(t, env.Ledger.ListUsers(), before)
	_, err := env.Ledger.FindUserByEmail("jane@example.com")
	assert.ErrorIs(t, err, ledger.ErrUserNotFound)
}

func TestTelegramAuthHandler(t *testing.T) {
	t.Run("disabled without bot token", func(t *testing.T) {
		env, _ := newTestService(t)
		resp := env.Do(t, fiber.MethodPost, "/api/auth/telegram", "", fiber.Map{"init_data": "x"}, nil)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})

	t.Run("rejects unsigned init data", func(t *testing.T) {
		env := servicetest.New(t)
		cfg := &config.Config{Telegram: config.TelegramConfig{BotToken: "123:abc"}}
		s := NewAuthService(cfg, env.Ledger, NewCredentialStore(bcrypt.MinCost), env.JWT, env.Metrics, env.Log)
		s.SetupRoutes(env.App)

		resp := env.Do(t, fiber.MethodPost, "/api/auth/telegram", "", fiber.Map{"init_data": "user=%7B%22id%22%3A1%7D&hash=deadbeef"}, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, 1.0, testutil.ToFloat64(env.Metrics.LoginAttempts.WithLabelValues("telegram", "failure")))
	})
}

func TestTokenIsAcceptedByJWTService(t *testing.T) {
	env, _ := newTestService(t)

	var out tokenResponse
	env.Do(t, fiber.MethodPost, "/api/auth/login", "", fiber.Map{"email": "shahrutvi020@gmail.com", "password": "password123"}, &out)
	_, err := utils.NewJWTService("another-secret", 0).ValidateToken(out.Token)
	assert.ErrorIs(t, err, utils.ErrInvalidToken)
}
