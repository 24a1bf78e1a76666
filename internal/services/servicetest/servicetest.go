// Package servicetest содержит общие помощники для HTTP-тестов сервисов.
package servicetest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rajivgeraev/skillswap-api/internal/ledger"
	"github.com/rajivgeraev/skillswap-api/internal/metrics"
	"github.com/rajivgeraev/skillswap-api/internal/seed"
	"github.com/rajivgeraev/skillswap-api/internal/utils"
)

// Env - окружение теста: каталог с демо-данными, JWT и метрики
type Env struct {
	Ledger  *ledger.Ledger
	JWT     *utils.JWTService
	Metrics *metrics.Metrics
	Log     *zap.Logger
	App     *fiber.App
}

// New создаёт окружение с демо-данными
func New(t *testing.T) *Env {
	t.Helper()

	l := ledger.New()
	fixture, err := seed.Load("")
	require.NoError(t, err)
	require.NoError(t, l.Import(fixture.Snapshot()))

	return &Env{
		Ledger:  l,
		JWT:     utils.NewJWTService("test-secret", time.Hour),
		Metrics: metrics.New(prometheus.NewRegistry()),
		Log:     zap.NewNop(),
		App:     fiber.New(),
	}
}

// Token выпускает токен для пользователя
func (e *Env) Token(t *testing.T, userID, role string) string {
	t.Helper()
	token, err := e.JWT.GenerateToken(userID, role)
	require.NoError(t, err)
	return token
}

// Do выполняет запрос и декодирует JSON ответа в out, если out не nil
func (e *Env) Do(t *testing.T, method, path, token string, body any, out any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.App.Test(req)
	require.NoError(t, err)

	if out != nil {
		defer resp.Body.Close()
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}
