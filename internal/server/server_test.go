package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fubot-be/internal/bootstrap"
	"fubot-be/internal/config"
	"fubot-be/internal/pkg/logger"
	"fubot-be/pkg/database/dbtest"
	"fubot-be/pkg/llm/llmtest"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, fake *llmtest.Fake) *fiber.App {
	t.Helper()

	frontend := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(frontend, "index.html"), []byte("<h1>FuBot</h1>"), 0o644))

	cfg := &config.Config{
		App: config.AppConfig{CorsAllowedOrigins: "*", FrontendDir: frontend},
		Ai:  config.AIConfig{LLMProvider: "test", Temperature: 0.7, MaxTokens: 800, Timeout: 5 * time.Second},
		Memory: config.MemoryConfig{
			WindowTurns:     5,
			ReplyMaxChars:   4000,
			SummaryMaxWords: 150,
			SummaryTimeout:  5 * time.Second,
			SummaryWorkers:  1,
			SummaryTopic:    "REFRESH_CONTEXT_SUMMARY",
		},
	}
	log := logger.NewNopLogger()
	container := bootstrap.Assemble(dbtest.Open(t), cfg, log, fake)
	t.Cleanup(container.Close)

	return New(cfg, container, log).GetApp()
}

func do(t *testing.T, app *fiber.App, method, target, body string) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func TestPasscodeLifecycle(t *testing.T) {
	app := newTestApp(t, &llmtest.Fake{})

	status, body := do(t, app, http.MethodPost, "/add_passcode?passcode=ABC123", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Passcode 'ABC123' added successfully!", body["message"])

	status, body = do(t, app, http.MethodPost, "/add_passcode?passcode=ABC123", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body["message"], "already exists")

	status, body = do(t, app, http.MethodGet, "/list_passcodes", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []interface{}{"ABC123"}, body["passcodes"])

	status, body = do(t, app, http.MethodPost, "/auth", `{"passcode":"ABC123"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Authenticated", body["message"])

	status, body = do(t, app, http.MethodDelete, "/delete_passcode?passcode=NOPE", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Passcode not found", body["detail"])

	status, _ = do(t, app, http.MethodDelete, "/delete_passcode?passcode=ABC123", "")
	assert.Equal(t, http.StatusOK, status)

	status, body = do(t, app, http.MethodPost, "/auth", `{"passcode":"ABC123"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid passcode", body["detail"])
}

func TestChatAndHistory(t *testing.T) {
	fake := &llmtest.Fake{Reply: "Hi there"}
	app := newTestApp(t, fake)

	status, _ := do(t, app, http.MethodPost, "/add_passcode?passcode=ABC123", "")
	require.Equal(t, http.StatusOK, status)

	status, body := do(t, app, http.MethodPost, "/chat", `{"passcode":"ABC123","message":"Hello"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Hi there", body["reply"])

	status, body = do(t, app, http.MethodPost, "/history", `{"passcode":"ABC123"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["total"])
	assert.Equal(t, []interface{}{
		map[string]interface{}{"sender": "user", "text": "Hello"},
		map[string]interface{}{"sender": "bot", "text": "Hi there"},
	}, body["history"])

	status, body = do(t, app, http.MethodPost, "/history?offset=1&limit=5", `{"passcode":"ABC123"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["total"])
	assert.Empty(t, body["history"])
}

func TestChatErrors(t *testing.T) {
	fake := &llmtest.Fake{Err: errors.New("upstream exploded with sk-secret")}
	app := newTestApp(t, fake)

	status, body := do(t, app, http.MethodPost, "/chat", `{"passcode":"NOPE","message":"Hello"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid passcode", body["detail"])

	status, _ = do(t, app, http.MethodPost, "/add_passcode?passcode=ABC123", "")
	require.Equal(t, http.StatusOK, status)

	status, body = do(t, app, http.MethodPost, "/chat", `{"passcode":"ABC123","message":"Hello"}`)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.NotContains(t, body["detail"], "sk-secret")

	status, body = do(t, app, http.MethodPost, "/history", `{"passcode":"ABC123"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), body["total"])

	status, body = do(t, app, http.MethodPost, "/chat", `{"passcode":"ABC123","message":"   "}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "message is required", body["detail"])
}

func TestHistoryValidation(t *testing.T) {
	app := newTestApp(t, &llmtest.Fake{})

	status, _ := do(t, app, http.MethodPost, "/history?limit=0", `{"passcode":"ABC123"}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, app, http.MethodPost, "/history?limit=101", `{"passcode":"ABC123"}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, app, http.MethodPost, "/history?offset=-1", `{"passcode":"ABC123"}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body := do(t, app, http.MethodPost, "/history", `{"passcode":"NOPE"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid passcode", body["detail"])

	status, _ = do(t, app, http.MethodPost, "/add_passcode", "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestHealthzAndFrontend(t *testing.T) {
	app := newTestApp(t, &llmtest.Fake{})

	status, body := do(t, app, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "FuBot")
}
