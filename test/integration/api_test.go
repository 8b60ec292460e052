// Package integration provides end-to-end tests for the tokenization API. Every provider
// runs the same scenario; database-backed providers skip when their server is unreachable.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/tokenize/internal/app"
	authService "github.com/allisson/tokenize/internal/auth/service"
	"github.com/allisson/tokenize/internal/config"
	"github.com/allisson/tokenize/internal/testutil"
	"github.com/allisson/tokenize/internal/tokenization/envelope"
	tokenizationDTO "github.com/allisson/tokenize/internal/tokenization/http/dto"
)

const connectionsYAML = `
connections:
  Test:
    - sandbox: true
      id: "primary"
      apiKey: "primary-key"
    - sandbox: true
      id: "secondary"
      apiKey: "secondary-key"
  SQL:
    - sandbox: true
      id: "sql-primary"
      apiKey: ""
    - sandbox: true
      id: "sql-secondary"
      apiKey: ""
  Redis:
    - sandbox: true
      id: "redis-primary"
      apiKey: ""
    - sandbox: true
      id: "redis-secondary"
      apiKey: ""
`

// integrationTestContext holds the running API and the client token used against it.
type integrationTestContext struct {
	container *app.Container
	server    *httptest.Server
	token     string
}

// makeRequest performs an HTTP request and returns the response and body.
func (ctx *integrationTestContext) makeRequest(
	t *testing.T,
	method, path string,
	body any,
	useAuth bool,
) (*http.Response, []byte) {
	t.Helper()

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		require.NoError(t, err, "failed to marshal request body")
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, ctx.server.URL+path, bodyReader)
	require.NoError(t, err, "failed to create request")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if useAuth {
		req.Header.Set("Authorization", "Bearer "+ctx.token)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	//nolint:gosec // controlled test environment with localhost URLs
	resp, err := client.Do(req)
	require.NoError(t, err, "failed to perform request")

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")
	if closeErr := resp.Body.Close(); closeErr != nil {
		t.Logf("Warning: failed to close response body: %v", closeErr)
	}

	return resp, respBody
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// setupIntegrationTest starts the API for provider with auth and envelope encryption enabled.
func setupIntegrationTest(t *testing.T, provider string, configure func(cfg *config.Config)) *integrationTestContext {
	t.Helper()

	gin.SetMode(gin.TestMode)
	dir := t.TempDir()

	secretService := authService.NewSecretService()
	plainToken, hash, err := secretService.GenerateSecret()
	require.NoError(t, err)

	clientsYAML := `
clients:
  - name: integration
    secret: "` + hash + `"
    active: true
    policies:
      - path: "/v1/*"
        capabilities: ["tokenize", "detokenize", "read", "delete", "waterfall"]
`

	envelopeKey, err := envelope.GenerateKey()
	require.NoError(t, err)

	cfg := &config.Config{
		ServerHost:                  "localhost",
		ServerPort:                  8080,
		LogLevel:                    "error",
		AuthEnabled:                 true,
		AuthClientsFile:             writeFile(t, dir, "clients.yaml", clientsYAML),
		TokenizationProvider:        provider,
		TokenizationConnectionsFile: writeFile(t, dir, "connections.yaml", connectionsYAML),
		TokenExTimeout:              time.Second,
		EnvelopeEncryptionEnabled:   true,
		EnvelopeAlgorithm:           string(envelope.AESGCM),
		EnvelopeKey:                 envelopeKey,
		RedisKeyPrefix:              "tokenize:",
		DBMaxOpenConnections:        5,
		DBMaxIdleConnections:        5,
		DBConnMaxLifetime:           time.Minute,
	}
	if configure != nil {
		configure(cfg)
	}

	container := app.NewContainer(cfg)
	t.Cleanup(func() { _ = container.Shutdown(context.Background()) })

	server, err := container.HTTPServer(context.Background())
	require.NoError(t, err, "failed to build http server")

	httpServer := httptest.NewServer(server.GetHandler())
	t.Cleanup(httpServer.Close)

	return &integrationTestContext{
		container: container,
		server:    httpServer,
		token:     plainToken,
	}
}

// runTokenLifecycle exercises every API route against the configured provider.
func runTokenLifecycle(t *testing.T, ctx *integrationTestContext, provider string) {
	t.Helper()

	payload := map[string]any{"pan": "4111111111111111", "exp": "12/30"}
	var token string

	t.Run("01_RequiresAuthentication", func(t *testing.T) {
		resp, _ := ctx.makeRequest(t, http.MethodPost, "/v1/tokens", map[string]any{"data": payload}, false)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("02_Store", func(t *testing.T) {
		resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/tokens", map[string]any{"data": payload}, true)
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

		var response tokenizationDTO.StoreResponse
		require.NoError(t, json.Unmarshal(body, &response))
		require.NotEmpty(t, response.Token)
		token = response.Token
	})

	t.Run("03_Detokenize", func(t *testing.T) {
		resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/tokens/detokenize", map[string]any{"token": token}, true)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

		var response tokenizationDTO.DetokenizeResponse
		require.NoError(t, json.Unmarshal(body, &response))
		assert.Equal(t, payload, response.Data)
	})

	t.Run("04_Validate", func(t *testing.T) {
		resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/tokens/validate", map[string]any{"token": token}, true)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

		var response tokenizationDTO.ValidateTokenResponse
		require.NoError(t, json.Unmarshal(body, &response))
		assert.True(t, response.Valid)
	})

	t.Run("05_Reports", func(t *testing.T) {
		resp, body := ctx.makeRequest(t, http.MethodGet, "/v1/reports/token-count", nil, true)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

		var response tokenizationDTO.TokenCountResponse
		require.NoError(t, json.Unmarshal(body, &response))
		assert.GreaterOrEqual(t, response.Count, int64(1))

		resp, _ = ctx.makeRequest(t, http.MethodGet, "/v1/reports/usage", nil, true)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("06_Delete", func(t *testing.T) {
		resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/tokens/delete", map[string]any{"token": token}, true)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

		var response tokenizationDTO.DeleteTokenResponse
		require.NoError(t, json.Unmarshal(body, &response))
		assert.True(t, response.Deleted)
	})

	t.Run("07_ValidateDeleted", func(t *testing.T) {
		resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/tokens/validate", map[string]any{"token": token}, true)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

		var response tokenizationDTO.ValidateTokenResponse
		require.NoError(t, json.Unmarshal(body, &response))
		assert.False(t, response.Valid)
	})

	t.Run("08_Waterfall", func(t *testing.T) {
		resp, body := ctx.makeRequest(t, http.MethodGet, "/v1/connection", nil, true)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

		var state tokenizationDTO.ConnectionResponse
		require.NoError(t, json.Unmarshal(body, &state))
		assert.Equal(t, provider, state.Provider)
		assert.Equal(t, 0, state.Slot)

		resp, body = ctx.makeRequest(t, http.MethodPost, "/v1/connection/waterfall", nil, true)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		require.NoError(t, json.Unmarshal(body, &state))
		assert.Equal(t, 1, state.Slot)

		resp, _ = ctx.makeRequest(t, http.MethodPost, "/v1/connection/waterfall", nil, true)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})

	t.Run("09_Health", func(t *testing.T) {
		resp, _ := ctx.makeRequest(t, http.MethodGet, "/health", nil, false)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp, body := ctx.makeRequest(t, http.MethodGet, "/ready", nil, false)
		assert.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	})
}

func TestIntegration_TestProvider(t *testing.T) {
	ctx := setupIntegrationTest(t, config.ProviderTest, nil)
	runTokenLifecycle(t, ctx, config.ProviderTest)
}

func TestIntegration_RedisProvider(t *testing.T) {
	redisServer := miniredis.RunT(t)

	ctx := setupIntegrationTest(t, config.ProviderRedis, func(cfg *config.Config) {
		cfg.RedisAddr = redisServer.Addr()
	})
	runTokenLifecycle(t, ctx, config.ProviderRedis)
}

func TestIntegration_PostgresProvider(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database integration test in short mode")
	}
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)

	ctx := setupIntegrationTest(t, config.ProviderSQL, func(cfg *config.Config) {
		cfg.DBDriver = "postgres"
		cfg.DBConnectionString = testutil.PostgresTestDSN()
	})
	runTokenLifecycle(t, ctx, config.ProviderSQL)
}

func TestIntegration_MySQLProvider(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database integration test in short mode")
	}
	db := testutil.SetupMySQLDB(t)
	defer testutil.TeardownDB(t, db)

	ctx := setupIntegrationTest(t, config.ProviderSQL, func(cfg *config.Config) {
		cfg.DBDriver = "mysql"
		cfg.DBConnectionString = testutil.MySQLTestDSN()
	})
	runTokenLifecycle(t, ctx, config.ProviderSQL)
}
