package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/tokenize/internal/config"
	tokenizationDomain "github.com/allisson/tokenize/internal/tokenization/domain"
	"github.com/allisson/tokenize/internal/tokenization/envelope"
)

const testConnectionsYAML = `
connections:
  Test:
    - sandbox: true
      id: "local"
      apiKey: "local-key"
  Redis:
    - sandbox: true
      id: "redis"
      apiKey: ""
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		LogLevel:                    "error",
		ServerHost:                  "localhost",
		ServerPort:                  8080,
		AuthEnabled:                 false,
		TokenizationProvider:        config.ProviderTest,
		TokenizationConnectionsFile: writeFile(t, "connections.yaml", testConnectionsYAML),
		TokenExTimeout:              time.Second,
		EnvelopeAlgorithm:           string(envelope.AESGCM),
		RedisKeyPrefix:              "tokenize:",
	}
}

func TestNewContainer(t *testing.T) {
	cfg := newTestConfig(t)

	container := NewContainer(cfg)

	require.NotNil(t, container)
	assert.Same(t, cfg, container.Config())
}

func TestContainerLogger(t *testing.T) {
	container := NewContainer(&config.Config{LogLevel: "debug"})

	logger := container.Logger()
	require.NotNil(t, logger)
	assert.Same(t, logger, container.Logger())
}

func TestContainerLoggerDefaultLevel(t *testing.T) {
	container := NewContainer(&config.Config{LogLevel: "invalid"})

	assert.NotNil(t, container.Logger())
}

func TestContainerInitializationErrors(t *testing.T) {
	container := NewContainer(&config.Config{
		DBDriver:           "invalid_driver",
		DBConnectionString: "",
	})

	_, err := container.DB()
	assert.Error(t, err)

	_, err = container.DB()
	assert.Error(t, err, "the stored error is returned on later calls")
}

func TestContainerLazyInitialization(t *testing.T) {
	container := NewContainer(&config.Config{LogLevel: "info"})

	assert.Nil(t, container.logger)
	assert.NotNil(t, container.Logger())
	assert.NotNil(t, container.logger)
}

func TestContainerShutdown(t *testing.T) {
	container := NewContainer(&config.Config{LogLevel: "info"})

	assert.NoError(t, container.Shutdown(context.Background()))
}

func TestContainerGateway(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_TestProvider", func(t *testing.T) {
		container := NewContainer(newTestConfig(t))

		gateway, err := container.Gateway(ctx)
		require.NoError(t, err)

		state := gateway.State()
		assert.True(t, state.Active)
		assert.Equal(t, tokenizationDomain.TestProviderName, state.Provider)
		assert.Equal(t, 0, state.Slot)

		token, err := gateway.Store(ctx, "4111111111111111", "")
		require.NoError(t, err)

		value, err := gateway.Get(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "4111111111111111", value)

		again, err := container.Gateway(ctx)
		require.NoError(t, err)
		assert.Same(t, gateway, again)
	})

	t.Run("Error_MissingConnectionsFile", func(t *testing.T) {
		cfg := newTestConfig(t)
		cfg.TokenizationConnectionsFile = filepath.Join(t.TempDir(), "missing.yaml")
		container := NewContainer(cfg)

		_, err := container.Gateway(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load tokenization connections")

		_, err = container.Gateway(ctx)
		assert.Error(t, err)
	})

	t.Run("Error_ProviderWithoutConnections", func(t *testing.T) {
		cfg := newTestConfig(t)
		cfg.TokenizationProvider = config.ProviderTokenEx
		container := NewContainer(cfg)

		_, err := container.Gateway(ctx)
		assert.Error(t, err)
	})

	t.Run("Success_RedisProvider", func(t *testing.T) {
		server := miniredis.RunT(t)

		cfg := newTestConfig(t)
		cfg.TokenizationProvider = config.ProviderRedis
		cfg.RedisAddr = server.Addr()
		container := NewContainer(cfg)
		t.Cleanup(func() { _ = container.Shutdown(context.Background()) })

		gateway, err := container.Gateway(ctx)
		require.NoError(t, err)
		assert.Equal(t, tokenizationDomain.RedisProviderName, gateway.State().Provider)

		token, err := gateway.Store(ctx, map[string]any{"pan": "4111111111111111"}, "")
		require.NoError(t, err)

		valid, err := gateway.Validate(ctx, token)
		require.NoError(t, err)
		assert.True(t, valid)
	})
}

func TestContainerEnvelopeCodec(t *testing.T) {
	ctx := context.Background()

	t.Run("Plain", func(t *testing.T) {
		container := NewContainer(newTestConfig(t))

		codec, err := container.EnvelopeCodec(ctx)
		require.NoError(t, err)
		assert.False(t, codec.Encrypted())
	})

	t.Run("Encrypted", func(t *testing.T) {
		key, err := envelope.GenerateKey()
		require.NoError(t, err)

		cfg := newTestConfig(t)
		cfg.EnvelopeEncryptionEnabled = true
		cfg.EnvelopeKey = key
		container := NewContainer(cfg)

		codec, err := container.EnvelopeCodec(ctx)
		require.NoError(t, err)
		assert.True(t, codec.Encrypted())

		encoded, err := codec.Encode(ctx, "secret")
		require.NoError(t, err)
		assert.NotContains(t, encoded, "secret")
	})

	t.Run("Error_InvalidKey", func(t *testing.T) {
		cfg := newTestConfig(t)
		cfg.EnvelopeEncryptionEnabled = true
		cfg.EnvelopeKey = "not-base64"
		container := NewContainer(cfg)

		_, err := container.EnvelopeCodec(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create envelope cipher")
	})
}

func TestContainerAuthenticator(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		cfg := newTestConfig(t)
		container := NewContainer(cfg)

		hash, err := container.SecretService().HashSecret("s3cret-token")
		require.NoError(t, err)
		cfg.AuthEnabled = true
		cfg.AuthClientsFile = writeFile(t, "clients.yaml", `
clients:
  - name: checkout
    secret: "`+hash+`"
    active: true
    policies:
      - path: "/v1/tokens"
        capabilities: ["tokenize"]
`)

		authenticator, err := container.Authenticator(ctx)
		require.NoError(t, err)

		client, err := authenticator.Authenticate(ctx, "s3cret-token")
		require.NoError(t, err)
		assert.Equal(t, "checkout", client.Name)
	})

	t.Run("Error_MissingClientsFile", func(t *testing.T) {
		cfg := newTestConfig(t)
		cfg.AuthEnabled = true
		cfg.AuthClientsFile = filepath.Join(t.TempDir(), "missing.yaml")
		container := NewContainer(cfg)

		_, err := container.Authenticator(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load api clients")
	})
}

func TestContainerHTTPServer(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_AuthDisabled", func(t *testing.T) {
		container := NewContainer(newTestConfig(t))

		server, err := container.HTTPServer(ctx)
		require.NoError(t, err)
		require.NotNil(t, server)

		again, err := container.HTTPServer(ctx)
		require.NoError(t, err)
		assert.Same(t, server, again)
	})

	t.Run("Error_GatewayUnavailable", func(t *testing.T) {
		cfg := newTestConfig(t)
		cfg.TokenizationProvider = config.ProviderTokenEx
		container := NewContainer(cfg)

		_, err := container.HTTPServer(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get gateway for http server")
	})

	t.Run("MetricsServerDisabled", func(t *testing.T) {
		container := NewContainer(newTestConfig(t))

		server, err := container.MetricsServer()
		require.NoError(t, err)
		assert.Nil(t, server)
	})
}
