package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		validate func(t *testing.T, cfg *Config)
	}{
		{
			name:    "load default configuration",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "0.0.0.0", cfg.ServerHost)
				assert.Equal(t, 8080, cfg.ServerPort)
				assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
				assert.Equal(t, "postgres", cfg.DBDriver)
				assert.Equal(t, 25, cfg.DBMaxOpenConnections)
				assert.Equal(t, 5*time.Minute, cfg.DBConnMaxLifetime)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.True(t, cfg.AuthEnabled)
				assert.Equal(t, "clients.yaml", cfg.AuthClientsFile)
				assert.Equal(t, "tokenize", cfg.MetricsNamespace)
				assert.Equal(t, ProviderTokenEx, cfg.TokenizationProvider)
				assert.Equal(t, "connections.yaml", cfg.TokenizationConnectionsFile)
				assert.Equal(t, 30*time.Second, cfg.TokenExTimeout)
				assert.Equal(t, 5, cfg.TokenExBreakerFailureThreshold)
				assert.False(t, cfg.EnvelopeEncryptionEnabled)
				assert.Equal(t, "aes-gcm", cfg.EnvelopeAlgorithm)
				assert.Equal(t, "localhost:6379", cfg.RedisAddr)
				assert.Equal(t, "tokenize:", cfg.RedisKeyPrefix)
			},
		},
		{
			name: "load custom server configuration",
			envVars: map[string]string{
				"SERVER_HOST": "localhost",
				"SERVER_PORT": "9090",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "localhost", cfg.ServerHost)
				assert.Equal(t, 9090, cfg.ServerPort)
			},
		},
		{
			name: "load custom database configuration",
			envVars: map[string]string{
				"DB_DRIVER":               "mysql",
				"DB_CONNECTION_STRING":    "user:password@tcp(localhost:3306)/testdb",
				"DB_MAX_OPEN_CONNECTIONS": "50",
				"DB_MAX_IDLE_CONNECTIONS": "10",
				"DB_CONN_MAX_LIFETIME":    "10",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "mysql", cfg.DBDriver)
				assert.Equal(t, "user:password@tcp(localhost:3306)/testdb", cfg.DBConnectionString)
				assert.Equal(t, 50, cfg.DBMaxOpenConnections)
				assert.Equal(t, 10, cfg.DBMaxIdleConnections)
				assert.Equal(t, 10*time.Minute, cfg.DBConnMaxLifetime)
			},
		},
		{
			name: "load custom tokenization configuration",
			envVars: map[string]string{
				"TOKENIZATION_PROVIDER":             "Redis",
				"TOKENIZATION_CONNECTIONS_FILE":     "/etc/tokenize/connections.yaml",
				"TOKENEX_TIMEOUT_SECONDS":           "5",
				"TOKENEX_BREAKER_FAILURE_THRESHOLD": "3",
				"REDIS_ADDR":                        "redis:6379",
				"REDIS_DB":                          "2",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, ProviderRedis, cfg.TokenizationProvider)
				assert.Equal(t, "/etc/tokenize/connections.yaml", cfg.TokenizationConnectionsFile)
				assert.Equal(t, 5*time.Second, cfg.TokenExTimeout)
				assert.Equal(t, 3, cfg.TokenExBreakerFailureThreshold)
				assert.Equal(t, "redis:6379", cfg.RedisAddr)
				assert.Equal(t, 2, cfg.RedisDB)
				assert.True(t, cfg.UsesRedis())
				assert.False(t, cfg.UsesDatabase())
			},
		},
		{
			name: "load custom envelope configuration",
			envVars: map[string]string{
				"ENVELOPE_ENCRYPTION_ENABLED": "true",
				"ENVELOPE_ALGORITHM":          "chacha20-poly1305",
				"ENVELOPE_KMS_KEY_URI":        "base64key://",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.EnvelopeEncryptionEnabled)
				assert.Equal(t, "chacha20-poly1305", cfg.EnvelopeAlgorithm)
				assert.Equal(t, "base64key://", cfg.EnvelopeKMSKeyURI)
			},
		},
		{
			name: "load custom log level",
			envVars: map[string]string{
				"LOG_LEVEL": "debug",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.LogLevel)
				assert.Equal(t, "debug", cfg.GetGinMode())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()

			for key, value := range tt.envVars {
				err := os.Setenv(key, value)
				require.NoError(t, err)
			}

			cfg := Load()

			tt.validate(t, cfg)
		})
	}
}

func validConfig() *Config {
	return &Config{
		ServerPort:                  8080,
		LogLevel:                    "info",
		TokenizationProvider:        ProviderTokenEx,
		TokenizationConnectionsFile: "connections.yaml",
		AuthEnabled:                 true,
		AuthClientsFile:             "clients.yaml",
		MetricsEnabled:              true,
		MetricsPort:                 8081,
		EnvelopeAlgorithm:           "aes-gcm",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(cfg *Config) {},
		},
		{
			name:    "unknown provider",
			mutate:  func(cfg *Config) { cfg.TokenizationProvider = "Acme" },
			wantErr: "TokenizationProvider",
		},
		{
			name:    "blank connections file",
			mutate:  func(cfg *Config) { cfg.TokenizationConnectionsFile = "   " },
			wantErr: "TokenizationConnectionsFile",
		},
		{
			name: "sql provider requires supported driver",
			mutate: func(cfg *Config) {
				cfg.TokenizationProvider = ProviderSQL
				cfg.DBDriver = "sqlite"
				cfg.DBConnectionString = "file::memory:"
			},
			wantErr: "DBDriver",
		},
		{
			name: "sql driver ignored for other providers",
			mutate: func(cfg *Config) {
				cfg.DBDriver = "sqlite"
			},
		},
		{
			name: "auth requires clients file",
			mutate: func(cfg *Config) {
				cfg.AuthClientsFile = ""
			},
			wantErr: "AuthClientsFile",
		},
		{
			name: "auth disabled needs no clients file",
			mutate: func(cfg *Config) {
				cfg.AuthEnabled = false
				cfg.AuthClientsFile = ""
			},
		},
		{
			name: "envelope requires key",
			mutate: func(cfg *Config) {
				cfg.EnvelopeEncryptionEnabled = true
			},
			wantErr: "EnvelopeKey",
		},
		{
			name: "envelope key must be base64",
			mutate: func(cfg *Config) {
				cfg.EnvelopeEncryptionEnabled = true
				cfg.EnvelopeKey = "not base64!"
			},
			wantErr: "EnvelopeKey",
		},
		{
			name: "envelope with kms needs no local key",
			mutate: func(cfg *Config) {
				cfg.EnvelopeEncryptionEnabled = true
				cfg.EnvelopeKMSKeyURI = "base64key://"
			},
		},
		{
			name: "envelope rejects unknown algorithm",
			mutate: func(cfg *Config) {
				cfg.EnvelopeEncryptionEnabled = true
				cfg.EnvelopeKey = "MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY="
				cfg.EnvelopeAlgorithm = "des"
			},
			wantErr: "EnvelopeAlgorithm",
		},
		{
			name: "metrics port must differ from server port",
			mutate: func(cfg *Config) {
				cfg.MetricsPort = 8080
			},
			wantErr: "MetricsPort",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
