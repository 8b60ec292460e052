package app

import (
	"context"
	"fmt"

	"github.com/allisson/tokenize/internal/config"
	"github.com/allisson/tokenize/internal/metrics"
	tokenizationDomain "github.com/allisson/tokenize/internal/tokenization/domain"
	"github.com/allisson/tokenize/internal/tokenization/envelope"
	tokenizationHTTP "github.com/allisson/tokenize/internal/tokenization/http"
	"github.com/allisson/tokenize/internal/tokenization/provider"
	"github.com/allisson/tokenize/internal/tokenization/provider/memory"
	"github.com/allisson/tokenize/internal/tokenization/provider/redisvault"
	"github.com/allisson/tokenize/internal/tokenization/provider/sqlvault"
	"github.com/allisson/tokenize/internal/tokenization/provider/tokenex"
	"github.com/allisson/tokenize/internal/tokenization/registry"
	tokenizationUseCase "github.com/allisson/tokenize/internal/tokenization/usecase"
)

// ConnectionRegistry returns the vault connections loaded from the connections file.
func (c *Container) ConnectionRegistry() (*registry.StaticRegistry, error) {
	var err error
	c.connectionRegistryInit.Do(func() {
		c.connectionRegistry, err = c.initConnectionRegistry()
		if err != nil {
			c.initErrors["connectionRegistry"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["connectionRegistry"]; exists {
		return nil, storedErr
	}
	return c.connectionRegistry, nil
}

// EnvelopeCipher returns the cipher protecting envelopes, backed by a KMS keeper when
// ENVELOPE_KMS_KEY_URI is set and by the local AEAD key otherwise.
func (c *Container) EnvelopeCipher(ctx context.Context) (envelope.Cipher, error) {
	var err error
	c.envelopeCipherInit.Do(func() {
		c.envelopeCipher, err = c.initEnvelopeCipher(ctx)
		if err != nil {
			c.initErrors["envelopeCipher"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["envelopeCipher"]; exists {
		return nil, storedErr
	}
	return c.envelopeCipher, nil
}

// EnvelopeCodec returns the envelope codec.
func (c *Container) EnvelopeCodec(ctx context.Context) (*envelope.Codec, error) {
	var err error
	c.envelopeCodecInit.Do(func() {
		c.envelopeCodec, err = c.initEnvelopeCodec(ctx)
		if err != nil {
			c.initErrors["envelopeCodec"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["envelopeCodec"]; exists {
		return nil, storedErr
	}
	return c.envelopeCodec, nil
}

// ProviderRegistry returns the driver factories of every usable provider.
func (c *Container) ProviderRegistry() (*provider.Registry, error) {
	var err error
	c.providerRegistryInit.Do(func() {
		c.providerRegistry, err = c.initProviderRegistry()
		if err != nil {
			c.initErrors["providerRegistry"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["providerRegistry"]; exists {
		return nil, storedErr
	}
	return c.providerRegistry, nil
}

// Gateway returns the tokenization gateway bound to slot 0 of the configured provider.
func (c *Container) Gateway(ctx context.Context) (tokenizationUseCase.Gateway, error) {
	var err error
	c.gatewayInit.Do(func() {
		c.gateway, err = c.initGateway(ctx)
		if err != nil {
			c.initErrors["gateway"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["gateway"]; exists {
		return nil, storedErr
	}
	return c.gateway, nil
}

// TokenizationHandler returns the token HTTP handler.
func (c *Container) TokenizationHandler(ctx context.Context) (*tokenizationHTTP.TokenizationHandler, error) {
	var err error
	c.tokenizationHandlerInit.Do(func() {
		c.tokenizationHandler, err = c.initTokenizationHandler(ctx)
		if err != nil {
			c.initErrors["tokenizationHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenizationHandler"]; exists {
		return nil, storedErr
	}
	return c.tokenizationHandler, nil
}

// ConnectionHandler returns the connection and reporting HTTP handler.
func (c *Container) ConnectionHandler(ctx context.Context) (*tokenizationHTTP.ConnectionHandler, error) {
	var err error
	c.connectionHandlerInit.Do(func() {
		c.connectionHandler, err = c.initConnectionHandler(ctx)
		if err != nil {
			c.initErrors["connectionHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["connectionHandler"]; exists {
		return nil, storedErr
	}
	return c.connectionHandler, nil
}

// initConnectionRegistry loads the connections file.
func (c *Container) initConnectionRegistry() (*registry.StaticRegistry, error) {
	connections, err := registry.LoadFile(c.config.TokenizationConnectionsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load tokenization connections: %w", err)
	}
	return connections, nil
}

// initEnvelopeCipher opens the configured cipher. It returns nil when envelope
// encryption is disabled.
func (c *Container) initEnvelopeCipher(ctx context.Context) (envelope.Cipher, error) {
	if !c.config.EnvelopeEncryptionEnabled {
		return nil, nil
	}

	if c.config.EnvelopeKMSKeyURI != "" {
		cipher, err := envelope.OpenKeeperCipher(ctx, c.config.EnvelopeKMSKeyURI)
		if err != nil {
			return nil, fmt.Errorf("failed to open envelope keeper: %w", err)
		}
		return cipher, nil
	}

	cipher, err := envelope.NewAEADCipherFromBase64(
		c.config.EnvelopeKey,
		envelope.Algorithm(c.config.EnvelopeAlgorithm),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create envelope cipher: %w", err)
	}
	return cipher, nil
}

// initEnvelopeCodec creates the codec, encrypting when a cipher is configured.
func (c *Container) initEnvelopeCodec(ctx context.Context) (*envelope.Codec, error) {
	cipher, err := c.EnvelopeCipher(ctx)
	if err != nil {
		return nil, err
	}
	if cipher == nil {
		return envelope.NewPlainCodec(), nil
	}
	return envelope.NewEncryptedCodec(cipher), nil
}

// initProviderRegistry registers TokenEx and the in-process provider unconditionally and
// the storage-backed providers only when selected, since they need live connections.
func (c *Container) initProviderRegistry() (*provider.Registry, error) {
	logger := c.Logger()

	tokenexConfig := tokenex.DefaultConfig()
	tokenexConfig.Timeout = c.config.TokenExTimeout
	tokenexConfig.BaseURL = c.config.TokenExBaseURL
	tokenexConfig.BreakerFailureThreshold = uint32(max(c.config.TokenExBreakerFailureThreshold, 0)) //nolint:gosec
	tokenexConfig.BreakerTimeout = c.config.TokenExBreakerTimeout
	tokenexConfig.BreakerMaxRequests = uint32(max(c.config.TokenExBreakerMaxRequests, 0)) //nolint:gosec
	tokenexConfig.Logger = logger

	providers := provider.NewRegistry()
	providers.Register(tokenizationDomain.DefaultProviderName, tokenex.NewFactory(tokenexConfig))
	providers.Register(tokenizationDomain.TestProviderName, memory.Factory)

	switch c.config.TokenizationProvider {
	case config.ProviderSQL:
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for sql vault: %w", err)
		}
		store, err := sqlvault.NewStore(db, c.config.DBDriver)
		if err != nil {
			return nil, fmt.Errorf("failed to create sql vault store: %w", err)
		}
		providers.Register(tokenizationDomain.SQLProviderName, sqlvault.NewFactory(store))

	case config.ProviderRedis:
		redisClient, err := c.RedisClient()
		if err != nil {
			return nil, fmt.Errorf("failed to get redis client for redis vault: %w", err)
		}
		store := redisvault.NewStore(redisClient, c.config.RedisKeyPrefix)
		providers.Register(tokenizationDomain.RedisProviderName, redisvault.NewFactory(store))
	}

	return providers, nil
}

// initGateway opens the gateway and wraps it with metrics when enabled.
func (c *Container) initGateway(ctx context.Context) (tokenizationUseCase.Gateway, error) {
	logger := c.Logger()

	connections, err := c.ConnectionRegistry()
	if err != nil {
		return nil, err
	}

	providers, err := c.ProviderRegistry()
	if err != nil {
		return nil, err
	}

	codec, err := c.EnvelopeCodec(ctx)
	if err != nil {
		return nil, err
	}

	gateway, err := tokenizationUseCase.OpenGateway(
		ctx,
		connections,
		providers,
		codec,
		logger,
		c.config.TokenizationProvider,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open tokenization gateway: %w", err)
	}

	if !c.config.MetricsEnabled {
		return gateway, nil
	}

	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for gateway: %w", err)
	}
	err = metrics.RegisterConnectionGauge(
		metricsProvider.MeterProvider(),
		c.config.MetricsNamespace,
		func() (string, int, bool) {
			state := gateway.State()
			return state.Provider, state.Slot, state.Active
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register connection gauge: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for gateway: %w", err)
	}
	return tokenizationUseCase.NewGatewayUseCaseWithMetrics(gateway, businessMetrics), nil
}

// initTokenizationHandler creates the token HTTP handler.
func (c *Container) initTokenizationHandler(ctx context.Context) (*tokenizationHTTP.TokenizationHandler, error) {
	gateway, err := c.Gateway(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gateway for tokenization handler: %w", err)
	}
	return tokenizationHTTP.NewTokenizationHandler(gateway, c.Logger()), nil
}

// initConnectionHandler creates the connection HTTP handler.
func (c *Container) initConnectionHandler(ctx context.Context) (*tokenizationHTTP.ConnectionHandler, error) {
	gateway, err := c.Gateway(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gateway for connection handler: %w", err)
	}
	return tokenizationHTTP.NewConnectionHandler(gateway, c.Logger()), nil
}
