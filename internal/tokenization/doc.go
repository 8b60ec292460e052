/*
Package tokenization replaces sensitive values with tokens issued by an external or local
vault, keeping one active connection and failing over across the configured ones.

# Architecture

  - domain: schemes, connection descriptors, action results and vault errors
  - registry: connection descriptors per provider, loaded from YAML
  - provider: the Tokenizer driver interface and the provider registry
  - provider/tokenex: TokenEx HTTP driver behind a circuit breaker
  - provider/memory: deterministic in-process driver for tests and local runs
  - provider/sqlvault, provider/redisvault: local vaults on PostgreSQL/MySQL or Redis
  - envelope: JSON envelope codec with optional AEAD or KMS encryption
  - service: local token generation (schemes, Luhn, charsets)
  - usecase: the gateway and its connection waterfall
  - http: HTTP handlers and DTOs

# Connection Waterfall

The gateway is bound to (provider, slot). When Store fails on the active driver the
gateway advances to the next slot and retries, at most once per configured connection:

	gateway, err := usecase.OpenGateway(ctx, connections, providers, codec, logger, "TokenEx")
	token, err := gateway.Store(ctx, map[string]any{"pan": "4111111111111111"}, "TOKENfour")

Only Store fails over. Get, Validate, Delete and the reports return driver errors
unchanged, and a cancelled context stops the waterfall. Running out of slots is
reported as a connection error.

# Action Results

Drivers record the normalized ActionResult of every vault call. StoreWithOutcome and
DeleteWithOutcome return the result of their own call together with the slot moves it
made; Errors and ReferenceNumber read the driver's last result, which concurrent calls
overwrite.

# Envelopes

Every payload is JSON encoded before it reaches the vault. With envelope encryption
enabled the JSON is sealed with AES-GCM or ChaCha20-Poly1305, or by a gocloud.dev
secrets keeper, so the vault only ever stores ciphertext.

# Constraints

  - Maximum envelope size: 64 KB
  - Maximum local token length: 255 characters
*/
package tokenization
