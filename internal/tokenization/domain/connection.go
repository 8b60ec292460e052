package domain

// ConnectionDescriptor identifies one credentialed vault endpoint for a provider.
type ConnectionDescriptor struct {
	Sandbox bool
	ID      string
	APIKey  string
}

// GatewayState is the snapshot of which connection the gateway currently drives.
// Slot is zero-based; Active is false until the first successful initialization.
type GatewayState struct {
	Provider string
	Slot     int
	Active   bool
}
