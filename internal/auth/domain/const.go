// Package domain defines API client authentication and authorization models.
// Clients authenticate with a bearer secret and are authorized through capability-based
// policies on request paths.
package domain

// Capability defines the operations a client may perform on the tokenization API.
type Capability string

const (
	// TokenizeCapability allows storing payloads in the vault.
	TokenizeCapability Capability = "tokenize"

	// DetokenizeCapability allows reading payloads back from the vault.
	DetokenizeCapability Capability = "detokenize"

	// ReadCapability allows validating tokens and reading connection state and reports.
	ReadCapability Capability = "read"

	// DeleteCapability allows removing tokens from the vault.
	DeleteCapability Capability = "delete"

	// WaterfallCapability allows advancing the gateway to the next connection.
	WaterfallCapability Capability = "waterfall"
)

// Capabilities lists every known capability.
var Capabilities = []Capability{
	TokenizeCapability,
	DetokenizeCapability,
	ReadCapability,
	DeleteCapability,
	WaterfallCapability,
}
