package domain

import (
	"fmt"
	"slices"
	"strings"
)

// PolicyDocument defines access control rules for a request path pattern.
type PolicyDocument struct {
	Path         string       `yaml:"path"         json:"path"`         // Supports "*" and "/*" wildcards
	Capabilities []Capability `yaml:"capabilities" json:"capabilities"` // Allowed operations on the path
}

// Client is an API caller. Secret holds the Argon2id hash of its bearer secret.
type Client struct {
	Name     string           `yaml:"name"     json:"name"`
	Secret   string           `yaml:"secret"   json:"secret"` //nolint:gosec // hashed secret
	IsActive bool             `yaml:"active"   json:"active"`
	Policies []PolicyDocument `yaml:"policies" json:"policies"`
}

// Validate checks that the client can take part in authentication.
func (c *Client) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidClient)
	}
	if c.Secret == "" {
		return fmt.Errorf("%w: client %q has no secret hash", ErrInvalidClient, c.Name)
	}
	for _, policy := range c.Policies {
		for _, capability := range policy.Capabilities {
			if !slices.Contains(Capabilities, capability) {
				return fmt.Errorf("%w: client %q has unknown capability %q", ErrInvalidClient, c.Name, capability)
			}
		}
	}
	return nil
}

// matchPath checks if the request path matches the policy path pattern.
//   - "*" matches any path
//   - "/v1/tokens/*" matches any path below "/v1/tokens/"
//   - "/v1/*/usage" matches paths where * is exactly one segment
func matchPath(policyPath, requestPath string) bool {
	if policyPath == "*" {
		return true
	}

	if !strings.Contains(policyPath, "*") {
		return policyPath == requestPath
	}

	if strings.HasSuffix(policyPath, "/*") {
		prefix := strings.TrimSuffix(policyPath, "/*")
		return strings.HasPrefix(requestPath, prefix+"/")
	}

	policyParts := strings.Split(policyPath, "/")
	requestParts := strings.Split(requestPath, "/")
	if len(policyParts) != len(requestParts) {
		return false
	}

	for i := range policyParts {
		if policyParts[i] == "*" {
			continue
		}
		if policyParts[i] != requestParts[i] {
			return false
		}
	}

	return true
}

// IsAllowed reports whether any policy matches path and grants capability.
// Matching is case-sensitive.
func (c *Client) IsAllowed(path string, capability Capability) bool {
	if path == "" || capability == "" {
		return false
	}

	for _, policy := range c.Policies {
		if matchPath(policy.Path, path) && slices.Contains(policy.Capabilities, capability) {
			return true
		}
	}

	return false
}
