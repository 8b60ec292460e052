// Package registry resolves (provider, slot) pairs to vault connection descriptors.
package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	tokenizationDomain "github.com/allisson/tokenize/internal/tokenization/domain"
)

// ConnectionRegistry is a read-only view of the configured vault connections.
type ConnectionRegistry interface {
	// DescriptorFor returns the descriptor at the zero-based slot of provider. The
	// second value is false when the slot does not exist or the entry is incomplete.
	DescriptorFor(provider string, slot int) (tokenizationDomain.ConnectionDescriptor, bool)

	// Count returns the number of slots configured for provider, complete or not.
	Count(provider string) int
}

// Entry is a raw connection as it appears in configuration. Pointer fields tell a
// missing or null key apart from a zero value.
type Entry struct {
	Sandbox *bool   `yaml:"sandbox" json:"sandbox"`
	ID      *string `yaml:"id"      json:"id"`
	APIKey  *string `yaml:"apiKey"  json:"apiKey"`
}

// Descriptor converts the entry. It reports false when any field is absent.
func (e Entry) Descriptor() (tokenizationDomain.ConnectionDescriptor, bool) {
	if e.Sandbox == nil || e.ID == nil || e.APIKey == nil {
		return tokenizationDomain.ConnectionDescriptor{}, false
	}
	return tokenizationDomain.ConnectionDescriptor{
		Sandbox: *e.Sandbox,
		ID:      *e.ID,
		APIKey:  *e.APIKey,
	}, true
}

// File is the layout of the connections file:
//
//	connections:
//	  TokenEx:
//	    - sandbox: true
//	      id: "4311038889209736"
//	      apiKey: "54md8h1OmLe9oJwYdp182pCxKF2MLL3jqbLh2nCy"
type File struct {
	Connections map[string][]Entry `yaml:"connections"`
}

// StaticRegistry is an immutable ConnectionRegistry built from raw entries.
type StaticRegistry struct {
	connections map[string][]Entry
}

// New creates a StaticRegistry. The entries are copied.
func New(connections map[string][]Entry) *StaticRegistry {
	copied := make(map[string][]Entry, len(connections))
	for provider, entries := range connections {
		copied[provider] = append([]Entry(nil), entries...)
	}
	return &StaticRegistry{connections: copied}
}

// Parse decodes a connections document.
func Parse(data []byte) (*StaticRegistry, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse connections: %w", err)
	}
	return New(file.Connections), nil
}

// LoadFile reads and parses the connections file at path.
func LoadFile(path string) (*StaticRegistry, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("failed to read connections file: %w", err)
	}
	return Parse(data)
}

// DescriptorFor implements ConnectionRegistry.
func (r *StaticRegistry) DescriptorFor(
	provider string,
	slot int,
) (tokenizationDomain.ConnectionDescriptor, bool) {
	entries := r.connections[provider]
	if slot < 0 || slot >= len(entries) {
		return tokenizationDomain.ConnectionDescriptor{}, false
	}
	return entries[slot].Descriptor()
}

// Count implements ConnectionRegistry.
func (r *StaticRegistry) Count(provider string) int {
	return len(r.connections[provider])
}

// Providers returns the provider names that have at least one slot.
func (r *StaticRegistry) Providers() []string {
	names := make([]string, 0, len(r.connections))
	for name, entries := range r.connections {
		if len(entries) > 0 {
			names = append(names, name)
		}
	}
	return names
}
