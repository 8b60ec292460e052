// Package repository loads API client definitions.
package repository

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	authDomain "github.com/allisson/tokenize/internal/auth/domain"
	apperrors "github.com/allisson/tokenize/internal/errors"
)

// ClientsFile is the layout of the clients file:
//
//	clients:
//	  - name: checkout
//	    secret: "$argon2id$v=19$m=65536,t=3,p=4$..."
//	    active: true
//	    policies:
//	      - path: "/v1/tokens"
//	        capabilities: ["tokenize"]
type ClientsFile struct {
	Clients []authDomain.Client `yaml:"clients"`
}

// YAMLClientRepository holds the clients read from a YAML document.
type YAMLClientRepository struct {
	clients []*authDomain.Client
}

// ParseClients decodes and validates a clients document. Client names must be unique.
func ParseClients(data []byte) (*YAMLClientRepository, error) {
	var file ClientsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, apperrors.Wrap(err, "failed to parse clients")
	}

	seen := make(map[string]struct{}, len(file.Clients))
	clients := make([]*authDomain.Client, 0, len(file.Clients))
	for i := range file.Clients {
		client := file.Clients[i]
		if err := client.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seen[client.Name]; ok {
			return nil, fmt.Errorf("%w: duplicate client %q", authDomain.ErrInvalidClient, client.Name)
		}
		seen[client.Name] = struct{}{}
		clients = append(clients, &client)
	}

	return &YAMLClientRepository{clients: clients}, nil
}

// LoadClientsFile reads and parses the clients file at path.
func LoadClientsFile(path string) (*YAMLClientRepository, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to read clients file")
	}
	return ParseClients(data)
}

// List returns every configured client.
func (r *YAMLClientRepository) List(ctx context.Context) ([]*authDomain.Client, error) {
	clients := make([]*authDomain.Client, len(r.clients))
	copy(clients, r.clients)
	return clients, nil
}
