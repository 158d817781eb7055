// Package hcloud wraps the Hetzner Cloud API behind the small surface the
// provisioner needs: create and delete one application server, manage the
// SSH key used for bootstrap access.
package hcloud

import (
	"context"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// ServerCreateOpts holds all parameters for creating a server.
type ServerCreateOpts struct {
	Name       string
	ServerType string
	Image      string
	Location   string
	SSHKeys    []string
	Labels     map[string]string
	UserData   string
}

// Client defines the Hetzner Cloud operations used by the provisioner.
type Client interface {
	// CreateServer creates a server and blocks until the create action
	// finishes. Returns the server's public IPv4 address.
	CreateServer(ctx context.Context, opts ServerCreateOpts) (string, error)
	// DeleteServer removes the named server. Deleting a server that does
	// not exist is not an error.
	DeleteServer(ctx context.Context, name string) error
	// GetServerByName returns the server or nil when absent.
	GetServerByName(ctx context.Context, name string) (*hcloud.Server, error)
	// EnsureSSHKey uploads the public key under name if it is not
	// already registered, returning the key's ID.
	EnsureSSHKey(ctx context.Context, name, publicKey string, labels map[string]string) (int64, error)
	// DeleteSSHKey removes the named key; absent keys are not an error.
	DeleteSSHKey(ctx context.Context, name string) error
}
