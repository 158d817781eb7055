// Package provision defines the Resource Provisioner boundary and its
// Hetzner Cloud implementation. The provisioner turns a declarative spec
// into one reachable application server and reports the generated
// administrative credentials.
package provision

import "context"

// Spec is the declarative description of the compute resource to create.
// When SSHPublicKey is set, the provisioner registers it under SSHKeyName
// and owns the key's lifecycle; otherwise SSHKeyName must reference a key
// that already exists and is never deleted.
type Spec struct {
	Name         string
	Location     string
	ServerType   string
	Image        string
	AdminUser    string
	SSHKeyName   string
	SSHPublicKey string
	Labels       map[string]string
}

// Result holds the stable named outputs of a provisioning run.
// It is produced once and immutable afterward.
type Result struct {
	Address     string
	AdminUser   string
	AdminSecret string
	Ready       bool
}

// Provisioner creates and destroys the application server.
type Provisioner interface {
	Provision(ctx context.Context, spec Spec) (*Result, error)
	Destroy(ctx context.Context, spec Spec) error
}
