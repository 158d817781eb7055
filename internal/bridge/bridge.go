// Package bridge converts provisioner outputs into the connection
// descriptor and inventory consumed by the Configuration Applier.
//
// The descriptor carries the generated admin secret, so every persisted
// artifact is written with owner-only permissions via temp-file-plus-rename,
// and the secret is redacted from all printable forms.
package bridge

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mvarga/stackctl/internal/provision"
)

const artifactMode = 0o600

// IncompleteProvisionError reports a malformed or not-ready provision result.
type IncompleteProvisionError struct {
	Reason string
}

func (e *IncompleteProvisionError) Error() string {
	return fmt.Sprintf("incomplete provision result: %s", e.Reason)
}

// ConnectionDescriptor is the bridge's output: everything needed to reach
// the provisioned host administratively.
type ConnectionDescriptor struct {
	Address     string `yaml:"address"`
	AdminUser   string `yaml:"admin_user"`
	AdminSecret string `yaml:"admin_secret"`
	SSHCommand  string `yaml:"ssh_command"`
	SavedAt     string `yaml:"saved_at"`
}

// String renders the descriptor with the secret redacted.
func (d *ConnectionDescriptor) String() string {
	return fmt.Sprintf("%s@%s (secret redacted)", d.AdminUser, d.Address)
}

// Bridge derives a ConnectionDescriptor from result and persists it to
// descriptorPath along with an Ansible inventory at inventoryPath.
// It fails with IncompleteProvisionError before writing anything if the
// result is not ready or has empty fields.
func Bridge(result *provision.Result, descriptorPath, inventoryPath string) (*ConnectionDescriptor, error) {
	if err := validate(result); err != nil {
		return nil, err
	}

	desc := &ConnectionDescriptor{
		Address:     result.Address,
		AdminUser:   result.AdminUser,
		AdminSecret: result.AdminSecret,
		SSHCommand:  fmt.Sprintf("ssh %s@%s", result.AdminUser, result.Address),
		SavedAt:     time.Now().UTC().Format(time.RFC3339),
	}

	content, err := yaml.Marshal(desc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal descriptor: %w", err)
	}
	if err := writeRestricted(descriptorPath, content); err != nil {
		return nil, fmt.Errorf("failed to write descriptor: %w", err)
	}

	if err := writeRestricted(inventoryPath, inventory(desc)); err != nil {
		return nil, fmt.Errorf("failed to write inventory: %w", err)
	}

	return desc, nil
}

// Load reads a previously persisted descriptor.
func Load(descriptorPath string) (*ConnectionDescriptor, error) {
	data, err := os.ReadFile(descriptorPath) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to read descriptor: %w", err)
	}
	var desc ConnectionDescriptor
	if err := yaml.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("failed to parse descriptor: %w", err)
	}
	return &desc, nil
}

func validate(result *provision.Result) error {
	switch {
	case result == nil:
		return &IncompleteProvisionError{Reason: "nil result"}
	case !result.Ready:
		return &IncompleteProvisionError{Reason: "provisioner did not report ready"}
	case result.Address == "":
		return &IncompleteProvisionError{Reason: "empty address"}
	case result.AdminUser == "":
		return &IncompleteProvisionError{Reason: "empty admin user"}
	case result.AdminSecret == "":
		return &IncompleteProvisionError{Reason: "empty admin secret"}
	}
	return nil
}

// inventory renders a minimal INI inventory for the Configuration Applier.
func inventory(desc *ConnectionDescriptor) []byte {
	return fmt.Appendf(nil,
		"[app]\n%s ansible_user=%s ansible_password=%s ansible_ssh_common_args='-o StrictHostKeyChecking=no'\n",
		desc.Address, desc.AdminUser, desc.AdminSecret)
}

// writeRestricted writes content with owner-only permissions, atomically:
// a reader never observes a partial file.
func writeRestricted(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := tmp.Chmod(artifactMode); err != nil {
		_ = tmp.Close()
		return err
	}
	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
