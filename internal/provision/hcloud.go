package provision

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/mvarga/stackctl/internal/platform/hcloud"
)

const secretLength = 24

// secretAlphabet excludes characters that need shell quoting in cloud-init.
const secretAlphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// HCloudProvisioner provisions the application server on Hetzner Cloud.
type HCloudProvisioner struct {
	client hcloud.Client
	logf   func(format string, v ...any)
}

// NewHCloudProvisioner wraps the given API client.
func NewHCloudProvisioner(client hcloud.Client, logf func(format string, v ...any)) *HCloudProvisioner {
	return &HCloudProvisioner{client: client, logf: logf}
}

// Provision creates the server described by spec. The admin secret is
// generated locally and injected via cloud-init; it never transits the
// cloud API response.
func (p *HCloudProvisioner) Provision(ctx context.Context, spec Spec) (*Result, error) {
	if existing, err := p.client.GetServerByName(ctx, spec.Name); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("server %s already exists; run destroy first", spec.Name)
	}

	secret, err := generateSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to generate admin secret: %w", err)
	}

	sshKeys := []string{}
	if spec.SSHKeyName != "" {
		if spec.SSHPublicKey != "" {
			if _, err := p.client.EnsureSSHKey(ctx, spec.SSHKeyName, spec.SSHPublicKey, spec.Labels); err != nil {
				return nil, fmt.Errorf("failed to register ssh key %s: %w", spec.SSHKeyName, err)
			}
		}
		sshKeys = append(sshKeys, spec.SSHKeyName)
	}

	p.logf("[provision] creating server %s (%s, %s, %s)", spec.Name, spec.ServerType, spec.Image, spec.Location)
	address, err := p.client.CreateServer(ctx, hcloud.ServerCreateOpts{
		Name:       spec.Name,
		ServerType: spec.ServerType,
		Image:      spec.Image,
		Location:   spec.Location,
		SSHKeys:    sshKeys,
		Labels:     spec.Labels,
		UserData:   buildUserData(spec.AdminUser, secret),
	})
	if err != nil {
		return nil, err
	}
	p.logf("[provision] server %s is up at %s", spec.Name, address)

	return &Result{
		Address:     address,
		AdminUser:   spec.AdminUser,
		AdminSecret: secret,
		Ready:       true,
	}, nil
}

// Destroy deletes the server. The bootstrap SSH key is removed only when
// this provisioner registered it; pre-existing keys are left alone.
func (p *HCloudProvisioner) Destroy(ctx context.Context, spec Spec) error {
	p.logf("[provision] deleting server %s", spec.Name)
	if err := p.client.DeleteServer(ctx, spec.Name); err != nil {
		return err
	}
	if spec.SSHKeyName != "" && spec.SSHPublicKey != "" {
		if err := p.client.DeleteSSHKey(ctx, spec.SSHKeyName); err != nil {
			return err
		}
	}
	return nil
}

// buildUserData renders the cloud-init document that creates the admin
// user with the generated secret and allows password SSH auth for it.
func buildUserData(user, secret string) string {
	var b strings.Builder
	b.WriteString("#cloud-config\n")
	b.WriteString("users:\n")
	fmt.Fprintf(&b, "  - name: %s\n", user)
	b.WriteString("    groups: [sudo, docker]\n")
	b.WriteString("    shell: /bin/bash\n")
	b.WriteString("    sudo: ['ALL=(ALL) NOPASSWD:ALL']\n")
	b.WriteString("    lock_passwd: false\n")
	b.WriteString("chpasswd:\n")
	b.WriteString("  expire: false\n")
	b.WriteString("  users:\n")
	fmt.Fprintf(&b, "    - name: %s\n", user)
	fmt.Fprintf(&b, "      password: %s\n", secret)
	b.WriteString("      type: text\n")
	b.WriteString("ssh_pwauth: true\n")
	return b.String()
}

func generateSecret() (string, error) {
	out := make([]byte, secretLength)
	max := big.NewInt(int64(len(secretAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = secretAlphabet[n.Int64()]
	}
	return string(out), nil
}
