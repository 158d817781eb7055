package hcloud

import (
	"context"
	"fmt"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/mvarga/stackctl/internal/config"
	"github.com/mvarga/stackctl/internal/util/retry"
)

// RealClient implements Client against the Hetzner Cloud API.
type RealClient struct {
	client   *hcloud.Client
	timeouts *config.Timeouts
}

// ClientOption configures a RealClient.
type ClientOption func(*RealClient)

// WithTimeouts sets custom timeouts for the client.
func WithTimeouts(t *config.Timeouts) ClientOption {
	return func(c *RealClient) { c.timeouts = t }
}

// WithHCloudClient sets a custom hcloud client (useful for testing).
func WithHCloudClient(hc *hcloud.Client) ClientOption {
	return func(c *RealClient) { c.client = hc }
}

// NewRealClient creates a RealClient authenticated with token.
func NewRealClient(token string, opts ...ClientOption) *RealClient {
	c := &RealClient{
		client:   hcloud.NewClient(hcloud.WithToken(token)),
		timeouts: config.LoadTimeouts(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateServer creates a server and waits for the create action to finish.
func (c *RealClient) CreateServer(ctx context.Context, opts ServerCreateOpts) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.ServerCreate)
	defer cancel()

	createOpts, err := c.buildServerCreateOpts(ctx, opts)
	if err != nil {
		return "", err
	}

	var result hcloud.ServerCreateResult
	err = retry.Do(ctx, func() error {
		res, _, err := c.client.Server.Create(ctx, createOpts)
		if err != nil {
			if isInvalidParameter(err) {
				return retry.Fatal(err)
			}
			return err
		}
		result = res
		return nil
	}, retry.WithMaxAttempts(c.timeouts.RetryMaxAttempts), retry.WithInitialDelay(c.timeouts.RetryInitialDelay))
	if err != nil {
		return "", fmt.Errorf("failed to create server: %w", err)
	}

	if err := c.client.Action.WaitFor(ctx, result.Action); err != nil {
		return "", fmt.Errorf("failed to wait for server creation: %w", err)
	}

	server, _, err := c.client.Server.GetByID(ctx, result.Server.ID)
	if err != nil {
		return "", fmt.Errorf("failed to re-read server after creation: %w", err)
	}
	if server == nil || server.PublicNet.IPv4.IP == nil {
		return "", fmt.Errorf("server %s has no public IPv4 address", opts.Name)
	}
	return server.PublicNet.IPv4.IP.String(), nil
}

func (c *RealClient) buildServerCreateOpts(ctx context.Context, opts ServerCreateOpts) (hcloud.ServerCreateOpts, error) {
	serverType, _, err := c.client.ServerType.Get(ctx, opts.ServerType)
	if err != nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("failed to get server type: %w", err)
	}
	if serverType == nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("server type not found: %s", opts.ServerType)
	}

	image, _, err := c.client.Image.GetByNameAndArchitecture(ctx, opts.Image, serverType.Architecture)
	if err != nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("failed to get image: %w", err)
	}
	if image == nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("image not found: %s", opts.Image)
	}

	location, _, err := c.client.Location.Get(ctx, opts.Location)
	if err != nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("failed to get location: %w", err)
	}
	if location == nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("location not found: %s", opts.Location)
	}

	sshKeys := make([]*hcloud.SSHKey, 0, len(opts.SSHKeys))
	for _, name := range opts.SSHKeys {
		key, _, err := c.client.SSHKey.Get(ctx, name)
		if err != nil {
			return hcloud.ServerCreateOpts{}, fmt.Errorf("failed to get ssh key %s: %w", name, err)
		}
		if key == nil {
			return hcloud.ServerCreateOpts{}, fmt.Errorf("ssh key not found: %s", name)
		}
		sshKeys = append(sshKeys, key)
	}

	return hcloud.ServerCreateOpts{
		Name:       opts.Name,
		ServerType: serverType,
		Image:      image,
		Location:   location,
		SSHKeys:    sshKeys,
		Labels:     opts.Labels,
		UserData:   opts.UserData,
	}, nil
}

// DeleteServer deletes the named server; a missing server is not an error.
func (c *RealClient) DeleteServer(ctx context.Context, name string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.Delete)
	defer cancel()

	server, _, err := c.client.Server.Get(ctx, name)
	if err != nil {
		if IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to get server %s: %w", name, err)
	}
	if server == nil {
		return nil
	}
	if _, _, err := c.client.Server.DeleteWithResult(ctx, server); err != nil {
		return fmt.Errorf("failed to delete server %s: %w", name, err)
	}
	return nil
}

// GetServerByName returns the full server object by name, or nil if not found.
func (c *RealClient) GetServerByName(ctx context.Context, name string) (*hcloud.Server, error) {
	server, _, err := c.client.Server.Get(ctx, name)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get server %s: %w", name, err)
	}
	return server, nil
}

// EnsureSSHKey uploads publicKey under name unless a key with that name exists.
func (c *RealClient) EnsureSSHKey(ctx context.Context, name, publicKey string, labels map[string]string) (int64, error) {
	existing, _, err := c.client.SSHKey.Get(ctx, name)
	if err != nil && !IsNotFound(err) {
		return 0, fmt.Errorf("failed to look up ssh key %s: %w", name, err)
	}
	if existing != nil {
		return existing.ID, nil
	}

	key, _, err := c.client.SSHKey.Create(ctx, hcloud.SSHKeyCreateOpts{
		Name:      name,
		PublicKey: publicKey,
		Labels:    labels,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create ssh key %s: %w", name, err)
	}
	return key.ID, nil
}

// DeleteSSHKey removes the named key; a missing key is not an error.
func (c *RealClient) DeleteSSHKey(ctx context.Context, name string) error {
	key, _, err := c.client.SSHKey.Get(ctx, name)
	if err != nil {
		if IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to look up ssh key %s: %w", name, err)
	}
	if key == nil {
		return nil
	}
	if _, err := c.client.SSHKey.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to delete ssh key %s: %w", name, err)
	}
	return nil
}
