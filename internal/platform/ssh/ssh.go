// Package ssh provides the SSH client used to reach freshly provisioned
// hosts. It supports password authentication with the generated admin
// secret and bounded single-attempt probes; polling and retry policy
// belong to the callers.
//
// Security: host key verification is disabled by default because the host
// was created seconds ago and has no recorded key. Set HostKeyCallback for
// long-lived hosts.
package ssh

import (
	"context"
	"fmt"
	"net"
	"time"

	"golang.org/x/crypto/ssh"
)

const (
	defaultPort        = 22
	defaultDialTimeout = 10 * time.Second
)

// Config holds SSH client configuration.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string

	// DialTimeout bounds the TCP connect plus handshake of one attempt.
	// If zero, defaultDialTimeout is used.
	DialTimeout time.Duration

	// HostKeyCallback handles host key verification. If nil,
	// ssh.InsecureIgnoreHostKey() is used.
	HostKeyCallback ssh.HostKeyCallback
}

// Client executes commands on a remote host. Each call dials a fresh
// connection; nothing is cached between calls.
type Client struct {
	config Config
}

// NewClient validates cfg and returns a client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("ssh: host cannot be empty")
	}
	if cfg.User == "" {
		return nil, fmt.Errorf("ssh: user cannot be empty")
	}
	if cfg.Password == "" {
		return nil, fmt.Errorf("ssh: password cannot be empty")
	}
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = defaultDialTimeout
	}
	if cfg.HostKeyCallback == nil {
		cfg.HostKeyCallback = ssh.InsecureIgnoreHostKey() //nolint:gosec // Host was just created; no key to pin yet.
	}
	return &Client{config: cfg}, nil
}

// Execute dials once and runs command, returning combined output.
// The dial is bounded by DialTimeout and the context.
func (c *Client) Execute(ctx context.Context, command string) (string, error) {
	client, err := c.dial(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = client.Close() }()

	session, err := client.NewSession()
	if err != nil {
		return "", fmt.Errorf("failed to create SSH session on %s: %w", c.config.Host, err)
	}
	defer func() { _ = session.Close() }()

	output, err := session.CombinedOutput(command)
	if err != nil {
		return string(output), fmt.Errorf("command failed on %s: %w", c.config.Host, err)
	}
	return string(output), nil
}

// Probe makes a single bounded reachability attempt: dial, run a minimal
// command, disconnect. It never retries.
func (c *Client) Probe(ctx context.Context) error {
	_, err := c.Execute(ctx, "true")
	return err
}

func (c *Client) dial(ctx context.Context) (*ssh.Client, error) {
	clientConfig := &ssh.ClientConfig{
		User:            c.config.User,
		Auth:            []ssh.AuthMethod{ssh.Password(c.config.Password)},
		HostKeyCallback: c.config.HostKeyCallback,
		Timeout:         c.config.DialTimeout,
	}

	addr := net.JoinHostPort(c.config.Host, fmt.Sprintf("%d", c.config.Port))

	dialCtx, cancel := context.WithTimeout(ctx, c.config.DialTimeout)
	defer cancel()

	conn, err := (&net.Dialer{}).DialContext(dialCtx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", addr, err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, clientConfig)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("SSH handshake with %s failed: %w", addr, err)
	}
	return ssh.NewClient(sshConn, chans, reqs), nil
}
