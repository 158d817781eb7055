// Package converge blocks until a freshly provisioned host accepts an
// administrative connection. This is the only place retry-by-polling
// lives; probes elsewhere are single attempts.
package converge

import (
	"context"
	"time"

	"github.com/mvarga/stackctl/internal/bridge"
	"github.com/mvarga/stackctl/internal/platform/ssh"
)

// State is the waiter's observable position in its bounded state machine.
type State string

const (
	StateWaiting  State = "Waiting"
	StateReady    State = "Ready"
	StateTimedOut State = "TimedOut"
)

// Prober makes one bounded reachability attempt against the host.
type Prober interface {
	Probe(ctx context.Context) error
}

// Waiter polls a Prober sequentially at Interval until the first success
// or until Timeout elapses. Probes are sequential on purpose: the host is
// either reachable or not, and hammering it during boot helps nobody.
type Waiter struct {
	Timeout  time.Duration
	Interval time.Duration
	Logf     func(format string, v ...any)

	state State
}

// NewWaiter returns a waiter in the Waiting state.
func NewWaiter(timeout, interval time.Duration, logf func(format string, v ...any)) *Waiter {
	return &Waiter{Timeout: timeout, Interval: interval, Logf: logf, state: StateWaiting}
}

// State returns the waiter's terminal state after Await, or Waiting before.
func (w *Waiter) State() State { return w.state }

// Await returns true on the first successful probe and never probes again
// afterward. It returns false, never an error, when the timeout elapses or
// the context is cancelled without a success.
func (w *Waiter) Await(ctx context.Context, prober Prober) bool {
	deadline := time.Now().Add(w.Timeout)
	attempt := 0

	for time.Now().Before(deadline) {
		attempt++
		if err := prober.Probe(ctx); err == nil {
			w.Logf("[converge] host reachable after %d probes", attempt)
			w.state = StateReady
			return true
		} else {
			w.Logf("[converge] probe %d failed: %v", attempt, err)
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		wait := w.Interval
		if wait > remaining {
			wait = remaining
		}
		select {
		case <-ctx.Done():
			w.state = StateTimedOut
			return false
		case <-time.After(wait):
		}
	}

	w.state = StateTimedOut
	return false
}

// SSHProber adapts the SSH client to the Prober interface.
type SSHProber struct {
	Client *ssh.Client
}

// Probe runs a minimal remote command over one SSH connection.
func (p *SSHProber) Probe(ctx context.Context) error {
	return p.Client.Probe(ctx)
}

// NewSSHProber builds a prober from a connection descriptor.
func NewSSHProber(desc *bridge.ConnectionDescriptor, dialTimeout time.Duration) (*SSHProber, error) {
	client, err := ssh.NewClient(ssh.Config{
		Host:        desc.Address,
		User:        desc.AdminUser,
		Password:    desc.AdminSecret,
		DialTimeout: dialTimeout,
	})
	if err != nil {
		return nil, err
	}
	return &SSHProber{Client: client}, nil
}
