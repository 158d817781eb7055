package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds configurable timeout values for external calls.
// These values can be customized via environment variables.
type Timeouts struct {
	ServerCreate      time.Duration // Timeout for server creation operations
	Delete            time.Duration // Timeout for delete operations
	Probe             time.Duration // Per-probe timeout for health checks
	SSHDial           time.Duration // Timeout for establishing one SSH connection
	Apply             time.Duration // Timeout for one configuration-apply run
	RetryMaxAttempts  int           // Maximum number of retry attempts
	RetryInitialDelay time.Duration // Initial delay between retries
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - STACKCTL_TIMEOUT_SERVER_CREATE (default: 10m)
//   - STACKCTL_TIMEOUT_DELETE (default: 5m)
//   - STACKCTL_TIMEOUT_PROBE (default: 10s)
//   - STACKCTL_TIMEOUT_SSH_DIAL (default: 10s)
//   - STACKCTL_TIMEOUT_APPLY (default: 30m)
//   - STACKCTL_RETRY_MAX_ATTEMPTS (default: 5)
//   - STACKCTL_RETRY_INITIAL_DELAY (default: 1s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		ServerCreate:      parseDuration("STACKCTL_TIMEOUT_SERVER_CREATE", 10*time.Minute),
		Delete:            parseDuration("STACKCTL_TIMEOUT_DELETE", 5*time.Minute),
		Probe:             parseDuration("STACKCTL_TIMEOUT_PROBE", 10*time.Second),
		SSHDial:           parseDuration("STACKCTL_TIMEOUT_SSH_DIAL", 10*time.Second),
		Apply:             parseDuration("STACKCTL_TIMEOUT_APPLY", 30*time.Minute),
		RetryMaxAttempts:  parseInt("STACKCTL_RETRY_MAX_ATTEMPTS", 5),
		RetryInitialDelay: parseDuration("STACKCTL_RETRY_INITIAL_DELAY", 1*time.Second),
	}
}

func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}
