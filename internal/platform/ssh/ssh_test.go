package ssh

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing host", Config{User: "deploy", Password: "x"}},
		{"missing user", Config{Host: "10.0.0.5", Password: "x"}},
		{"missing password", Config{Host: "10.0.0.5", User: "deploy"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c, err := NewClient(Config{Host: "10.0.0.5", User: "deploy", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, defaultPort, c.config.Port)
	assert.Equal(t, defaultDialTimeout, c.config.DialTimeout)
	assert.NotNil(t, c.config.HostKeyCallback)
}

func TestProbe_UnreachableHostFailsWithinTimeout(t *testing.T) {
	c, err := NewClient(Config{
		Host:        "127.0.0.1",
		Port:        1, // nothing listens here
		User:        "deploy",
		Password:    "x",
		DialTimeout: 500 * time.Millisecond,
	})
	require.NoError(t, err)

	start := time.Now()
	err = c.Probe(context.Background())
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}
