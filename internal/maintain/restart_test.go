package maintain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestartResolvesGroup(t *testing.T) {
	engine := &fakeEngine{}
	r := NewRestarter(engine, map[string][]string{"web": {"nginx", "app"}})
	r.Logf = func(string, ...any) {}

	require.NoError(t, r.Restart(context.Background(), "web"))
	assert.Equal(t, []string{"nginx", "app"}, engine.restarted)
}

func TestRestartSingleService(t *testing.T) {
	engine := &fakeEngine{}
	r := NewRestarter(engine, map[string][]string{"web": {"nginx", "app"}})
	r.Logf = func(string, ...any) {}

	require.NoError(t, r.Restart(context.Background(), "postgres"))
	assert.Equal(t, []string{"postgres"}, engine.restarted)
}

func TestRestartAttemptsAllMembersOnFailure(t *testing.T) {
	engine := &fakeEngine{restartErr: map[string]error{"nginx": errors.New("timeout")}}
	r := NewRestarter(engine, map[string][]string{"web": {"nginx", "app"}})
	r.Logf = func(string, ...any) {}

	err := r.Restart(context.Background(), "web")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nginx")
	assert.Equal(t, []string{"nginx", "app"}, engine.restarted, "a failed member must not stop the rest")
}
