package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbeAll_VerdictCountAndOrder(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ok.Close()

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer failing.Close()

	specs := []EndpointSpec{
		{Name: "Main App", URL: ok.URL},
		{Name: "Grafana", URL: failing.URL},
		{Name: "Ghost", URL: "http://127.0.0.1:1"}, // connection refused
		{Name: "Again", URL: ok.URL},
	}

	engine := NewEngine(2 * time.Second)
	verdicts := engine.ProbeAll(context.Background(), specs)

	require.Len(t, verdicts, len(specs), "one verdict per spec, no silent drops")
	assert.Equal(t, "Main App", verdicts[0].Name)
	assert.Equal(t, "Grafana", verdicts[1].Name)
	assert.Equal(t, "Ghost", verdicts[2].Name)
	assert.Equal(t, "Again", verdicts[3].Name)

	assert.Equal(t, StateUp, verdicts[0].State)
	assert.Equal(t, StateDown, verdicts[1].State)
	assert.Contains(t, verdicts[1].Detail, "502")
	assert.Equal(t, StateDown, verdicts[2].State)
	assert.Equal(t, StateUp, verdicts[3].State)
}

func TestProbeAll_TimeoutYieldsDown(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(2 * time.Second)
		w.WriteHeader(http.StatusOK)
	}))
	defer slow.Close()

	engine := NewEngine(100 * time.Millisecond)
	start := time.Now()
	verdicts := engine.ProbeAll(context.Background(), []EndpointSpec{{Name: "Slow", URL: slow.URL}})

	require.Len(t, verdicts, 1)
	assert.Equal(t, StateDown, verdicts[0].State)
	assert.Less(t, time.Since(start), time.Second, "a hung probe must not exceed its timeout")
}

func TestProbeAll_ReadyPathUsed(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	engine := NewEngine(time.Second)
	verdicts := engine.ProbeAll(context.Background(), []EndpointSpec{
		{Name: "App", URL: srv.URL, ReadyPath: "/api/health"},
	})

	assert.Equal(t, StateUp, verdicts[0].State)
	assert.Equal(t, "/api/health", gotPath)
}

func TestProbeAll_EmptySpecList(t *testing.T) {
	engine := NewEngine(time.Second)
	assert.Empty(t, engine.ProbeAll(context.Background(), nil))
}

func TestProbeAll_InvalidURL(t *testing.T) {
	engine := NewEngine(time.Second)
	verdicts := engine.ProbeAll(context.Background(), []EndpointSpec{{Name: "Bad", URL: "not-a-url"}})
	require.Len(t, verdicts, 1)
	assert.Equal(t, StateDown, verdicts[0].State)
}

func TestProbeAll_ParallelFasterThanSum(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer slow.Close()

	specs := make([]EndpointSpec, 6)
	for i := range specs {
		specs[i] = EndpointSpec{Name: "ep", URL: slow.URL}
	}

	engine := NewEngine(2 * time.Second)
	start := time.Now()
	verdicts := engine.ProbeAll(context.Background(), specs)
	elapsed := time.Since(start)

	require.Len(t, verdicts, 6)
	assert.Less(t, elapsed, 6*200*time.Millisecond, "probes must overlap")
}
