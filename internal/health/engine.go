package health

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mvarga/stackctl/internal/util/async"
)

// defaultMaxParallel caps concurrent endpoint probes so a large endpoint
// list cannot self-inflict load on the probed stack.
const defaultMaxParallel = 8

// Engine issues bounded-timeout endpoint probes.
type Engine struct {
	// Client issues the probe requests. Redirects are followed; only the
	// final status matters.
	Client *http.Client
	// ProbeTimeout bounds each individual probe.
	ProbeTimeout time.Duration
	// MaxParallel bounds concurrent probes; min(len(specs), MaxParallel)
	// workers run.
	MaxParallel int
}

// NewEngine returns an engine with the default concurrency bound.
func NewEngine(probeTimeout time.Duration) *Engine {
	return &Engine{
		Client:       &http.Client{},
		ProbeTimeout: probeTimeout,
		MaxParallel:  defaultMaxParallel,
	}
}

// ProbeAll probes every spec and returns exactly len(specs) verdicts in
// input order. No probe's failure aborts the rest.
func (e *Engine) ProbeAll(ctx context.Context, specs []EndpointSpec) []Verdict {
	return async.Map(ctx, specs, e.MaxParallel, e.probe)
}

// probe issues one GET bounded by ProbeTimeout. A 2xx response is Up;
// everything else (non-2xx, timeout, connection error, bad URL) is Down.
func (e *Engine) probe(ctx context.Context, spec EndpointSpec) Verdict {
	target, err := probeURL(spec)
	if err != nil {
		return downVerdictf(spec.Name, "invalid probe url: %v", err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.ProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return downVerdictf(spec.Name, "building request: %v", err)
	}

	start := time.Now()
	resp, err := e.Client.Do(req)
	latency := time.Since(start)
	if err != nil {
		return downVerdict(spec.Name, latency, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return downVerdictf(spec.Name, "status %d", resp.StatusCode)
	}
	return upVerdict(spec.Name, latency, fmt.Sprintf("status %d", resp.StatusCode))
}

// probeURL resolves the spec's readiness path against its base URL.
func probeURL(spec EndpointSpec) (string, error) {
	u, err := url.Parse(spec.URL)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("url %q has no scheme or host", spec.URL)
	}
	if spec.ReadyPath != "" {
		u.Path = spec.ReadyPath
	}
	return u.String(), nil
}
