package runtime

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// ComposeEngine drives the docker CLI for one compose project. Every query
// uses --format json so results are structured, never scraped text.
type ComposeEngine struct {
	Project string
	Logf    func(format string, v ...any)

	run func(ctx context.Context, args ...string) ([]byte, error)
}

// NewComposeEngine returns an engine scoped to the given compose project.
func NewComposeEngine(project string, logf func(format string, v ...any)) *ComposeEngine {
	e := &ComposeEngine{Project: project, Logf: logf}
	e.run = func(ctx context.Context, args ...string) ([]byte, error) {
		out, err := exec.CommandContext(ctx, "docker", args...).CombinedOutput() // #nosec G204
		if err != nil {
			return out, fmt.Errorf("docker %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(out)))
		}
		return out, nil
	}
	return e
}

// Ping verifies the engine responds and returns its server version.
func (e *ComposeEngine) Ping(ctx context.Context) (string, error) {
	out, err := e.run(ctx, "version", "--format", "{{json .Server.Version}}")
	if err != nil {
		return "", err
	}
	var version string
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(out))), &version); err != nil {
		return "", fmt.Errorf("unexpected docker version output: %w", err)
	}
	return version, nil
}

// psEntry is the subset of `docker ps --format json` we consume.
type psEntry struct {
	Names string `json:"Names"`
	Image string `json:"Image"`
	State string `json:"State"`
}

// inspectState is the subset of `docker inspect` container state we consume.
type inspectState struct {
	Status string `json:"Status"`
	Health *struct {
		Status string `json:"Status"`
	} `json:"Health"`
}

// ListContainers returns the project's containers with their health
// classification. A container whose engine state carries no Health block
// is HealthNone, never unhealthy.
func (e *ComposeEngine) ListContainers(ctx context.Context) ([]Container, error) {
	args := []string{"ps", "-a", "--format", "{{json .}}"}
	if e.Project != "" {
		args = append(args, "--filter", "label=com.docker.compose.project="+e.Project)
	}
	out, err := e.run(ctx, args...)
	if err != nil {
		return nil, err
	}

	var containers []Container
	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var entry psEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return nil, fmt.Errorf("unexpected docker ps output: %w", err)
		}

		c := Container{
			Name:    entry.Names,
			Image:   entry.Image,
			Running: entry.State == "running",
			Health:  HealthNone,
		}
		state, err := e.inspect(ctx, entry.Names)
		if err != nil {
			return nil, err
		}
		if state.Health != nil {
			switch state.Health.Status {
			case "healthy":
				c.Health = HealthHealthy
			case "starting":
				c.Health = HealthHealthy // converging, not failing
			default:
				c.Health = HealthUnhealthy
			}
		}
		containers = append(containers, c)
	}
	return containers, nil
}

func (e *ComposeEngine) inspect(ctx context.Context, name string) (*inspectState, error) {
	out, err := e.run(ctx, "inspect", "--format", "{{json .State}}", name)
	if err != nil {
		return nil, err
	}
	var state inspectState
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(out))), &state); err != nil {
		return nil, fmt.Errorf("unexpected docker inspect output for %s: %w", name, err)
	}
	return &state, nil
}

// Pull fetches a newer version of image.
func (e *ComposeEngine) Pull(ctx context.Context, image string) error {
	e.Logf("[runtime] pulling %s", image)
	_, err := e.run(ctx, "pull", image)
	return err
}

// RestartService restarts one compose service without touching siblings.
func (e *ComposeEngine) RestartService(ctx context.Context, service string) error {
	e.Logf("[runtime] restarting %s", service)
	_, err := e.run(ctx, "compose", "-p", e.Project, "restart", service)
	return err
}

// PruneUnused removes dangling images and unused volumes only.
func (e *ComposeEngine) PruneUnused(ctx context.Context) error {
	if _, err := e.run(ctx, "image", "prune", "-f"); err != nil {
		return err
	}
	_, err := e.run(ctx, "volume", "prune", "-f")
	return err
}

// StreamLogs follows a service's logs. Closing the reader (or cancelling
// ctx) terminates the underlying process promptly.
func (e *ComposeEngine) StreamLogs(ctx context.Context, service string) (io.ReadCloser, error) {
	cmd := exec.CommandContext(ctx, "docker", "compose", "-p", e.Project, "logs", "-f", "--no-color", service) // #nosec G204
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open log pipe: %w", err)
	}
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start log stream: %w", err)
	}
	return &processStream{reader: stdout, cmd: cmd}, nil
}

// processStream ties a pipe reader to its producing process so Close
// releases both.
type processStream struct {
	reader io.ReadCloser
	cmd    *exec.Cmd
}

func (s *processStream) Read(p []byte) (int, error) { return s.reader.Read(p) }

func (s *processStream) Close() error {
	_ = s.cmd.Process.Kill()
	err := s.reader.Close()
	_ = s.cmd.Wait()
	return err
}
