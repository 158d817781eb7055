package health

import (
	"context"

	"github.com/mvarga/stackctl/internal/runtime"
)

// ProbeRuntime inspects the container engine and every workload container.
// The first verdict covers the engine itself; one verdict per container
// follows, in the order the engine lists them. A running container without
// a configured health check is NoCheckConfigured, never Down.
func ProbeRuntime(ctx context.Context, engine runtime.Engine) []Verdict {
	const engineName = "Container Engine"

	version, err := engine.Ping(ctx)
	if err != nil {
		return []Verdict{downVerdict(engineName, 0, err)}
	}
	verdicts := []Verdict{upVerdict(engineName, 0, "version "+version)}

	containers, err := engine.ListContainers(ctx)
	if err != nil {
		return append(verdicts, downVerdict("Containers", 0, err))
	}

	for _, c := range containers {
		verdicts = append(verdicts, containerVerdict(c))
	}
	return verdicts
}

func containerVerdict(c runtime.Container) Verdict {
	if !c.Running {
		return downVerdictf(c.Name, "not running (%s)", c.Image)
	}
	switch c.Health {
	case runtime.HealthHealthy:
		return upVerdict(c.Name, 0, "healthy")
	case runtime.HealthNone:
		return Verdict{Name: c.Name, State: StateNoCheck, Detail: "running, no health check configured"}
	default:
		return downVerdictf(c.Name, "health check failing")
	}
}
