package health

import (
	"fmt"
	"runtime"

	"github.com/prometheus/procfs"
	"golang.org/x/sys/unix"
)

// Resource pressure thresholds. Above these a resource probe is Down.
const (
	memoryUsedDownPercent = 90.0
	diskUsedDownPercent   = 90.0
	loadPerCPUDown        = 4.0
)

// SystemProber reads local resource state: memory, load, disk. Read-only
// introspection, no external calls.
type SystemProber struct {
	// DiskPath is the filesystem whose usage is probed (the deploy root).
	DiskPath string

	procPath string
	statfs   func(path string, buf *unix.Statfs_t) error
	numCPU   func() int
}

// NewSystemProber probes the default /proc and the given disk path.
func NewSystemProber(diskPath string) *SystemProber {
	return &SystemProber{
		DiskPath: diskPath,
		procPath: procfs.DefaultMountPoint,
		statfs:   unix.Statfs,
		numCPU:   runtime.NumCPU,
	}
}

// Probe returns the three resource verdicts in fixed order:
// memory, load average, disk.
func (p *SystemProber) Probe() []Verdict {
	return []Verdict{
		p.probeMemory(),
		p.probeLoad(),
		p.probeDisk(),
	}
}

func (p *SystemProber) probeMemory() Verdict {
	const name = "Memory"
	fs, err := procfs.NewFS(p.procPath)
	if err != nil {
		return downVerdictf(name, "reading procfs: %v", err)
	}
	mi, err := fs.Meminfo()
	if err != nil {
		return downVerdictf(name, "reading meminfo: %v", err)
	}
	if mi.MemTotal == nil || mi.MemAvailable == nil || *mi.MemTotal == 0 {
		return downVerdictf(name, "meminfo missing MemTotal/MemAvailable")
	}

	usedPercent := 100.0 * float64(*mi.MemTotal-*mi.MemAvailable) / float64(*mi.MemTotal)
	detail := fmt.Sprintf("%.1f%% used of %d MiB", usedPercent, *mi.MemTotal/1024)
	if usedPercent > memoryUsedDownPercent {
		return downVerdictf(name, "%s", detail)
	}
	return upVerdict(name, 0, detail)
}

func (p *SystemProber) probeLoad() Verdict {
	const name = "Load Average"
	fs, err := procfs.NewFS(p.procPath)
	if err != nil {
		return downVerdictf(name, "reading procfs: %v", err)
	}
	load, err := fs.LoadAvg()
	if err != nil {
		return downVerdictf(name, "reading loadavg: %v", err)
	}

	cpus := p.numCPU()
	perCPU := load.Load1 / float64(cpus)
	detail := fmt.Sprintf("load1 %.2f on %d CPUs", load.Load1, cpus)
	if perCPU > loadPerCPUDown {
		return downVerdictf(name, "%s", detail)
	}
	return upVerdict(name, 0, detail)
}

func (p *SystemProber) probeDisk() Verdict {
	name := fmt.Sprintf("Disk (%s)", p.DiskPath)
	var stat unix.Statfs_t
	if err := p.statfs(p.DiskPath, &stat); err != nil {
		return downVerdictf(name, "statfs: %v", err)
	}
	if stat.Blocks == 0 {
		return downVerdictf(name, "statfs reported zero blocks")
	}

	usedPercent := 100.0 * float64(stat.Blocks-stat.Bavail) / float64(stat.Blocks)
	totalGiB := float64(stat.Blocks) * float64(stat.Bsize) / (1 << 30)
	detail := fmt.Sprintf("%.1f%% used of %.1f GiB", usedPercent, totalGiB)
	if usedPercent > diskUsedDownPercent {
		return downVerdictf(name, "%s", detail)
	}
	return upVerdict(name, 0, detail)
}
