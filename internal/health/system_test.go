package health

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func testProber(procPath string) *SystemProber {
	return &SystemProber{
		DiskPath: "/srv/app",
		procPath: procPath,
		statfs: func(_ string, buf *unix.Statfs_t) error {
			buf.Blocks = 1000
			buf.Bavail = 600
			buf.Bsize = 4096
			return nil
		},
		numCPU: func() int { return 4 },
	}
}

func TestSystemProbe_Healthy(t *testing.T) {
	verdicts := testProber("testdata/proc").Probe()
	require.Len(t, verdicts, 3)

	assert.Equal(t, "Memory", verdicts[0].Name)
	assert.Equal(t, StateUp, verdicts[0].State)
	assert.Contains(t, verdicts[0].Detail, "25.0% used")

	assert.Equal(t, "Load Average", verdicts[1].Name)
	assert.Equal(t, StateUp, verdicts[1].State)

	assert.Equal(t, "Disk (/srv/app)", verdicts[2].Name)
	assert.Equal(t, StateUp, verdicts[2].State)
	assert.Contains(t, verdicts[2].Detail, "40.0% used")
}

func TestSystemProbe_UnderPressure(t *testing.T) {
	p := testProber("testdata/proc_pressure")
	p.statfs = func(_ string, buf *unix.Statfs_t) error {
		buf.Blocks = 1000
		buf.Bavail = 20
		buf.Bsize = 4096
		return nil
	}
	verdicts := p.Probe()
	require.Len(t, verdicts, 3)

	assert.Equal(t, StateDown, verdicts[0].State, "95%% memory use is Down")
	assert.Equal(t, StateDown, verdicts[1].State, "load1 64 on 4 CPUs is Down")
	assert.Equal(t, StateDown, verdicts[2].State, "98%% disk use is Down")
}

func TestSystemProbe_StatfsError(t *testing.T) {
	p := testProber("testdata/proc")
	p.statfs = func(string, *unix.Statfs_t) error { return errors.New("no such device") }

	verdicts := p.Probe()
	assert.Equal(t, StateDown, verdicts[2].State)
	assert.Contains(t, verdicts[2].Detail, "no such device")
}

func TestSystemProbe_MissingProc(t *testing.T) {
	verdicts := testProber("testdata/nonexistent").Probe()
	assert.Equal(t, StateDown, verdicts[0].State)
	assert.Equal(t, StateDown, verdicts[1].State)
}
