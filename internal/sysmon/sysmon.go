package sysmon

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/shirou/gopsutil/v3/process"
)

// Usage is a resource snapshot of one process
type Usage struct {
	PID            int32
	MemoryMB       float64 // RSS in MB
	CPUTimesUser   float64 // Seconds
	CPUTimesSystem float64 // Seconds
	IOReadMB       float64 // Cumulative
	IOWriteMB      float64 // Cumulative
	NumThreads     int32
}

// Current returns a snapshot of the running process.
func Current() (*Usage, error) {
	return Of(int32(os.Getpid()))
}

// Of returns a snapshot of the process with the given PID. Metrics the
// platform cannot provide are left at zero.
func Of(pid int32) (*Usage, error) {
	p, err := process.NewProcess(pid)
	if err != nil {
		return nil, fmt.Errorf("process not found: %w", err)
	}

	usage := &Usage{
		PID: p.Pid,
	}

	// Get memory info
	if memInfo, err := p.MemoryInfo(); err == nil {
		usage.MemoryMB = float64(memInfo.RSS) / 1024 / 1024 // Convert bytes to MB
	}

	// Get CPU times
	if cpuTimes, err := p.Times(); err == nil {
		usage.CPUTimesUser = cpuTimes.User
		usage.CPUTimesSystem = cpuTimes.System
	}

	// Get IO counters (needs /proc/<pid>/io on Linux, may be restricted)
	if ioCounters, err := p.IOCounters(); err == nil {
		usage.IOReadMB = float64(ioCounters.ReadBytes) / 1024 / 1024
		usage.IOWriteMB = float64(ioCounters.WriteBytes) / 1024 / 1024
	}

	// Get number of threads
	if numThreads, err := p.NumThreads(); err == nil {
		usage.NumThreads = numThreads
	}

	return usage, nil
}

// LogValue renders the snapshot as a slog group.
func (u *Usage) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("pid", int(u.PID)),
		slog.Float64("memoryMB", u.MemoryMB),
		slog.Float64("cpuUser", u.CPUTimesUser),
		slog.Float64("cpuSystem", u.CPUTimesSystem),
		slog.Float64("ioReadMB", u.IOReadMB),
		slog.Float64("ioWriteMB", u.IOWriteMB),
		slog.Int("threads", int(u.NumThreads)),
	)
}
