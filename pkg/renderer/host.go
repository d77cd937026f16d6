package renderer

import (
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
	"go.uber.org/zap"
)

// HostInfo describes the machine a render runs on
type HostInfo struct {
	CPUModel     string
	LogicalCPUs  int
	PhysicalCPUs int
	TotalMemory  uint64 // bytes
}

// GetHostInfo queries CPU and memory information from the operating system
func GetHostInfo() (HostInfo, error) {
	var info HostInfo

	cpuInfo, err := cpu.Info()
	if err != nil {
		return info, fmt.Errorf("reading cpu info: %w", err)
	}
	if len(cpuInfo) > 0 {
		info.CPUModel = cpuInfo[0].ModelName
	}

	if info.LogicalCPUs, err = cpu.Counts(true); err != nil {
		return info, fmt.Errorf("counting logical cpus: %w", err)
	}
	if info.PhysicalCPUs, err = cpu.Counts(false); err != nil {
		return info, fmt.Errorf("counting physical cpus: %w", err)
	}

	memInfo, err := mem.VirtualMemory()
	if err != nil {
		return info, fmt.Errorf("reading memory info: %w", err)
	}
	info.TotalMemory = memInfo.Total

	return info, nil
}

// DefaultWorkers returns the logical CPU count, falling back to runtime.NumCPU
// when the operating system cannot be queried
func DefaultWorkers() int {
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// LogHostInfo logs the host description at info level; failures are logged at debug
func LogHostInfo(log *zap.Logger) {
	info, err := GetHostInfo()
	if err != nil {
		log.Debug("host info unavailable", zap.Error(err))
		return
	}
	log.Info("host",
		zap.String("cpu", info.CPUModel),
		zap.Int("logical_cpus", info.LogicalCPUs),
		zap.Int("physical_cpus", info.PhysicalCPUs),
		zap.Uint64("memory_mb", info.TotalMemory/(1024*1024)),
	)
}
