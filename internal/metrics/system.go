// Package metrics collects host-level telemetry for the diagnostic API.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/gamelink/platform-controller/internal/logger"
)

// Snapshot is a point-in-time picture of host health. Fields from failed
// sources are left at their zero values; collection never fails outright.
type Snapshot struct {
	Timestamp time.Time `json:"timestamp"`

	CPUPercent float64 `json:"cpu_percent"`
	Load1      float64 `json:"load_1"`
	Load5      float64 `json:"load_5"`
	Load15     float64 `json:"load_15"`

	MemoryTotal   uint64  `json:"memory_total"`
	MemoryUsed    uint64  `json:"memory_used"`
	MemoryPercent float64 `json:"memory_percent"`

	DiskTotal   uint64  `json:"disk_total"`
	DiskUsed    uint64  `json:"disk_used"`
	DiskPercent float64 `json:"disk_percent"`

	TemperatureC float64 `json:"temperature_c,omitempty"`

	Hostname      string `json:"hostname"`
	UptimeSeconds uint64 `json:"uptime_seconds"`
}

// HostInfo describes the host this daemon runs on.
type HostInfo struct {
	Hostname        string `json:"hostname"`
	OS              string `json:"os"`
	Platform        string `json:"platform"`
	PlatformVersion string `json:"platform_version"`
	KernelVersion   string `json:"kernel_version"`
	KernelArch      string `json:"kernel_arch"`
	UptimeSeconds   uint64 `json:"uptime_seconds"`
}

// Collector gathers system metrics on demand.
type Collector struct {
	logger   logger.Interface
	diskPath string
}

// NewCollector creates a metrics collector. Disk usage is sampled on the
// root filesystem.
func NewCollector(log logger.Interface) *Collector {
	return &Collector{
		logger:   log.WithField("component", "metrics"),
		diskPath: "/",
	}
}

// Collect gathers a snapshot. Individual source failures are logged and
// tolerated so one broken probe does not blank the whole endpoint.
func (c *Collector) Collect(ctx context.Context) *Snapshot {
	snap := &Snapshot{Timestamp: time.Now().UTC()}

	if percents, err := cpu.PercentWithContext(ctx, 0, false); err != nil {
		c.logger.Warn("failed to collect CPU metrics", "error", err)
	} else if len(percents) > 0 {
		snap.CPUPercent = percents[0]
	}

	if avg, err := load.AvgWithContext(ctx); err != nil {
		c.logger.Warn("failed to collect load metrics", "error", err)
	} else {
		snap.Load1 = avg.Load1
		snap.Load5 = avg.Load5
		snap.Load15 = avg.Load15
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err != nil {
		c.logger.Warn("failed to collect memory metrics", "error", err)
	} else {
		snap.MemoryTotal = vm.Total
		snap.MemoryUsed = vm.Used
		snap.MemoryPercent = vm.UsedPercent
	}

	if usage, err := disk.UsageWithContext(ctx, c.diskPath); err != nil {
		c.logger.Warn("failed to collect disk metrics", "error", err)
	} else {
		snap.DiskTotal = usage.Total
		snap.DiskUsed = usage.Used
		snap.DiskPercent = usage.UsedPercent
	}

	if temps, err := host.SensorsTemperaturesWithContext(ctx); err != nil {
		c.logger.Debug("thermal sensors unavailable", "error", err)
	} else {
		for _, t := range temps {
			// The SoC sensor carries the interesting number on the
			// reference board; first non-zero reading wins.
			if t.Temperature > 0 {
				snap.TemperatureC = t.Temperature
				break
			}
		}
	}

	if info, err := host.InfoWithContext(ctx); err != nil {
		c.logger.Warn("failed to collect host info", "error", err)
	} else {
		snap.Hostname = info.Hostname
		snap.UptimeSeconds = info.Uptime
	}

	return snap
}

// Host returns static host identification.
func (c *Collector) Host(ctx context.Context) (*HostInfo, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to collect host info: %w", err)
	}

	return &HostInfo{
		Hostname:        info.Hostname,
		OS:              info.OS,
		Platform:        info.Platform,
		PlatformVersion: info.PlatformVersion,
		KernelVersion:   info.KernelVersion,
		KernelArch:      info.KernelArch,
		UptimeSeconds:   info.Uptime,
	}, nil
}
