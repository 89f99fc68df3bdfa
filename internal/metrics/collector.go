package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// SystemInfo contains the host facts shown in the list header
type SystemInfo struct {
	Hostname        string
	Platform        string
	PlatformVersion string
	BootTime        time.Time
	MemUsedPercent  float64
}

var (
	hostInfo   = host.InfoWithContext
	memoryInfo = mem.VirtualMemoryWithContext
)

// GetSystemInfo returns host information. Memory figures are best effort.
func GetSystemInfo(ctx context.Context) (SystemInfo, error) {
	h, err := hostInfo(ctx)
	if err != nil {
		return SystemInfo{}, fmt.Errorf("failed to read host info: %w", err)
	}

	info := SystemInfo{
		Hostname:        h.Hostname,
		Platform:        h.Platform,
		PlatformVersion: h.PlatformVersion,
	}
	if h.BootTime > 0 {
		info.BootTime = time.Unix(int64(h.BootTime), 0)
	}
	if vm, err := memoryInfo(ctx); err == nil {
		info.MemUsedPercent = vm.UsedPercent
	}
	return info, nil
}

// Summary renders the info as one header fragment, e.g.
// "web01 ubuntu 22.04, up 3 days, mem 41%".
func (s SystemInfo) Summary(now time.Time) string {
	var parts []string
	name := strings.TrimSpace(strings.Join([]string{s.Hostname, s.Platform, s.PlatformVersion}, " "))
	if name != "" {
		parts = append(parts, name)
	}
	if !s.BootTime.IsZero() {
		parts = append(parts, "up "+strings.TrimSuffix(humanize.RelTime(s.BootTime, now, "", ""), " "))
	}
	if s.MemUsedPercent > 0 {
		parts = append(parts, fmt.Sprintf("mem %.0f%%", s.MemUsedPercent))
	}
	return strings.Join(parts, ", ")
}
