// Package sysmon snapshots host resource usage for the system-status intent
// and the background health check.
package sysmon

import (
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// Status is one resource snapshot.
type Status struct {
	CPUPercent  float64
	MemPercent  float64
	MemUsedMB   uint64
	DiskPercent float64
	Uptime      time.Duration
}

// Snapshot samples CPU over a short interval and reads memory, disk and
// uptime. Partial failures degrade to zero values rather than erroring; a
// spoken status report should not die because one probe is unsupported.
func Snapshot() (Status, error) {
	var st Status

	if pcts, err := cpu.Percent(250*time.Millisecond, false); err == nil && len(pcts) > 0 {
		st.CPUPercent = pcts[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		st.MemPercent = vm.UsedPercent
		st.MemUsedMB = vm.Used / 1024 / 1024
	}
	if du, err := disk.Usage("/"); err == nil {
		st.DiskPercent = du.UsedPercent
	}
	if up, err := host.Uptime(); err == nil {
		st.Uptime = time.Duration(up) * time.Second
	}
	return st, nil
}

// Speakable renders the snapshot as report sentences.
func (s Status) Speakable() []string {
	return []string{
		fmt.Sprintf("Processor load is at %.0f percent.", s.CPUPercent),
		fmt.Sprintf("Memory usage is at %.0f percent, %d megabytes in use.", s.MemPercent, s.MemUsedMB),
		fmt.Sprintf("Primary disk is %.0f percent full.", s.DiskPercent),
		fmt.Sprintf("System uptime is %s.", s.Uptime.Round(time.Minute)),
	}
}

// Critical reports whether load warrants a proactive warning.
func (s Status) Critical() bool {
	return s.CPUPercent > 90 || s.MemPercent > 95
}
