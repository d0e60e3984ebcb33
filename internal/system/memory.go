// 프로세스 메모리 측정 유틸
//
// gopsutil로 현재 프로세스의 RSS를 읽고, 지금까지 관측한 최대값(high-water mark)을 유지합니다.
// 리눅스에서 커널이 VmHWM을 제공하면 그 값을 우선 사용합니다.

package system

import (
	"log"
	"os"
	"runtime"
	"sync/atomic"

	"github.com/shirou/gopsutil/v3/process"
)

const bytesPerMB = 1024 * 1024

// ProcessMemory - 프로세스 최대 메모리 샘플러
type ProcessMemory struct {
	proc *process.Process
	peak atomic.Uint64
}

func NewProcessMemory() (*ProcessMemory, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	return &ProcessMemory{proc: proc}, nil
}

// PeakMB returns the highest resident memory observed for this process, in MB.
func (m *ProcessMemory) PeakMB() float64 {
	current := m.sample()
	for {
		prev := m.peak.Load()
		if current <= prev {
			return float64(prev) / bytesPerMB
		}
		if m.peak.CompareAndSwap(prev, current) {
			return float64(current) / bytesPerMB
		}
	}
}

func (m *ProcessMemory) sample() uint64 {
	if m.proc != nil {
		info, err := m.proc.MemoryInfo()
		if err == nil {
			if info.HWM > info.RSS {
				return info.HWM
			}
			return info.RSS
		}
		log.Printf("[System] Failed to read process memory, falling back to runtime stats: %v", err)
	}

	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	return stats.Sys
}
