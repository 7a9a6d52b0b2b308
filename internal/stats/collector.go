// Package stats samples process memory and CPU usage while a run is in
// flight, to verify that sampling stays within its memory bounds.
package stats

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

// Summary aggregates every sample taken between Start and Stop.
type Summary struct {
	Elapsed        time.Duration
	PeakHeapAlloc  uint64
	PeakSys        uint64
	PeakProcessRSS uint64
	PeakCPUPercent float64
	AvgCPUPercent  float64
	GCCycles       uint32
	Samples        int
}

// Collector samples runtime statistics on an interval in the background.
type Collector struct {
	mu       sync.Mutex
	interval time.Duration
	proc     *process.Process
	start    time.Time
	stop     chan struct{}
	done     chan struct{}

	summary  Summary
	totalCPU float64
}

func NewCollector(interval time.Duration) (*Collector, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("failed to get process info: %w", err)
	}

	return &Collector{
		interval: interval,
		proc:     proc,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Start begins sampling until Stop is called or the context is cancelled.
func (c *Collector) Start(ctx context.Context) {
	c.start = time.Now()
	go c.collect(ctx)
}

func (c *Collector) collect(ctx context.Context) {
	defer close(c.done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.sample()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stop:
			c.sample()
			return
		case <-ticker.C:
			c.sample()
		}
	}
}

func (c *Collector) sample() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	c.mu.Lock()
	defer c.mu.Unlock()

	if memStats.HeapAlloc > c.summary.PeakHeapAlloc {
		c.summary.PeakHeapAlloc = memStats.HeapAlloc
	}
	if memStats.Sys > c.summary.PeakSys {
		c.summary.PeakSys = memStats.Sys
	}
	c.summary.GCCycles = memStats.NumGC

	if memInfo, err := c.proc.MemoryInfo(); err == nil && memInfo != nil {
		if memInfo.RSS > c.summary.PeakProcessRSS {
			c.summary.PeakProcessRSS = memInfo.RSS
		}
	}
	if cpuPercent, err := c.proc.CPUPercent(); err == nil {
		if cpuPercent > c.summary.PeakCPUPercent {
			c.summary.PeakCPUPercent = cpuPercent
		}
		c.totalCPU += cpuPercent
	}

	c.summary.Samples++
}

// Stop ends the collection loop and returns the aggregated summary.
func (c *Collector) Stop() Summary {
	close(c.stop)
	<-c.done

	c.mu.Lock()
	defer c.mu.Unlock()

	c.summary.Elapsed = time.Since(c.start)
	if c.summary.Samples > 0 {
		c.summary.AvgCPUPercent = c.totalCPU / float64(c.summary.Samples)
	}
	return c.summary
}
