// Package pipeline wires the full run: load boundary polygons, unify them
// into one region, sample it, and stream the rows to a CSV file.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
	"github.com/paulmach/orb"

	"github.com/royalcat/gridpoints/boundary"
	"github.com/royalcat/gridpoints/grid"
	"github.com/royalcat/gridpoints/internal/progress"
	"github.com/royalcat/gridpoints/internal/stats"
	"github.com/royalcat/gridpoints/pointcsv"
	"github.com/royalcat/gridpoints/region"
)

// Mode selects how candidate points are generated inside the region's
// bounding box.
type Mode string

const (
	// ModeGrid sweeps a regular half-open lattice, spacing apart.
	ModeGrid Mode = "grid"
	// ModePoisson draws blue-noise points at least spacing apart.
	ModePoisson Mode = "poisson"
)

// Config carries every knob of one run.
type Config struct {
	InputPath  string
	OutputDir  string
	OutputName string // defaults to points.csv
	Spacing    float64
	BatchSize  int
	Mode       Mode
	Gzip       bool

	// CollectStats samples process memory and CPU during the run and logs
	// a summary at the end.
	CollectStats bool

	Logger  *slog.Logger
	Tracker progress.Tracker
}

func (cfg Config) withDefaults() Config {
	if cfg.OutputName == "" {
		cfg.OutputName = "points.csv"
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeGrid
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Tracker == nil {
		cfg.Tracker = progress.Nop{}
	}
	return cfg
}

// Run executes the pipeline. Interior points are written first, then every
// component's exterior ring vertices, all under a single header row.
func Run(ctx context.Context, cfg Config) error {
	cfg = cfg.withDefaults()
	log := cfg.Logger.With("run_id", uuid.NewString())

	var collector *stats.Collector
	if cfg.CollectStats {
		c, err := stats.NewCollector(time.Second)
		if err != nil {
			log.Warn("runtime stats unavailable", "error", err)
		} else {
			collector = c
			collector.Start(ctx)
		}
	}

	err := run(cfg, log)

	if collector != nil {
		sum := collector.Stop()
		log.Info("runtime stats",
			"elapsed", sum.Elapsed.String(),
			"peak_heap", humanize.Bytes(sum.PeakHeapAlloc),
			"peak_rss", humanize.Bytes(sum.PeakProcessRSS),
			"avg_cpu_percent", sum.AvgCPUPercent,
			"gc_cycles", sum.GCCycles,
		)
	}
	return err
}

func run(cfg Config, log *slog.Logger) error {
	log.Info("loading boundary file", "input", cfg.InputPath)
	polys, err := boundary.Load(cfg.InputPath)
	if err != nil {
		return err
	}

	log.Info("unifying polygons", "polygons", len(polys))
	reg, err := region.Unify(polys)
	if err != nil {
		return err
	}
	bound := reg.Bound()
	log.Info("region ready",
		"components", reg.Components(),
		"min", bound.Min,
		"max", bound.Max,
	)

	candidates, total, err := candidateSource(cfg.Mode, bound, cfg.Spacing)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", pointcsv.ErrSinkWrite, err)
	}
	outPath := filepath.Join(cfg.OutputDir, cfg.OutputName)
	if cfg.Gzip && !strings.HasSuffix(outPath, ".gz") {
		outPath += ".gz"
	}

	file, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("%w: %v", pointcsv.ErrSinkWrite, err)
	}
	defer file.Close()

	var sink io.Writer = file
	var gz *gzip.Writer
	if strings.HasSuffix(outPath, ".gz") {
		gz = gzip.NewWriter(file)
		defer gz.Close()
		sink = gz
	}

	writer, err := pointcsv.NewWriter(sink, cfg.BatchSize)
	if err != nil {
		return err
	}
	if err := writer.WriteHeader(); err != nil {
		return err
	}

	candidates = cfg.Tracker.Track(fmt.Sprintf("sampling (%s)", cfg.Mode), total, candidates)
	interior, err := writer.WritePoints(grid.Contained(reg, candidates))
	if err != nil {
		return err
	}
	log.Info("interior points written",
		"points", humanize.Comma(interior),
		"candidates", humanize.Comma(total),
	)

	edge, err := writer.WritePoints(reg.Boundaries())
	if err != nil {
		return err
	}
	log.Info("boundary points written", "points", humanize.Comma(edge))

	if gz != nil {
		if err := gz.Close(); err != nil {
			return fmt.Errorf("%w: %v", pointcsv.ErrSinkWrite, err)
		}
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("%w: %v", pointcsv.ErrSinkWrite, err)
	}

	log.Info("generation complete", "rows", humanize.Comma(interior+edge), "output", outPath)
	return nil
}

func candidateSource(mode Mode, b orb.Bound, spacing float64) (iter.Seq[orb.Point], int64, error) {
	switch mode {
	case ModeGrid:
		total, err := grid.LatticeSize(b, spacing)
		if err != nil {
			return nil, 0, err
		}
		seq, err := grid.Lattice(b, spacing)
		if err != nil {
			return nil, 0, err
		}
		return seq, total, nil
	case ModePoisson:
		return grid.Poisson(b, spacing)
	default:
		return nil, 0, fmt.Errorf("pipeline: unknown sampling mode %q", mode)
	}
}
