package main

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"

	sloglogrus "github.com/samber/slog-logrus/v2"
	slogmulti "github.com/samber/slog-multi"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	_ "github.com/KimMachineGun/automemlimit"
	_ "go.uber.org/automaxprocs"

	"github.com/royalcat/gridpoints/boundary"
	"github.com/royalcat/gridpoints/grid"
	"github.com/royalcat/gridpoints/internal/progress"
	"github.com/royalcat/gridpoints/pipeline"
	"github.com/royalcat/gridpoints/pointcsv"
	"github.com/royalcat/gridpoints/region"
)

func main() {
	app := &cli.App{
		Name:        "gridpoints",
		Description: "Samples a GeoJSON region into a dense grid of CSV points",
		Commands: []*cli.Command{
			{
				Name:    "generate",
				Aliases: []string{"g"},
				Usage:   "generate a points csv from a boundary file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:      "input",
						Aliases:   []string{"i"},
						Required:  true,
						TakesFile: true,
						Usage:     "path to the boundary GeoJSON file",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Value:   "data",
						Usage:   "output directory for points.csv",
					},
					&cli.Float64Flag{
						Name:    "spacing",
						Aliases: []string{"s"},
						Value:   0.02,
						Usage:   "grid spacing in coordinate units",
					},
					&cli.IntFlag{
						Name:    "batch-size",
						Aliases: []string{"b"},
						Value:   10000,
						Usage:   "rows buffered per write",
					},
					&cli.StringFlag{
						Name:  "mode",
						Value: "grid",
						Usage: "sampling mode: grid or poisson",
					},
					&cli.BoolFlag{
						Name:  "gzip",
						Usage: "gzip the output file",
					},
					&cli.BoolFlag{
						Name:  "stats",
						Usage: "log a runtime stats summary at the end of the run",
					},
					&cli.StringFlag{
						Name:  "log-file",
						Usage: "also write json logs to this file",
					},
					&cli.BoolFlag{
						Name:    "quiet",
						Aliases: []string{"q"},
						Usage:   "suppress the progress bar and info logs",
					},
				},
				Action: generate,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func generate(ctx *cli.Context) error {
	logger, closeLogs, err := setupLogger(ctx.Bool("quiet"), ctx.String("log-file"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer closeLogs()

	var tracker progress.Tracker = progress.Bar{}
	if ctx.Bool("quiet") {
		tracker = progress.Nop{}
	}

	cfg := pipeline.Config{
		InputPath:    ctx.String("input"),
		OutputDir:    ctx.String("output"),
		Spacing:      ctx.Float64("spacing"),
		BatchSize:    ctx.Int("batch-size"),
		Mode:         pipeline.Mode(ctx.String("mode")),
		Gzip:         ctx.Bool("gzip"),
		CollectStats: ctx.Bool("stats"),
		Logger:       logger,
		Tracker:      tracker,
	}

	if err := pipeline.Run(ctx.Context, cfg); err != nil {
		logger.Error("generation failed", "error", err)
		return cli.Exit(err.Error(), exitCode(err))
	}
	return nil
}

// exitCode maps every failure kind to a distinct nonzero process exit code.
func exitCode(err error) int {
	switch {
	case errors.Is(err, boundary.ErrNotFound):
		return 2
	case errors.Is(err, boundary.ErrFormat):
		return 3
	case errors.Is(err, boundary.ErrMalformed):
		return 4
	case errors.Is(err, region.ErrEmpty):
		return 5
	case errors.Is(err, grid.ErrInvalidSpacing):
		return 6
	case errors.Is(err, pointcsv.ErrSinkWrite):
		return 7
	}
	return 1
}

func setupLogger(quiet bool, logFile string) (*slog.Logger, func(), error) {
	lr := logrus.New()
	lr.SetOutput(os.Stderr)
	if quiet {
		lr.SetLevel(logrus.WarnLevel)
	}

	handlers := []slog.Handler{
		sloglogrus.Option{Logger: lr}.NewLogrusHandler(),
	}

	closer := func() {}
	if logFile != "" {
		f, err := os.Create(logFile)
		if err != nil {
			return nil, nil, fmt.Errorf("error creating log file: %w", err)
		}
		handlers = append(handlers, slog.NewJSONHandler(f, nil))
		closer = func() { f.Close() }
	}

	logger := slog.New(slogmulti.Fanout(handlers...))
	slog.SetDefault(logger)
	return logger, closer, nil
}
