// Command mapfsolve loads a map, an optional constraints file, and a task
// file, runs the Manager's EDF or LFF commit policy, and prints each
// agent's committed path (spec §6).
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/elektrokombinacija/mapf-lifelong/internal/config"
	"github.com/elektrokombinacija/mapf-lifelong/internal/ioadapter"
	"github.com/elektrokombinacija/mapf-lifelong/internal/manager"
	"github.com/elektrokombinacija/mapf-lifelong/internal/solver"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	app := &cli.App{
		Name:  "mapfsolve",
		Usage: "assign and commit lifelong MAPF tasks onto a fleet",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "map", Required: true, Usage: "path to the octile map file"},
			&cli.StringFlag{Name: "tasks", Required: true, Usage: "path to the task file"},
			&cli.StringFlag{Name: "constraints", Usage: "optional path to a constraints file"},
			&cli.StringFlag{Name: "preset", Usage: "optional YAML Manager config preset"},
			&cli.StringFlag{Name: "policy", Value: "edf", Usage: "edf or lff"},
			&cli.Float64Flag{Name: "phi", Value: 0, Usage: "deadline suboptimality factor"},
			&cli.StringFlag{Name: "algorithm", Value: "waiting-aware", Usage: "waiting-aware or safe-interval"},
			&cli.IntFlag{Name: "max-step", Value: 10000},
			&cli.BoolFlag{Name: "verbose"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	logger, err := newLogger(c.Bool("verbose"))
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	mapFile, err := os.Open(c.String("map"))
	if err != nil {
		return errors.Wrap(err, "open map file")
	}
	defer mapFile.Close()
	grid, err := ioadapter.ParseMap(mapFile)
	if err != nil {
		return err
	}

	if cp := constraintsPath(c); cp != "" {
		cf, err := os.Open(cp)
		if err != nil {
			return errors.Wrap(err, "open constraints file")
		}
		defer cf.Close()
		if err := ioadapter.ParseConstraints(cf, grid); err != nil {
			return err
		}
	}

	taskFile, err := os.Open(c.String("tasks"))
	if err != nil {
		return errors.Wrap(err, "open task file")
	}
	defer taskFile.Close()
	tf, err := ioadapter.ParseTaskFile(taskFile)
	if err != nil {
		return err
	}

	opts, err := resolveOptions(c)
	if err != nil {
		return err
	}

	m := manager.New(grid, tf.Agents, tf.Tasks, logger.Sugar(), opts...)

	switch c.String("policy") {
	case "edf":
		err = m.RunEDF()
	case "lff":
		err = m.RunLFF()
	default:
		return errors.Errorf("unrecognized policy %q (want edf or lff)", c.String("policy"))
	}
	if err != nil {
		logger.Sugar().Warnw("some tasks could not be committed", "error", err)
	}

	return ioadapter.WriteCommittedPaths(os.Stdout, tf.Agents)
}

// constraintsPath resolves --constraints, falling back to
// `constraints/<mapBase>` next to the map file when unset (spec §6: "same
// basename under constraints/").
func constraintsPath(c *cli.Context) string {
	if p := c.String("constraints"); p != "" {
		return p
	}
	mapPath := c.String("map")
	candidate := filepath.Join(filepath.Dir(mapPath), "constraints", filepath.Base(mapPath))
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}

func resolveOptions(c *cli.Context) ([]manager.Option, error) {
	if p := c.String("preset"); p != "" {
		f, err := os.Open(p)
		if err != nil {
			return nil, errors.Wrap(err, "open preset file")
		}
		defer f.Close()
		preset, err := config.LoadPreset(f)
		if err != nil {
			return nil, err
		}
		return preset.Options()
	}

	algo := solver.WaitingAware
	if c.String("algorithm") == "safe-interval" {
		algo = solver.SafeInterval
	}
	return []manager.Option{
		manager.WithPhi(c.Float64("phi")),
		manager.WithAlgorithm(algo),
		manager.WithMaxStep(c.Int("max-step")),
	}, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
