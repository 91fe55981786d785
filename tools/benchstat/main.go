// Command benchstat runs the Manager over a batch of generated task
// files and reports summary statistics on completion time and per-task
// flexibility, the way the teacher's run_benchmarks tool summarized its
// solver bake-off.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/elektrokombinacija/mapf-lifelong/internal/ioadapter"
	"github.com/elektrokombinacija/mapf-lifelong/internal/manager"
	"github.com/elektrokombinacija/mapf-lifelong/internal/solver"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
)

func main() {
	app := &cli.App{
		Name:  "benchstat",
		Usage: "run the Manager over every task file in a directory and report completion-time statistics",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "map", Required: true},
			&cli.StringFlag{Name: "task-dir", Required: true},
			&cli.StringFlag{Name: "policy", Value: "edf"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck
	runID := uuid.New().String()[:8]
	sugar := logger.Sugar().With("run", runID)

	entries, err := os.ReadDir(c.String("task-dir"))
	if err != nil {
		return errors.Wrap(err, "read task-dir")
	}

	var completions []float64
	var betas []float64
	failures := 0

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".task" {
			continue
		}

		mapFile, err := os.Open(c.String("map"))
		if err != nil {
			return errors.Wrap(err, "open map")
		}
		grid, err := ioadapter.ParseMap(mapFile)
		mapFile.Close()
		if err != nil {
			return err
		}

		taskFile, err := os.Open(filepath.Join(c.String("task-dir"), entry.Name()))
		if err != nil {
			return errors.Wrap(err, "open task file")
		}
		tf, err := ioadapter.ParseTaskFile(taskFile)
		taskFile.Close()
		if err != nil {
			return err
		}

		m := manager.New(grid, tf.Agents, tf.Tasks, sugar, manager.WithAlgorithm(solver.WaitingAware), manager.WithMaxStep(10000))
		if c.String("policy") == "lff" {
			err = m.RunLFF()
		} else {
			err = m.RunEDF()
		}
		if err != nil {
			sugar.Warnw("instance had unassignable tasks", "file", entry.Name(), "error", err)
		}

		for _, task := range tf.Tasks {
			if !task.Assigned {
				failures++
				continue
			}
			betas = append(betas, task.MaxBeta)
		}
		for _, agent := range tf.Agents {
			if len(agent.Path) > 0 {
				completions = append(completions, float64(agent.Path[len(agent.Path)-1].LeaveTime))
			}
		}
	}

	if len(completions) == 0 {
		return errors.New("no task files processed")
	}

	fmt.Printf("run %s: instances processed: completions=%d betas=%d failures=%d\n", runID, len(completions), len(betas), failures)
	fmt.Printf("completion time: mean=%.2f stddev=%.2f\n", stat.Mean(completions, nil), stat.StdDev(completions, nil))
	if len(betas) > 0 {
		fmt.Printf("flexibility beta: mean=%.2f stddev=%.2f min=%.2f\n", stat.Mean(betas, nil), stat.StdDev(betas, nil), floatMin(betas))
	}
	return nil
}

func floatMin(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}
