// Command mapfvis loads a map and task file, runs the Manager's EDF
// policy (or LFF with --policy lff), and opens a GUI visualization of the
// committed paths.
package main

import (
	"fmt"
	"log"
	"os"

	"gioui.org/app"
	"gioui.org/unit"

	"github.com/elektrokombinacija/mapf-lifelong/internal/ioadapter"
	"github.com/elektrokombinacija/mapf-lifelong/internal/manager"
	"github.com/elektrokombinacija/mapf-lifelong/internal/vis"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	cliApp := &cli.App{
		Name:  "mapfvis",
		Usage: "visualize a solved lifelong MAPF-TA instance",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "map", Required: true},
			&cli.StringFlag{Name: "tasks", Required: true},
			&cli.StringFlag{Name: "policy", Value: "edf"},
		},
		Action: run,
	}
	if err := cliApp.Run(os.Args); err != nil {
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

	mapFile, err := os.Open(c.String("map"))
	if err != nil {
		return err
	}
	defer mapFile.Close()
	grid, err := ioadapter.ParseMap(mapFile)
	if err != nil {
		return err
	}

	taskFile, err := os.Open(c.String("tasks"))
	if err != nil {
		return err
	}
	defer taskFile.Close()
	tf, err := ioadapter.ParseTaskFile(taskFile)
	if err != nil {
		return err
	}

	m := manager.New(grid, tf.Agents, tf.Tasks, logger.Sugar())
	if c.String("policy") == "lff" {
		err = m.RunLFF()
	} else {
		err = m.RunEDF()
	}
	if err != nil {
		logger.Sugar().Warnw("some tasks could not be committed", "error", err)
	}

	go func() {
		window := new(app.Window)
		window.Option(
			app.Title("mapf-lifelong Visualizer"),
			app.Size(unit.Dp(1400), unit.Dp(900)),
		)

		application := vis.NewApp(grid, tf.Agents, tf.Tasks)
		logger.Sugar().Infow("visualization session started", "session", application.SessionID)
		if err := application.Run(window); err != nil {
			log.Fatal(err)
		}
		os.Exit(0)
	}()
	app.Main()
	return nil
}
