// Command mapfgen reproduces the well-formed benchmark generator (spec §6
// CLI surface, grounded on the original generate/well-formed.cpp): a
// warehouse-shaped grid with periodic delivery-aisle obstacles, parking
// cells, and randomly sampled pickup/delivery task pairs whose optimal
// cost is measured by actually running the solver.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/elektrokombinacija/mapf-lifelong/internal/core"
	"github.com/elektrokombinacija/mapf-lifelong/internal/solver"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const deliveryWidth = 10

func main() {
	app := &cli.App{
		Name:  "mapfgen",
		Usage: "generate a well-formed MAPF-TA benchmark instance",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "seed", Value: 5489, Usage: "random seed"},
			&cli.IntFlag{Name: "agent", Value: 10, Usage: "agent number"},
			&cli.IntFlag{Name: "agent-per-task", Value: 2, Usage: "task number per agent"},
			&cli.BoolFlag{Name: "release", Usage: "stagger task release times"},
			&cli.IntFlag{Name: "x", Value: 5, Usage: "delivery aisle grid rows"},
			&cli.IntFlag{Name: "y", Value: 2, Usage: "delivery aisle grid columns"},
			&cli.StringFlag{Name: "out-dir", Value: "test-benchmark", Usage: "output directory root"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	seed := c.Int64("seed")
	agentNum := c.Int("agent")
	k := c.Int("agent-per-task")
	release := c.Bool("release")
	deliveryX := c.Int("x")
	deliveryY := c.Int("y")
	outDir := c.String("out-dir")

	maxX := 4*deliveryX + 1
	maxY := deliveryY*(deliveryWidth+1) + 13

	grid, mapText, mapName := generateMap(deliveryX, deliveryY, maxX, maxY)

	mapDir := filepath.Join(outDir, "map")
	if err := os.MkdirAll(mapDir, 0o755); err != nil {
		return errors.Wrap(err, "create map dir")
	}
	mapPath := filepath.Join(mapDir, mapName+".map")
	if err := os.WriteFile(mapPath, []byte(mapText), 0o644); err != nil {
		return errors.Wrap(err, "write map file")
	}

	rng := rand.New(rand.NewSource(seed))
	parkingPoints := parkingPoints(maxX, maxY)
	rng.Shuffle(len(parkingPoints), func(i, j int) { parkingPoints[i], parkingPoints[j] = parkingPoints[j], parkingPoints[i] })
	taskPoints := taskPoints(maxX, maxY)

	var agentLines, taskLines strings.Builder
	for i := 0; i < agentNum; i++ {
		first := parkingPoints[len(parkingPoints)-1-i]
		fmt.Fprintf(&agentLines, "%d %d\n", first.Row, first.Col)

		var dist float64
		startTime := int64(0)
		current := first
		for j := 0; j < k; j++ {
			even := taskPoints[rng.Intn(len(taskPoints))]
			d1, err := measureDistance(grid, current, even)
			if err != nil {
				return err
			}
			dist += d1

			odd := taskPoints[rng.Intn(len(taskPoints))]
			d2, err := measureDistance(grid, even, odd)
			if err != nil {
				return err
			}
			dist += d2

			fmt.Fprintf(&taskLines, "%d %d %d %d %s %d\n", even.Row, even.Col, odd.Row, odd.Col, strconv.FormatFloat(dist, 'f', -1, 64), startTime)
			current = odd
			if release {
				startTime += int64(dist)
			}
		}
	}

	taskDir := filepath.Join(outDir, "task")
	if err := os.MkdirAll(taskDir, 0o755); err != nil {
		return errors.Wrap(err, "create task dir")
	}
	name := fmt.Sprintf("%s-%d-%d-%d", mapName, agentNum, k, seed)
	if release {
		name += "-release"
	}
	taskPath := filepath.Join(taskDir, name+".task")

	var out strings.Builder
	fmt.Fprintf(&out, "%d %d\n", agentNum, k)
	fmt.Fprintf(&out, "%s.map\n", mapName)
	out.WriteString(agentLines.String())
	out.WriteString(taskLines.String())

	if err := os.WriteFile(taskPath, []byte(out.String()), 0o644); err != nil {
		return errors.Wrap(err, "write task file")
	}
	fmt.Println(taskPath)
	return nil
}

// generateMap lays out a warehouse grid: every fourth row (row%4==2) has
// delivery-aisle obstacles spaced deliveryWidth+1 apart, except within 7
// cells of either edge (spec §6 "Coordinate convention").
func generateMap(deliveryX, deliveryY, maxX, maxY int) (*core.Grid, string, string) {
	grid := core.NewGrid(maxX, maxY)
	var sb strings.Builder
	mapName := fmt.Sprintf("well-formed-%d-%d", maxX, maxY)

	fmt.Fprintf(&sb, "type octile\nheight %d\nwidth %d\nmap\n", maxX, maxY)
	for row := 0; row < maxX; row++ {
		for col := 0; col < maxY; col++ {
			blocked := row%4 == 2 && col >= 7 && (col-7)%(deliveryWidth+1) != deliveryWidth && col < maxY-7
			if blocked {
				grid.SetBlocked(core.Pos{Row: row, Col: col}, true)
				sb.WriteByte('@')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return grid, sb.String(), mapName
}

func parkingPoints(maxX, maxY int) []core.Pos {
	cols := []int{1, 2, 4, 5, maxY - 6, maxY - 5, maxY - 3, maxY - 2}
	points := make([]core.Pos, 0, (maxX-2)*len(cols))
	for row := 1; row < maxX-1; row++ {
		for _, col := range cols {
			points = append(points, core.Pos{Row: row, Col: col})
		}
	}
	return points
}

func taskPoints(maxX, maxY int) []core.Pos {
	var points []core.Pos
	for row := 1; row < maxX; row += 2 {
		for col := 7; col < maxY-7; col++ {
			if (col-7)%(deliveryWidth+1) != deliveryWidth {
				points = append(points, core.Pos{Row: row, Col: col})
			}
		}
	}
	return points
}

// measureDistance runs the waiting-aware solver on an otherwise-empty
// reservation table to obtain the optimal point-to-point travel time
// between two cells, used as a task's recorded optimal cost.
func measureDistance(grid *core.Grid, from, to core.Pos) (float64, error) {
	d := grid.GetGraphDistance(from, to)
	if d < 0 {
		return 0, errors.Errorf("no path between %v and %v", from, to)
	}
	sc := core.NewScenario(from, to, float64(d), 0)
	sv := solver.New(grid, solver.WaitingAware, 0)
	sv.InitScenario(sc, 0, float64(d)+1)
	path := sv.Run(100000)
	if path == nil {
		return 0, errors.Errorf("solver could not confirm distance between %v and %v", from, to)
	}
	return float64(path[len(path)-1].LeaveTime), nil
}
