package ioadapter

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/elektrokombinacija/mapf-lifelong/internal/core"
)

// directionByName maps the constraints file's direction tokens to
// core.Direction; "None"/"-" means a node constraint.
var directionByName = map[string]core.Direction{
	"None": core.None, "-": core.None,
	"Up": core.Up, "Right": core.Right, "Down": core.Down, "Left": core.Left,
}

// ParseConstraints reads a constraints file: one `<row> <col> <direction>
// <startTime> <endTime>` tuple per line, and seeds grid's reservation
// table (C1) before any planning runs (spec §6 "Constraints file").
func ParseConstraints(r io.Reader, grid *core.Grid) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 5 {
			return core.WrapParse(errUnexpectedFieldCount(5, len(fields)), "constraint line "+strconv.Itoa(lineNo))
		}
		row, err := strconv.Atoi(fields[0])
		if err != nil {
			return core.WrapParse(err, "constraint row")
		}
		col, err := strconv.Atoi(fields[1])
		if err != nil {
			return core.WrapParse(err, "constraint col")
		}
		dir, ok := directionByName[fields[2]]
		if !ok {
			return core.WrapParse(core.ErrParse, "unrecognized direction "+fields[2])
		}
		lo, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			return core.WrapParse(err, "constraint startTime")
		}
		hi, err := strconv.ParseInt(fields[4], 10, 64)
		if err != nil {
			return core.WrapParse(err, "constraint endTime")
		}
		pos := core.Pos{Row: row, Col: col}
		if dir == core.None {
			grid.AddNodeOccupied(pos, lo, hi)
		} else {
			grid.AddEdgeOccupied(pos, dir, lo, hi)
		}
	}
	if err := sc.Err(); err != nil {
		return core.WrapParse(err, "constraints scan")
	}
	return nil
}
