// Package ioadapter reads and writes the text file formats the solver and
// manager exchange with the rest of the fleet-management stack (spec §6).
package ioadapter

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/elektrokombinacija/mapf-lifelong/internal/core"
	"github.com/pkg/errors"
)

// ParseMap reads an octile map file: `type octile`, `height H`, `width W`,
// `map`, followed by H rows of W characters (`.` free, `@` blocked).
func ParseMap(r io.Reader) (*core.Grid, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	header := make(map[string]string, 3)
	for i := 0; i < 3; i++ {
		if !sc.Scan() {
			return nil, core.WrapParse(io.ErrUnexpectedEOF, "map header")
		}
		fields := strings.Fields(sc.Text())
		if len(fields) < 1 {
			return nil, core.WrapParse(errors.New("empty header line"), "map header")
		}
		if len(fields) == 2 {
			header[fields[0]] = fields[1]
		} else {
			header[fields[0]] = ""
		}
	}
	if _, ok := header["type"]; !ok {
		return nil, core.WrapParse(errors.New("missing 'type octile' line"), "map header")
	}
	height, err := strconv.Atoi(header["height"])
	if err != nil {
		return nil, core.WrapParse(err, "map height")
	}
	width, err := strconv.Atoi(header["width"])
	if err != nil {
		return nil, core.WrapParse(err, "map width")
	}
	if !sc.Scan() || strings.TrimSpace(sc.Text()) != "map" {
		return nil, core.WrapParse(errors.New("missing 'map' marker line"), "map header")
	}

	grid := core.NewGrid(height, width)
	for row := 0; row < height; row++ {
		if !sc.Scan() {
			return nil, core.WrapParse(io.ErrUnexpectedEOF, "map row")
		}
		line := sc.Text()
		if len(line) < width {
			return nil, core.WrapParse(errors.Errorf("row %d too short: got %d cols, want %d", row, len(line), width), "map row")
		}
		for col := 0; col < width; col++ {
			switch line[col] {
			case '@':
				grid.SetBlocked(core.Pos{Row: row, Col: col}, true)
			case '.':
			default:
				return nil, core.WrapParse(errors.Errorf("row %d col %d: unrecognized cell %q", row, col, line[col]), "map row")
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, core.WrapParse(err, "map scan")
	}
	return grid, nil
}
