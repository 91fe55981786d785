package ioadapter

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/elektrokombinacija/mapf-lifelong/internal/core"
)

// ScenarioRecord is one line of a scenario file (spec §6 "Scenario file"):
// `<bucket> <mapName> <width> <height> <sx> <sy> <ex> <ey> <optimalDouble>`.
type ScenarioRecord struct {
	Bucket         int
	MapName        string
	Width, Height  int
	Start, End     core.Pos
	OptimalDouble  float64
}

// ScenarioFile is a parsed scenario file.
type ScenarioFile struct {
	Version float64
	Records []ScenarioRecord
}

// ParseScenarioFile reads the `version <v>` header followed by one record
// per line.
func ParseScenarioFile(r io.Reader) (*ScenarioFile, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	if !sc.Scan() {
		return nil, core.WrapParse(io.ErrUnexpectedEOF, "scenario header")
	}
	fields := strings.Fields(sc.Text())
	if len(fields) != 2 || fields[0] != "version" {
		return nil, core.WrapParse(errUnexpectedFieldCount(2, len(fields)), "scenario version line")
	}
	version, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return nil, core.WrapParse(err, "scenario version")
	}

	var records []ScenarioRecord
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		rf := strings.Fields(line)
		if len(rf) != 9 {
			return nil, core.WrapParse(errUnexpectedFieldCount(9, len(rf)), "scenario record")
		}
		bucket, err := strconv.Atoi(rf[0])
		if err != nil {
			return nil, core.WrapParse(err, "scenario bucket")
		}
		width, err := strconv.Atoi(rf[2])
		if err != nil {
			return nil, core.WrapParse(err, "scenario width")
		}
		height, err := strconv.Atoi(rf[3])
		if err != nil {
			return nil, core.WrapParse(err, "scenario height")
		}
		sx, err := strconv.Atoi(rf[4])
		if err != nil {
			return nil, core.WrapParse(err, "scenario sx")
		}
		sy, err := strconv.Atoi(rf[5])
		if err != nil {
			return nil, core.WrapParse(err, "scenario sy")
		}
		ex, err := strconv.Atoi(rf[6])
		if err != nil {
			return nil, core.WrapParse(err, "scenario ex")
		}
		ey, err := strconv.Atoi(rf[7])
		if err != nil {
			return nil, core.WrapParse(err, "scenario ey")
		}
		optimal, err := strconv.ParseFloat(rf[8], 64)
		if err != nil {
			return nil, core.WrapParse(err, "scenario optimal")
		}
		records = append(records, ScenarioRecord{
			Bucket:        bucket,
			MapName:       rf[1],
			Width:         width,
			Height:        height,
			Start:         core.Pos{Row: sx, Col: sy},
			End:           core.Pos{Row: ex, Col: ey},
			OptimalDouble: optimal,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, core.WrapParse(err, "scenario scan")
	}
	return &ScenarioFile{Version: version, Records: records}, nil
}
