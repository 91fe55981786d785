package ioadapter

import (
	"bufio"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/elektrokombinacija/mapf-lifelong/internal/core"
)

// TaskFile is a parsed task file: the agents' parking positions and the
// tasks released against them (spec §6 "Task file").
type TaskFile struct {
	MapName string
	Agents  []*core.Agent
	Tasks   []*core.Task
}

// ParseTaskFile reads `<agentNum> <k>`, `<mapName>`, agentNum parking
// positions, then agentNum*k task records, sorting tasks ascending by
// optimal (spec §6: "Tasks are internally re-sorted ascending by
// optimal").
func ParseTaskFile(r io.Reader) (*TaskFile, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	if !sc.Scan() {
		return nil, core.WrapParse(io.ErrUnexpectedEOF, "task header")
	}
	fields := strings.Fields(sc.Text())
	if len(fields) != 2 {
		return nil, core.WrapParse(errUnexpectedFieldCount(2, len(fields)), "task header")
	}
	agentNum, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, core.WrapParse(err, "agentNum")
	}
	k, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, core.WrapParse(err, "k")
	}

	if !sc.Scan() {
		return nil, core.WrapParse(io.ErrUnexpectedEOF, "mapName")
	}
	mapName := strings.TrimSpace(sc.Text())

	agents := make([]*core.Agent, 0, agentNum)
	for i := 0; i < agentNum; i++ {
		if !sc.Scan() {
			return nil, core.WrapParse(io.ErrUnexpectedEOF, "agent parking position")
		}
		row, col, err := parseTwoInts(sc.Text())
		if err != nil {
			return nil, core.WrapParse(err, "agent parking position")
		}
		agents = append(agents, core.NewAgent(i, core.Pos{Row: row, Col: col}))
	}

	tasks := make([]*core.Task, 0, agentNum*k)
	id := 0
	for i := 0; i < agentNum*k; i++ {
		if !sc.Scan() {
			return nil, core.WrapParse(io.ErrUnexpectedEOF, "task record")
		}
		tf := strings.Fields(sc.Text())
		if len(tf) != 6 {
			return nil, core.WrapParse(errUnexpectedFieldCount(6, len(tf)), "task record")
		}
		sx, _ := strconv.Atoi(tf[0])
		sy, _ := strconv.Atoi(tf[1])
		ex, _ := strconv.Atoi(tf[2])
		ey, _ := strconv.Atoi(tf[3])
		optimal, err := strconv.ParseFloat(tf[4], 64)
		if err != nil {
			return nil, core.WrapParse(err, "task optimal")
		}
		startTime, err := strconv.ParseInt(tf[5], 10, 64)
		if err != nil {
			return nil, core.WrapParse(err, "task startTime")
		}
		tasks = append(tasks, core.NewTask(id, core.Pos{Row: sx, Col: sy}, core.Pos{Row: ex, Col: ey}, optimal, startTime))
		id++
	}
	if err := sc.Err(); err != nil {
		return nil, core.WrapParse(err, "task scan")
	}

	sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].Optimal < tasks[j].Optimal })
	return &TaskFile{MapName: mapName, Agents: agents, Tasks: tasks}, nil
}

func parseTwoInts(line string) (int, int, error) {
	f := strings.Fields(line)
	if len(f) != 2 {
		return 0, 0, errUnexpectedFieldCount(2, len(f))
	}
	a, err := strconv.Atoi(f[0])
	if err != nil {
		return 0, 0, err
	}
	b, err := strconv.Atoi(f[1])
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}
