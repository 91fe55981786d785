package ioadapter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/elektrokombinacija/mapf-lifelong/internal/core"
	"github.com/stretchr/testify/require"
)

func TestParseMap(t *testing.T) {
	src := "type octile\nheight 2\nwidth 3\nmap\n.@.\n...\n"
	grid, err := ParseMap(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, 2, grid.H)
	require.Equal(t, 3, grid.W)
	require.True(t, grid.Blocked(core.Pos{Row: 0, Col: 1}))
	require.False(t, grid.Blocked(core.Pos{Row: 0, Col: 0}))
	require.False(t, grid.Blocked(core.Pos{Row: 1, Col: 2}))
}

func TestParseMap_BadCell(t *testing.T) {
	src := "type octile\nheight 1\nwidth 1\nmap\nx\n"
	_, err := ParseMap(strings.NewReader(src))
	require.Error(t, err)
	require.ErrorIs(t, err, core.ErrParse)
}

func TestParseTaskFile_SortsByOptimal(t *testing.T) {
	src := "2 1\nwarehouse\n0 0\n1 1\n0 2 0 5 4.0 0\n1 2 1 5 1.0 0\n"
	tf, err := ParseTaskFile(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, "warehouse", tf.MapName)
	require.Len(t, tf.Agents, 2)
	require.Len(t, tf.Tasks, 2)
	require.Equal(t, 1.0, tf.Tasks[0].Optimal)
	require.Equal(t, 4.0, tf.Tasks[1].Optimal)
}

func TestParseScenarioFile(t *testing.T) {
	src := "version 1\n0 warehouse 10 10 0 0 5 5 8.5\n"
	sf, err := ParseScenarioFile(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, 1.0, sf.Version)
	require.Len(t, sf.Records, 1)
	require.Equal(t, core.Pos{Row: 0, Col: 0}, sf.Records[0].Start)
	require.Equal(t, core.Pos{Row: 5, Col: 5}, sf.Records[0].End)
}

func TestParseConstraints(t *testing.T) {
	grid := core.NewGrid(3, 3)
	src := "0 0 None 0 5\n1 1 Right 2 3\n"
	require.NoError(t, ParseConstraints(strings.NewReader(src), grid))
	require.True(t, grid.IsOccupied(core.Pos{Row: 0, Col: 0}, core.None, 0, 5))
	require.True(t, grid.IsOccupied(core.Pos{Row: 1, Col: 1}, core.Right, 2, 3))
}

func TestWriteCommittedPaths(t *testing.T) {
	agents := []*core.Agent{
		{ID: 0, Path: core.Path{{Pos: core.Pos{Row: 0, Col: 0}, LeaveTime: 0}, {Pos: core.Pos{Row: 0, Col: 1}, LeaveTime: 1}}},
		{ID: 1, Path: core.Path{{Pos: core.Pos{Row: 1, Col: 0}, LeaveTime: 0}}},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCommittedPaths(&buf, agents))
	require.Equal(t, "0 0 0\n0 1 1\n\n1 0 0\n", buf.String())
}
