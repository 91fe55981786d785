package ioadapter

import (
	"bufio"
	"fmt"
	"io"

	"github.com/elektrokombinacija/mapf-lifelong/internal/core"
)

// WriteCommittedPaths writes, for each agent in order, its committed path
// as newline-separated `row col leaveTime` records, with a blank line
// between agents (spec §6 "Committed path output").
func WriteCommittedPaths(w io.Writer, agents []*core.Agent) error {
	bw := bufio.NewWriter(w)
	for i, agent := range agents {
		if i > 0 {
			if _, err := fmt.Fprintln(bw); err != nil {
				return err
			}
		}
		for _, node := range agent.Path {
			if _, err := fmt.Fprintf(bw, "%d %d %d\n", node.Pos.Row, node.Pos.Col, node.LeaveTime); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
