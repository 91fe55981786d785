package draw

import (
	"image/color"

	"gioui.org/layout"

	"github.com/elektrokombinacija/mapf-lifelong/internal/core"
	"github.com/elektrokombinacija/mapf-lifelong/internal/vis/interact"
)

// Agent colors.
var (
	ColorAgent         = color.NRGBA{R: 100, G: 200, B: 255, A: 255}
	ColorAgentSelected = color.NRGBA{R: 255, G: 255, B: 100, A: 255}
)

// DrawAgent draws a single agent as a filled square at pos.
func DrawAgent(gtx layout.Context, pos core.Pos, selected bool, camera *interact.Camera) {
	wx, wy := posToWorld(pos)
	screenX, screenY := camera.WorldToScreen(wx, wy)
	size := float32(CellSize*0.6) * camera.Zoom

	col := ColorAgent
	if selected {
		col = ColorAgentSelected
	}
	drawSquare(gtx, screenX, screenY, size, col)
}

// DrawAgents draws every agent at its current position.
func DrawAgents(gtx layout.Context, agents []*core.Agent, positions map[int]core.Pos, selected map[int]bool, camera *interact.Camera) {
	for _, a := range agents {
		pos, ok := positions[a.ID]
		if !ok {
			continue
		}
		DrawAgent(gtx, pos, selected[a.ID], camera)
	}
}

// HitTestAgent checks whether a screen point falls within an agent's
// rendered footprint at pos.
func HitTestAgent(screenX, screenY float32, pos core.Pos, camera *interact.Camera) bool {
	wx, wy := posToWorld(pos)
	cx, cy := camera.WorldToScreen(wx, wy)
	half := float32(CellSize*0.3) * camera.Zoom
	dx := screenX - cx
	dy := screenY - cy
	return dx*dx+dy*dy <= half*half
}
