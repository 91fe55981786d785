// Package widgets provides Gio UI widgets for the visualizer.
package widgets

import (
	"image"
	"image/color"

	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/widget/material"

	"github.com/elektrokombinacija/mapf-lifelong/internal/vis/draw"
	"github.com/elektrokombinacija/mapf-lifelong/internal/vis/interact"
	"github.com/elektrokombinacija/mapf-lifelong/internal/vis/state"
)

// Workspace is the main 2D visualization area: the grid, committed
// trails, and agents at their current playback position.
type Workspace struct {
	state  *state.State
	camera *interact.Camera

	selected map[int]bool
}

// NewWorkspace creates a new workspace widget.
func NewWorkspace(st *state.State, camera *interact.Camera) *Workspace {
	return &Workspace{
		state:    st,
		camera:   camera,
		selected: make(map[int]bool),
	}
}

// Layout renders the workspace.
func (w *Workspace) Layout(gtx layout.Context, th *material.Theme) layout.Dimensions {
	bounds := gtx.Constraints.Max
	defer clip.Rect(image.Rect(0, 0, bounds.X, bounds.Y)).Push(gtx.Ops).Pop()

	paint.Fill(gtx.Ops, color.NRGBA{R: 20, G: 22, B: 26, A: 255})

	w.handlePointerEvents(gtx)

	if w.state.Grid != nil {
		draw.DrawCells(gtx, w.state.Grid, w.camera)
		draw.DrawGridLines(gtx, w.state.Grid, w.camera)
	}

	draw.DrawAllPaths(gtx, w.state.Agents, w.camera)

	for _, a := range w.state.Agents {
		history := w.state.PathHistory(a.ID)
		if len(history) > 1 {
			draw.DrawPathTrail(gtx, history, w.camera, draw.ColorAgent, 3)
		}
		draw.DrawFuturePath(gtx, a.Path, w.state.Playback.CurrentTime, w.camera, draw.ColorAgent)
	}

	positions := w.state.CurrentPositions()
	draw.DrawAgents(gtx, w.state.Agents, positions, w.selected, w.camera)

	return layout.Dimensions{Size: bounds}
}

func (w *Workspace) handlePointerEvents(gtx layout.Context) {
	area := clip.Rect(image.Rect(0, 0, gtx.Constraints.Max.X, gtx.Constraints.Max.Y)).Push(gtx.Ops)
	event.Op(gtx.Ops, w)
	area.Pop()

	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target: w,
			Kinds:  pointer.Press | pointer.Drag | pointer.Release | pointer.Scroll | pointer.Move,
		})
		if !ok {
			break
		}
		if pe, ok := ev.(pointer.Event); ok {
			w.handlePointerEvent(gtx, pe)
		}
	}
}

func (w *Workspace) handlePointerEvent(gtx layout.Context, ev pointer.Event) {
	w.camera.HandleEvent(gtx, ev)

	if ev.Kind == pointer.Press && ev.Buttons.Contain(pointer.ButtonPrimary) {
		w.handleClick(ev.Position.X, ev.Position.Y)
	}
}

func (w *Workspace) handleClick(screenX, screenY float32) {
	positions := w.state.CurrentPositions()
	for _, a := range w.state.Agents {
		pos, ok := positions[a.ID]
		if !ok {
			continue
		}
		if draw.HitTestAgent(screenX, screenY, pos, w.camera) {
			w.toggleSelect(a.ID)
			return
		}
	}
	if _, ok := draw.HitTestCell(screenX, screenY, w.state.Grid, w.camera); ok {
		w.selected = make(map[int]bool)
	}
}

func (w *Workspace) toggleSelect(agentID int) {
	if w.selected[agentID] {
		delete(w.selected, agentID)
		return
	}
	w.selected = map[int]bool{agentID: true}
}
