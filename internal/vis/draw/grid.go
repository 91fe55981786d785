// Package draw provides rendering functions for visualization.
package draw

import (
	"image"
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"

	"github.com/elektrokombinacija/mapf-lifelong/internal/core"
	"github.com/elektrokombinacija/mapf-lifelong/internal/vis/interact"
)

// CellSize is the world-space edge length of one grid cell, in the same
// units the camera's pan/zoom offsets are expressed in.
const CellSize = 40.0

// Cell colors.
var (
	ColorCellFree    = color.NRGBA{R: 25, G: 28, B: 32, A: 255}
	ColorCellBlocked = color.NRGBA{R: 55, G: 58, B: 64, A: 255}
	ColorCellParking = color.NRGBA{R: 45, G: 70, B: 60, A: 255}
	ColorGridLine    = color.NRGBA{R: 40, G: 45, B: 50, A: 255}
)

// posToWorld converts a grid cell to the world coordinate of its center.
func posToWorld(p core.Pos) (x, y float64) {
	return float64(p.Col) * CellSize, float64(p.Row) * CellSize
}

// DrawCells renders every cell of the grid: free, blocked, or parking.
func DrawCells(gtx layout.Context, g *core.Grid, camera *interact.Camera) {
	half := float32(CellSize/2) * camera.Zoom
	for row := 0; row < g.H; row++ {
		for col := 0; col < g.W; col++ {
			p := core.Pos{Row: row, Col: col}
			wx, wy := posToWorld(p)
			sx, sy := camera.WorldToScreen(wx, wy)

			cellColor := ColorCellFree
			switch {
			case g.Blocked(p):
				cellColor = ColorCellBlocked
			case g.IsParking(p):
				cellColor = ColorCellParking
			}
			rect := image.Rect(int(sx-half), int(sy-half), int(sx+half), int(sy+half))
			paint.FillShape(gtx.Ops, cellColor, clip.Rect(rect).Op())
		}
	}
}

// DrawGridLines draws a faint outline over every cell boundary.
func DrawGridLines(gtx layout.Context, g *core.Grid, camera *interact.Camera) {
	half := float32(CellSize/2) * camera.Zoom
	for row := 0; row <= g.H; row++ {
		wx0, wy := posToWorld(core.Pos{Row: row, Col: 0})
		wx1, _ := posToWorld(core.Pos{Row: row, Col: g.W})
		x0, y0 := camera.WorldToScreen(wx0, wy)
		x1, _ := camera.WorldToScreen(wx1, wy)
		rect := image.Rect(int(x0-half), int(y0-half), int(x1+half), int(y0-half)+1)
		paint.FillShape(gtx.Ops, ColorGridLine, clip.Rect(rect).Op())
	}
	for col := 0; col <= g.W; col++ {
		wx, wy0 := posToWorld(core.Pos{Row: 0, Col: col})
		_, wy1 := posToWorld(core.Pos{Row: g.H, Col: col})
		x0, y0 := camera.WorldToScreen(wx, wy0)
		_, y1 := camera.WorldToScreen(wx, wy1)
		rect := image.Rect(int(x0-half), int(y0-half), int(x0-half)+1, int(y1+half))
		paint.FillShape(gtx.Ops, ColorGridLine, clip.Rect(rect).Op())
	}
}

// HitTestCell finds the grid cell under a screen point, if any.
func HitTestCell(screenX, screenY float32, g *core.Grid, camera *interact.Camera) (core.Pos, bool) {
	wx, wy := camera.ScreenToWorld(screenX, screenY)
	col := int(math.Round(wx / CellSize))
	row := int(math.Round(wy / CellSize))
	p := core.Pos{Row: row, Col: col}
	return p, g.InBounds(p)
}

func drawFilledCircle(gtx layout.Context, cx, cy, radius float32, col color.NRGBA) {
	var path clip.Path
	path.Begin(gtx.Ops)
	path.Move(f32.Pt(cx+radius, cy))

	segments := 12
	for i := 1; i <= segments; i++ {
		angle := float64(i) * 2 * math.Pi / float64(segments)
		x := cx + radius*float32(math.Cos(angle))
		y := cy + radius*float32(math.Sin(angle))
		path.Line(f32.Pt(x-path.Pos().X, y-path.Pos().Y))
	}
	path.Close()

	paint.FillShape(gtx.Ops, col, clip.Outline{Path: path.End()}.Op())
}

func drawSquare(gtx layout.Context, cx, cy, size float32, col color.NRGBA) {
	half := size / 2
	rect := image.Rect(int(cx-half), int(cy-half), int(cx+half), int(cy+half))
	paint.FillShape(gtx.Ops, col, clip.Rect(rect).Op())
}
