package draw

import (
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"

	"github.com/elektrokombinacija/mapf-lifelong/internal/core"
	"github.com/elektrokombinacija/mapf-lifelong/internal/vis/interact"
)

// DrawPathTrail draws the already-visited portion of an agent's path as a
// fading trail.
func DrawPathTrail(gtx layout.Context, history []core.Pos, camera *interact.Camera, baseColor color.NRGBA, maxWidth float32) {
	if len(history) < 2 {
		return
	}

	n := len(history)
	for i := 0; i < n-1; i++ {
		alpha := uint8(50 + float64(i)/float64(n)*150)
		col := baseColor
		col.A = alpha

		w := maxWidth * camera.Zoom * (0.3 + 0.7*float32(i)/float32(n))

		x1, y1 := cellScreen(history[i], camera)
		x2, y2 := cellScreen(history[i+1], camera)
		drawPathSegment(gtx, x1, y1, x2, y2, w, col)
	}
}

// DrawFuturePath draws the remaining portion of a committed path, dimmed.
func DrawFuturePath(gtx layout.Context, path core.Path, currentTime float64, camera *interact.Camera, col color.NRGBA) {
	if len(path) < 2 {
		return
	}

	startIdx := len(path)
	for i, node := range path {
		if float64(node.LeaveTime) > currentTime {
			startIdx = i
			break
		}
	}
	if startIdx >= len(path)-1 {
		return
	}

	dimCol := col
	dimCol.A = 80

	for i := startIdx; i < len(path)-1; i++ {
		x1, y1 := cellScreen(path[i].Pos, camera)
		x2, y2 := cellScreen(path[i+1].Pos, camera)
		drawPathSegment(gtx, x1, y1, x2, y2, 1.5*camera.Zoom, dimCol)
	}
}

// DrawTimedPath draws an entire committed path with endpoint markers.
func DrawTimedPath(gtx layout.Context, path core.Path, camera *interact.Camera, col color.NRGBA) {
	if len(path) == 0 {
		return
	}

	for i := 0; i < len(path)-1; i++ {
		x1, y1 := cellScreen(path[i].Pos, camera)
		x2, y2 := cellScreen(path[i+1].Pos, camera)
		drawPathSegment(gtx, x1, y1, x2, y2, 2*camera.Zoom, col)
	}

	markerCol := col
	markerCol.A = 200
	for i, node := range path {
		if i > 0 && i < len(path)-1 {
			continue
		}
		x, y := cellScreen(node.Pos, camera)
		drawFilledCircle(gtx, x, y, 4*camera.Zoom, markerCol)
	}
}

// DrawAllPaths draws every agent's committed path, dimmed.
func DrawAllPaths(gtx layout.Context, agents []*core.Agent, camera *interact.Camera) {
	for _, a := range agents {
		if len(a.Path) == 0 {
			continue
		}
		col := ColorAgent
		col.A = 100
		DrawTimedPath(gtx, a.Path, camera, col)
	}
}

func cellScreen(p core.Pos, camera *interact.Camera) (float32, float32) {
	wx, wy := posToWorld(p)
	return camera.WorldToScreen(wx, wy)
}

func drawPathSegment(gtx layout.Context, x1, y1, x2, y2, width float32, col color.NRGBA) {
	dx := x2 - x1
	dy := y2 - y1
	length := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	if length < 0.1 {
		return
	}

	dx /= length
	dy /= length
	px := -dy * width / 2
	py := dx * width / 2

	var path clip.Path
	path.Begin(gtx.Ops)
	path.MoveTo(f32.Pt(x1+px, y1+py))
	path.LineTo(f32.Pt(x2+px, y2+py))
	path.LineTo(f32.Pt(x2-px, y2-py))
	path.LineTo(f32.Pt(x1-px, y1-py))
	path.Close()

	paint.FillShape(gtx.Ops, col, clip.Outline{Path: path.End()}.Op())
}
