// Package interact handles pan/zoom/select gestures over the warehouse
// workspace.
package interact

import (
	"gioui.org/io/pointer"
	"gioui.org/layout"
)

const (
	minZoom = 0.1
	maxZoom = 10
	// scrollZoomFactor is the per-notch multiplicative zoom step.
	scrollZoomFactor = 1.1
)

// Camera holds the pan/zoom transform between grid-cell world coordinates
// and screen pixels.
type Camera struct {
	OffsetX, OffsetY float32
	Zoom             float32

	dragging     bool
	dragStartX   float32
	dragStartY   float32
	lastX, lastY float32
}

// NewCamera returns a camera centered with a 100px margin at 1x zoom.
func NewCamera() *Camera {
	c := &Camera{}
	c.Reset()
	return c
}

// Reset restores the default view.
func (c *Camera) Reset() {
	c.OffsetX, c.OffsetY = 100, 100
	c.Zoom = 1.0
}

// WorldToScreen maps a grid-space point to screen pixels.
func (c *Camera) WorldToScreen(worldX, worldY float64) (screenX, screenY float32) {
	return float32(worldX)*c.Zoom + c.OffsetX, float32(worldY)*c.Zoom + c.OffsetY
}

// ScreenToWorld maps a screen pixel back to grid space.
func (c *Camera) ScreenToWorld(screenX, screenY float32) (worldX, worldY float64) {
	return float64((screenX - c.OffsetX) / c.Zoom), float64((screenY - c.OffsetY) / c.Zoom)
}

func (c *Camera) clampZoom() {
	switch {
	case c.Zoom < minZoom:
		c.Zoom = minZoom
	case c.Zoom > maxZoom:
		c.Zoom = maxZoom
	}
}

// HandleEvent applies a pointer event (drag-to-pan on secondary/tertiary
// button, scroll-to-zoom centered on the cursor).
func (c *Camera) HandleEvent(gtx layout.Context, ev pointer.Event) {
	switch ev.Kind {
	case pointer.Press:
		if ev.Buttons.Contain(pointer.ButtonSecondary) || ev.Buttons.Contain(pointer.ButtonTertiary) {
			c.dragging = true
			c.dragStartX, c.dragStartY = ev.Position.X, ev.Position.Y
		}
		c.lastX, c.lastY = ev.Position.X, ev.Position.Y

	case pointer.Drag:
		if c.dragging {
			c.Pan(ev.Position.X-c.lastX, ev.Position.Y-c.lastY)
		}
		c.lastX, c.lastY = ev.Position.X, ev.Position.Y

	case pointer.Release:
		c.dragging = false

	case pointer.Scroll:
		if ev.Scroll.Y == 0 {
			return
		}
		factor := float32(scrollZoomFactor)
		if ev.Scroll.Y > 0 {
			factor = 1 / factor
		}
		c.ZoomBy(factor, ev.Position.X, ev.Position.Y)
	}
}

// Pan shifts the view by a screen-pixel delta.
func (c *Camera) Pan(dx, dy float32) {
	c.OffsetX += dx
	c.OffsetY += dy
}

// ZoomBy scales the view by factor, holding the world point under
// (centerX, centerY) fixed on screen.
func (c *Camera) ZoomBy(factor float32, centerX, centerY float32) {
	worldX, worldY := c.ScreenToWorld(centerX, centerY)
	c.Zoom *= factor
	c.clampZoom()
	newX, newY := c.WorldToScreen(worldX, worldY)
	c.OffsetX += centerX - newX
	c.OffsetY += centerY - newY
}

// CenterOn centers the view on a world-space point.
func (c *Camera) CenterOn(worldX, worldY float64, screenWidth, screenHeight float32) {
	c.OffsetX = screenWidth/2 - float32(worldX)*c.Zoom
	c.OffsetY = screenHeight/2 - float32(worldY)*c.Zoom
}

// FitBounds zooms and centers so the given world-space rectangle (plus
// margin) fills the screen.
func (c *Camera) FitBounds(minX, minY, maxX, maxY float64, screenWidth, screenHeight, margin float32) {
	worldW, worldH := maxX-minX, maxY-minY
	if worldW <= 0 || worldH <= 0 {
		return
	}

	zoomX := (screenWidth - 2*margin) / float32(worldW)
	zoomY := (screenHeight - 2*margin) / float32(worldH)
	c.Zoom = zoomX
	if zoomY < zoomX {
		c.Zoom = zoomY
	}
	c.clampZoom()

	c.CenterOn((minX+maxX)/2, (minY+maxY)/2, screenWidth, screenHeight)
}
