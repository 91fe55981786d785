package widgets

import (
	"fmt"
	"image"
	"image/color"

	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"github.com/elektrokombinacija/mapf-lifelong/internal/vis/state"
)

const (
	timelineHeight  = 60
	timelineMargin  = 20
	trackThickness  = 6
	playheadSide    = 12
)

// Timeline is the scrubber bar: a draggable track showing playback
// progress over the schedule's makespan.
type Timeline struct {
	state    *state.State
	dragging bool
}

// NewTimeline creates a scrubber bound to st's PlaybackState.
func NewTimeline(st *state.State) *Timeline {
	return &Timeline{state: st}
}

// Layout draws the track, fill, playhead, and time labels, and consumes
// pointer events for click/drag seeking.
func (t *Timeline) Layout(gtx layout.Context, th *material.Theme) layout.Dimensions {
	bg := image.Rect(0, 0, gtx.Constraints.Max.X, timelineHeight)
	paint.FillShape(gtx.Ops, color.NRGBA{R: 35, G: 38, B: 42, A: 255}, clip.Rect(bg).Op())

	trackWidth := gtx.Constraints.Max.X - 2*timelineMargin
	t.handlePointerEvents(gtx, trackWidth)

	trackY := timelineHeight / 2
	track := image.Rect(timelineMargin, trackY-trackThickness/2, timelineMargin+trackWidth, trackY+trackThickness/2)
	paint.FillShape(gtx.Ops, color.NRGBA{R: 60, G: 65, B: 70, A: 255}, clip.Rect(track).Op())

	fillWidth := int(float64(trackWidth) * t.state.Playback.Progress())
	if fillWidth > 0 {
		fill := image.Rect(timelineMargin, trackY-trackThickness/2, timelineMargin+fillWidth, trackY+trackThickness/2)
		paint.FillShape(gtx.Ops, color.NRGBA{R: 100, G: 180, B: 255, A: 255}, clip.Rect(fill).Op())
	}

	playheadX := timelineMargin + fillWidth
	playhead := image.Rect(playheadX-playheadSide/2, trackY-playheadSide/2, playheadX+playheadSide/2, trackY+playheadSide/2)
	paint.FillShape(gtx.Ops, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, clip.Rect(playhead).Op())

	t.drawTimeLabels(gtx, th)

	return layout.Dimensions{Size: image.Point{X: gtx.Constraints.Max.X, Y: timelineHeight}}
}

func (t *Timeline) drawTimeLabels(gtx layout.Context, th *material.Theme) {
	current := material.Label(th, 12, fmt.Sprintf("%.1f", t.state.Playback.CurrentTime))
	current.Color = color.NRGBA{R: 200, G: 200, B: 200, A: 255}
	current.Alignment = text.Start

	speed := material.Label(th, 12, fmt.Sprintf("%.1fx", t.state.Playback.Speed))
	speed.Color = color.NRGBA{R: 150, G: 180, B: 200, A: 255}

	max := material.Label(th, 12, fmt.Sprintf("%.1f", t.state.Playback.MaxTime))
	max.Color = color.NRGBA{R: 150, G: 150, B: 150, A: 255}
	max.Alignment = text.End

	layout.Inset{Top: unit.Dp(4), Left: unit.Dp(20), Right: unit.Dp(20)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Horizontal, Spacing: layout.SpaceBetween}.Layout(gtx,
			layout.Rigid(current.Layout),
			layout.Rigid(speed.Layout),
			layout.Rigid(max.Layout),
		)
	})
}

func (t *Timeline) handlePointerEvents(gtx layout.Context, trackWidth int) {
	area := clip.Rect(image.Rect(0, 0, gtx.Constraints.Max.X, timelineHeight)).Push(gtx.Ops)
	event.Op(gtx.Ops, t)
	area.Pop()

	for {
		ev, ok := gtx.Event(pointer.Filter{Target: t, Kinds: pointer.Press | pointer.Drag | pointer.Release})
		if !ok {
			break
		}
		pe, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		switch pe.Kind {
		case pointer.Press:
			t.dragging = true
			t.seekToPosition(pe.Position.X, trackWidth)
		case pointer.Drag:
			if t.dragging {
				t.seekToPosition(pe.Position.X, trackWidth)
			}
		case pointer.Release:
			t.dragging = false
		}
	}
}

func (t *Timeline) seekToPosition(screenX float32, trackWidth int) {
	progress := (float64(screenX) - float64(timelineMargin)) / float64(trackWidth)
	switch {
	case progress < 0:
		progress = 0
	case progress > 1:
		progress = 1
	}
	t.state.Playback.SetTime(progress * t.state.Playback.MaxTime)
}
