// Package viewer holds the zoom and pan state of an interactive map and turns
// button, wheel, drag and pinch input into one clamped transform.
package viewer

import (
	"math"

	"github.com/milk9111/campusmap/common"
)

// scaleResolution keeps repeated step arithmetic on a 1e-6 grid so that
// stepping back down lands exactly on MinScale.
const scaleResolution = 1e6

// Surface receives the transform the map should be drawn with.
type Surface interface {
	ApplyTransform(t Transform)
}

// Display mirrors the zoom percentage and zoom button enablement.
type Display interface {
	SetZoomPercent(percent int)
	SetZoomEnabled(zoomIn, zoomOut bool)
}

// Controller owns the transform of one displayed map.
//
// All methods must be called from the render loop goroutine. Input that
// arrives without its precondition (a drag move with no drag, a pinch
// end with no pinch) is ignored, and scale changes are clamped, so the state
// is always valid.
type Controller struct {
	profile Profile
	state   Transform

	drag  dragSession
	pinch pinchSession

	surface Surface
	display Display
	frames  Scheduler
	pending bool
}

// NewController creates a controller at the home position. surface and
// display may be nil; frames may be nil to apply transforms immediately.
func NewController(profile Profile, surface Surface, display Display, frames Scheduler) *Controller {
	c := &Controller{
		profile: profile,
		state:   Transform{Scale: profile.MinScale},
		surface: surface,
		display: display,
		frames:  frames,
	}
	c.RequestSync()
	return c
}

func (c *Controller) Profile() Profile {
	return c.profile
}

// State returns the current transform.
func (c *Controller) State() Transform {
	return c.state
}

// SetSurface attaches or detaches the presentation sink. A newly attached
// surface receives the current transform on the next frame.
func (c *Controller) SetSurface(s Surface) {
	c.surface = s
	if s != nil {
		c.RequestSync()
	}
}

func (c *Controller) ZoomPercent() int {
	return int(math.Round(c.state.Scale * 100))
}

func (c *Controller) CanZoomIn() bool {
	return c.state.Scale < c.profile.MaxScale
}

func (c *Controller) CanZoomOut() bool {
	return c.state.Scale > c.profile.MinScale
}

// Dragging reports whether a drag session is active.
func (c *Controller) Dragging() bool {
	return c.drag.active
}

// Pinching reports whether a pinch baseline has been recorded.
func (c *Controller) Pinching() bool {
	return c.pinch.hasLast
}

func (c *Controller) ZoomIn() {
	if !c.CanZoomIn() {
		return
	}
	c.zoomBy(c.profile.ZoomStep)
}

func (c *Controller) ZoomOut() {
	if !c.CanZoomOut() {
		return
	}
	c.zoomBy(-c.profile.ZoomStep)
}

// Reset returns to the home position and drops any drag or pinch in progress.
func (c *Controller) Reset() {
	c.state = Transform{Scale: c.profile.MinScale}
	c.drag.end()
	c.pinch.end()
	c.RequestSync()
}

// OnWheel zooms in for negative deltaY (scroll up) and out for positive. A
// zero delta, such as a purely horizontal scroll, is ignored.
func (c *Controller) OnWheel(deltaY float64) {
	switch {
	case deltaY < 0:
		c.zoomBy(c.profile.WheelStep)
	case deltaY > 0:
		c.zoomBy(-c.profile.WheelStep)
	}
}

func (c *Controller) OnDragStart(pointerX, pointerY float64) {
	c.drag.begin(pointerX, pointerY, c.state)
}

// OnDragMove pans the map. Panning is disabled at MinScale.
func (c *Controller) OnDragMove(pointerX, pointerY float64) {
	if !c.drag.active || c.atHome() {
		return
	}
	c.state.X, c.state.Y = c.drag.translate(pointerX, pointerY)
	c.RequestSync()
}

func (c *Controller) OnDragEnd() {
	c.drag.end()
}

// OnPinchSample handles one two-touch sample. The distance is always kept
// as the baseline for the next sample.
func (c *Controller) OnPinchSample(a, b Point) {
	distance := Distance(a, b)
	if delta, ok := c.pinch.delta(distance); ok && math.Abs(delta) > c.profile.PinchThreshold {
		if delta > 0 {
			c.zoomBy(c.profile.PinchStep)
		} else {
			c.zoomBy(-c.profile.PinchStep)
		}
	}
	c.pinch.record(distance)
}

// OnPinchEnd forgets the pinch baseline so the next two-touch sequence does
// not compute a delta against a stale distance.
func (c *Controller) OnPinchEnd() {
	c.pinch.end()
}

// RequestSync schedules the transform for the next frame unless one is
// already pending. The display is updated right away on every call.
func (c *Controller) RequestSync() {
	if !c.pending {
		c.pending = true
		if c.frames != nil {
			c.frames.RequestFrame(c.applyFrame)
		} else {
			c.applyFrame()
		}
	}

	if c.display != nil {
		c.display.SetZoomPercent(c.ZoomPercent())
		c.display.SetZoomEnabled(c.CanZoomIn(), c.CanZoomOut())
	}
}

func (c *Controller) applyFrame() {
	c.pending = false
	if c.surface == nil {
		return
	}
	c.surface.ApplyTransform(c.state)
}

func (c *Controller) atHome() bool {
	return c.state.Scale <= c.profile.MinScale
}

func (c *Controller) zoomBy(delta float64) {
	next := common.Clamp(common.Snap(c.state.Scale+delta, scaleResolution), c.profile.MinScale, c.profile.MaxScale)
	if next == c.state.Scale {
		return
	}
	c.state.Scale = next
	if c.atHome() {
		c.Reset()
		return
	}
	c.RequestSync()
}
