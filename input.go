package main

import (
	"github.com/ebitenui/ebitenui/input"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/campusmap/viewer"
)

// Pointer is the subset of the map controller driven by mouse and wheel.
type Pointer interface {
	OnWheel(deltaY float64)
	OnDragStart(pointerX, pointerY float64)
	OnDragMove(pointerX, pointerY float64)
	OnDragEnd()
}

// Input polls the mouse, wheel and touch screen each tick and forwards
// gestures that start inside the map viewport.
type Input struct {
	pointer  Pointer
	touches  *viewer.TouchRouter
	contains func(x, y int) bool

	mouseDragging bool
	touchIDs      []ebiten.TouchID
	points        []viewer.Point
}

func NewInput(pointer Pointer, touch viewer.TouchTarget, contains func(x, y int) bool) *Input {
	return &Input{
		pointer:  pointer,
		touches:  viewer.NewTouchRouter(touch),
		contains: contains,
	}
}

func (i *Input) inside(x, y int) bool {
	if input.UIHovered {
		return false
	}
	return i.contains == nil || i.contains(x, y)
}

func (i *Input) Update() {
	mx, my := ebiten.CursorPosition()

	if _, wy := ebiten.Wheel(); wy != 0 && i.inside(mx, my) {
		// ebiten reports wheel-up as positive; the controller expects DOM deltaY.
		i.pointer.OnWheel(-wy)
	}

	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && i.inside(mx, my):
		i.mouseDragging = true
		i.pointer.OnDragStart(float64(mx), float64(my))
	case i.mouseDragging && inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		i.mouseDragging = false
		i.pointer.OnDragEnd()
	case i.mouseDragging:
		i.pointer.OnDragMove(float64(mx), float64(my))
	}

	i.updateTouches()
}

func (i *Input) updateTouches() {
	i.touchIDs = ebiten.AppendTouchIDs(i.touchIDs[:0])
	i.points = i.points[:0]
	for _, id := range i.touchIDs {
		x, y := ebiten.TouchPosition(id)
		// A new gesture has to begin on the map; one already running keeps
		// its fingers even if they wander over the controls.
		if i.touches.Active() == 0 && !i.inside(x, y) {
			continue
		}
		i.points = append(i.points, viewer.Point{X: float64(x), Y: float64(y)})
	}
	i.touches.Update(i.points)
}
