package viewer

// TouchTarget receives the gestures recognised by a TouchRouter.
// *Controller implements it.
type TouchTarget interface {
	OnDragStart(pointerX, pointerY float64)
	OnDragMove(pointerX, pointerY float64)
	OnDragEnd()
	OnPinchSample(a, b Point)
	OnPinchEnd()
}

// TouchRouter turns the set of active touches, sampled once per tick, into
// drag and pinch calls. One touch drags, two touches pinch, anything else
// only ends the pinch. Returning to a single touch re-anchors the drag so the
// map does not jump to the remaining finger.
type TouchRouter struct {
	target TouchTarget
	prev   int
}

func NewTouchRouter(target TouchTarget) *TouchRouter {
	return &TouchRouter{target: target}
}

// Active returns the touch count seen on the previous Update.
func (r *TouchRouter) Active() int {
	return r.prev
}

func (r *TouchRouter) Update(touches []Point) {
	n := len(touches)
	if r.prev == 2 && n != 2 {
		r.target.OnPinchEnd()
	}

	switch n {
	case 0:
		if r.prev > 0 {
			r.target.OnDragEnd()
		}
	case 1:
		p := touches[0]
		if r.prev == 1 {
			r.target.OnDragMove(p.X, p.Y)
		} else {
			r.target.OnDragStart(p.X, p.Y)
		}
	case 2:
		if r.prev == 1 {
			r.target.OnDragEnd()
		}
		r.target.OnPinchSample(touches[0], touches[1])
	default:
		if r.prev == 1 {
			r.target.OnDragEnd()
		}
	}

	r.prev = n
}
