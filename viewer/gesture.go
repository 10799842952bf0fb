package viewer

// dragSession lives while a pointer is held on the map. The anchor is the
// pointer-to-translate offset at press time so the map moves with the grab
// point instead of jumping to the cursor.
type dragSession struct {
	active  bool
	anchorX float64
	anchorY float64
}

func (d *dragSession) begin(pointerX, pointerY float64, t Transform) {
	d.active = true
	d.anchorX = pointerX - t.X
	d.anchorY = pointerY - t.Y
}

func (d *dragSession) translate(pointerX, pointerY float64) (float64, float64) {
	return pointerX - d.anchorX, pointerY - d.anchorY
}

func (d *dragSession) end() {
	*d = dragSession{}
}

// pinchSession tracks the distance between two touches at the previous
// sample. hasLast is false until the first sample after a reset.
type pinchSession struct {
	hasLast      bool
	lastDistance float64
}

// delta returns the change from the previous sample. ok is false when there
// is no previous sample, so the first sample only seeds the baseline.
func (p *pinchSession) delta(distance float64) (float64, bool) {
	if !p.hasLast {
		return 0, false
	}
	return distance - p.lastDistance, true
}

func (p *pinchSession) record(distance float64) {
	p.lastDistance = distance
	p.hasLast = true
}

func (p *pinchSession) end() {
	*p = pinchSession{}
}
