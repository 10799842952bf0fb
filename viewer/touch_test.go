package viewer

import (
	"fmt"
	"reflect"
	"testing"
)

type recordingTarget struct {
	calls []string
}

func (r *recordingTarget) OnDragStart(x, y float64) {
	r.calls = append(r.calls, fmt.Sprintf("start(%g,%g)", x, y))
}

func (r *recordingTarget) OnDragMove(x, y float64) {
	r.calls = append(r.calls, fmt.Sprintf("move(%g,%g)", x, y))
}

func (r *recordingTarget) OnDragEnd() {
	r.calls = append(r.calls, "end")
}

func (r *recordingTarget) OnPinchSample(a, b Point) {
	r.calls = append(r.calls, fmt.Sprintf("pinch(%g)", Distance(a, b)))
}

func (r *recordingTarget) OnPinchEnd() {
	r.calls = append(r.calls, "pinch_end")
}

func pts(coords ...float64) []Point {
	out := make([]Point, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		out = append(out, Point{X: coords[i], Y: coords[i+1]})
	}
	return out
}

func TestTouchRouter(t *testing.T) {
	tests := []struct {
		name   string
		frames [][]Point
		want   []string
	}{
		{
			name:   "single_finger_drag",
			frames: [][]Point{pts(1, 2), pts(3, 4), pts(5, 6), nil},
			want:   []string{"start(1,2)", "move(3,4)", "move(5,6)", "end"},
		},
		{
			name:   "pinch_then_release",
			frames: [][]Point{pts(0, 0, 100, 0), pts(0, 0, 110, 0), nil},
			want:   []string{"pinch(100)", "pinch(110)", "pinch_end", "end"},
		},
		{
			name:   "drag_into_pinch_and_back",
			frames: [][]Point{pts(1, 1), pts(0, 0, 50, 0), pts(7, 7), pts(8, 8)},
			want:   []string{"start(1,1)", "end", "pinch(50)", "pinch_end", "start(7,7)", "move(8,8)"},
		},
		{
			name:   "third_touch_ends_pinch",
			frames: [][]Point{pts(0, 0, 10, 0), pts(0, 0, 10, 0, 20, 0), pts(0, 0, 30, 0)},
			want:   []string{"pinch(10)", "pinch_end", "pinch(30)"},
		},
		{
			name:   "idle_is_quiet",
			frames: [][]Point{nil, nil},
			want:   nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			target := &recordingTarget{}
			r := NewTouchRouter(target)
			for _, f := range tc.frames {
				r.Update(f)
			}
			if !reflect.DeepEqual(target.calls, tc.want) {
				t.Fatalf("expected calls %v, got %v", tc.want, target.calls)
			}
		})
	}
}

func TestTouchRouterDrivesController(t *testing.T) {
	c, _, _, _ := newTestController(CampusProfile())
	r := NewTouchRouter(c)

	r.Update(pts(0, 0, 100, 0))
	r.Update(pts(0, 0, 110, 0))
	if got := c.State().Scale; got != 1.05 {
		t.Fatalf("expected pinch to zoom to 1.05, got %v", got)
	}

	r.Update(pts(20, 20))
	r.Update(pts(30, 45))
	if st := c.State(); st.X != 10 || st.Y != 25 {
		t.Fatalf("expected drag to translate (10,25), got (%v,%v)", st.X, st.Y)
	}

	r.Update(nil)
	if c.Dragging() || c.Pinching() {
		t.Fatalf("lifting all touches should end drag and pinch")
	}
}
