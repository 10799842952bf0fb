package viewer

import (
	"fmt"
	"math"
)

// Point is a pointer or touch position in screen pixels.
type Point struct {
	X float64
	Y float64
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Transform is the map's presentation state: translate(X, Y) then scale(Scale),
// both relative to the map's center.
type Transform struct {
	Scale float64
	X     float64
	Y     float64
}

func (t Transform) String() string {
	return fmt.Sprintf("translate(%gpx, %gpx) scale(%g)", t.X, t.Y, t.Scale)
}
