package main

import (
	"image"
	"image/color"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/campusmap/floors"
	"github.com/milk9111/campusmap/viewer"
	"golang.org/x/image/colornames"
)

const (
	// fadeSpeed is the alpha change per tick while the map fades in or out.
	fadeSpeed     = 0.12
	loadingAlpha  = 0.35
	spinnerSpokes = 12
)

// MapSurface draws the active floor inside the map viewport using the
// controller's transform. The image is fitted ("contain") to the viewport at
// scale 1 and the transform is applied about the image center.
type MapSurface struct {
	viewport image.Rectangle
	img      *ebiten.Image
	floor    floors.Floor
	loadErr  error

	transform viewer.Transform
	applied   int

	loading bool
	alpha   float64
	spin    int
}

func NewMapSurface(viewport image.Rectangle) *MapSurface {
	return &MapSurface{
		viewport:  viewport,
		transform: viewer.Transform{Scale: 1},
		alpha:     1,
	}
}

// ApplyTransform is called once per frame by the controller's sync.
func (s *MapSurface) ApplyTransform(t viewer.Transform) {
	s.transform = t
	s.applied++
}

func (s *MapSurface) Transform() viewer.Transform {
	return s.transform
}

// ShowMap swaps in a floor image. A failed load leaves a placeholder.
func (s *MapSurface) ShowMap(f floors.Floor, img image.Image, err error) {
	s.floor = f
	s.loadErr = err
	if err != nil || img == nil {
		s.img = nil
		return
	}
	if eimg, ok := img.(*ebiten.Image); ok {
		s.img = eimg
		return
	}
	s.img = ebiten.NewImageFromImage(img)
}

func (s *MapSurface) Floor() floors.Floor {
	return s.floor
}

func (s *MapSurface) SetViewport(r image.Rectangle) {
	s.viewport = r
}

func (s *MapSurface) Viewport() image.Rectangle {
	return s.viewport
}

// Contains reports whether the screen point lies inside the map viewport.
func (s *MapSurface) Contains(x, y int) bool {
	return image.Pt(x, y).In(s.viewport)
}

// SetLoading fades the map while a new floor is being swapped in.
func (s *MapSurface) SetLoading(loading bool) {
	s.loading = loading
}

// Update advances the fade and spinner animation. Call once per tick.
func (s *MapSurface) Update() {
	target := 1.0
	if s.loading {
		target = loadingAlpha
		s.spin = (s.spin + 1) % (spinnerSpokes * 4)
	}
	switch {
	case s.alpha < target:
		s.alpha = math.Min(target, s.alpha+fadeSpeed)
	case s.alpha > target:
		s.alpha = math.Max(target, s.alpha-fadeSpeed)
	}
}

// mapGeoM builds the draw transform for an image of size w x h shown in
// viewport with the CSS-style transform t ("translate(x, y) scale(s)" about
// the image center).
func mapGeoM(w, h int, viewport image.Rectangle, t viewer.Transform) ebiten.GeoM {
	var geo ebiten.GeoM
	if w <= 0 || h <= 0 || viewport.Empty() {
		return geo
	}
	vw, vh := float64(viewport.Dx()), float64(viewport.Dy())
	fit := math.Min(vw/float64(w), vh/float64(h))

	geo.Translate(-float64(w)/2, -float64(h)/2)
	geo.Scale(fit*t.Scale, fit*t.Scale)
	geo.Translate(float64(viewport.Min.X)+vw/2+t.X, float64(viewport.Min.Y)+vh/2+t.Y)
	return geo
}

func (s *MapSurface) Draw(screen *ebiten.Image) {
	vp := s.viewport
	view, ok := screen.SubImage(vp).(*ebiten.Image)
	if !ok {
		log.Printf("surface: viewport %v is not drawable", vp)
		return
	}
	view.Fill(colornames.Whitesmoke)

	if s.img == nil {
		s.drawPlaceholder(view)
	} else {
		b := s.img.Bounds()
		op := &ebiten.DrawImageOptions{}
		op.GeoM = mapGeoM(b.Dx(), b.Dy(), vp, s.transform)
		op.Filter = ebiten.FilterLinear
		op.ColorScale.ScaleAlpha(float32(s.alpha))
		view.DrawImage(s.img, op)
	}

	if s.loading {
		s.drawSpinner(view)
	}
}

func (s *MapSurface) drawPlaceholder(view *ebiten.Image) {
	vp := s.viewport
	vector.StrokeRect(view, float32(vp.Min.X+8), float32(vp.Min.Y+8), float32(vp.Dx()-16), float32(vp.Dy()-16), 2, colornames.Lightgray, false)
	if s.loadErr == nil {
		return
	}
	label := "Map unavailable: " + s.floor.Label
	ebitenutil.DebugPrintAt(view, label, vp.Min.X+vp.Dx()/2-len(label)*3, vp.Min.Y+vp.Dy()/2-8)
}

func (s *MapSurface) drawSpinner(view *ebiten.Image) {
	vp := s.viewport
	cx := float64(vp.Min.X) + float64(vp.Dx())/2
	cy := float64(vp.Min.Y) + float64(vp.Dy())/2
	head := s.spin / 4
	for i := 0; i < spinnerSpokes; i++ {
		angle := 2 * math.Pi * float64(i) / spinnerSpokes
		sin, cos := math.Sincos(angle)
		fade := uint8(255 * ((spinnerSpokes + i - head) % spinnerSpokes) / spinnerSpokes)
		c := color.NRGBA{R: 0x33, G: 0x66, B: 0x99, A: 255 - fade}
		vector.StrokeLine(view,
			float32(cx+cos*10), float32(cy+sin*10),
			float32(cx+cos*20), float32(cy+sin*20),
			3, c, true)
	}
}
