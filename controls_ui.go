package main

import (
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/campusmap/floors"
	"golang.org/x/image/font/basicfont"
)

const (
	toolbarHeight = 44
	sidebarWidth  = 180
)

// ControlActions are the handlers behind the toolbar and floor sidebar.
type ControlActions struct {
	ZoomIn      func()
	ZoomOut     func()
	Reset       func()
	SelectFloor func(id string)
}

// ControlsUI is the toolbar (zoom buttons, zoom percent, level toggle) and
// the floor sidebar. It mirrors the controller's zoom state and the
// selector's loading state.
type ControlsUI struct {
	UI *ebitenui.UI

	root      *widget.Container
	sidebar   *widget.Container
	zoomLabel *widget.Text
	status    *widget.Text
	zoomIn    *widget.Button
	zoomOut   *widget.Button

	floorButtons map[string]*widget.Button
	floorLabels  map[string]string

	sidebarOpen bool
	loading     bool
	floorLabel  string
	visits      int
}

func NewControlsUI(table *floors.Table, actions ControlActions) *ControlsUI {
	c := &ControlsUI{
		floorButtons: make(map[string]*widget.Button),
		floorLabels:  make(map[string]string),
		visits:       -1,
	}

	goFace := ebtext.NewGoXFace(basicfont.Face7x13)
	var face ebtext.Face = goFace

	barImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x22, G: 0x2b, B: 0x36, A: 235})
	btnImg := &widget.ButtonImage{
		Idle:     imageui.NewNineSliceColor(color.NRGBA{R: 0x3a, G: 0x4a, B: 0x5c, A: 255}),
		Hover:    imageui.NewNineSliceColor(color.NRGBA{R: 0x4b, G: 0x5f, B: 0x75, A: 255}),
		Pressed:  imageui.NewNineSliceColor(color.NRGBA{R: 0x2c, G: 0x38, B: 0x46, A: 255}),
		Disabled: imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 160}),
	}
	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	btnTextColor := &widget.ButtonTextColor{Idle: white, Disabled: color.NRGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xff}}
	minSize := widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(96, 30))

	button := func(label string, onClick func()) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(btnImg),
			widget.ButtonOpts.Text(label, &face, btnTextColor),
			minSize,
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				if onClick != nil {
					onClick()
				}
			}),
		)
	}

	toolbar := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(barImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(8),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 6, Bottom: 6, Left: 10, Right: 10}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(0, toolbarHeight),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionStart,
				VerticalPosition:   widget.AnchorLayoutPositionStart,
				StretchHorizontal:  true,
			}),
		),
	)

	centered := widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter}))

	toolbar.AddChild(button("Change Level", c.ToggleSidebar))
	c.zoomOut = button("Zoom Out", actions.ZoomOut)
	toolbar.AddChild(c.zoomOut)
	c.zoomLabel = widget.NewText(
		widget.TextOpts.Text("100%", &face, white),
		centered,
	)
	toolbar.AddChild(c.zoomLabel)
	c.zoomIn = button("Zoom In", actions.ZoomIn)
	toolbar.AddChild(c.zoomIn)
	toolbar.AddChild(button("Reset", actions.Reset))
	c.status = widget.NewText(
		widget.TextOpts.Text("", &face, white),
		centered,
	)
	toolbar.AddChild(c.status)

	c.sidebar = widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(barImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(6),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: toolbarHeight + 10, Bottom: 10, Left: 10, Right: 10}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(sidebarWidth, 0),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionStart,
				VerticalPosition:   widget.AnchorLayoutPositionStart,
				StretchVertical:    true,
			}),
		),
	)
	for _, f := range table.Floors {
		id := f.ID
		btn := widget.NewButton(
			widget.ButtonOpts.Image(btnImg),
			widget.ButtonOpts.Text(f.Label, &face, btnTextColor),
			widget.ButtonOpts.WidgetOpts(
				widget.WidgetOpts.MinSize(sidebarWidth-20, 30),
				widget.WidgetOpts.LayoutData(widget.RowLayoutData{Stretch: true}),
			),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				if actions.SelectFloor != nil {
					actions.SelectFloor(id)
				}
			}),
		)
		c.floorButtons[id] = btn
		c.floorLabels[id] = f.Label
		c.sidebar.AddChild(btn)
	}
	c.sidebar.GetWidget().Visibility = widget.Visibility_Hide

	c.root = widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	// Sidebar first so the toolbar draws over its top padding.
	c.root.AddChild(c.sidebar)
	c.root.AddChild(toolbar)

	c.UI = &ebitenui.UI{Container: c.root}
	return c
}

// SetZoomPercent implements viewer.Display.
func (c *ControlsUI) SetZoomPercent(percent int) {
	c.zoomLabel.Label = fmt.Sprintf("%d%%", percent)
}

// SetZoomEnabled implements viewer.Display.
func (c *ControlsUI) SetZoomEnabled(zoomIn, zoomOut bool) {
	c.zoomIn.GetWidget().Disabled = !zoomIn
	c.zoomOut.GetWidget().Disabled = !zoomOut
}

// SetLoading implements floors.Indicator.
func (c *ControlsUI) SetLoading(loading bool) {
	c.loading = loading
	c.refreshStatus()
}

// SetActiveFloor highlights the selected floor in the sidebar.
func (c *ControlsUI) SetActiveFloor(f floors.Floor) {
	for id, btn := range c.floorButtons {
		label := c.floorLabels[id]
		if id == f.ID {
			label = "> " + label
		}
		if text := btn.Text(); text != nil {
			text.Label = label
		}
	}
	c.floorLabel = f.Label
	c.refreshStatus()
}

// SetVisits shows the visitor count; a negative count hides it.
func (c *ControlsUI) SetVisits(n int) {
	c.visits = n
	c.refreshStatus()
}

func (c *ControlsUI) ToggleSidebar() {
	c.SetSidebarOpen(!c.sidebarOpen)
}

func (c *ControlsUI) SetSidebarOpen(open bool) {
	c.sidebarOpen = open
	if open {
		c.sidebar.GetWidget().Visibility = widget.Visibility_Show
	} else {
		c.sidebar.GetWidget().Visibility = widget.Visibility_Hide
	}
	c.root.RequestRelayout()
}

func (c *ControlsUI) SidebarOpen() bool {
	return c.sidebarOpen
}

func (c *ControlsUI) refreshStatus() {
	s := c.floorLabel
	if c.loading {
		s += " (loading...)"
	}
	if c.visits >= 0 {
		s += fmt.Sprintf("   visitors: %d", c.visits)
	}
	c.status.Label = s
}
