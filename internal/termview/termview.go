// Package termview rasterizes a world onto a terminal grid.
package termview

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/jakecoffman/impulse"
	"github.com/lucasb-eyer/go-colorful"
)

// Canvas is the part of tcell.Screen the view draws on.
type Canvas interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (width, height int)
}

// Terminal cells are about twice as tall as they are wide.
const cellAspect = 2.0

const (
	fillRune    = '█'
	outlineRune = '▓'
	groundRune  = '░'
	surfaceRune = '▒'
	segmentRune = '·'
	dotRune     = '*'
)

// View implements impulse.Drawer. World coordinates have y pointing up; Center is
// drawn in the middle of the canvas and one column spans Scale world units.
type View struct {
	Center impulse.Vector
	Scale  float64
	flags  impulse.DrawFlags

	canvas        Canvas
	width, height int
}

func New(canvas Canvas) *View {
	return &View{
		Scale:  1,
		flags:  impulse.DRAW_SHAPES | impulse.DRAW_CONSTRAINTS,
		canvas: canvas,
	}
}

func (v *View) SetFlags(flags impulse.DrawFlags) {
	v.flags = flags
}

// Render draws w. The canvas is not cleared.
func (v *View) Render(w *impulse.World) {
	v.width, v.height = v.canvas.Size()
	if v.width <= 0 || v.height <= 0 || !(v.Scale > 0) {
		return
	}
	impulse.DrawWorld(w, v)
}

// Fit centers the view on the bounded shapes of w and scales it so they fill the
// canvas with a margin.
func (v *View) Fit(w *impulse.World) {
	var bb impulse.BB
	found := false
	w.EachBody(func(_ impulse.BodyRef, body *impulse.Body) {
		b := body.Shape().BB(body.Transform())
		if !b.Bounded() {
			return
		}
		if !found {
			bb, found = b, true
			return
		}
		bb = bb.Merge(b)
	})

	width, height := v.canvas.Size()
	if !found || width <= 0 || height <= 0 {
		return
	}

	const margin = 1.2
	v.Center = bb.Center()
	sx := (bb.R - bb.L) * margin / float64(width)
	sy := (bb.T - bb.B) * margin / (float64(height) * cellAspect)
	v.Scale = math.Max(math.Max(sx, sy), 1e-3)
}

// toWorld returns the world position of the center of cell x, y.
func (v *View) toWorld(x, y int) impulse.Vector {
	return impulse.Vector{
		X: v.Center.X + (float64(x)+0.5-float64(v.width)/2)*v.Scale,
		Y: v.Center.Y - (float64(y)+0.5-float64(v.height)/2)*v.Scale*cellAspect,
	}
}

// toCell returns the cell containing world position p.
func (v *View) toCell(p impulse.Vector) (x, y int) {
	fx := (p.X-v.Center.X)/v.Scale + float64(v.width)/2
	fy := -(p.Y-v.Center.Y)/(v.Scale*cellAspect) + float64(v.height)/2
	return int(math.Floor(fx)), int(math.Floor(fy))
}

func (v *View) set(x, y int, r rune, color colorful.Color) {
	if x < 0 || y < 0 || x >= v.width || y >= v.height {
		return
	}
	v.canvas.SetContent(x, y, r, nil, tcell.StyleDefault.Foreground(Color(color)))
}

func (v *View) DrawCircle(transform impulse.Transform, radius float64, style impulse.Style) {
	center := transform.Translation()
	x0, y0 := v.toCell(center.Add(impulse.Vector{X: -radius, Y: radius}))
	x1, y1 := v.toCell(center.Add(impulse.Vector{X: radius, Y: -radius}))
	border := style.BorderWidth * v.Scale

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			d := v.toWorld(x, y).Distance(center)
			switch {
			case d > radius:
			case radius-d < border:
				v.set(x, y, outlineRune, style.Outline)
			default:
				v.set(x, y, fillRune, style.Fill)
			}
		}
	}

	// a spoke along the body's x axis shows its rotation
	axis, _ := transform.Basis()
	v.DrawSegment(center, center.Add(axis.Mult(radius)), style.Outline)
}

func (v *View) DrawHalfPlane(transform impulse.Transform, normal impulse.Vector, offset float64, style impulse.Style) {
	n := transform.Vect(normal)
	d := n.Dot(transform.Translation()) + offset
	surface := v.Scale * cellAspect

	for y := 0; y < v.height; y++ {
		for x := 0; x < v.width; x++ {
			s := n.Dot(v.toWorld(x, y)) - d
			switch {
			case s > 0:
			case s > -surface:
				v.set(x, y, surfaceRune, style.Outline)
			default:
				v.set(x, y, groundRune, style.Fill)
			}
		}
	}
}

func (v *View) DrawSegment(a, b impulse.Vector, color colorful.Color) {
	ax, ay := v.toCell(a)
	bx, by := v.toCell(b)
	steps := max(abs(bx-ax), abs(by-ay))
	if steps == 0 {
		v.set(ax, ay, segmentRune, color)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := int(math.Round(impulse.Lerp(float64(ax), float64(bx), t)))
		y := int(math.Round(impulse.Lerp(float64(ay), float64(by), t)))
		v.set(x, y, segmentRune, color)
	}
}

func (v *View) DrawDot(size float64, pos impulse.Vector, color colorful.Color) {
	x, y := v.toCell(pos)
	v.set(x, y, dotRune, color)
}

func (v *View) Flags() impulse.DrawFlags {
	return v.flags
}

func (v *View) ConstraintColor() colorful.Color {
	return colorful.Color{R: 0.5, G: 1, B: 0.5}
}

func (v *View) CollisionPointColor() colorful.Color {
	return colorful.Color{R: 1, G: 0.2, B: 0.2}
}

// Color converts to the closest terminal true color.
func Color(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
