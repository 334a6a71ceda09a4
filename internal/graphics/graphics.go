// Package graphics defines the backend-agnostic graphics-context interface
// the interpreter drives (spec §4.6, C10).
package graphics

import "pdlvm/internal/matrix"

// Color is device RGB or gray reduced to RGB (spec §4.6/§4.7).
type Color struct {
	R, G, B float64
}

// Point is a device-space or user-space 2D coordinate, context-dependent.
type Point struct {
	X, Y float64
}

// PaintState is the subset of the graphics state that gsave/grestore must
// restore exactly (spec §8 testable property 8).
type PaintState struct {
	LineWidth   float64
	LineCap     int
	LineJoin    int
	MiterLimit  float64
	DashArray   []float64
	DashOffset  float64
	Color       Color
	Font        interface{} // *font.Font, kept as interface{} to avoid an import cycle
}

// Context is the capability surface of spec §4.6. The interpreter never
// touches a concrete drawing API directly — it only calls through this
// interface, which a concrete adapter (package canvas) implements.
type Context interface {
	// CTM
	GetCTM() matrix.Matrix
	SetCTM(m matrix.Matrix)
	ConcatCTM(m matrix.Matrix)

	// Path
	NewPath()
	MoveTo(p Point)
	LineTo(p Point)
	BezierCurveTo(c1, c2, end Point)
	Arc(center Point, radius, startDeg, endDeg float64, ccw bool)
	ClosePath()
	CurrentPoint() (Point, bool)

	// Paint state
	SetPaintState(ps PaintState)
	PaintState() PaintState

	// Painting
	Stroke()
	Fill()
	EOFill()
	StrokeRect(origin Point, w, h float64)
	FillRect(origin Point, w, h float64)
	Clip()
	EvenOddClip()
	RectClip(origin Point, w, h float64)

	// Text
	StringWidth(text string) float64
	FillText(text string, at Point)
	CharPath(text string, at Point)

	// Save stack (spec §4.6: "nested saves must restore in LIFO order")
	Save()
	Restore()
}
