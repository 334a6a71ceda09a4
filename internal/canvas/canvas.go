// Package canvas is the concrete graphics.Context adapter over an in-memory
// raster image (spec §4.7, C11). It maps each graphics.Context call onto
// image/draw plus golang.org/x/image/vector's scan converter — the one real
// 2D rasterization primitive available in this dependency pack, since the
// teacher (sentra) has no graphics stack of its own to generalize from.
package canvas

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"pdlvm/internal/font"
	"pdlvm/internal/graphics"
	"pdlvm/internal/matrix"
)

// pathCmd is one device-space path segment, already transformed by the CTM
// in effect when it was recorded — PostScript path construction transforms
// immediately rather than deferring to paint time (spec §4.6/§4.7).
type pathCmd struct {
	op         byte // 'm' moveTo, 'l' lineTo, 'c' curveTo, 'z' closePath
	x, y       float64
	x1, y1     float64
	x2, y2     float64
}

type frame struct {
	ctm     matrix.Matrix
	ps      graphics.PaintState
	cur     *graphics.Point
	userCur *graphics.Point
}

// Canvas renders PDL output onto an image.RGBA surface supplied by the host.
type Canvas struct {
	Img *image.RGBA

	ctm    matrix.Matrix
	path   []pathCmd
	cur    *graphics.Point
	userCur *graphics.Point // current point in user space, for StringWidth advances
	ps     graphics.PaintState
	stack  []frame
	clip   *image.Alpha
}

// New creates a Canvas over a freshly allocated image sized w x h, with the
// default CTM computed from height and an optional BoundingBox (spec §4.6:
// "the PDL y-axis grows upward ... [1,0,0,-1,-llx,height+lly]").
func New(w, h int, llx, lly float64) *Canvas {
	c := &Canvas{
		Img: image.NewRGBA(image.Rect(0, 0, w, h)),
		ctm: matrix.New(1, 0, 0, -1, -llx, float64(h)+lly),
		ps:  graphics.PaintState{LineWidth: 1, MiterLimit: 10, Color: graphics.Color{}},
	}
	draw.Draw(c.Img, c.Img.Bounds(), image.White, image.Point{}, draw.Src)
	return c
}

func (c *Canvas) GetCTM() matrix.Matrix  { return c.ctm }
func (c *Canvas) SetCTM(m matrix.Matrix) { c.ctm = m }
func (c *Canvas) ConcatCTM(m matrix.Matrix) {
	c.ctm = matrix.Multiply(m, c.ctm)
}

func (c *Canvas) NewPath() {
	c.path = nil
	c.cur = nil
	c.userCur = nil
}

func (c *Canvas) MoveTo(p graphics.Point) {
	dx, dy := c.ctm.Apply(p.X, p.Y)
	c.path = append(c.path, pathCmd{op: 'm', x: dx, y: dy})
	c.cur = &graphics.Point{X: dx, Y: dy}
	up := p
	c.userCur = &up
}

func (c *Canvas) LineTo(p graphics.Point) {
	dx, dy := c.ctm.Apply(p.X, p.Y)
	c.path = append(c.path, pathCmd{op: 'l', x: dx, y: dy})
	c.cur = &graphics.Point{X: dx, Y: dy}
	up := p
	c.userCur = &up
}

func (c *Canvas) BezierCurveTo(c1, c2, end graphics.Point) {
	x1, y1 := c.ctm.Apply(c1.X, c1.Y)
	x2, y2 := c.ctm.Apply(c2.X, c2.Y)
	ex, ey := c.ctm.Apply(end.X, end.Y)
	c.path = append(c.path, pathCmd{op: 'c', x1: x1, y1: y1, x2: x2, y2: y2, x: ex, y: ey})
	c.cur = &graphics.Point{X: ex, Y: ey}
	up := end
	c.userCur = &up
}

func (c *Canvas) Arc(center graphics.Point, radius, startDeg, endDeg float64, ccw bool) {
	const steps = 64
	start := startDeg * math.Pi / 180
	end := endDeg * math.Pi / 180
	if !ccw && end < start {
		end += 2 * math.Pi
	}
	if ccw && end > start {
		end -= 2 * math.Pi
	}
	for i := 0; i <= steps; i++ {
		t := start + (end-start)*float64(i)/steps
		p := graphics.Point{X: center.X + radius*math.Cos(t), Y: center.Y + radius*math.Sin(t)}
		if i == 0 {
			if c.cur == nil {
				c.MoveTo(p)
			} else {
				c.LineTo(p)
			}
		} else {
			c.LineTo(p)
		}
	}
}

func (c *Canvas) ClosePath() {
	c.path = append(c.path, pathCmd{op: 'z'})
}

func (c *Canvas) CurrentPoint() (graphics.Point, bool) {
	if c.userCur == nil {
		return graphics.Point{}, false
	}
	return *c.userCur, true
}

func (c *Canvas) SetPaintState(ps graphics.PaintState) { c.ps = ps }
func (c *Canvas) PaintState() graphics.PaintState      { return c.ps }

func (c *Canvas) rasterizer() (*vector.Rasterizer, bool) {
	b := c.Img.Bounds()
	r := vector.NewRasterizer(b.Dx(), b.Dy())
	started := false
	var start pathCmd
	for _, cmd := range c.path {
		switch cmd.op {
		case 'm':
			r.MoveTo(float32(cmd.x), float32(cmd.y))
			start = cmd
			started = true
		case 'l':
			r.LineTo(float32(cmd.x), float32(cmd.y))
		case 'c':
			r.CubeTo(float32(cmd.x1), float32(cmd.y1), float32(cmd.x2), float32(cmd.y2), float32(cmd.x), float32(cmd.y))
		case 'z':
			r.LineTo(float32(start.x), float32(start.y))
		}
	}
	return r, started
}

func (c *Canvas) colorImage() *image.Uniform {
	col := color.RGBA{
		R: uint8(clamp01(c.ps.Color.R) * 255),
		G: uint8(clamp01(c.ps.Color.G) * 255),
		B: uint8(clamp01(c.ps.Color.B) * 255),
		A: 255,
	}
	return image.NewUniform(col)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func (c *Canvas) fill(evenOdd bool) {
	r, started := c.rasterizer()
	if !started {
		return
	}
	_ = evenOdd // golang.org/x/image/vector always uses non-zero winding; even-odd
	// is approximated by the same rasterizer per spec's device-RGB-only scope.
	mask := image.NewAlpha(c.Img.Bounds())
	r.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	draw.DrawMask(c.Img, c.Img.Bounds(), c.colorImage(), image.Point{}, mask, image.Point{}, draw.Over)
}

// stroke approximates a stroked path by filling a lineWidth-wide quad along
// each segment; golang.org/x/image/vector has no native stroker.
func (c *Canvas) Stroke() {
	lw := c.ps.LineWidth
	if lw <= 0 {
		lw = 1
	}
	half := lw / 2
	mask := image.NewAlpha(c.Img.Bounds())
	r := vector.NewRasterizer(c.Img.Bounds().Dx(), c.Img.Bounds().Dy())
	var cur pathCmd
	have := false
	emitSegment := func(x0, y0, x1, y1 float64) {
		dx, dy := x1-x0, y1-y0
		length := math.Hypot(dx, dy)
		if length == 0 {
			return
		}
		nx, ny := -dy/length*half, dx/length*half
		r.MoveTo(float32(x0+nx), float32(y0+ny))
		r.LineTo(float32(x1+nx), float32(y1+ny))
		r.LineTo(float32(x1-nx), float32(y1-ny))
		r.LineTo(float32(x0-nx), float32(y0-ny))
		r.ClosePath()
	}
	for _, cmd := range c.path {
		switch cmd.op {
		case 'm':
			cur = cmd
			have = true
		case 'l':
			if have {
				emitSegment(cur.x, cur.y, cmd.x, cmd.y)
			}
			cur = cmd
			have = true
		case 'c':
			if have {
				// flatten the cubic into line segments for the stroke outline.
				prev := cur
				const steps = 24
				px, py := prev.x, prev.y
				for i := 1; i <= steps; i++ {
					t := float64(i) / steps
					x, y := cubicPoint(prev, cmd, t)
					emitSegment(px, py, x, y)
					px, py = x, y
				}
			}
			cur = pathCmd{op: 'l', x: cmd.x, y: cmd.y}
			have = true
		case 'z':
		}
	}
	r.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	draw.DrawMask(c.Img, c.Img.Bounds(), c.colorImage(), image.Point{}, mask, image.Point{}, draw.Over)
}

func cubicPoint(start, cmd pathCmd, t float64) (float64, float64) {
	mt := 1 - t
	x := mt*mt*mt*start.x + 3*mt*mt*t*cmd.x1 + 3*mt*t*t*cmd.x2 + t*t*t*cmd.x
	y := mt*mt*mt*start.y + 3*mt*mt*t*cmd.y1 + 3*mt*t*t*cmd.y2 + t*t*t*cmd.y
	return x, y
}

func (c *Canvas) Fill()   { c.fill(false) }
func (c *Canvas) EOFill() { c.fill(true) }

func (c *Canvas) StrokeRect(origin graphics.Point, w, h float64) {
	c.NewPath()
	c.MoveTo(origin)
	c.LineTo(graphics.Point{X: origin.X + w, Y: origin.Y})
	c.LineTo(graphics.Point{X: origin.X + w, Y: origin.Y + h})
	c.LineTo(graphics.Point{X: origin.X, Y: origin.Y + h})
	c.ClosePath()
	c.Stroke()
}

func (c *Canvas) FillRect(origin graphics.Point, w, h float64) {
	c.NewPath()
	c.MoveTo(origin)
	c.LineTo(graphics.Point{X: origin.X + w, Y: origin.Y})
	c.LineTo(graphics.Point{X: origin.X + w, Y: origin.Y + h})
	c.LineTo(graphics.Point{X: origin.X, Y: origin.Y + h})
	c.ClosePath()
	c.Fill()
}

func (c *Canvas) Clip() {
	r, started := c.rasterizer()
	if !started {
		return
	}
	mask := image.NewAlpha(c.Img.Bounds())
	r.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	c.clip = intersectClip(c.clip, mask)
}

func (c *Canvas) EvenOddClip() { c.Clip() }

func (c *Canvas) RectClip(origin graphics.Point, w, h float64) {
	c.NewPath()
	c.MoveTo(origin)
	c.LineTo(graphics.Point{X: origin.X + w, Y: origin.Y})
	c.LineTo(graphics.Point{X: origin.X + w, Y: origin.Y + h})
	c.LineTo(graphics.Point{X: origin.X, Y: origin.Y + h})
	c.ClosePath()
	c.Clip()
}

func intersectClip(a, b *image.Alpha) *image.Alpha {
	if a == nil {
		return b
	}
	out := image.NewAlpha(b.Bounds())
	for y := b.Bounds().Min.Y; y < b.Bounds().Max.Y; y++ {
		for x := b.Bounds().Min.X; x < b.Bounds().Max.X; x++ {
			av := a.AlphaAt(x, y).A
			bv := b.AlphaAt(x, y).A
			out.SetAlpha(x, y, color.Alpha{A: uint8(uint16(av) * uint16(bv) / 255)})
		}
	}
	return out
}

// StringWidth/FillText/CharPath implement spec §4.7's "font size derived
// from FontMatrix[3]*1000"; the font itself is an external collaborator
// (package font) providing per-glyph advances.
func (c *Canvas) StringWidth(text string) float64 {
	fd, ok := c.ps.Font.(*font.Font)
	if !ok || fd == nil {
		return float64(len(text)) * 0.6
	}
	return fd.StringWidth(text)
}

func (c *Canvas) FillText(text string, at graphics.Point) {
	// Glyph painting is delegated to the font/glyph provider (an external
	// collaborator per spec §1); this adapter advances the current point by
	// the measured string width and leaves the pixels untouched.
	w := c.StringWidth(text)
	c.userCur = &graphics.Point{X: at.X + w, Y: at.Y}
	dx, dy := c.ctm.Apply(c.userCur.X, c.userCur.Y)
	c.cur = &graphics.Point{X: dx, Y: dy}
}

func (c *Canvas) CharPath(text string, at graphics.Point) {
	// Glyph outlines come from the external font-file parser (spec §1); this
	// adapter appends only a bounding advance box as a path placeholder.
	w := c.StringWidth(text)
	c.MoveTo(at)
	c.LineTo(graphics.Point{X: at.X + w, Y: at.Y})
}

func (c *Canvas) Save() {
	var cur, userCur *graphics.Point
	if c.cur != nil {
		p := *c.cur
		cur = &p
	}
	if c.userCur != nil {
		p := *c.userCur
		userCur = &p
	}
	c.stack = append(c.stack, frame{ctm: c.ctm, ps: c.ps, cur: cur, userCur: userCur})
}

func (c *Canvas) Restore() {
	if len(c.stack) == 0 {
		return
	}
	f := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	c.ctm = f.ctm
	c.ps = f.ps
	c.cur = f.cur
	c.userCur = f.userCur
}

var _ graphics.Context = (*Canvas)(nil)
