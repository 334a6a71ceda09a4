package graphics

import (
	"fmt"

	"pdlvm/internal/matrix"
)

// Call is one recorded invocation against a Recorder, for the golden-trace
// assertions of spec §8 ("emits exactly: newPath; moveTo(10,10); ...").
type Call struct {
	Name string
	Args []interface{}
}

func (c Call) String() string {
	return fmt.Sprintf("%s%v", c.Name, c.Args)
}

// Recorder is a Context test double that appends every call to a slice and
// delegates path/point bookkeeping to a minimal in-memory model so
// CurrentPoint/PaintState round-trip correctly for gsave/grestore tests.
// Grounded on the teacher's DebugHook pattern (sentra/internal/vm.DebugHook):
// a small interface the VM calls out to, here implemented by a recording
// collaborator instead of a live debugger.
type Recorder struct {
	Calls []Call

	ctm   matrix.Matrix
	ps    PaintState
	stack []recorderFrame
	cur   *Point
}

type recorderFrame struct {
	ctm   matrix.Matrix
	ps    PaintState
	cur   *Point
}

func NewRecorder() *Recorder {
	return &Recorder{ctm: matrix.Identity()}
}

func (r *Recorder) record(name string, args ...interface{}) {
	r.Calls = append(r.Calls, Call{Name: name, Args: args})
}

func (r *Recorder) GetCTM() matrix.Matrix { return r.ctm }
func (r *Recorder) SetCTM(m matrix.Matrix) {
	r.record("setCTM", m)
	r.ctm = m
}
func (r *Recorder) ConcatCTM(m matrix.Matrix) {
	r.record("concat", m)
	r.ctm = matrix.Multiply(m, r.ctm)
}

func (r *Recorder) NewPath() {
	r.record("newPath")
	r.cur = nil
}
func (r *Recorder) MoveTo(p Point) {
	r.record("moveTo", p.X, p.Y)
	pp := p
	r.cur = &pp
}
func (r *Recorder) LineTo(p Point) {
	r.record("lineTo", p.X, p.Y)
	pp := p
	r.cur = &pp
}
func (r *Recorder) BezierCurveTo(c1, c2, end Point) {
	r.record("bezierCurveTo", c1.X, c1.Y, c2.X, c2.Y, end.X, end.Y)
	pp := end
	r.cur = &pp
}
func (r *Recorder) Arc(center Point, radius, startDeg, endDeg float64, ccw bool) {
	r.record("arc", center.X, center.Y, radius, startDeg, endDeg, ccw)
}
func (r *Recorder) ClosePath() {
	r.record("closePath")
}
func (r *Recorder) CurrentPoint() (Point, bool) {
	if r.cur == nil {
		return Point{}, false
	}
	return *r.cur, true
}

func (r *Recorder) SetPaintState(ps PaintState) { r.ps = ps }
func (r *Recorder) PaintState() PaintState      { return r.ps }

func (r *Recorder) Stroke() {
	r.record("stroke")
	r.cur = nil
}
func (r *Recorder) Fill() {
	r.record("fill")
	r.cur = nil
}
func (r *Recorder) EOFill() {
	r.record("eofill")
	r.cur = nil
}
func (r *Recorder) StrokeRect(origin Point, w, h float64) {
	r.record("strokeRect", origin.X, origin.Y, w, h)
}
func (r *Recorder) FillRect(origin Point, w, h float64) {
	r.record("fillRect", origin.X, origin.Y, w, h)
}
func (r *Recorder) Clip() {
	r.record("clip")
	r.cur = nil
}
func (r *Recorder) EvenOddClip() {
	r.record("eoclip")
	r.cur = nil
}
func (r *Recorder) RectClip(origin Point, w, h float64) {
	r.record("rectclip", origin.X, origin.Y, w, h)
	r.cur = nil
}

func (r *Recorder) StringWidth(text string) float64 {
	return float64(len(text)) * 6
}
func (r *Recorder) FillText(text string, at Point) {
	r.record("fillText", text, at.X, at.Y)
	w := r.StringWidth(text)
	pp := Point{X: at.X + w, Y: at.Y}
	r.cur = &pp
}
func (r *Recorder) CharPath(text string, at Point) {
	r.record("charPath", text, at.X, at.Y)
}

func (r *Recorder) Save() {
	r.record("save")
	var cur *Point
	if r.cur != nil {
		p := *r.cur
		cur = &p
	}
	r.stack = append(r.stack, recorderFrame{ctm: r.ctm, ps: r.ps, cur: cur})
}
func (r *Recorder) Restore() {
	r.record("restore")
	if len(r.stack) == 0 {
		return
	}
	f := r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
	r.ctm = f.ctm
	r.ps = f.ps
	r.cur = f.cur
}
