package operator

import (
	"pdlvm/internal/graphics"
)

// RegisterPaint installs the painting group (spec §4.4 "Painting"): stroke,
// fill, and text painting, all delegated to graphics.Context.
func RegisterPaint(t *Table) {
	t.RegisterSimple("stroke", func(ip Interp) error {
		ip.Graphics().Stroke()
		return nil
	})

	t.RegisterSimple("fill", func(ip Interp) error {
		ip.Graphics().Fill()
		return nil
	})

	t.RegisterSimple("eofill", func(ip Interp) error {
		ip.Graphics().EOFill()
		return nil
	})

	t.RegisterSimple("rectstroke", func(ip Interp) error {
		x, y, w, h, err := popRect(ip.Operands())
		if err != nil {
			return err
		}
		ip.Graphics().StrokeRect(graphics.Point{X: x, Y: y}, w, h)
		return nil
	})

	t.RegisterSimple("rectfill", func(ip Interp) error {
		x, y, w, h, err := popRect(ip.Operands())
		if err != nil {
			return err
		}
		ip.Graphics().FillRect(graphics.Point{X: x, Y: y}, w, h)
		return nil
	})

	t.RegisterSimple("show", func(ip Interp) error {
		ops := ip.Operands()
		s, err := ops.PopString()
		if err != nil {
			return err
		}
		g := ip.Graphics()
		at, ok := g.CurrentPoint()
		if !ok {
			at = graphics.Point{}
		}
		g.FillText(string(s.Bytes()), at)
		return nil
	})
}
