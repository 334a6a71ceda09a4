package operator

import (
	"pdlvm/internal/graphics"
	"pdlvm/internal/perrors"
	"pdlvm/internal/value"
)

// RegisterGState installs the graphics-state group (spec §4.4 "Graphics
// state"): line style, color, and the gsave/grestore save stack, all routed
// through the graphics.Context the embedder supplies (spec §4.6).
func RegisterGState(t *Table) {
	t.RegisterSimple("gsave", func(ip Interp) error {
		ip.Graphics().Save()
		return nil
	})

	t.RegisterSimple("grestore", func(ip Interp) error {
		ip.Graphics().Restore()
		return nil
	})

	t.RegisterSimple("setlinewidth", func(ip Interp) error {
		ops := ip.Operands()
		w, err := ops.PopNum()
		if err != nil {
			return err
		}
		g := ip.Graphics()
		ps := g.PaintState()
		ps.LineWidth = w
		g.SetPaintState(ps)
		return nil
	})

	t.RegisterSimple("currentlinewidth", func(ip Interp) error {
		ip.Operands().Push(value.Real(ip.Graphics().PaintState().LineWidth))
		return nil
	})

	t.RegisterSimple("setlinecap", func(ip Interp) error {
		ops := ip.Operands()
		n, err := ops.PopInt()
		if err != nil {
			return err
		}
		if n < 0 || n > 2 {
			return perrors.New(perrors.RangeCheck, "line cap must be 0, 1, or 2")
		}
		g := ip.Graphics()
		ps := g.PaintState()
		ps.LineCap = int(n)
		g.SetPaintState(ps)
		return nil
	})

	t.RegisterSimple("currentlinecap", func(ip Interp) error {
		ip.Operands().Push(value.Int(int64(ip.Graphics().PaintState().LineCap)))
		return nil
	})

	t.RegisterSimple("setlinejoin", func(ip Interp) error {
		ops := ip.Operands()
		n, err := ops.PopInt()
		if err != nil {
			return err
		}
		if n < 0 || n > 2 {
			return perrors.New(perrors.RangeCheck, "line join must be 0, 1, or 2")
		}
		g := ip.Graphics()
		ps := g.PaintState()
		ps.LineJoin = int(n)
		g.SetPaintState(ps)
		return nil
	})

	t.RegisterSimple("currentlinejoin", func(ip Interp) error {
		ip.Operands().Push(value.Int(int64(ip.Graphics().PaintState().LineJoin)))
		return nil
	})

	t.RegisterSimple("setmiterlimit", func(ip Interp) error {
		ops := ip.Operands()
		m, err := ops.PopNum()
		if err != nil {
			return err
		}
		if m < 1 {
			return perrors.New(perrors.RangeCheck, "miter limit must be >= 1")
		}
		g := ip.Graphics()
		ps := g.PaintState()
		ps.MiterLimit = m
		g.SetPaintState(ps)
		return nil
	})

	t.RegisterSimple("currentmiterlimit", func(ip Interp) error {
		ip.Operands().Push(value.Real(ip.Graphics().PaintState().MiterLimit))
		return nil
	})

	t.RegisterSimple("setdash", func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			offset, err := ops.PopNum()
			if err != nil {
				return err
			}
			arr, err := ops.PopArray()
			if err != nil {
				return err
			}
			dashes := make([]float64, arr.Len())
			for i := range dashes {
				v, err := arr.Get(i)
				if err != nil {
					return err
				}
				if v.Type&value.Numeric == 0 {
					return perrors.New(perrors.TypeCheck, "dash array entries must be numbers")
				}
				dashes[i] = v.Num()
			}
			g := ip.Graphics()
			ps := g.PaintState()
			ps.DashArray = dashes
			ps.DashOffset = offset
			g.SetPaintState(ps)
			return nil
		})
	})

	t.RegisterSimple("currentdash", func(ip Interp) error {
		ps := ip.Graphics().PaintState()
		elems := make([]value.Value, len(ps.DashArray))
		for i, d := range ps.DashArray {
			elems[i] = value.Real(d)
		}
		ip.Operands().Push(value.Arr(value.NewArrayFrom(elems), value.Literal))
		ip.Operands().Push(value.Real(ps.DashOffset))
		return nil
	})

	t.RegisterSimple("setrgbcolor", func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			b, err := ops.PopNum()
			if err != nil {
				return err
			}
			gr, err := ops.PopNum()
			if err != nil {
				return err
			}
			r, err := ops.PopNum()
			if err != nil {
				return err
			}
			gctx := ip.Graphics()
			ps := gctx.PaintState()
			ps.Color = graphics.Color{R: r, G: gr, B: b}
			gctx.SetPaintState(ps)
			return nil
		})
	})

	t.RegisterSimple("currentrgbcolor", func(ip Interp) error {
		c := ip.Graphics().PaintState().Color
		ip.Operands().Push(value.Real(c.R))
		ip.Operands().Push(value.Real(c.G))
		ip.Operands().Push(value.Real(c.B))
		return nil
	})

	t.RegisterSimple("setgray", func(ip Interp) error {
		ops := ip.Operands()
		gval, err := ops.PopNum()
		if err != nil {
			return err
		}
		g := ip.Graphics()
		ps := g.PaintState()
		ps.Color = graphics.Color{R: gval, G: gval, B: gval}
		g.SetPaintState(ps)
		return nil
	})

	t.RegisterSimple("currentgray", func(ip Interp) error {
		c := ip.Graphics().PaintState().Color
		lum := 0.3*c.R + 0.59*c.G + 0.11*c.B
		ip.Operands().Push(value.Real(lum))
		return nil
	})

	// setcolorspace only recognizes the two device spaces this evaluator
	// supports (spec §1 Non-goals); any other name is undefined.
	t.RegisterSimple("setcolorspace", func(ip Interp) error {
		ops := ip.Operands()
		name, err := ops.PopName()
		if err != nil {
			return err
		}
		switch name {
		case "DeviceRGB", "DeviceGray":
			return nil
		default:
			return perrors.New(perrors.Undefined, "unsupported color space /%s", name)
		}
	})
}
