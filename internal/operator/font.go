package operator

import (
	"pdlvm/internal/font"
	"pdlvm/internal/perrors"
	"pdlvm/internal/value"
)

// RegisterFont installs the font group (spec §4.4/§4.8 "Fonts"): a font is
// represented on the operand stack as an ordinary dictionary (FontName/
// FontMatrix/FontType/...), converted to/from font.Font at the boundary of
// each operator via font.FromDict/Font.ToDict.
func RegisterFont(t *Table) {
	t.RegisterSimple("findfont", func(ip Interp) error {
		ops := ip.Operands()
		name, err := ops.PopName()
		if err != nil {
			return err
		}
		f, err := ip.Fonts().FindFont(name)
		if err != nil {
			return err
		}
		ops.Push(value.Dictionary(f.ToDict()))
		return nil
	})

	t.RegisterSimple("definefont", func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			key, err := ops.PopName()
			if err != nil {
				return err
			}
			d, err := ops.PopDict()
			if err != nil {
				return err
			}
			f, err := font.FromDict(d)
			if err != nil {
				return err
			}
			if err := ip.Fonts().DefineFont(key, f); err != nil {
				return err
			}
			ops.Push(value.Dictionary(d))
			return nil
		})
	})

	t.RegisterSimple("scalefont", func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			s, err := ops.PopNum()
			if err != nil {
				return err
			}
			d, err := ops.PopDict()
			if err != nil {
				return err
			}
			f, err := font.FromDict(d)
			if err != nil {
				return err
			}
			ops.Push(value.Dictionary(f.Scale(s).ToDict()))
			return nil
		})
	})

	t.RegisterSimple("makefont", func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			marr, err := ops.PopArray()
			if err != nil {
				return err
			}
			m, err := arrayToMatrix(marr)
			if err != nil {
				return err
			}
			d, err := ops.PopDict()
			if err != nil {
				return err
			}
			f, err := font.FromDict(d)
			if err != nil {
				return err
			}
			ops.Push(value.Dictionary(f.Compose(m).ToDict()))
			return nil
		})
	})

	t.RegisterSimple("setfont", func(ip Interp) error {
		ops := ip.Operands()
		d, err := ops.PopDict()
		if err != nil {
			return err
		}
		f, err := font.FromDict(d)
		if err != nil {
			return err
		}
		g := ip.Graphics()
		ps := g.PaintState()
		ps.Font = f
		g.SetPaintState(ps)
		return nil
	})

	t.RegisterSimple("selectfont", func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			v, err := ops.Pop()
			if err != nil {
				return err
			}
			name, err := ops.PopName()
			if err != nil {
				return err
			}
			f, err := ip.Fonts().FindFont(name)
			if err != nil {
				return err
			}
			switch v.Type {
			case value.TypeArray, value.TypePackedArray:
				m, err := arrayToMatrix(v.AsArray())
				if err != nil {
					return err
				}
				f = f.Compose(m)
			case value.TypeInteger, value.TypeReal:
				f = f.Scale(v.Num())
			default:
				return perrors.New(perrors.TypeCheck, "selectfont: expected scale or matrix")
			}
			g := ip.Graphics()
			ps := g.PaintState()
			ps.Font = f
			g.SetPaintState(ps)
			return nil
		})
	})
}

