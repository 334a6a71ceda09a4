package operator

import (
	"pdlvm/internal/perrors"
	"pdlvm/internal/value"
)

// RegisterRelational installs the relational/boolean/bitwise group (spec
// §4.4 "Relational/boolean/bitwise").
func RegisterRelational(t *Table) {
	t.RegisterSimple("eq", func(ip Interp) error { return cmpEq(ip, func(b bool) bool { return b }) })
	t.RegisterSimple("ne", func(ip Interp) error { return cmpEq(ip, func(b bool) bool { return !b }) })

	order := func(name string, ok func(int) bool) {
		t.RegisterSimple(name, func(ip Interp) error {
			ops := ip.Operands()
			return txn(ops, func() error {
				b, err := ops.Pop()
				if err != nil {
					return err
				}
				a, err := ops.Pop()
				if err != nil {
					return err
				}
				var cmp int
				switch {
				case a.Type&value.Numeric != 0 && b.Type&value.Numeric != 0:
					switch {
					case a.Num() < b.Num():
						cmp = -1
					case a.Num() > b.Num():
						cmp = 1
					}
				case a.Type == value.TypeString && b.Type == value.TypeString:
					cmp = a.AsString().Compare(b.AsString())
				default:
					return perrors.New(perrors.TypeCheck, "ordering requires two numbers or two strings")
				}
				ops.Push(value.Bool(ok(cmp)))
				return nil
			})
		})
	}
	order("lt", func(c int) bool { return c < 0 })
	order("le", func(c int) bool { return c <= 0 })
	order("gt", func(c int) bool { return c > 0 })
	order("ge", func(c int) bool { return c >= 0 })

	t.RegisterSimple("and", func(ip Interp) error { return boolOrBitwise(ip, func(a, b bool) bool { return a && b }, func(a, b int64) int64 { return a & b }) })
	t.RegisterSimple("or", func(ip Interp) error { return boolOrBitwise(ip, func(a, b bool) bool { return a || b }, func(a, b int64) int64 { return a | b }) })
	t.RegisterSimple("xor", func(ip Interp) error { return boolOrBitwise(ip, func(a, b bool) bool { return a != b }, func(a, b int64) int64 { return a ^ b }) })

	t.RegisterSimple("not", func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			v, err := ops.PopType(value.TypeBoolean | value.TypeInteger)
			if err != nil {
				return err
			}
			if v.Type == value.TypeBoolean {
				ops.Push(value.Bool(!v.AsBool()))
				return nil
			}
			ops.Push(value.Int(^v.AsInt()))
			return nil
		})
	})

	t.RegisterSimple("true", func(ip Interp) error {
		ip.Operands().Push(value.Bool(true))
		return nil
	})
	t.RegisterSimple("false", func(ip Interp) error {
		ip.Operands().Push(value.Bool(false))
		return nil
	})

	t.RegisterSimple("bitshift", func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			shift, err := ops.PopInt()
			if err != nil {
				return err
			}
			n, err := ops.PopInt()
			if err != nil {
				return err
			}
			if shift >= 0 {
				ops.Push(value.Int(n << uint(shift)))
			} else {
				ops.Push(value.Int(n >> uint(-shift)))
			}
			return nil
		})
	})
}

func cmpEq(ip Interp, wrap func(bool) bool) error {
	ops := ip.Operands()
	return txn(ops, func() error {
		b, err := ops.Pop()
		if err != nil {
			return err
		}
		a, err := ops.Pop()
		if err != nil {
			return err
		}
		ops.Push(value.Bool(wrap(value.Eq(a, b))))
		return nil
	})
}

func boolOrBitwise(ip Interp, boolFn func(a, b bool) bool, intFn func(a, b int64) int64) error {
	ops := ip.Operands()
	return txn(ops, func() error {
		b, err := ops.PopType(value.TypeBoolean | value.TypeInteger)
		if err != nil {
			return err
		}
		a, err := ops.PopType(value.TypeBoolean | value.TypeInteger)
		if err != nil {
			return err
		}
		if a.Type != b.Type {
			return perrors.New(perrors.TypeCheck, "operands must both be boolean or both integer")
		}
		if a.Type == value.TypeBoolean {
			ops.Push(value.Bool(boolFn(a.AsBool(), b.AsBool())))
			return nil
		}
		ops.Push(value.Int(intFn(a.AsInt(), b.AsInt())))
		return nil
	})
}
