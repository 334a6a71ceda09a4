package operator

import (
	"strconv"

	"pdlvm/internal/perrors"
	"pdlvm/internal/value"
)

// RegisterConvert installs the type/attribute conversion group (spec §4.4
// "Type and attribute operators").
func RegisterConvert(t *Table) {
	t.RegisterSimple("type", func(ip Interp) error {
		ops := ip.Operands()
		v, err := ops.Pop()
		if err != nil {
			return err
		}
		ops.Push(value.NameVal(typeName(v.Type), value.Literal))
		return nil
	})

	t.RegisterSimple("cvlit", func(ip Interp) error {
		return mapTop(ip.Operands(), func(v value.Value) value.Value {
			v.Attrs.Exec = value.Literal
			return v
		})
	})

	t.RegisterSimple("cvx", func(ip Interp) error {
		return mapTop(ip.Operands(), func(v value.Value) value.Value {
			v.Attrs.Exec = value.Executable
			return v
		})
	})

	t.RegisterSimple("xcheck", func(ip Interp) error {
		ops := ip.Operands()
		v, err := ops.Pop()
		if err != nil {
			return err
		}
		ops.Push(value.Bool(v.IsExecutable()))
		return nil
	})

	t.RegisterSimple("executeonly", func(ip Interp) error {
		return setAccess(ip.Operands(), value.ExecuteOnly)
	})

	t.RegisterSimple("noaccess", func(ip Interp) error {
		return setAccess(ip.Operands(), value.NoAccess)
	})

	t.RegisterSimple("readonly", func(ip Interp) error {
		return setAccess(ip.Operands(), value.ReadOnly)
	})

	t.RegisterSimple("rcheck", func(ip Interp) error {
		ops := ip.Operands()
		v, err := ops.Pop()
		if err != nil {
			return err
		}
		ops.Push(value.Bool(accessOf(v) != value.NoAccess))
		return nil
	})

	t.RegisterSimple("wcheck", func(ip Interp) error {
		ops := ip.Operands()
		v, err := ops.Pop()
		if err != nil {
			return err
		}
		a := accessOf(v)
		ops.Push(value.Bool(a == value.Unlimited))
		return nil
	})

	t.RegisterSimple("cvi", func(ip Interp) error {
		ops := ip.Operands()
		v, err := ops.Pop()
		if err != nil {
			return err
		}
		switch {
		case v.Type&value.Numeric != 0:
			ops.Push(value.Int(int64(v.Num())))
		case v.Type == value.TypeString:
			n, err := strconv.ParseFloat(string(v.AsString().Bytes()), 64)
			if err != nil {
				return perrors.New(perrors.TypeCheck, "cvi: invalid number %q", v.AsString().Bytes())
			}
			ops.Push(value.Int(int64(n)))
		default:
			return perrors.New(perrors.TypeCheck, "cvi: expected number or string")
		}
		return nil
	})

	t.RegisterSimple("cvr", func(ip Interp) error {
		ops := ip.Operands()
		v, err := ops.Pop()
		if err != nil {
			return err
		}
		switch {
		case v.Type&value.Numeric != 0:
			ops.Push(value.Real(v.Num()))
		case v.Type == value.TypeString:
			n, err := strconv.ParseFloat(string(v.AsString().Bytes()), 64)
			if err != nil {
				return perrors.New(perrors.TypeCheck, "cvr: invalid number %q", v.AsString().Bytes())
			}
			ops.Push(value.Real(n))
		default:
			return perrors.New(perrors.TypeCheck, "cvr: expected number or string")
		}
		return nil
	})

	t.RegisterSimple("cvn", func(ip Interp) error {
		ops := ip.Operands()
		s, err := ops.PopString()
		if err != nil {
			return err
		}
		ops.Push(value.NameVal(string(s.Bytes()), value.Literal))
		return nil
	})

	t.RegisterSimple("cvrs", func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			dst, err := ops.PopString()
			if err != nil {
				return err
			}
			radix, err := ops.PopInt()
			if err != nil {
				return err
			}
			n, err := ops.PopInt()
			if err != nil {
				return err
			}
			if radix < 2 || radix > 36 {
				return perrors.New(perrors.RangeCheck, "cvrs: radix must be 2..36")
			}
			text := strconv.FormatInt(n, int(radix))
			if len(text) > dst.Len() {
				return perrors.New(perrors.RangeCheck, "cvrs: destination string too small")
			}
			if err := dst.Splice(0, []byte(text)); err != nil {
				return err
			}
			sub, err := dst.SubString(0, len(text))
			if err != nil {
				return err
			}
			ops.Push(value.Str(sub))
			return nil
		})
	})

	t.RegisterSimple("cvs", func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			dst, err := ops.PopString()
			if err != nil {
				return err
			}
			v, err := ops.Pop()
			if err != nil {
				return err
			}
			text := v.String()
			if len(text) > dst.Len() {
				return perrors.New(perrors.RangeCheck, "cvs: destination string too small")
			}
			if err := dst.Splice(0, []byte(text)); err != nil {
				return err
			}
			sub, err := dst.SubString(0, len(text))
			if err != nil {
				return err
			}
			ops.Push(value.Str(sub))
			return nil
		})
	})
}

func mapTop(ops *value.OperandStack, fn func(value.Value) value.Value) error {
	v, err := ops.Pop()
	if err != nil {
		return err
	}
	ops.Push(fn(v))
	return nil
}

func setAccess(ops *value.OperandStack, acc value.Access) error {
	v, err := ops.Pop()
	if err != nil {
		return err
	}
	switch v.Type {
	case value.TypeArray, value.TypePackedArray:
		v.AsArray().SetAccess(acc)
	case value.TypeString:
		v.AsString().SetAccess(acc)
	case value.TypeDictionary:
		v.AsDict().SetAccess(acc)
	default:
		return perrors.New(perrors.TypeCheck, "access attribute applies only to composite objects")
	}
	ops.Push(v)
	return nil
}

func accessOf(v value.Value) value.Access {
	switch v.Type {
	case value.TypeArray, value.TypePackedArray:
		return v.AsArray().Access()
	case value.TypeString:
		return v.AsString().Access()
	case value.TypeDictionary:
		return v.AsDict().Access()
	default:
		return value.Unlimited
	}
}

func typeName(tp value.Type) string {
	switch tp {
	case value.TypeNull:
		return "nulltype"
	case value.TypeBoolean:
		return "booleantype"
	case value.TypeInteger:
		return "integertype"
	case value.TypeReal:
		return "realtype"
	case value.TypeName:
		return "nametype"
	case value.TypeString:
		return "stringtype"
	case value.TypeArray, value.TypePackedArray:
		return "arraytype"
	case value.TypeDictionary:
		return "dicttype"
	case value.TypeOperator:
		return "operatortype"
	case value.TypeFile:
		return "filetype"
	case value.TypeMark:
		return "marktype"
	case value.TypeFontID:
		return "fonttype"
	case value.TypeGState:
		return "gstatetype"
	case value.TypeSave:
		return "savetype"
	default:
		return "unknowntype"
	}
}
