package operator

import (
	"pdlvm/internal/exec"
	"pdlvm/internal/perrors"
	"pdlvm/internal/value"
)

// RegisterStrings installs the string group (spec §4.4 "Strings"). Several
// names (`length`, `get`, `put`, `getinterval`, `putinterval`, `copy`,
// `forall`) are shared with the array group; the container-type slot in
// each Signature (TypeString here) is what the resolver uses to tell them
// apart (table.go's Resolve).
func RegisterStrings(t *Table) {
	t.RegisterSimple("string", func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			n, err := ops.PopInt()
			if err != nil {
				return err
			}
			if n < 0 {
				return perrors.New(perrors.RangeCheck, "string size must be non-negative")
			}
			ops.Push(value.Str(value.NewString(int(n))))
			return nil
		})
	})

	t.Register("length", Signature{Types: []value.Type{value.TypeString}, Fn: func(ip Interp) error {
		ops := ip.Operands()
		s, err := ops.PopString()
		if err != nil {
			return err
		}
		ops.Push(value.Int(int64(s.Len())))
		return nil
	}})

	t.Register("get", Signature{Types: []value.Type{value.TypeInteger, value.TypeString}, Fn: func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			i, err := ops.PopInt()
			if err != nil {
				return err
			}
			s, err := ops.PopString()
			if err != nil {
				return err
			}
			b, err := s.Get(int(i))
			if err != nil {
				return err
			}
			ops.Push(value.Int(b))
			return nil
		})
	}})

	t.Register("put", Signature{Types: []value.Type{value.TypeInteger, value.TypeInteger, value.TypeString}, Fn: func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			b, err := ops.PopInt()
			if err != nil {
				return err
			}
			i, err := ops.PopInt()
			if err != nil {
				return err
			}
			s, err := ops.PopString()
			if err != nil {
				return err
			}
			return s.Set(int(i), b)
		})
	}})

	t.Register("getinterval", Signature{Types: []value.Type{value.TypeInteger, value.TypeInteger, value.TypeString}, Fn: func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			count, err := ops.PopInt()
			if err != nil {
				return err
			}
			idx, err := ops.PopInt()
			if err != nil {
				return err
			}
			s, err := ops.PopString()
			if err != nil {
				return err
			}
			sub, err := s.SubString(int(idx), int(count))
			if err != nil {
				return err
			}
			ops.Push(value.Str(sub))
			return nil
		})
	}})

	t.Register("putinterval", Signature{Types: []value.Type{value.TypeString, value.TypeInteger, value.TypeString}, Fn: func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			src, err := ops.PopString()
			if err != nil {
				return err
			}
			idx, err := ops.PopInt()
			if err != nil {
				return err
			}
			dst, err := ops.PopString()
			if err != nil {
				return err
			}
			return dst.Splice(int(idx), src.Bytes())
		})
	}})

	t.Register("copy", Signature{Types: []value.Type{value.TypeString, value.TypeString}, Fn: func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			dst, err := ops.PopString()
			if err != nil {
				return err
			}
			src, err := ops.PopString()
			if err != nil {
				return err
			}
			prefix, err := dst.Copy(src)
			if err != nil {
				return err
			}
			ops.Push(value.Str(prefix))
			return nil
		})
	}})

	t.Register("forall", Signature{Types: []value.Type{value.TypeArray, value.TypeString}, Fn: func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			proc, err := ops.PopArray()
			if err != nil {
				return err
			}
			s, err := ops.PopString()
			if err != nil {
				return err
			}
			depth := ip.ExecStack().Depth()
			return pushLoop(ip, exec.NewStringForallLoop(proc, depth, s))
		})
	}})

	t.RegisterSimple("anchorSearch", func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			needle, err := ops.PopString()
			if err != nil {
				return err
			}
			s, err := ops.PopString()
			if err != nil {
				return err
			}
			post, match, found := s.AnchorSearch(needle)
			if !found {
				ops.Push(value.Str(s))
				ops.Push(value.Bool(false))
				return nil
			}
			ops.Push(value.Str(post))
			ops.Push(value.Str(match))
			ops.Push(value.Bool(true))
			return nil
		})
	})

	t.RegisterSimple("search", func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			needle, err := ops.PopString()
			if err != nil {
				return err
			}
			s, err := ops.PopString()
			if err != nil {
				return err
			}
			post, match, pre, found := s.Search(needle)
			if !found {
				ops.Push(value.Str(s))
				ops.Push(value.Bool(false))
				return nil
			}
			ops.Push(value.Str(post))
			ops.Push(value.Str(match))
			ops.Push(value.Str(pre))
			ops.Push(value.Bool(true))
			return nil
		})
	})

	t.RegisterSimple("token", func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			s, err := ops.PopString()
			if err != nil {
				return err
			}
			v, rest, ok, err := tokenizeOne(s)
			if err != nil {
				return err
			}
			if !ok {
				ops.Push(value.Bool(false))
				return nil
			}
			ops.Push(value.Str(rest))
			ops.Push(v)
			ops.Push(value.Bool(true))
			return nil
		})
	})
}
