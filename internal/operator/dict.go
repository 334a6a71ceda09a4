package operator

import (
	"pdlvm/internal/exec"
	"pdlvm/internal/perrors"
	"pdlvm/internal/value"
)

// RegisterDict installs the dictionary group (spec §4.4 "Dictionaries").
// `<<`/`>>` are handled the same way `[`/`]` are: the scanner pushes a Mark
// for `<<`, and `>>` here collects the mark group into key/value pairs.
func RegisterDict(t *Table) {
	t.RegisterSimple("dict", func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			n, err := ops.PopInt()
			if err != nil {
				return err
			}
			if n < 0 {
				return perrors.New(perrors.RangeCheck, "dict capacity must be non-negative")
			}
			if limit := ip.DictCapacityLimit(); limit > 0 && int(n) > limit {
				return perrors.New(perrors.LimitCheck, "dict capacity %d exceeds budget of %d", n, limit)
			}
			ops.Push(value.Dictionary(value.NewDict(int(n))))
			return nil
		})
	})

	t.RegisterSimple(">>", func(ip Interp) error {
		ops := ip.Operands()
		group, err := ops.PopMarkGroup()
		if err != nil {
			return err
		}
		if len(group)%2 != 0 {
			return perrors.New(perrors.RangeCheck, "dict literal must have an even number of entries")
		}
		entries := len(group) / 2
		if limit := ip.DictCapacityLimit(); limit > 0 && entries > limit {
			return perrors.New(perrors.LimitCheck, "dict literal of %d entries exceeds budget of %d", entries, limit)
		}
		d := value.NewDict(entries)
		for i := 0; i < len(group); i += 2 {
			if err := d.Set(group[i], group[i+1]); err != nil {
				return err
			}
		}
		ops.Push(value.Dictionary(d))
		return nil
	})

	t.Register("length", Signature{Types: []value.Type{value.TypeDictionary}, Fn: func(ip Interp) error {
		ops := ip.Operands()
		d, err := ops.PopDict()
		if err != nil {
			return err
		}
		ops.Push(value.Int(int64(d.Size())))
		return nil
	}})

	t.RegisterSimple("maxlength", func(ip Interp) error {
		ops := ip.Operands()
		d, err := ops.PopDict()
		if err != nil {
			return err
		}
		ops.Push(value.Int(int64(d.Capacity())))
		return nil
	})

	t.RegisterSimple("begin", func(ip Interp) error {
		ops := ip.Operands()
		d, err := ops.PopDict()
		if err != nil {
			return err
		}
		ip.Dicts().Begin(d)
		return nil
	})

	t.RegisterSimple("end", func(ip Interp) error {
		return ip.Dicts().End()
	})

	t.RegisterSimple("def", func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			v, err := ops.Pop()
			if err != nil {
				return err
			}
			k, err := ops.Pop()
			if err != nil {
				return err
			}
			return ip.Dicts().Def(k, v)
		})
	})

	t.RegisterSimple("load", func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			k, err := ops.Pop()
			if err != nil {
				return err
			}
			v, ok, err := ip.Dicts().Load(k)
			if err != nil {
				return err
			}
			if !ok {
				return perrors.New(perrors.Undefined, "name %v is not defined", k)
			}
			ops.Push(v)
			return nil
		})
	})

	t.RegisterSimple("store", func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			v, err := ops.Pop()
			if err != nil {
				return err
			}
			k, err := ops.Pop()
			if err != nil {
				return err
			}
			if d, ok := ip.Dicts().Where(k); ok {
				return d.Set(k, v)
			}
			return ip.Dicts().Def(k, v)
		})
	})

	t.Register("get", Signature{Types: []value.Type{value.Any, value.TypeDictionary}, Fn: func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			k, err := ops.Pop()
			if err != nil {
				return err
			}
			d, err := ops.PopDict()
			if err != nil {
				return err
			}
			v, ok, err := d.Get(k)
			if err != nil {
				return err
			}
			if !ok {
				return perrors.New(perrors.Undefined, "key %v not found", k)
			}
			ops.Push(v)
			return nil
		})
	}})

	t.Register("put", Signature{Types: []value.Type{value.Any, value.Any, value.TypeDictionary}, Fn: func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			v, err := ops.Pop()
			if err != nil {
				return err
			}
			k, err := ops.Pop()
			if err != nil {
				return err
			}
			d, err := ops.PopDict()
			if err != nil {
				return err
			}
			return d.Set(k, v)
		})
	}})

	t.RegisterSimple("undef", func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			k, err := ops.Pop()
			if err != nil {
				return err
			}
			d, err := ops.PopDict()
			if err != nil {
				return err
			}
			return d.Remove(k)
		})
	})

	t.RegisterSimple("known", func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			k, err := ops.Pop()
			if err != nil {
				return err
			}
			d, err := ops.PopDict()
			if err != nil {
				return err
			}
			ops.Push(value.Bool(d.Has(k)))
			return nil
		})
	})

	t.RegisterSimple("where", func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			k, err := ops.Pop()
			if err != nil {
				return err
			}
			d, ok := ip.Dicts().Where(k)
			if !ok {
				ops.Push(value.Bool(false))
				return nil
			}
			ops.Push(value.Dictionary(d))
			ops.Push(value.Bool(true))
			return nil
		})
	})

	t.Register("forall", Signature{Types: []value.Type{value.TypeArray, value.TypeDictionary}, Fn: func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			proc, err := ops.PopArray()
			if err != nil {
				return err
			}
			d, err := ops.PopDict()
			if err != nil {
				return err
			}
			depth := ip.ExecStack().Depth()
			return pushLoop(ip, exec.NewDictForallLoop(proc, depth, d))
		})
	}})

	t.RegisterSimple("currentdict", func(ip Interp) error {
		ip.Operands().Push(value.Dictionary(ip.Dicts().Current()))
		return nil
	})

	t.RegisterSimple("countdictstack", func(ip Interp) error {
		ip.Operands().Push(value.Int(int64(ip.Dicts().Depth())))
		return nil
	})

	t.RegisterSimple("dictstack", func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			a, err := ops.PopArray()
			if err != nil {
				return err
			}
			dicts := ip.Dicts().All()
			if a.Len() < len(dicts) {
				return perrors.New(perrors.RangeCheck, "destination array too small for dictstack")
			}
			for i, d := range dicts {
				if err := a.Set(i, value.Dictionary(d)); err != nil {
					return err
				}
			}
			sub, err := a.Slice(0, len(dicts))
			if err != nil {
				return err
			}
			ops.Push(value.Arr(sub, value.Literal))
			return nil
		})
	})

	t.RegisterSimple("cleardictstack", func(ip Interp) error {
		ip.Dicts().ClearToSystem()
		return nil
	})
}
