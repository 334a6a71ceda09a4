package operator

import (
	"pdlvm/internal/exec"
	"pdlvm/internal/perrors"
	"pdlvm/internal/value"
)

// RegisterArrays installs the array group (spec §4.4 "Arrays"). `[`/`]` are
// handled by the scanner/interpreter (Mark push, then this table's `]`
// entry collects the mark group); `length`/`get`/`put`/`copy`/`forall` are
// overloaded with the string and dictionary variants, resolved by the
// signature on top of stack.
func RegisterArrays(t *Table) {
	t.RegisterSimple("array", func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			n, err := ops.PopInt()
			if err != nil {
				return err
			}
			if n < 0 {
				return perrors.New(perrors.RangeCheck, "array size must be non-negative")
			}
			ops.Push(value.Arr(value.NewArray(int(n)), value.Literal))
			return nil
		})
	})

	// `]` per spec's scanner mapping: pop to mark, build a literal Array.
	t.RegisterSimple("]", func(ip Interp) error {
		ops := ip.Operands()
		group, err := ops.PopMarkGroup()
		if err != nil {
			return err
		}
		ops.Push(value.Arr(value.NewArrayFrom(group), value.Literal))
		return nil
	})

	t.Register("length", Signature{Types: []value.Type{value.TypeArray | value.TypePackedArray}, Fn: func(ip Interp) error {
		ops := ip.Operands()
		a, err := ops.PopArray()
		if err != nil {
			return err
		}
		ops.Push(value.Int(int64(a.Len())))
		return nil
	}})

	t.Register("get", Signature{Types: []value.Type{value.TypeInteger, value.TypeArray | value.TypePackedArray}, Fn: func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			i, err := ops.PopInt()
			if err != nil {
				return err
			}
			a, err := ops.PopArray()
			if err != nil {
				return err
			}
			v, err := a.Get(int(i))
			if err != nil {
				return err
			}
			ops.Push(v)
			return nil
		})
	}})

	t.Register("put", Signature{Types: []value.Type{value.Any, value.TypeInteger, value.TypeArray | value.TypePackedArray}, Fn: func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			v, err := ops.Pop()
			if err != nil {
				return err
			}
			i, err := ops.PopInt()
			if err != nil {
				return err
			}
			a, err := ops.PopArray()
			if err != nil {
				return err
			}
			return a.Set(int(i), v)
		})
	}})

	t.Register("getinterval", Signature{Types: []value.Type{value.TypeInteger, value.TypeInteger, value.TypeArray | value.TypePackedArray}, Fn: func(ip Interp) error {
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
			a, err := ops.PopArray()
			if err != nil {
				return err
			}
			sub, err := a.Slice(int(idx), int(count))
			if err != nil {
				return err
			}
			ops.Push(value.Arr(sub, value.Literal))
			return nil
		})
	}})

	t.Register("putinterval", Signature{Types: []value.Type{value.TypeArray | value.TypePackedArray, value.TypeInteger, value.TypeArray | value.TypePackedArray}, Fn: func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			src, err := ops.PopArray()
			if err != nil {
				return err
			}
			idx, err := ops.PopInt()
			if err != nil {
				return err
			}
			dst, err := ops.PopArray()
			if err != nil {
				return err
			}
			return dst.Splice(int(idx), src.Elems())
		})
	}})

	t.RegisterSimple("astore", func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			a, err := ops.PopArray()
			if err != nil {
				return err
			}
			n := a.Len()
			if ops.Count() < n {
				return perrors.New(perrors.StackUnderflow, "not enough operands for astore")
			}
			vals := make([]value.Value, n)
			for i := n - 1; i >= 0; i-- {
				v, err := ops.Pop()
				if err != nil {
					return err
				}
				vals[i] = v
			}
			for i, v := range vals {
				if err := a.Set(i, v); err != nil {
					return err
				}
			}
			ops.Push(value.Arr(a, value.Literal))
			return nil
		})
	})

	t.Register("aload", Signature{Types: []value.Type{value.TypeArray | value.TypePackedArray}, Fn: func(ip Interp) error {
		ops := ip.Operands()
		a, err := ops.PopArray()
		if err != nil {
			return err
		}
		for _, v := range a.Elems() {
			ops.Push(v)
		}
		ops.Push(value.Arr(a, value.Literal))
		return nil
	}})

	// array-to-array `copy`: pushes the prefix of dst that received data
	// (spec §9 Open Question 3), not the removed source slice.
	t.Register("copy", Signature{Types: []value.Type{value.TypeArray | value.TypePackedArray, value.TypeArray | value.TypePackedArray}, Fn: func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			dst, err := ops.PopArray()
			if err != nil {
				return err
			}
			src, err := ops.PopArray()
			if err != nil {
				return err
			}
			if src.Len() > dst.Len() {
				return perrors.New(perrors.RangeCheck, "copy source longer than destination")
			}
			if err := dst.Splice(0, src.Elems()); err != nil {
				return err
			}
			prefix, err := dst.Slice(0, src.Len())
			if err != nil {
				return err
			}
			ops.Push(value.Arr(prefix, value.Literal))
			return nil
		})
	}})

	t.Register("forall", Signature{Types: []value.Type{value.TypeArray | value.TypePackedArray, value.TypeArray | value.TypePackedArray}, Fn: forallArray})
}

func forallArray(ip Interp) error {
	ops := ip.Operands()
	return txn(ops, func() error {
		proc, err := ops.PopArray()
		if err != nil {
			return err
		}
		arr, err := ops.PopArray()
		if err != nil {
			return err
		}
		depth := ip.ExecStack().Depth()
		return pushLoop(ip, exec.NewArrayForallLoop(proc, depth, arr))
	})
}
