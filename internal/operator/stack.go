package operator

import (
	"pdlvm/internal/perrors"
	"pdlvm/internal/value"
)

// RegisterStack installs the operand-stack group (spec §4.4 "Operand stack").
func RegisterStack(t *Table) {
	t.RegisterSimple("pop", func(ip Interp) error {
		_, err := ip.Operands().Pop()
		return err
	})
	t.RegisterSimple("exch", func(ip Interp) error {
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
			ops.Push(b)
			ops.Push(a)
			return nil
		})
	})
	t.RegisterSimple("dup", func(ip Interp) error {
		ops := ip.Operands()
		v, err := ops.Peek(0)
		if err != nil {
			return err
		}
		ops.Push(v)
		return nil
	})
	// copy n (operand-stack duplicate) is overloaded with array->array and
	// string->string copy (packages arrays.go/strings.go); Integer-on-top is
	// the discriminating signature so the resolver picks this one only when
	// the caller meant "duplicate the top n operands".
	t.Register("copy", Signature{Types: []value.Type{value.TypeInteger}, Fn: func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			n, err := ops.PopInt()
			if err != nil {
				return err
			}
			if n < 0 {
				return perrors.New(perrors.RangeCheck, "copy count must be non-negative")
			}
			if int64(ops.Count()) < n {
				return perrors.New(perrors.StackUnderflow, "not enough operands to copy")
			}
			vals := make([]value.Value, n)
			for i := int64(0); i < n; i++ {
				v, err := ops.Peek(int(n - 1 - i))
				if err != nil {
					return err
				}
				vals[i] = v
			}
			for _, v := range vals {
				ops.Push(v)
			}
			return nil
		})
	}})
	t.RegisterSimple("index", func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			n, err := ops.PopInt()
			if err != nil {
				return err
			}
			if n < 0 {
				return perrors.New(perrors.RangeCheck, "index must be non-negative")
			}
			v, err := ops.Peek(int(n))
			if err != nil {
				return err
			}
			ops.Push(v)
			return nil
		})
	})
	t.RegisterSimple("roll", func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			j, err := ops.PopInt()
			if err != nil {
				return err
			}
			n, err := ops.PopInt()
			if err != nil {
				return err
			}
			if n < 0 {
				return perrors.New(perrors.RangeCheck, "roll count must be non-negative")
			}
			if n == 0 {
				return nil
			}
			if int64(ops.Count()) < n {
				return perrors.New(perrors.StackUnderflow, "not enough operands to roll")
			}
			window := make([]value.Value, n)
			for i := int64(0); i < n; i++ {
				v, err := ops.Peek(int(n - 1 - i))
				if err != nil {
					return err
				}
				window[i] = v
			}
			// spec Open Question 2: rotation amount is ((j mod n) + n) mod n,
			// positive j rotates toward the top.
			shift := ((j % n) + n) % n
			rotated := make([]value.Value, n)
			for i := int64(0); i < n; i++ {
				rotated[(i+shift)%n] = window[i]
			}
			for i := int64(0); i < n; i++ {
				if _, err := ops.Pop(); err != nil {
					return err
				}
			}
			for _, v := range rotated {
				ops.Push(v)
			}
			return nil
		})
	})
	t.RegisterSimple("clear", func(ip Interp) error {
		ip.Operands().Clear()
		return nil
	})
	t.RegisterSimple("count", func(ip Interp) error {
		ip.Operands().Push(value.Int(int64(ip.Operands().Count())))
		return nil
	})
	t.RegisterSimple("mark", func(ip Interp) error {
		ip.Operands().Push(value.Mark())
		return nil
	})
	t.RegisterSimple("cleartomark", func(ip Interp) error {
		_, err := ip.Operands().PopMarkGroup()
		return err
	})
	t.RegisterSimple("counttomark", func(ip Interp) error {
		ops := ip.Operands()
		n, err := ops.CountToMark()
		if err != nil {
			return err
		}
		ops.Push(value.Int(int64(n)))
		return nil
	})
}
