package operator

import (
	"pdlvm/internal/exec"
	"pdlvm/internal/perrors"
	"pdlvm/internal/value"
)

// pushLoop enforces the loop-stack depth budget (spec §5) before handing l
// to ip.Loops().Push, shared by every operator that opens a loop context.
func pushLoop(ip Interp, l exec.Loop) error {
	if ip.Loops().Depth() >= ip.LoopBudget() {
		return perrors.New(perrors.LimitCheck, "loop stack depth exceeds budget of %d", ip.LoopBudget())
	}
	ip.Loops().Push(l)
	return nil
}

// RegisterControl installs the control-flow group (spec §4.4 "Control"): the
// if/ifelse/for/repeat/loop family push loop contexts or direct activations
// onto the execution stack and let the fetch-execute loop drive them; `stop`/
// `stopped` are the one pair that needs interpreter-level unwinding support
// (exec.StoppedLoop), since an error raised anywhere inside the guarded
// procedure — possibly many steps later — must be caught.
func RegisterControl(t *Table) {
	t.Register("exec", Signature{Fn: func(ip Interp) error {
		ops := ip.Operands()
		v, err := ops.Pop()
		if err != nil {
			return err
		}
		return dispatchValue(ip, v)
	}})

	t.RegisterSimple("if", func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			proc, err := ops.PopArray()
			if err != nil {
				return err
			}
			cond, err := ops.PopBool()
			if err != nil {
				return err
			}
			if cond {
				ip.ExecStack().Push(exec.NewArrayFrame(proc))
			}
			return nil
		})
	})

	t.RegisterSimple("ifelse", func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			proc2, err := ops.PopArray()
			if err != nil {
				return err
			}
			proc1, err := ops.PopArray()
			if err != nil {
				return err
			}
			cond, err := ops.PopBool()
			if err != nil {
				return err
			}
			if cond {
				ip.ExecStack().Push(exec.NewArrayFrame(proc1))
			} else {
				ip.ExecStack().Push(exec.NewArrayFrame(proc2))
			}
			return nil
		})
	})

	t.RegisterSimple("for", func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			proc, err := ops.PopArray()
			if err != nil {
				return err
			}
			limitV, err := ops.PopType(value.Numeric)
			if err != nil {
				return err
			}
			stepV, err := ops.PopType(value.Numeric)
			if err != nil {
				return err
			}
			initV, err := ops.PopType(value.Numeric)
			if err != nil {
				return err
			}
			step := stepV.Num()
			if step == 0 {
				return perrors.New(perrors.RangeCheck, "for step must be non-zero")
			}
			isInt := limitV.IsInt() && stepV.IsInt() && initV.IsInt()
			depth := ip.ExecStack().Depth()
			return pushLoop(ip, exec.NewForLoop(proc, depth, initV.Num(), limitV.Num(), step, isInt))
		})
	})

	t.RegisterSimple("repeat", func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			proc, err := ops.PopArray()
			if err != nil {
				return err
			}
			n, err := ops.PopInt()
			if err != nil {
				return err
			}
			if n < 0 {
				return perrors.New(perrors.RangeCheck, "repeat count must be non-negative")
			}
			depth := ip.ExecStack().Depth()
			return pushLoop(ip, exec.NewRepeatLoop(proc, depth, n))
		})
	})

	t.RegisterSimple("loop", func(ip Interp) error {
		ops := ip.Operands()
		proc, err := ops.PopArray()
		if err != nil {
			return err
		}
		depth := ip.ExecStack().Depth()
		return pushLoop(ip, exec.NewInfiniteLoop(proc, depth))
	})

	t.RegisterSimple("exit", func(ip Interp) error {
		ip.Loops().Exit(ip.ExecStack())
		return nil
	})

	t.RegisterSimple("stop", func(ip Interp) error {
		return perrors.New(perrors.StopControl, "stop")
	})

	t.RegisterSimple("stopped", func(ip Interp) error {
		ops := ip.Operands()
		proc, err := ops.PopArray()
		if err != nil {
			return err
		}
		depth := ip.ExecStack().Depth()
		return pushLoop(ip, exec.NewStoppedLoop(proc, depth))
	})

	t.RegisterSimple("quit", func(ip Interp) error {
		err := perrors.New(perrors.QuitControl, "quit")
		ip.Stop(StopQuit, err)
		return err
	})

	t.RegisterSimple("start", func(ip Interp) error {
		// `start` re-enters the interpreter loop on the current contents of
		// systemdict's startup procedure; in this embedding the driver's Run
		// already does that at program load, so `start` invoked explicitly is
		// a no-op that simply lets the current program continue.
		return nil
	})

	t.RegisterSimple("countexecstack", func(ip Interp) error {
		ip.Operands().Push(value.Int(int64(ip.ExecStack().Depth())))
		return nil
	})

	t.Register("execstack", Signature{Types: []value.Type{value.TypeArray | value.TypePackedArray}, Fn: func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			a, err := ops.PopArray()
			if err != nil {
				return err
			}
			frames := ip.ExecStack().Snapshot()
			if a.Len() < len(frames) {
				return perrors.New(perrors.RangeCheck, "destination array too small for execstack")
			}
			for i, f := range frames {
				if f.Array != nil {
					if err := a.Set(i, value.Arr(f.Array, value.Executable)); err != nil {
						return err
					}
				} else {
					if err := a.Set(i, value.Str(value.NewStringFromText("--scanner--"))); err != nil {
						return err
					}
				}
			}
			sub, err := a.Slice(0, len(frames))
			if err != nil {
				return err
			}
			ops.Push(value.Arr(sub, value.Literal))
			return nil
		})
	}})
}

// dispatchValue implements `exec`'s semantics for a value popped off the
// operand stack: literals (and executable arrays/names) are handled the same
// way the fetch-execute loop handles any freshly-scanned value — procedures
// run, executable names resolve-and-dispatch, everything else pushes back.
func dispatchValue(ip Interp, v value.Value) error {
	switch v.Type {
	case value.TypeArray, value.TypePackedArray:
		if v.IsExecutable() {
			ip.ExecStack().Push(exec.NewArrayFrame(v.AsArray()))
			return nil
		}
		ip.Operands().Push(v)
		return nil
	case value.TypeName:
		if !v.IsExecutable() {
			ip.Operands().Push(v)
			return nil
		}
		name := v.AsName()
		resolved, ok, err := ip.Dicts().Load(value.NameVal(name, value.Literal))
		if err != nil {
			return err
		}
		if !ok {
			return perrors.New(perrors.Undefined, "name %s is not defined", name)
		}
		return dispatchValue(ip, resolved)
	case value.TypeOperator:
		return Call(v.AsOperator(), ip)
	default:
		ip.Operands().Push(v)
		return nil
	}
}
