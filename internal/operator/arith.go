package operator

import (
	"math"

	"pdlvm/internal/perrors"
	"pdlvm/internal/value"
)

// RegisterArith installs the arithmetic group (spec §4.4 "Arithmetic").
func RegisterArith(t *Table) {
	binNum := func(name string, forceReal bool, intFn func(int64, int64) (int64, bool), realFn func(float64, float64) float64) {
		t.RegisterSimple(name, func(ip Interp) error {
			ops := ip.Operands()
			return txn(ops, func() error {
				b, err := ops.PopType(value.Numeric)
				if err != nil {
					return err
				}
				a, err := ops.PopType(value.Numeric)
				if err != nil {
					return err
				}
				ops.Push(value.NumBinOp(a, b, forceReal, intFn, realFn))
				return nil
			})
		})
	}
	binNum("add", false, func(a, b int64) (int64, bool) {
		r := a + b
		overflow := (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b)
		return r, !overflow
	}, func(a, b float64) float64 { return a + b })
	binNum("sub", false, func(a, b int64) (int64, bool) {
		r := a - b
		overflow := (b < 0 && a > math.MaxInt64+b) || (b > 0 && a < math.MinInt64+b)
		return r, !overflow
	}, func(a, b float64) float64 { return a - b })
	binNum("mul", false, func(a, b int64) (int64, bool) {
		r := a * b
		if a == 0 || b == 0 {
			return r, true
		}
		overflow := r/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64)
		return r, !overflow
	}, func(a, b float64) float64 { return a * b })

	t.RegisterSimple("div", func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			b, err := ops.PopType(value.Numeric)
			if err != nil {
				return err
			}
			a, err := ops.PopType(value.Numeric)
			if err != nil {
				return err
			}
			if b.Num() == 0 {
				return perrors.New(perrors.UndefinedResult, "division by zero")
			}
			ops.Push(value.NumBinOp(a, b, true, nil, func(x, y float64) float64 { return x / y }))
			return nil
		})
	})

	t.RegisterSimple("idiv", func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			b, err := ops.PopInt()
			if err != nil {
				return err
			}
			a, err := ops.PopInt()
			if err != nil {
				return err
			}
			if b == 0 {
				return perrors.New(perrors.UndefinedResult, "division by zero")
			}
			ops.Push(value.Int(a / b))
			return nil
		})
	})
	t.RegisterSimple("mod", func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			b, err := ops.PopInt()
			if err != nil {
				return err
			}
			a, err := ops.PopInt()
			if err != nil {
				return err
			}
			if b == 0 {
				return perrors.New(perrors.UndefinedResult, "modulo by zero")
			}
			ops.Push(value.Int(a % b))
			return nil
		})
	})

	unaryNum := func(name string, forceReal bool, intFn func(int64) int64, realFn func(float64) float64) {
		t.RegisterSimple(name, func(ip Interp) error {
			ops := ip.Operands()
			return txn(ops, func() error {
				a, err := ops.PopType(value.Numeric)
				if err != nil {
					return err
				}
				ops.Push(value.NumUnaryOp(a, forceReal, intFn, realFn))
				return nil
			})
		})
	}
	unaryNum("neg", false, func(a int64) int64 { return -a }, func(a float64) float64 { return -a })
	unaryNum("abs", false, func(a int64) int64 {
		if a < 0 {
			return -a
		}
		return a
	}, math.Abs)
	unaryNum("sqrt", true, nil, math.Sqrt)
	unaryNum("exp", true, nil, math.Exp)
	unaryNum("ln", true, nil, math.Log)
	unaryNum("log", true, nil, math.Log10)

	// floor/ceiling/truncate/round always yield a value of the input's own
	// type: Integer input stays Integer (identity), Real input rounds to a
	// Real per spec §9's "floor of negative non-integer ... mathematically
	// correct floor" note (no implicit cvi).
	roundLike := func(name string, fn func(float64) float64) {
		t.RegisterSimple(name, func(ip Interp) error {
			ops := ip.Operands()
			return txn(ops, func() error {
				a, err := ops.PopType(value.Numeric)
				if err != nil {
					return err
				}
				if a.Type == value.TypeInteger {
					ops.Push(a)
					return nil
				}
				ops.Push(value.Real(fn(a.Num())))
				return nil
			})
		})
	}
	roundLike("floor", math.Floor)
	roundLike("ceiling", math.Ceil)
	roundLike("truncate", math.Trunc)
	roundLike("round", func(f float64) float64 {
		// half-away-from-zero, per spec §4.4 ("spec requires
		// half-away-from-zero" over banker's rounding).
		if f >= 0 {
			return math.Floor(f + 0.5)
		}
		return math.Ceil(f - 0.5)
	})

	t.RegisterSimple("atan", func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			x, err := ops.PopType(value.Numeric)
			if err != nil {
				return err
			}
			y, err := ops.PopType(value.Numeric)
			if err != nil {
				return err
			}
			deg := math.Atan2(y.Num(), x.Num()) * 180 / math.Pi
			if deg < 0 {
				deg += 360
			}
			ops.Push(value.Real(deg))
			return nil
		})
	})
	t.RegisterSimple("cos", func(ip Interp) error { return trig(ip, math.Cos) })
	t.RegisterSimple("sin", func(ip Interp) error { return trig(ip, math.Sin) })

	t.RegisterSimple("rand", func(ip Interp) error {
		n := ip.Rand().Int63()
		if n < 0 {
			n = -n
		}
		ip.Operands().Push(value.Int(n))
		return nil
	})
	t.RegisterSimple("srand", func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			seed, err := ops.PopInt()
			if err != nil {
				return err
			}
			ip.Rand().Seed(seed)
			return nil
		})
	})
	t.RegisterSimple("rrand", func(ip Interp) error {
		ip.Operands().Push(value.Int(ip.Rand().State()))
		return nil
	})
}

func trig(ip Interp, fn func(float64) float64) error {
	ops := ip.Operands()
	return txn(ops, func() error {
		a, err := ops.PopType(value.Numeric)
		if err != nil {
			return err
		}
		rad := a.Num() * math.Pi / 180
		ops.Push(value.Real(fn(rad)))
		return nil
	})
}
