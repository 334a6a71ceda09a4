package operator

import (
	"pdlvm/internal/matrix"
	"pdlvm/internal/perrors"
	"pdlvm/internal/value"
)

// RegisterTransform installs the coordinate-transform group (spec §4.4
// "Coordinate systems"): the CTM is carried inside the graphics.Context, so
// every operator here just reads/writes it through ip.Graphics().
func RegisterTransform(t *Table) {
	t.RegisterSimple("matrix", func(ip Interp) error {
		ip.Operands().Push(matrixToArray(matrix.Identity()))
		return nil
	})

	t.RegisterSimple("currentmatrix", func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			dst, err := ops.PopArray()
			if err != nil {
				return err
			}
			if err := storeMatrix(dst, ip.Graphics().GetCTM()); err != nil {
				return err
			}
			ops.Push(value.Arr(dst, value.Literal))
			return nil
		})
	})

	t.RegisterSimple("setmatrix", func(ip Interp) error {
		ops := ip.Operands()
		arr, err := ops.PopArray()
		if err != nil {
			return err
		}
		m, err := arrayToMatrix(arr)
		if err != nil {
			return err
		}
		ip.Graphics().SetCTM(m)
		return nil
	})

	t.RegisterSimple("translate", func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			ty, err := ops.PopNum()
			if err != nil {
				return err
			}
			tx, err := ops.PopNum()
			if err != nil {
				return err
			}
			ip.Graphics().ConcatCTM(matrix.Translate(tx, ty))
			return nil
		})
	})

	t.RegisterSimple("scale", func(ip Interp) error {
		ops := ip.Operands()
		return txn(ops, func() error {
			sy, err := ops.PopNum()
			if err != nil {
				return err
			}
			sx, err := ops.PopNum()
			if err != nil {
				return err
			}
			ip.Graphics().ConcatCTM(matrix.Scale(sx, sy))
			return nil
		})
	})

	t.RegisterSimple("rotate", func(ip Interp) error {
		ops := ip.Operands()
		deg, err := ops.PopNum()
		if err != nil {
			return err
		}
		ip.Graphics().ConcatCTM(matrix.Rotate(deg))
		return nil
	})

	t.RegisterSimple("concat", func(ip Interp) error {
		ops := ip.Operands()
		arr, err := ops.PopArray()
		if err != nil {
			return err
		}
		m, err := arrayToMatrix(arr)
		if err != nil {
			return err
		}
		ip.Graphics().ConcatCTM(m)
		return nil
	})
}

func matrixToArray(m matrix.Matrix) value.Value {
	vals := m.Array()
	elems := make([]value.Value, 6)
	for i, v := range vals {
		elems[i] = value.Real(v)
	}
	return value.Arr(value.NewArrayFrom(elems), value.Literal)
}

func storeMatrix(dst *value.Array, m matrix.Matrix) error {
	if dst.Len() != 6 {
		return perrors.New(perrors.RangeCheck, "matrix array must have 6 elements")
	}
	vals := m.Array()
	for i, v := range vals {
		if err := dst.Set(i, value.Real(v)); err != nil {
			return err
		}
	}
	return nil
}

func arrayToMatrix(a *value.Array) (matrix.Matrix, error) {
	if a.Len() != 6 {
		return matrix.Matrix{}, perrors.New(perrors.RangeCheck, "matrix array must have 6 elements")
	}
	var nums [6]float64
	for i := 0; i < 6; i++ {
		v, err := a.Get(i)
		if err != nil {
			return matrix.Matrix{}, err
		}
		if v.Type&value.Numeric == 0 {
			return matrix.Matrix{}, perrors.New(perrors.TypeCheck, "matrix entries must be numbers")
		}
		nums[i] = v.Num()
	}
	return matrix.New(nums[0], nums[1], nums[2], nums[3], nums[4], nums[5]), nil
}
