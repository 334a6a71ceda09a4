package value

import "pdlvm/internal/perrors"

// OperandStack is the typed push/pop/peek stack of spec §3/C5. All pop
// helpers are transactional with respect to the *caller*: they either return
// the requested values or an error without mutating the stack, so operators
// can collect arguments, fail, and leave the stack untouched (spec §7).
type OperandStack struct {
	vals []Value
}

// NewOperandStack returns an empty operand stack.
func NewOperandStack() *OperandStack { return &OperandStack{} }

// Push appends a value.
func (s *OperandStack) Push(v Value) { s.vals = append(s.vals, v) }

// Count returns the current stack height.
func (s *OperandStack) Count() int { return len(s.vals) }

// All returns the stack contents bottom-to-top, for inspection (embedder API).
func (s *OperandStack) All() []Value {
	out := make([]Value, len(s.vals))
	copy(out, s.vals)
	return out
}

// Clear empties the stack (the `clear` operator).
func (s *OperandStack) Clear() { s.vals = s.vals[:0] }

// Peek returns the nth value from the top (0 = top) without popping.
func (s *OperandStack) Peek(n int) (Value, error) {
	idx := len(s.vals) - 1 - n
	if idx < 0 {
		return Value{}, perrors.New(perrors.StackUnderflow, "operand stack underflow")
	}
	return s.vals[idx], nil
}

// Pop removes and returns the top value.
func (s *OperandStack) Pop() (Value, error) {
	if len(s.vals) == 0 {
		return Value{}, perrors.New(perrors.StackUnderflow, "operand stack underflow")
	}
	v := s.vals[len(s.vals)-1]
	s.vals = s.vals[:len(s.vals)-1]
	return v, nil
}

// PopType pops the top value, requiring its Type to intersect want.
func (s *OperandStack) PopType(want Type) (Value, error) {
	if len(s.vals) == 0 {
		return Value{}, perrors.New(perrors.StackUnderflow, "operand stack underflow")
	}
	top := s.vals[len(s.vals)-1]
	if top.Type&want == 0 {
		return Value{}, perrors.New(perrors.TypeCheck, "expected %s, got %s", want, top.Type)
	}
	s.vals = s.vals[:len(s.vals)-1]
	return top, nil
}

// PopInt pops an Integer value and returns it as int64.
func (s *OperandStack) PopInt() (int64, error) {
	v, err := s.PopType(TypeInteger)
	if err != nil {
		return 0, err
	}
	return v.AsInt(), nil
}

// PopNum pops a Numeric (Integer|Real) value and returns it as float64.
func (s *OperandStack) PopNum() (float64, error) {
	v, err := s.PopType(Numeric)
	if err != nil {
		return 0, err
	}
	return v.Num(), nil
}

// PopBool pops a Boolean value.
func (s *OperandStack) PopBool() (bool, error) {
	v, err := s.PopType(TypeBoolean)
	if err != nil {
		return false, err
	}
	return v.AsBool(), nil
}

// PopArray pops an Array value.
func (s *OperandStack) PopArray() (*Array, error) {
	v, err := s.PopType(TypeArray | TypePackedArray)
	if err != nil {
		return nil, err
	}
	return v.AsArray(), nil
}

// PopString pops a String value.
func (s *OperandStack) PopString() (*PStr, error) {
	v, err := s.PopType(TypeString)
	if err != nil {
		return nil, err
	}
	return v.AsString(), nil
}

// PopDict pops a Dictionary value.
func (s *OperandStack) PopDict() (*Dict, error) {
	v, err := s.PopType(TypeDictionary)
	if err != nil {
		return nil, err
	}
	return v.AsDict(), nil
}

// PopName pops a Name value.
func (s *OperandStack) PopName() (string, error) {
	v, err := s.PopType(TypeName)
	if err != nil {
		return "", err
	}
	return v.AsName(), nil
}

// Snapshot/Restore let operators collect several arguments transactionally:
// snapshot before popping, restore on failure (spec §7's "transactional
// argument popping").
func (s *OperandStack) Snapshot() []Value {
	out := make([]Value, len(s.vals))
	copy(out, s.vals)
	return out
}

func (s *OperandStack) Restore(snap []Value) {
	s.vals = snap
}

// PopMarkGroup pops values down to and including the nearest Mark, returning
// the values above the mark in bottom-to-top order (spec §4.4 `]`, `>>`,
// `cleartomark`). Raises unmatchedmark if no Mark is found.
func (s *OperandStack) PopMarkGroup() ([]Value, error) {
	for i := len(s.vals) - 1; i >= 0; i-- {
		if s.vals[i].Type == TypeMark {
			group := make([]Value, len(s.vals)-1-i)
			copy(group, s.vals[i+1:])
			s.vals = s.vals[:i]
			return group, nil
		}
	}
	return nil, perrors.New(perrors.UnmatchedMark, "no matching mark")
}

// CountToMark returns the number of values above the nearest Mark.
func (s *OperandStack) CountToMark() (int, error) {
	for i := len(s.vals) - 1; i >= 0; i-- {
		if s.vals[i].Type == TypeMark {
			return len(s.vals) - 1 - i, nil
		}
	}
	return 0, perrors.New(perrors.UnmatchedMark, "no matching mark")
}

// NumBinOp applies the spec §4.2 Integer/Real promotion rule: Integer op
// Integer -> Integer unless forceReal is set (div, sqrt, sin, ...), in which
// case, or if either operand is Real, the result is Real. intFn additionally
// reports whether the integer result overflowed int64; an overflowing result
// is promoted to Real rather than wrapping, per spec §4.2.
func NumBinOp(a, b Value, forceReal bool, intFn func(int64, int64) (int64, bool), realFn func(float64, float64) float64) Value {
	if !forceReal && a.Type == TypeInteger && b.Type == TypeInteger {
		if r, ok := intFn(a.AsInt(), b.AsInt()); ok {
			return Int(r)
		}
	}
	return Real(realFn(a.Num(), b.Num()))
}

// NumUnaryOp applies the same promotion rule for unary operators (neg, abs).
func NumUnaryOp(a Value, forceReal bool, intFn func(int64) int64, realFn func(float64) float64) Value {
	if !forceReal && a.Type == TypeInteger {
		return Int(intFn(a.AsInt()))
	}
	return Real(realFn(a.Num()))
}
