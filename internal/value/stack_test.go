package value

import (
	"testing"

	"pdlvm/internal/perrors"
)

func TestOperandStackPushPopOrder(t *testing.T) {
	s := NewOperandStack()
	s.Push(Int(1))
	s.Push(Int(2))
	s.Push(Int(3))

	for _, want := range []int64{3, 2, 1} {
		v, err := s.Pop()
		if err != nil {
			t.Fatalf("Pop: %v", err)
		}
		if v.AsInt() != want {
			t.Errorf("got %d, want %d", v.AsInt(), want)
		}
	}
}

func TestPopUnderflow(t *testing.T) {
	s := NewOperandStack()
	if _, err := s.Pop(); !perrors.Is(err, perrors.StackUnderflow) {
		t.Errorf("got %v, want stackunderflow", err)
	}
}

func TestPopTypeMismatchLeavesStackIntact(t *testing.T) {
	s := NewOperandStack()
	s.Push(Bool(true))
	if _, err := s.PopType(Numeric); !perrors.Is(err, perrors.TypeCheck) {
		t.Fatalf("got %v, want typecheck", err)
	}
	if s.Count() != 1 {
		t.Errorf("PopType must not consume the value on a type mismatch, count = %d", s.Count())
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	s := NewOperandStack()
	s.Push(Int(1))
	s.Push(Int(2))
	snap := s.Snapshot()

	s.Push(Int(3))
	_, _ = s.Pop()
	_, _ = s.Pop()

	s.Restore(snap)
	if s.Count() != 2 {
		t.Fatalf("Restore: count = %d, want 2", s.Count())
	}
	top, _ := s.Pop()
	if top.AsInt() != 2 {
		t.Errorf("Restore: top = %d, want 2", top.AsInt())
	}
}

func TestPopMarkGroup(t *testing.T) {
	s := NewOperandStack()
	s.Push(Mark())
	s.Push(Int(1))
	s.Push(Int(2))

	group, err := s.PopMarkGroup()
	if err != nil {
		t.Fatalf("PopMarkGroup: %v", err)
	}
	if len(group) != 2 || group[0].AsInt() != 1 || group[1].AsInt() != 2 {
		t.Errorf("got %v, want [1 2]", group)
	}
	if s.Count() != 0 {
		t.Errorf("mark and group contents should both be consumed, count = %d", s.Count())
	}
}

func TestPopMarkGroupUnmatchedMark(t *testing.T) {
	s := NewOperandStack()
	s.Push(Int(1))
	if _, err := s.PopMarkGroup(); !perrors.Is(err, perrors.UnmatchedMark) {
		t.Errorf("got %v, want unmatchedmark", err)
	}
}

func TestEq(t *testing.T) {
	if !Eq(Int(1), Int(1)) {
		t.Error("Int(1) should equal Int(1)")
	}
	if !Eq(Int(1), Real(1)) {
		t.Error("eq coerces across Integer/Real, per spec numeric equality")
	}
	if !Eq(NameVal("x", Literal), NameVal("x", Executable)) {
		t.Error("name equality should ignore executability")
	}
}
