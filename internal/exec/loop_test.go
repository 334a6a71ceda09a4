package exec

import (
	"testing"

	"pdlvm/internal/value"
)

func arrayOf(vals ...value.Value) *value.Array {
	a := value.NewArray(len(vals))
	for i, v := range vals {
		if err := a.Set(i, v); err != nil {
			panic(err)
		}
	}
	return a
}

func TestRepeatLoopFinishesAfterTarget(t *testing.T) {
	l := NewRepeatLoop(arrayOf(), 0, 3)
	var st Stack
	var ops value.OperandStack
	for i := 0; i < 3; i++ {
		if l.Finished() {
			t.Fatalf("iteration %d: should not be finished yet", i)
		}
		l.Execute(&ops, &st)
	}
	if !l.Finished() {
		t.Error("expected RepeatLoop to be finished after 3 iterations")
	}
}

func TestForLoopDescendingStep(t *testing.T) {
	l := NewForLoop(arrayOf(), 0, 5, 1, -1, true)
	var st Stack
	var ops value.OperandStack
	var seen []int64
	for !l.Finished() {
		l.Execute(&ops, &st)
		v, _ := ops.Pop()
		seen = append(seen, v.AsInt())
	}
	want := []int64{5, 4, 3, 2, 1}
	if len(seen) != len(want) {
		t.Fatalf("got %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("index %d: got %d, want %d", i, seen[i], want[i])
		}
	}
}

func TestArrayForallLoopPushesEachElement(t *testing.T) {
	arr := arrayOf(value.Int(10), value.Int(20), value.Int(30))
	l := NewArrayForallLoop(arrayOf(), 0, arr)
	var st Stack
	var ops value.OperandStack
	var got []int64
	for !l.Finished() {
		l.Execute(&ops, &st)
		v, _ := ops.Pop()
		got = append(got, v.AsInt())
	}
	if len(got) != 3 || got[0] != 10 || got[1] != 20 || got[2] != 30 {
		t.Errorf("got %v, want [10 20 30]", got)
	}
}

func TestStoppedLoopOnFinishPushesFalse(t *testing.T) {
	l := NewStoppedLoop(arrayOf(), 0)
	var ops value.OperandStack
	l.OnFinish(&ops)
	v, err := ops.Pop()
	if err != nil {
		t.Fatalf("Pop: %v", err)
	}
	if v.AsBool() {
		t.Error("OnFinish should push false for the no-error case")
	}
}

func TestLoopStackExitTruncatesExecStack(t *testing.T) {
	var st Stack
	st.Push(NewScannerFrame(nil))
	baseDepth := st.Depth()

	var ls LoopStack
	ls.Push(NewInfiniteLoop(arrayOf(), baseDepth))
	st.Push(NewArrayFrame(arrayOf(value.Int(1))))
	st.Push(NewArrayFrame(arrayOf(value.Int(2))))

	ls.Exit(&st)

	if st.Depth() != baseDepth {
		t.Errorf("Depth = %d, want %d after Exit", st.Depth(), baseDepth)
	}
	if !ls.Empty() {
		t.Error("Exit should pop the loop")
	}
}

func TestUnwindToStoppedFindsNearestStoppedLoop(t *testing.T) {
	var st Stack
	st.Push(NewScannerFrame(nil))
	outerDepth := st.Depth()

	var ls LoopStack
	ls.Push(NewStoppedLoop(arrayOf(), outerDepth))
	st.Push(NewArrayFrame(arrayOf(value.Int(1))))

	innerDepth := st.Depth()
	ls.Push(NewInfiniteLoop(arrayOf(), innerDepth))
	st.Push(NewArrayFrame(arrayOf(value.Int(2))))

	found := ls.UnwindToStopped(&st)
	if !found {
		t.Fatal("expected UnwindToStopped to find the StoppedLoop")
	}
	if st.Depth() != outerDepth {
		t.Errorf("Depth = %d, want %d", st.Depth(), outerDepth)
	}
	if !ls.Empty() {
		t.Error("both the infinite loop and the stopped loop should be popped")
	}
}

func TestUnwindToStoppedReportsNotFound(t *testing.T) {
	var st Stack
	var ls LoopStack
	ls.Push(NewInfiniteLoop(arrayOf(), 0))
	if ls.UnwindToStopped(&st) {
		t.Error("expected false when no StoppedLoop is active")
	}
	if !ls.Empty() {
		t.Error("unwind should still drain the loop stack even without a match")
	}
}
