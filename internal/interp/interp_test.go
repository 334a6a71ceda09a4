package interp

import (
	"strings"
	"testing"

	"pdlvm/internal/perrors"
	"pdlvm/internal/value"
)

func runSource(t *testing.T, src string) (*Interpreter, error) {
	t.Helper()
	ip, err := Load([]byte(src), nil, DefaultConfig())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return ip, ip.Run()
}

func TestArithmeticLeavesExpectedOperand(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int64
	}{
		{"add", "2 3 add", 5},
		{"sub", "10 4 sub", 6},
		{"mul", "6 7 mul", 42},
		{"nested procs", "1 { 2 3 add } exec add", 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ip, err := runSource(t, tt.src)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			top, err := ip.OperandStack().Pop()
			if err != nil {
				t.Fatalf("Pop: %v", err)
			}
			if top.AsInt() != tt.want {
				t.Errorf("got %d, want %d", top.AsInt(), tt.want)
			}
		})
	}
}

func TestIfElseTakesCorrectBranch(t *testing.T) {
	ip, err := runSource(t, "true { 1 } { 2 } ifelse")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	top, _ := ip.OperandStack().Pop()
	if top.AsInt() != 1 {
		t.Errorf("got %d, want 1", top.AsInt())
	}
}

func TestRepeatLoopRunsExactCount(t *testing.T) {
	ip, err := runSource(t, "0 5 { 1 add } repeat")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	top, _ := ip.OperandStack().Pop()
	if top.AsInt() != 5 {
		t.Errorf("got %d, want 5", top.AsInt())
	}
}

func TestForLoopAccumulates(t *testing.T) {
	// 0 1 1 5 { add } for sums 1+2+3+4+5 onto the initial 0 accumulator.
	ip, err := runSource(t, "0 1 1 5 { add } for")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	top, _ := ip.OperandStack().Pop()
	if top.AsInt() != 15 {
		t.Errorf("got %d, want 15", top.AsInt())
	}
}

func TestStoppedCatchesError(t *testing.T) {
	ip, err := runSource(t, "{ 1 0 div } stopped")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	top, err := ip.OperandStack().Pop()
	if err != nil {
		t.Fatalf("Pop: %v", err)
	}
	if top.Type != value.TypeBoolean || !top.AsBool() {
		t.Errorf("expected stopped to push true after a caught error, got %v", top)
	}
}

func TestStoppedLeavesFalseWhenNoError(t *testing.T) {
	ip, err := runSource(t, "{ 1 2 add } stopped")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	flag, err := ip.OperandStack().Pop()
	if err != nil {
		t.Fatalf("Pop: %v", err)
	}
	if flag.AsBool() {
		t.Fatalf("expected stopped flag false for a clean body")
	}
	sum, _ := ip.OperandStack().Pop()
	if sum.AsInt() != 3 {
		t.Errorf("got %d, want 3", sum.AsInt())
	}
}

func TestUndefinedNameRaisesUndefined(t *testing.T) {
	_, err := runSource(t, "nosuchoperator")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !perrors.Is(err, perrors.Undefined) {
		t.Errorf("got %v, want undefined", err)
	}
}

func TestStepBudgetExceededRaisesLimitCheck(t *testing.T) {
	ip, err := Load([]byte("{ } loop"), nil, Config{StepBudget: 10})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	runErr := ip.Run()
	if runErr == nil {
		t.Fatal("expected limitcheck from an infinite loop under a tiny step budget")
	}
	if !perrors.Is(runErr, perrors.LimitCheck) {
		t.Errorf("got %v, want limitcheck", runErr)
	}
	if ip.Steps() < 10 {
		t.Errorf("steps = %d, want at least the configured budget of 10", ip.Steps())
	}
}

func TestLoopStackDepthBudgetEnforced(t *testing.T) {
	// Each nested `loop` opens a new loop context before ever executing its
	// body, so a tiny loop-stack budget trips on a deeply nested literal
	// procedure before the step budget would.
	src := "{ { { { { 1 } loop } loop } loop } loop } loop"
	ip, err := Load([]byte(src), nil, Config{StepBudget: 100000, LoopStackDepth: 2})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	runErr := ip.Run()
	if runErr == nil {
		t.Fatal("expected limitcheck from exceeding the loop-stack depth budget")
	}
	if !perrors.Is(runErr, perrors.LimitCheck) {
		t.Errorf("got %v, want limitcheck", runErr)
	}
}

func TestQuitHaltsImmediately(t *testing.T) {
	ip, err := Load([]byte("1 2 quit 3 4"), nil, DefaultConfig())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	runErr := ip.Run()
	if runErr == nil {
		t.Fatal("expected quit to surface as an error to the embedder")
	}
	if !strings.Contains(runErr.Error(), "quit") {
		t.Errorf("got %q, want it to mention quit", runErr.Error())
	}
	if ip.OperandStack().Count() != 2 {
		t.Errorf("operand count = %d, want 2 (3 4 never pushed)", ip.OperandStack().Count())
	}
}

func TestDictCapacityBudgetRejectsOversizedDict(t *testing.T) {
	ip, err := Load([]byte("2000 dict"), nil, Config{StepBudget: 1000, DictCapacity: 16})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	runErr := ip.Run()
	if runErr == nil {
		t.Fatal("expected limitcheck for a dict request exceeding the capacity budget")
	}
	if !perrors.Is(runErr, perrors.LimitCheck) {
		t.Errorf("got %v, want limitcheck", runErr)
	}
}

func TestDefAndLoadRoundTrip(t *testing.T) {
	ip, err := runSource(t, "/x 42 def x")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	top, _ := ip.OperandStack().Pop()
	if top.AsInt() != 42 {
		t.Errorf("got %d, want 42", top.AsInt())
	}
}
