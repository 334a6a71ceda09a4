package interp

import "testing"

func TestArrayConstructionAndAccess(t *testing.T) {
	ip, err := runSource(t, "[ 1 2 3 ] dup 1 get exch length")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	length, _ := ip.OperandStack().Pop()
	if length.AsInt() != 3 {
		t.Errorf("length got %d, want 3", length.AsInt())
	}
	elem, _ := ip.OperandStack().Pop()
	if elem.AsInt() != 2 {
		t.Errorf("array[1] got %d, want 2", elem.AsInt())
	}
}

func TestStackOperators(t *testing.T) {
	ip, err := runSource(t, "1 2 3 exch pop dup add")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	top, _ := ip.OperandStack().Pop()
	// 1 2 3 -> exch: 1 3 2 -> pop: 1 3 -> dup: 1 3 3 -> add: 1 6
	if top.AsInt() != 6 {
		t.Errorf("got %d, want 6", top.AsInt())
	}
	bottom, _ := ip.OperandStack().Pop()
	if bottom.AsInt() != 1 {
		t.Errorf("got %d, want 1", bottom.AsInt())
	}
}

func TestStringGetInterval(t *testing.T) {
	ip, err := runSource(t, "(hello world) 0 5 getinterval")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	top, err := ip.OperandStack().Pop()
	if err != nil {
		t.Fatalf("Pop: %v", err)
	}
	if string(top.AsString().Bytes()) != "hello" {
		t.Errorf("got %q, want %q", top.AsString().Bytes(), "hello")
	}
}

func TestConvertCvi(t *testing.T) {
	ip, err := runSource(t, "3.9 cvi")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	top, _ := ip.OperandStack().Pop()
	if top.AsInt() != 3 {
		t.Errorf("got %d, want 3", top.AsInt())
	}
}

func TestDictForallVisitsEveryEntry(t *testing.T) {
	ip, err := runSource(t, "0 << /a 1 /b 2 /c 3 >> { exch pop add } forall")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	top, _ := ip.OperandStack().Pop()
	if top.AsInt() != 6 {
		t.Errorf("got %d, want 6 (1+2+3)", top.AsInt())
	}
}
