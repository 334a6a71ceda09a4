package dictstack

import (
	"testing"

	"pdlvm/internal/perrors"
	"pdlvm/internal/value"
)

func name(n string) value.Value { return value.NameVal(n, value.Literal) }

func TestLoadResolvesInnermostFirst(t *testing.T) {
	sys := value.NewDict(4)
	_ = sys.Set(name("x"), value.Int(1))
	s := New(sys)

	inner := value.NewDict(4)
	_ = inner.Set(name("x"), value.Int(2))
	s.Begin(inner)

	v, ok, err := s.Load(name("x"))
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if v.AsInt() != 2 {
		t.Errorf("got %d, want 2 (innermost shadows systemdict)", v.AsInt())
	}
}

func TestEndCannotPopSystemdict(t *testing.T) {
	s := New(value.NewDict(4))
	if err := s.End(); !perrors.Is(err, perrors.InvalidAccess) {
		t.Errorf("got %v, want invalidaccess", err)
	}
}

func TestDefWritesCurrentDict(t *testing.T) {
	s := New(value.NewDict(4))
	user := value.NewDict(4)
	s.Begin(user)

	if err := s.Def(name("y"), value.Int(9)); err != nil {
		t.Fatalf("Def: %v", err)
	}
	if !user.Has(name("y")) {
		t.Error("Def should write into the innermost dictionary, not systemdict")
	}
}

func TestWhereFindsDefiningDict(t *testing.T) {
	sys := value.NewDict(4)
	_ = sys.Set(name("z"), value.Int(1))
	s := New(sys)
	s.Begin(value.NewDict(4))

	d, ok := s.Where(name("z"))
	if !ok {
		t.Fatal("expected Where to find z in systemdict")
	}
	if d != sys {
		t.Error("Where returned the wrong dictionary")
	}

	if _, ok := s.Where(name("nope")); ok {
		t.Error("Where should report false for an undefined key")
	}
}

func TestClearToSystemDropsEverythingElse(t *testing.T) {
	s := New(value.NewDict(4))
	s.Begin(value.NewDict(4))
	s.Begin(value.NewDict(4))
	if s.Depth() != 3 {
		t.Fatalf("Depth = %d, want 3", s.Depth())
	}
	s.ClearToSystem()
	if s.Depth() != 1 {
		t.Errorf("Depth = %d, want 1 after ClearToSystem", s.Depth())
	}
}
