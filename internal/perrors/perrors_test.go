package perrors

import (
	"errors"
	"testing"
)

func TestIsMatchesKind(t *testing.T) {
	err := New(TypeCheck, "expected %s, got %s", "integer", "name")
	if !Is(err, TypeCheck) {
		t.Error("Is should match the constructed kind")
	}
	if Is(err, RangeCheck) {
		t.Error("Is should not match an unrelated kind")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("disk full")
	wrapped := Wrap(cause, IOError, "writing run record")
	if !Is(wrapped, IOError) {
		t.Error("Wrap should carry the given kind")
	}
	if !errors.Is(wrapped, cause) {
		t.Error("Unwrap chain should reach the cause via errors.Is")
	}
}

func TestWithOpAndLocationAnnotate(t *testing.T) {
	err := New(InvalidAccess, "dictionary is not writable").
		WithOp("put").
		WithLocation(SourceLocation{File: "<test>", Line: 3, Column: 5})
	if err.Error() == "" {
		t.Fatal("Error() should never be empty")
	}
	if err.Op != "put" {
		t.Errorf("Op = %q, want %q", err.Op, "put")
	}
	if err.Location.Line != 3 || err.Location.Column != 5 {
		t.Errorf("Location = %+v, want line 3 column 5", err.Location)
	}
}
