package value

import "pdlvm/internal/perrors"

// Array is the ordered, reference-semantics container of spec §3. When an
// Array is activated as a procedure body (Design Notes: "immutable element
// arrays with a separate per-activation cursor"), the activation owns its
// own procedureIndex while sharing elems with every other reference to the
// same container identity.
type Array struct {
	elems          []Value
	access         Access
	procedureIndex int
}

// NewArray creates an Array of length n filled with Null.
func NewArray(n int) *Array {
	elems := make([]Value, n)
	for i := range elems {
		elems[i] = Null()
	}
	return &Array{elems: elems}
}

// NewArrayFrom wraps an existing slice without copying (used by `]`, procedures, and array-building operators).
func NewArrayFrom(elems []Value) *Array {
	return &Array{elems: elems}
}

func (a *Array) Len() int { return len(a.elems) }

func (a *Array) Access() Access { return a.access }

// SetAccess downgrades (never upgrades) the container's access attribute,
// per spec §4.2 (`executeonly`, `noaccess`, `readonly`).
func (a *Array) SetAccess(acc Access) {
	if acc > a.access {
		a.access = acc
	}
}

func (a *Array) checkWrite(op string) error {
	if a.access == ReadOnly || a.access == NoAccess {
		return perrors.New(perrors.InvalidAccess, "array is not writable").WithOp(op)
	}
	return nil
}

func (a *Array) checkRead(op string) error {
	if a.access == ExecuteOnly || a.access == NoAccess {
		return perrors.New(perrors.InvalidAccess, "array is not readable").WithOp(op)
	}
	return nil
}

// Get returns element i (spec invariant 8: 0 <= i < length).
func (a *Array) Get(i int) (Value, error) {
	if err := a.checkRead("get"); err != nil {
		return Value{}, err
	}
	if i < 0 || i >= len(a.elems) {
		return Value{}, perrors.New(perrors.RangeCheck, "index %d out of range", i)
	}
	return a.elems[i], nil
}

// Set mutates element i in place (reference semantics: visible to every alias).
func (a *Array) Set(i int, v Value) error {
	if err := a.checkWrite("put"); err != nil {
		return err
	}
	if i < 0 || i >= len(a.elems) {
		return perrors.New(perrors.RangeCheck, "index %d out of range", i)
	}
	a.elems[i] = v
	return nil
}

// Slice returns a fresh Array sharing no storage with a, covering [i, i+count).
func (a *Array) Slice(i, count int) (*Array, error) {
	if err := a.checkRead("getinterval"); err != nil {
		return nil, err
	}
	if i < 0 || count < 0 || i+count > len(a.elems) {
		return nil, perrors.New(perrors.RangeCheck, "getinterval out of range")
	}
	out := make([]Value, count)
	copy(out, a.elems[i:i+count])
	return NewArrayFrom(out), nil
}

// Splice overwrites [i, i+len(src)) in place (spec Open Question 4: permits
// index+source.length == target.length, rejects strictly greater).
func (a *Array) Splice(i int, src []Value) error {
	if err := a.checkWrite("putinterval"); err != nil {
		return err
	}
	if i < 0 || i+len(src) > len(a.elems) {
		return perrors.New(perrors.RangeCheck, "putinterval out of range")
	}
	copy(a.elems[i:i+len(src)], src)
	return nil
}

// Elems exposes the backing slice read-only for forall/aload/print helpers.
func (a *Array) Elems() []Value { return a.elems }

// Activate returns a fresh activation: same element storage, procedureIndex
// reset to zero (Design Notes: solves mutual recursion without reference
// cycles in the memory graph, since only the cursor is copied).
func (a *Array) Activate() *Array {
	return &Array{elems: a.elems, access: a.access, procedureIndex: 0}
}

// Cursor/Advance drive procedure-body fetch in the execution stack (spec §4.3 step 3).
func (a *Array) Cursor() int           { return a.procedureIndex }
func (a *Array) Advance()              { a.procedureIndex++ }
func (a *Array) Exhausted() bool       { return a.procedureIndex >= len(a.elems) }
func (a *Array) CurrentValue() Value   { return a.elems[a.procedureIndex] }
