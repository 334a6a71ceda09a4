// Package operator implements the built-in operator table of spec §4.4
// (C8): one Go file per operator group, a signature-based overload resolver
// (spec §4.3 "Overload resolution"), and the Interp surface operators run
// against.
//
// Grounded on sentra/internal/module.ModuleLoader's name-string-list →
// stdlib-map-lookup → Module.Exports pattern for building a named-function
// table, and sentra/internal/bytecode's grouped-by-comment-block layout for
// organizing a large flat opcode/operator space — mirrored here as one file
// per spec §4.4 group instead of one const block per group.
package operator

import (
	"pdlvm/internal/dictstack"
	"pdlvm/internal/exec"
	"pdlvm/internal/font"
	"pdlvm/internal/graphics"
	"pdlvm/internal/perrors"
	"pdlvm/internal/value"
)

// StopSignal records why the interpreter is suspending (spec §7: "the
// stopped construct ... catches these errors and resumes with a boolean").
type StopSignal int

const (
	StopNone StopSignal = iota
	StopQuit
	StopError
)

// Interp is the surface an operator implementation runs against. The
// concrete type lives in package interp; declaring it here (rather than in
// package value) keeps package value free of dictstack/exec/graphics/font
// imports while letting value.Operator.Fn hold an operator.Func opaquely.
type Interp interface {
	Operands() *value.OperandStack
	Dicts() *dictstack.Stack
	ExecStack() *exec.Stack
	Loops() *exec.LoopStack
	Graphics() graphics.Context
	Fonts() *font.Registry
	Rand() Rand
	CurrentFile() ([]byte, int, bool) // source bytes, read cursor, ok
	AdvanceFile(n int)
	Stop(sig StopSignal, err error)
	Stopped() (StopSignal, error)
	ClearStop()
	LoopBudget() int        // spec §5: loop-stack depth ≤ 1,024
	DictCapacityLimit() int // spec §5: dictionary capacity ≤ 1,024 entries
}

// Rand is the PRNG surface `rand`/`srand`/`rrand` need.
type Rand interface {
	Int63() int64
	Seed(seed int64)
	State() int64
}

// Func is the signature every operator implementation has.
type Func func(ip Interp) error

// Call invokes op against ip, recovering the concrete Func stored behind
// value.Operator.Fn's interface{} (see value.Operator's doc comment).
func Call(op *value.Operator, ip Interp) error {
	fn, ok := op.Fn.(Func)
	if !ok {
		return perrors.New(perrors.Undefined, "operator %q has no implementation", op.Name)
	}
	return fn(ip)
}

// Signature pairs a type-set precondition with a handler. Resolution
// compares the precondition against the operand stack's current top values,
// right-to-left, per spec §4.3's "bitwise type-set intersection".
type Signature struct {
	// Types lists the expected types of the top N operands, ordered from
	// the topmost operand backwards (Types[0] is the very top of stack).
	Types []value.Type
	Fn    Func
}

// matches reports whether ops's top len(Types) values satisfy this signature.
func (sig Signature) matches(ops *value.OperandStack) bool {
	for i, want := range sig.Types {
		v, err := ops.Peek(i)
		if err != nil {
			return false
		}
		if v.Type&want == 0 {
			return false
		}
	}
	return true
}

// Table is the name -> ordered-signature-list map built at startup (spec §9:
// "replace global decorator registries with an explicit table built by the
// constructor").
type Table struct {
	entries map[string][]Signature
	order   []string
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{entries: make(map[string][]Signature)}
}

// Register adds a zero-arity or fixed-signature handler under name. Multiple
// calls with the same name append additional overloads, tried in
// registration order (spec §4.3: "picks the first whose signature matches").
func (t *Table) Register(name string, sig Signature) {
	if _, ok := t.entries[name]; !ok {
		t.order = append(t.order, name)
	}
	t.entries[name] = append(t.entries[name], sig)
}

// RegisterSimple adds a single no-precondition handler, for operators whose
// own body does all argument type-checking via the OperandStack pop helpers
// (the common case — most operators have one shape).
func (t *Table) RegisterSimple(name string, fn Func) {
	t.Register(name, Signature{Fn: fn})
}

// Names returns every registered operator name in registration order, used
// to build systemdict.
func (t *Table) Names() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Resolve picks the first matching signature for name given the current
// operand stack (spec §4.3's overload resolution), or typecheck/undefined.
func (t *Table) Resolve(name string, ops *value.OperandStack) (Func, error) {
	sigs, ok := t.entries[name]
	if !ok {
		return nil, perrors.New(perrors.Undefined, "operator %q not found", name)
	}
	for _, sig := range sigs {
		if len(sig.Types) == 0 || sig.matches(ops) {
			return sig.Fn, nil
		}
	}
	return nil, perrors.New(perrors.TypeCheck, "no overload of %q matches operand stack", name)
}

// NewSystemTable builds the full built-in operator table (spec §4.4's
// complete group inventory), in the same group order as the spec's own
// listing: stack, arithmetic, relational/bitwise, arrays, strings,
// dictionaries, control, graphics state, coordinate transforms, path
// construction, painting, type/attribute conversion, files, fonts, misc.
func NewSystemTable() *Table {
	t := NewTable()
	RegisterStack(t)
	RegisterArith(t)
	RegisterRelational(t)
	RegisterArrays(t)
	RegisterStrings(t)
	RegisterDict(t)
	RegisterControl(t)
	RegisterGState(t)
	RegisterTransform(t)
	RegisterPath(t)
	RegisterPaint(t)
	RegisterConvert(t)
	RegisterFile(t)
	RegisterFont(t)
	RegisterMisc(t)
	return t
}

// BuildSystemDict installs every table entry into d as Operator values
// (spec §4.3: systemdict holds the built-ins, resolved like any other name).
// Overload dispatch happens inside a single thunk per name so that
// systemdict still maps one name to one value.Operator, matching the value
// model's "Name resolves to exactly one definition" rule; the thunk defers
// to Table.Resolve using the live operand stack at call time.
func (t *Table) BuildSystemDict(d *value.Dict) error {
	for _, name := range t.order {
		localName := name
		op := &value.Operator{Name: localName}
		op.Fn = Func(func(ip Interp) error {
			fn, err := t.Resolve(localName, ip.Operands())
			if err != nil {
				return err
			}
			return fn(ip)
		})
		if err := d.Set(value.NameVal(localName, value.Literal), value.Op(op)); err != nil {
			return err
		}
	}
	return nil
}
