package operator

import (
	"pdlvm/internal/value"
)

// RegisterMisc installs the miscellaneous group (spec §4.4 "Miscellaneous").
func RegisterMisc(t *Table) {
	t.RegisterSimple("bind", func(ip Interp) error {
		ops := ip.Operands()
		proc, err := ops.PopArray()
		if err != nil {
			return err
		}
		bindArray(ip, proc, map[*value.Array]bool{})
		ops.Push(value.Arr(proc, value.Executable))
		return nil
	})

	t.RegisterSimple("save", func(ip Interp) error {
		ip.Operands().Push(value.Value{Type: value.TypeSave})
		return nil
	})

	t.RegisterSimple("restore", func(ip Interp) error {
		ops := ip.Operands()
		if _, err := ops.PopType(value.TypeSave); err != nil {
			return err
		}
		return nil
	})
}

// bindArray walks proc recursively, replacing every executable Name whose
// current dictionary-stack resolution is an Operator with that Operator
// value in place (spec supplement: real `bind`, not the no-op the base spec
// allows). seen guards against revisiting the same array twice when a
// procedure is embedded at more than one position (or, degenerately,
// references itself).
func bindArray(ip Interp, proc *value.Array, seen map[*value.Array]bool) {
	if seen[proc] {
		return
	}
	seen[proc] = true
	for i := 0; i < proc.Len(); i++ {
		v, err := proc.Get(i)
		if err != nil {
			continue
		}
		switch v.Type {
		case value.TypeName:
			if !v.IsExecutable() {
				continue
			}
			resolved, ok, err := ip.Dicts().Load(value.NameVal(v.AsName(), value.Literal))
			if err != nil || !ok {
				continue
			}
			if resolved.Type == value.TypeOperator {
				proc.Set(i, resolved)
			}
		case value.TypeArray, value.TypePackedArray:
			if v.IsExecutable() {
				bindArray(ip, v.AsArray(), seen)
			}
		}
	}
}
