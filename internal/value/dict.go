package value

import "pdlvm/internal/perrors"

// dictKey canonicalizes Name|String|Integer keys (spec §3) into a single
// comparable Go type so Dict can use a plain map for O(1) lookup while a
// parallel slice preserves insertion order for enumeration.
type dictKey struct {
	kind byte // 'n' name, 's' string, 'i' integer
	s    string
	i    int64
}

func keyOf(v Value) (dictKey, error) {
	switch v.Type {
	case TypeName:
		return dictKey{kind: 'n', s: v.AsName()}, nil
	case TypeString:
		return dictKey{kind: 's', s: string(v.AsString().Bytes())}, nil
	case TypeInteger:
		return dictKey{kind: 'i', i: v.AsInt()}, nil
	default:
		return dictKey{}, perrors.New(perrors.TypeCheck, "dictionary key must be name, string, or integer, got %s", v.Type)
	}
}

func (k dictKey) toValue() Value {
	switch k.kind {
	case 'n':
		return NameVal(k.s, Literal)
	case 's':
		return Str(NewStringFromText(k.s))
	default:
		return Int(k.i)
	}
}

// Dict is the capacity-bounded, insertion-ordered mapping of spec §3.
type Dict struct {
	cap    int
	order  []dictKey
	data   map[dictKey]Value
	access Access
}

// NewDict creates an empty dictionary with the given capacity (the `dict n` operator).
func NewDict(capacity int) *Dict {
	return &Dict{cap: capacity, data: make(map[dictKey]Value, capacity)}
}

func (d *Dict) Access() Access { return d.access }

func (d *Dict) SetAccess(acc Access) {
	if acc > d.access {
		d.access = acc
	}
}

func (d *Dict) checkWrite(op string) error {
	if d.access == ReadOnly || d.access == NoAccess {
		return perrors.New(perrors.InvalidAccess, "dictionary is not writable").WithOp(op)
	}
	return nil
}

func (d *Dict) checkRead(op string) error {
	if d.access == ExecuteOnly || d.access == NoAccess {
		return perrors.New(perrors.InvalidAccess, "dictionary is not readable").WithOp(op)
	}
	return nil
}

// Size returns the number of entries currently defined.
func (d *Dict) Size() int { return len(d.order) }

// Capacity returns the declared maximum entry count (spec invariant 3).
func (d *Dict) Capacity() int { return d.cap }

// Has reports whether key is defined, without an access check (used by `where`).
func (d *Dict) Has(key Value) bool {
	k, err := keyOf(key)
	if err != nil {
		return false
	}
	_, ok := d.data[k]
	return ok
}

// Get looks up key after checking read access (spec `get`).
func (d *Dict) Get(key Value) (Value, bool, error) {
	if err := d.checkRead("get"); err != nil {
		return Value{}, false, err
	}
	return d.Lookup(key)
}

// Lookup looks up key without an access check, for name resolution through
// the dictionary stack (spec `load` and executable-name dispatch).
func (d *Dict) Lookup(key Value) (Value, bool, error) {
	k, err := keyOf(key)
	if err != nil {
		return Value{}, false, err
	}
	v, ok := d.data[k]
	return v, ok, nil
}

// Set defines or overwrites key (spec `def`/`put`/`store`). Growing past
// Capacity raises dictfull (spec invariant 3) unless the key already exists.
func (d *Dict) Set(key, val Value) error {
	if err := d.checkWrite("put"); err != nil {
		return err
	}
	k, err := keyOf(key)
	if err != nil {
		return err
	}
	if _, exists := d.data[k]; !exists {
		if d.cap > 0 && len(d.order) >= d.cap {
			return perrors.New(perrors.DictFull, "dictionary is full (capacity %d)", d.cap)
		}
		d.order = append(d.order, k)
	}
	d.data[k] = val
	return nil
}

// Remove deletes key if present (spec `undef`); absence is not an error.
func (d *Dict) Remove(key Value) error {
	if err := d.checkWrite("undef"); err != nil {
		return err
	}
	k, err := keyOf(key)
	if err != nil {
		return err
	}
	if _, ok := d.data[k]; !ok {
		return nil
	}
	delete(d.data, k)
	for i, kk := range d.order {
		if kk == k {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	return nil
}

// Keys returns the defined keys in insertion order (spec `forall`/`dictstack` support).
func (d *Dict) Keys() []Value {
	out := make([]Value, len(d.order))
	for i, k := range d.order {
		out[i] = k.toValue()
	}
	return out
}

// Entries returns (key, value) pairs in insertion order.
func (d *Dict) Entries() [][2]Value {
	out := make([][2]Value, len(d.order))
	for i, k := range d.order {
		out[i] = [2]Value{k.toValue(), d.data[k]}
	}
	return out
}

// CopyInto performs a shallow copy of entries into dst, as the composite `copy`
// operator requires for dictionaries (dst must have room).
func (d *Dict) CopyInto(dst *Dict) error {
	if err := d.checkRead("copy"); err != nil {
		return err
	}
	if dst.cap > 0 && len(d.order) > dst.cap {
		return perrors.New(perrors.RangeCheck, "destination dictionary too small")
	}
	for _, k := range d.order {
		if err := dst.Set(k.toValue(), d.data[k]); err != nil {
			return err
		}
	}
	return nil
}
