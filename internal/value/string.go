package value

import (
	"bytes"

	"pdlvm/internal/perrors"
)

// PStr is the mutable byte-string container of spec §3. Comparison is
// byte-lexicographic; all access goes through the Access attribute.
type PStr struct {
	bytes  []byte
	access Access
}

// NewString allocates a zero-filled string of length n (the `string` operator).
func NewString(n int) *PStr { return &PStr{bytes: make([]byte, n)} }

// NewStringFrom wraps an existing byte slice without copying.
func NewStringFrom(b []byte) *PStr { return &PStr{bytes: b} }

// NewStringFromText is a convenience constructor for literal `(...)` strings.
func NewStringFromText(s string) *PStr { return &PStr{bytes: []byte(s)} }

func (s *PStr) Len() int        { return len(s.bytes) }
func (s *PStr) Bytes() []byte   { return s.bytes }
func (s *PStr) Access() Access  { return s.access }

func (s *PStr) SetAccess(acc Access) {
	if acc > s.access {
		s.access = acc
	}
}

func (s *PStr) checkWrite(op string) error {
	if s.access == ReadOnly || s.access == NoAccess {
		return perrors.New(perrors.InvalidAccess, "string is not writable").WithOp(op)
	}
	return nil
}

func (s *PStr) checkRead(op string) error {
	if s.access == ExecuteOnly || s.access == NoAccess {
		return perrors.New(perrors.InvalidAccess, "string is not readable").WithOp(op)
	}
	return nil
}

// Get returns the byte at index i as an int (spec §4.4 string `get`).
func (s *PStr) Get(i int) (int64, error) {
	if err := s.checkRead("get"); err != nil {
		return 0, err
	}
	if i < 0 || i >= len(s.bytes) {
		return 0, perrors.New(perrors.RangeCheck, "index %d out of range", i)
	}
	return int64(s.bytes[i]), nil
}

// Set overwrites the byte at index i.
func (s *PStr) Set(i int, b int64) error {
	if err := s.checkWrite("put"); err != nil {
		return err
	}
	if i < 0 || i >= len(s.bytes) {
		return perrors.New(perrors.RangeCheck, "index %d out of range", i)
	}
	s.bytes[i] = byte(b)
	return nil
}

// SubString returns a fresh *PStr sharing no storage, covering [i, i+count).
func (s *PStr) SubString(i, count int) (*PStr, error) {
	if err := s.checkRead("getinterval"); err != nil {
		return nil, err
	}
	if i < 0 || count < 0 || i+count > len(s.bytes) {
		return nil, perrors.New(perrors.RangeCheck, "getinterval out of range")
	}
	out := make([]byte, count)
	copy(out, s.bytes[i:i+count])
	return NewStringFrom(out), nil
}

// Splice overwrites [i, i+len(src)) in place.
func (s *PStr) Splice(i int, src []byte) error {
	if err := s.checkWrite("putinterval"); err != nil {
		return err
	}
	if i < 0 || i+len(src) > len(s.bytes) {
		return perrors.New(perrors.RangeCheck, "putinterval out of range")
	}
	copy(s.bytes[i:i+len(src)], src)
	return nil
}

// Copy overwrites the start of s with all of src's bytes (array/string `copy`
// semantics, spec Open Question 3: pushes the prefix of the target that
// received data, not the removed slice). Returns that prefix.
func (s *PStr) Copy(src *PStr) (*PStr, error) {
	if err := s.checkWrite("copy"); err != nil {
		return nil, err
	}
	if len(src.bytes) > len(s.bytes) {
		return nil, perrors.New(perrors.RangeCheck, "copy source longer than destination")
	}
	copy(s.bytes, src.bytes)
	prefix, err := s.SubString(0, len(src.bytes))
	if err != nil {
		return nil, err
	}
	return prefix, nil
}

// Equal implements byte-lexicographic equality.
func (s *PStr) Equal(o *PStr) bool { return bytes.Equal(s.bytes, o.bytes) }

// Compare implements byte-lexicographic ordering (-1, 0, 1).
func (s *PStr) Compare(o *PStr) int { return bytes.Compare(s.bytes, o.bytes) }

// Search implements the `search` operator: finds the first occurrence of
// needle, returning (post, match, pre, found).
func (s *PStr) Search(needle *PStr) (post, match, pre *PStr, found bool) {
	idx := bytes.Index(s.bytes, needle.bytes)
	if idx < 0 {
		return nil, nil, nil, false
	}
	pre = NewStringFrom(append([]byte(nil), s.bytes[:idx]...))
	match = NewStringFrom(append([]byte(nil), s.bytes[idx:idx+len(needle.bytes)]...))
	post = NewStringFrom(append([]byte(nil), s.bytes[idx+len(needle.bytes):]...))
	return post, match, pre, true
}

// AnchorSearch implements `anchorSearch`: needle must match at position 0.
func (s *PStr) AnchorSearch(needle *PStr) (post, match *PStr, found bool) {
	if !bytes.HasPrefix(s.bytes, needle.bytes) {
		return nil, nil, false
	}
	match = NewStringFrom(append([]byte(nil), s.bytes[:len(needle.bytes)]...))
	post = NewStringFrom(append([]byte(nil), s.bytes[len(needle.bytes):]...))
	return post, match, true
}
