package operator

import (
	"pdlvm/internal/scan"
	"pdlvm/internal/value"
)

// tokenizeOne implements the `token` operator (spec §4.4 "Strings"): parses
// a single token out of s's bytes and returns it alongside the unconsumed
// remainder. ok is false when s holds no further token (end of string, or
// only whitespace/comments).
func tokenizeOne(s *value.PStr) (value.Value, *value.PStr, bool, error) {
	src := string(s.Bytes())
	sc := scan.New(src, "")
	v, ok, err := sc.Next()
	if err != nil || !ok {
		return value.Value{}, nil, false, err
	}
	pos := sc.LexerPos()
	rest := value.NewStringFromText(src[pos:])
	return v, rest, true, nil
}
