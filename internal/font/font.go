// Package font implements font dictionaries and the findfont/scalefont/
// makefont composition chain of spec §4.8 (C15). Glyph outlines and real
// per-character metrics are an external collaborator per spec §1 — this
// package only carries the dictionary shape and a registry cache, the way
// the teacher's ModuleLoader carries a resolved-module cache rather than a
// compiler.
package font

import (
	"fmt"
	"sync"

	"golang.org/x/crypto/blake2b"

	"pdlvm/internal/matrix"
	"pdlvm/internal/perrors"
	"pdlvm/internal/value"
)

// DefaultMatrix is the FontMatrix new fonts carry absent an explicit one
// (spec §4.8: "default [0.001 0 0 0.001 0 0]").
var DefaultMatrix = matrix.New(0.001, 0, 0, 0.001, 0, 0)

// Font wraps the dictionary representation of a font (spec §4.8: "a font is
// a dictionary with FontName, FontMatrix, FontType, Encoding").
type Font struct {
	Name   string
	Matrix matrix.Matrix
	Type   int64
	Dict   *value.Dict
}

var (
	keyFontName   = value.NameVal("FontName", value.Literal)
	keyFontMatrix = value.NameVal("FontMatrix", value.Literal)
	keyFontType   = value.NameVal("FontType", value.Literal)
)

// FromDict extracts a Font view from a dictionary carrying the
// FontName/FontMatrix/FontType/Encoding keys, defaulting FontMatrix when absent.
func FromDict(d *value.Dict) (*Font, error) {
	f := &Font{Matrix: DefaultMatrix, Dict: d}
	if v, ok, err := d.Get(keyFontName); err != nil {
		return nil, err
	} else if ok {
		switch v.Type {
		case value.TypeName:
			f.Name = v.AsName()
		case value.TypeString:
			f.Name = string(v.AsString().Bytes())
		default:
			return nil, perrors.New(perrors.TypeCheck, "FontName must be a name or string")
		}
	}
	if v, ok, err := d.Get(keyFontMatrix); err != nil {
		return nil, err
	} else if ok {
		if v.Type != value.TypeArray {
			return nil, perrors.New(perrors.TypeCheck, "FontMatrix must be an array")
		}
		arr := v.AsArray()
		if arr.Len() != 6 {
			return nil, perrors.New(perrors.RangeCheck, "FontMatrix must have 6 elements")
		}
		var nums [6]float64
		for i := 0; i < 6; i++ {
			el, err := arr.Get(i)
			if err != nil {
				return nil, err
			}
			if el.Type&value.Numeric == 0 {
				return nil, perrors.New(perrors.TypeCheck, "FontMatrix elements must be numeric")
			}
			nums[i] = el.Num()
		}
		f.Matrix = matrix.New(nums[0], nums[1], nums[2], nums[3], nums[4], nums[5])
	}
	if v, ok, err := d.Get(keyFontType); err != nil {
		return nil, err
	} else if ok {
		if v.Type != value.TypeInteger {
			return nil, perrors.New(perrors.TypeCheck, "FontType must be an integer")
		}
		f.Type = v.AsInt()
	}
	return f, nil
}

// ToDict rebuilds the dictionary representation, used when handing a Font
// back to the interpreter as a value.Value.
func (f *Font) ToDict() *value.Dict {
	d := value.NewDict(8)
	d.Set(keyFontName, value.NameVal(f.Name, value.Literal))
	d.Set(keyFontMatrix, value.Arr(value.NewArrayFrom(matrixElems(f.Matrix)), value.Literal))
	d.Set(keyFontType, value.Int(f.Type))
	if f.Dict != nil {
		for _, k := range f.Dict.Keys() {
			name, isName := k.Data.(string)
			if isName && (name == "FontName" || name == "FontMatrix" || name == "FontType") {
				continue
			}
			if v, ok, err := f.Dict.Get(k); err == nil && ok {
				d.Set(k, v)
			}
		}
	}
	return d
}

func matrixElems(m matrix.Matrix) []value.Value {
	a := m.Array()
	out := make([]value.Value, 6)
	for i, n := range a {
		out[i] = value.Real(n)
	}
	return out
}

// PointSize approximates the rendered point size from the matrix's vertical
// scale factor (spec §4.7: "font size is derived from FontMatrix[3] * 1000").
func (f *Font) PointSize() float64 { return f.Matrix.D * 1000 }

// StringWidth estimates advance width without a real glyph-metrics provider:
// a fixed average-width-per-em heuristic scaled by PointSize, matching the
// spec's framing of glyph metrics as an external collaborator.
func (f *Font) StringWidth(text string) float64 {
	return float64(len(text)) * 0.6 * f.PointSize()
}

// Scale returns a copy of f with FontMatrix' = FontMatrix . scale(s,s)
// (spec §4.8 `scalefont`).
func (f *Font) Scale(s float64) *Font {
	g := *f
	g.Matrix = matrix.Multiply(f.Matrix, matrix.Scale(s, s))
	return &g
}

// Compose returns a copy of f with FontMatrix' = FontMatrix . m
// (spec §4.8 `makefont`).
func (f *Font) Compose(m matrix.Matrix) *Font {
	g := *f
	g.Matrix = matrix.Multiply(f.Matrix, m)
	return &g
}

// HostLookup is the extension hook of spec §9: "a font registry callback
// hasFont(name) -> bool and loadFont(name) -> FontDictionary".
type HostLookup interface {
	HasFont(name string) bool
	LoadFont(name string) (*value.Dict, error)
}

type cacheKey [32]byte

func keyFor(name string, m matrix.Matrix) cacheKey {
	h, _ := blake2b.New256(nil)
	fmt.Fprintf(h, "%s|%v", name, m.Array())
	var k cacheKey
	copy(k[:], h.Sum(nil))
	return k
}

// Registry resolves font names through an ordered chain — user-defined
// fonts first, then built-in metrics, then an optional host callback —
// mirroring the teacher's cache-then-search-path-then-builtin module
// resolution order, generalized from a path string to a (name, matrix) pair.
type Registry struct {
	mu       sync.RWMutex
	cache    map[cacheKey]*Font
	userDict *value.Dict
	builtins map[string]*Font
	host     HostLookup
}

// NewRegistry creates a Registry seeded with the standard 14 metrics-only
// font names (widths are heuristic — see Font.StringWidth).
func NewRegistry(host HostLookup) *Registry {
	r := &Registry{
		cache:    make(map[cacheKey]*Font),
		userDict: value.NewDict(0),
		builtins: make(map[string]*Font),
		host:     host,
	}
	for _, name := range standardFonts {
		r.builtins[name] = &Font{Name: name, Matrix: DefaultMatrix, Type: 1}
	}
	return r
}

var standardFonts = []string{
	"Helvetica", "Helvetica-Bold", "Helvetica-Oblique", "Helvetica-BoldOblique",
	"Times-Roman", "Times-Bold", "Times-Italic", "Times-BoldItalic",
	"Courier", "Courier-Bold", "Courier-Oblique", "Courier-BoldOblique",
	"Symbol", "ZapfDingbats",
}

// DefineFont installs a user font dictionary under key (spec §4.8 `definefont`).
func (r *Registry) DefineFont(key string, f *Font) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.userDict.Set(value.NameVal(key, value.Literal), value.Dictionary(f.ToDict()))
}

// FindFont resolves name by consulting, in order, the user font dictionary,
// the cache, the built-in metrics table, and the host callback
// (spec §4.8 `findfont`).
func (r *Registry) FindFont(name string) (*Font, error) {
	r.mu.RLock()
	v, ok, err := r.userDict.Get(value.NameVal(name, value.Literal))
	r.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	if ok {
		return FromDict(v.AsDict())
	}

	key := keyFor(name, DefaultMatrix)
	r.mu.RLock()
	if f, ok := r.cache[key]; ok {
		r.mu.RUnlock()
		return f, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.builtins[name]; ok {
		r.cache[key] = f
		return f, nil
	}
	if r.host != nil && r.host.HasFont(name) {
		d, err := r.host.LoadFont(name)
		if err != nil {
			return nil, perrors.Wrap(err, perrors.InvalidFont, "loading host font %q", name)
		}
		f, err := FromDict(d)
		if err != nil {
			return nil, err
		}
		r.cache[key] = f
		return f, nil
	}
	return nil, perrors.New(perrors.InvalidFont, "font %q not found", name)
}

// Checksum returns a stable content fingerprint of the font's identity
// (name, matrix and type) as a short hex label.
func Checksum(f *Font) string {
	h, _ := blake2b.New256(nil)
	fmt.Fprintf(h, "%s|%v|%d", f.Name, f.Matrix.Array(), f.Type)
	return fmt.Sprintf("%x", h.Sum(nil)[:8])
}
