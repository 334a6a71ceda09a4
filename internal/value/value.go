// Package value implements the tagged value model of the evaluator (spec §3, §4.2).
package value

import "fmt"

// Type is a bit-flag so operator signatures can accept unions (Integer|Real).
type Type uint32

const (
	TypeNull Type = 1 << iota
	TypeBoolean
	TypeInteger
	TypeReal
	TypeName
	TypeString
	TypeArray
	TypePackedArray
	TypeDictionary
	TypeOperator
	TypeFile
	TypeMark
	TypeFontID
	TypeGState
	TypeSave
)

// Any matches every type in signature matching.
const Any = TypeNull | TypeBoolean | TypeInteger | TypeReal | TypeName |
	TypeString | TypeArray | TypePackedArray | TypeDictionary | TypeOperator |
	TypeFile | TypeMark | TypeFontID | TypeGState | TypeSave

// Numeric matches Integer or Real, the union most arithmetic operators accept.
const Numeric = TypeInteger | TypeReal

func (t Type) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeBoolean:
		return "boolean"
	case TypeInteger:
		return "integer"
	case TypeReal:
		return "real"
	case TypeName:
		return "name"
	case TypeString:
		return "string"
	case TypeArray:
		return "array"
	case TypePackedArray:
		return "packedarray"
	case TypeDictionary:
		return "dicttype"
	case TypeOperator:
		return "operatortype"
	case TypeFile:
		return "filetype"
	case TypeMark:
		return "marktype"
	case TypeFontID:
		return "fonttype"
	case TypeGState:
		return "gstatetype"
	case TypeSave:
		return "savetype"
	default:
		return "unknowntype"
	}
}

// Executability controls whether a Name is looked up and invoked or pushed.
type Executability uint8

const (
	Literal Executability = iota
	Executable
)

// Access controls mutation/inspection of composite objects.
type Access uint8

const (
	Unlimited Access = iota
	ReadOnly
	ExecuteOnly
	NoAccess
)

// Attrs bundles the two per-value attributes of spec §3.
type Attrs struct {
	Exec   Executability
	Access Access
}

// Operator is the payload of a TypeOperator value. Fn holds an
// operator.Func (package operator defines the Interp surface operators run
// against); it is typed interface{} here purely to avoid value<->operator
// import cycle, and is cast back by operator.Call.
type Operator struct {
	Name string
	Fn   interface{}
}

// Value is the tagged record of spec §3: {type, value, attrs}.
type Value struct {
	Type  Type
	Data  interface{} // bool, int64, float64, string(name), *PStr, *Array, *Dict, *Operator, *FontID, *GState, *Save
	Attrs Attrs
}

// Null is the canonical null value.
func Null() Value { return Value{Type: TypeNull} }

// Mark is the canonical mark sentinel.
func Mark() Value { return Value{Type: TypeMark} }

// Bool constructs a Boolean value.
func Bool(b bool) Value { return Value{Type: TypeBoolean, Data: b} }

// Int constructs an Integer value.
func Int(i int64) Value { return Value{Type: TypeInteger, Data: i} }

// Real constructs a Real value.
func Real(f float64) Value { return Value{Type: TypeReal, Data: f} }

// NameVal constructs a Name value with the given executability.
func NameVal(name string, exec Executability) Value {
	return Value{Type: TypeName, Data: name, Attrs: Attrs{Exec: exec}}
}

// Str constructs a literal String value wrapping s.
func Str(s *PStr) Value { return Value{Type: TypeString, Data: s} }

// Arr constructs an Array value with the given executability.
func Arr(a *Array, exec Executability) Value {
	return Value{Type: TypeArray, Data: a, Attrs: Attrs{Exec: exec}}
}

// Dictionary constructs a Dictionary value.
func Dictionary(d *Dict) Value { return Value{Type: TypeDictionary, Data: d} }

// Op constructs an Operator value (always Executable, ExecuteOnly per spec systemdict).
func Op(op *Operator) Value {
	return Value{Type: TypeOperator, Data: op, Attrs: Attrs{Exec: Executable, Access: ExecuteOnly}}
}

// IsExecutable reports whether fetching this value literally would invoke it.
func (v Value) IsExecutable() bool { return v.Attrs.Exec == Executable }

// AsBool reports the boolean payload, panicking if v is not a Boolean. Callers
// must type-check with Type before calling.
func (v Value) AsBool() bool { return v.Data.(bool) }

// AsInt returns the integer payload.
func (v Value) AsInt() int64 { return v.Data.(int64) }

// AsReal returns the real payload.
func (v Value) AsReal() float64 { return v.Data.(float64) }

// Num returns the numeric payload as a float64 regardless of Integer/Real.
func (v Value) Num() float64 {
	if v.Type == TypeInteger {
		return float64(v.Data.(int64))
	}
	return v.Data.(float64)
}

// IsInt reports whether v carries the Integer tag; a Real holding a whole
// number reports false (used by operators that must preserve Integer-ness).
func (v Value) IsInt() bool { return v.Type == TypeInteger }

// AsName returns the name payload.
func (v Value) AsName() string { return v.Data.(string) }

// AsString returns the *PStr payload.
func (v Value) AsString() *PStr { return v.Data.(*PStr) }

// AsArray returns the *Array payload.
func (v Value) AsArray() *Array { return v.Data.(*Array) }

// AsDict returns the *Dict payload.
func (v Value) AsDict() *Dict { return v.Data.(*Dict) }

// AsOperator returns the *Operator payload.
func (v Value) AsOperator() *Operator { return v.Data.(*Operator) }

// Eq implements the `eq` operator's comparison rule (spec §4.2): numeric
// values compare across Integer/Real, strings compare byte-lexicographically,
// composites compare by identity, everything else requires an exact type match.
func Eq(a, b Value) bool {
	switch {
	case a.Type&Numeric != 0 && b.Type&Numeric != 0:
		return a.Num() == b.Num()
	case a.Type == TypeString && b.Type == TypeString:
		return a.AsString().Equal(b.AsString())
	case a.Type == TypeName && b.Type == TypeName:
		return a.AsName() == b.AsName()
	case a.Type == TypeArray && b.Type == TypeArray:
		return a.AsArray() == b.AsArray()
	case a.Type == TypeDictionary && b.Type == TypeDictionary:
		return a.AsDict() == b.AsDict()
	case a.Type == TypeBoolean && b.Type == TypeBoolean:
		return a.AsBool() == b.AsBool()
	case a.Type == TypeNull && b.Type == TypeNull:
		return true
	case a.Type == TypeMark && b.Type == TypeMark:
		return true
	default:
		return false
	}
}

func (v Value) String() string {
	switch v.Type {
	case TypeNull:
		return "null"
	case TypeMark:
		return "-mark-"
	case TypeBoolean:
		return fmt.Sprintf("%t", v.AsBool())
	case TypeInteger:
		return fmt.Sprintf("%d", v.AsInt())
	case TypeReal:
		return fmt.Sprintf("%g", v.AsReal())
	case TypeName:
		if v.Attrs.Exec == Literal {
			return "/" + v.AsName()
		}
		return v.AsName()
	case TypeString:
		return string(v.AsString().Bytes())
	case TypeArray:
		return "-array-"
	case TypeDictionary:
		return "-dict-"
	case TypeOperator:
		return "//" + v.AsOperator().Name
	default:
		return "-value-"
	}
}
