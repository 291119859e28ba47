package core

import "fmt"

// Tag identifies the dynamic type carried by a Value (spec.md §4.2).
type Tag uint8

const (
	TagUndefined Tag = iota
	TagNull
	TagBoolean
	TagNumber
	TagString
	TagObject
	TagArray
	TagFunction
	TagBigInt
	TagSymbol
)

func (t Tag) String() string {
	switch t {
	case TagUndefined:
		return "undefined"
	case TagNull:
		return "null"
	case TagBoolean:
		return "boolean"
	case TagNumber:
		return "number"
	case TagString:
		return "string"
	case TagObject:
		return "object"
	case TagArray:
		return "array"
	case TagFunction:
		return "function"
	case TagBigInt:
		return "bigint"
	case TagSymbol:
		return "symbol"
	default:
		return "unknown"
	}
}

// Symbol is a unique, non-forgeable token — spec.md's symbol tag only
// needs identity, so pointer identity decides equality; Description is
// an informational label only.
type Symbol struct {
	Description string
}

// Value is the tagged union every engine-visible datum is carried in.
// Heap-backed tags (string/object/array/function) hold their payload in
// ref; the remaining tags are stored inline to avoid an allocation.
type Value struct {
	tag  Tag
	num  float64
	b    bool
	ref  Obj
	big  *bigInt
	sym  *Symbol
}

// Undefined, Null and the two Booleans are the engine's singleton
// primitive values; spec.md treats them as interned per-runtime already.
var (
	Undefined = Value{tag: TagUndefined}
	Null      = Value{tag: TagNull}
	True      = Value{tag: TagBoolean, b: true}
	False     = Value{tag: TagBoolean, b: false}
)

func Bool(b bool) Value {
	if b {
		return True
	}
	return False
}

func Number(n float64) Value { return Value{tag: TagNumber, num: n} }

func BigIntValue(b *bigInt) Value { return Value{tag: TagBigInt, big: b} }

func SymbolValue(s *Symbol) Value { return Value{tag: TagSymbol, sym: s} }

// StringValue, ObjectValue, ArrayValue and FunctionValue wrap a heap
// payload produced by the corresponding New* constructor in this package.
func StringValue(s *HeapString) Value   { return Value{tag: TagString, ref: s} }
func ObjectValue(o *HeapObject) Value   { return Value{tag: TagObject, ref: o} }
func ArrayValue(a *HeapArray) Value     { return Value{tag: TagArray, ref: a} }
func FunctionValue(f *HeapFunction) Value { return Value{tag: TagFunction, ref: f} }

func (v Value) Tag() Tag { return v.tag }

func (v Value) IsUndefined() bool { return v.tag == TagUndefined }
func (v Value) IsNull() bool      { return v.tag == TagNull }
func (v Value) IsNullish() bool   { return v.tag == TagUndefined || v.tag == TagNull }

// HeapRef extracts the heap payload for any heap-backed tag, or nil for
// tags carried inline. The GC's root/field tracing uses this to decide
// whether a Value needs to be enqueued.
func (v Value) HeapRef() Obj {
	switch v.tag {
	case TagString, TagObject, TagArray, TagFunction:
		return v.ref
	default:
		return nil
	}
}

func (v Value) AsBool() bool { return v.b }

func (v Value) AsNumber() float64 { return v.num }

func (v Value) AsBigInt() *bigInt { return v.big }

func (v Value) AsSymbol() *Symbol { return v.sym }

func (v Value) AsString() *HeapString { s, _ := v.ref.(*HeapString); return s }

func (v Value) AsObject() *HeapObject { o, _ := v.ref.(*HeapObject); return o }

func (v Value) AsArray() *HeapArray { a, _ := v.ref.(*HeapArray); return a }

func (v Value) AsFunction() *HeapFunction { f, _ := v.ref.(*HeapFunction); return f }

// GoString renders a Value for debug/log output; it is not the engine's
// ToString coercion (see coerce.go for that).
func (v Value) GoString() string {
	switch v.tag {
	case TagUndefined:
		return "undefined"
	case TagNull:
		return "null"
	case TagBoolean:
		return fmt.Sprintf("%t", v.b)
	case TagNumber:
		return fmt.Sprintf("%v", v.num)
	case TagString:
		return fmt.Sprintf("%q", v.AsString().data)
	case TagBigInt:
		return v.big.String() + "n"
	case TagSymbol:
		return "Symbol(" + v.sym.Description + ")"
	default:
		return fmt.Sprintf("[%s]", v.tag)
	}
}
