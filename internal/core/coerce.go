package core

import (
	"math"
	"strconv"
	"strings"
)

// ToBoolean implements spec.md §4.2's truthiness table: undefined, null,
// false, 0, NaN and "" are falsy; every heap-backed value is truthy.
func ToBoolean(v Value) bool {
	switch v.tag {
	case TagUndefined, TagNull:
		return false
	case TagBoolean:
		return v.b
	case TagNumber:
		return v.num != 0 && !math.IsNaN(v.num)
	case TagString:
		return v.AsString().Len() > 0
	case TagBigInt:
		return v.big.v.Sign() != 0
	default:
		return true
	}
}

// ToNumber implements spec.md §4.2's numeric coercion table.
func ToNumber(v Value) float64 {
	switch v.tag {
	case TagUndefined:
		return math.NaN()
	case TagNull:
		return 0
	case TagBoolean:
		if v.b {
			return 1
		}
		return 0
	case TagNumber:
		return v.num
	case TagString:
		s := strings.TrimSpace(v.AsString().data)
		if s == "" {
			return 0
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return n
	default:
		return math.NaN()
	}
}

// ToStringValue implements spec.md §4.2's string coercion, returning a
// fresh (uninterned) HeapString.
func ToStringValue(heap *Heap, v Value) (*HeapString, error) {
	return NewHeapString(heap, ToGoString(v))
}

// ToGoString is ToStringValue without the heap allocation, for contexts
// (error messages, debug logging) that only need the Go string.
func ToGoString(v Value) string {
	switch v.tag {
	case TagUndefined:
		return "undefined"
	case TagNull:
		return "null"
	case TagBoolean:
		if v.b {
			return "true"
		}
		return "false"
	case TagNumber:
		return formatNumber(v.num)
	case TagString:
		return v.AsString().data
	case TagBigInt:
		return v.big.String()
	case TagSymbol:
		return "Symbol(" + v.sym.Description + ")"
	case TagObject:
		return "[object Object]"
	case TagArray:
		return "[object Array]"
	case TagFunction:
		return "[object Function]"
	default:
		return ""
	}
}

func formatNumber(n float64) string {
	if math.IsNaN(n) {
		return "NaN"
	}
	if math.IsInf(n, 1) {
		return "Infinity"
	}
	if math.IsInf(n, -1) {
		return "-Infinity"
	}
	if n == math.Trunc(n) && math.Abs(n) < 1e21 {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}
