// Package core implements the heap/GC, tagged-value object model, and
// bytecode constant pools of the ccjs engine (spec components A, B, C).
// They are kept in one package because the object model's heap references
// are traced by the collector and the bytecode constant pool holds tagged
// Values that may themselves reference bytecode (closures) — splitting
// them would either create an import cycle or hide the coupling behind
// opaque interfaces.
package core

// Kind distinguishes the payload layout following a Header.
type Kind uint8

const (
	KindString Kind = iota
	KindObject
	KindArray
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindFunction:
		return "function"
	default:
		return "unknown"
	}
}

// Color is the tri-colour mark used during a collection cycle.
type Color uint8

const (
	White Color = iota
	Grey
	Black
)

// Generation identifies which heap region a header currently lives in.
type Generation uint8

const (
	Young Generation = iota
	Old
)

// PromotionThreshold is the number of young collections an object must
// survive before it is promoted to the old generation.
const PromotionThreshold = 2

// Header is the fixed bookkeeping block every heap allocation carries.
// Real engines prefix the payload bytes with this; here the payload is a
// Go struct that embeds Header as its first field, which gives every
// concrete payload type (HeapString, HeapObject, ...) a promoted Head
// method for free.
type Header struct {
	Kind  Kind
	Size  int
	Color Color
	Age   int
	Gen   Generation

	next  *Header // intrusive singly-linked free/alloc list, see heap.go
	owner Obj     // the payload this header belongs to, set once by Heap.Alloc
}

// Head returns the header itself. Embedding Header in a payload struct
// promotes this method, so every payload type automatically satisfies Obj.
func (h *Header) Head() *Header { return h }

// Obj is implemented by every heap-managed payload type.
type Obj interface {
	Head() *Header
	// Trace enqueues every heap-referenced child as grey via mark.
	Trace(mark func(Obj))
}
