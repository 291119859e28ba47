package core

// NativeFunc is a host-implemented callable exposed to engine code as an
// ordinary function Value (spec.md §6's callback registration).
type NativeFunc func(this Value, args []Value) (Value, error)

// HeapFunction is the payload for the function tag. Exactly one of
// Block or Native is set (spec.md §3's "native callback" vs "bytecode,
// parameter_names, closure_scope" variant). ClosureScope is an
// extension point: the original treats closures as a sketch, not
// mandatory semantics, so it is nil unless the compiler chooses to
// populate it for a function expression.
type HeapFunction struct {
	Header
	Name           string
	ParameterNames []string
	Block          *Block
	Native         NativeFunc
	ClosureScope   *HeapObject

	// Prototype backs the opt-in NEW/INSTANCEOF prototype walk (spec.md
	// §9 Open Question, see DESIGN.md): the object a NEW-constructed
	// instance's prototype slot is set to.
	Prototype *HeapObject
}

func NewBytecodeFunction(heap *Heap, name string, paramNames []string, block *Block, closureScope *HeapObject) (*HeapFunction, error) {
	f := &HeapFunction{Name: name, ParameterNames: paramNames, Block: block, ClosureScope: closureScope}
	if err := heap.Alloc(f, KindFunction, 0); err != nil {
		return nil, err
	}
	return f, nil
}

func NewNativeFunction(heap *Heap, name string, paramCount int, fn NativeFunc) (*HeapFunction, error) {
	names := make([]string, paramCount)
	f := &HeapFunction{Name: name, ParameterNames: names, Native: fn}
	if err := heap.Alloc(f, KindFunction, 0); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *HeapFunction) IsNative() bool { return f.Native != nil }

// Trace marks the function's closure scope (if any) and every
// heap-refed Value in its own constant pool — both are reachable only
// through this function Value once it escapes its defining scope.
func (f *HeapFunction) Trace(mark func(Obj)) {
	if f.ClosureScope != nil {
		mark(f.ClosureScope)
	}
	if f.Prototype != nil {
		mark(f.Prototype)
	}
	if f.Block != nil {
		for _, c := range f.Block.Constants {
			if ref := c.HeapRef(); ref != nil {
				mark(ref)
			}
		}
	}
}
