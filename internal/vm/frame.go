package vm

import "github.com/scriptrt/ccjs/internal/core"

// Frame is one active invocation record: bytecode reference, program
// counter, the operand-stack depth it was entered at, and its `this`
// value (spec.md §4.5).
type Frame struct {
	Function   *core.HeapFunction
	Block      *core.Block
	PC         int
	StackBase  int
	This       core.Value
	// Scope holds this invocation's own parameter/local bindings,
	// allocated fresh per call so that two active calls to the same (or
	// a recursive) function never clobber each other's locals. nil for
	// the outermost program frame, which binds directly on the VM's
	// global object instead.
	Scope *core.HeapObject
}

// handlerEntry is one live TRY_BEGIN registration (spec.md §5's
// exception-handler stack). frameDepth is the index of the frame that
// pushed the handler (the call-frame stack length minus one at that
// moment), so THROW knows how many frames to unwind to resume at
// CatchTarget.
type handlerEntry struct {
	CatchTarget int
	frameDepth  int
	stackBase   int
}

const (
	InitialOperandStackCapacity = 1024
	InitialFrameStackCapacity   = 256
	InitialHandlerStackCapacity = 64
)
