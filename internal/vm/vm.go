// Package vm implements the stack-based bytecode interpreter of
// spec.md §4.5: an operand stack, a call-frame stack, an
// exception-handler stack, and a single-threaded dispatch loop.
package vm

import (
	"github.com/scriptrt/ccjs/internal/core"
)

// State is the VM's lifecycle state (spec.md §4.5).
type State uint8

const (
	StateReady State = iota
	StateRunning
	StateError
)

// VM owns the three stacks and the dispatch loop. One VM is never
// entered concurrently (spec.md §5).
type VM struct {
	Heap   *core.Heap
	Global *core.HeapObject

	stack    []core.Value
	frames   []*Frame
	handlers []handlerEntry

	state        State
	lastErr      error
	dispatched   int64
}

// New constructs a VM with a fresh global object, ready to run.
func New(heap *core.Heap) (*VM, error) {
	global, err := core.NewHeapObject(heap)
	if err != nil {
		return nil, err
	}
	heap.AddRoot(global)
	vm := &VM{
		Heap:     heap,
		Global:   global,
		stack:    make([]core.Value, 0, InitialOperandStackCapacity),
		frames:   make([]*Frame, 0, InitialFrameStackCapacity),
		handlers: make([]handlerEntry, 0, InitialHandlerStackCapacity),
		state:    StateReady,
	}
	return vm, nil
}

func (vm *VM) State() State { return vm.state }

// LastError returns the fault that last moved the VM into StateError,
// or nil. It is the embedding API's "last error message" slot
// (spec.md §6); ClearError resets it.
func (vm *VM) LastError() error { return vm.lastErr }

func (vm *VM) ClearError() {
	vm.lastErr = nil
	if vm.state == StateError {
		vm.state = StateReady
	}
}

// DispatchCount is a VM-wide instruction counter, exposed for
// telemetry (internal/telemetry) rather than specified directly.
func (vm *VM) DispatchCount() int64 { return vm.dispatched }

func (vm *VM) push(v core.Value) {
	vm.stack = append(vm.stack, v)
}

func (vm *VM) pop() (core.Value, error) {
	if len(vm.stack) == 0 {
		return core.Value{}, errStackUnderflow()
	}
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return v, nil
}

func (vm *VM) peek() (core.Value, error) {
	if len(vm.stack) == 0 {
		return core.Value{}, errStackUnderflow()
	}
	return vm.stack[len(vm.stack)-1], nil
}

func (vm *VM) currentFrame() *Frame {
	return vm.frames[len(vm.frames)-1]
}

// RunBlock runs block as the outermost frame (e.g. the top-level
// program produced by internal/compiler) and returns its result: the
// topmost stack value on normal exit, or Undefined if the stack is
// empty (spec.md §4.5 Termination).
func (vm *VM) RunBlock(block *core.Block, this core.Value) (core.Value, error) {
	vm.frames = append(vm.frames, &Frame{Block: block, This: this, StackBase: len(vm.stack)})
	vm.state = StateRunning
	if err := vm.dispatchLoop(); err != nil {
		vm.state = StateError
		vm.lastErr = err
		return core.Undefined, err
	}
	vm.state = StateReady
	if len(vm.stack) == 0 {
		return core.Undefined, nil
	}
	return vm.stack[len(vm.stack)-1], nil
}

// CallFunction is the embedding API's host-initiated call entry point
// (spec.md §6): it invokes fn directly, without any enclosing bytecode.
// It is safe to call re-entrantly (a native callback calling back into
// bytecode), since it only ever runs frames down to the depth it itself
// pushed.
func (vm *VM) CallFunction(fn *core.HeapFunction, this core.Value, args []core.Value) (core.Value, error) {
	topLevel := vm.state != StateRunning
	if topLevel {
		vm.state = StateRunning
	}
	result, err := vm.runNestedCall(fn, this, args)
	if err != nil {
		vm.state = StateError
		vm.lastErr = err
		return core.Undefined, err
	}
	if topLevel {
		vm.state = StateReady
	}
	return result, nil
}

// runNestedCall invokes fn and runs the dispatch loop only down to the
// frame depth it itself introduced, so it can be called safely whether
// the VM is idle (host-initiated call) or already mid-dispatch (NEW, or
// a native callback calling back into bytecode).
func (vm *VM) runNestedCall(fn *core.HeapFunction, this core.Value, args []core.Value) (core.Value, error) {
	if fn.IsNative() {
		return fn.Native(this, args)
	}
	base := len(vm.stack)
	depth := len(vm.frames)
	if err := vm.pushBytecodeFrame(fn, this, args); err != nil {
		return core.Undefined, err
	}

	for len(vm.frames) > depth {
		frame := vm.currentFrame()
		if frame.PC >= len(frame.Block.Instructions) {
			vm.popFrameSilently()
			continue
		}
		ins := frame.Block.Instructions[frame.PC]
		frame.PC++
		vm.dispatched++
		if err := vm.exec(frame, ins); err != nil {
			return core.Undefined, err
		}
	}

	if len(vm.stack) <= base {
		return core.Undefined, nil
	}
	result := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:base]
	return result, nil
}

// pushBytecodeFrame binds fn's declared parameters into a scope object
// private to this one invocation (see internal/core/function.go and
// DESIGN.md: each call gets its own local-binding table rather than
// writing parameters onto the shared global object, so two active
// calls to the same — or a recursive — function never clobber each
// other's locals) and pushes a new call frame at PC 0.
func (vm *VM) pushBytecodeFrame(fn *core.HeapFunction, this core.Value, args []core.Value) error {
	scope, err := core.NewHeapObject(vm.Heap)
	if err != nil {
		return err
	}
	for i, name := range fn.ParameterNames {
		var v core.Value
		if i < len(args) {
			v = args[i]
		} else {
			v = core.Undefined
		}
		scope.Set(name, v)
	}
	vm.frames = append(vm.frames, &Frame{
		Function:  fn,
		Block:     fn.Block,
		This:      this,
		StackBase: len(vm.stack),
		Scope:     scope,
	})
	return nil
}

// dispatchLoop is the single-threaded fetch/advance/execute loop
// (spec.md §4.5 Dispatch). It exits when the frame stack empties or the
// VM leaves StateRunning.
func (vm *VM) dispatchLoop() error {
	for len(vm.frames) > 0 && vm.state == StateRunning {
		frame := vm.currentFrame()
		if frame.PC >= len(frame.Block.Instructions) {
			// A frame whose pc runs off the end is popped silently.
			vm.popFrameSilently()
			continue
		}
		ins := frame.Block.Instructions[frame.PC]
		frame.PC++
		vm.dispatched++

		if err := vm.exec(frame, ins); err != nil {
			return err
		}
	}
	return nil
}

// popFrameSilently discards the current frame without producing a
// result value, per spec.md's "a frame with pc >= instruction_count is
// popped silently".
func (vm *VM) popFrameSilently() {
	vm.frames = vm.frames[:len(vm.frames)-1]
}

func (vm *VM) exec(frame *Frame, ins core.Instruction) error {
	switch ins.Op {
	case core.OpNop:
		return nil

	case core.OpPop, core.OpDup, core.OpSwap,
		core.OpPushUndefined, core.OpPushNull, core.OpPushTrue, core.OpPushFalse,
		core.OpLoadConst, core.OpLoadVar, core.OpStoreVar:
		return vm.execStack(frame, ins)

	case core.OpAdd, core.OpSub, core.OpMul, core.OpDiv, core.OpMod, core.OpNeg, core.OpPlus,
		core.OpEq, core.OpNe, core.OpLt, core.OpLe, core.OpGt, core.OpGe,
		core.OpAnd, core.OpOr, core.OpNot,
		core.OpBitAnd, core.OpBitOr, core.OpBitXor, core.OpBitNot, core.OpShl, core.OpShr:
		return vm.execArith(ins)

	case core.OpNewObject, core.OpGetProp, core.OpSetProp,
		core.OpGetPropComputed, core.OpSetPropComputed, core.OpTypeof:
		return vm.execObject(frame, ins)

	case core.OpNewArray, core.OpArrayPush, core.OpArrayPop, core.OpArrayGet, core.OpArraySet:
		return vm.execArray(ins)

	case core.OpJump, core.OpJumpIfTrue, core.OpJumpIfFalse:
		return vm.execJump(frame, ins)

	case core.OpCall:
		return vm.execCall(ins)
	case core.OpReturn:
		return vm.execReturn()
	case core.OpHalt:
		vm.state = StateReady
		return nil

	case core.OpNew:
		return vm.execNew(ins)
	case core.OpInstanceof:
		return vm.execInstanceof()

	case core.OpThrow:
		return vm.execThrow()
	case core.OpTryBegin:
		return vm.execTryBegin(frame, ins)
	case core.OpTryEnd:
		return vm.execTryEnd()
	case core.OpCatchBegin, core.OpFinallyBegin, core.OpFinallyEnd:
		return nil // markers only; semantics live in TRY_BEGIN/TRY_END/THROW

	default:
		return newRuntimeError(CodeRuntimeError, "unimplemented opcode %s", ins.Op)
	}
}
