package vm

import "github.com/scriptrt/ccjs/internal/core"

func (vm *VM) execStack(frame *Frame, ins core.Instruction) error {
	switch ins.Op {
	case core.OpPop:
		_, err := vm.pop()
		return err

	case core.OpDup:
		v, err := vm.peek()
		if err != nil {
			return err
		}
		vm.push(v)
		return nil

	case core.OpSwap:
		b, err := vm.pop()
		if err != nil {
			return err
		}
		a, err := vm.pop()
		if err != nil {
			return err
		}
		vm.push(b)
		vm.push(a)
		return nil

	case core.OpPushUndefined:
		vm.push(core.Undefined)
		return nil
	case core.OpPushNull:
		vm.push(core.Null)
		return nil
	case core.OpPushTrue:
		vm.push(core.True)
		return nil
	case core.OpPushFalse:
		vm.push(core.False)
		return nil

	case core.OpLoadConst:
		if ins.Operand < 0 || ins.Operand >= len(frame.Block.Constants) {
			return errPoolIndex("constant", ins.Operand, len(frame.Block.Constants))
		}
		vm.push(frame.Block.Constants[ins.Operand])
		return nil

	case core.OpLoadVar:
		name, err := vm.stringOperand(frame, ins)
		if err != nil {
			return err
		}
		vm.push(vm.lookupVar(frame, name))
		return nil

	case core.OpStoreVar:
		name, err := vm.stringOperand(frame, ins)
		if err != nil {
			return err
		}
		v, err := vm.pop()
		if err != nil {
			return err
		}
		vm.storeVar(frame, name, v)
		return nil
	}
	return newRuntimeError(CodeRuntimeError, "execStack: unexpected opcode %s", ins.Op)
}

func (vm *VM) stringOperand(frame *Frame, ins core.Instruction) (string, error) {
	if ins.Operand < 0 || ins.Operand >= len(frame.Block.Strings) {
		return "", errPoolIndex("string", ins.Operand, len(frame.Block.Strings))
	}
	return frame.Block.Strings[ins.Operand], nil
}

// lookupVar implements LOAD_VAR. Resolution order is this call's own
// scope (parameters and locals, private to this invocation), then the
// function's closure scope (if any — an extension point, see
// internal/core.HeapFunction), then the global object — the engine's
// outermost variable-binding surface.
func (vm *VM) lookupVar(frame *Frame, name string) core.Value {
	if frame.Scope != nil && frame.Scope.Has(name) {
		return frame.Scope.Get(name)
	}
	if frame.Function != nil && frame.Function.ClosureScope != nil {
		if frame.Function.ClosureScope.Has(name) {
			return frame.Function.ClosureScope.Get(name)
		}
	}
	return vm.Global.Get(name)
}

// storeVar implements STORE_VAR. Inside a bytecode function call, every
// store — parameter reassignment as well as `var`/`let`/`const`
// declarations compiled within the body — lands in this call's own
// scope, so it never leaks into (or is clobbered by) another active
// call. Only the outermost program frame, which has no scope of its
// own, writes directly onto the global object.
func (vm *VM) storeVar(frame *Frame, name string, v core.Value) {
	if frame.Scope != nil {
		frame.Scope.Set(name, v)
		return
	}
	vm.Global.Set(name, v)
}
