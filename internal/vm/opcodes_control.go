package vm

import "github.com/scriptrt/ccjs/internal/core"

func (vm *VM) execJump(frame *Frame, ins core.Instruction) error {
	switch ins.Op {
	case core.OpJump:
		return vm.jumpTo(frame, ins.Operand)
	case core.OpJumpIfTrue:
		v, err := vm.pop()
		if err != nil {
			return err
		}
		if core.ToBoolean(v) {
			return vm.jumpTo(frame, ins.Operand)
		}
		return nil
	case core.OpJumpIfFalse:
		v, err := vm.pop()
		if err != nil {
			return err
		}
		if !core.ToBoolean(v) {
			return vm.jumpTo(frame, ins.Operand)
		}
		return nil
	}
	return newRuntimeError(CodeRuntimeError, "execJump: unexpected opcode %s", ins.Op)
}

// jumpTo validates the target per spec.md §8's "0 <= t < len(instructions)"
// property, with one intentional widening: t == len(instructions) is
// accepted too, since the compiler's own back-patching (spec.md §4.4)
// routinely targets "one past the last emitted instruction" for an
// if-without-else or a loop exit — that frame simply pops silently on
// its next fetch (spec.md §4.5), which is the correct, documented
// behavior rather than a fault.
func (vm *VM) jumpTo(frame *Frame, target int) error {
	if target < 0 || target > len(frame.Block.Instructions) {
		return errBadJumpTarget(target, len(frame.Block.Instructions))
	}
	frame.PC = target
	return nil
}

// popArgs pops n argument values (in call order) followed by the callee,
// as CALL/NEW expect the stack to hold [callee, arg0, ..., arg(n-1)].
func (vm *VM) popArgs(n int) (core.Value, []core.Value, error) {
	args := make([]core.Value, n)
	for i := n - 1; i >= 0; i-- {
		v, err := vm.pop()
		if err != nil {
			return core.Value{}, nil, err
		}
		args[i] = v
	}
	callee, err := vm.pop()
	if err != nil {
		return core.Value{}, nil, err
	}
	return callee, args, nil
}

func (vm *VM) execCall(ins core.Instruction) error {
	callee, args, err := vm.popArgs(ins.Operand)
	if err != nil {
		return err
	}
	if callee.Tag() != core.TagFunction {
		return newRuntimeError(CodeTypeError, "call target is not a function")
	}
	fn := callee.AsFunction()
	if fn.IsNative() {
		result, err := fn.Native(core.Undefined, args)
		if err != nil {
			return err
		}
		vm.push(result)
		return nil
	}
	return vm.pushBytecodeFrame(fn, core.Undefined, args)
}

// execReturn pops the frame's result, pops the frame itself, and pushes
// the result back onto the (now caller's) shared operand stack — or, if
// this was the outermost frame, leaves it for RunBlock/CallFunction to
// read (spec.md §4.5's RETURN semantics).
func (vm *VM) execReturn() error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	vm.frames = vm.frames[:len(vm.frames)-1]
	vm.push(v)
	return nil
}

// execNew implements the opt-in NEW semantics (DESIGN.md Open Question
// #3): construct a fresh object whose prototype is the callee's
// Prototype (if any), invoke the callee with that object, and use the
// callee's return value only if it is itself an object — otherwise the
// constructed object is the result.
func (vm *VM) execNew(ins core.Instruction) error {
	callee, args, err := vm.popArgs(ins.Operand)
	if err != nil {
		return err
	}
	if callee.Tag() != core.TagFunction {
		return newRuntimeError(CodeTypeError, "new target is not a function")
	}
	fn := callee.AsFunction()
	instance, err := core.NewHeapObject(vm.Heap)
	if err != nil {
		return err
	}
	if fn.Prototype != nil {
		instance.SetPrototype(fn.Prototype)
	}

	var result core.Value
	if fn.IsNative() {
		result, err = fn.Native(core.ObjectValue(instance), args)
		if err != nil {
			return err
		}
	} else {
		result, err = vm.runNestedCall(fn, core.ObjectValue(instance), args)
		if err != nil {
			return err
		}
	}
	if result.Tag() == core.TagObject {
		vm.push(result)
		return nil
	}
	vm.push(core.ObjectValue(instance))
	return nil
}

// execInstanceof walks the object's prototype chain looking for the
// constructor's Prototype object (DESIGN.md Open Question #3).
func (vm *VM) execInstanceof() error {
	ctor, err := vm.pop()
	if err != nil {
		return err
	}
	obj, err := vm.pop()
	if err != nil {
		return err
	}
	if ctor.Tag() != core.TagFunction || obj.Tag() != core.TagObject {
		vm.push(core.False)
		return nil
	}
	target := ctor.AsFunction().Prototype
	if target == nil {
		vm.push(core.False)
		return nil
	}
	for p := obj.AsObject().Prototype(); p != nil; p = p.Prototype() {
		if p == target {
			vm.push(core.True)
			return nil
		}
	}
	vm.push(core.False)
	return nil
}

// execThrow implements THROW against the runtime handler stack
// (DESIGN.md Open Question #1): pop the thrown value, unwind call
// frames down to the frame that registered the innermost live handler,
// and resume at its catch target with the value on top of the stack. If
// no handler is live, the VM enters StateError and halts.
func (vm *VM) execThrow() error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	if len(vm.handlers) == 0 {
		return newRuntimeError(CodeRuntimeError, "uncaught exception: %s", core.ToGoString(v))
	}
	h := vm.handlers[len(vm.handlers)-1]
	vm.handlers = vm.handlers[:len(vm.handlers)-1]
	vm.frames = vm.frames[:h.frameDepth+1]
	vm.stack = vm.stack[:h.stackBase]
	vm.push(v)
	vm.currentFrame().PC = h.CatchTarget
	return nil
}

func (vm *VM) execTryBegin(frame *Frame, ins core.Instruction) error {
	vm.handlers = append(vm.handlers, handlerEntry{
		CatchTarget: ins.Operand,
		frameDepth:  len(vm.frames) - 1,
		stackBase:   len(vm.stack),
	})
	return nil
}

func (vm *VM) execTryEnd() error {
	if len(vm.handlers) == 0 {
		return newRuntimeError(CodeRuntimeError, "TRY_END with no active handler")
	}
	vm.handlers = vm.handlers[:len(vm.handlers)-1]
	return nil
}
