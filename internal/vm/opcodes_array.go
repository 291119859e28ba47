package vm

import "github.com/scriptrt/ccjs/internal/core"

// execArray implements the NEW_ARRAY/ARRAY_* group. Per spec.md §4.5,
// read ops on a non-array receiver push undefined; write ops fault.
func (vm *VM) execArray(ins core.Instruction) error {
	switch ins.Op {
	case core.OpNewArray:
		a, err := core.NewHeapArray(vm.Heap)
		if err != nil {
			return err
		}
		vm.push(core.ArrayValue(a))
		return nil

	case core.OpArrayPush:
		v, err := vm.pop()
		if err != nil {
			return err
		}
		arr, err := vm.pop()
		if err != nil {
			return err
		}
		if arr.Tag() != core.TagArray {
			return newRuntimeError(CodeTypeError, "ARRAY_PUSH on non-array value")
		}
		arr.AsArray().Push(v)
		vm.push(arr)
		return nil

	case core.OpArrayPop:
		arr, err := vm.pop()
		if err != nil {
			return err
		}
		if arr.Tag() != core.TagArray {
			return newRuntimeError(CodeTypeError, "ARRAY_POP on non-array value")
		}
		vm.push(arr.AsArray().Pop())
		return nil

	case core.OpArrayGet:
		idx, err := vm.pop()
		if err != nil {
			return err
		}
		arr, err := vm.pop()
		if err != nil {
			return err
		}
		if arr.Tag() != core.TagArray {
			vm.push(core.Undefined)
			return nil
		}
		vm.push(arr.AsArray().Get(int(core.ToNumber(idx))))
		return nil

	case core.OpArraySet:
		v, err := vm.pop()
		if err != nil {
			return err
		}
		idx, err := vm.pop()
		if err != nil {
			return err
		}
		arr, err := vm.pop()
		if err != nil {
			return err
		}
		if arr.Tag() != core.TagArray {
			return newRuntimeError(CodeTypeError, "ARRAY_SET on non-array value")
		}
		arr.AsArray().Set(int(core.ToNumber(idx)), v)
		vm.push(v)
		return nil
	}
	return newRuntimeError(CodeRuntimeError, "execArray: unexpected opcode %s", ins.Op)
}
