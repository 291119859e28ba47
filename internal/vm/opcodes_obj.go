package vm

import "github.com/scriptrt/ccjs/internal/core"

func (vm *VM) execObject(frame *Frame, ins core.Instruction) error {
	switch ins.Op {
	case core.OpNewObject:
		o, err := core.NewHeapObject(vm.Heap)
		if err != nil {
			return err
		}
		vm.push(core.ObjectValue(o))
		return nil

	case core.OpGetProp:
		name, err := vm.stringOperand(frame, ins)
		if err != nil {
			return err
		}
		obj, err := vm.pop()
		if err != nil {
			return err
		}
		vm.push(getProp(obj, name))
		return nil

	case core.OpSetProp:
		name, err := vm.stringOperand(frame, ins)
		if err != nil {
			return err
		}
		v, err := vm.pop()
		if err != nil {
			return err
		}
		obj, err := vm.pop()
		if err != nil {
			return err
		}
		setProp(obj, name, v)
		vm.push(v)
		return nil

	case core.OpGetPropComputed:
		key, err := vm.pop()
		if err != nil {
			return err
		}
		obj, err := vm.pop()
		if err != nil {
			return err
		}
		vm.push(getProp(obj, core.ToGoString(key)))
		return nil

	case core.OpSetPropComputed:
		v, err := vm.pop()
		if err != nil {
			return err
		}
		key, err := vm.pop()
		if err != nil {
			return err
		}
		obj, err := vm.pop()
		if err != nil {
			return err
		}
		setProp(obj, core.ToGoString(key), v)
		vm.push(v)
		return nil

	case core.OpTypeof:
		v, err := vm.pop()
		if err != nil {
			return err
		}
		result, err := vm.typeofValue(v)
		if err != nil {
			return err
		}
		vm.push(result)
		return nil
	}
	return newRuntimeError(CodeRuntimeError, "execObject: unexpected opcode %s", ins.Op)
}

// getProp reads obj[name]; non-objects read as undefined rather than
// faulting (spec.md §4.5's "implementation choice; spec requires no abort").
func getProp(obj core.Value, name string) core.Value {
	switch obj.Tag() {
	case core.TagObject:
		return obj.AsObject().Get(name)
	case core.TagArray:
		if name == "length" {
			return core.Number(float64(obj.AsArray().Len()))
		}
		return core.Undefined
	case core.TagFunction:
		if name == "name" {
			return core.Undefined // function name is not itself heap-backed here
		}
		return core.Undefined
	default:
		return core.Undefined
	}
}

// setProp writes obj[name]; writes to non-objects are a documented
// no-op (spec.md §4.5).
func setProp(obj core.Value, name string, v core.Value) {
	if obj.Tag() == core.TagObject {
		obj.AsObject().Set(name, v)
	}
	if obj.Tag() == core.TagArray && name == "length" {
		n := int(core.ToNumber(v))
		obj.AsArray().SetLength(n)
	}
}

// typeofValue returns one of the eight JavaScript type strings,
// including the historical "typeof null === 'object'" wart spec.md §4.5
// explicitly calls out.
func (vm *VM) typeofValue(v core.Value) (core.Value, error) {
	var s string
	switch v.Tag() {
	case core.TagUndefined:
		s = "undefined"
	case core.TagNull:
		s = "object"
	case core.TagBoolean:
		s = "boolean"
	case core.TagNumber:
		s = "number"
	case core.TagString:
		s = "string"
	case core.TagBigInt:
		s = "bigint"
	case core.TagSymbol:
		s = "symbol"
	case core.TagFunction:
		s = "function"
	default:
		s = "object"
	}
	hs, err := core.NewHeapString(vm.Heap, s)
	if err != nil {
		return core.Value{}, err
	}
	return core.StringValue(hs), nil
}
