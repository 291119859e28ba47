package vm

import (
	"math"

	"github.com/scriptrt/ccjs/internal/core"
)

func (vm *VM) execArith(ins core.Instruction) error {
	switch ins.Op {
	case core.OpNeg, core.OpPlus, core.OpNot, core.OpBitNot:
		return vm.execUnaryArith(ins)
	}

	b, err := vm.pop()
	if err != nil {
		return err
	}
	a, err := vm.pop()
	if err != nil {
		return err
	}

	switch ins.Op {
	case core.OpAdd:
		return vm.execAdd(a, b)
	case core.OpSub:
		vm.push(core.Number(core.ToNumber(a) - core.ToNumber(b)))
	case core.OpMul:
		vm.push(core.Number(core.ToNumber(a) * core.ToNumber(b)))
	case core.OpDiv:
		vm.push(core.Number(divide(core.ToNumber(a), core.ToNumber(b))))
	case core.OpMod:
		vm.push(core.Number(mod(core.ToNumber(a), core.ToNumber(b))))

	case core.OpEq:
		vm.push(core.Bool(core.StrictEquals(a, b)))
	case core.OpNe:
		vm.push(core.Bool(!core.StrictEquals(a, b)))
	case core.OpLt:
		vm.push(core.Bool(core.ToNumber(a) < core.ToNumber(b)))
	case core.OpLe:
		vm.push(core.Bool(core.ToNumber(a) <= core.ToNumber(b)))
	case core.OpGt:
		vm.push(core.Bool(core.ToNumber(a) > core.ToNumber(b)))
	case core.OpGe:
		vm.push(core.Bool(core.ToNumber(a) >= core.ToNumber(b)))

	case core.OpAnd:
		vm.push(core.Bool(core.ToBoolean(a) && core.ToBoolean(b)))
	case core.OpOr:
		vm.push(core.Bool(core.ToBoolean(a) || core.ToBoolean(b)))

	case core.OpBitAnd:
		vm.push(core.Number(float64(toInt32(a) & toInt32(b))))
	case core.OpBitOr:
		vm.push(core.Number(float64(toInt32(a) | toInt32(b))))
	case core.OpBitXor:
		vm.push(core.Number(float64(toInt32(a) ^ toInt32(b))))
	case core.OpShl:
		vm.push(core.Number(float64(toInt32(a) << (uint32(toInt32(b)) & 0x1F))))
	case core.OpShr:
		vm.push(core.Number(float64(toInt32(a) >> (uint32(toInt32(b)) & 0x1F))))

	default:
		return newRuntimeError(CodeRuntimeError, "execArith: unexpected opcode %s", ins.Op)
	}
	return nil
}

func (vm *VM) execUnaryArith(ins core.Instruction) error {
	a, err := vm.pop()
	if err != nil {
		return err
	}
	switch ins.Op {
	case core.OpNeg:
		vm.push(core.Number(-core.ToNumber(a)))
	case core.OpPlus:
		vm.push(core.Number(core.ToNumber(a)))
	case core.OpNot:
		vm.push(core.Bool(!core.ToBoolean(a)))
	case core.OpBitNot:
		vm.push(core.Number(float64(^toInt32(a))))
	}
	return nil
}

// execAdd implements the mandatory string-concat branch of ADD
// (spec.md §4.5): if either operand is a string, coerce the other with
// to_string and concatenate; otherwise numeric addition.
func (vm *VM) execAdd(a, b core.Value) error {
	if a.Tag() == core.TagString || b.Tag() == core.TagString {
		s, err := core.ToStringValue(vm.Heap, a)
		if err != nil {
			return err
		}
		t, err := core.ToStringValue(vm.Heap, b)
		if err != nil {
			return err
		}
		cat, err := core.Concat(vm.Heap, s, t)
		if err != nil {
			return err
		}
		vm.push(core.StringValue(cat))
		return nil
	}
	vm.push(core.Number(core.ToNumber(a) + core.ToNumber(b)))
	return nil
}

// divide implements DIV by zero -> +/-Infinity by sign of numerator,
// matching spec.md's deliberate IEEE-754 divergence for this opcode.
func divide(a, b float64) float64 {
	if b == 0 {
		if a == 0 || math.IsNaN(a) {
			return math.NaN()
		}
		if math.Signbit(a) {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}
	return a / b
}

// mod implements MOD by zero -> NaN (spec.md §4.5).
func mod(a, b float64) float64 {
	if b == 0 {
		return math.NaN()
	}
	return math.Mod(a, b)
}

// toInt32 implements the bitwise group's "cast to signed 32-bit
// integer" operand contract.
func toInt32(v core.Value) int32 {
	n := core.ToNumber(v)
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return int32(int64(n))
}
