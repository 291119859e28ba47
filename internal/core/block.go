package core

// Block is one compiled function body: its instructions and the
// constant/string pools they index into. Exception ranges are not part
// of a Block — TRY_BEGIN pushes and TRY_END/THROW pop entries on the
// VM's own runtime handler stack, while CATCH_BEGIN/FINALLY_BEGIN/
// FINALLY_END are no-op markers (spec.md §4.5), since the
// compiler's input grammar (spec.md §4.4) has no try/catch node to lower.
type Block struct {
	Name           string
	ParameterCount int
	LocalCount     int
	Instructions   []Instruction
	Constants      []Value
	Strings        []string
	Flags          BlockFlags

	stringIndex map[string]int
}

// BlockFlags marks properties of a compiled function body the VM needs
// to know about before it builds a call frame.
type BlockFlags uint8

const (
	FlagNone BlockFlags = 0
	FlagIsArrow BlockFlags = 1 << iota
	FlagIsGenerator
)

func NewBlock(name string, paramCount int) *Block {
	return &Block{
		Name:           name,
		ParameterCount: paramCount,
		stringIndex:    make(map[string]int),
	}
}

// AddConstant appends v to the constant pool and returns its index. No
// dedup: constants may be heap-backed and sensitive to identity.
func (b *Block) AddConstant(v Value) int {
	b.Constants = append(b.Constants, v)
	return len(b.Constants) - 1
}

// AddString interns s into the block's own string pool (distinct from
// the runtime InternTable — this is compile-time identifier/literal
// dedup within one Block), returning its index.
func (b *Block) AddString(s string) int {
	if i, ok := b.stringIndex[s]; ok {
		return i
	}
	i := len(b.Strings)
	b.Strings = append(b.Strings, s)
	b.stringIndex[s] = i
	return i
}

// Emit appends an instruction and returns its index, for later patching.
func (b *Block) Emit(op Opcode, operand int, line int) int {
	b.Instructions = append(b.Instructions, Instruction{Op: op, Operand: operand, Line: line})
	return len(b.Instructions) - 1
}

// EmitPlaceholder emits a jump with an as-yet-unknown target, returning
// its index for PatchJump to fill in once the target is known.
func (b *Block) EmitPlaceholder(op Opcode, line int) int {
	return b.Emit(op, -1, line)
}

// PatchJump sets the operand of the instruction at idx to the current
// end of the instruction stream (the fall-through target), the standard
// back-patch used for forward jumps (if/while/for/short-circuit).
func (b *Block) PatchJump(idx int) {
	b.Instructions[idx].Operand = len(b.Instructions)
}

// PatchJumpTo sets the operand of the instruction at idx to an explicit
// target, for backward jumps (loop headers) whose target is already known.
func (b *Block) PatchJumpTo(idx, target int) {
	b.Instructions[idx].Operand = target
}
