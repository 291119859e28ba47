package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scriptrt/ccjs/internal/core"
)

func num(n float64) *Literal { return &Literal{Kind: LitNumber, Num: n} }

func TestCompileArithmeticExpressionStatement(t *testing.T) {
	heap := core.NewHeap(core.Config{})
	c := New(heap)

	// 2 + 3 * 4;
	expr := &Binary{
		Op:   BinAdd,
		Left: num(2),
		Right: &Binary{Op: BinMul, Left: num(3), Right: num(4)},
	}
	block, err := c.CompileProgram(&Program{Body: []Node{&ExprStmt{Expr: expr}}})
	require.NoError(t, err)

	ops := opcodes(block)
	require.Equal(t, []core.Opcode{
		core.OpLoadConst, core.OpLoadConst, core.OpLoadConst, core.OpMul, core.OpAdd, core.OpPop,
	}, ops)
	require.Len(t, block.Constants, 3)
}

func TestCompileVarDeclAndIdentifierLoad(t *testing.T) {
	heap := core.NewHeap(core.Config{})
	c := New(heap)

	prog := &Program{Body: []Node{
		&VarDecl{Kind: DeclVar, Declarators: []Declarator{{Name: "x", Init: num(5)}}},
		&ExprStmt{Expr: &Identifier{Name: "x"}},
	}}
	block, err := c.CompileProgram(prog)
	require.NoError(t, err)

	ops := opcodes(block)
	require.Equal(t, []core.Opcode{
		core.OpLoadConst, core.OpStoreVar, core.OpLoadVar, core.OpPop,
	}, ops)
	require.Equal(t, []string{"x"}, block.Strings)
}

func TestCompileIfElsePatchesBothJumps(t *testing.T) {
	heap := core.NewHeap(core.Config{})
	c := New(heap)

	prog := &Program{Body: []Node{
		&If{
			Test: &Literal{Kind: LitBool, Bool: true},
			Then: &ExprStmt{Expr: num(1)},
			Else: &ExprStmt{Expr: num(2)},
		},
	}}
	block, err := c.CompileProgram(prog)
	require.NoError(t, err)

	// JUMP_IF_FALSE must land exactly on the first instruction of the else
	// branch, and the then-branch's JUMP must land past the else branch.
	var jumpIfFalseIdx, jumpIdx int
	for i, ins := range block.Instructions {
		if ins.Op == core.OpJumpIfFalse {
			jumpIfFalseIdx = i
		}
		if ins.Op == core.OpJump {
			jumpIdx = i
		}
	}
	require.Equal(t, jumpIdx+1, block.Instructions[jumpIfFalseIdx].Operand)
	require.Equal(t, len(block.Instructions), block.Instructions[jumpIdx].Operand)
}

func TestCompileWhileWithBreakAndContinue(t *testing.T) {
	heap := core.NewHeap(core.Config{})
	c := New(heap)

	prog := &Program{Body: []Node{
		&While{
			Test: &Literal{Kind: LitBool, Bool: true},
			Body: &Block{Body: []Node{&Break{}, &Continue{}}},
		},
	}}
	block, err := c.CompileProgram(prog)
	require.NoError(t, err)

	jumps := 0
	for _, ins := range block.Instructions {
		if ins.Op == core.OpJump {
			jumps++
			require.GreaterOrEqual(t, ins.Operand, 0)
			require.LessOrEqual(t, ins.Operand, len(block.Instructions))
		}
	}
	// break jump, continue jump, loop-back jump
	require.Equal(t, 3, jumps)
}

func TestBreakOutsideLoopIsCompileError(t *testing.T) {
	heap := core.NewHeap(core.Config{})
	c := New(heap)
	_, err := c.CompileProgram(&Program{Body: []Node{&Break{}}})
	require.Error(t, err)
}

func TestCompileLiteralAssignmentTargetReturnsCompileError(t *testing.T) {
	heap := core.NewHeap(core.Config{})
	c := New(heap)

	_, err := c.CompileProgram(&Program{Body: []Node{
		&ExprStmt{Expr: &Assignment{Target: num(1), Value: num(2)}},
	}})
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
}

func TestCompileObjectLiteralLeavesObjectOnStack(t *testing.T) {
	heap := core.NewHeap(core.Config{})
	c := New(heap)

	prog := &Program{Body: []Node{&ExprStmt{Expr: &ObjectLiteral{
		Properties: []ObjectProperty{{Key: "a", Value: num(1)}},
	}}}}
	block, err := c.CompileProgram(prog)
	require.NoError(t, err)

	ops := opcodes(block)
	require.Equal(t, []core.Opcode{
		core.OpNewObject, core.OpDup, core.OpLoadConst, core.OpSetProp, core.OpPop, core.OpPop,
	}, ops)
}

func opcodes(b *core.Block) []core.Opcode {
	out := make([]core.Opcode, len(b.Instructions))
	for i, ins := range b.Instructions {
		out[i] = ins.Op
	}
	return out
}
