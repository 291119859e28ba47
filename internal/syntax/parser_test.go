package syntax

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scriptrt/ccjs/internal/compiler"
)

func TestParseVarDeclWithInitializer(t *testing.T) {
	prog, err := Parse("var x = 1 + 2;", "test.js")
	require.NoError(t, err)
	require.Len(t, prog.Body, 1)

	decl, ok := prog.Body[0].(*compiler.VarDecl)
	require.True(t, ok)
	require.Equal(t, compiler.DeclVar, decl.Kind)
	require.Len(t, decl.Declarators, 1)
	require.Equal(t, "x", decl.Declarators[0].Name)

	bin, ok := decl.Declarators[0].Init.(*compiler.Binary)
	require.True(t, ok)
	require.Equal(t, compiler.BinAdd, bin.Op)
}

func TestParseFunctionDeclAndReturn(t *testing.T) {
	prog, err := Parse("function double(x) { return x + x; }", "test.js")
	require.NoError(t, err)
	require.Len(t, prog.Body, 1)

	fn, ok := prog.Body[0].(*compiler.FuncDecl)
	require.True(t, ok)
	require.Equal(t, "double", fn.Name)
	require.Equal(t, []string{"x"}, fn.Params)
	require.Len(t, fn.Body.Body, 1)

	ret, ok := fn.Body.Body[0].(*compiler.Return)
	require.True(t, ok)
	_, ok = ret.Argument.(*compiler.Binary)
	require.True(t, ok)
}

func TestParseIfElseWhileBreakContinue(t *testing.T) {
	src := `
		let i = 0;
		while (i < 10) {
			if (i == 5) {
				break;
			} else {
				continue;
			}
		}
	`
	prog, err := Parse(src, "test.js")
	require.NoError(t, err)
	require.Len(t, prog.Body, 2)

	loop, ok := prog.Body[1].(*compiler.While)
	require.True(t, ok)
	block, ok := loop.Body.(*compiler.Block)
	require.True(t, ok)
	require.Len(t, block.Body, 1)

	ifStmt, ok := block.Body[0].(*compiler.If)
	require.True(t, ok)
	require.NotNil(t, ifStmt.Else)
}

func TestParseOperatorPrecedence(t *testing.T) {
	// 1 + 2 * 3 should bind as 1 + (2 * 3), i.e. the top-level Binary's
	// Op is "+" and its Right side is itself a Binary "*".
	prog, err := Parse("1 + 2 * 3;", "test.js")
	require.NoError(t, err)
	stmt, ok := prog.Body[0].(*compiler.ExprStmt)
	require.True(t, ok)

	add, ok := stmt.Expr.(*compiler.Binary)
	require.True(t, ok)
	require.Equal(t, compiler.BinAdd, add.Op)

	mul, ok := add.Right.(*compiler.Binary)
	require.True(t, ok)
	require.Equal(t, compiler.BinMul, mul.Op)
}

func TestParseLogicalShortCircuitIsDistinctFromBinary(t *testing.T) {
	prog, err := Parse("true && false || true;", "test.js")
	require.NoError(t, err)
	stmt := prog.Body[0].(*compiler.ExprStmt)

	or, ok := stmt.Expr.(*compiler.Logical)
	require.True(t, ok)
	require.Equal(t, compiler.LogOr, or.Op)

	and, ok := or.Left.(*compiler.Logical)
	require.True(t, ok)
	require.Equal(t, compiler.LogAnd, and.Op)
}

func TestParseCallAndMemberChain(t *testing.T) {
	prog, err := Parse("obj.method(1, 2)[0];", "test.js")
	require.NoError(t, err)
	stmt := prog.Body[0].(*compiler.ExprStmt)

	outer, ok := stmt.Expr.(*compiler.Member)
	require.True(t, ok)
	require.True(t, outer.Computed)

	call, ok := outer.Object.(*compiler.Call)
	require.True(t, ok)
	require.Len(t, call.Args, 2)

	callee, ok := call.Callee.(*compiler.Member)
	require.True(t, ok)
	require.False(t, callee.Computed)
	require.Equal(t, "method", callee.Property)
}

func TestParseArrayAndObjectLiterals(t *testing.T) {
	prog, err := Parse(`var x = [1, 2, {a: 3}];`, "test.js")
	require.NoError(t, err)
	decl := prog.Body[0].(*compiler.VarDecl)

	arr, ok := decl.Declarators[0].Init.(*compiler.ArrayLiteral)
	require.True(t, ok)
	require.Len(t, arr.Elements, 3)

	obj, ok := arr.Elements[2].(*compiler.ObjectLiteral)
	require.True(t, ok)
	require.Len(t, obj.Properties, 1)
	require.Equal(t, "a", obj.Properties[0].Key)
}

func TestParseAssignmentExpression(t *testing.T) {
	prog, err := Parse("x = y;", "test.js")
	require.NoError(t, err)
	stmt := prog.Body[0].(*compiler.ExprStmt)

	assign, ok := stmt.Expr.(*compiler.Assignment)
	require.True(t, ok)
	_, ok = assign.Target.(*compiler.Identifier)
	require.True(t, ok)
}

func TestParseFunctionExpressionAssignedToVar(t *testing.T) {
	prog, err := Parse("var f = function(a, b) { return a; };", "test.js")
	require.NoError(t, err)
	decl := prog.Body[0].(*compiler.VarDecl)

	fn, ok := decl.Declarators[0].Init.(*compiler.FunctionExpression)
	require.True(t, ok)
	require.Equal(t, []string{"a", "b"}, fn.Params)
}

func TestParseUnaryTypeofAndVoid(t *testing.T) {
	prog, err := Parse("typeof x; void 0;", "test.js")
	require.NoError(t, err)
	require.Len(t, prog.Body, 2)

	u1 := prog.Body[0].(*compiler.ExprStmt).Expr.(*compiler.Unary)
	require.Equal(t, compiler.UnTypeof, u1.Op)

	u2 := prog.Body[1].(*compiler.ExprStmt).Expr.(*compiler.Unary)
	require.Equal(t, compiler.UnVoid, u2.Op)
}

func TestParseRejectsUnterminatedBlock(t *testing.T) {
	_, err := Parse("if (true) { var x = 1;", "test.js")
	require.Error(t, err)
}

func TestParseRejectsInvalidAssignmentTarget(t *testing.T) {
	_, err := Parse("1 = 2;", "test.js")
	require.Error(t, err)
}
