package ccjs

import (
	"github.com/scriptrt/ccjs/internal/compiler"
	"github.com/scriptrt/ccjs/internal/syntax"
)

// Eval is spec.md §6's source-to-result entry point: lex and parse
// source (internal/syntax, the minimal external front end), lower it to
// a bytecode block (internal/compiler), and run that block on this
// Context's VM. filename is carried through only for syntax-error
// messages.
//
// Parse and compile failures classify as CodeSyntaxError regardless of
// their underlying cause, since an embedder has no use for the
// distinction between "the lexer choked" and "the compiler rejected the
// tree" — both mean the source text itself was invalid.
func (c *Context) Eval(source, filename string) (Value, error) {
	prog, err := syntax.Parse(source, filename)
	if err != nil {
		syntaxErr := &Error{Code: CodeSyntaxError, Message: err.Error(), cause: err}
		c.lastErr = syntaxErr
		return Undefined(), syntaxErr
	}

	block, err := compiler.New(c.runtime.heap).CompileProgram(prog)
	if err != nil {
		syntaxErr := &Error{Code: CodeSyntaxError, Message: err.Error(), cause: err}
		c.lastErr = syntaxErr
		return Undefined(), syntaxErr
	}

	result, err := c.vm.RunBlock(block, c.Global())
	if err != nil {
		return Undefined(), c.fail(err)
	}
	return result, nil
}
