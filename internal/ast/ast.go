// Package ast defines the abstract syntax tree produced by the parser
// and consumed by the compiler.
package ast

import (
	"strings"

	"github.com/wisplang/wisp/internal/token"
)

// Node is implemented by every AST node. TokenLiteral returns the
// literal text of the token that introduced the node (mostly useful in
// tests and error messages); String renders the node's textual form.
// That form does not always re-lex and re-parse to the same tree: block
// bodies are rendered without braces, expression statements carry no
// trailing semicolon, string literals are rendered without their
// quotes, and a named function literal renders as fn<name>(...).
type Node interface {
	TokenLiteral() string
	String() string
}

// Statement is a Node that appears in a block or program's statement
// list.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Program is the root of every AST: an ordered sequence of statements.
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var out strings.Builder
	for _, s := range p.Statements {
		out.WriteString(s.String())
	}
	return out.String()
}

// Identifier is both an expression (evaluating to the bound value) and
// the name half of a Let statement.
type Identifier struct {
	Token token.Token // the token.IDENT token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }
