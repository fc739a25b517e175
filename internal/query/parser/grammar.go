package parser

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// queryLexer tokenizes the query grammar (§4.3, §6.2). Wildcard rules are
// ordered most-specific first so the simple lexer's first-match-wins scan
// doesn't let WildcardSingle's `*` shadow `**` or `*n*`.
var queryLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "BoundedWildcard", Pattern: `\*[0-9]+\*`},
	{Name: "WildcardPath", Pattern: `\*\*`},
	{Name: "WildcardSingle", Pattern: `\*`},
	{Name: "Null", Pattern: `~`},
	{Name: "String", Pattern: `"([^"\\]|\\.)*"`},
	{Name: "Ident", Pattern: `[A-Za-z0-9_][A-Za-z0-9_ -]*`},
	{Name: "Punct", Pattern: `[,|^!()\[\]]`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
})

// xorExprNode is the loosest binding level: `^` (parity XOR, §4.3 rule 1).
type xorExprNode struct {
	Left *orExprNode   `parser:"@@"`
	Rest []*orExprNode `parser:"( \"^\" @@ )*"`
}

// orExprNode: `|` (rule 3).
type orExprNode struct {
	Left *andExprNode   `parser:"@@"`
	Rest []*andExprNode `parser:"( \"|\" @@ )*"`
}

// andExprNode: `,` (rule 4).
type andExprNode struct {
	Left *notExprNode   `parser:"@@"`
	Rest []*notExprNode `parser:"( \",\" @@ )*"`
}

// notExprNode: unary prefix `!` (rule 5), else a primary.
type notExprNode struct {
	Bang    *notExprNode `parser:"(   \"!\" @@"`
	Primary *primaryNode `parser:" | @@ )"`
}

// primaryNode dispatches on the primary forms of rule 6. onlyOneNode is
// tried before tagNode so that "xor(" parses as the ONLY-ONE call; bare
// "xor" used as an ordinary tag name (not followed by "(") falls through to
// tagNode, matching the original grammar's handling of "xor" as an
// overloaded keyword/identifier.
type primaryNode struct {
	OnlyOne  *onlyOneNode  `parser:"(   @@"`
	Wildcard *wildcardNode `parser:" | @@"`
	Null     *nullNode     `parser:" | @@"`
	Tag      *tagNode      `parser:" | @@"`
	Group    *xorExprNode  `parser:" | \"(\" @@ \")\" )"`
}

// onlyOneNode: `xor(a, b, …)` (rule 2). The comma separates operands, so
// each operand is a unary-level expression; an operand built from `,`, `|`
// or `^` must be parenthesized.
type onlyOneNode struct {
	Operands []*notExprNode `parser:"\"xor\" \"(\" @@ ( \",\" @@ )* \")\""`
}

// tagNode: a bare or quoted name, optionally followed by `[…]` children.
type tagNode struct {
	Name     string       `parser:"( @Ident | @String )"`
	Children *xorExprNode `parser:"( \"[\" @@ \"]\" )?"`
}

// nullNode: `~`, optionally followed by `[…]`.
type nullNode struct {
	Children *xorExprNode `parser:"\"~\" ( \"[\" @@ \"]\" )?"`
}

// wildcardNode: `*`, `**`, or `*n*`, optionally followed by `[…]`.
type wildcardNode struct {
	Bounded  *string      `parser:"(   @BoundedWildcard"`
	Path     *string      `parser:" | @WildcardPath"`
	Single   *string      `parser:" | @WildcardSingle )"`
	Children *xorExprNode `parser:"( \"[\" @@ \"]\" )?"`
}

var grammarParser = participle.MustBuild[xorExprNode](
	participle.Lexer(queryLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)
