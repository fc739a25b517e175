// Package parser turns a query string (§4.3, §6.2) into an internal/query/ast
// expression tree, using a participle-built recursive-descent parser over a
// hand-tuned lexer.
package parser

import (
	"errors"

	participle "github.com/alecthomas/participle/v2"

	"github.com/SimoHellgren/tagumori/internal/query/ast"
)

// Parse parses any supported query expression.
func Parse(input string) (ast.Expr, error) {
	node, err := grammarParser.ParseString("", input)
	if err != nil {
		return nil, wrapParseError(err)
	}
	return convertXor(node), nil
}

// ParseForStorage parses input and additionally enforces the write-path
// restriction that only Tag and And may appear (§4.3 "Storage restriction").
func ParseForStorage(input string) (ast.Expr, error) {
	expr, err := Parse(input)
	if err != nil {
		return nil, err
	}
	if err := ast.ValidateForStorage(expr); err != nil {
		return nil, err
	}
	return expr, nil
}

func wrapParseError(err error) error {
	var perr participle.Error
	if errors.As(err, &perr) {
		pos := perr.Position()
		return SyntaxError{Message: perr.Message(), Line: pos.Line, Column: pos.Column}
	}
	return SyntaxError{Message: err.Error()}
}
