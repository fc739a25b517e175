package parser

import (
	"strconv"
	"strings"

	"github.com/SimoHellgren/tagumori/internal/query/ast"
)

func convertXor(n *xorExprNode) ast.Expr {
	if len(n.Rest) == 0 {
		return convertOr(n.Left)
	}
	operands := make([]ast.Expr, 0, len(n.Rest)+1)
	operands = append(operands, convertOr(n.Left))
	for _, r := range n.Rest {
		operands = append(operands, convertOr(r))
	}
	return &ast.Xor{Operands: operands}
}

func convertOr(n *orExprNode) ast.Expr {
	if len(n.Rest) == 0 {
		return convertAnd(n.Left)
	}
	operands := make([]ast.Expr, 0, len(n.Rest)+1)
	operands = append(operands, convertAnd(n.Left))
	for _, r := range n.Rest {
		operands = append(operands, convertAnd(r))
	}
	return &ast.Or{Operands: operands}
}

func convertAnd(n *andExprNode) ast.Expr {
	if len(n.Rest) == 0 {
		return convertNot(n.Left)
	}
	operands := make([]ast.Expr, 0, len(n.Rest)+1)
	operands = append(operands, convertNot(n.Left))
	for _, r := range n.Rest {
		operands = append(operands, convertNot(r))
	}
	return &ast.And{Operands: operands}
}

func convertNot(n *notExprNode) ast.Expr {
	if n.Bang != nil {
		return &ast.Not{Operand: convertNot(n.Bang)}
	}
	return convertPrimary(n.Primary)
}

func convertPrimary(n *primaryNode) ast.Expr {
	switch {
	case n.OnlyOne != nil:
		operands := make([]ast.Expr, len(n.OnlyOne.Operands))
		for i, op := range n.OnlyOne.Operands {
			operands[i] = convertNot(op)
		}
		return &ast.OnlyOne{Operands: operands}
	case n.Wildcard != nil:
		return convertWildcard(n.Wildcard)
	case n.Null != nil:
		return &ast.Null{Children: convertOptionalChildren(n.Null.Children)}
	case n.Tag != nil:
		return &ast.Tag{Name: unquoteName(n.Tag.Name), Children: convertOptionalChildren(n.Tag.Children)}
	default:
		return convertXor(n.Group)
	}
}

func convertWildcard(n *wildcardNode) ast.Expr {
	children := convertOptionalChildren(n.Children)
	switch {
	case n.Bounded != nil:
		depth, _ := strconv.Atoi(strings.Trim(*n.Bounded, "*"))
		return &ast.WildcardBounded{MaxDepth: depth, Children: children}
	case n.Path != nil:
		return &ast.WildcardPath{Children: children}
	default:
		return &ast.WildcardSingle{Children: children}
	}
}

func convertOptionalChildren(n *xorExprNode) ast.Expr {
	if n == nil {
		return nil
	}
	return convertXor(n)
}

// unquoteName strips and unescapes a quoted name; a bare (unquoted)
// identifier passes through unchanged.
func unquoteName(raw string) string {
	if len(raw) < 2 || raw[0] != '"' {
		return raw
	}
	inner := raw[1 : len(raw)-1]
	var b strings.Builder
	for i := 0; i < len(inner); i++ {
		if inner[i] == '\\' && i+1 < len(inner) {
			i++
		}
		b.WriteByte(inner[i])
	}
	return b.String()
}
