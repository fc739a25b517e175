package ast

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// bare matches the unquoted name charset (§4.3): letters, digits,
// underscore, space, hyphen, with a letter, digit or underscore first (as
// the parser's Ident token requires). Anything else requires a quoted form.
var bare = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_ -]*$`)

// precedence mirrors the grammar's binding tightness (§4.3), loose to
// tight: Xor(1) < Or(3) < And(4) < Not(5) < primary(6). OnlyOne prints as a
// call (`xor(...)`) and never needs parenthesizing by a caller.
func precedence(e Expr) int {
	switch e.(type) {
	case *Xor:
		return 1
	case *Or:
		return 3
	case *And:
		return 4
	case *Not:
		return 5
	default:
		return 6
	}
}

// wrap prints e, parenthesizing it if its precedence is looser than min.
func wrap(e Expr, min int) string {
	s := e.String()
	if precedence(e) < min {
		return "(" + s + ")"
	}
	return s
}

func quoteName(name string) string {
	if bare.MatchString(name) {
		return name
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range name {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}

func (t *Tag) String() string {
	s := quoteName(t.Name)
	if t.Children != nil {
		s += "[" + t.Children.String() + "]"
	}
	return s
}

func joinOperands(operands []Expr, sep string, min int) string {
	parts := make([]string, len(operands))
	for i, op := range operands {
		parts[i] = wrap(op, min)
	}
	return strings.Join(parts, sep)
}

func (a *And) String() string { return joinOperands(a.Operands, ",", precedence(a)) }
func (o *Or) String() string  { return joinOperands(o.Operands, "|", precedence(o)) }
func (x *Xor) String() string { return joinOperands(x.Operands, "^", precedence(x)) }

func (o *OnlyOne) String() string {
	// always a call form; the comma separates operands, so any operand
	// looser than `!` is parenthesized.
	parts := make([]string, len(o.Operands))
	for i, op := range o.Operands {
		parts[i] = wrap(op, precedence(&Not{}))
	}
	return "xor(" + strings.Join(parts, ",") + ")"
}

func (n *Not) String() string {
	return "!" + wrap(n.Operand, precedence(n))
}

func (n *Null) String() string {
	if n.Children != nil {
		return "~[" + n.Children.String() + "]"
	}
	return "~"
}

func (w *WildcardSingle) String() string {
	if w.Children != nil {
		return "*[" + w.Children.String() + "]"
	}
	return "*"
}

func (w *WildcardPath) String() string {
	if w.Children != nil {
		return "**[" + w.Children.String() + "]"
	}
	return "**"
}

func (w *WildcardBounded) String() string {
	marker := "*" + strconv.Itoa(w.MaxDepth) + "*"
	if w.Children != nil {
		return fmt.Sprintf("%s[%s]", marker, w.Children.String())
	}
	return marker
}
