package ast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTagString_BareName(t *testing.T) {
	require.Equal(t, "rock", (&Tag{Name: "rock"}).String())
}

func TestTagString_QuotesNonBareName(t *testing.T) {
	require.Equal(t, `"a/b"`, (&Tag{Name: "a/b"}).String())
}

func TestTagString_WithChildren(t *testing.T) {
	expr := &Tag{Name: "genre", Children: &Tag{Name: "rock"}}
	require.Equal(t, "genre[rock]", expr.String())
}

func TestAndString_FlatOperands(t *testing.T) {
	expr := &And{Operands: []Expr{&Tag{Name: "a"}, &Tag{Name: "b"}}}
	require.Equal(t, "a,b", expr.String())
}

func TestOrString_ParenthesizesLooserChild(t *testing.T) {
	inner := &Xor{Operands: []Expr{&Tag{Name: "a"}, &Tag{Name: "b"}}}
	expr := &Or{Operands: []Expr{inner, &Tag{Name: "c"}}}
	require.Equal(t, "(a^b)|c", expr.String())
}

func TestAndString_ParenthesizesOr(t *testing.T) {
	inner := &Or{Operands: []Expr{&Tag{Name: "a"}, &Tag{Name: "b"}}}
	expr := &And{Operands: []Expr{inner, &Tag{Name: "c"}}}
	require.Equal(t, "(a|b),c", expr.String())
}

func TestNotString_Operand(t *testing.T) {
	require.Equal(t, "!rock", (&Not{Operand: &Tag{Name: "rock"}}).String())
}

func TestNotString_ParenthesizesAnd(t *testing.T) {
	inner := &And{Operands: []Expr{&Tag{Name: "a"}, &Tag{Name: "b"}}}
	require.Equal(t, "!(a,b)", (&Not{Operand: inner}).String())
}

func TestOnlyOneString(t *testing.T) {
	expr := &OnlyOne{Operands: []Expr{&Tag{Name: "a"}, &Tag{Name: "b"}, &Tag{Name: "c"}}}
	require.Equal(t, "xor(a,b,c)", expr.String())
}

func TestNullString(t *testing.T) {
	require.Equal(t, "~", (&Null{}).String())
	require.Equal(t, "~[rock]", (&Null{Children: &Tag{Name: "rock"}}).String())
}

func TestWildcardBoundedString(t *testing.T) {
	require.Equal(t, "*3*", (&WildcardBounded{MaxDepth: 3}).String())
}

func TestValidateForStorage_AcceptsTagAndAnd(t *testing.T) {
	expr := &And{Operands: []Expr{
		&Tag{Name: "genre", Children: &Tag{Name: "rock"}},
		&Tag{Name: "year"},
	}}
	require.NoError(t, ValidateForStorage(expr))
}

func TestValidateForStorage_RejectsOr(t *testing.T) {
	expr := &Or{Operands: []Expr{&Tag{Name: "a"}, &Tag{Name: "b"}}}
	require.ErrorIs(t, ValidateForStorage(expr), ErrNotStorageSafe)
}

func TestValidateForStorage_RejectsNestedViolation(t *testing.T) {
	expr := &Tag{Name: "genre", Children: &Not{Operand: &Tag{Name: "rock"}}}
	require.ErrorIs(t, ValidateForStorage(expr), ErrNotStorageSafe)
}
