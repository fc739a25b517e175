package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SimoHellgren/tagumori/internal/query/ast"
)

func TestParse_BareTag(t *testing.T) {
	expr, err := Parse("rock")
	require.NoError(t, err)
	require.Equal(t, &ast.Tag{Name: "rock"}, expr)
}

func TestParse_TagWithChild(t *testing.T) {
	expr, err := Parse("genre[rock]")
	require.NoError(t, err)
	require.Equal(t, &ast.Tag{Name: "genre", Children: &ast.Tag{Name: "rock"}}, expr)
}

func TestParse_And(t *testing.T) {
	expr, err := Parse("rock,jazz")
	require.NoError(t, err)
	require.Equal(t, &ast.And{Operands: []ast.Expr{
		&ast.Tag{Name: "rock"}, &ast.Tag{Name: "jazz"},
	}}, expr)
}

func TestParse_Or(t *testing.T) {
	expr, err := Parse("rock|jazz")
	require.NoError(t, err)
	require.Equal(t, &ast.Or{Operands: []ast.Expr{
		&ast.Tag{Name: "rock"}, &ast.Tag{Name: "jazz"},
	}}, expr)
}

func TestParse_Not(t *testing.T) {
	expr, err := Parse("!rock")
	require.NoError(t, err)
	require.Equal(t, &ast.Not{Operand: &ast.Tag{Name: "rock"}}, expr)
}

func TestParse_Xor(t *testing.T) {
	expr, err := Parse("rock^jazz")
	require.NoError(t, err)
	require.Equal(t, &ast.Xor{Operands: []ast.Expr{
		&ast.Tag{Name: "rock"}, &ast.Tag{Name: "jazz"},
	}}, expr)
}

func TestParse_OnlyOneCall(t *testing.T) {
	expr, err := Parse("xor(rock,jazz,pop)")
	require.NoError(t, err)
	require.Equal(t, &ast.OnlyOne{Operands: []ast.Expr{
		&ast.Tag{Name: "rock"}, &ast.Tag{Name: "jazz"}, &ast.Tag{Name: "pop"},
	}}, expr)
}

func TestParse_XorAsBareTagName(t *testing.T) {
	expr, err := Parse("xor")
	require.NoError(t, err)
	require.Equal(t, &ast.Tag{Name: "xor"}, expr)
}

func TestParse_NegationInsideBracket(t *testing.T) {
	expr, err := Parse("genre[!rock]")
	require.NoError(t, err)
	require.Equal(t, &ast.Tag{
		Name:     "genre",
		Children: &ast.Not{Operand: &ast.Tag{Name: "rock"}},
	}, expr)
}

func TestParse_NullAlone(t *testing.T) {
	expr, err := Parse("~")
	require.NoError(t, err)
	require.Equal(t, &ast.Null{}, expr)
}

func TestParse_NullWithChild(t *testing.T) {
	expr, err := Parse("~[x]")
	require.NoError(t, err)
	require.Equal(t, &ast.Null{Children: &ast.Tag{Name: "x"}}, expr)
}

func TestParse_TagWithNullChild(t *testing.T) {
	expr, err := Parse("a[~]")
	require.NoError(t, err)
	require.Equal(t, &ast.Tag{Name: "a", Children: &ast.Null{}}, expr)
}

func TestParse_WildcardSingle(t *testing.T) {
	expr, err := Parse("*[x]")
	require.NoError(t, err)
	require.Equal(t, &ast.WildcardSingle{Children: &ast.Tag{Name: "x"}}, expr)
}

func TestParse_WildcardPath(t *testing.T) {
	expr, err := Parse("**")
	require.NoError(t, err)
	require.Equal(t, &ast.WildcardPath{}, expr)
}

func TestParse_WildcardBounded(t *testing.T) {
	expr, err := Parse("*3*")
	require.NoError(t, err)
	require.Equal(t, &ast.WildcardBounded{MaxDepth: 3}, expr)
}

func TestParse_QuotedName(t *testing.T) {
	expr, err := Parse(`"a/b"`)
	require.NoError(t, err)
	require.Equal(t, &ast.Tag{Name: "a/b"}, expr)
}

// TestParse_DeepChain grounds S7: a[b[c[d[e]]]] parses as a five-deep chain.
func TestParse_DeepChain(t *testing.T) {
	expr, err := Parse("a[b[c[d[e]]]]")
	require.NoError(t, err)

	depth := 0
	var cur ast.Expr = expr
	for cur != nil {
		tag, ok := cur.(*ast.Tag)
		require.True(t, ok)
		depth++
		cur = tag.Children
	}
	require.Equal(t, 5, depth)
}

func TestParse_SyntaxErrorHasPosition(t *testing.T) {
	_, err := Parse("a,,b")
	require.Error(t, err)
	var synErr SyntaxError
	require.ErrorAs(t, err, &synErr)
	require.NotZero(t, synErr.Line)
}

func TestParseForStorage_RejectsOr(t *testing.T) {
	_, err := ParseForStorage("a|b")
	require.ErrorIs(t, err, ast.ErrNotStorageSafe)
}

func TestParseForStorage_AcceptsTagAndAnd(t *testing.T) {
	expr, err := ParseForStorage("genre[rock],year")
	require.NoError(t, err)
	require.NotNil(t, expr)
}

// TestParse_RoundTrip grounds §8.6: parse(str(ast)) is structurally equal
// to ast for every supported operator.
func TestParse_RoundTrip(t *testing.T) {
	cases := []string{
		"rock",
		"genre[rock]",
		"rock,jazz",
		"rock|jazz",
		"!rock",
		"rock^jazz",
		"xor(rock,jazz,pop)",
		"~",
		"~[x]",
		"a[~]",
		"*",
		"*[x]",
		"**",
		"*3*",
	}
	for _, c := range cases {
		expr, err := Parse(c)
		require.NoErrorf(t, err, "parsing %q", c)

		reparsed, err := Parse(expr.String())
		require.NoErrorf(t, err, "reparsing %q (printed from %q)", expr.String(), c)
		require.Equalf(t, expr, reparsed, "round-trip mismatch for %q", c)
	}
}
