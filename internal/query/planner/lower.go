package planner

import (
	"fmt"

	"github.com/SimoHellgren/tagumori/internal/query/ast"
)

// ErrNotImplemented is returned by ToQueryPlan for `**` and `*n*` segments
// (§4.4: "deferred: may fail with not-implemented"; §7 Not-implemented).
type ErrNotImplemented struct {
	Feature string
}

func (e ErrNotImplemented) Error() string {
	return fmt.Sprintf("%s is not yet supported in queries", e.Feature)
}

// ToQueryPlan lowers expr into a QueryPlan, following the authoritative
// rewrite rules of §4.4 exactly (prefix accumulation, Null/is_root
// propagation, and the `a[!b]` => `a AND NOT a[b]` rewrite).
func ToQueryPlan(expr ast.Expr) (QueryPlan, error) {
	return lower(expr, nil, false)
}

func lower(node ast.Expr, prefix []Segment, isRoot bool) (QueryPlan, error) {
	switch n := node.(type) {
	case *ast.Tag:
		if n.Children == nil {
			return TagPath{Segments: append(cloneSegments(prefix), SegTag{Name: n.Name, IsRoot: isRoot})}, nil
		}

		_, isLeaf := n.Children.(*ast.Null)
		seg := SegTag{Name: n.Name, IsRoot: isRoot, IsLeaf: isLeaf}
		if isLeaf {
			// a[~[z]] silently drops z — see ast.Null case below.
			return TagPath{Segments: append(cloneSegments(prefix), seg)}, nil
		}
		return lower(n.Children, append(cloneSegments(prefix), seg), false)

	case *ast.WildcardSingle:
		if n.Children == nil {
			return TagPath{Segments: append(cloneSegments(prefix), SegWildcardSingle{IsRoot: isRoot})}, nil
		}

		_, isLeaf := n.Children.(*ast.Null)
		seg := SegWildcardSingle{IsRoot: isRoot, IsLeaf: isLeaf}
		if isLeaf {
			return TagPath{Segments: append(cloneSegments(prefix), seg)}, nil
		}
		return lower(n.Children, append(cloneSegments(prefix), seg), false)

	case *ast.WildcardPath:
		return nil, ErrNotImplemented{Feature: "** (path wildcard)"}

	case *ast.WildcardBounded:
		return nil, ErrNotImplemented{Feature: "*n* (bounded wildcard)"}

	case *ast.Null:
		if n.Children == nil {
			// ~ alone: any root-level leaf.
			return TagPath{Segments: append(cloneSegments(prefix), SegWildcardSingle{IsRoot: true, IsLeaf: true})}, nil
		}
		// ~[x]: x must be a root. is_root propagates through exactly one
		// level of recursion (§4.4).
		return lower(n.Children, prefix, true)

	case *ast.Or:
		return lowerOperands(n.Operands, prefix, isRoot, func(ops []QueryPlan) QueryPlan { return QPOr{Operands: ops} })

	case *ast.And:
		return lowerOperands(n.Operands, prefix, isRoot, func(ops []QueryPlan) QueryPlan { return QPAnd{Operands: ops} })

	case *ast.Xor:
		return lowerOperands(n.Operands, prefix, isRoot, func(ops []QueryPlan) QueryPlan { return QPXor{Operands: ops} })

	case *ast.OnlyOne:
		return lowerOperands(n.Operands, prefix, isRoot, func(ops []QueryPlan) QueryPlan { return QPOnlyOne{Operands: ops} })

	case *ast.Not:
		inner, err := lower(n.Operand, prefix, isRoot)
		if err != nil {
			return nil, err
		}
		if len(prefix) > 0 {
			// a[!b] == a AND NOT a[b]
			return QPAnd{Operands: []QueryPlan{
				TagPath{Segments: cloneSegments(prefix)},
				QPNot{Operand: inner},
			}}, nil
		}
		return QPNot{Operand: inner}, nil

	default:
		return nil, fmt.Errorf("lower: unhandled expression type %T", node)
	}
}

func lowerOperands(operands []ast.Expr, prefix []Segment, isRoot bool, wrap func([]QueryPlan) QueryPlan) (QueryPlan, error) {
	plans := make([]QueryPlan, len(operands))
	for i, op := range operands {
		p, err := lower(op, prefix, isRoot)
		if err != nil {
			return nil, err
		}
		plans[i] = p
	}
	return wrap(plans), nil
}

func cloneSegments(prefix []Segment) []Segment {
	out := make([]Segment, len(prefix))
	copy(out, prefix)
	return out
}
