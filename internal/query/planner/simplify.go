package planner

// Simplify canonicalizes a QueryPlan: double negation collapses, same-kind
// nesting flattens (And(And(a,b),c) -> And(a,b,c), likewise Or), and
// singleton combinators unwrap to their sole operand (§4.4 "Simplify").
func Simplify(qp QueryPlan) QueryPlan {
	switch v := qp.(type) {
	case TagPath:
		return v

	case QPNot:
		if inner, ok := v.Operand.(QPNot); ok {
			return Simplify(inner.Operand)
		}
		return QPNot{Operand: Simplify(v.Operand)}

	case QPAnd:
		return unwrapOrFlatten(simplifyAll(v.Operands), func(p QueryPlan) ([]QueryPlan, bool) {
			and, ok := p.(QPAnd)
			if !ok {
				return nil, false
			}
			return and.Operands, true
		}, func(ops []QueryPlan) QueryPlan { return QPAnd{Operands: ops} })

	case QPOr:
		return unwrapOrFlatten(simplifyAll(v.Operands), func(p QueryPlan) ([]QueryPlan, bool) {
			or, ok := p.(QPOr)
			if !ok {
				return nil, false
			}
			return or.Operands, true
		}, func(ops []QueryPlan) QueryPlan { return QPOr{Operands: ops} })

	case QPXor:
		simplified := simplifyAll(v.Operands)
		if len(simplified) == 1 {
			return simplified[0]
		}
		return QPXor{Operands: simplified}

	case QPOnlyOne:
		simplified := simplifyAll(v.Operands)
		if len(simplified) == 1 {
			return simplified[0]
		}
		return QPOnlyOne{Operands: simplified}

	default:
		return qp
	}
}

func simplifyAll(operands []QueryPlan) []QueryPlan {
	out := make([]QueryPlan, len(operands))
	for i, op := range operands {
		out[i] = Simplify(op)
	}
	return out
}

// unwrapOrFlatten flattens nested same-kind combinators (detected via
// asSameKind) and unwraps a singleton result to its sole operand.
func unwrapOrFlatten(simplified []QueryPlan, asSameKind func(QueryPlan) ([]QueryPlan, bool), wrap func([]QueryPlan) QueryPlan) QueryPlan {
	var flattened []QueryPlan
	for _, op := range simplified {
		if nested, ok := asSameKind(op); ok {
			flattened = append(flattened, nested...)
		} else {
			flattened = append(flattened, op)
		}
	}

	if len(flattened) == 1 {
		return flattened[0]
	}
	return wrap(flattened)
}
