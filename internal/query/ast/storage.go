package ast

import "errors"

// ErrNotStorageSafe is returned by ValidateForStorage when an expression
// contains anything other than Tag and And (§4.3 "Storage restriction").
var ErrNotStorageSafe = errors.New("expression is not storage-safe: only tags and AND are allowed")

// ValidateForStorage enforces the write-path restriction: only Tag and And
// nodes are allowed, at any depth, including inside a Tag's Children.
// Everything else (Or, Xor, OnlyOne, Not, Null, wildcards) is rejected.
func ValidateForStorage(e Expr) error {
	switch v := e.(type) {
	case *Tag:
		if v.Children == nil {
			return nil
		}
		return ValidateForStorage(v.Children)
	case *And:
		for _, op := range v.Operands {
			if err := ValidateForStorage(op); err != nil {
				return err
			}
		}
		return nil
	default:
		return ErrNotStorageSafe
	}
}
