// Package vault is the service facade: it orchestrates internal/store,
// internal/query/parser, internal/query/planner, and internal/query/executor
// into the operations a caller (CLI, MCP server) actually invokes (§4.6).
package vault

import (
	"errors"
	"fmt"

	"github.com/SimoHellgren/tagumori/internal/query/ast"
	"github.com/SimoHellgren/tagumori/internal/query/parser"
	"github.com/SimoHellgren/tagumori/internal/query/planner"
	"github.com/SimoHellgren/tagumori/internal/store"
)

// Kind classifies a vault Error by the concept-level categories of §7 — not
// meant to be exhaustive beyond what this facade can actually raise.
type Kind string

const (
	Parse           Kind = "parse-error"
	StorageShape    Kind = "storage-shape-error"
	NotFound        Kind = "not-found"
	Conflict        Kind = "conflict"
	NotImplemented  Kind = "not-implemented"
	InvalidArgument Kind = "invalid-argument"
)

// Error is the vault facade's uniform error shape, modeled on
// ritamzico-pgraph's QueryError{Kind, Message}. Line and Column are set only
// for Parse errors where the parser could supply a position.
type Error struct {
	Kind    Kind
	Message string
	Line    int
	Column  int
}

func (e Error) Error() string {
	if e.Line != 0 {
		return fmt.Sprintf("vault error (%s) at %d:%d: %s", e.Kind, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("vault error (%s): %s", e.Kind, e.Message)
}

// wrapErr maps an error from a lower package into the facade's Error shape.
// Errors already of type Error pass through unchanged.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}

	var vaultErr Error
	if errors.As(err, &vaultErr) {
		return err
	}

	var syn parser.SyntaxError
	if errors.As(err, &syn) {
		return Error{Kind: Parse, Message: syn.Message, Line: syn.Line, Column: syn.Column}
	}

	var notImpl planner.ErrNotImplemented
	if errors.As(err, &notImpl) {
		return Error{Kind: NotImplemented, Message: notImpl.Error()}
	}

	if errors.Is(err, ast.ErrNotStorageSafe) {
		return Error{Kind: StorageShape, Message: err.Error()}
	}

	if errors.Is(err, store.ErrNotFound) {
		return Error{Kind: NotFound, Message: err.Error()}
	}

	return err
}
