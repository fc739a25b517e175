// Package executor evaluates a planner.QueryPlan against the store,
// producing the set of matching file ids as a roaring bitmap (§4.5).
package executor

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/RoaringBitmap/roaring"

	"github.com/SimoHellgren/tagumori/internal/query/planner"
	"github.com/SimoHellgren/tagumori/internal/store"
)

// queryer is satisfied by *sql.DB and *sql.Tx — the executor only reads,
// but store.GetAllFiles (used to materialize the QP_Not universe) takes the
// same execer shape the rest of internal/store does, so this interface
// mirrors it structurally.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Execute evaluates plan, honoring caseSensitive for tag-name comparison
// (§4.5 "case folding ... chosen at plan time"). The universe of all file
// ids (needed by QP_Not) is materialized lazily, at most once per call.
func Execute(ctx context.Context, db queryer, plan planner.QueryPlan, caseSensitive bool) (*roaring.Bitmap, error) {
	e := &execution{ctx: ctx, db: db, caseSensitive: caseSensitive}
	return e.exec(plan)
}

type execution struct {
	ctx           context.Context
	db            queryer
	caseSensitive bool

	universeOnce sync.Once
	universe     *roaring.Bitmap
	universeErr  error
}

func (e *execution) getUniverse() (*roaring.Bitmap, error) {
	e.universeOnce.Do(func() {
		files, err := store.GetAllFiles(e.ctx, e.db)
		if err != nil {
			e.universeErr = err
			return
		}
		bm := roaring.New()
		for _, f := range files {
			bm.Add(uint32(f.ID))
		}
		e.universe = bm
	})
	return e.universe, e.universeErr
}

func (e *execution) exec(qp planner.QueryPlan) (*roaring.Bitmap, error) {
	switch v := qp.(type) {
	case planner.TagPath:
		return findAll(e.ctx, e.db, v.Segments, e.caseSensitive)

	case planner.QPAnd:
		if len(v.Operands) == 0 {
			return roaring.New(), nil
		}
		result, err := e.exec(v.Operands[0])
		if err != nil {
			return nil, err
		}
		for _, op := range v.Operands[1:] {
			if result.IsEmpty() {
				return result, nil
			}
			other, err := e.exec(op)
			if err != nil {
				return nil, err
			}
			result.And(other)
		}
		return result, nil

	case planner.QPOr:
		result := roaring.New()
		for _, op := range v.Operands {
			other, err := e.exec(op)
			if err != nil {
				return nil, err
			}
			result.Or(other)
		}
		return result, nil

	case planner.QPXor:
		if len(v.Operands) == 0 {
			return roaring.New(), nil
		}
		result, err := e.exec(v.Operands[0])
		if err != nil {
			return nil, err
		}
		for _, op := range v.Operands[1:] {
			other, err := e.exec(op)
			if err != nil {
				return nil, err
			}
			result.Xor(other)
		}
		return result, nil

	case planner.QPOnlyOne:
		counts := make(map[uint32]int)
		for _, op := range v.Operands {
			bm, err := e.exec(op)
			if err != nil {
				return nil, err
			}
			it := bm.Iterator()
			for it.HasNext() {
				counts[it.Next()]++
			}
		}
		result := roaring.New()
		for id, count := range counts {
			if count == 1 {
				result.Add(id)
			}
		}
		return result, nil

	case planner.QPNot:
		universe, err := e.getUniverse()
		if err != nil {
			return nil, err
		}
		operand, err := e.exec(v.Operand)
		if err != nil {
			return nil, err
		}
		result := universe.Clone()
		result.AndNot(operand)
		return result, nil

	default:
		return nil, fmt.Errorf("execute: unhandled plan node %T", qp)
	}
}
