package batch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	// DefaultMaxParams is the bound-parameter limit of the reference backend.
	DefaultMaxParams = 100

	// DefaultChunkSize is the IN-list size used when none is configured.
	DefaultChunkSize = 50

	// maxParallelLookups bounds concurrent read-only chunk queries.
	maxParallelLookups = 4
)

// ErrTooManyParams is returned when a statement binds more parameters than
// the executor allows.
var ErrTooManyParams = errors.New("statement exceeds bound parameter limit")

// Statement is a single parameterized SQL statement.
type Statement struct {
	SQL  string
	Args []any
}

// Result reports how much of a statement list was applied.
type Result struct {
	Batches      int   // Batches committed
	Statements   int   // Statements committed
	RowsAffected int64 // Rows affected by committed statements
}

// Executor applies statements in bounded, individually transactional batches.
type Executor struct {
	db        *gorm.DB
	maxParams int
	chunkSize int
}

// NewExecutor creates an executor. Non-positive limits fall back to the
// defaults. The chunk size never exceeds half of maxParams.
func NewExecutor(db *gorm.DB, maxParams, chunkSize int) *Executor {
	if maxParams <= 0 {
		maxParams = DefaultMaxParams
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if limit := maxParams / 2; chunkSize > limit && limit > 0 {
		chunkSize = limit
	}
	return &Executor{db: db, maxParams: maxParams, chunkSize: chunkSize}
}

// MaxParams returns the per-statement parameter limit.
func (e *Executor) MaxParams() int {
	return e.maxParams
}

// ChunkSize returns the IN-list size and the number of statements per batch.
func (e *Executor) ChunkSize() int {
	return e.chunkSize
}

// Validate checks every statement against the parameter limit.
func (e *Executor) Validate(stmts []Statement) error {
	for i, stmt := range stmts {
		if len(stmt.Args) > e.maxParams {
			return fmt.Errorf("statement %d binds %d parameters (limit %d): %w", i, len(stmt.Args), e.maxParams, ErrTooManyParams)
		}
	}
	return nil
}

// Exec validates all statements, then runs them in batches of ChunkSize,
// one transaction per batch, in list order. On failure the returned Result
// describes the batches that were committed before the failing one.
func (e *Executor) Exec(ctx context.Context, stmts []Statement) (Result, error) {
	var res Result
	if len(stmts) == 0 {
		return res, nil
	}
	if err := e.Validate(stmts); err != nil {
		return res, err
	}

	for i, chunk := range Chunk(stmts, e.chunkSize) {
		var affected int64
		err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			for _, stmt := range chunk {
				result := tx.Exec(stmt.SQL, stmt.Args...)
				if result.Error != nil {
					return result.Error
				}
				affected += result.RowsAffected
			}
			return nil
		})
		if err != nil {
			return res, fmt.Errorf("batch %d failed after %d committed batches: %w", i, res.Batches, err)
		}
		res.Batches++
		res.Statements += len(chunk)
		res.RowsAffected += affected
	}
	return res, nil
}

// Chunk splits items into consecutive slices of at most size elements.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = DefaultChunkSize
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end])
	}
	return chunks
}

// Placeholders returns n comma-separated "?" markers.
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// BuildIn expands query, which must contain a single %s verb for the IN
// list, into one statement per chunk of values. Fixed arguments precede the
// list values in every statement.
func BuildIn[T any](query string, fixed []any, values []T, size int) []Statement {
	chunks := Chunk(values, size)
	stmts := make([]Statement, 0, len(chunks))
	for _, chunk := range chunks {
		args := make([]any, 0, len(fixed)+len(chunk))
		args = append(args, fixed...)
		for _, v := range chunk {
			args = append(args, v)
		}
		stmts = append(stmts, Statement{
			SQL:  fmt.Sprintf(query, Placeholders(len(chunk))),
			Args: args,
		})
	}
	return stmts
}

// QueryChunked runs fn once per chunk of values, concurrently, and returns
// the concatenation of the per-chunk results in chunk order. fn must be
// read-only; the first error cancels the remaining lookups.
func QueryChunked[T, R any](ctx context.Context, values []T, size int, fn func(ctx context.Context, chunk []T) ([]R, error)) ([]R, error) {
	chunks := Chunk(values, size)
	results := make([][]R, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelLookups)
	for i, chunk := range chunks {
		g.Go(func() error {
			rows, err := fn(gctx, chunk)
			if err != nil {
				return fmt.Errorf("lookup chunk %d: %w", i, err)
			}
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []R
	for _, rows := range results {
		out = append(out, rows...)
	}
	return out, nil
}
