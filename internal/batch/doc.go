// Package batch executes parameterized statements against a backend that
// limits how many parameters a single statement may bind.
//
// # Chunking
//
// Values destined for an IN (...) list are split with [Chunk] so that no
// statement carries more than the configured chunk size, leaving headroom
// under the parameter limit for the fixed parameters around the list:
//
//	stmts := batch.BuildIn("DELETE FROM sites WHERE id IN (%s)", nil, ids, exec.ChunkSize())
//	res, err := exec.Exec(ctx, stmts)
//
// # Atomicity
//
// [Executor.Exec] groups statements into batches and runs each batch in its
// own transaction. Batches are independent: when a later batch fails, the
// batches committed before it stay committed. Callers that need
// all-or-nothing semantics across batches must not rely on this package.
package batch
