// Package importers merges an externally supplied catalog of categories and
// sites into the existing store.
//
// # Pipeline
//
// An import runs as one sequential pass:
//
//	Normalize → CategoryResolver → SiteMerger → batch.Executor
//
//   - Normalize (normalize.go) accepts the structured {"category","sites"}
//     shape or the legacy flat site array and produces a Payload.
//   - CategoryResolver (categories.go) orders the payload categories parents
//     first, reuses existing (name, parent) pairs and inserts the rest,
//     producing a RemapTable from payload ids to store ids.
//   - SiteMerger (sites.go) decides skip / insert / update for each site,
//     synthesizes missing logos and forces privacy from the owning category.
//   - Engine (engine.go) wires the steps and applies the planned writes in
//     bounded batches.
//
// Payload ids are never store ids. They live only in the RemapTable owned by
// a single Engine.Import call.
package importers
