// Package catalog implements the admin edits of an existing catalog: bulk
// actions on sites and category update or removal.
//
// Bulk site writes are expressed as batch statements (see the sites
// package) and applied by a batch executor, so an id list of any length
// stays under the per-statement parameter limit.
package catalog
