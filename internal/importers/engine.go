package importers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mrlokans/navigator/internal/batch"
	"github.com/mrlokans/navigator/internal/database/sites"
)

// SiteStore answers which payload URLs already exist.
type SiteStore interface {
	ExistingURLs(ctx context.Context, urls []string, chunkSize int) (map[string]struct{}, error)
}

// StatementExecutor applies write statements in bounded batches.
type StatementExecutor interface {
	Exec(ctx context.Context, stmts []batch.Statement) (batch.Result, error)
	ChunkSize() int
}

// Options controls a single import.
type Options struct {
	// Override updates existing sites (matched by URL) instead of skipping
	// them. It is combined with the payload's own "override" flag.
	Override bool
}

// Summary reports the outcome of an import.
type Summary struct {
	Structured        bool
	CategoriesCreated int
	CategoriesMatched int
	Inserted          int
	Updated           int
	Skipped           int
}

// Message is the human-readable summary returned to API callers.
func (s Summary) Message() string {
	if s.Inserted+s.Updated+s.Skipped == 0 {
		if s.CategoriesCreated > 0 {
			return fmt.Sprintf("Import finished. Created %d categories; no sites were found to import.", s.CategoriesCreated)
		}
		return "Import successful, but no sites were found to import."
	}
	return fmt.Sprintf("Import finished. Added %d sites, updated %d, skipped %d (already present or incomplete).",
		s.Inserted, s.Updated, s.Skipped)
}

// Wrote reports whether the import changed the store.
func (s Summary) Wrote() bool {
	return s.CategoriesCreated+s.Inserted+s.Updated > 0
}

// Engine runs the import pipeline against the store.
type Engine struct {
	resolver *CategoryResolver
	merger   *SiteMerger
	sites    SiteStore
	exec     StatementExecutor
	now      func() time.Time
}

// NewEngine wires an import engine.
func NewEngine(categories CategoryStore, sites SiteStore, exec StatementExecutor, logos LogoResolver) *Engine {
	return &Engine{
		resolver: NewCategoryResolver(categories),
		merger:   NewSiteMerger(logos),
		sites:    sites,
		exec:     exec,
		now:      time.Now,
	}
}

// Import merges p into the store. Category validation errors abort before
// any write. Backend errors abort the remaining work; writes already
// committed (categories, earlier site batches) are kept.
func (e *Engine) Import(ctx context.Context, p Payload, opts Options) (Summary, error) {
	summary := Summary{Structured: p.Structured}
	if len(p.Sites) == 0 && len(p.Categories) == 0 {
		return summary, nil
	}

	res, err := e.resolver.Resolve(ctx, p)
	if err != nil {
		return summary, err
	}
	summary.CategoriesCreated = res.Created
	summary.CategoriesMatched = res.Matched

	urls := make([]string, 0, len(p.Sites))
	for _, s := range p.Sites {
		if u := strings.TrimSpace(s.URL); u != "" {
			urls = append(urls, u)
		}
	}
	existing, err := e.sites.ExistingURLs(ctx, urls, e.exec.ChunkSize())
	if err != nil {
		return summary, backendError("look up existing sites", err)
	}

	plan := e.merger.Plan(p, res, existing, MergeOptions{Override: opts.Override || p.Override})

	now := e.now()
	stmts := make([]batch.Statement, 0, len(plan.Inserts)+len(plan.Updates))
	for _, site := range plan.Inserts {
		stmts = append(stmts, sites.InsertStatement(site, now))
	}
	for _, site := range plan.Updates {
		stmts = append(stmts, sites.UpdateByURLStatement(site, now))
	}

	result, err := e.exec.Exec(ctx, stmts)
	if err != nil {
		log.Error("site batch failed", "committed_batches", result.Batches, "committed_statements", result.Statements, "err", err)
		return summary, backendError("write sites", err)
	}

	summary.Inserted = plan.Inserted
	summary.Updated = plan.Updated
	summary.Skipped = plan.Skipped

	log.Info("import finished",
		"structured", p.Structured,
		"categories_created", summary.CategoriesCreated,
		"inserted", summary.Inserted,
		"updated", summary.Updated,
		"skipped", summary.Skipped,
		"batches", result.Batches,
	)
	return summary, nil
}
