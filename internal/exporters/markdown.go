package exporters

import (
	"fmt"
	"strings"
	"time"
)

// MarkdownOptions controls GenerateMarkdown.
type MarkdownOptions struct {
	IncludePrivate bool
	Now            time.Time
}

// GenerateMarkdown renders doc as a Markdown link list with one heading per
// category, nested by parent. Categories whose parent is missing, or that
// sit on a parent cycle, are rendered at the top level.
func GenerateMarkdown(doc Document, opts MarkdownOptions) string {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	known := make(map[uint]bool, len(doc.Categories))
	for _, cat := range doc.Categories {
		known[cat.ID] = true
	}
	children := make(map[uint][]CategoryRecord)
	for _, cat := range doc.Categories {
		parent := cat.ParentID
		if !known[parent] || parent == cat.ID {
			parent = 0
		}
		children[parent] = append(children[parent], cat)
	}
	sitesByCategory := make(map[uint][]SiteRecord)
	for _, site := range doc.Sites {
		sitesByCategory[site.CategoryID] = append(sitesByCategory[site.CategoryID], site)
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "---\n")
	fmt.Fprintf(&builder, "content_type: bookmarks\n")
	fmt.Fprintf(&builder, "created_at: %s\n", opts.Now.Format("2006-01-02"))
	fmt.Fprintf(&builder, "---\n\n")
	fmt.Fprintf(&builder, "# Bookmarks\n")

	visited := make(map[uint]bool, len(doc.Categories))
	var render func(cat CategoryRecord, depth int)
	render = func(cat CategoryRecord, depth int) {
		if visited[cat.ID] || (cat.IsPrivate && !opts.IncludePrivate) {
			return
		}
		visited[cat.ID] = true

		level := depth + 2
		if level > 6 {
			level = 6
		}
		fmt.Fprintf(&builder, "\n%s %s\n\n", strings.Repeat("#", level), cat.Name)
		for _, site := range sitesByCategory[cat.ID] {
			if site.IsPrivate && !opts.IncludePrivate {
				continue
			}
			writeSite(&builder, site)
		}
		for _, child := range children[cat.ID] {
			render(child, depth+1)
		}
	}
	for _, cat := range children[0] {
		render(cat, 0)
	}
	// Cycles are unreachable from the root.
	for _, cat := range doc.Categories {
		render(cat, 0)
	}

	return builder.String()
}

func writeSite(builder *strings.Builder, site SiteRecord) {
	name := strings.NewReplacer("[", "\\[", "]", "\\]").Replace(site.Name)
	fmt.Fprintf(builder, "- [%s](%s)", name, site.URL)
	if site.Description != nil && *site.Description != "" {
		fmt.Fprintf(builder, " - %s", strings.ReplaceAll(*site.Description, "\n", " "))
	}
	builder.WriteString("\n")
}
