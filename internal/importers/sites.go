package importers

import (
	"strings"

	"github.com/mrlokans/navigator/internal/entities"
)

// SiteOutcome is the decision taken for one site descriptor.
type SiteOutcome int

const (
	SiteSkipped SiteOutcome = iota
	SiteInserted
	SiteUpdated
)

// SitePlan holds the writes planned for a payload and the outcome counters.
type SitePlan struct {
	Inserts []entities.Site
	Updates []entities.Site

	Inserted int
	Updated  int
	Skipped  int
}

// MergeOptions controls how the merger treats existing sites.
type MergeOptions struct {
	// Override updates sites whose URL already exists instead of skipping them.
	Override bool
}

// SiteMerger decides what to do with each payload site. It performs no I/O.
type SiteMerger struct {
	logos LogoResolver
}

// NewSiteMerger creates a merger using logos for favicon synthesis.
func NewSiteMerger(logos LogoResolver) *SiteMerger {
	return &SiteMerger{logos: logos}
}

// Plan builds the insert and update sets for sites. existing holds the URLs
// already present in the store. Only the first entry carrying a URL is
// considered; later repeats are skipped even when the first one was.
func (m *SiteMerger) Plan(p Payload, res *CategoryResolution, existing map[string]struct{}, opts MergeOptions) SitePlan {
	var plan SitePlan
	seen := make(map[string]bool, len(p.Sites))

	for _, desc := range p.Sites {
		site, outcome := m.decide(desc, p.Structured, res, existing, seen, opts)
		switch outcome {
		case SiteInserted:
			plan.Inserts = append(plan.Inserts, site)
			plan.Inserted++
		case SiteUpdated:
			plan.Updates = append(plan.Updates, site)
			plan.Updated++
		default:
			plan.Skipped++
		}
	}
	return plan
}

func (m *SiteMerger) decide(desc SiteDescriptor, structured bool, res *CategoryResolution, existing map[string]struct{}, seen map[string]bool, opts MergeOptions) (entities.Site, SiteOutcome) {
	name := strings.TrimSpace(desc.Name)
	siteURL := strings.TrimSpace(desc.URL)
	if name == "" || siteURL == "" {
		return entities.Site{}, SiteSkipped
	}
	if seen[siteURL] {
		return entities.Site{}, SiteSkipped
	}
	seen[siteURL] = true

	if structured && !desc.HasCategoryID {
		return entities.Site{}, SiteSkipped
	}

	var categoryID uint
	var ok bool
	if structured {
		categoryID, ok = res.Lookup(desc.CategoryID)
	} else {
		categoryID, ok = res.LookupName(legacyCategoryName(desc))
	}
	if !ok || categoryID == 0 {
		return entities.Site{}, SiteSkipped
	}
	category, ok := res.Category(categoryID)
	if !ok {
		return entities.Site{}, SiteSkipped
	}

	outcome := SiteInserted
	if _, found := existing[siteURL]; found {
		if !opts.Override {
			return entities.Site{}, SiteSkipped
		}
		outcome = SiteUpdated
	}

	site := entities.Site{
		Name:         name,
		URL:          siteURL,
		Logo:         m.logos.Resolve(siteURL, desc.Logo),
		Description:  optional(desc.Description),
		CategoryID:   category.ID,
		CategoryName: category.Name,
		SortOrder:    desc.SortOrder,
		IsPrivate:    desc.IsPrivate || category.IsPrivate,
	}
	return site, outcome
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
