package importers

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mrlokans/navigator/internal/entities"
)

// CategoryStore is the storage the resolver reads existing categories from
// and inserts new ones into.
type CategoryStore interface {
	ListCategories(ctx context.Context) ([]entities.Category, error)
	// CreateCategory inserts cat and sets its ID. When an equal (name,
	// parent) pair already exists, cat is replaced by the stored row and
	// created is false.
	CreateCategory(ctx context.Context, cat *entities.Category) (created bool, err error)
}

// RemapTable maps payload category ids to store ids.
type RemapTable map[ForeignID]uint

type categoryKey struct {
	name     string
	parentID uint
}

// CategoryResolution is the output of category resolution: the id remap
// table plus an in-memory view of every category known after the pass.
type CategoryResolution struct {
	Remap   RemapTable
	Created int
	Matched int

	categories []entities.Category
	byKey      map[categoryKey]int
	byID       map[uint]int
	byName     map[string]uint
}

func newCategoryResolution(existing []entities.Category) *CategoryResolution {
	res := &CategoryResolution{
		Remap:      RemapTable{},
		categories: make([]entities.Category, 0, len(existing)),
		byKey:      make(map[categoryKey]int, len(existing)),
		byID:       make(map[uint]int, len(existing)),
		byName:     make(map[string]uint, len(existing)),
	}
	for _, cat := range existing {
		res.add(cat)
	}
	return res
}

func (r *CategoryResolution) add(cat entities.Category) {
	r.categories = append(r.categories, cat)
	idx := len(r.categories) - 1
	r.byKey[categoryKey{cat.Name, cat.ParentID}] = idx
	r.byID[cat.ID] = idx

	// Legacy lookups prefer top-level categories, then the oldest match.
	if prev, ok := r.byName[cat.Name]; ok {
		prevCat := r.categories[r.byID[prev]]
		if prevCat.ParentID == entities.RootCategoryID || cat.ParentID != entities.RootCategoryID {
			return
		}
	}
	r.byName[cat.Name] = cat.ID
}

func (r *CategoryResolution) find(name string, parentID uint) (entities.Category, bool) {
	idx, ok := r.byKey[categoryKey{name, parentID}]
	if !ok {
		return entities.Category{}, false
	}
	return r.categories[idx], true
}

// Category returns the category with the given store id.
func (r *CategoryResolution) Category(id uint) (entities.Category, bool) {
	idx, ok := r.byID[id]
	if !ok {
		return entities.Category{}, false
	}
	return r.categories[idx], true
}

// Lookup maps a payload id to a store id.
func (r *CategoryResolution) Lookup(id ForeignID) (uint, bool) {
	storeID, ok := r.Remap[id]
	return storeID, ok
}

// LookupName maps a legacy category name to a store id.
func (r *CategoryResolution) LookupName(name string) (uint, bool) {
	id, ok := r.byName[name]
	return id, ok
}

// Categories returns the categories known after resolution.
func (r *CategoryResolution) Categories() []entities.Category {
	return r.categories
}

// CategoryResolver maps payload categories onto store categories.
type CategoryResolver struct {
	store CategoryStore
}

// NewCategoryResolver creates a resolver backed by store.
func NewCategoryResolver(store CategoryStore) *CategoryResolver {
	return &CategoryResolver{store: store}
}

// ValidateCategories checks every descriptor has a non-blank name.
func ValidateCategories(cats []CategoryDescriptor) error {
	for i, cat := range cats {
		if strings.TrimSpace(cat.Name) == "" {
			return fmt.Errorf("%w: category #%d (id %q) is missing its 'catelog' name", ErrValidation, i+1, string(cat.ID))
		}
	}
	return nil
}

// OrderCategories orders cats so that every category follows its parent.
// Each round takes the categories whose parent is already placed, sorted by
// payload id. When a round places nothing (a cycle, or a parent that is not
// in the payload), the categories left over are returned as orphans in their
// input order instead of looping further.
func OrderCategories(cats []CategoryDescriptor) (ordered, orphans []CategoryDescriptor) {
	ordered = make([]CategoryDescriptor, 0, len(cats))
	placed := map[ForeignID]bool{RootID: true}
	remaining := append([]CategoryDescriptor(nil), cats...)

	for len(remaining) > 0 {
		var ready, notReady []CategoryDescriptor
		for _, cat := range remaining {
			if placed[cat.ParentID.orRoot()] {
				ready = append(ready, cat)
			} else {
				notReady = append(notReady, cat)
			}
		}

		if len(ready) == 0 {
			return ordered, notReady
		}

		sort.SliceStable(ready, func(i, j int) bool {
			return ready[i].ID.compare(ready[j].ID) < 0
		})
		for _, cat := range ready {
			if cat.ID != "" {
				placed[cat.ID] = true
			}
		}
		ordered = append(ordered, ready...)
		remaining = notReady
	}
	return ordered, nil
}

// Resolve validates the payload categories and maps each of them to a store
// id, inserting categories that do not exist yet. Legacy payloads have their
// categories derived from the site names instead. Validation failures
// happen before any write.
func (r *CategoryResolver) Resolve(ctx context.Context, p Payload) (*CategoryResolution, error) {
	if p.Structured {
		if err := ValidateCategories(p.Categories); err != nil {
			return nil, err
		}
	}

	existing, err := r.store.ListCategories(ctx)
	if err != nil {
		return nil, backendError("list categories", err)
	}
	res := newCategoryResolution(existing)

	if p.Structured {
		err = r.resolveStructured(ctx, res, p.Categories)
	} else {
		err = r.resolveLegacy(ctx, res, p.Sites)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *CategoryResolver) resolveStructured(ctx context.Context, res *CategoryResolution, cats []CategoryDescriptor) error {
	ordered, orphans := OrderCategories(cats)
	if len(orphans) > 0 {
		log.Warn("categories with cyclic or missing parents attached to root", "count", len(orphans))
	}

	for _, desc := range ordered {
		parentID := entities.RootCategoryID
		if !desc.ParentID.IsRoot() {
			parentID = res.Remap[desc.ParentID]
		}
		if err := r.resolveOne(ctx, res, desc, parentID); err != nil {
			return err
		}
	}
	for _, desc := range orphans {
		if err := r.resolveOne(ctx, res, desc, entities.RootCategoryID); err != nil {
			return err
		}
	}
	return nil
}

func (r *CategoryResolver) resolveOne(ctx context.Context, res *CategoryResolution, desc CategoryDescriptor, parentID uint) error {
	id, err := r.ensure(ctx, res, entities.Category{
		Name:      strings.TrimSpace(desc.Name),
		ParentID:  parentID,
		SortOrder: desc.SortOrder,
		IsPrivate: desc.IsPrivate,
	})
	if err != nil {
		return err
	}
	if desc.ID != "" {
		res.Remap[desc.ID] = id
	}
	return nil
}

func (r *CategoryResolver) resolveLegacy(ctx context.Context, res *CategoryResolution, sites []SiteDescriptor) error {
	seen := make(map[string]bool)
	for _, site := range sites {
		name := legacyCategoryName(site)
		if seen[name] {
			continue
		}
		seen[name] = true

		if _, ok := res.byName[name]; ok {
			res.Matched++
			continue
		}
		if _, err := r.ensure(ctx, res, entities.Category{
			Name:      name,
			ParentID:  entities.RootCategoryID,
			SortOrder: entities.DefaultSortOrder,
		}); err != nil {
			return err
		}
	}
	return nil
}

// ensure returns the id of the (name, parent) category, inserting it when
// the in-memory view has no such pair.
func (r *CategoryResolver) ensure(ctx context.Context, res *CategoryResolution, cat entities.Category) (uint, error) {
	if existing, ok := res.find(cat.Name, cat.ParentID); ok {
		res.Matched++
		return existing.ID, nil
	}

	created, err := r.store.CreateCategory(ctx, &cat)
	if err != nil {
		return 0, backendError(fmt.Sprintf("create category %q", cat.Name), err)
	}
	if created {
		res.Created++
	} else {
		res.Matched++
	}
	res.add(cat)
	return cat.ID, nil
}

func legacyCategoryName(site SiteDescriptor) string {
	name := strings.TrimSpace(site.CategoryName)
	if name == "" {
		return DefaultCategoryName
	}
	return name
}
