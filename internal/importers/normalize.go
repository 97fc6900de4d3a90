package importers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/mrlokans/navigator/internal/entities"
)

// DefaultCategoryName is used for legacy sites without a category.
const DefaultCategoryName = "Default"

// ForeignID is a category identifier supplied by the payload. It is only
// meaningful inside that payload and is never a store id.
type ForeignID string

// RootID is the payload id of the implicit root category.
const RootID ForeignID = "0"

// IsRoot reports whether id refers to the root. Missing ids count as root.
func (id ForeignID) IsRoot() bool {
	return id == RootID || id == ""
}

// compare orders ids numerically when both are integers, lexically otherwise.
// Missing ids sort as 0.
func (id ForeignID) compare(other ForeignID) int {
	a, aerr := strconv.ParseInt(string(id.orRoot()), 10, 64)
	b, berr := strconv.ParseInt(string(other.orRoot()), 10, 64)
	if aerr == nil && berr == nil {
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	}
	return strings.Compare(string(id), string(other))
}

func (id ForeignID) orRoot() ForeignID {
	if id == "" {
		return RootID
	}
	return id
}

// CategoryDescriptor is one category entry of a structured payload.
type CategoryDescriptor struct {
	ID        ForeignID
	Name      string
	ParentID  ForeignID
	SortOrder int
	IsPrivate bool
}

// SiteDescriptor is one site entry of either payload shape.
type SiteDescriptor struct {
	Name        string
	URL         string
	Logo        string
	Description string
	SortOrder   int
	IsPrivate   bool

	// Structured payloads reference categories by payload id.
	CategoryID    ForeignID
	HasCategoryID bool

	// Legacy payloads name the category inline.
	CategoryName string
}

// Payload is the normalized form of an import request body.
type Payload struct {
	Categories []CategoryDescriptor
	Sites      []SiteDescriptor
	Structured bool
	Override   bool
}

// Decode reads a JSON document and normalizes it.
func Decode(r io.Reader) (Payload, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return Normalize(raw)
}

// DecodeBytes is Decode for an in-memory document.
func DecodeBytes(data []byte) (Payload, error) {
	return Decode(bytes.NewReader(data))
}

// Normalize converts a decoded JSON value into a Payload. It only checks the
// overall shape; field values are validated by later stages.
func Normalize(raw any) (Payload, error) {
	switch v := raw.(type) {
	case map[string]any:
		cats, catsOK := v["category"].([]any)
		sites, sitesOK := v["sites"].([]any)
		if !catsOK || !sitesOK {
			return Payload{}, ErrInvalidFormat
		}

		p := Payload{
			Structured: true,
			Override:   Truthy(v["override"]),
			Categories: make([]CategoryDescriptor, 0, len(cats)),
			Sites:      make([]SiteDescriptor, 0, len(sites)),
		}
		for _, item := range cats {
			p.Categories = append(p.Categories, categoryFromJSON(asObject(item)))
		}
		for _, item := range sites {
			p.Sites = append(p.Sites, siteFromJSON(asObject(item)))
		}
		return p, nil

	case []any:
		p := Payload{Sites: make([]SiteDescriptor, 0, len(v))}
		for _, item := range v {
			p.Sites = append(p.Sites, siteFromJSON(asObject(item)))
		}
		return p, nil
	}
	return Payload{}, ErrInvalidFormat
}

func categoryFromJSON(obj map[string]any) CategoryDescriptor {
	parent := toForeignID(obj["parent_id"])
	if parent == "" {
		parent = RootID
	}
	return CategoryDescriptor{
		ID:        toForeignID(obj["id"]),
		Name:      toString(obj["catelog"]),
		ParentID:  parent,
		SortOrder: NormalizeSortOrder(obj["sort_order"]),
		IsPrivate: Truthy(obj["is_private"]),
	}
}

func siteFromJSON(obj map[string]any) SiteDescriptor {
	site := SiteDescriptor{
		Name:         toString(obj["name"]),
		URL:          toString(obj["url"]),
		Logo:         toString(obj["logo"]),
		Description:  toString(obj["desc"]),
		SortOrder:    NormalizeSortOrder(obj["sort_order"]),
		IsPrivate:    Truthy(obj["is_private"]),
		CategoryName: toString(obj["catelog"]),
	}
	if raw, ok := obj["catelog_id"]; ok && raw != nil {
		site.CategoryID = toForeignID(raw)
		site.HasCategoryID = true
	}
	return site
}

func asObject(v any) map[string]any {
	if obj, ok := v.(map[string]any); ok {
		return obj
	}
	return map[string]any{}
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	return ""
}

// Truthy interprets a loosely typed JSON flag: true, non-zero numbers, and
// the strings "true" and "1".
func Truthy(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case json.Number:
		f, err := b.Float64()
		return err == nil && f != 0
	case float64:
		return b != 0
	case string:
		s := strings.TrimSpace(strings.ToLower(b))
		return s == "true" || s == "1"
	}
	return false
}

// toForeignID canonicalizes payload ids so that 1, 1.0 and "1" are equal.
func toForeignID(v any) ForeignID {
	s := strings.TrimSpace(toString(v))
	if s == "" {
		return ""
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ForeignID(strconv.FormatInt(n, 10))
	}
	// Whole floats are only folded when they fit in int64; anything larger
	// keeps its literal text so distinct ids never share a key.
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) &&
		f >= math.MinInt64 && f < math.MaxInt64 {
		return ForeignID(strconv.FormatInt(int64(f), 10))
	}
	return ForeignID(s)
}

// NormalizeSortOrder returns the numeric sort order rounded to the nearest
// integer, or the unordered sentinel when the value is missing or not a
// finite number.
func NormalizeSortOrder(v any) int {
	var f float64
	switch n := v.(type) {
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return entities.DefaultSortOrder
		}
		f = parsed
	case float64:
		f = n
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return entities.DefaultSortOrder
		}
		f = parsed
	default:
		return entities.DefaultSortOrder
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return entities.DefaultSortOrder
	}
	f = math.Round(f)
	if f > math.MaxInt32 || f < math.MinInt32 {
		return entities.DefaultSortOrder
	}
	return int(f)
}
