package importers

import (
	"net/url"
	"strings"
)

// DefaultIconAPI is the favicon service used when none is configured.
const DefaultIconAPI = "https://favicon.im/"

// LogoResolver fills in missing or inline logos from a favicon service.
type LogoResolver struct {
	base   string
	suffix string
}

// NewLogoResolver creates a resolver for the given icon service base. An
// empty base selects DefaultIconAPI with its large-icon option.
func NewLogoResolver(base string) LogoResolver {
	base = strings.TrimSpace(base)
	if base == "" {
		return LogoResolver{base: DefaultIconAPI, suffix: "?larger=true"}
	}
	return LogoResolver{base: base}
}

// Resolve returns the logo to store for a site, or nil when there is none.
// A blank logo or an inline data: URI is replaced by a favicon service URL
// for the site's host when the site URL is http(s).
func (l LogoResolver) Resolve(siteURL, logo string) *string {
	logo = strings.TrimSpace(logo)
	if logo == "" || strings.HasPrefix(logo, "data:") {
		if host := httpHost(siteURL); host != "" {
			synthesized := l.base + host + l.suffix
			return &synthesized
		}
	}
	if logo == "" {
		return nil
	}
	return &logo
}

func httpHost(raw string) string {
	lower := strings.ToLower(raw)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return ""
	}
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		return u.Host
	}
	rest := raw[strings.Index(raw, "://")+3:]
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		rest = rest[:i]
	}
	return rest
}
