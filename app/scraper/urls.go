package scraper

import "strings"

// absoluteURL resolves href against the source's own base URL:
// scheme-relative links get the base scheme, root-relative links the origin,
// and everything else is joined to the origin with a slash.
func absoluteURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}

	scheme, origin := splitBase(base)

	if strings.HasPrefix(href, "//") {
		return scheme + ":" + href
	}
	if strings.HasPrefix(href, "/") {
		return origin + href
	}
	return origin + "/" + href
}

// splitBase returns the scheme and origin (scheme://host) of a base URL.
func splitBase(base string) (string, string) {
	base = strings.TrimSuffix(base, "/")
	scheme := "https"
	rest := base
	if idx := strings.Index(base, "://"); idx >= 0 {
		scheme = base[:idx]
		rest = base[idx+3:]
	}
	if idx := strings.IndexByte(rest, '/'); idx >= 0 {
		rest = rest[:idx]
	}
	return scheme, scheme + "://" + rest
}
