// Package urlnorm URL canonicalization.
package urlnorm

import (
	"fmt"
	"net/url"
	"strings"
)

// Policy controls which query parameters survive normalization.
//
// Parameters matching VolatileParams (exact, case-insensitive) or
// VolatilePrefixes are stripped; everything else is kept because it may
// carry identity (explicit size or version keys served by image CDNs).
type Policy struct {
	// VolatileParams are query parameter names stripped during
	// normalization. Matching is case-insensitive.
	VolatileParams []string

	// VolatilePrefixes are query parameter name prefixes stripped during
	// normalization (e.g. "utm_").
	VolatilePrefixes []string
}

// DefaultPolicy returns the normalization policy used when no site
// configuration overrides it. It strips common tracking and cache-busting
// tokens while keeping size/quality keys that change which bytes a CDN
// serves.
func DefaultPolicy() Policy {
	return Policy{
		VolatileParams: []string{
			"fbclid",
			"gclid",
			"cb",
			"cachebust",
			"v",
		},
		VolatilePrefixes: []string{
			"utm_",
		},
	}
}

// isVolatile reports whether the query parameter name should be stripped.
func (p Policy) isVolatile(name string) bool {
	lower := strings.ToLower(name)
	for _, v := range p.VolatileParams {
		if lower == v {
			return true
		}
	}
	for _, prefix := range p.VolatilePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// Normalize canonicalizes raw into an absolute URL string. Relative inputs
// are resolved against base (which must itself be absolute when raw is
// relative). The result is a fixed point of Normalize.
//
// Transformations applied, in order:
//   - resolve against base
//   - lowercase scheme and host
//   - drop default ports (:80 for http, :443 for https)
//   - drop the fragment
//   - strip volatile query parameters per policy, preserving the relative
//     order of survivors
//   - collapse duplicate path separators
func Normalize(raw, base string, pol Policy) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyURL
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}

	if !u.IsAbs() {
		if base == "" {
			return "", fmt.Errorf("%w: relative URL %q with no base", ErrInvalidURL, raw)
		}
		b, err := url.Parse(base)
		if err != nil || !b.IsAbs() {
			return "", fmt.Errorf("%w: base %q", ErrInvalidURL, base)
		}
		u = b.ResolveReference(u)
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, scheme)
	}
	u.Scheme = scheme
	u.Host = strings.ToLower(u.Host)

	// Default ports add nothing to identity.
	switch {
	case scheme == "http" && strings.HasSuffix(u.Host, ":80"):
		u.Host = strings.TrimSuffix(u.Host, ":80")
	case scheme == "https" && strings.HasSuffix(u.Host, ":443"):
		u.Host = strings.TrimSuffix(u.Host, ":443")
	}

	u.Fragment = ""
	u.Path = collapseSlashes(u.Path)
	u.RawQuery = filterQuery(u.RawQuery, pol)

	return u.String(), nil
}

// filterQuery removes volatile parameters while keeping the survivors in
// their original order. Re-encoding through url.Values would sort keys and
// break the order-preservation guarantee.
func filterQuery(rawQuery string, pol Policy) string {
	if rawQuery == "" {
		return ""
	}

	var kept []string
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		name := pair
		if i := strings.IndexByte(pair, '='); i >= 0 {
			name = pair[:i]
		}
		decoded, err := url.QueryUnescape(name)
		if err != nil {
			decoded = name
		}
		if pol.isVolatile(decoded) {
			continue
		}
		kept = append(kept, pair)
	}
	return strings.Join(kept, "&")
}

// collapseSlashes replaces runs of path separators with a single one.
// Duplicate separators are a common artifact of naive string concatenation
// in sitemap generators and never change which resource is served.
func collapseSlashes(path string) string {
	if !strings.Contains(path, "//") {
		return path
	}
	var b strings.Builder
	b.Grow(len(path))
	prevSlash := false
	for _, r := range path {
		if r == '/' {
			if prevSlash {
				continue
			}
			prevSlash = true
		} else {
			prevSlash = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
