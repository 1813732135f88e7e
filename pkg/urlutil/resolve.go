package urlutil

import (
	"net/url"
	"strings"
)

// Resolve turns an href value found on a crawled page into an absolute URL.
// Already-absolute URLs pass through unchanged, protocol-relative URLs inherit
// the base scheme, root-relative paths inherit scheme and host, and anything
// else is resolved against the base with standard reference semantics.
// The second return value is false for malformed input; callers skip the link.
func Resolve(raw string, base string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	// Scheme-qualified means the URL itself parses as absolute; a substring
	// scan would be fooled by absolute URLs embedded in a relative query
	// string, as redirect links do.
	if ref, err := url.Parse(raw); err == nil && ref.IsAbs() {
		return raw, true
	}

	baseURL, err := url.Parse(base)
	if err != nil || baseURL.Scheme == "" || baseURL.Host == "" {
		return "", false
	}

	if strings.HasPrefix(raw, "//") {
		return baseURL.Scheme + ":" + raw, true
	}
	if strings.HasPrefix(raw, "/") {
		return baseURL.Scheme + "://" + baseURL.Host + raw, true
	}

	ref, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	return baseURL.ResolveReference(ref).String(), true
}

// Hostname extracts the host part of a URL, without port. Returns the input
// untouched when it does not parse as a URL.
func Hostname(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return raw
	}
	return u.Hostname()
}
