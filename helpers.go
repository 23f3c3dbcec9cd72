package pubsite

import (
	"net/url"
	"strings"
)

// Slugify converts a title to a URL-safe slug. Letters outside ASCII are
// dropped, so titles written entirely in other scripts produce "".
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// FilterEmpty trims every value and drops the empty ones.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// safeSegment reports whether s can be used as a single output path segment.
func safeSegment(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}

// decodeTag undoes the path escaping of a tag taken from a URL. Tags that do
// not decode are returned unchanged, matching dataset.ByTag.
func decodeTag(tag string) string {
	if decoded, err := url.PathUnescape(tag); err == nil {
		return decoded
	}
	return tag
}
