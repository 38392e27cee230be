package asset

import (
	"path"
	"strings"
)

// Resolved is the output of address composition: the ordered candidate
// address list for one logical URI plus its file-extension-derived type
type Resolved struct {
	Addresses []string
	Extension string
}

// ResolveAddress composes concrete fetchable addresses from a base path
// and a caller-supplied input. Absolute inputs yield a single candidate;
// relative inputs are expanded across the base path and every configured
// mirror, in order, producing the fallback candidate list.
func ResolveAddress(basePath string, mirrors []string, input string) Resolved {
	ext := extensionOf(input)

	if isAbsolute(input) {
		return Resolved{Addresses: []string{input}, Extension: ext}
	}

	bases := make([]string, 0, 1+len(mirrors))
	if basePath != "" {
		bases = append(bases, basePath)
	}
	bases = append(bases, mirrors...)

	if len(bases) == 0 {
		return Resolved{Addresses: []string{input}, Extension: ext}
	}

	addresses := make([]string, 0, len(bases))
	for _, base := range bases {
		addresses = append(addresses, joinURL(base, input))
	}
	return Resolved{Addresses: addresses, Extension: ext}
}

func isAbsolute(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}

func joinURL(base, rel string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(rel, "/")
}

// extensionOf extracts the lowercased extension of the URI path,
// ignoring query string and fragment
func extensionOf(input string) string {
	if i := strings.IndexAny(input, "?#"); i >= 0 {
		input = input[:i]
	}
	return strings.ToLower(strings.TrimPrefix(path.Ext(input), "."))
}
