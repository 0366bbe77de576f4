package auth

import "strings"

// PublicPaths is the configured allow-list of endpoints reachable without
// authentication. Entries are exact paths, or prefixes when they end in '*'.
// The list is enumerated explicitly in configuration; nothing is guessed.
type PublicPaths struct {
	exact    map[string]struct{}
	prefixes []string
}

// NewPublicPaths parses allow-list entries.
func NewPublicPaths(entries []string) *PublicPaths {
	p := &PublicPaths{exact: make(map[string]struct{}, len(entries))}
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.HasSuffix(entry, "*") {
			p.prefixes = append(p.prefixes, strings.TrimSuffix(entry, "*"))
			continue
		}
		p.exact[entry] = struct{}{}
	}
	return p
}

// Match reports whether the request path is on the allow-list.
func (p *PublicPaths) Match(path string) bool {
	if _, ok := p.exact[path]; ok {
		return true
	}
	for _, prefix := range p.prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
