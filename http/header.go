package http

import (
	"net/textproto"
	"sort"
	"strings"
)

// Headers maps header names to a single value. Names are stored in canonical
// form, so every lookup is case-insensitive and a repeated name overwrites the
// earlier value.
//
// Not map[string][]string, unlike net/http.Header
type Headers map[string]string

func (h Headers) Get(name string) string {
	return h[headerKey(name)]
}

func (h Headers) Lookup(name string) (string, bool) {
	v, ok := h[headerKey(name)]
	return v, ok
}

func (h Headers) Set(name, value string) {
	h[headerKey(name)] = value
}

func (h Headers) Del(name string) {
	delete(h, headerKey(name))
}

// Keys returns the header names in sorted order.
func (h Headers) Keys() []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// headerKey canonicalizes token names like textproto does. Names textproto
// leaves untouched (spaces, non-token bytes) are lower-cased instead.
func headerKey(name string) string {
	for i := 0; i < len(name); i++ {
		if !isTokenByte(name[i]) {
			return strings.ToLower(name)
		}
	}
	return textproto.CanonicalMIMEHeaderKey(name)
}

// isTokenByte reports whether c may appear in an RFC 7230 token.
func isTokenByte(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("!#$%&'*+-.^_`|~", c) >= 0
}
