package urlutil

import (
	"net/url"
	"sort"
	"strings"
)

// Param is one name=value pair of a parameterized request.
type Param struct {
	Name  string
	Value string
}

// CanonicalKey builds the cache identity of a parameterized request.
//
// The key is base followed by the "name=value" pairs sorted by name and
// joined with "&". Values are not escaped, so the key stays readable and
// matches the request as a human would write it.
//
// Properties:
//   - Deterministic: any permutation of params yields the same key
//   - Pure: params is not modified
func CanonicalKey(base string, params []Param) string {
	sorted := make([]Param, len(params))
	copy(sorted, params)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Name == sorted[j].Name {
			return sorted[i].Value < sorted[j].Value
		}
		return sorted[i].Name < sorted[j].Name
	})

	pairs := make([]string, 0, len(sorted))
	for _, p := range sorted {
		pairs = append(pairs, p.Name+"="+p.Value)
	}
	return base + strings.Join(pairs, "&")
}

// Values converts params into url.Values for building the outbound request.
func Values(params []Param) url.Values {
	values := url.Values{}
	for _, p := range params {
		values.Add(p.Name, p.Value)
	}
	return values
}

// Join composes an absolute URL from a base and relative segments,
// collapsing the slashes between segments. A segment that is already an
// absolute URL replaces everything before it.
func Join(base string, segments ...string) string {
	joined := strings.TrimRight(base, "/")
	for _, segment := range segments {
		if isAbsolute(segment) {
			joined = strings.TrimRight(segment, "/")
			continue
		}
		trimmed := strings.Trim(segment, "/")
		if trimmed == "" {
			continue
		}
		joined += "/" + trimmed
	}
	return joined
}

func isAbsolute(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.IsAbs() && u.Host != ""
}
