package extract

import "strings"

// DefaultExcludedRoles matches presiding officers and other procedural
// speakers across the supported sources.
var DefaultExcludedRoles = []string{"président", "présidence", "talmannen"}

// Filter decides whether a speech fragment qualifies for ingestion or
// aggregation.
type Filter struct {
	MinWords      int
	ExcludedRoles []string
}

// NewFilter builds a filter; nil roles fall back to the defaults.
func NewFilter(minWords int, roles []string) Filter {
	if roles == nil {
		roles = DefaultExcludedRoles
	}
	return Filter{MinWords: minWords, ExcludedRoles: roles}
}

// Keep reports whether a fragment by the named speaker passes the
// procedural-role exclusion list and the minimum word count.
func (f Filter) Keep(name, text string) bool {
	lower := strings.ToLower(name)
	for _, role := range f.ExcludedRoles {
		if role != "" && strings.Contains(lower, role) {
			return false
		}
	}
	if f.MinWords > 0 && len(strings.Fields(text)) < f.MinWords {
		return false
	}
	return true
}
