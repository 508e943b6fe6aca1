// internal/service/listing/domain/filter.go
package domain

import "strings"

// All resets a filter predicate.
const All = "all"

// Filter is the browse filter. Subcategory only applies together with a
// concrete Category.
type Filter struct {
	Category    string
	Subcategory string
	Search      string
}

func (f Filter) Matches(l *Listing) bool {
	if f.Category != "" && f.Category != All {
		if l.Category != f.Category {
			return false
		}
		if f.Subcategory != "" && f.Subcategory != All && l.Subcategory != f.Subcategory {
			return false
		}
	}
	term := strings.ToLower(strings.TrimSpace(f.Search))
	if term == "" {
		return true
	}
	for _, field := range []string{l.Title, l.Description, l.OwnerName, l.OwnerNickname} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// Apply keeps the listings matching f, preserving order.
func (f Filter) Apply(listings []*Listing) []*Listing {
	out := make([]*Listing, 0, len(listings))
	for _, l := range listings {
		if f.Matches(l) {
			out = append(out, l)
		}
	}
	return out
}
