package model

import "strings"

// Matches reports whether the record contains query, case-insensitively, in
// any LIN, the nomenclature, the partial NSN or the alternate name. Size is
// not searched. An empty query matches everything.
func Matches(e Equipment, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, lin := range e.LIN {
		if containsFold(lin, q) {
			return true
		}
	}
	return containsFold(e.Nomenclature, q) ||
		containsFold(e.PartialNSN, q) ||
		containsFold(e.AnotherName, q)
}

// Filter returns the records matching query in their original order.
func Filter(list []Equipment, query string) []Equipment {
	out := make([]Equipment, 0, len(list))
	for _, e := range list {
		if Matches(e, query) {
			out = append(out, e)
		}
	}
	return out
}

// containsFold expects q to be lower-cased already.
func containsFold(s, q string) bool {
	return strings.Contains(strings.ToLower(s), q)
}
