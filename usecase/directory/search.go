package directory

import (
	"strings"

	"github.com/fastygo/custdir/domain"
)

// Search matches query against phone numbers (substring, digits only),
// name tokens (union over the query's tokens) and email or tax id
// (case-insensitive substring). An empty query lists everything. Results are
// ordered like List.
func (uc *UseCase) Search(query string) []domain.CustomerWithStats {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return uc.listLocked()
	}

	matches := make(map[string]domain.CustomerWithStats)
	collect := func(id string) {
		if view, ok := uc.view(id); ok {
			matches[id] = view
		}
	}

	idx := uc.state.Indexes
	if isDigits(q) {
		for phone, id := range idx.ByPhone {
			if strings.Contains(phone, q) {
				collect(id)
			}
		}
	}

	for _, token := range domain.Tokenize(q) {
		for _, id := range idx.SearchTokens[token] {
			collect(id)
		}
	}

	for id, customer := range uc.state.Customers {
		if containsFold(customer.Email, q) || containsFold(customer.TaxID, q) {
			collect(id)
		}
	}

	out := make([]domain.CustomerWithStats, 0, len(matches))
	for _, view := range matches {
		out = append(out, view)
	}
	sortByRecentUpdate(out)
	return out
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// containsFold expects needle to be lowercase already.
func containsFold(haystack, needle string) bool {
	return haystack != "" && strings.Contains(strings.ToLower(haystack), needle)
}
