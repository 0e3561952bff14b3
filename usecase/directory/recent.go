package directory

import "github.com/fastygo/custdir/domain"

// touch moves id to the front of the recency list, bounded to RecentLimit.
func (uc *UseCase) touch(id string) {
	recent := make([]string, 0, domain.RecentLimit)
	recent = append(recent, id)
	for _, existing := range uc.state.Indexes.Recent {
		if len(recent) == domain.RecentLimit {
			break
		}
		if existing != id {
			recent = append(recent, existing)
		}
	}
	uc.state.Indexes.Recent = recent
}

// forget drops id from the recency list.
func (uc *UseCase) forget(id string) {
	recent := uc.state.Indexes.Recent[:0]
	for _, existing := range uc.state.Indexes.Recent {
		if existing != id {
			recent = append(recent, existing)
		}
	}
	uc.state.Indexes.Recent = recent
}
