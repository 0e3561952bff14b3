package directory

import (
	"sort"

	"github.com/fastygo/custdir/domain"
)

// checkUnique rejects customer when another id already holds its phone,
// email or tax id.
func (uc *UseCase) checkUnique(customer domain.Customer) error {
	idx := uc.state.Indexes
	if taken(idx.ByPhone, customer.Phone, customer.ID) {
		return domain.ErrDuplicatePhone
	}
	if taken(idx.ByEmail, customer.Email, customer.ID) {
		return domain.ErrDuplicateEmail
	}
	if taken(idx.ByTaxID, customer.TaxID, customer.ID) {
		return domain.ErrDuplicateTaxID
	}
	return nil
}

// register indexes customer. When previous is set its entries are removed first.
func (uc *UseCase) register(customer domain.Customer, previous *domain.Customer) {
	if previous != nil {
		uc.unregister(*previous)
	}
	idx := &uc.state.Indexes
	bind(idx.ByPhone, customer.Phone, customer.ID)
	bind(idx.ByEmail, customer.Email, customer.ID)
	bind(idx.ByTaxID, customer.TaxID, customer.ID)
	for _, token := range domain.Tokenize(customer.Name) {
		idx.SearchTokens[token] = insertSorted(idx.SearchTokens[token], customer.ID)
	}
}

func (uc *UseCase) unregister(customer domain.Customer) {
	idx := &uc.state.Indexes
	unbind(idx.ByPhone, customer.Phone, customer.ID)
	unbind(idx.ByEmail, customer.Email, customer.ID)
	unbind(idx.ByTaxID, customer.TaxID, customer.ID)
	for _, token := range domain.Tokenize(customer.Name) {
		ids := removeSorted(idx.SearchTokens[token], customer.ID)
		if len(ids) == 0 {
			delete(idx.SearchTokens, token)
			continue
		}
		idx.SearchTokens[token] = ids
	}
}

func taken(index map[string]string, key, id string) bool {
	if key == "" {
		return false
	}
	owner, ok := index[key]
	return ok && owner != id
}

func bind(index map[string]string, key, id string) {
	if key != "" {
		index[key] = id
	}
}

// unbind only drops key when it still points at id.
func unbind(index map[string]string, key, id string) {
	if key == "" {
		return
	}
	if index[key] == id {
		delete(index, key)
	}
}

func insertSorted(ids []string, id string) []string {
	i := sort.SearchStrings(ids, id)
	if i < len(ids) && ids[i] == id {
		return ids
	}
	ids = append(ids, "")
	copy(ids[i+1:], ids[i:])
	ids[i] = id
	return ids
}

func removeSorted(ids []string, id string) []string {
	i := sort.SearchStrings(ids, id)
	if i == len(ids) || ids[i] != id {
		return ids
	}
	return append(ids[:i], ids[i+1:]...)
}
