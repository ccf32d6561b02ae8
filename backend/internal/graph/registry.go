package graph

import (
	"sort"
	"unicode"
	"unicode/utf8"

	"socialgraph/backend/internal/constants"
	"socialgraph/backend/pkg/errors"
)

// registry is the identity registry: live accounts indexed by id and handle
type registry struct {
	byID     map[int]*Account
	byHandle map[string]*Account
	ids      idCounter
}

func newRegistry() *registry {
	return &registry{
		byID:     make(map[int]*Account),
		byHandle: make(map[string]*Account),
	}
}

// validateHandle enforces the handle format: non-empty, at most
// MaxHandleLength characters, no whitespace
func validateHandle(handle string) error {
	if handle == "" {
		return errors.NewInvalidHandle(handle, "cannot be empty")
	}
	if utf8.RuneCountInString(handle) > constants.MaxHandleLength {
		return errors.NewInvalidHandle(handle, "longer than 30 characters")
	}
	for _, r := range handle {
		if unicode.IsSpace(r) {
			return errors.NewInvalidHandle(handle, "contains whitespace")
		}
	}
	return nil
}

// checkAvailable validates a handle and ensures no live account holds it
func (r *registry) checkAvailable(handle string) error {
	if err := validateHandle(handle); err != nil {
		return err
	}
	if _, taken := r.byHandle[handle]; taken {
		return errors.NewHandleTaken(handle)
	}
	return nil
}

func (r *registry) byHandleOrErr(handle string) (*Account, error) {
	acc, ok := r.byHandle[handle]
	if !ok {
		return nil, errors.NewAccountNotFound(handle)
	}
	return acc, nil
}

func (r *registry) byIDOrErr(id int) (*Account, error) {
	acc, ok := r.byID[id]
	if !ok {
		return nil, errors.NewAccountIDNotFound(id)
	}
	return acc, nil
}

func (r *registry) add(handle, description string) *Account {
	acc := &Account{
		ID:          r.ids.next(),
		Handle:      handle,
		Description: description,
	}
	r.insert(acc)
	return acc
}

func (r *registry) insert(acc *Account) {
	r.byID[acc.ID] = acc
	r.byHandle[acc.Handle] = acc
}

func (r *registry) remove(acc *Account) {
	delete(r.byID, acc.ID)
	delete(r.byHandle, acc.Handle)
}

func (r *registry) rename(acc *Account, handle string) {
	delete(r.byHandle, acc.Handle)
	acc.Handle = handle
	r.byHandle[handle] = acc
}

// sorted returns the live accounts in ascending id order
func (r *registry) sorted() []*Account {
	out := make([]*Account, 0, len(r.byID))
	for _, acc := range r.byID {
		out = append(out, acc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// adjustPostCount and adjustEndorsementCount are the only entry points the
// content store uses to reach into the registry. Removed accounts are ignored.
func (r *registry) adjustPostCount(accountID, delta int) {
	if acc, ok := r.byID[accountID]; ok {
		acc.PostCount += delta
	}
}

func (r *registry) adjustEndorsementCount(accountID, delta int) {
	if acc, ok := r.byID[accountID]; ok {
		acc.EndorsementCount += delta
	}
}

func summarize(acc *Account) AccountSummary {
	return AccountSummary{
		ID:               acc.ID,
		Handle:           acc.Handle,
		Description:      acc.Description,
		PostCount:        acc.PostCount,
		EndorsementCount: acc.EndorsementCount,
	}
}
