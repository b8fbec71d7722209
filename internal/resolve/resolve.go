// Package resolve assigns a responsible party to transactions that lack
// one, using card-suffix rules with a fallback default.
package resolve

import (
	"strings"

	"homespend/internal/core"
)

// Household card assignments. Suffixes not listed here belong to the
// default individual.
const (
	DefaultResponsible = "ALVARO FERNANDO OVIEDO MATAMOROS"
)

// DefaultSuffixOwners maps card suffixes to their owners.
var DefaultSuffixOwners = map[string]string{
	"9366": "FIORELLA INFANTE AMORE",
	"2081": "LUIS ESTEBAN OVIEDO MATAMOROS",
	"4136": "LUIS ESTEBAN OVIEDO MATAMOROS",
}

// Resolver decides who is accountable for a transaction. It is pure and
// total: resolution never fails and row N never depends on row M.
type Resolver struct {
	owners       map[string]string
	defaultOwner string
}

// New builds a Resolver from a suffix lookup table and a default owner.
// Nil or empty arguments fall back to the household defaults.
func New(owners map[string]string, defaultOwner string) *Resolver {
	if owners == nil {
		owners = DefaultSuffixOwners
	}
	if defaultOwner == "" {
		defaultOwner = DefaultResponsible
	}
	return &Resolver{owners: owners, defaultOwner: defaultOwner}
}

// Owner returns the responsible party for a single transaction. An
// existing non-empty value is always trusted; otherwise the card suffix
// decides, defaulting when unknown or absent.
func (r *Resolver) Owner(t core.Transaction) string {
	if existing := strings.TrimSpace(t.Responsible); existing != "" {
		return existing
	}
	if owner, ok := r.owners[t.CardSuffix]; ok {
		return owner
	}
	return r.defaultOwner
}

// Apply fills the Responsible field of every transaction in place on the
// given slice and returns it.
func (r *Resolver) Apply(txs []core.Transaction) []core.Transaction {
	for i := range txs {
		txs[i].Responsible = r.Owner(txs[i])
	}
	return txs
}
