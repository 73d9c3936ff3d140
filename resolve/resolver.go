// Package resolve turns whatever the user typed after --to into an
// address: a contact name, a raw hex address, a name-service handle, or a
// rough recollection of a contact name.
package resolve

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/agentpay/agentpay/addr"
	"github.com/agentpay/agentpay/contacts"
)

var (
	ErrUnknownRecipient   = errors.New("unknown recipient")
	ErrAmbiguousRecipient = errors.New("ambiguous recipient")
	ErrNameService        = errors.New("name service lookup failed")
)

// Kind tags which resolution rule produced an address.
type Kind string

const (
	KindContacts    Kind = "contacts"
	KindRawAddress  Kind = "rawAddress"
	KindNameService Kind = "nameService"
	KindFuzzy       Kind = "fuzzy"
)

// Resolved is the output of a successful resolution: a checksummed address
// plus the rule that matched. MatchedName is set when a contact matched.
type Resolved struct {
	Kind        Kind   `json:"kind"`
	Address     string `json:"address"`
	MatchedName string `json:"matchedName,omitempty"`
}

// NameService resolves an external human-readable handle (e.g. an ENS
// name) to an address.
type NameService interface {
	Resolve(name string) (string, error)
}

type Resolver struct {
	book     *contacts.Book
	ns       NameService
	suffixes []string
}

// New builds a resolver over the given contact book. ns may be nil, in
// which case name-service handles fall through to the remaining rules.
func New(book *contacts.Book, ns NameService) *Resolver {
	return &Resolver{
		book:     book,
		ns:       ns,
		suffixes: []string{".eth"},
	}
}

// Resolve applies the resolution rules in fixed precedence order, first
// match wins:
//
//  1. exact contact name (case sensitive)
//  2. raw hex address
//  3. name-service handle (recognized suffix)
//
// Near-miss contact names fail with ErrUnknownRecipient here; guessing at
// what the user meant is ResolveFuzzy's job and has to be asked for.
func (r *Resolver) Resolve(input string) (Resolved, error) {
	return r.resolve(input, false)
}

// ResolveFuzzy applies the same rules as Resolve plus a final one: a
// case-insensitive substring match over contact names. Exactly one hit
// resolves with KindFuzzy, zero or multiple hits fail.
func (r *Resolver) ResolveFuzzy(input string) (Resolved, error) {
	return r.resolve(input, true)
}

func (r *Resolver) resolve(input string, fuzzyMatch bool) (Resolved, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Resolved{}, fmt.Errorf("%w: empty recipient", ErrUnknownRecipient)
	}

	if contact, found := r.book.Get(input); found {
		return Resolved{Kind: KindContacts, Address: contact.Address, MatchedName: input}, nil
	}

	if addr.IsAddress(input) {
		canonical, err := addr.Canonicalize(input)
		if err != nil {
			return Resolved{}, err
		}
		return Resolved{Kind: KindRawAddress, Address: canonical}, nil
	}

	if r.ns != nil && r.hasServiceSuffix(input) {
		resolved, err := r.ns.Resolve(input)
		if err != nil {
			return Resolved{}, fmt.Errorf("%w: %s: %s", ErrNameService, input, err)
		}
		canonical, err := addr.Canonicalize(resolved)
		if err != nil {
			return Resolved{}, fmt.Errorf("%w: %s returned %q", ErrNameService, input, resolved)
		}
		return Resolved{Kind: KindNameService, Address: canonical}, nil
	}

	if !fuzzyMatch {
		if suggestions := r.suggest(input); len(suggestions) > 0 {
			return Resolved{}, fmt.Errorf(
				"%w: %s (did you mean %s? use fuzzy matching to accept close names)",
				ErrUnknownRecipient, input, strings.Join(suggestions, ", "),
			)
		}
		return Resolved{}, fmt.Errorf("%w: %s", ErrUnknownRecipient, input)
	}

	hits := r.book.Search(input)
	switch len(hits) {
	case 1:
		for name, contact := range hits {
			return Resolved{Kind: KindFuzzy, Address: contact.Address, MatchedName: name}, nil
		}
	case 0:
		if suggestions := r.suggest(input); len(suggestions) > 0 {
			return Resolved{}, fmt.Errorf(
				"%w: %s (did you mean %s?)",
				ErrUnknownRecipient, input, strings.Join(suggestions, ", "),
			)
		}
		return Resolved{}, fmt.Errorf("%w: %s", ErrUnknownRecipient, input)
	}
	return Resolved{}, fmt.Errorf(
		"%w: %s matches %s",
		ErrAmbiguousRecipient, input, strings.Join(rankNames(input, hits), ", "),
	)
}

func (r *Resolver) hasServiceSuffix(input string) bool {
	lowered := strings.ToLower(input)
	for _, suffix := range r.suffixes {
		if strings.HasSuffix(lowered, suffix) && len(lowered) > len(suffix) {
			return true
		}
	}
	return false
}

// suggest ranks all contact names against the input and returns the top
// candidates for a "did you mean" hint.
func (r *Resolver) suggest(input string) []string {
	matches := fuzzy.Find(input, r.book.Names())
	result := []string{}
	for i, m := range matches {
		if i == 3 {
			break
		}
		result = append(result, m.Str)
	}
	return result
}

// rankNames orders ambiguous substring hits best-match-first so the error
// message leads with the likeliest candidates.
func rankNames(input string, hits map[string]contacts.Contact) []string {
	names := make([]string, 0, len(hits))
	for name := range hits {
		names = append(names, name)
	}
	sort.Strings(names)
	matches := fuzzy.Find(input, names)
	if len(matches) != len(names) {
		return names
	}
	ranked := make([]string, 0, len(matches))
	for _, m := range matches {
		ranked = append(ranked, m.Str)
	}
	return ranked
}
