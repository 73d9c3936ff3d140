// Package contacts is the local phone book: it maps human names to agent
// addresses so "pay Alice" works without remembering hex.
//
// The JSON file is the source of truth. It is read fully on open and
// rewritten fully on every mutation through a temp file plus atomic rename,
// so a crash mid-write never leaves a half-written book behind.
package contacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/agentpay/agentpay/addr"
)

const (
	AddedViaManual = "manual"
	AddedViaQR     = "qr"
)

// Contact is one phone book entry. Entries are replaced wholesale on
// re-add, never partially updated.
type Contact struct {
	Address  string `json:"address"`
	Chain    string `json:"chain"`
	AddedAt  string `json:"addedAt"`
	AddedVia string `json:"addedVia"`
}

type Book struct {
	path     string
	contacts map[string]Contact
}

// DefaultPath returns ~/.agentpay/contacts.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("couldn't locate home dir: %w", err)
	}
	return filepath.Join(home, ".agentpay", "contacts.json"), nil
}

// Open loads the book at path. A missing file is an empty book, not an
// error.
func Open(path string) (*Book, error) {
	book := &Book{
		path:     path,
		contacts: map[string]Contact{},
	}
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return book, nil
	}
	if err != nil {
		return nil, fmt.Errorf("couldn't read contact book %s: %w", path, err)
	}
	if err = json.Unmarshal(content, &book.contacts); err != nil {
		return nil, fmt.Errorf("contact book %s is corrupted: %w", path, err)
	}
	return book, nil
}

func (b *Book) save() error {
	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return fmt.Errorf("couldn't create contact book dir: %w", err)
	}
	content, err := json.MarshalIndent(b.contacts, "", "  ")
	if err != nil {
		return err
	}
	tmp := b.path + ".tmp"
	if err = os.WriteFile(tmp, content, 0o644); err != nil {
		return fmt.Errorf("couldn't write contact book: %w", err)
	}
	return os.Rename(tmp, b.path)
}

// Add validates and checksums address, then stores it under name. An
// existing entry with the same name is overwritten wholesale.
func (b *Book) Add(name, address, chain, via string) (Contact, error) {
	if strings.TrimSpace(name) == "" {
		return Contact{}, fmt.Errorf("contact name must not be empty")
	}
	canonical, err := addr.Canonicalize(address)
	if err != nil {
		return Contact{}, err
	}
	contact := Contact{
		Address:  canonical,
		Chain:    chain,
		AddedAt:  time.Now().UTC().Format(time.RFC3339),
		AddedVia: via,
	}
	b.contacts[name] = contact
	if err = b.save(); err != nil {
		return Contact{}, err
	}
	return contact, nil
}

// Get looks up a contact by exact name. Lookups are case sensitive on
// purpose: fuzzy matching is an explicit, separate resolution step.
func (b *Book) Get(name string) (Contact, bool) {
	contact, found := b.contacts[name]
	return contact, found
}

// Remove deletes the named contact and reports whether it existed.
func (b *Book) Remove(name string) (bool, error) {
	if _, found := b.contacts[name]; !found {
		return false, nil
	}
	delete(b.contacts, name)
	return true, b.save()
}

// List returns a copy of all entries.
func (b *Book) List() map[string]Contact {
	result := make(map[string]Contact, len(b.contacts))
	for name, contact := range b.contacts {
		result[name] = contact
	}
	return result
}

// Names returns all contact names, sorted.
func (b *Book) Names() []string {
	result := make([]string, 0, len(b.contacts))
	for name := range b.contacts {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// Search returns entries whose name contains query, case-insensitively.
func (b *Book) Search(query string) map[string]Contact {
	q := strings.ToLower(query)
	result := map[string]Contact{}
	for name, contact := range b.contacts {
		if strings.Contains(strings.ToLower(name), q) {
			result[name] = contact
		}
	}
	return result
}

func (b *Book) Len() int {
	return len(b.contacts)
}
