package contacts

import (
	"os"
	"path/filepath"
	"testing"
)

const bobAddress = "0x2222222222222222222222222222222222222222"

func tempBook(t *testing.T) *Book {
	t.Helper()
	book, err := Open(filepath.Join(t.TempDir(), "contacts.json"))
	if err != nil {
		t.Fatal(err)
	}
	return book
}

func TestOpenMissingFileIsEmptyBook(t *testing.T) {
	book := tempBook(t)
	if book.Len() != 0 {
		t.Errorf("fresh book has %d entries", book.Len())
	}
}

func TestAddPersistsAndChecksums(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.json")
	book, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}

	contact, err := book.Add("Bob", "0x2222222222222222222222222222222222222222", "base-sepolia", AddedViaManual)
	if err != nil {
		t.Fatal(err)
	}
	if contact.Address != bobAddress {
		t.Errorf("stored address %s", contact.Address)
	}
	if contact.AddedVia != AddedViaManual {
		t.Errorf("stored via %s", contact.AddedVia)
	}

	// the file is the source of truth: a second Open must see the entry
	reopened, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	got, found := reopened.Get("Bob")
	if !found {
		t.Fatal("Bob not found after reopen")
	}
	if got.Address != bobAddress {
		t.Errorf("reloaded address %s", got.Address)
	}
}

func TestAddRejectsInvalidAddress(t *testing.T) {
	book := tempBook(t)
	if _, err := book.Add("Bob", "not-an-address", "base-sepolia", AddedViaManual); err == nil {
		t.Errorf("expected invalid address error")
	}
}

func TestAddOverwritesWholesale(t *testing.T) {
	book := tempBook(t)
	if _, err := book.Add("Bob", bobAddress, "base-sepolia", AddedViaQR); err != nil {
		t.Fatal(err)
	}
	other := "0x3333333333333333333333333333333333333333"
	if _, err := book.Add("Bob", other, "eth-sepolia", AddedViaManual); err != nil {
		t.Fatal(err)
	}
	contact, _ := book.Get("Bob")
	if contact.Chain != "eth-sepolia" || contact.AddedVia != AddedViaManual {
		t.Errorf("overwrite kept stale fields: %+v", contact)
	}
}

func TestGetIsCaseSensitive(t *testing.T) {
	book := tempBook(t)
	if _, err := book.Add("Bob", bobAddress, "base-sepolia", AddedViaManual); err != nil {
		t.Fatal(err)
	}
	if _, found := book.Get("bOB"); found {
		t.Errorf("exact lookup matched a different case")
	}
}

func TestRemove(t *testing.T) {
	book := tempBook(t)
	if _, err := book.Add("Bob", bobAddress, "base-sepolia", AddedViaManual); err != nil {
		t.Fatal(err)
	}
	removed, err := book.Remove("Bob")
	if err != nil || !removed {
		t.Fatalf("remove = %v, %v", removed, err)
	}
	removed, err = book.Remove("Bob")
	if err != nil || removed {
		t.Errorf("second remove = %v, %v", removed, err)
	}
}

func TestSearchSubstringCaseInsensitive(t *testing.T) {
	book := tempBook(t)
	book.Add("Coffee Shop", bobAddress, "base-sepolia", AddedViaManual)
	book.Add("Alice", "0x3333333333333333333333333333333333333333", "base-sepolia", AddedViaManual)

	hits := book.Search("coffee")
	if len(hits) != 1 {
		t.Fatalf("search hits = %d", len(hits))
	}
	if _, found := hits["Coffee Shop"]; !found {
		t.Errorf("missing expected hit")
	}
	if len(book.Search("zzz")) != 0 {
		t.Errorf("search matched nothing expected")
	}
}

func TestSaveLeavesNoTempFileBehind(t *testing.T) {
	dir := t.TempDir()
	book, err := Open(filepath.Join(dir, "contacts.json"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err = book.Add("Bob", bobAddress, "base-sepolia", AddedViaManual); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range entries {
		if entry.Name() != "contacts.json" {
			t.Errorf("unexpected leftover file %s", entry.Name())
		}
	}
}
