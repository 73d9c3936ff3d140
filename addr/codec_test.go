package addr

import (
	"errors"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

const vitalik = "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045"

func TestCanonicalizeEquivalentForms(t *testing.T) {
	inputs := []string{
		vitalik,
		strings.ToLower(vitalik),
		strings.ToUpper(strings.TrimPrefix(vitalik, "0x")),
		strings.TrimPrefix(vitalik, "0x"),
	}
	for _, in := range inputs {
		got, err := Canonicalize(in)
		if err != nil {
			t.Fatalf("Canonicalize(%q): %s", in, err)
		}
		if got != vitalik {
			t.Errorf("Canonicalize(%q) = %s, want %s", in, got, vitalik)
		}
	}
}

func TestCanonicalizeIdempotent(t *testing.T) {
	once, err := Canonicalize(strings.ToLower(vitalik))
	if err != nil {
		t.Fatal(err)
	}
	twice, err := Canonicalize(once)
	if err != nil {
		t.Fatal(err)
	}
	if once != twice {
		t.Errorf("canonicalize is not idempotent: %s != %s", once, twice)
	}
}

func TestCanonicalizeRejectsGarbage(t *testing.T) {
	bad := []string{
		"",
		"0x",
		"0x123",
		"hello",
		vitalik + "00",
		"0xd8dA6BF26964aF9D7eEd9e03E53415D37aA9604g",
	}
	for _, in := range bad {
		if _, err := Canonicalize(in); !errors.Is(err, ErrInvalidAddress) {
			t.Errorf("Canonicalize(%q): want ErrInvalidAddress, got %v", in, err)
		}
	}
}

func TestDeriveDeterministicAddress(t *testing.T) {
	factory := common.HexToAddress("0x4e59b44847b379578588920cA78FbF26c0B4956C")
	var salt, initCodeHash [32]byte
	copy(salt[:], []byte("agentpay salt one"))
	copy(initCodeHash[:], common.Hex2Bytes("c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"))

	first := DeriveDeterministicAddress(factory, salt, initCodeHash)
	second := DeriveDeterministicAddress(factory, salt, initCodeHash)
	if first != second {
		t.Fatalf("derivation is not deterministic: %s != %s", first.Hex(), second.Hex())
	}

	var otherSalt [32]byte
	copy(otherSalt[:], []byte("agentpay salt two"))
	if got := DeriveDeterministicAddress(factory, otherSalt, initCodeHash); got == first {
		t.Errorf("distinct salts derived the same address %s", got.Hex())
	}

	otherFactory := common.HexToAddress("0x0000000000000000000000000000000000000001")
	if got := DeriveDeterministicAddress(otherFactory, salt, initCodeHash); got == first {
		t.Errorf("distinct factories derived the same address %s", got.Hex())
	}

	var otherHash [32]byte
	otherHash[0] = 0x01
	if got := DeriveDeterministicAddress(factory, salt, otherHash); got == first {
		t.Errorf("distinct init code hashes derived the same address %s", got.Hex())
	}
}

// Known vector from EIP-1014 example 1: factory 0x00...00, salt 0, init code
// hash keccak256(0x00) derives 0x4D1A2e2bB4F88F0250f26Ffff098B0b30B26BF38.
func TestDeriveDeterministicAddressVector(t *testing.T) {
	var salt [32]byte
	var initCodeHash [32]byte
	copy(initCodeHash[:], common.Hex2Bytes("bc36789e7a1e281436464229828f817d6612f7b477d66591ff96a9e064bcc98a"))

	got := DeriveDeterministicAddress(common.Address{}, salt, initCodeHash)
	want := common.HexToAddress("0x4D1A2e2bB4F88F0250f26Ffff098B0b30B26BF38")
	if got != want {
		t.Errorf("derived %s, want %s", got.Hex(), want.Hex())
	}
}
