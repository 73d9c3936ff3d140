package identity

import (
	"bytes"
	"errors"
	"testing"
)

const (
	testAddress = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

func TestURIRoundTrip(t *testing.T) {
	id, err := New(testAddress, "Ada's Agent", "eth-sepolia")
	if err != nil {
		t.Fatal(err)
	}
	parsed, err := Parse(id.URI())
	if err != nil {
		t.Fatalf("Parse(%q): %s", id.URI(), err)
	}
	if parsed != id {
		t.Errorf("round trip changed the identity: %+v vs %+v", parsed, id)
	}
}

func TestNewFillsDefaults(t *testing.T) {
	id, err := New(testAddress, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if id.Name != DefaultName {
		t.Errorf("name = %q", id.Name)
	}
	if id.Chain != "base-sepolia" {
		t.Errorf("chain = %q", id.Chain)
	}
}

func TestNewChecksumsAddress(t *testing.T) {
	id, err := New("0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266", "Bob", "")
	if err != nil {
		t.Fatal(err)
	}
	if id.Address != testAddress {
		t.Errorf("address not checksummed: %s", id.Address)
	}
}

func TestParseDefaults(t *testing.T) {
	parsed, err := Parse("agentpay:" + testAddress)
	if err != nil {
		t.Fatal(err)
	}
	if parsed.Name != DefaultName || parsed.Chain != "base-sepolia" {
		t.Errorf("defaults not applied: %+v", parsed)
	}
}

func TestParseIgnoresUnknownParams(t *testing.T) {
	parsed, err := Parse("agentpay:" + testAddress + "?name=Bob&hint=later&v=2")
	if err != nil {
		t.Fatal(err)
	}
	if parsed.Name != "Bob" {
		t.Errorf("name = %q", parsed.Name)
	}
}

func TestParseRejectsMalformedURIs(t *testing.T) {
	bad := []string{
		"",
		"bitcoin:" + testAddress,
		testAddress,
		"agentpay:",
		"agentpay:0x1234",
		"agentpay:not-an-address?name=Bob",
		"agentpay:" + testAddress + "?name=%zz",
	}
	for _, raw := range bad {
		if _, err := Parse(raw); !errors.Is(err, ErrInvalidURI) {
			t.Errorf("Parse(%q) = %v, want ErrInvalidURI", raw, err)
		}
	}
}

func TestQRPNG(t *testing.T) {
	id, err := New(testAddress, "Bob", "")
	if err != nil {
		t.Fatal(err)
	}
	png, err := id.QRPNG(256)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Errorf("output is not a PNG")
	}
}
