// Package identity implements the agentpay payment URI: a shareable string
// carrying an address plus display metadata, small enough for a QR code.
//
// Format: agentpay:<address>?name=<name>&chain=<network>
package identity

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/agentpay/agentpay/addr"
	"github.com/agentpay/agentpay/networks"
)

const Scheme = "agentpay"

// DefaultName labels identities shared without a name.
const DefaultName = "Unknown"

var ErrInvalidURI = errors.New("invalid payment URI")

// Identity is one shareable payment target. Address is always in checksum
// form; Name and Chain are display metadata, never authoritative.
type Identity struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Chain   string `json:"chain"`
}

// New builds an identity for address, filling in defaults for empty
// metadata. The address must be a valid hex address.
func New(address, name, chain string) (Identity, error) {
	canonical, err := addr.Canonicalize(address)
	if err != nil {
		return Identity{}, err
	}
	if name == "" {
		name = DefaultName
	}
	if chain == "" {
		chain = networks.DefaultNetworkName
	}
	return Identity{Address: canonical, Name: name, Chain: chain}, nil
}

// URI renders the identity in its wire form.
func (id Identity) URI() string {
	params := url.Values{}
	params.Set("name", id.Name)
	params.Set("chain", id.Chain)
	return fmt.Sprintf("%s:%s?%s", Scheme, id.Address, params.Encode())
}

// Parse decodes a payment URI. Unknown query parameters are ignored so the
// format can grow; anything structurally wrong is rejected outright, never
// partially accepted.
func Parse(raw string) (Identity, error) {
	rest, found := strings.CutPrefix(strings.TrimSpace(raw), Scheme+":")
	if !found {
		return Identity{}, fmt.Errorf("%w: missing %s: prefix", ErrInvalidURI, Scheme)
	}

	address, query, _ := strings.Cut(rest, "?")
	canonical, err := addr.Canonicalize(address)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %s", ErrInvalidURI, err)
	}

	params, err := url.ParseQuery(query)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: bad query: %s", ErrInvalidURI, err)
	}
	name := params.Get("name")
	if name == "" {
		name = DefaultName
	}
	chain := params.Get("chain")
	if chain == "" {
		chain = networks.DefaultNetworkName
	}
	return Identity{Address: canonical, Name: name, Chain: chain}, nil
}

// QRPNG renders the identity URI as a PNG QR code, size pixels square.
func (id Identity) QRPNG(size int) ([]byte, error) {
	return qrcode.Encode(id.URI(), qrcode.Medium, size)
}

// WriteQRPNG writes the QR code straight to a file.
func (id Identity) WriteQRPNG(path string, size int) error {
	return qrcode.WriteFile(id.URI(), qrcode.Medium, size, path)
}
