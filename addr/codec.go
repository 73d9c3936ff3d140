// Package addr validates and canonicalizes account addresses and derives
// deterministic contract addresses.
package addr

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrInvalidAddress is returned when an input is not 20 bytes of hex.
var ErrInvalidAddress = errors.New("invalid address")

// Canonicalize parses raw as a 20-byte hex address, with or without the 0x
// prefix and in any letter case, and returns the EIP-55 checksummed form.
// All representations of the same bytes canonicalize to identical output.
func Canonicalize(raw string) (string, error) {
	if !common.IsHexAddress(raw) {
		return "", fmt.Errorf("%w: %s", ErrInvalidAddress, raw)
	}
	return common.HexToAddress(raw).Hex(), nil
}

// IsAddress reports whether raw would be accepted by Canonicalize.
func IsAddress(raw string) bool {
	return common.IsHexAddress(raw)
}

// Parse canonicalizes raw into its binary form.
func Parse(raw string) (common.Address, error) {
	if !common.IsHexAddress(raw) {
		return common.Address{}, fmt.Errorf("%w: %s", ErrInvalidAddress, raw)
	}
	return common.HexToAddress(raw), nil
}

// DeriveDeterministicAddress computes the CREATE2 address a factory would
// deploy to for the given salt and init code hash:
//
//	keccak256(0xff ++ factory ++ salt ++ initCodeHash)[12:]
//
// Pure function of its inputs, so two parties can agree on a contract
// address before anything is deployed.
func DeriveDeterministicAddress(factory common.Address, salt [32]byte, initCodeHash [32]byte) common.Address {
	return crypto.CreateAddress2(factory, salt, initCodeHash[:])
}
