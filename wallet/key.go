// Package wallet handles the agent's signing identity: an ECDSA key loaded
// from a hex string or a key file, or freshly generated.
package wallet

import (
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// Key is a loaded signing identity. The private key never leaves this
// package: callers get the address and a SignTx method, nothing else.
type Key struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
}

type keyFile struct {
	Address    string `json:"address,omitempty"`
	PrivateKey string `json:"private_key"`
}

// FromHex parses a raw private key in hex, with or without 0x prefix.
func FromHex(hexKey string) (*Key, error) {
	cleaned := strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")
	privateKey, err := crypto.HexToECDSA(cleaned)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return &Key{
		privateKey: privateKey,
		address:    crypto.PubkeyToAddress(privateKey.PublicKey),
	}, nil
}

// FromFile loads a JSON key file with a private_key field.
func FromFile(path string) (*Key, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't read key file %s: %w", path, err)
	}
	var parsed keyFile
	if err = json.Unmarshal(content, &parsed); err != nil {
		return nil, fmt.Errorf("key file %s is not valid JSON: %w", path, err)
	}
	if parsed.PrivateKey == "" {
		return nil, fmt.Errorf("key file %s must contain a private_key field", path)
	}
	return FromHex(parsed.PrivateKey)
}

// Load picks the key source the way the CLI flags promise: an explicit
// --private-key wins over --key-file; having neither is an error.
func Load(keyFilePath, privateKeyHex string) (*Key, error) {
	if privateKeyHex != "" {
		return FromHex(privateKeyHex)
	}
	if keyFilePath != "" {
		return FromFile(keyFilePath)
	}
	return nil, fmt.Errorf("must provide either --key-file or --private-key")
}

// Generate creates a fresh random identity.
func Generate() (*Key, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("couldn't generate key: %w", err)
	}
	return &Key{
		privateKey: privateKey,
		address:    crypto.PubkeyToAddress(privateKey.PublicKey),
	}, nil
}

// SaveTo writes the key as a JSON key file readable by FromFile, mode 0600.
func (k *Key) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("couldn't create key dir: %w", err)
	}
	content, err := json.MarshalIndent(keyFile{
		Address:    k.address.Hex(),
		PrivateKey: common.Bytes2Hex(crypto.FromECDSA(k.privateKey)),
	}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, content, 0o600)
}

func (k *Key) Address() common.Address {
	return k.address
}

// SignTx signs tx for the given chain.
func (k *Key) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(k.privateKey, chainID)
	if err != nil {
		return nil, err
	}
	return opts.Signer(k.address, tx)
}
