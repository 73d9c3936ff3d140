package wallet

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// well-known test vector: this key's address is the hardhat/anvil account 0
const (
	knownKey     = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	knownAddress = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

func TestFromHex(t *testing.T) {
	for _, in := range []string{knownKey, "0x" + knownKey, " " + knownKey + " "} {
		key, err := FromHex(in)
		if err != nil {
			t.Fatalf("FromHex(%q): %s", in, err)
		}
		if key.Address().Hex() != knownAddress {
			t.Errorf("address = %s, want %s", key.Address().Hex(), knownAddress)
		}
	}
}

func TestFromHexRejectsGarbage(t *testing.T) {
	if _, err := FromHex("zzzz"); err == nil {
		t.Errorf("expected an error for a non-hex key")
	}
}

func TestKeyFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent-key.json")

	generated, err := Generate()
	if err != nil {
		t.Fatal(err)
	}
	if err = generated.SaveTo(path); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("key file mode = %o, want 600", info.Mode().Perm())
	}

	loaded, err := FromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Address() != generated.Address() {
		t.Errorf("reloaded address %s, want %s", loaded.Address().Hex(), generated.Address().Hex())
	}
}

func TestLoadPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent-key.json")
	other, err := Generate()
	if err != nil {
		t.Fatal(err)
	}
	if err = other.SaveTo(path); err != nil {
		t.Fatal(err)
	}

	// explicit private key wins over the key file
	key, err := Load(path, knownKey)
	if err != nil {
		t.Fatal(err)
	}
	if key.Address().Hex() != knownAddress {
		t.Errorf("Load preferred the key file over --private-key")
	}

	if _, err = Load("", ""); err == nil {
		t.Errorf("expected an error when no key source is given")
	}
}

func TestGenerateProducesUniqueIdentities(t *testing.T) {
	a, err := Generate()
	if err != nil {
		t.Fatal(err)
	}
	b, err := Generate()
	if err != nil {
		t.Fatal(err)
	}
	if a.Address() == b.Address() {
		t.Errorf("two generated identities share address %s", a.Address().Hex())
	}
}

func TestSignTx(t *testing.T) {
	key, err := FromHex(knownKey)
	if err != nil {
		t.Fatal(err)
	}
	to := common.HexToAddress("0x2222222222222222222222222222222222222222")
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    0,
		GasPrice: big.NewInt(1000000000),
		Gas:      60000,
		To:       &to,
		Value:    big.NewInt(0),
	})

	chainID := big.NewInt(84532)
	signed, err := key.SignTx(tx, chainID)
	if err != nil {
		t.Fatal(err)
	}

	sender, err := types.Sender(types.LatestSignerForChainID(chainID), signed)
	if err != nil {
		t.Fatal(err)
	}
	if sender.Hex() != knownAddress {
		t.Errorf("recovered sender %s, want %s", sender.Hex(), knownAddress)
	}
}
