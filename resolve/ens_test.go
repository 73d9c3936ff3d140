package resolve

import (
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
)

// fakeChain answers registry and resolver calls from canned 32-byte
// address words, keyed by the called contract.
type fakeChain struct {
	answers map[common.Address]common.Address
}

func (f *fakeChain) CallContract(msg ethereum.CallMsg) ([]byte, error) {
	answer := f.answers[*msg.To]
	return common.LeftPadBytes(answer.Bytes(), 32), nil
}

func TestENSResolve(t *testing.T) {
	resolver := common.HexToAddress("0x4976fb03C32e5B8cfe2b6cCB31c09Ba78EBaBa41")
	owner := common.HexToAddress("0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045")
	chain := &fakeChain{
		answers: map[common.Address]common.Address{
			DefaultENSRegistry: resolver,
			resolver:           owner,
		},
	}

	got, err := NewENS(chain).Resolve("vitalik.eth")
	if err != nil {
		t.Fatal(err)
	}
	if got != owner.Hex() {
		t.Errorf("resolved %s, want %s", got, owner.Hex())
	}
}

func TestENSResolveNoResolver(t *testing.T) {
	chain := &fakeChain{answers: map[common.Address]common.Address{}}
	if _, err := NewENS(chain).Resolve("nobody.eth"); err == nil {
		t.Errorf("expected an error when no resolver is registered")
	}
}
