package token

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

type fakeCaller struct {
	calls  int
	output []byte
	err    error
}

func (f *fakeCaller) CallContract(msg ethereum.CallMsg) ([]byte, error) {
	f.calls++
	return f.output, f.err
}

func TestTransferEventTopic(t *testing.T) {
	// canonical ERC-20 Transfer topic, same constant every explorer shows
	want := "0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"
	if TransferEventTopic.Hex() != want {
		t.Errorf("TransferEventTopic = %s, want %s", TransferEventTopic.Hex(), want)
	}
}

func TestAddressTopic(t *testing.T) {
	address := common.HexToAddress("0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045")
	got := AddressTopic(address)
	want := "0x000000000000000000000000d8da6bf26964af9d7eed9e03e53415d37aa96045"
	if got.Hex() != want {
		t.Errorf("AddressTopic = %s, want %s", got.Hex(), want)
	}
}

func TestParseTransferLog(t *testing.T) {
	from := common.HexToAddress("0x1111111111111111111111111111111111111111")
	to := common.HexToAddress("0x2222222222222222222222222222222222222222")
	log := types.Log{
		Topics: []common.Hash{
			TransferEventTopic,
			AddressTopic(from),
			AddressTopic(to),
		},
		Data:        common.LeftPadBytes(big.NewInt(20000000).Bytes(), 32),
		BlockNumber: 42,
		Index:       3,
		TxHash:      common.HexToHash("0xabc1"),
	}

	transfer, err := ParseTransferLog(log)
	if err != nil {
		t.Fatal(err)
	}
	if transfer.From != from || transfer.To != to {
		t.Errorf("decoded parties %s -> %s", transfer.From.Hex(), transfer.To.Hex())
	}
	if transfer.Amount.Cmp(big.NewInt(20000000)) != 0 {
		t.Errorf("decoded amount %s, want 20000000", transfer.Amount)
	}
	if transfer.BlockNumber != 42 || transfer.LogIndex != 3 {
		t.Errorf("decoded position %d[%d]", transfer.BlockNumber, transfer.LogIndex)
	}
}

func TestParseTransferLogRejectsForeignEvents(t *testing.T) {
	log := types.Log{
		Topics: []common.Hash{common.HexToHash("0xdead")},
	}
	if _, err := ParseTransferLog(log); err == nil {
		t.Errorf("expected an error for a non-transfer log")
	}
}

func TestDecimalsCachedPerContract(t *testing.T) {
	contract := common.HexToAddress("0x00000000000000000000000000000000000d5e01")
	caller := &fakeCaller{
		output: common.LeftPadBytes([]byte{6}, 32),
	}

	first, err := Decimals(caller, contract)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Decimals(caller, contract)
	if err != nil {
		t.Fatal(err)
	}
	if first != 6 || second != 6 {
		t.Errorf("decimals = %d then %d, want 6", first, second)
	}
	if caller.calls != 1 {
		t.Errorf("decimals hit the chain %d times, want 1", caller.calls)
	}
}

func TestPackTransferSelector(t *testing.T) {
	data, err := PackTransfer(common.HexToAddress("0x2222222222222222222222222222222222222222"), big.NewInt(1))
	if err != nil {
		t.Fatal(err)
	}
	// transfer(address,uint256) selector
	if got := common.Bytes2Hex(data[:4]); got != "a9059cbb" {
		t.Errorf("selector = %s, want a9059cbb", got)
	}
	if len(data) != 4+32+32 {
		t.Errorf("calldata length = %d", len(data))
	}
}
