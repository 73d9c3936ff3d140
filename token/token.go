package token

import (
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
)

// ContractCaller is the single chain operation token reads need. Satisfied
// by *chain.Client; tests inject a fake.
type ContractCaller interface {
	CallContract(msg ethereum.CallMsg) ([]byte, error)
}

// metadataCache memoizes decimals and symbols per token contract for the
// process lifetime. Token metadata is constant on chain, so one read per
// process is enough.
var metadataCache = struct {
	sync.Mutex
	decimals map[common.Address]uint8
	symbols  map[common.Address]string
}{
	decimals: map[common.Address]uint8{},
	symbols:  map[common.Address]string{},
}

func call(client ContractCaller, contract common.Address, method string, args ...interface{}) ([]interface{}, error) {
	data, err := parsedABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("couldn't pack %s call: %w", method, err)
	}
	output, err := client.CallContract(ethereum.CallMsg{
		To:   &contract,
		Data: data,
	})
	if err != nil {
		return nil, err
	}
	result, err := parsedABI.Unpack(method, output)
	if err != nil {
		return nil, fmt.Errorf("couldn't unpack %s result from %s: %w", method, contract.Hex(), err)
	}
	return result, nil
}

// Decimals reads the token's decimal count, cached per contract.
func Decimals(client ContractCaller, contract common.Address) (uint8, error) {
	metadataCache.Lock()
	cached, found := metadataCache.decimals[contract]
	metadataCache.Unlock()
	if found {
		return cached, nil
	}

	result, err := call(client, contract, "decimals")
	if err != nil {
		return 0, err
	}
	decimals, ok := result[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("unexpected decimals type %T from %s", result[0], contract.Hex())
	}

	metadataCache.Lock()
	metadataCache.decimals[contract] = decimals
	metadataCache.Unlock()
	return decimals, nil
}

// Symbol reads the token's ticker symbol, cached per contract.
func Symbol(client ContractCaller, contract common.Address) (string, error) {
	metadataCache.Lock()
	cached, found := metadataCache.symbols[contract]
	metadataCache.Unlock()
	if found {
		return cached, nil
	}

	result, err := call(client, contract, "symbol")
	if err != nil {
		return "", err
	}
	symbol, ok := result[0].(string)
	if !ok {
		return "", fmt.Errorf("unexpected symbol type %T from %s", result[0], contract.Hex())
	}
	symbol = strings.TrimSpace(symbol)

	metadataCache.Lock()
	metadataCache.symbols[contract] = symbol
	metadataCache.Unlock()
	return symbol, nil
}

// BalanceOf reads owner's token balance in minor units. Never cached.
func BalanceOf(client ContractCaller, contract, owner common.Address) (*big.Int, error) {
	result, err := call(client, contract, "balanceOf", owner)
	if err != nil {
		return nil, err
	}
	balance, ok := result[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected balance type %T from %s", result[0], contract.Hex())
	}
	return balance, nil
}

// PackTransfer builds transfer(to, amount) calldata.
func PackTransfer(to common.Address, amount *big.Int) ([]byte, error) {
	return parsedABI.Pack("transfer", to, amount)
}
