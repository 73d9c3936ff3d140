package resolve

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ContractCaller is the single chain operation ENS resolution needs.
type ContractCaller interface {
	CallContract(msg ethereum.CallMsg) ([]byte, error)
}

// DefaultENSRegistry is the registry deployed at the same address on
// mainnet and the public testnets.
var DefaultENSRegistry = common.HexToAddress("0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e")

const ensRegistryABI = `[{
	"constant": true,
	"inputs": [{"name": "node", "type": "bytes32"}],
	"name": "resolver",
	"outputs": [{"name": "", "type": "address"}],
	"type": "function"
}]`

const ensResolverABI = `[{
	"constant": true,
	"inputs": [{"name": "node", "type": "bytes32"}],
	"name": "addr",
	"outputs": [{"name": "", "type": "address"}],
	"type": "function"
}]`

// ENS resolves *.eth handles through the on-chain registry: look up the
// name's resolver contract, then ask it for the address record.
type ENS struct {
	client   ContractCaller
	registry common.Address

	registryABI abi.ABI
	resolverABI abi.ABI
}

func NewENS(client ContractCaller) *ENS {
	return NewENSWithRegistry(client, DefaultENSRegistry)
}

func NewENSWithRegistry(client ContractCaller, registry common.Address) *ENS {
	registryParsed, err := abi.JSON(strings.NewReader(ensRegistryABI))
	if err != nil {
		panic(err)
	}
	resolverParsed, err := abi.JSON(strings.NewReader(ensResolverABI))
	if err != nil {
		panic(err)
	}
	return &ENS{
		client:      client,
		registry:    registry,
		registryABI: registryParsed,
		resolverABI: resolverParsed,
	}
}

func (e *ENS) Resolve(name string) (string, error) {
	node := Namehash(name)

	resolver, err := e.callForAddress(e.registry, e.registryABI, "resolver", node)
	if err != nil {
		return "", err
	}
	if resolver == (common.Address{}) {
		return "", fmt.Errorf("no resolver registered for %s", name)
	}

	resolved, err := e.callForAddress(resolver, e.resolverABI, "addr", node)
	if err != nil {
		return "", err
	}
	if resolved == (common.Address{}) {
		return "", fmt.Errorf("%s has no address record", name)
	}
	return resolved.Hex(), nil
}

func (e *ENS) callForAddress(contract common.Address, parsed abi.ABI, method string, node common.Hash) (common.Address, error) {
	data, err := parsed.Pack(method, node)
	if err != nil {
		return common.Address{}, err
	}
	output, err := e.client.CallContract(ethereum.CallMsg{
		To:   &contract,
		Data: data,
	})
	if err != nil {
		return common.Address{}, err
	}
	result, err := parsed.Unpack(method, output)
	if err != nil {
		return common.Address{}, fmt.Errorf("couldn't unpack %s result: %w", method, err)
	}
	address, ok := result[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("unexpected %s result type %T", method, result[0])
	}
	return address, nil
}

// Namehash implements the EIP-137 recursive name hash. Names are lowered
// before hashing; full UTS-46 normalization is out of scope.
func Namehash(name string) common.Hash {
	node := common.Hash{}
	if name == "" {
		return node
	}
	labels := strings.Split(strings.ToLower(name), ".")
	for i := len(labels) - 1; i >= 0; i-- {
		labelHash := crypto.Keccak256Hash([]byte(labels[i]))
		node = crypto.Keccak256Hash(node.Bytes(), labelHash.Bytes())
	}
	return node
}
