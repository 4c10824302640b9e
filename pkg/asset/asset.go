// Package asset defines the typed asset identifiers exchanged by the
// matching core: a 4-byte class tag plus an opaque ABI-encoded payload
// (token contract, and a token id for non-fungible kinds).
package asset

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

// Class is the 4-byte kind tag of an asset, derived from a keccak256
// hash of a human-readable name (same scheme the EVM uses for function
// selectors). Custom kinds use the same derivation.
type Class [4]byte

// ClassOf derives the class tag for a named asset kind.
// ClassOf("ERC20") == keccak256("ERC20")[:4].
func ClassOf(name string) Class {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(name))
	var c Class
	copy(c[:], h.Sum(nil)[:4])
	return c
}

// Well-known classes. Derived once at init; never recomputed on the
// matching path.
var (
	ETH     = ClassOf("ETH")
	ERC20   = ClassOf("ERC20")
	ERC721  = ClassOf("ERC721")
	ERC1155 = ClassOf("ERC1155")
)

func (c Class) Hex() string { return fmt.Sprintf("0x%x", c[:]) }

// Kind partitions classes into the closed set of settlement behaviors.
type Kind int8

const (
	Native      Kind = iota // chain-native currency, moved by value
	Fungible                // ERC20-style balance transfer
	NonFungible             // ERC721-style single-unit ownership
	MultiToken              // ERC1155-style per-id balances
	Custom                  // extensible kinds; not settleable by the built-in ledger
)

func (k Kind) String() string {
	switch k {
	case Native:
		return "native"
	case Fungible:
		return "fungible"
	case NonFungible:
		return "non-fungible"
	case MultiToken:
		return "multi-token"
	case Custom:
		return "custom"
	default:
		return "unknown"
	}
}

// Kind resolves the settlement behavior of a class.
func (c Class) Kind() Kind {
	switch c {
	case ETH:
		return Native
	case ERC20:
		return Fungible
	case ERC721:
		return NonFungible
	case ERC1155:
		return MultiToken
	default:
		return Custom
	}
}

// Type identifies an asset: class tag plus encoded payload.
// Two Types are equal iff both fields match byte-exactly; the matcher
// never does partial or fuzzy matching.
type Type struct {
	Class Class
	Data  []byte
}

// Equal reports byte-exact equality of class and data.
func (t Type) Equal(o Type) bool {
	return t.Class == o.Class && bytes.Equal(t.Data, o.Data)
}

// Asset is a typed amount, counted in smallest units.
// For non-fungible kinds the value is a unit multiplier and must
// reconcile exactly between paired legs.
type Asset struct {
	Type  Type
	Value *big.Int
}

// ABI argument layouts for asset data payloads.
var (
	addressArgs   abi.Arguments
	addressIDArgs abi.Arguments
)

func init() {
	addressType, err := abi.NewType("address", "", nil)
	if err != nil {
		panic(fmt.Errorf("abi address type: %w", err))
	}
	uint256Type, err := abi.NewType("uint256", "", nil)
	if err != nil {
		panic(fmt.Errorf("abi uint256 type: %w", err))
	}
	addressArgs = abi.Arguments{{Type: addressType}}
	addressIDArgs = abi.Arguments{{Type: addressType}, {Type: uint256Type}}
}

// EncodeTokenData ABI-encodes a single token contract address.
// Used for fungible and native kinds.
func EncodeTokenData(token common.Address) []byte {
	data, err := addressArgs.Pack(token)
	if err != nil {
		panic(fmt.Errorf("pack token data: %w", err))
	}
	return data
}

// EncodeTokenIDData ABI-encodes a token contract address and token id.
// Used for non-fungible and multi-token kinds.
func EncodeTokenIDData(token common.Address, tokenID *big.Int) []byte {
	data, err := addressIDArgs.Pack(token, tokenID)
	if err != nil {
		panic(fmt.Errorf("pack token id data: %w", err))
	}
	return data
}

// DecodeTokenData decodes the token contract address from a fungible
// asset payload.
func DecodeTokenData(data []byte) (common.Address, error) {
	vals, err := addressArgs.Unpack(data)
	if err != nil {
		return common.Address{}, fmt.Errorf("decode token data: %w", err)
	}
	return vals[0].(common.Address), nil
}

// DecodeTokenIDData decodes the token contract address and token id
// from a non-fungible or multi-token asset payload.
func DecodeTokenIDData(data []byte) (common.Address, *big.Int, error) {
	vals, err := addressIDArgs.Unpack(data)
	if err != nil {
		return common.Address{}, nil, fmt.Errorf("decode token id data: %w", err)
	}
	return vals[0].(common.Address), vals[1].(*big.Int), nil
}
