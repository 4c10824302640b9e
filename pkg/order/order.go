// Package order defines the signed trade intent exchanged between
// makers and takers, its EIP-712 identity hash, and the routing of its
// data-type tag to a validation mode.
package order

import (
	"encoding/hex"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/assetswap/exchange-core/pkg/asset"
)

// Hash is the 32-byte order identity: the EIP-712 digest of all order
// fields. It doubles as the signed message and as the fill-store key.
type Hash [32]byte

func (h Hash) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

// Order is a trade intent: the maker offers MakeAsset and demands
// TakeAsset.
//
// Zero values carry meaning:
//   - Taker == zero address: open to any counterparty
//   - Start == 0: no lower time bound
//   - End == 0: no upper time bound
//   - Salt == 0: synthesized counter-order; not signed, not cancellable,
//     fill state never persisted
type Order struct {
	Maker     common.Address
	MakeAsset asset.Asset
	Taker     common.Address
	TakeAsset asset.Asset
	Salt      uint64
	Start     int64 // unix seconds
	End       int64 // unix seconds
	DataType  asset.Class
	Data      []byte
}

// Data-type tags. Sell and buy tags mark orders meant for the direct
// trade entry points; the default tag carries no order data and routes
// through standard two-sided validation.
var (
	DataTypeDefault = asset.Class{0xff, 0xff, 0xff, 0xff}
	DataTypeSell    = asset.ClassOf("SELL")
	DataTypeBuy     = asset.ClassOf("BUY")
)

// Route names the validation mode an order's data type selects.
type Route int8

const (
	RouteStandard Route = iota
	RouteDirectPurchase
	RouteDirectAcceptBid
	RouteUnsupported
)

func (r Route) String() string {
	switch r {
	case RouteStandard:
		return "standard"
	case RouteDirectPurchase:
		return "direct-purchase"
	case RouteDirectAcceptBid:
		return "direct-accept-bid"
	default:
		return "unsupported"
	}
}

// RouteOf maps a data-type tag to its validation mode. Decided once at
// each entry point; never re-derived mid-flow.
func RouteOf(dataType asset.Class) Route {
	switch dataType {
	case DataTypeDefault:
		return RouteStandard
	case DataTypeSell:
		return RouteDirectPurchase
	case DataTypeBuy:
		return RouteDirectAcceptBid
	default:
		return RouteUnsupported
	}
}

// SaltBig returns the salt as a uint256 for hashing.
func (o *Order) SaltBig() *big.Int { return new(big.Int).SetUint64(o.Salt) }
