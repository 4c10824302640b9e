package exchange

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/assetswap/exchange-core/pkg/crypto"
	"github.com/assetswap/exchange-core/pkg/order"
)

// validatePair enforces the structural invariants on a matched order
// pair: an identifiable party on each side, and maker/taker pinning
// honored in both directions.
func validatePair(left, right *order.Order) error {
	if (left.Maker == common.Address{} && right.Taker == common.Address{}) ||
		(right.Maker == common.Address{} && left.Taker == common.Address{}) {
		return ErrZeroAddress
	}
	if (right.Taker != common.Address{}) && left.Maker != right.Taker {
		return ErrLeftMakerMismatch
	}
	if (left.Taker != common.Address{}) && left.Taker != right.Maker {
		return ErrRightMakerMismatch
	}
	return nil
}

// validateTimeWindow checks the order's validity window against the
// current time. Zero bounds are unbounded.
func validateTimeWindow(o *order.Order, now int64) error {
	if o.Start != 0 && now < o.Start {
		return ErrOrderStart
	}
	if o.End != 0 && now > o.End {
		return ErrOrderEnd
	}
	return nil
}

// authorizeOrder establishes that the order was authorized by its
// maker. Three cases:
//
//   - salt == 0: a synthesized counter-order carries no signature; it
//     is authorized only when the authenticated caller is its maker.
//   - caller == maker: on-behalf execution, no signature needed.
//   - otherwise: the signature over the order hash must recover to the
//     maker.
func authorizeOrder(caller common.Address, o *order.Order, h order.Hash, sig []byte) error {
	if o.Salt == 0 {
		if o.Maker != caller {
			return ErrSignature
		}
		return nil
	}
	if caller == o.Maker {
		return nil
	}
	if !crypto.VerifySignature(o.Maker, h[:], sig) {
		return ErrSignature
	}
	return nil
}
