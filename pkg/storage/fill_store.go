// Package storage persists per-order fill and cancellation state,
// keyed by order hash.
package storage

import (
	"errors"
	"math/big"

	"github.com/assetswap/exchange-core/pkg/order"
)

// ErrAlreadyFilled is returned when cancelling an order that has
// recorded fills. A partially filled order stays fillable; only
// untouched orders can be cancelled.
var ErrAlreadyFilled = errors.New("order already filled")

// FillStore is the persistent fill/cancel ledger.
//
// Lifecycle per hash: absent (never touched) -> monotonically
// increasing fill -> fully filled, or cancelled (terminal). Callers
// must serialize read-modify-write cycles on the same hash; the store
// itself only guarantees atomicity of single operations.
type FillStore interface {
	// Fill returns the cumulative filled amount for an order hash and
	// whether the order is cancelled. Absent orders report a zero fill.
	Fill(h order.Hash) (*big.Int, bool, error)

	// SetFill records the cumulative filled amount for an order hash.
	SetFill(h order.Hash, value *big.Int) error

	// Cancel marks an order hash unfillable forever. Fails with
	// ErrAlreadyFilled if any fill has been recorded.
	Cancel(h order.Hash) error
}

// cancelledSentinel is the stored value marking a cancelled order:
// the maximum uint256, unreachable by any real cumulative fill.
var cancelledSentinel = func() []byte {
	b := make([]byte, 32)
	for i := range b {
		b[i] = 0xff
	}
	return b
}()

func isCancelledValue(b []byte) bool {
	if len(b) != 32 {
		return false
	}
	for _, c := range b {
		if c != 0xff {
			return false
		}
	}
	return true
}

func encodeFill(v *big.Int) []byte {
	b := make([]byte, 32)
	v.FillBytes(b)
	return b
}
