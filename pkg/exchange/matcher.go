package exchange

import (
	"math/big"

	"github.com/assetswap/exchange-core/pkg/asset"
	"github.com/assetswap/exchange-core/pkg/order"
)

// Fill is the concrete outcome of matching two orders: the per-leg
// transfer amounts and the new cumulative fill values to persist.
type Fill struct {
	// LeftValue is the amount of left's make asset owed to right's
	// maker; RightValue is the amount of right's make asset owed to
	// left's maker.
	LeftValue  *big.Int
	RightValue *big.Int

	// New cumulative fills, counted on each order's take side.
	LeftFill  *big.Int
	RightFill *big.Int
}

// matchAssetTypes requires the two orders to be exact mirrors of each
// other: left's make asset is right's take asset and vice versa,
// byte-exact on class and data.
func matchAssetTypes(left, right *order.Order) error {
	if !left.MakeAsset.Type.Equal(right.TakeAsset.Type) {
		return ErrAssetMismatch
	}
	if !left.TakeAsset.Type.Equal(right.MakeAsset.Type) {
		return ErrAssetMismatch
	}
	return nil
}

// computeFill reconciles the two orders' amounts into transfer values.
//
// Remaining capacity is tracked on the take side: an order that
// declared takeAsset.value = T and has filled f can still receive
// T - f. The smaller remaining side bounds the trade, the counter
// amount scales proportionally, and any scaling that does not resolve
// to an exact integer is rejected rather than rounded.
func computeFill(left, right *order.Order, leftFilled, rightFilled *big.Int) (*Fill, error) {
	makeLeft := amountOf(left.MakeAsset)
	takeLeft := amountOf(left.TakeAsset)
	makeRight := amountOf(right.MakeAsset)
	takeRight := amountOf(right.TakeAsset)

	if makeLeft.Sign() == 0 || takeLeft.Sign() == 0 || makeRight.Sign() == 0 || takeRight.Sign() == 0 {
		return nil, ErrZeroAmount
	}

	// Both orders must quote the same price:
	// makeLeft/takeLeft == takeRight/makeRight, cross-multiplied.
	lhs := new(big.Int).Mul(makeLeft, makeRight)
	rhs := new(big.Int).Mul(takeLeft, takeRight)
	if lhs.Cmp(rhs) != 0 {
		return nil, ErrAmountMismatch
	}

	remainingLeft := new(big.Int).Sub(takeLeft, leftFilled)
	remainingRight := new(big.Int).Sub(takeRight, rightFilled)
	if remainingLeft.Sign() <= 0 || remainingRight.Sign() <= 0 {
		return nil, ErrZeroAmount
	}

	// How much of its make asset the right order can still give,
	// scaled from its remaining take capacity.
	giveRight, rem := new(big.Int).QuoRem(
		new(big.Int).Mul(makeRight, remainingRight), takeRight, new(big.Int))
	if rem.Sign() != 0 {
		return nil, ErrAmountMismatch
	}

	// rightValue: right's make asset moved to left's maker.
	rightValue := new(big.Int).Set(remainingLeft)
	if giveRight.Cmp(rightValue) < 0 {
		rightValue = giveRight
	}

	// leftValue: left's make asset moved to right's maker, scaled to
	// keep both sides at the quoted price.
	leftValue, rem := new(big.Int).QuoRem(
		new(big.Int).Mul(rightValue, takeRight), makeRight, new(big.Int))
	if rem.Sign() != 0 {
		return nil, ErrAmountMismatch
	}

	if leftValue.Sign() == 0 || rightValue.Sign() == 0 {
		return nil, ErrZeroAmount
	}

	// Non-fungible legs never settle partially, and a single
	// non-fungible unit is the only valid trade size.
	if err := checkNonFungible(left.MakeAsset.Type, makeLeft, leftValue); err != nil {
		return nil, err
	}
	if err := checkNonFungible(right.MakeAsset.Type, makeRight, rightValue); err != nil {
		return nil, err
	}

	return &Fill{
		LeftValue:  leftValue,
		RightValue: rightValue,
		LeftFill:   new(big.Int).Add(leftFilled, rightValue),
		RightFill:  new(big.Int).Add(rightFilled, leftValue),
	}, nil
}

func checkNonFungible(t asset.Type, declared, resolved *big.Int) error {
	if t.Class.Kind() != asset.NonFungible {
		return nil
	}
	if resolved.Cmp(declared) != 0 || resolved.Cmp(big.NewInt(1)) != 0 {
		return ErrNFTAmount
	}
	return nil
}

func amountOf(a asset.Asset) *big.Int {
	if a.Value == nil {
		return new(big.Int)
	}
	return a.Value
}
