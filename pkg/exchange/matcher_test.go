package exchange

import (
	"errors"
	"math/big"
	"testing"

	"github.com/assetswap/exchange-core/pkg/asset"
	"github.com/assetswap/exchange-core/pkg/order"
)

func pair(makeLeft asset.Asset, takeLeft asset.Asset) (*order.Order, *order.Order) {
	left := &order.Order{MakeAsset: makeLeft, TakeAsset: takeLeft, Salt: 1}
	right := &order.Order{MakeAsset: takeLeft, TakeAsset: makeLeft, Salt: 1}
	return left, right
}

func TestMatchAssetTypes(t *testing.T) {
	payment := asset.Asset{Type: erc20Type(), Value: big.NewInt(150)}
	nft := asset.Asset{Type: erc721Type(1), Value: big.NewInt(1)}

	left, right := pair(payment, nft)
	if err := matchAssetTypes(left, right); err != nil {
		t.Fatalf("mirrored types rejected: %v", err)
	}

	t.Run("make side differs", func(t *testing.T) {
		left, right := pair(payment, nft)
		left.MakeAsset.Type = nativeType()
		if err := matchAssetTypes(left, right); !errors.Is(err, ErrAssetMismatch) {
			t.Fatalf("expected %v, got %v", ErrAssetMismatch, err)
		}
	})

	t.Run("take side differs by token id", func(t *testing.T) {
		left, right := pair(payment, nft)
		left.TakeAsset.Type = erc721Type(2)
		if err := matchAssetTypes(left, right); !errors.Is(err, ErrAssetMismatch) {
			t.Fatalf("expected %v, got %v", ErrAssetMismatch, err)
		}
	})
}

func TestComputeFillRejectsZeroAmounts(t *testing.T) {
	payment := asset.Asset{Type: erc20Type(), Value: big.NewInt(0)}
	nft := asset.Asset{Type: erc721Type(1), Value: big.NewInt(1)}
	left, right := pair(payment, nft)

	_, err := computeFill(left, right, new(big.Int), new(big.Int))
	if !errors.Is(err, ErrZeroAmount) {
		t.Fatalf("expected %v, got %v", ErrZeroAmount, err)
	}
}

func TestComputeFillRejectsPriceMismatch(t *testing.T) {
	// Left quotes 300 payment per NFT, right asks 150.
	left := &order.Order{
		MakeAsset: asset.Asset{Type: erc20Type(), Value: big.NewInt(300)},
		TakeAsset: asset.Asset{Type: erc721Type(1), Value: big.NewInt(1)},
		Salt:      1,
	}
	right := &order.Order{
		MakeAsset: asset.Asset{Type: erc721Type(1), Value: big.NewInt(1)},
		TakeAsset: asset.Asset{Type: erc20Type(), Value: big.NewInt(150)},
		Salt:      1,
	}

	_, err := computeFill(left, right, new(big.Int), new(big.Int))
	if !errors.Is(err, ErrAmountMismatch) {
		t.Fatalf("expected %v, got %v", ErrAmountMismatch, err)
	}
}

func TestComputeFillExactNonFungibleSwap(t *testing.T) {
	payment := asset.Asset{Type: erc20Type(), Value: big.NewInt(150)}
	nft := asset.Asset{Type: erc721Type(1), Value: big.NewInt(1)}
	left, right := pair(payment, nft)

	fill, err := computeFill(left, right, new(big.Int), new(big.Int))
	if err != nil {
		t.Fatalf("exact swap rejected: %v", err)
	}
	if fill.LeftValue.Int64() != 150 || fill.RightValue.Int64() != 1 {
		t.Fatalf("unexpected transfer values: left=%s right=%s", fill.LeftValue, fill.RightValue)
	}
	if fill.LeftFill.Int64() != 1 || fill.RightFill.Int64() != 150 {
		t.Fatalf("unexpected cumulative fills: left=%s right=%s", fill.LeftFill, fill.RightFill)
	}
}

func TestComputeFillRejectsMultiUnitNonFungible(t *testing.T) {
	// Declared amounts satisfy the price ratio but a non-fungible leg
	// of 300 units is meaningless.
	payment := asset.Asset{Type: erc20Type(), Value: big.NewInt(300)}
	nft := asset.Asset{Type: erc721Type(1), Value: big.NewInt(300)}
	left, right := pair(payment, nft)

	_, err := computeFill(left, right, new(big.Int), new(big.Int))
	if !errors.Is(err, ErrNFTAmount) {
		t.Fatalf("expected %v, got %v", ErrNFTAmount, err)
	}
}

func TestComputeFillPartialMultiToken(t *testing.T) {
	// Left buys 100 units of a multi-token for 10 payment units. Half
	// of left's take side is already filled, and right has received 5
	// of its 10 payment units.
	payment := asset.Asset{Type: erc20Type(), Value: big.NewInt(10)}
	units := asset.Asset{Type: erc1155Type(7), Value: big.NewInt(100)}
	left, right := pair(payment, units)

	fill, err := computeFill(left, right, big.NewInt(50), big.NewInt(5))
	if err != nil {
		t.Fatalf("partial fill rejected: %v", err)
	}
	if fill.RightValue.Int64() != 50 {
		t.Fatalf("expected 50 units moved, got %s", fill.RightValue)
	}
	if fill.LeftValue.Int64() != 5 {
		t.Fatalf("expected 5 payment units moved, got %s", fill.LeftValue)
	}
	if fill.LeftFill.Int64() != 100 || fill.RightFill.Int64() != 10 {
		t.Fatalf("unexpected cumulative fills: left=%s right=%s", fill.LeftFill, fill.RightFill)
	}
}

func TestComputeFillRejectsInexactScaling(t *testing.T) {
	// 3 payment units for 2 multi-token units: with one unit of take
	// capacity left the counter amount would be 1.5 and cannot settle.
	payment := asset.Asset{Type: erc20Type(), Value: big.NewInt(3)}
	units := asset.Asset{Type: erc1155Type(7), Value: big.NewInt(2)}
	left, right := pair(payment, units)

	_, err := computeFill(left, right, big.NewInt(1), new(big.Int))
	if !errors.Is(err, ErrAmountMismatch) {
		t.Fatalf("expected %v, got %v", ErrAmountMismatch, err)
	}
}

func TestComputeFillRejectsExhaustedOrder(t *testing.T) {
	payment := asset.Asset{Type: erc20Type(), Value: big.NewInt(150)}
	nft := asset.Asset{Type: erc721Type(1), Value: big.NewInt(1)}
	left, right := pair(payment, nft)

	_, err := computeFill(left, right, big.NewInt(1), big.NewInt(150))
	if !errors.Is(err, ErrZeroAmount) {
		t.Fatalf("expected %v, got %v", ErrZeroAmount, err)
	}
}
