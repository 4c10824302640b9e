package exchange

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/assetswap/exchange-core/pkg/asset"
	"github.com/assetswap/exchange-core/pkg/order"
)

// DirectPurchase describes a buyer taking one signed sell order
// directly: the caller supplies payment (native or token) and the
// fields to rebuild the sell order, plus the terms of the implicit buy
// side. The request lives only for the duration of the call.
type DirectPurchase struct {
	SellOrderMaker         common.Address
	SellOrderNFTAmount     *big.Int
	NFTAssetClass          asset.Class
	NFTData                []byte
	SellOrderPaymentAmount *big.Int
	PaymentToken           common.Address
	SellOrderSalt          uint64
	SellOrderStart         int64
	SellOrderEnd           int64
	SellOrderDataType      asset.Class
	SellOrderData          []byte
	SellOrderSignature     []byte

	BuyOrderPaymentAmount *big.Int
	BuyOrderNFTAmount     *big.Int
	BuyOrderData          []byte
}

// DirectAcceptBid is the mirror flow: the signed order is a standing
// bid (payment for NFT) and the caller supplies the NFT side.
type DirectAcceptBid struct {
	BidMaker         common.Address
	BidNFTAmount     *big.Int
	NFTAssetClass    asset.Class
	NFTData          []byte
	BidPaymentAmount *big.Int
	PaymentToken     common.Address
	BidSalt          uint64
	BidStart         int64
	BidEnd           int64
	BidDataType      asset.Class
	BidData          []byte
	BidSignature     []byte

	SellOrderPaymentAmount *big.Int
	SellOrderNFTAmount     *big.Int
	SellOrderData          []byte
}

// paymentAssetType resolves the payment side of a direct request: the
// zero token means native currency with an empty payload, anything
// else is a fungible token. The encoding must byte-match what the
// signer hashed, or the rebuilt order's identity drifts.
func paymentAssetType(token common.Address) asset.Type {
	if token == (common.Address{}) {
		return asset.Type{Class: asset.ETH, Data: []byte{}}
	}
	return asset.Type{Class: asset.ERC20, Data: asset.EncodeTokenData(token)}
}

// DirectPurchase settles one signed sell order against an implicit buy
// order synthesized from the request. Only the sell side is
// signature-checked; the buy side is authorized by the caller being
// its maker.
func (e *Exchange) DirectPurchase(call Call, req *DirectPurchase) (*MatchResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if order.RouteOf(req.SellOrderDataType) != order.RouteDirectPurchase {
		return nil, ErrValidationNotNeeded
	}

	nftType := asset.Type{Class: req.NFTAssetClass, Data: req.NFTData}
	payType := paymentAssetType(req.PaymentToken)

	sell := &order.Order{
		Maker:     req.SellOrderMaker,
		MakeAsset: asset.Asset{Type: nftType, Value: req.SellOrderNFTAmount},
		TakeAsset: asset.Asset{Type: payType, Value: req.SellOrderPaymentAmount},
		Salt:      req.SellOrderSalt,
		Start:     req.SellOrderStart,
		End:       req.SellOrderEnd,
		DataType:  req.SellOrderDataType,
		Data:      req.SellOrderData,
	}
	buy := &order.Order{
		Maker:     call.Caller,
		MakeAsset: asset.Asset{Type: payType, Value: req.BuyOrderPaymentAmount},
		Taker:     req.SellOrderMaker,
		TakeAsset: asset.Asset{Type: nftType, Value: req.BuyOrderNFTAmount},
		DataType:  order.DataTypeBuy,
		Data:      req.BuyOrderData,
	}

	return e.matchPair(call, sell, req.SellOrderSignature, buy, nil)
}

// DirectAcceptBid settles one signed bid against an implicit sell
// order synthesized from the request; settlement semantics match
// DirectPurchase with the legs reversed.
func (e *Exchange) DirectAcceptBid(call Call, req *DirectAcceptBid) (*MatchResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if order.RouteOf(req.BidDataType) != order.RouteDirectAcceptBid {
		return nil, ErrValidationNotNeeded
	}

	nftType := asset.Type{Class: req.NFTAssetClass, Data: req.NFTData}
	payType := paymentAssetType(req.PaymentToken)

	bid := &order.Order{
		Maker:     req.BidMaker,
		MakeAsset: asset.Asset{Type: payType, Value: req.BidPaymentAmount},
		TakeAsset: asset.Asset{Type: nftType, Value: req.BidNFTAmount},
		Salt:      req.BidSalt,
		Start:     req.BidStart,
		End:       req.BidEnd,
		DataType:  req.BidDataType,
		Data:      req.BidData,
	}
	sell := &order.Order{
		Maker:     call.Caller,
		MakeAsset: asset.Asset{Type: nftType, Value: req.SellOrderNFTAmount},
		Taker:     req.BidMaker,
		TakeAsset: asset.Asset{Type: payType, Value: req.SellOrderPaymentAmount},
		DataType:  order.DataTypeSell,
		Data:      req.SellOrderData,
	}

	return e.matchPair(call, bid, req.BidSignature, sell, nil)
}
