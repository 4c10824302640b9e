package order

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/assetswap/exchange-core/pkg/asset"
)

// Domain is the EIP-712 signing domain. It scopes order hashes to one
// deployment so a signature cannot be replayed against another chain or
// exchange instance.
type Domain struct {
	Name              string
	Version           string
	ChainID           *big.Int
	VerifyingContract common.Address
}

// Hasher computes order identity hashes under a fixed domain.
type Hasher struct {
	domain Domain
}

func NewHasher(domain Domain) *Hasher {
	return &Hasher{domain: domain}
}

var orderTypes = apitypes.Types{
	"EIP712Domain": []apitypes.Type{
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
		{Name: "chainId", Type: "uint256"},
		{Name: "verifyingContract", Type: "address"},
	},
	"AssetType": []apitypes.Type{
		{Name: "assetClass", Type: "bytes4"},
		{Name: "data", Type: "bytes"},
	},
	"Asset": []apitypes.Type{
		{Name: "assetType", Type: "AssetType"},
		{Name: "value", Type: "uint256"},
	},
	"Order": []apitypes.Type{
		{Name: "maker", Type: "address"},
		{Name: "makeAsset", Type: "Asset"},
		{Name: "taker", Type: "address"},
		{Name: "takeAsset", Type: "Asset"},
		{Name: "salt", Type: "uint256"},
		{Name: "start", Type: "uint256"},
		{Name: "end", Type: "uint256"},
		{Name: "dataType", Type: "bytes4"},
		{Name: "data", Type: "bytes"},
	},
}

// Hash computes the EIP-712 digest of an order: every field
// participates, so any mutation yields a distinct identity.
func (h *Hasher) Hash(o *Order) (Hash, error) {
	typedData := apitypes.TypedData{
		Types:       orderTypes,
		PrimaryType: "Order",
		Domain: apitypes.TypedDataDomain{
			Name:              h.domain.Name,
			Version:           h.domain.Version,
			ChainId:           (*math.HexOrDecimal256)(h.domain.ChainID),
			VerifyingContract: h.domain.VerifyingContract.Hex(),
		},
		Message: apitypes.TypedDataMessage{
			"maker":     o.Maker.Hex(),
			"makeAsset": assetMessage(o.MakeAsset),
			"taker":     o.Taker.Hex(),
			"takeAsset": assetMessage(o.TakeAsset),
			"salt":      o.SaltBig().String(),
			"start":     fmt.Sprintf("%d", o.Start),
			"end":       fmt.Sprintf("%d", o.End),
			"dataType":  hexutil.Encode(o.DataType[:]),
			"data":      hexutil.Encode(o.Data),
		},
	}

	domainSeparator, err := typedData.HashStruct("EIP712Domain", typedData.Domain.Map())
	if err != nil {
		return Hash{}, fmt.Errorf("failed to hash domain: %w", err)
	}

	typedDataHash, err := typedData.HashStruct(typedData.PrimaryType, typedData.Message)
	if err != nil {
		return Hash{}, fmt.Errorf("failed to hash order: %w", err)
	}

	// Final digest: keccak256("\x19\x01" || domainSeparator || typedDataHash)
	rawData := []byte(fmt.Sprintf("\x19\x01%s%s", string(domainSeparator), string(typedDataHash)))
	digest := crypto.Keccak256Hash(rawData)

	var out Hash
	copy(out[:], digest.Bytes())
	return out, nil
}

func assetMessage(a asset.Asset) map[string]interface{} {
	value := "0"
	if a.Value != nil {
		value = a.Value.String()
	}
	return map[string]interface{}{
		"assetType": map[string]interface{}{
			"assetClass": hexutil.Encode(a.Type.Class[:]),
			"data":       hexutil.Encode(a.Type.Data),
		},
		"value": value,
	}
}
