package exchange

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/assetswap/exchange-core/params"
	"github.com/assetswap/exchange-core/pkg/asset"
	excrypto "github.com/assetswap/exchange-core/pkg/crypto"
	"github.com/assetswap/exchange-core/pkg/ledger"
	"github.com/assetswap/exchange-core/pkg/order"
	"github.com/assetswap/exchange-core/pkg/storage"
	"github.com/assetswap/exchange-core/pkg/util"
)

var (
	erc20Token   = common.HexToAddress("0x1000000000000000000000000000000000000001")
	erc721Token  = common.HexToAddress("0x2000000000000000000000000000000000000002")
	erc1155Token = common.HexToAddress("0x3000000000000000000000000000000000000003")
)

// testNow anchors every test clock; orders with Start/End relative to
// it behave deterministically.
const testNow = int64(1700000000)

type testEnv struct {
	t      *testing.T
	ex     *Exchange
	book   *ledger.Book
	fills  *storage.MemStore
	hasher *order.Hasher

	maker *excrypto.Signer
	taker *excrypto.Signer
	third common.Address
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	maker, err := excrypto.GenerateKey()
	if err != nil {
		t.Fatalf("failed to generate maker key: %v", err)
	}
	taker, err := excrypto.GenerateKey()
	if err != nil {
		t.Fatalf("failed to generate taker key: %v", err)
	}

	domain := params.Default().Exchange.Domain()
	book := ledger.NewBook()
	fills := storage.NewMemStore()

	ex := New(Config{
		Domain: domain,
		Ledger: book,
		Fills:  fills,
		Clock:  util.FixedClock{T: time.Unix(testNow, 0)},
	})

	return &testEnv{
		t:      t,
		ex:     ex,
		book:   book,
		fills:  fills,
		hasher: order.NewHasher(domain),
		maker:  maker,
		taker:  taker,
		third:  common.HexToAddress("0xCC00000000000000000000000000000000000000"),
	}
}

func (env *testEnv) sign(signer *excrypto.Signer, o *order.Order) []byte {
	env.t.Helper()
	h, err := env.hasher.Hash(o)
	if err != nil {
		env.t.Fatalf("failed to hash order: %v", err)
	}
	sig, err := signer.Sign(h[:])
	if err != nil {
		env.t.Fatalf("failed to sign order: %v", err)
	}
	return sig
}

func erc20Type() asset.Type {
	return asset.Type{Class: asset.ERC20, Data: asset.EncodeTokenData(erc20Token)}
}

func erc721Type(tokenID int64) asset.Type {
	return asset.Type{Class: asset.ERC721, Data: asset.EncodeTokenIDData(erc721Token, big.NewInt(tokenID))}
}

func erc1155Type(tokenID int64) asset.Type {
	return asset.Type{Class: asset.ERC1155, Data: asset.EncodeTokenIDData(erc1155Token, big.NewInt(tokenID))}
}

func nativeType() asset.Type {
	return asset.Type{Class: asset.ETH, Data: []byte{}}
}

// mirroredOrders builds the canonical pair: maker offers paymentAmount
// ERC20 for nftAmount of ERC721 token 1, taker offers the mirror.
func (env *testEnv) mirroredOrders(paymentAmount, nftAmount int64) (*order.Order, *order.Order) {
	payment := asset.Asset{Type: erc20Type(), Value: big.NewInt(paymentAmount)}
	nft := asset.Asset{Type: erc721Type(1), Value: big.NewInt(nftAmount)}

	left := &order.Order{
		Maker:     env.maker.Address(),
		MakeAsset: payment,
		Taker:     env.taker.Address(),
		TakeAsset: nft,
		Salt:      1,
		DataType:  order.DataTypeDefault,
	}
	right := &order.Order{
		Maker:     env.taker.Address(),
		MakeAsset: nft,
		Taker:     env.maker.Address(),
		TakeAsset: payment,
		Salt:      1,
		DataType:  order.DataTypeDefault,
	}
	return left, right
}
