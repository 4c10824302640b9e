package params

import (
	"math/big"
	"os"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"

	"github.com/assetswap/exchange-core/pkg/order"
)

// Exchange holds the EIP-712 signing domain parameters. Changing any
// of them invalidates every outstanding order signature, so treat them
// as deployment constants.
type Exchange struct {
	Name              string
	Version           string
	ChainID           int64
	VerifyingContract string // hex address, empty for off-chain signing
}

// Storage holds persistence paths.
type Storage struct {
	FillDBPath string
}

type Config struct {
	Exchange Exchange
	Storage  Storage
}

func Default() Config {
	return Config{
		Exchange: Exchange{
			Name:    "AssetSwap",
			Version: "1",
			ChainID: 1337, // local dev chain
		},
		Storage: Storage{
			FillDBPath: "./data/fills.db",
		},
	}
}

// LoadFromEnv loads configuration from a .env file (if present) and
// environment variables. Priority: ENV > .env file > defaults.
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	if name := os.Getenv("EXCHANGE_NAME"); name != "" {
		cfg.Exchange.Name = name
	}
	if version := os.Getenv("EXCHANGE_VERSION"); version != "" {
		cfg.Exchange.Version = version
	}
	if chainID := os.Getenv("EXCHANGE_CHAIN_ID"); chainID != "" {
		if id, err := strconv.ParseInt(chainID, 10, 64); err == nil {
			cfg.Exchange.ChainID = id
		}
	}
	if contract := os.Getenv("EXCHANGE_VERIFYING_CONTRACT"); contract != "" {
		cfg.Exchange.VerifyingContract = contract
	}
	if path := os.Getenv("FILL_DB_PATH"); path != "" {
		cfg.Storage.FillDBPath = path
	}

	return cfg
}

// Domain converts the exchange parameters into the signing domain the
// order hasher consumes.
func (e Exchange) Domain() order.Domain {
	return order.Domain{
		Name:              e.Name,
		Version:           e.Version,
		ChainID:           big.NewInt(e.ChainID),
		VerifyingContract: common.HexToAddress(e.VerifyingContract),
	}
}
