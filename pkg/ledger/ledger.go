// Package ledger abstracts the asset transfer backend the settlement
// orchestrator drives. The core never moves balances itself; it asks a
// TransferProvider to move one leg at a time.
package ledger

import (
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/assetswap/exchange-core/pkg/asset"
)

var (
	// ErrInsufficientBalance is returned when the source account cannot
	// cover the requested amount.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrTransferRejected is returned for transfers the provider cannot
	// execute: unknown asset kinds, malformed payloads, wrong ownership.
	ErrTransferRejected = errors.New("transfer rejected")
)

// TransferProvider moves one asset leg between two accounts. A transfer
// either fully succeeds or leaves no observable change.
type TransferProvider interface {
	Transfer(a asset.Asset, from, to common.Address) error
}

// Book is an in-memory TransferProvider tracking native, fungible,
// non-fungible and multi-token holdings. It serves tests and
// single-process runs; production deployments plug in their own
// provider.
type Book struct {
	mu       sync.Mutex
	native   map[common.Address]*big.Int
	fungible map[common.Address]map[common.Address]*big.Int            // token -> holder -> balance
	nft      map[common.Address]map[string]common.Address              // token -> tokenID -> owner
	multi    map[common.Address]map[string]map[common.Address]*big.Int // token -> tokenID -> holder -> balance
}

func NewBook() *Book {
	return &Book{
		native:   make(map[common.Address]*big.Int),
		fungible: make(map[common.Address]map[common.Address]*big.Int),
		nft:      make(map[common.Address]map[string]common.Address),
		multi:    make(map[common.Address]map[string]map[common.Address]*big.Int),
	}
}

// Transfer moves the asset between accounts, dispatching on the closed
// set of asset kinds. Custom kinds have no built-in settlement and are
// rejected.
func (b *Book) Transfer(a asset.Asset, from, to common.Address) error {
	if a.Value == nil || a.Value.Sign() < 0 {
		return fmt.Errorf("%w: invalid amount", ErrTransferRejected)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch a.Type.Class.Kind() {
	case asset.Native:
		return moveBalance(b.native, from, to, a.Value)

	case asset.Fungible:
		token, err := asset.DecodeTokenData(a.Type.Data)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrTransferRejected, err)
		}
		if b.fungible[token] == nil {
			b.fungible[token] = make(map[common.Address]*big.Int)
		}
		return moveBalance(b.fungible[token], from, to, a.Value)

	case asset.NonFungible:
		token, tokenID, err := asset.DecodeTokenIDData(a.Type.Data)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrTransferRejected, err)
		}
		if a.Value.Cmp(big.NewInt(1)) != 0 {
			return fmt.Errorf("%w: non-fungible amount must be 1", ErrTransferRejected)
		}
		owners := b.nft[token]
		if owners == nil || owners[tokenID.String()] != from {
			return fmt.Errorf("%w: %s does not own token %s", ErrTransferRejected, from.Hex(), tokenID)
		}
		owners[tokenID.String()] = to
		return nil

	case asset.MultiToken:
		token, tokenID, err := asset.DecodeTokenIDData(a.Type.Data)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrTransferRejected, err)
		}
		if b.multi[token] == nil {
			b.multi[token] = make(map[string]map[common.Address]*big.Int)
		}
		if b.multi[token][tokenID.String()] == nil {
			b.multi[token][tokenID.String()] = make(map[common.Address]*big.Int)
		}
		return moveBalance(b.multi[token][tokenID.String()], from, to, a.Value)

	default:
		return fmt.Errorf("%w: unsupported asset class %s", ErrTransferRejected, a.Type.Class.Hex())
	}
}

func moveBalance(balances map[common.Address]*big.Int, from, to common.Address, amount *big.Int) error {
	fromBal := balances[from]
	if fromBal == nil || fromBal.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	balances[from] = new(big.Int).Sub(fromBal, amount)
	toBal := balances[to]
	if toBal == nil {
		toBal = new(big.Int)
	}
	balances[to] = new(big.Int).Add(toBal, amount)
	return nil
}

// Mint helpers seed balances for tests and devnets.

func (b *Book) MintNative(addr common.Address, amount *big.Int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.native[addr] = addBalance(b.native[addr], amount)
}

func (b *Book) MintToken(token, addr common.Address, amount *big.Int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fungible[token] == nil {
		b.fungible[token] = make(map[common.Address]*big.Int)
	}
	b.fungible[token][addr] = addBalance(b.fungible[token][addr], amount)
}

func (b *Book) MintNFT(token common.Address, tokenID *big.Int, owner common.Address) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.nft[token] == nil {
		b.nft[token] = make(map[string]common.Address)
	}
	b.nft[token][tokenID.String()] = owner
}

func (b *Book) MintMulti(token common.Address, tokenID *big.Int, addr common.Address, amount *big.Int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.multi[token] == nil {
		b.multi[token] = make(map[string]map[common.Address]*big.Int)
	}
	if b.multi[token][tokenID.String()] == nil {
		b.multi[token][tokenID.String()] = make(map[common.Address]*big.Int)
	}
	b.multi[token][tokenID.String()][addr] = addBalance(b.multi[token][tokenID.String()][addr], amount)
}

func addBalance(cur, amount *big.Int) *big.Int {
	if cur == nil {
		cur = new(big.Int)
	}
	return new(big.Int).Add(cur, amount)
}

// Read-only balance queries.

func (b *Book) NativeBalance(addr common.Address) *big.Int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return readBalance(b.native[addr])
}

func (b *Book) TokenBalance(token, addr common.Address) *big.Int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fungible[token] == nil {
		return new(big.Int)
	}
	return readBalance(b.fungible[token][addr])
}

// OwnerOf returns the owner of a non-fungible token, or the zero
// address if it was never minted.
func (b *Book) OwnerOf(token common.Address, tokenID *big.Int) common.Address {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.nft[token] == nil {
		return common.Address{}
	}
	return b.nft[token][tokenID.String()]
}

func (b *Book) MultiBalance(token common.Address, tokenID *big.Int, addr common.Address) *big.Int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.multi[token] == nil || b.multi[token][tokenID.String()] == nil {
		return new(big.Int)
	}
	return readBalance(b.multi[token][tokenID.String()][addr])
}

func readBalance(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v)
}

var _ TransferProvider = (*Book)(nil)
