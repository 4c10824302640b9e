package storage

import (
	"math/big"
	"sync"

	"github.com/assetswap/exchange-core/pkg/order"
)

// MemStore is an in-memory FillStore for tests and ephemeral runs.
type MemStore struct {
	mu        sync.Mutex
	fills     map[order.Hash]*big.Int
	cancelled map[order.Hash]bool
}

func NewMemStore() *MemStore {
	return &MemStore{
		fills:     make(map[order.Hash]*big.Int),
		cancelled: make(map[order.Hash]bool),
	}
}

func (s *MemStore) Fill(h order.Hash) (*big.Int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelled[h] {
		return new(big.Int), true, nil
	}
	fill, ok := s.fills[h]
	if !ok {
		return new(big.Int), false, nil
	}
	return new(big.Int).Set(fill), false, nil
}

func (s *MemStore) SetFill(h order.Hash, value *big.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fills[h] = new(big.Int).Set(value)
	return nil
}

func (s *MemStore) Cancel(h order.Hash) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelled[h] {
		return nil
	}
	if fill, ok := s.fills[h]; ok && fill.Sign() != 0 {
		return ErrAlreadyFilled
	}
	s.cancelled[h] = true
	return nil
}

var _ FillStore = (*MemStore)(nil)
