package storage

import (
	"fmt"
	"math/big"

	"github.com/cockroachdb/pebble"

	"github.com/assetswap/exchange-core/pkg/order"
)

// PebbleStore is the durable FillStore. Fill values are stored as
// 32-byte big-endian uint256 under "fill:"-prefixed keys; writes are
// synced so a settled fill survives a crash.
type PebbleStore struct {
	db *pebble.DB
}

func NewPebbleStore(path string) (*PebbleStore, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &PebbleStore{db: db}, nil
}

func (s *PebbleStore) Close() error { return s.db.Close() }

// keys: fill:<32-byte-order-hash>
func kFill(h order.Hash) []byte { return append([]byte("fill:"), h[:]...) }

func (s *PebbleStore) Fill(h order.Hash) (*big.Int, bool, error) {
	val, closer, err := s.db.Get(kFill(h))
	if err != nil {
		if err == pebble.ErrNotFound {
			return new(big.Int), false, nil
		}
		return nil, false, fmt.Errorf("failed to get fill: %w", err)
	}
	defer closer.Close()

	if isCancelledValue(val) {
		return new(big.Int), true, nil
	}
	return new(big.Int).SetBytes(val), false, nil
}

func (s *PebbleStore) SetFill(h order.Hash, value *big.Int) error {
	if err := s.db.Set(kFill(h), encodeFill(value), pebble.Sync); err != nil {
		return fmt.Errorf("failed to set fill: %w", err)
	}
	return nil
}

func (s *PebbleStore) Cancel(h order.Hash) error {
	fill, cancelled, err := s.Fill(h)
	if err != nil {
		return err
	}
	if cancelled {
		return nil // already terminal
	}
	if fill.Sign() != 0 {
		return ErrAlreadyFilled
	}
	if err := s.db.Set(kFill(h), cancelledSentinel, pebble.Sync); err != nil {
		return fmt.Errorf("failed to cancel: %w", err)
	}
	return nil
}

var _ FillStore = (*PebbleStore)(nil)
