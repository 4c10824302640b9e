// Package exchange implements the order-matching and settlement core:
// validation of signed order pairs, reconciliation of their asset legs
// into exact transfer amounts, and all-or-nothing settlement through an
// external transfer provider with persistent fill/cancel bookkeeping.
package exchange

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/assetswap/exchange-core/pkg/asset"
	"github.com/assetswap/exchange-core/pkg/ledger"
	"github.com/assetswap/exchange-core/pkg/order"
	"github.com/assetswap/exchange-core/pkg/storage"
	"github.com/assetswap/exchange-core/pkg/util"
)

// Call identifies one settlement request: the authenticated caller and
// any native value attached to fund native-currency legs. The analogue
// of msg.sender / msg.value.
type Call struct {
	Caller common.Address
	Value  *big.Int // nil means no attached value
}

func (c Call) attached() *big.Int {
	if c.Value == nil {
		return new(big.Int)
	}
	return c.Value
}

// MatchResult reports a completed settlement.
type MatchResult struct {
	LeftHash   order.Hash
	RightHash  order.Hash
	LeftValue  *big.Int // left's make asset moved to right's maker
	RightValue *big.Int // right's make asset moved to left's maker

	// Native value accounting: what the call's attached value funded,
	// and what is owed back to the caller.
	NativeSpent  *big.Int
	NativeRefund *big.Int
}

// Config wires the exchange's collaborators.
type Config struct {
	Domain order.Domain
	Ledger ledger.TransferProvider
	Fills  storage.FillStore
	Clock  util.Clock  // nil defaults to the real clock
	Log    *zap.Logger // nil defaults to a no-op logger
}

// Exchange is the settlement core. Entry points are serialized by one
// mutex: the fill store's read-modify-write cycles are the only shared
// mutable state, and serialization is what keeps concurrent callers
// from over-filling an order.
type Exchange struct {
	mu     sync.Mutex
	hasher *order.Hasher
	ledger ledger.TransferProvider
	fills  storage.FillStore
	clock  util.Clock
	log    *zap.Logger
}

func New(cfg Config) *Exchange {
	clock := cfg.Clock
	if clock == nil {
		clock = util.RealClock{}
	}
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Exchange{
		hasher: order.NewHasher(cfg.Domain),
		ledger: cfg.Ledger,
		fills:  cfg.Fills,
		clock:  clock,
		log:    log,
	}
}

// MatchOrders validates, matches and settles two independently signed
// orders. The whole call is atomic: any rejection leaves no transfer
// executed and no fill recorded.
func (e *Exchange) MatchOrders(call Call, left *order.Order, leftSig []byte, right *order.Order, rightSig []byte) (*MatchResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	// Routing is decided once at entry: orders tagged for the direct
	// entry points must not fall through to generic validation.
	if order.RouteOf(left.DataType) != order.RouteStandard ||
		order.RouteOf(right.DataType) != order.RouteStandard {
		return nil, ErrValidationNotNeeded
	}

	return e.matchPair(call, left, leftSig, right, rightSig)
}

// matchPair is the shared validation + matching + settlement path for
// MatchOrders and the direct entry points. Callers hold e.mu and have
// already applied their routing gate.
func (e *Exchange) matchPair(call Call, left *order.Order, leftSig []byte, right *order.Order, rightSig []byte) (*MatchResult, error) {
	if err := validatePair(left, right); err != nil {
		return nil, err
	}

	now := e.clock.Now().Unix()
	if err := validateTimeWindow(left, now); err != nil {
		return nil, err
	}
	if err := validateTimeWindow(right, now); err != nil {
		return nil, err
	}

	leftHash, err := e.hasher.Hash(left)
	if err != nil {
		return nil, err
	}
	rightHash, err := e.hasher.Hash(right)
	if err != nil {
		return nil, err
	}

	if err := authorizeOrder(call.Caller, left, leftHash, leftSig); err != nil {
		return nil, err
	}
	if err := authorizeOrder(call.Caller, right, rightHash, rightSig); err != nil {
		return nil, err
	}

	if err := matchAssetTypes(left, right); err != nil {
		return nil, err
	}

	leftFilled, err := e.lookupFill(left, leftHash)
	if err != nil {
		return nil, err
	}
	rightFilled, err := e.lookupFill(right, rightHash)
	if err != nil {
		return nil, err
	}

	fill, err := computeFill(left, right, leftFilled, rightFilled)
	if err != nil {
		e.log.Debug("match rejected",
			zap.String("left", leftHash.Hex()),
			zap.String("right", rightHash.Hex()),
			zap.Error(err))
		return nil, err
	}

	result, err := e.settle(call, left, right, leftHash, rightHash, fill)
	if err != nil {
		return nil, err
	}

	e.log.Info("orders matched",
		zap.String("left", leftHash.Hex()),
		zap.String("right", rightHash.Hex()),
		zap.String("leftValue", fill.LeftValue.String()),
		zap.String("rightValue", fill.RightValue.String()))
	return result, nil
}

// lookupFill reads the cumulative fill for an order. Cancelled orders
// have no remaining capacity; unsalted synthesized orders are never
// tracked and always start from zero.
func (e *Exchange) lookupFill(o *order.Order, h order.Hash) (*big.Int, error) {
	if o.Salt == 0 {
		return new(big.Int), nil
	}
	filled, cancelled, err := e.fills.Fill(h)
	if err != nil {
		return nil, fmt.Errorf("fill lookup for %s: %w", h.Hex(), err)
	}
	if cancelled {
		return nil, ErrZeroAmount
	}
	return filled, nil
}

// settle executes both legs and persists the new fills. Either every
// effect lands or none does: a failure on the second leg reverses the
// first, and a persistence failure reverses both.
func (e *Exchange) settle(call Call, left, right *order.Order, leftHash, rightHash order.Hash, fill *Fill) (*MatchResult, error) {
	legLeft := leg{
		asset: asset.Asset{Type: left.MakeAsset.Type, Value: fill.LeftValue},
		from:  left.Maker,
		to:    right.Maker,
	}
	legRight := leg{
		asset: asset.Asset{Type: right.MakeAsset.Type, Value: fill.RightValue},
		from:  right.Maker,
		to:    left.Maker,
	}

	// Native legs are funded by the value attached to the call, not by
	// the leg's maker.
	required := new(big.Int)
	for _, l := range []*leg{&legLeft, &legRight} {
		if l.asset.Type.Class.Kind() == asset.Native {
			l.from = call.Caller
			required.Add(required, l.asset.Value)
		}
	}
	attached := call.attached()
	if required.Sign() > 0 && attached.Cmp(required) < 0 {
		return nil, ErrAmountNotEnough
	}

	if err := e.ledger.Transfer(legLeft.asset, legLeft.from, legLeft.to); err != nil {
		return nil, fmt.Errorf("left leg transfer: %w", err)
	}
	if err := e.ledger.Transfer(legRight.asset, legRight.from, legRight.to); err != nil {
		e.reverse(legLeft)
		return nil, fmt.Errorf("right leg transfer: %w", err)
	}

	if err := e.persistFills(left, right, leftHash, rightHash, fill); err != nil {
		e.reverse(legRight)
		e.reverse(legLeft)
		return nil, err
	}

	return &MatchResult{
		LeftHash:     leftHash,
		RightHash:    rightHash,
		LeftValue:    fill.LeftValue,
		RightValue:   fill.RightValue,
		NativeSpent:  required,
		NativeRefund: new(big.Int).Sub(attached, required),
	}, nil
}

type leg struct {
	asset    asset.Asset
	from, to common.Address
}

func (e *Exchange) reverse(l leg) {
	if err := e.ledger.Transfer(l.asset, l.to, l.from); err != nil {
		// The forward transfer just succeeded, so the reversal should
		// not fail; if it does the ledger is inconsistent and that is
		// worth shouting about.
		e.log.Error("leg reversal failed", zap.Error(err))
	}
}

// persistFills records the new cumulative fills. Orders with salt 0 do
// not persist: they exist only for the duration of one settlement call
// and cannot be replayed meaningfully.
func (e *Exchange) persistFills(left, right *order.Order, leftHash, rightHash order.Hash, fill *Fill) error {
	var prevLeft *big.Int
	if left.Salt != 0 {
		var err error
		prevLeft, _, err = e.fills.Fill(leftHash)
		if err != nil {
			return fmt.Errorf("fill read for %s: %w", leftHash.Hex(), err)
		}
		if err := e.fills.SetFill(leftHash, fill.LeftFill); err != nil {
			return fmt.Errorf("fill write for %s: %w", leftHash.Hex(), err)
		}
	}
	if right.Salt != 0 {
		if err := e.fills.SetFill(rightHash, fill.RightFill); err != nil {
			if prevLeft != nil {
				if rerr := e.fills.SetFill(leftHash, prevLeft); rerr != nil {
					e.log.Error("fill rollback failed", zap.Error(rerr))
				}
			}
			return fmt.Errorf("fill write for %s: %w", rightHash.Hex(), err)
		}
	}
	return nil
}

// Cancel marks an order unfillable forever. Only the maker can cancel,
// only salted orders are cancellable, and an order that has already
// filled (fully or partially) stays fillable.
func (e *Exchange) Cancel(call Call, o *order.Order) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if o.Salt == 0 {
		return ErrSalt
	}
	if call.Caller != o.Maker {
		return ErrNotMaker
	}

	h, err := e.hasher.Hash(o)
	if err != nil {
		return err
	}
	if err := e.fills.Cancel(h); err != nil {
		return err
	}

	e.log.Info("order cancelled",
		zap.String("order", h.Hex()),
		zap.String("maker", o.Maker.Hex()))
	return nil
}
