package exchange

import "errors"

// Rejection reasons surfaced to callers. The strings are part of the
// public contract and are asserted by tests; do not reword them.
var (
	// Structural validation
	ErrZeroAddress        = errors.New("maker and taker address is zero")
	ErrLeftMakerMismatch  = errors.New("orderLeft maker isn't same as orderRight taker")
	ErrRightMakerMismatch = errors.New("orderLeft taker isn't same as orderRight maker")

	// Time window
	ErrOrderStart = errors.New("order start invalid")
	ErrOrderEnd   = errors.New("order end invalid")

	// Policy gate: a data type that routes to a direct entry point
	// reached the generic validation path
	ErrValidationNotNeeded = errors.New("order validation is not needed")

	// Signature authority
	ErrSignature = errors.New("order signature verification error")

	// Matching
	ErrAssetMismatch  = errors.New("assets not matched")
	ErrZeroAmount     = errors.New("order amount is not zero")
	ErrAmountMismatch = errors.New("order amount not matched")
	ErrNFTAmount      = errors.New("ERC721 amount error")

	// Settlement
	ErrAmountNotEnough = errors.New("amount not enough")

	// Cancellation
	ErrNotMaker = errors.New("not maker")
	ErrSalt     = errors.New("salt error")
)
