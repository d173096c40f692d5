package staking

import (
	"errors"
	"strings"
)

var (
	ErrReverted            = errors.New("execution reverted")
	ErrConstructorMismatch = errors.New("constructor arguments do not match ABI")
	ErrInvalidParams       = errors.New("invalid deploy params")
	ErrSnapshotUnsupported = errors.New("environment does not support snapshots")
)

// Revert reasons reported by the ledger, kept stable as tests and the API match on them
const (
	ReasonStakeZero        = "Staking 0 tokens"
	ReasonStakeBelowMin    = "Stake below minimum"
	ReasonWithdrawZero     = "Withdrawing 0 tokens"
	ReasonWithdrawTooMuch  = "Withdrawing more than staked"
	ReasonStakeLocked      = "Stake is locked"
	ReasonNoRewards        = "No rewards"
	ReasonNotEnoughRewards = "Not enough reward tokens"
	ReasonNotAuthorized    = "Not authorized"
	ReasonIndexOutOfBounds = "Index out of bounds"
)

// RevertError is a failed contract call with its revert reason
type RevertError struct {
	Reason string
}

func NewRevertError(reason string) *RevertError {
	return &RevertError{Reason: reason}
}

func (e *RevertError) Error() string {
	return ErrReverted.Error() + ": " + e.Reason
}

func (e *RevertError) Is(target error) bool {
	return target == ErrReverted
}

// IsRevertReason reports whether err is a revert whose message contains reason.
// Errors returned by a node carry the reason only in their text
func IsRevertReason(err error, reason string) bool {
	if err == nil {
		return false
	}
	var revertErr *RevertError
	if errors.As(err, &revertErr) {
		return revertErr.Reason == reason
	}
	return strings.Contains(err.Error(), "revert") && strings.Contains(err.Error(), reason)
}
