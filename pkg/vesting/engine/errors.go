package engine

import (
	"errors"
)

var (
	// Registry and ledger failures

	ErrAllocationNotFound      = errors.New("allocation not found")
	ErrAllocationExceeded      = errors.New("allocation vested amount would exceed reserved")
	ErrReservedBelowVested     = errors.New("reserved amount is below vested")
	ErrTgeUnlockExceedsMaximum = errors.New("tge unlock exceeds maximum basis points")
	ErrAllocationInUse         = errors.New("allocation has vested tokens")

	// Genesis gate failures

	ErrGenesisNotPassed  = errors.New("genesis has not passed")
	ErrGenesisPassed     = errors.New("genesis has already passed")
	ErrGenesisFrozen     = errors.New("genesis is frozen")
	ErrGenesisIsZero     = errors.New("genesis is unset")
	ErrTimeAlreadyPassed = errors.New("timestamp is in the past")

	// Sale channel failures

	ErrSaleChannelUnset  = errors.New("sale channel is unset")
	ErrSaleChannelFrozen = errors.New("sale channel is frozen")

	// Authorization and parameter failures

	ErrUnauthorized            = errors.New("caller is not authorized")
	ErrParameterLengthMismatch = errors.New("batch parameter lengths do not match")
	ErrRecipientIsZero         = errors.New("recipient is unset")

	// Supply reconciliation failures

	ErrUnexpectedTransferAmount = errors.New("transferred amount does not match requested amount")
	ErrAmountExceedsRecoverable = errors.New("amount exceeds recoverable balance")
)
