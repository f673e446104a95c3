package engine

import (
	"context"
	"database/sql"

	"github.com/openvest/vesting-server/pkg/metrics"
)

// SupplyBasis selects which outstanding obligation a supply computation
// covers.
type SupplyBasis uint8

const (
	// BasisVested sizes supply against what has vested but not been
	// claimed. Suitable for claim-time top-ups.
	BasisVested SupplyBasis = iota

	// BasisReserved sizes supply against the full reservation ceiling.
	// Suitable for pre-funding.
	BasisReserved
)

// RequiredSupply returns how many tokens the vault is short of covering the
// selected outstanding obligation. A fully funded vault yields zero.
func (e *Engine) RequiredSupply(ctx context.Context, basis SupplyBasis) (required uint64, err error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "RequiredSupply")
	defer func() {
		tracer.OnError(err)
		tracer.End()
	}()

	return e.requiredSupply(ctx, basis)
}

// SupplyFrom tops up the vault from a source account. Zero or oversized
// requests clamp to exactly the required amount. The vault balance must grow
// by exactly the transferred amount; fee-on-transfer or deflationary token
// behavior aborts the operation.
func (e *Engine) SupplyFrom(ctx context.Context, actor, source string, amount uint64, basis SupplyBasis) (err error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "SupplyFrom")
	defer func() {
		tracer.OnError(err)
		tracer.End()
	}()

	if err = e.requireAdmin(ctx, actor); err != nil {
		return err
	}

	return e.data.ExecuteInTx(ctx, sql.LevelDefault, func(ctx context.Context) error {
		return e.supplyFrom(ctx, source, amount, basis)
	})
}

// RecoverSurplus moves vault tokens above the outstanding reservation
// obligation to a recipient. Tokens backing unclaimed reservations can never
// be recovered.
func (e *Engine) RecoverSurplus(ctx context.Context, actor, recipient string, amount uint64) (err error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "RecoverSurplus")
	defer func() {
		tracer.OnError(err)
		tracer.End()
	}()

	if err = e.requireAdmin(ctx, actor); err != nil {
		return err
	}

	if len(recipient) == 0 {
		return ErrRecipientIsZero
	}

	return e.data.ExecuteInTx(ctx, sql.LevelDefault, func(ctx context.Context) error {
		outstanding, err := e.outstanding(ctx, BasisReserved)
		if err != nil {
			return err
		}

		balance, err := e.token.GetBalance(ctx, e.vault(ctx))
		if err != nil {
			return err
		}

		var recoverable uint64
		if balance > outstanding {
			recoverable = balance - outstanding
		}

		if amount > recoverable {
			return ErrAmountExceedsRecoverable
		}

		return e.token.Transfer(ctx, e.vault(ctx), recipient, amount)
	})
}

func (e *Engine) outstanding(ctx context.Context, basis SupplyBasis) (uint64, error) {
	aggregates, err := e.data.GetAllocationAggregates(ctx)
	if err != nil {
		return 0, err
	}

	switch basis {
	case BasisReserved:
		return aggregates.TotalReserved - aggregates.TotalClaimed, nil
	default:
		return aggregates.TotalVested - aggregates.TotalClaimed, nil
	}
}

func (e *Engine) requiredSupply(ctx context.Context, basis SupplyBasis) (uint64, error) {
	outstanding, err := e.outstanding(ctx, basis)
	if err != nil {
		return 0, err
	}

	balance, err := e.token.GetBalance(ctx, e.vault(ctx))
	if err != nil {
		return 0, err
	}

	if balance >= outstanding {
		return 0, nil
	}
	return outstanding - balance, nil
}

// supplyFrom performs the clamped, exactly-measured top-up transfer. Callers
// hold the transaction boundary and have already authorized the operation.
func (e *Engine) supplyFrom(ctx context.Context, source string, amount uint64, basis SupplyBasis) error {
	required, err := e.requiredSupply(ctx, basis)
	if err != nil {
		return err
	}

	if required == 0 {
		return nil
	}

	if amount == 0 || amount > required {
		amount = required
	}

	vault := e.vault(ctx)

	balanceBefore, err := e.token.GetBalance(ctx, vault)
	if err != nil {
		return err
	}

	if err := e.token.Transfer(ctx, source, vault, amount); err != nil {
		return err
	}

	balanceAfter, err := e.token.GetBalance(ctx, vault)
	if err != nil {
		return err
	}

	if balanceAfter-balanceBefore != amount {
		return ErrUnexpectedTransferAmount
	}

	metrics.RecordCount(ctx, "vesting_supplied_amount", amount)

	return nil
}
