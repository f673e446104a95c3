package engine

import (
	"context"
	"database/sql"

	"github.com/openvest/vesting-server/pkg/metrics"
	"github.com/openvest/vesting-server/pkg/vesting/data/allocation"
	"github.com/openvest/vesting-server/pkg/vesting/data/beneficiary"
)

// IncreaseAllocation credits a beneficiary with newly vested tokens within an
// allocation. This is the only path by which vesting grows.
func (e *Engine) IncreaseAllocation(ctx context.Context, actor, owner, allocationId string, amount uint64) (err error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "IncreaseAllocation")
	defer func() {
		tracer.OnError(err)
		tracer.End()
	}()

	if err = e.requireAdmin(ctx, actor); err != nil {
		return err
	}

	ownerLock := e.ownerLocks.Get([]byte(owner))
	ownerLock.Lock()
	defer ownerLock.Unlock()

	return e.data.ExecuteInTx(ctx, sql.LevelDefault, func(ctx context.Context) error {
		if err := e.increase(ctx, owner, allocationId, amount); err != nil {
			return err
		}

		return e.autoSupplyAfterIncrease(ctx)
	})
}

// IncreaseAllocations applies a batch of credits all-or-nothing. The three
// parameter slices are positional and must have equal length.
func (e *Engine) IncreaseAllocations(ctx context.Context, actor string, owners, allocationIds []string, amounts []uint64) (err error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "IncreaseAllocations")
	defer func() {
		tracer.OnError(err)
		tracer.End()
	}()

	if err = e.requireAdmin(ctx, actor); err != nil {
		return err
	}

	if len(owners) != len(allocationIds) || len(owners) != len(amounts) {
		return ErrParameterLengthMismatch
	}

	return e.data.ExecuteInTx(ctx, sql.LevelDefault, func(ctx context.Context) error {
		// Credits against the same allocation accumulate within the batch,
		// so the validation pass has to track running totals.
		pendingByAllocation := make(map[string]uint64)
		for i := range owners {
			record, err := e.data.GetAllocation(ctx, allocationIds[i])
			if err == allocation.ErrNotFound {
				return ErrAllocationNotFound
			}
			if err != nil {
				return err
			}

			pending := pendingByAllocation[allocationIds[i]] + amounts[i]
			if record.Vested+pending > record.Reserved {
				return ErrAllocationExceeded
			}
			pendingByAllocation[allocationIds[i]] = pending
		}

		for i := range owners {
			if err := e.increase(ctx, owners[i], allocationIds[i], amounts[i]); err != nil {
				return err
			}
		}

		return e.autoSupplyAfterIncrease(ctx)
	})
}

// increase applies a single credit. Callers hold the transaction boundary.
func (e *Engine) increase(ctx context.Context, owner, allocationId string, amount uint64) error {
	if len(owner) == 0 {
		return ErrRecipientIsZero
	}

	allocationRecord, err := e.data.GetAllocation(ctx, allocationId)
	if err == allocation.ErrNotFound {
		return ErrAllocationNotFound
	}
	if err != nil {
		return err
	}

	if allocationRecord.Vested+amount > allocationRecord.Reserved {
		return ErrAllocationExceeded
	}

	beneficiaryRecord, err := e.data.GetBeneficiary(ctx, owner, allocationId)
	if err == beneficiary.ErrNotFound {
		beneficiaryRecord = &beneficiary.Record{
			Owner:        owner,
			AllocationId: allocationId,
		}
	} else if err != nil {
		return err
	}

	allocationRecord.Vested += amount
	beneficiaryRecord.Vested += amount

	if err := e.data.PutAllocation(ctx, allocationRecord); err != nil {
		return err
	}
	if err := e.data.PutBeneficiary(ctx, beneficiaryRecord); err != nil {
		return err
	}

	e.notifier.OnVestingIncreased(ctx, owner, allocationId, amount)

	return nil
}

func (e *Engine) autoSupplyAfterIncrease(ctx context.Context) error {
	settingsRecord, err := e.getSettings(ctx)
	if err != nil {
		return err
	}

	if !settingsRecord.AutoSupplyOnIncrease || len(settingsRecord.AutoSupplySource) == 0 {
		return nil
	}

	// Pre-funding sizing covers the full reservation, not just what has
	// vested so far
	return e.supplyFrom(ctx, settingsRecord.AutoSupplySource, 0, BasisReserved)
}
