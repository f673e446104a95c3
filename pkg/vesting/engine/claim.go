package engine

import (
	"context"
	"database/sql"

	"github.com/openvest/vesting-server/pkg/metrics"
	"github.com/openvest/vesting-server/pkg/vesting/data/allocation"
	"github.com/openvest/vesting-server/pkg/vesting/data/beneficiary"
	"github.com/openvest/vesting-server/pkg/vesting/data/settings"
	"github.com/openvest/vesting-server/pkg/vesting/unlock"
)

// Claim settles everything currently claimable for a beneficiary across all
// live allocations. A zero claimable total is a no-op, not an error, which
// makes the operation idempotent between credits.
//
// The token transfer happens before any ledger write, so a failed transfer
// leaves no partial settlement behind.
func (e *Engine) Claim(ctx context.Context, owner string) (claimed uint64, err error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "Claim")
	defer func() {
		tracer.OnError(err)
		tracer.End()
	}()

	ownerLock := e.ownerLocks.Get([]byte(owner))
	ownerLock.Lock()
	defer ownerLock.Unlock()

	err = e.data.ExecuteInTx(ctx, sql.LevelDefault, func(ctx context.Context) error {
		claimed, err = e.claim(ctx, owner)
		return err
	})
	if err != nil {
		return 0, err
	}

	metrics.RecordCount(ctx, "vesting_claimed_amount", claimed)

	return claimed, nil
}

// ClaimFor settles claims on behalf of a batch of beneficiaries. Any single
// failure aborts the whole batch; this is intentionally all-or-nothing
// rather than best-effort.
func (e *Engine) ClaimFor(ctx context.Context, actor string, owners []string) (err error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "ClaimFor")
	defer func() {
		tracer.OnError(err)
		tracer.End()
	}()

	if err = e.requireAdmin(ctx, actor); err != nil {
		return err
	}

	return e.data.ExecuteInTx(ctx, sql.LevelDefault, func(ctx context.Context) error {
		for _, owner := range owners {
			if err := func() error {
				ownerLock := e.ownerLocks.Get([]byte(owner))
				ownerLock.Lock()
				defer ownerLock.Unlock()

				_, err := e.claim(ctx, owner)
				return err
			}(); err != nil {
				return err
			}
		}
		return nil
	})
}

// OnPurchase credits vesting for an externally completed purchase. Only the
// bound sale channel may call it. The sale stage identifier maps onto an
// allocation id through a deterministic derivation.
func (e *Engine) OnPurchase(ctx context.Context, caller, owner, stageId string, amount uint64) (err error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "OnPurchase")
	defer func() {
		tracer.OnError(err)
		tracer.End()
	}()

	ownerLock := e.ownerLocks.Get([]byte(owner))
	ownerLock.Lock()
	defer ownerLock.Unlock()

	return e.data.ExecuteInTx(ctx, sql.LevelDefault, func(ctx context.Context) error {
		settingsRecord, err := e.getSettings(ctx)
		if err != nil {
			return err
		}

		if len(settingsRecord.SaleChannel) == 0 {
			return ErrSaleChannelUnset
		}
		if caller != settingsRecord.SaleChannel {
			return ErrUnauthorized
		}

		if err := e.increase(ctx, owner, allocation.IDFromSaleStage(stageId), amount); err != nil {
			return err
		}

		return e.autoSupplyAfterIncrease(ctx)
	})
}

type claimableEntry struct {
	allocationRecord  *allocation.Record
	beneficiaryRecord *beneficiary.Record
	amount            uint64
}

func (e *Engine) claim(ctx context.Context, owner string) (uint64, error) {
	if len(owner) == 0 {
		return 0, ErrRecipientIsZero
	}

	settingsRecord, err := e.getSettings(ctx)
	if err != nil {
		return 0, err
	}

	if !e.isGenesisPassed(settingsRecord) {
		return 0, ErrGenesisNotPassed
	}

	entries, total, err := e.computeClaimable(ctx, settingsRecord, owner, e.now())
	if err != nil {
		return 0, err
	}

	if total == 0 {
		return 0, nil
	}

	if settingsRecord.AutoSupplyOnClaim && len(settingsRecord.AutoSupplySource) > 0 {
		if err := e.supplyFrom(ctx, settingsRecord.AutoSupplySource, total, BasisVested); err != nil {
			return 0, err
		}
	}

	if err := e.token.Transfer(ctx, e.vault(ctx), owner, total); err != nil {
		return 0, err
	}

	for _, entry := range entries {
		entry.allocationRecord.Claimed += entry.amount
		entry.beneficiaryRecord.Claimed += entry.amount

		if err := e.data.PutAllocation(ctx, entry.allocationRecord); err != nil {
			return 0, err
		}
		if err := e.data.PutBeneficiary(ctx, entry.beneficiaryRecord); err != nil {
			return 0, err
		}
	}

	e.notifier.OnClaimed(ctx, owner, total)

	return total, nil
}

// computeClaimable walks the live allocation set and derives the positive
// unlocked-minus-claimed delta per allocation for a beneficiary.
func (e *Engine) computeClaimable(ctx context.Context, settingsRecord *settings.Record, owner string, at uint64) ([]*claimableEntry, uint64, error) {
	allocationRecords, err := e.data.GetAllAllocations(ctx)
	if err != nil {
		return nil, 0, err
	}

	var entries []*claimableEntry
	var total uint64
	for _, allocationRecord := range allocationRecords {
		beneficiaryRecord, err := e.data.GetBeneficiary(ctx, owner, allocationRecord.AllocationId)
		if err == beneficiary.ErrNotFound {
			continue
		}
		if err != nil {
			return nil, 0, err
		}

		unlocked := unlock.Calculate(allocationRecord.Schedule(), beneficiaryRecord.Vested, settingsRecord.GenesisAt, at)
		if unlocked <= beneficiaryRecord.Claimed {
			continue
		}

		amount := unlocked - beneficiaryRecord.Claimed
		entries = append(entries, &claimableEntry{
			allocationRecord:  allocationRecord,
			beneficiaryRecord: beneficiaryRecord,
			amount:            amount,
		})
		total += amount
	}

	return entries, total, nil
}
