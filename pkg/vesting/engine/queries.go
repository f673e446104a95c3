package engine

import (
	"context"

	"github.com/openvest/vesting-server/pkg/database/query"
	"github.com/openvest/vesting-server/pkg/vesting/data/allocation"
	"github.com/openvest/vesting-server/pkg/vesting/data/beneficiary"
	"github.com/openvest/vesting-server/pkg/vesting/unlock"
)

// UserAllocationState is a beneficiary's position within one allocation,
// evaluated at a query time.
type UserAllocationState struct {
	AllocationId string
	Name         string

	Vested    uint64
	Claimed   uint64
	Unlocked  uint64
	Claimable uint64
}

// UserState is a beneficiary's full snapshot across all allocations.
type UserState struct {
	Owner string

	Positions []*UserAllocationState

	TotalVested    uint64
	TotalClaimed   uint64
	TotalUnlocked  uint64
	TotalClaimable uint64
}

// AutoSupplyConfig is the publicly readable auto top-up configuration.
type AutoSupplyConfig struct {
	OnClaim    bool
	OnIncrease bool
	Source     string
}

// GetAllocation gets an allocation's schedule and accounting state.
func (e *Engine) GetAllocation(ctx context.Context, allocationId string) (*allocation.Record, error) {
	record, err := e.data.GetAllocation(ctx, allocationId)
	if err == allocation.ErrNotFound {
		return nil, ErrAllocationNotFound
	}
	return record, err
}

// GetAllocationByName gets an allocation through its human readable name.
func (e *Engine) GetAllocationByName(ctx context.Context, name string) (*allocation.Record, error) {
	return e.GetAllocation(ctx, allocation.IDFromName(name))
}

// GetAllAllocations lists the live allocation set.
func (e *Engine) GetAllAllocations(ctx context.Context) ([]*allocation.Record, error) {
	return e.data.GetAllAllocations(ctx)
}

// GetAggregates gets the engine-wide reserved, vested and claimed totals.
func (e *Engine) GetAggregates(ctx context.Context) (*allocation.Aggregates, error) {
	return e.data.GetAllocationAggregates(ctx)
}

// GetUserState snapshots a beneficiary's positions at a query time, where a
// zero time means "now".
func (e *Engine) GetUserState(ctx context.Context, owner string, at uint64) (*UserState, error) {
	at = e.resolveQueryTime(at)

	settingsRecord, err := e.getSettings(ctx)
	if err != nil {
		return nil, err
	}

	res := &UserState{
		Owner: owner,
	}

	beneficiaryRecords, err := e.data.GetAllBeneficiariesByOwner(ctx, owner, query.EmptyCursor, 0, query.Ascending)
	if err == beneficiary.ErrNotFound {
		return res, nil
	}
	if err != nil {
		return nil, err
	}

	for _, beneficiaryRecord := range beneficiaryRecords {
		allocationRecord, err := e.data.GetAllocation(ctx, beneficiaryRecord.AllocationId)
		if err == allocation.ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}

		unlocked := unlock.Calculate(allocationRecord.Schedule(), beneficiaryRecord.Vested, settingsRecord.GenesisAt, at)

		var claimable uint64
		if unlocked > beneficiaryRecord.Claimed {
			claimable = unlocked - beneficiaryRecord.Claimed
		}

		res.Positions = append(res.Positions, &UserAllocationState{
			AllocationId: allocationRecord.AllocationId,
			Name:         allocationRecord.Name,

			Vested:    beneficiaryRecord.Vested,
			Claimed:   beneficiaryRecord.Claimed,
			Unlocked:  unlocked,
			Claimable: claimable,
		})

		res.TotalVested += beneficiaryRecord.Vested
		res.TotalClaimed += beneficiaryRecord.Claimed
		res.TotalUnlocked += unlocked
		res.TotalClaimable += claimable
	}

	return res, nil
}

// GetClaimable previews the total a beneficiary could claim at a query time,
// where a zero time means "now". No state is modified.
func (e *Engine) GetClaimable(ctx context.Context, owner string, at uint64) (uint64, error) {
	settingsRecord, err := e.getSettings(ctx)
	if err != nil {
		return 0, err
	}

	_, total, err := e.computeClaimable(ctx, settingsRecord, owner, e.resolveQueryTime(at))
	if err != nil {
		return 0, err
	}
	return total, nil
}

// GetGenesis gets the genesis timestamp (zero when unset) and freeze state.
func (e *Engine) GetGenesis(ctx context.Context) (uint64, bool, error) {
	record, err := e.getSettings(ctx)
	if err != nil {
		return 0, false, err
	}
	return record.GenesisAt, record.GenesisFrozen, nil
}

// IsGenesisPassed reports whether claims are currently gated open.
func (e *Engine) IsGenesisPassed(ctx context.Context) (bool, error) {
	record, err := e.getSettings(ctx)
	if err != nil {
		return false, err
	}
	return e.isGenesisPassed(record), nil
}

// GetSaleChannel gets the bound sale channel (empty when unset) and freeze
// state.
func (e *Engine) GetSaleChannel(ctx context.Context) (string, bool, error) {
	record, err := e.getSettings(ctx)
	if err != nil {
		return "", false, err
	}
	return record.SaleChannel, record.SaleChannelFrozen, nil
}

// GetAutoSupply gets the auto top-up configuration.
func (e *Engine) GetAutoSupply(ctx context.Context) (*AutoSupplyConfig, error) {
	record, err := e.getSettings(ctx)
	if err != nil {
		return nil, err
	}
	return &AutoSupplyConfig{
		OnClaim:    record.AutoSupplyOnClaim,
		OnIncrease: record.AutoSupplyOnIncrease,
		Source:     record.AutoSupplySource,
	}, nil
}

// GetTokenMetadata gets the token's display name and symbol.
func (e *Engine) GetTokenMetadata(ctx context.Context) (string, string, error) {
	record, err := e.getSettings(ctx)
	if err != nil {
		return "", "", err
	}
	return record.TokenName, record.TokenSymbol, nil
}
