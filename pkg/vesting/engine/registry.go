package engine

import (
	"context"
	"database/sql"

	"github.com/openvest/vesting-server/pkg/metrics"
	"github.com/openvest/vesting-server/pkg/vesting/data/allocation"
	"github.com/openvest/vesting-server/pkg/vesting/unlock"
)

const metricsStructName = "vesting.engine"

// AllocationParams are the administratively controlled parts of an
// allocation. Accounting state (vested, claimed) is never set directly.
type AllocationParams struct {
	AllocationId string

	// Optional human readable label. When AllocationId is empty the id is
	// derived from the name.
	Name string

	Reserved uint64

	Lockup          uint64
	Cliff           uint64
	VestingDuration uint64
	UnlockDelay     uint64
	TgeUnlockBps    uint32
}

func (p *AllocationParams) resolveId() string {
	if len(p.AllocationId) > 0 {
		return p.AllocationId
	}
	return allocation.IDFromName(p.Name)
}

// UpsertAllocation creates or reconfigures a named allocation. Accounting
// state survives reconfiguration. Schedule changes apply to all future unlock
// computations immediately; sequencing edits relative to external sale
// progression is the caller's responsibility.
func (e *Engine) UpsertAllocation(ctx context.Context, actor string, params AllocationParams) (err error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "UpsertAllocation")
	defer func() {
		tracer.OnError(err)
		tracer.End()
	}()

	if err = e.requireAdmin(ctx, actor); err != nil {
		return err
	}

	return e.data.ExecuteInTx(ctx, sql.LevelDefault, func(ctx context.Context) error {
		record, err := e.upsertAllocation(ctx, params)
		if err != nil {
			return err
		}

		e.notifier.OnAllocationUpdated(ctx, record)
		return nil
	})
}

// UpsertAllocations applies a batch of allocation upserts all-or-nothing. A
// validation pass runs over the entire batch before any write is applied.
func (e *Engine) UpsertAllocations(ctx context.Context, actor string, params []AllocationParams) (err error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "UpsertAllocations")
	defer func() {
		tracer.OnError(err)
		tracer.End()
	}()

	if err = e.requireAdmin(ctx, actor); err != nil {
		return err
	}

	return e.data.ExecuteInTx(ctx, sql.LevelDefault, func(ctx context.Context) error {
		for _, p := range params {
			if err := e.validateAllocationParams(ctx, p); err != nil {
				return err
			}
		}

		for _, p := range params {
			record, err := e.upsertAllocation(ctx, p)
			if err != nil {
				return err
			}

			e.notifier.OnAllocationUpdated(ctx, record)
		}
		return nil
	})
}

// RemoveAllocation deletes an allocation that has no vested tokens.
func (e *Engine) RemoveAllocation(ctx context.Context, actor, allocationId string) (err error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "RemoveAllocation")
	defer func() {
		tracer.OnError(err)
		tracer.End()
	}()

	if err = e.requireAdmin(ctx, actor); err != nil {
		return err
	}

	return e.data.ExecuteInTx(ctx, sql.LevelDefault, func(ctx context.Context) error {
		if err := e.removeAllocation(ctx, allocationId); err != nil {
			return err
		}

		e.notifier.OnAllocationRemoved(ctx, allocationId)
		return nil
	})
}

// RemoveAllocations deletes a batch of allocations all-or-nothing.
func (e *Engine) RemoveAllocations(ctx context.Context, actor string, allocationIds []string) (err error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "RemoveAllocations")
	defer func() {
		tracer.OnError(err)
		tracer.End()
	}()

	if err = e.requireAdmin(ctx, actor); err != nil {
		return err
	}

	return e.data.ExecuteInTx(ctx, sql.LevelDefault, func(ctx context.Context) error {
		for _, allocationId := range allocationIds {
			if err := e.validateAllocationRemoval(ctx, allocationId); err != nil {
				return err
			}
		}

		for _, allocationId := range allocationIds {
			if err := e.removeAllocation(ctx, allocationId); err != nil {
				return err
			}

			e.notifier.OnAllocationRemoved(ctx, allocationId)
		}
		return nil
	})
}

func (e *Engine) validateAllocationParams(ctx context.Context, params AllocationParams) error {
	if params.TgeUnlockBps > unlock.MaxBps {
		return ErrTgeUnlockExceedsMaximum
	}

	existing, err := e.data.GetAllocation(ctx, params.resolveId())
	if err == allocation.ErrNotFound {
		return nil
	}
	if err != nil {
		return err
	}

	// A lowered reservation must not retroactively break accounting
	if existing.Vested > params.Reserved {
		return ErrReservedBelowVested
	}
	return nil
}

func (e *Engine) upsertAllocation(ctx context.Context, params AllocationParams) (*allocation.Record, error) {
	if err := e.validateAllocationParams(ctx, params); err != nil {
		return nil, err
	}

	allocationId := params.resolveId()

	record, err := e.data.GetAllocation(ctx, allocationId)
	if err == allocation.ErrNotFound {
		record = &allocation.Record{
			AllocationId: allocationId,
		}
	} else if err != nil {
		return nil, err
	}

	record.Name = params.Name
	record.Reserved = params.Reserved
	record.Lockup = params.Lockup
	record.Cliff = params.Cliff
	record.VestingDuration = params.VestingDuration
	record.UnlockDelay = params.UnlockDelay
	record.TgeUnlockBps = params.TgeUnlockBps

	if err := e.data.PutAllocation(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (e *Engine) validateAllocationRemoval(ctx context.Context, allocationId string) error {
	record, err := e.data.GetAllocation(ctx, allocationId)
	if err == allocation.ErrNotFound {
		return ErrAllocationNotFound
	}
	if err != nil {
		return err
	}

	if record.Vested > 0 {
		return ErrAllocationInUse
	}
	return nil
}

func (e *Engine) removeAllocation(ctx context.Context, allocationId string) error {
	if err := e.validateAllocationRemoval(ctx, allocationId); err != nil {
		return err
	}

	return e.data.DeleteAllocation(ctx, allocationId)
}
