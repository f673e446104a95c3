package engine

import (
	"context"
	"database/sql"

	"github.com/openvest/vesting-server/pkg/metrics"
)

// SetGenesis schedules the genesis (TGE) timestamp. Genesis can be moved
// until it passes or is frozen, and must always be set in the future.
func (e *Engine) SetGenesis(ctx context.Context, actor string, at uint64) (err error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "SetGenesis")
	defer func() {
		tracer.OnError(err)
		tracer.End()
	}()

	if err = e.requireAdmin(ctx, actor); err != nil {
		return err
	}

	return e.data.ExecuteInTx(ctx, sql.LevelDefault, func(ctx context.Context) error {
		record, err := e.getSettings(ctx)
		if err != nil {
			return err
		}

		if record.GenesisFrozen {
			return ErrGenesisFrozen
		}
		if e.isGenesisPassed(record) {
			return ErrGenesisPassed
		}
		if at < e.now() {
			return ErrTimeAlreadyPassed
		}

		record.GenesisAt = at
		return e.data.PutSettings(ctx, record)
	})
}

// FreezeGenesis makes the genesis timestamp permanently immutable.
func (e *Engine) FreezeGenesis(ctx context.Context, actor string) (err error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "FreezeGenesis")
	defer func() {
		tracer.OnError(err)
		tracer.End()
	}()

	if err = e.requireAdmin(ctx, actor); err != nil {
		return err
	}

	return e.data.ExecuteInTx(ctx, sql.LevelDefault, func(ctx context.Context) error {
		record, err := e.getSettings(ctx)
		if err != nil {
			return err
		}

		if record.GenesisAt == 0 {
			return ErrGenesisIsZero
		}
		if record.GenesisFrozen {
			return ErrGenesisFrozen
		}

		record.GenesisFrozen = true
		return e.data.PutSettings(ctx, record)
	})
}

// SetSaleChannel binds the address authorized to credit vesting on behalf of
// purchases.
func (e *Engine) SetSaleChannel(ctx context.Context, actor, address string) (err error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "SetSaleChannel")
	defer func() {
		tracer.OnError(err)
		tracer.End()
	}()

	if err = e.requireAdmin(ctx, actor); err != nil {
		return err
	}

	if len(address) == 0 {
		return ErrRecipientIsZero
	}

	return e.data.ExecuteInTx(ctx, sql.LevelDefault, func(ctx context.Context) error {
		record, err := e.getSettings(ctx)
		if err != nil {
			return err
		}

		if record.SaleChannelFrozen {
			return ErrSaleChannelFrozen
		}

		record.SaleChannel = address
		return e.data.PutSettings(ctx, record)
	})
}

// FreezeSaleChannel makes the sale channel binding permanently immutable.
func (e *Engine) FreezeSaleChannel(ctx context.Context, actor string) (err error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "FreezeSaleChannel")
	defer func() {
		tracer.OnError(err)
		tracer.End()
	}()

	if err = e.requireAdmin(ctx, actor); err != nil {
		return err
	}

	return e.data.ExecuteInTx(ctx, sql.LevelDefault, func(ctx context.Context) error {
		record, err := e.getSettings(ctx)
		if err != nil {
			return err
		}

		if len(record.SaleChannel) == 0 {
			return ErrSaleChannelUnset
		}
		if record.SaleChannelFrozen {
			return ErrSaleChannelFrozen
		}

		record.SaleChannelFrozen = true
		return e.data.PutSettings(ctx, record)
	})
}

// SetAutoSupply configures automatic vault top-ups on claims and credits.
func (e *Engine) SetAutoSupply(ctx context.Context, actor string, onClaim, onIncrease bool, source string) (err error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "SetAutoSupply")
	defer func() {
		tracer.OnError(err)
		tracer.End()
	}()

	if err = e.requireAdmin(ctx, actor); err != nil {
		return err
	}

	if (onClaim || onIncrease) && len(source) == 0 {
		return ErrRecipientIsZero
	}

	return e.data.ExecuteInTx(ctx, sql.LevelDefault, func(ctx context.Context) error {
		record, err := e.getSettings(ctx)
		if err != nil {
			return err
		}

		record.AutoSupplyOnClaim = onClaim
		record.AutoSupplyOnIncrease = onIncrease
		record.AutoSupplySource = source
		return e.data.PutSettings(ctx, record)
	})
}

// SetTokenMetadata relabels the token's display name and symbol.
func (e *Engine) SetTokenMetadata(ctx context.Context, actor, name, symbol string) (err error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "SetTokenMetadata")
	defer func() {
		tracer.OnError(err)
		tracer.End()
	}()

	if err = e.requireAdmin(ctx, actor); err != nil {
		return err
	}

	return e.data.ExecuteInTx(ctx, sql.LevelDefault, func(ctx context.Context) error {
		record, err := e.getSettings(ctx)
		if err != nil {
			return err
		}

		record.TokenName = name
		record.TokenSymbol = symbol
		return e.data.PutSettings(ctx, record)
	})
}
