package settings

import (
	"time"

	"github.com/pkg/errors"
)

// Record is the engine-wide settings state. There is exactly one live record.
//
// A zero GenesisAt means genesis has not been scheduled. An empty SaleChannel
// means no sale channel has been bound. The frozen flags are one way and make
// the corresponding value immutable.
type Record struct {
	Id uint64

	GenesisAt     uint64
	GenesisFrozen bool

	SaleChannel       string
	SaleChannelFrozen bool

	AutoSupplyOnClaim    bool
	AutoSupplyOnIncrease bool
	AutoSupplySource     string

	TokenName   string
	TokenSymbol string

	LastUpdatedAt time.Time
}

func (r *Record) Validate() error {
	if r.GenesisFrozen && r.GenesisAt == 0 {
		return errors.New("genesis cannot be frozen while unset")
	}

	if r.SaleChannelFrozen && len(r.SaleChannel) == 0 {
		return errors.New("sale channel cannot be frozen while unset")
	}

	return nil
}

func (r *Record) Clone() *Record {
	return &Record{
		Id: r.Id,

		GenesisAt:     r.GenesisAt,
		GenesisFrozen: r.GenesisFrozen,

		SaleChannel:       r.SaleChannel,
		SaleChannelFrozen: r.SaleChannelFrozen,

		AutoSupplyOnClaim:    r.AutoSupplyOnClaim,
		AutoSupplyOnIncrease: r.AutoSupplyOnIncrease,
		AutoSupplySource:     r.AutoSupplySource,

		TokenName:   r.TokenName,
		TokenSymbol: r.TokenSymbol,

		LastUpdatedAt: r.LastUpdatedAt,
	}
}

func (r *Record) CopyTo(dst *Record) {
	dst.Id = r.Id

	dst.GenesisAt = r.GenesisAt
	dst.GenesisFrozen = r.GenesisFrozen

	dst.SaleChannel = r.SaleChannel
	dst.SaleChannelFrozen = r.SaleChannelFrozen

	dst.AutoSupplyOnClaim = r.AutoSupplyOnClaim
	dst.AutoSupplyOnIncrease = r.AutoSupplyOnIncrease
	dst.AutoSupplySource = r.AutoSupplySource

	dst.TokenName = r.TokenName
	dst.TokenSymbol = r.TokenSymbol

	dst.LastUpdatedAt = r.LastUpdatedAt
}
