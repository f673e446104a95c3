// Package token abstracts the external token ledger the vesting engine
// settles against. The engine only needs balance lookups and transfers; all
// schedule accounting stays local.
package token

import (
	"context"

	"github.com/pkg/errors"
)

var (
	ErrInsufficientBalance = errors.New("insufficient token balance")
	ErrAccountNotFound     = errors.New("token account not found")
)

type Client interface {
	// GetBalance gets the token balance held by an account
	GetBalance(ctx context.Context, account string) (uint64, error)

	// Transfer moves tokens between two accounts. The engine only ever
	// initiates transfers from accounts it controls.
	Transfer(ctx context.Context, source, destination string, amount uint64) error
}
