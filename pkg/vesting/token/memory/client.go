package memory

import (
	"context"
	"sync"

	"github.com/openvest/vesting-server/pkg/vesting/token"
)

type client struct {
	mu       sync.Mutex
	balances map[string]uint64

	// Fee, in basis points, withheld from the destination on every
	// transfer. Used to simulate fee-on-transfer token behavior.
	transferFeeBps uint64
}

// New returns a new in memory token.Client
func New() token.Client {
	return &client{
		balances: make(map[string]uint64),
	}
}

// GetBalance implements token.Client.GetBalance
func (c *client) GetBalance(_ context.Context, account string) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.balances[account], nil
}

// Transfer implements token.Client.Transfer
func (c *client) Transfer(_ context.Context, source, destination string, amount uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.balances[source] < amount {
		return token.ErrInsufficientBalance
	}

	received := amount - amount*c.transferFeeBps/10000

	c.balances[source] -= amount
	c.balances[destination] += received

	return nil
}

// Mint credits an account with new tokens outside of any transfer.
func Mint(c token.Client, account string, amount uint64) {
	typed := c.(*client)

	typed.mu.Lock()
	defer typed.mu.Unlock()

	typed.balances[account] += amount
}

// SetTransferFee makes every subsequent transfer deliver less than the sent
// amount, simulating a fee-on-transfer token.
func SetTransferFee(c token.Client, feeBps uint64) {
	typed := c.(*client)

	typed.mu.Lock()
	defer typed.mu.Unlock()

	typed.transferFeeBps = feeBps
}
