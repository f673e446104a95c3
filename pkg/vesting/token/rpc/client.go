// Package rpc implements a token.Client against a JSON-RPC token node.
package rpc

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/ybbus/jsonrpc"

	"github.com/openvest/vesting-server/pkg/retry"
	"github.com/openvest/vesting-server/pkg/retry/backoff"
	"github.com/openvest/vesting-server/pkg/vesting/token"
)

const (
	rateLimitedCode  = 429
	serviceErrorCode = -32000
)

var (
	errRateLimited  = retriableError{"rate limited"}
	errServiceError = retriableError{"service error"}
)

type retriableError struct {
	message string
}

func (e retriableError) Error() string {
	return e.message
}

type client struct {
	log     *logrus.Entry
	client  jsonrpc.RPCClient
	retrier retry.Retrier
}

// New returns a client using the specified endpoint.
func New(endpoint string) token.Client {
	return NewWithRPCOptions(endpoint, nil)
}

// NewWithRPCOptions returns a client configured with the specified RPC options.
func NewWithRPCOptions(endpoint string, opts *jsonrpc.RPCClientOpts) token.Client {
	return &client{
		log:    logrus.StandardLogger().WithField("type", "token/rpc/client"),
		client: jsonrpc.NewClientWithOpts(endpoint, opts),
		retrier: retry.NewRetrier(
			retry.RetriableErrors(errRateLimited, errServiceError),
			retry.Limit(3),
			retry.BackoffWithJitter(backoff.BinaryExponential(time.Second), 10*time.Second, 0.1),
		),
	}
}

// GetBalance implements token.Client.GetBalance
func (c *client) GetBalance(_ context.Context, account string) (uint64, error) {
	var balance uint64
	if err := c.call(&balance, "token_getBalance", account); err != nil {
		return 0, err
	}
	return balance, nil
}

// Transfer implements token.Client.Transfer
func (c *client) Transfer(_ context.Context, source, destination string, amount uint64) error {
	var signature string
	return c.call(&signature, "token_transfer", source, destination, amount)
}

func (c *client) call(out interface{}, method string, params ...interface{}) error {
	_, err := c.retrier.Retry(func() error {
		err := c.client.CallFor(out, method, params...)
		if err == nil {
			return nil
		}

		return c.handleRpcError(method, err)
	})

	return err
}

func (c *client) handleRpcError(method string, err error) error {
	rpcErr, ok := err.(*jsonrpc.RPCError)
	if !ok {
		return err
	}

	switch rpcErr.Code {
	case rateLimitedCode:
		c.log.WithField("method", method).Warn("rate limited")
		return errRateLimited
	case serviceErrorCode:
		c.log.WithField("method", method).Warn("transient service error")
		return errServiceError
	}

	return err
}
