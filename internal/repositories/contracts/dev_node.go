package contracts

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
)

// DevNode controls the clock and state of a development network
type DevNode interface {
	IncreaseTo(ctx context.Context, t time.Time) error
	LatestTime(ctx context.Context) (time.Time, error)
	Snapshot(ctx context.Context) (string, error)
	Revert(ctx context.Context, id string) error
}

type rpcCaller interface {
	CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
}

// RPCDevNode drives Hardhat and Anvil nodes through their evm_* methods
type RPCDevNode struct {
	rpc    rpcCaller
	client EthereumClient
}

func NewRPCDevNode(rpcClient *rpc.Client, client EthereumClient) *RPCDevNode {
	return &RPCDevNode{rpc: rpcClient, client: client}
}

// IncreaseTo mines a block at t, the same way hardhat network helpers time.increaseTo does
func (n *RPCDevNode) IncreaseTo(ctx context.Context, t time.Time) error {
	if err := n.rpc.CallContext(ctx, nil, "evm_setNextBlockTimestamp", t.Unix()); err != nil {
		return n.wrap("evm_setNextBlockTimestamp", err)
	}
	if err := n.rpc.CallContext(ctx, nil, "evm_mine"); err != nil {
		return n.wrap("evm_mine", err)
	}
	return nil
}

func (n *RPCDevNode) LatestTime(ctx context.Context) (time.Time, error) {
	header, err := n.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(int64(header.Time), 0), nil
}

func (n *RPCDevNode) Snapshot(ctx context.Context) (string, error) {
	var id string
	if err := n.rpc.CallContext(ctx, &id, "evm_snapshot"); err != nil {
		return "", n.wrap("evm_snapshot", err)
	}
	return id, nil
}

func (n *RPCDevNode) Revert(ctx context.Context, id string) error {
	var ok bool
	if err := n.rpc.CallContext(ctx, &ok, "evm_revert", id); err != nil {
		return n.wrap("evm_revert", err)
	}
	if !ok {
		return fmt.Errorf("evm_revert: snapshot %s was not reverted", id)
	}
	return nil
}

func (n *RPCDevNode) wrap(method string, err error) error {
	if rpcErr, ok := err.(rpc.Error); ok && rpcErr.ErrorCode() == -32601 {
		return fmt.Errorf("%w: %s", ErrDevRPCUnsupported, method)
	}
	return fmt.Errorf("%s: %w", method, err)
}
