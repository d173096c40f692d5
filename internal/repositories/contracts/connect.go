package contracts

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackprotocol/jack-staking/internal/lib"
	"github.com/jackprotocol/jack-staking/internal/networks"
)

var ErrChainIDMismatch = errors.New("chain id mismatch")

// Connection is a node client together with its development controls
type Connection struct {
	Client EthereumClient
	Node   DevNode
	close  func()
}

func (c *Connection) Close() {
	if c.close != nil {
		c.close()
	}
}

// Connect dials the network node, or starts an in-process chain funding accounts for simulated networks.
// A configured chain id is checked against the node
func Connect(ctx context.Context, network networks.Network, accounts []*lib.Account) (*Connection, error) {
	if network.Simulated {
		sim := NewSimulatedClient(accounts)
		return &Connection{
			Client: sim,
			Node:   sim,
			close:  func() { _ = sim.Close() },
		}, nil
	}

	client, err := DialContext(ctx, network.URL)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", network.Name, err)
	}

	if network.ChainID != 0 {
		chainID, err := client.ChainID(ctx)
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("chain id of %s: %w", network.Name, err)
		}
		if !chainID.IsUint64() || chainID.Uint64() != network.ChainID {
			client.Close()
			return nil, fmt.Errorf("%w: network %s expects %d, node reports %s", ErrChainIDMismatch, network.Name, network.ChainID, chainID)
		}
	}

	return &Connection{
		Client: client,
		Node:   NewRPCDevNode(client.RPC(), client),
		close:  client.Close,
	}, nil
}
