package contracts

import (
	"context"
	"math/big"
	"net/url"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// EthereumClient is the part of a node connection used by the contract bindings
type EthereumClient interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
}

type EthClient struct {
	// config
	url string

	// state
	*ethclient.Client
	rpcClient *rpc.Client
}

func DialContext(ctx context.Context, urlString string) (*EthClient, error) {
	if _, err := url.Parse(urlString); err != nil {
		return nil, err
	}

	rpcClient, err := rpc.DialContext(ctx, urlString)
	if err != nil {
		return nil, err
	}
	return &EthClient{
		Client:    ethclient.NewClient(rpcClient),
		url:       urlString,
		rpcClient: rpcClient,
	}, nil
}

// RPC exposes the raw connection for node specific methods
func (c *EthClient) RPC() *rpc.Client {
	return c.rpcClient
}

func (c *EthClient) URL() string {
	return c.url
}
