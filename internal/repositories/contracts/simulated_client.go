package contracts

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind/backends"
	"github.com/ethereum/go-ethereum/core"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/params"
	"github.com/jackprotocol/jack-staking/internal/lib"
	"github.com/jackprotocol/jack-staking/internal/resources/staking"
)

const (
	SimulatedGasLimit = 30_000_000
	// blocks generated by the simulated backend are spaced by a fixed period
	simulatedBlockPeriod = 10
)

var simulatedBalance = new(big.Int).Mul(big.NewInt(10_000), big.NewInt(params.Ether))

// SimulatedClient is an in-process go-ethereum chain that mines every transaction as soon as it is
// sent, like an automining development node. Block timestamps start at the unix epoch
type SimulatedClient struct {
	*backends.SimulatedBackend
	mutex sync.Mutex
}

var _ DevNode = (*SimulatedClient)(nil)

// NewSimulatedClient funds accounts with 10000 ether each
func NewSimulatedClient(accounts []*lib.Account) *SimulatedClient {
	alloc := make(core.GenesisAlloc, len(accounts))
	for _, acc := range accounts {
		alloc[acc.Address] = core.GenesisAccount{Balance: new(big.Int).Set(simulatedBalance)}
	}
	return &SimulatedClient{
		SimulatedBackend: backends.NewSimulatedBackend(alloc, SimulatedGasLimit),
	}
}

func (c *SimulatedClient) ChainID(ctx context.Context) (*big.Int, error) {
	return new(big.Int).Set(params.AllEthashProtocolChanges.ChainID), nil
}

func (c *SimulatedClient) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if err := c.SimulatedBackend.SendTransaction(ctx, tx); err != nil {
		return err
	}
	c.SimulatedBackend.Commit()
	return nil
}

func (c *SimulatedClient) LatestTime(ctx context.Context) (time.Time, error) {
	header, err := c.HeaderByNumber(ctx, nil)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(int64(header.Time), 0), nil
}

// IncreaseTo mines an empty block with timestamp t
func (c *SimulatedClient) IncreaseTo(ctx context.Context, t time.Time) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	header, err := c.HeaderByNumber(ctx, nil)
	if err != nil {
		return err
	}
	target := t.Unix()
	if target <= int64(header.Time) {
		return fmt.Errorf("timestamp %d is not after the latest block timestamp %d", target, header.Time)
	}

	offset := target - int64(header.Time) - simulatedBlockPeriod
	if err := c.AdjustTime(time.Duration(offset) * time.Second); err != nil {
		return err
	}
	c.SimulatedBackend.Commit()

	mined, err := c.HeaderByNumber(ctx, nil)
	if err != nil {
		return err
	}
	if int64(mined.Time) != target {
		return fmt.Errorf("mined block timestamp %d, expected %d", mined.Time, target)
	}
	return nil
}

// Snapshot is not supported, the simulated backend can only roll back the pending block
func (c *SimulatedClient) Snapshot(ctx context.Context) (string, error) {
	return "", staking.ErrSnapshotUnsupported
}

func (c *SimulatedClient) Revert(ctx context.Context, id string) error {
	return staking.ErrSnapshotUnsupported
}
