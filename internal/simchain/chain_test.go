package simchain

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/jackprotocol/jack-staking/internal/lib"
	"github.com/jackprotocol/jack-staking/internal/resources/staking"
	"github.com/stretchr/testify/require"
)

var genesis = time.Unix(1_700_000_000, 0)

func newTestChain(t *testing.T) (*Chain, []*lib.Account) {
	c, err := New(WithStartTime(genesis), WithLogger(lib.NewTestLogger()))
	require.NoError(t, err)
	signers, err := c.Signers(context.Background())
	require.NoError(t, err)
	return c, signers
}

func TestNewDerivesDevAccounts(t *testing.T) {
	_, signers := newTestChain(t)
	require.Len(t, signers, DefaultAccounts)
	require.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", signers[0].Address.Hex())
	require.Equal(t, "0x70997970C51812dc3A010C7d01b50e0d17dc79C8", signers[1].Address.Hex())
}

func TestIncreaseTo(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestChain(t)

	err := c.IncreaseTo(ctx, genesis)
	require.ErrorIs(t, err, ErrTimestampTooLow)

	target := genesis.Add(time.Hour)
	require.NoError(t, c.IncreaseTo(ctx, target))

	latest, err := c.LatestTime(ctx)
	require.NoError(t, err)
	require.Equal(t, target.Unix(), latest.Unix())
	require.EqualValues(t, 1, c.LatestBlock().Number)
}

func TestTransactionMinesBlockOneSecondLater(t *testing.T) {
	ctx := context.Background()
	c, signers := newTestChain(t)

	_, err := c.DeployToken(ctx, signers[0])
	require.NoError(t, err)

	block := c.LatestBlock()
	require.EqualValues(t, 1, block.Number)
	require.Equal(t, uint64(genesis.Unix())+1, block.Time)
	require.EqualValues(t, 1, c.TxCount())
	require.Len(t, c.RecentBlocks(), 2)
}

func TestDeployUsesCreateAddress(t *testing.T) {
	ctx := context.Background()
	c, signers := newTestChain(t)
	deployer := signers[0]

	token, err := c.DeployToken(ctx, deployer)
	require.NoError(t, err)
	require.Equal(t, crypto.CreateAddress(deployer.Address, 0), token.Address())

	st, err := c.DeployStaking(ctx, deployer, staking.DefaultDeployParams(token.Address(), signers[1].Address))
	require.NoError(t, err)
	require.Equal(t, crypto.CreateAddress(deployer.Address, 1), st.Address())
}

func TestDeployStakingInvalidToken(t *testing.T) {
	ctx := context.Background()
	c, signers := newTestChain(t)

	_, err := c.DeployStaking(ctx, signers[0], staking.DefaultDeployParams(signers[2].Address, signers[1].Address))
	require.True(t, staking.IsRevertReason(err, reasonInvalidToken))
	require.EqualValues(t, 0, c.TxCount(), "reverted deployment must not be mined")
}

func TestUnknownSigner(t *testing.T) {
	c, _ := newTestChain(t)
	stranger, err := lib.AccountFromPrivateKey("0x0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef")
	require.NoError(t, err)

	_, err = c.DeployToken(context.Background(), stranger)
	require.ErrorIs(t, err, ErrUnknownSigner)
}

func TestSnapshotRevert(t *testing.T) {
	ctx := context.Background()
	c, signers := newTestChain(t)
	owner := signers[0]

	token, err := c.DeployToken(ctx, owner)
	require.NoError(t, err)

	first, err := c.Snapshot(ctx)
	require.NoError(t, err)

	require.NoError(t, token.Mint(ctx, owner, owner.Address, big.NewInt(100)))
	second, err := c.Snapshot(ctx)
	require.NoError(t, err)

	require.NoError(t, c.IncreaseTo(ctx, genesis.Add(time.Hour)))
	require.NoError(t, token.Mint(ctx, owner, owner.Address, big.NewInt(50)))

	require.NoError(t, c.Revert(ctx, first))

	bal, err := token.BalanceOf(ctx, owner.Address)
	require.NoError(t, err)
	require.Zero(t, bal.Sign())
	require.Equal(t, uint64(genesis.Unix())+1, c.LatestBlock().Time)
	require.EqualValues(t, 1, c.LatestBlock().Number)

	require.ErrorIs(t, c.Revert(ctx, first), ErrUnknownSnapshot, "snapshot is consumed by revert")
	require.ErrorIs(t, c.Revert(ctx, second), ErrUnknownSnapshot, "later snapshots are discarded")

	// the nonce is restored, so the next deployment reuses the address
	again, err := c.DeployToken(ctx, owner)
	require.NoError(t, err)
	require.Equal(t, crypto.CreateAddress(owner.Address, 1), again.Address())
}

func TestRevertDropsContractsDeployedAfterSnapshot(t *testing.T) {
	ctx := context.Background()
	c, signers := newTestChain(t)

	id, err := c.Snapshot(ctx)
	require.NoError(t, err)
	token, err := c.DeployToken(ctx, signers[0])
	require.NoError(t, err)
	require.NoError(t, c.Revert(ctx, id))

	_, err = token.BalanceOf(ctx, signers[0].Address)
	require.ErrorIs(t, err, ErrNoContract)
}

func TestCanceledContext(t *testing.T) {
	c, signers := newTestChain(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.DeployToken(ctx, signers[0])
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, c.IncreaseTo(ctx, genesis.Add(time.Hour)), context.Canceled)
}

func TestBlockHistoryIsBounded(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestChain(t)

	for i := 1; i <= blockHistoryLength+10; i++ {
		require.NoError(t, c.IncreaseTo(ctx, genesis.Add(time.Duration(i)*time.Second)))
	}
	blocks := c.RecentBlocks()
	require.Len(t, blocks, blockHistoryLength)
	require.EqualValues(t, blockHistoryLength+10, blocks[len(blocks)-1].Number)
	require.EqualValues(t, 11, blocks[0].Number)
}
