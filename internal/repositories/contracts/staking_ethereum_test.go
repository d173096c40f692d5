package contracts

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/jackprotocol/jack-staking/internal/lib"
	"github.com/jackprotocol/jack-staking/internal/resources/staking"
	"github.com/stretchr/testify/require"
)

// callBackend answers eth_call with canned values packed by the method's outputs
type callBackend struct {
	EthereumClient
	abi     *abi.ABI
	results map[string][]interface{}
	err     error
	calls   []string
}

func (b *callBackend) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	m, err := b.abi.MethodById(call.Data[:4])
	if err != nil {
		return nil, err
	}
	b.calls = append(b.calls, m.Name)
	return m.Outputs.Pack(b.results[m.Name]...)
}

type stakerTuple struct {
	Staker           common.Address
	AmountStaked     *big.Int
	TimeOfLastUpdate *big.Int
	UnclaimedRewards *big.Int
	StakedAt         *big.Int
}

func newCallBackend(t *testing.T) (*callBackend, *StakingEthereum) {
	parsed, err := JackStakingMetaData.GetAbi()
	require.NoError(t, err)

	backend := &callBackend{abi: parsed, results: make(map[string][]interface{})}
	st := NewStakingEthereum(common.HexToAddress("0xc0"), nil, NewTransactor(backend, lib.NewTestLogger()), lib.NewTestLogger())
	return backend, st
}

func TestStakingEthereumViews(t *testing.T) {
	ctx := context.Background()
	backend, st := newCallBackend(t)

	backend.results["totalStakers"] = []interface{}{big.NewInt(2)}
	backend.results["minStakeLockTime"] = []interface{}{big.NewInt(300)}
	backend.results["getRewardTokenBalance"] = []interface{}{big.NewInt(1000)}
	backend.results["getStakeInfo"] = []interface{}{big.NewInt(10), big.NewInt(1)}

	total, err := st.TotalStakers(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, total.Int64())

	lock, err := st.MinStakeLockTime(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 300, lock.Int64())

	bal, err := st.GetRewardTokenBalance(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1000, bal.Int64())

	staked, rewards, err := st.GetStakeInfo(ctx, stakerAddr)
	require.NoError(t, err)
	require.EqualValues(t, 10, staked.Int64())
	require.EqualValues(t, 1, rewards.Int64())

	require.Equal(t, []string{"totalStakers", "minStakeLockTime", "getRewardTokenBalance", "getStakeInfo"}, backend.calls)
}

func TestStakingEthereumGetStakerAtIndex(t *testing.T) {
	backend, st := newCallBackend(t)
	backend.results["getStakerAtIndex"] = []interface{}{stakerTuple{
		Staker:           stakerAddr,
		AmountStaked:     big.NewInt(100),
		TimeOfLastUpdate: big.NewInt(1700000000),
		UnclaimedRewards: big.NewInt(0),
		StakedAt:         big.NewInt(1700000000),
	}}

	s, err := st.GetStakerAtIndex(context.Background(), big.NewInt(0))
	require.NoError(t, err)
	require.Equal(t, stakerAddr, s.Address)
	require.EqualValues(t, 100, s.AmountStaked.Int64())
	require.EqualValues(t, 1700000000, s.StakedAt)
}

func TestStakingEthereumRevert(t *testing.T) {
	backend, st := newCallBackend(t)
	backend.err = errors.New("execution reverted: " + staking.ReasonIndexOutOfBounds)

	_, err := st.GetStakerAtIndex(context.Background(), big.NewInt(5))
	require.ErrorIs(t, err, staking.ErrReverted)
	require.True(t, staking.IsRevertReason(err, staking.ReasonIndexOutOfBounds))
}

func TestStakingEthereumRejectsNegativeIndex(t *testing.T) {
	backend, st := newCallBackend(t)

	_, err := st.GetStakerAtIndex(context.Background(), big.NewInt(-1))
	require.Error(t, err)
	require.Empty(t, backend.calls)
}
