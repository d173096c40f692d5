package contracts

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/jackprotocol/jack-staking/internal/lib"
	"github.com/stretchr/testify/require"
)

var errNodeDown = errors.New("connection refused")

// logBackend serves a scripted chain head and a fixed log set filtered by block range
type logBackend struct {
	EthereumClient

	heads      []uint64 // head returned by successive HeaderByNumber calls, the last one repeats
	headerErrs int      // number of leading HeaderByNumber calls that fail
	logs       []types.Log

	headerCalls int
	queries     []ethereum.FilterQuery
	stopAfter   int // cancel after this many header calls, 0 never
	cancel      context.CancelFunc
}

func (b *logBackend) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	b.headerCalls++
	if b.stopAfter > 0 && b.headerCalls >= b.stopAfter {
		b.cancel()
	}
	if b.headerCalls <= b.headerErrs {
		return nil, errNodeDown
	}
	i := b.headerCalls - b.headerErrs - 1
	if i >= len(b.heads) {
		i = len(b.heads) - 1
	}
	return &types.Header{Number: new(big.Int).SetUint64(b.heads[i])}, nil
}

func (b *logBackend) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	b.queries = append(b.queries, q)
	var res []types.Log
	for _, l := range b.logs {
		if l.BlockNumber >= q.FromBlock.Uint64() && l.BlockNumber <= q.ToBlock.Uint64() {
			res = append(res, l)
		}
	}
	return res, nil
}

func stakingEventLog(t *testing.T, name string, block uint64, topics []common.Hash, values ...interface{}) types.Log {
	parsed, err := JackStakingMetaData.GetAbi()
	require.NoError(t, err)
	ev := parsed.Events[name]
	data, err := ev.Inputs.NonIndexed().Pack(values...)
	require.NoError(t, err)
	return types.Log{
		Topics:      append([]common.Hash{ev.ID}, topics...),
		Data:        data,
		BlockNumber: block,
		TxHash:      common.BigToHash(new(big.Int).SetUint64(block)),
	}
}

func watchAll(t *testing.T, backend *logBackend, maxReconnects int) ([]StakingEvent, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	backend.cancel = cancel

	watcher := NewLogWatcherPolling(backend, nil, time.Millisecond, maxReconnects, lib.NewTestLogger())

	var events []StakingEvent
	err := watcher.Watch(ctx, common.HexToAddress("0xc0"), big.NewInt(1), func(e StakingEvent) {
		events = append(events, e)
	})
	return events, err
}

func TestLogWatcherDecodesEvents(t *testing.T) {
	alice := common.HexToAddress("0xa11ce")
	staked := stakingEventLog(t, "TokensStaked", 2, []common.Hash{common.BytesToHash(alice.Bytes())}, big.NewInt(700))
	lockTime := stakingEventLog(t, "UpdatedMinStakeLockTime", 4, nil, big.NewInt(300), big.NewInt(100))

	removed := stakingEventLog(t, "TokensWithdrawn", 3, []common.Hash{common.BytesToHash(alice.Bytes())}, big.NewInt(1))
	removed.Removed = true
	foreign := types.Log{Topics: []common.Hash{common.HexToHash("0xdead")}, BlockNumber: 3}
	anonymous := types.Log{BlockNumber: 3}

	backend := &logBackend{
		heads:     []uint64{2, 2, 4, 4},
		logs:      []types.Log{staked, removed, foreign, anonymous, lockTime},
		stopAfter: 6,
	}

	events, err := watchAll(t, backend, 3)
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, events, 2)

	require.Equal(t, "TokensStaked", events[0].Name)
	require.Equal(t, alice, events[0].Staker)
	require.Equal(t, big.NewInt(700), events[0].Amount)
	require.EqualValues(t, 2, events[0].BlockNumber)
	require.Equal(t, staked.TxHash, events[0].TxHash)

	require.Equal(t, "UpdatedMinStakeLockTime", events[1].Name)
	require.Equal(t, common.Address{}, events[1].Staker)
	require.Equal(t, big.NewInt(100), events[1].Amount)
}

func TestLogWatcherQueriesEachBlockOnce(t *testing.T) {
	backend := &logBackend{
		heads:     []uint64{1, 3, 3, 7},
		stopAfter: 6,
	}

	_, err := watchAll(t, backend, 3)
	require.ErrorIs(t, err, context.Canceled)

	require.Len(t, backend.queries, 3)
	next := uint64(1)
	for _, q := range backend.queries {
		require.Equal(t, []common.Address{common.HexToAddress("0xc0")}, q.Addresses)
		require.Equal(t, next, q.FromBlock.Uint64())
		next = q.ToBlock.Uint64() + 1
	}
	require.EqualValues(t, 8, next)
}

func TestLogWatcherReconnects(t *testing.T) {
	backend := &logBackend{
		heads:      []uint64{1},
		headerErrs: 2,
		stopAfter:  4,
	}

	_, err := watchAll(t, backend, 3)
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, backend.queries, 1)
}

func TestLogWatcherGivesUpAfterMaxReconnects(t *testing.T) {
	backend := &logBackend{
		heads:      []uint64{1},
		headerErrs: 100,
	}

	_, err := watchAll(t, backend, 3)
	require.ErrorIs(t, err, errNodeDown)
	require.Equal(t, 3, backend.headerCalls)
	require.Empty(t, backend.queries)
}

func TestLogWatcherDecodeError(t *testing.T) {
	parsed, err := JackStakingMetaData.GetAbi()
	require.NoError(t, err)

	broken := types.Log{
		Topics:      []common.Hash{parsed.Events["TokensStaked"].ID, {}},
		Data:        []byte{0x01},
		BlockNumber: 1,
	}
	backend := &logBackend{heads: []uint64{1}, logs: []types.Log{broken}}

	_, err = watchAll(t, backend, 3)
	require.Error(t, err)
	require.NotErrorIs(t, err, context.Canceled)
}
