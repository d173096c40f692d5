package contracts

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/jackprotocol/jack-staking/internal/interfaces"
)

const DefaultMaxReconnects = 50 // max consequent failed polls

// StakingEvent is a decoded JackStaking log
type StakingEvent struct {
	Name        string
	Staker      common.Address // zero for events without a staker
	Amount      *big.Int       // staked, withdrawn or claimed amount, new value for parameter updates
	BlockNumber uint64
	TxHash      common.Hash
}

// LogWatcherPolling polls a contract's logs over plain HTTP connections
type LogWatcherPolling struct {
	// config
	maxReconnects int
	pollInterval  time.Duration

	// deps
	stakingABI *abi.ABI
	client     EthereumClient
	log        interfaces.ILogger
}

func NewLogWatcherPolling(client EthereumClient, stakingABI *abi.ABI, pollInterval time.Duration, maxReconnects int, log interfaces.ILogger) *LogWatcherPolling {
	if stakingABI == nil {
		parsed, err := JackStakingMetaData.GetAbi()
		if err != nil {
			panic("invalid staking ABI: " + err.Error())
		}
		stakingABI = parsed
	}
	if maxReconnects < 1 {
		maxReconnects = 1
	}
	return &LogWatcherPolling{
		client:        client,
		stakingABI:    stakingABI,
		pollInterval:  pollInterval,
		maxReconnects: maxReconnects,
		log:           log,
	}
}

// Watch calls handler for every event emitted by contractAddr from fromBlock on (latest block if nil).
// It blocks until ctx is done or polling fails maxReconnects times in a row
func (w *LogWatcherPolling) Watch(ctx context.Context, contractAddr common.Address, fromBlock *big.Int, handler func(StakingEvent)) error {
	if fromBlock == nil {
		header, err := w.client.HeaderByNumber(ctx, nil)
		if err != nil {
			return err
		}
		fromBlock = header.Number
	}
	nextBlock := new(big.Int).Set(fromBlock)

	for {
		header, err := w.headerRetry(ctx)
		if err != nil {
			return err
		}

		if header.Number.Cmp(nextBlock) >= 0 {
			query := ethereum.FilterQuery{
				Addresses: []common.Address{contractAddr},
				FromBlock: nextBlock,
				ToBlock:   header.Number,
			}
			logs, err := w.filterLogsRetry(ctx, query)
			if err != nil {
				return err
			}

			for _, l := range logs {
				if l.Removed {
					continue
				}
				event, ok, err := w.decode(l)
				if err != nil {
					return err // decoding error, retry won't help
				}
				if ok {
					handler(event)
				}
			}
			nextBlock = new(big.Int).Add(header.Number, big.NewInt(1))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.pollInterval):
		}
	}
}

func (w *LogWatcherPolling) decode(l types.Log) (StakingEvent, bool, error) {
	if len(l.Topics) == 0 {
		return StakingEvent{}, false, nil
	}
	ev, err := w.stakingABI.EventByID(l.Topics[0])
	if err != nil {
		return StakingEvent{}, false, nil // not one of ours
	}

	values := make(map[string]interface{})
	if err := w.stakingABI.UnpackIntoMap(values, ev.Name, l.Data); err != nil {
		return StakingEvent{}, false, fmt.Errorf("decode %s: %w", ev.Name, err)
	}

	event := StakingEvent{
		Name:        ev.Name,
		BlockNumber: l.BlockNumber,
		TxHash:      l.TxHash,
		Amount:      new(big.Int),
	}
	if len(l.Topics) > 1 {
		event.Staker = common.BytesToAddress(l.Topics[1].Bytes())
	}
	for _, key := range []string{"amount", "rewardAmount", "newValue"} {
		if v, ok := values[key]; ok {
			if event.Amount, err = toBigInt(v); err != nil {
				return StakingEvent{}, false, err
			}
			break
		}
	}
	return event, true, nil
}

func (w *LogWatcherPolling) headerRetry(ctx context.Context) (*types.Header, error) {
	var lastErr error

	for attempts := 0; attempts < w.maxReconnects; attempts++ {
		header, err := w.client.HeaderByNumber(ctx, nil)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}
		if attempts > 0 {
			w.log.Warnf("log polling reconnected after error: %s", lastErr)
		}
		return header, nil
	}
	return nil, lastErr
}

func (w *LogWatcherPolling) filterLogsRetry(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error) {
	var lastErr error

	for attempts := 0; attempts < w.maxReconnects; attempts++ {
		logs, err := w.client.FilterLogs(ctx, query)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}
		if attempts > 0 {
			w.log.Warnf("log polling reconnected after error: %s", lastErr)
		}
		return logs, nil
	}
	return nil, lastErr
}
