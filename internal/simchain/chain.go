// Package simchain is an in-memory development network hosting the JACK token and the JackStaking ledger.
// Every successful transaction mines one block one second after the previous one; failed transactions
// are rejected before mining, as a development node does when gas estimation reverts.
package simchain

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gammazero/deque"
	"github.com/jackprotocol/jack-staking/internal/interfaces"
	"github.com/jackprotocol/jack-staking/internal/lib"
	"github.com/jackprotocol/jack-staking/internal/resources/staking"
	"go.uber.org/atomic"
)

const (
	DefaultAccounts    = 10
	blockHistoryLength = 256
	reasonInvalidToken = "Invalid staking token"
)

var (
	ErrNoContract      = errors.New("no contract at address")
	ErrTimestampTooLow = errors.New("timestamp must be greater than the latest block timestamp")
	ErrUnknownSnapshot = errors.New("unknown snapshot id")
	ErrUnknownSigner   = errors.New("unknown signer")
)

var _ staking.Environment = (*Chain)(nil)

type Block struct {
	Number uint64
	Time   uint64
}

type worldState struct {
	number   uint64
	time     uint64
	nonces   map[common.Address]uint64
	tokens   map[common.Address]*tokenState
	stakings map[common.Address]*staking.Ledger
}

func (st *worldState) clone() *worldState {
	cp := &worldState{
		number:   st.number,
		time:     st.time,
		nonces:   make(map[common.Address]uint64, len(st.nonces)),
		tokens:   make(map[common.Address]*tokenState, len(st.tokens)),
		stakings: make(map[common.Address]*staking.Ledger, len(st.stakings)),
	}
	for addr, n := range st.nonces {
		cp.nonces[addr] = n
	}
	for addr, tok := range st.tokens {
		cp.tokens[addr] = tok.clone()
	}
	for addr, l := range st.stakings {
		cp.stakings[addr] = l.Clone(cp.tokens[l.StakingToken()])
	}
	return cp
}

func (st *worldState) token(addr common.Address) (*tokenState, error) {
	tok, ok := st.tokens[addr]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoContract, addr)
	}
	return tok, nil
}

func (st *worldState) ledger(addr common.Address) (*staking.Ledger, error) {
	l, ok := st.stakings[addr]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoContract, addr)
	}
	return l, nil
}

type Option func(*Chain)

// WithStartTime sets the timestamp of the genesis block, defaults to the current time
func WithStartTime(t time.Time) Option {
	return func(c *Chain) {
		c.state.time = uint64(t.Unix())
	}
}

func WithLogger(log interfaces.ILogger) Option {
	return func(c *Chain) {
		c.log = log
	}
}

// WithAccounts sets the signers available on the chain
func WithAccounts(accounts []*lib.Account) Option {
	return func(c *Chain) {
		c.accounts = accounts
	}
}

// Chain is safe for concurrent use, transactions are applied one at a time
type Chain struct {
	mu        sync.Mutex
	state     *worldState
	blocks    deque.Deque[Block]
	snapshots map[string]*worldState
	snapSeq   atomic.Uint64
	txCount   atomic.Uint64

	accounts []*lib.Account
	log      interfaces.ILogger
}

// New creates a chain with the genesis block mined. Unless WithAccounts is given,
// signers are the first DefaultAccounts accounts of the development mnemonic
func New(opts ...Option) (*Chain, error) {
	c := &Chain{
		state: &worldState{
			time:     uint64(time.Now().Unix()),
			nonces:   make(map[common.Address]uint64),
			tokens:   make(map[common.Address]*tokenState),
			stakings: make(map[common.Address]*staking.Ledger),
		},
		snapshots: make(map[string]*worldState),
		log:       lib.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.accounts == nil {
		accounts, err := lib.DeriveAccounts(lib.DevMnemonic, 0, DefaultAccounts)
		if err != nil {
			return nil, err
		}
		c.accounts = accounts
	}

	c.blocks.PushBack(Block{Number: c.state.number, Time: c.state.time})
	return c, nil
}

func (c *Chain) Signers(ctx context.Context) ([]*lib.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]*lib.Account(nil), c.accounts...), nil
}

func (c *Chain) LatestBlock() Block {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.blocks.Back()
}

// RecentBlocks returns up to the last 256 blocks, oldest first
func (c *Chain) RecentBlocks() []Block {
	c.mu.Lock()
	defer c.mu.Unlock()

	blocks := make([]Block, c.blocks.Len())
	for i := 0; i < c.blocks.Len(); i++ {
		blocks[i] = c.blocks.At(i)
	}
	return blocks
}

// TxCount is the number of successful transactions since creation, reverts do not roll it back
func (c *Chain) TxCount() uint64 {
	return c.txCount.Load()
}

func (c *Chain) LatestTime(ctx context.Context) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	return time.Unix(int64(c.LatestBlock().Time), 0), nil
}

func (c *Chain) IncreaseTo(ctx context.Context, t time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	ts := t.Unix()
	if ts <= int64(c.state.time) {
		return fmt.Errorf("%w: %d <= %d", ErrTimestampTooLow, ts, c.state.time)
	}
	c.mineAt(uint64(ts))
	c.log.Debugf("mined block %d at %d", c.state.number, c.state.time)
	return nil
}

func (c *Chain) Snapshot(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	id := hexutil.EncodeUint64(c.snapSeq.Inc())
	c.snapshots[id] = c.state.clone()
	return id, nil
}

// Revert restores the state captured by the snapshot. The snapshot and every snapshot taken after it
// are discarded
func (c *Chain) Revert(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	snap, ok := c.snapshots[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSnapshot, id)
	}
	seq, err := hexutil.DecodeUint64(id)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownSnapshot, id)
	}
	for other := range c.snapshots {
		otherSeq, _ := hexutil.DecodeUint64(other)
		if otherSeq >= seq {
			delete(c.snapshots, other)
		}
	}

	c.state = snap
	for c.blocks.Len() > 1 && c.blocks.Back().Number > snap.number {
		c.blocks.PopBack()
	}
	return nil
}

func (c *Chain) DeployToken(ctx context.Context, deployer *lib.Account) (staking.TokenContract, error) {
	var addr common.Address
	err := c.transact(ctx, deployer.Address, "deploy token", func(st *worldState, _ uint64) error {
		addr = crypto.CreateAddress(deployer.Address, st.nonces[deployer.Address])
		st.tokens[addr] = newTokenState(addr, deployer.Address)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Token{chain: c, addr: addr}, nil
}

func (c *Chain) DeployStaking(ctx context.Context, deployer *lib.Account, params staking.DeployParams) (staking.StakingContract, error) {
	var addr common.Address
	err := c.transact(ctx, deployer.Address, "deploy staking", func(st *worldState, _ uint64) error {
		tok, ok := st.tokens[params.StakingToken]
		if !ok {
			return staking.NewRevertError(reasonInvalidToken)
		}
		addr = crypto.CreateAddress(deployer.Address, st.nonces[deployer.Address])
		ledger, err := staking.NewLedger(addr, deployer.Address, params, tok)
		if err != nil {
			return err
		}
		st.stakings[addr] = ledger
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Staking{chain: c, addr: addr}, nil
}

// transact executes f in the next block. The block is mined and the sender nonce increased only if f succeeds
func (c *Chain) transact(ctx context.Context, from common.Address, name string, f func(st *worldState, now uint64) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isSigner(from) {
		return fmt.Errorf("%w: %s", ErrUnknownSigner, from)
	}

	now := c.state.time + 1
	if err := f(c.state, now); err != nil {
		c.log.Debugf("%s from %s failed: %s", name, from, err)
		return err
	}

	c.state.nonces[from]++
	c.mineAt(now)
	c.txCount.Inc()
	c.log.Debugf("%s from %s mined in block %d", name, from, c.state.number)
	return nil
}

// view executes a read-only call against the latest block
func (c *Chain) view(ctx context.Context, f func(st *worldState, now uint64) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return f(c.state, c.state.time)
}

func (c *Chain) mineAt(ts uint64) {
	c.state.number++
	c.state.time = ts
	c.blocks.PushBack(Block{Number: c.state.number, Time: ts})
	for c.blocks.Len() > blockHistoryLength {
		c.blocks.PopFront()
	}
}

func (c *Chain) isSigner(addr common.Address) bool {
	for _, acc := range c.accounts {
		if acc.Address == addr {
			return true
		}
	}
	return false
}
