package simchain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jackprotocol/jack-staking/internal/lib"
	"github.com/jackprotocol/jack-staking/internal/resources/staking"
)

// Staking is a handle to a JackStaking ledger deployed on the chain
type Staking struct {
	chain *Chain
	addr  common.Address
}

func (s *Staking) Address() common.Address {
	return s.addr
}

func (s *Staking) Stake(ctx context.Context, from *lib.Account, amount *big.Int) error {
	return s.transact(ctx, from, "stake", func(l *staking.Ledger, now uint64) error {
		return l.Stake(from.Address, amount, now)
	})
}

func (s *Staking) Withdraw(ctx context.Context, from *lib.Account, amount *big.Int) error {
	return s.transact(ctx, from, "withdraw", func(l *staking.Ledger, now uint64) error {
		return l.Withdraw(from.Address, amount, now)
	})
}

func (s *Staking) ClaimRewards(ctx context.Context, from *lib.Account) error {
	return s.transact(ctx, from, "claimRewards", func(l *staking.Ledger, now uint64) error {
		return l.ClaimRewards(from.Address, now)
	})
}

func (s *Staking) SetMinStakeLockTime(ctx context.Context, from *lib.Account, seconds *big.Int) error {
	return s.transact(ctx, from, "setMinStakeLockTime", func(l *staking.Ledger, _ uint64) error {
		if seconds == nil || seconds.Sign() < 0 || !seconds.IsUint64() {
			return staking.NewRevertError(reasonOutOfBounds)
		}
		return l.SetMinStakeLockTime(from.Address, seconds.Uint64())
	})
}

func (s *Staking) TotalStakers(ctx context.Context) (*big.Int, error) {
	var n uint64
	err := s.view(ctx, func(l *staking.Ledger, _ uint64) error {
		n = l.TotalStakers()
		return nil
	})
	return new(big.Int).SetUint64(n), err
}

func (s *Staking) GetRewardTokenBalance(ctx context.Context) (*big.Int, error) {
	var bal *big.Int
	err := s.view(ctx, func(l *staking.Ledger, _ uint64) error {
		bal = l.RewardTokenBalance()
		return nil
	})
	return bal, err
}

func (s *Staking) MinStakeLockTime(ctx context.Context) (*big.Int, error) {
	var v uint64
	err := s.view(ctx, func(l *staking.Ledger, _ uint64) error {
		v = l.MinStakeLockTime()
		return nil
	})
	return new(big.Int).SetUint64(v), err
}

func (s *Staking) GetStakerAtIndex(ctx context.Context, index *big.Int) (*staking.Staker, error) {
	var staker *staking.Staker
	err := s.view(ctx, func(l *staking.Ledger, _ uint64) (err error) {
		if !index.IsUint64() {
			return staking.NewRevertError(staking.ReasonIndexOutOfBounds)
		}
		staker, err = l.StakerAt(index.Uint64())
		return err
	})
	return staker, err
}

func (s *Staking) GetStakeInfo(ctx context.Context, addr common.Address) (staked *big.Int, rewards *big.Int, err error) {
	err = s.view(ctx, func(l *staking.Ledger, now uint64) error {
		staked, rewards = l.StakeInfo(addr, now)
		return nil
	})
	return staked, rewards, err
}

func (s *Staking) transact(ctx context.Context, from *lib.Account, name string, f func(l *staking.Ledger, now uint64) error) error {
	return s.chain.transact(ctx, from.Address, name, func(st *worldState, now uint64) error {
		l, err := st.ledger(s.addr)
		if err != nil {
			return err
		}
		return f(l, now)
	})
}

func (s *Staking) view(ctx context.Context, f func(l *staking.Ledger, now uint64) error) error {
	return s.chain.view(ctx, func(st *worldState, now uint64) error {
		l, err := st.ledger(s.addr)
		if err != nil {
			return err
		}
		return f(l, now)
	})
}
