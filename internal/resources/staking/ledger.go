package staking

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TokenBank is the token ledger the staking contract moves funds through
type TokenBank interface {
	Transfer(from, to common.Address, amount *big.Int) error
	TransferFrom(spender, from, to common.Address, amount *big.Int) error
	BalanceOf(addr common.Address) *big.Int
}

// Ledger is the reference model of the JackStaking contract state. It is not safe for concurrent use,
// callers serialize access the way a chain serializes transactions.
//
// Times are unix seconds of the block executing the call.
type Ledger struct {
	self  common.Address // contract address holding staked tokens
	owner common.Address

	timeUnit         uint64
	rewardNumerator  *big.Int
	rewardDenom      *big.Int
	stakingToken     common.Address
	rewardHolder     common.Address
	nativeWrapper    common.Address
	minStakeLockTime uint64
	minStakeAmount   *big.Int

	stakers map[common.Address]*Staker
	index   []common.Address

	token TokenBank
}

func NewLedger(self, owner common.Address, params DeployParams, token TokenBank) (*Ledger, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	minStake := new(big.Int)
	if params.MinStakeAmount != nil {
		minStake.Set(params.MinStakeAmount)
	}

	return &Ledger{
		self:             self,
		owner:            owner,
		timeUnit:         params.TimeUnit.Uint64(),
		rewardNumerator:  new(big.Int).Set(params.RewardRatioNumerator),
		rewardDenom:      new(big.Int).Set(params.RewardRatioDenominator),
		stakingToken:     params.StakingToken,
		rewardHolder:     params.RewardTokenHolder,
		nativeWrapper:    params.NativeTokenWrapper,
		minStakeLockTime: params.MinStakeLockTime.Uint64(),
		minStakeAmount:   minStake,
		stakers:          make(map[common.Address]*Staker),
		token:            token,
	}, nil
}

func (l *Ledger) Address() common.Address      { return l.self }
func (l *Ledger) Owner() common.Address        { return l.owner }
func (l *Ledger) StakingToken() common.Address { return l.stakingToken }
func (l *Ledger) RewardHolder() common.Address { return l.rewardHolder }

func (l *Ledger) Stake(staker common.Address, amount *big.Int, now uint64) error {
	if amount == nil || amount.Sign() <= 0 {
		return NewRevertError(ReasonStakeZero)
	}
	if amount.Cmp(l.minStakeAmount) < 0 {
		return NewRevertError(ReasonStakeBelowMin)
	}

	if err := l.token.TransferFrom(l.self, staker, l.self, amount); err != nil {
		return err
	}

	s, ok := l.stakers[staker]
	if ok && s.AmountStaked.Sign() > 0 {
		l.accrue(s, now)
	} else {
		if !ok {
			s = &Staker{Address: staker, AmountStaked: new(big.Int), UnclaimedRewards: new(big.Int)}
			l.stakers[staker] = s
		}
		l.index = append(l.index, staker)
		s.TimeOfLastUpdate = now
	}

	s.AmountStaked.Add(s.AmountStaked, amount)
	s.StakedAt = now
	return nil
}

func (l *Ledger) Withdraw(staker common.Address, amount *big.Int, now uint64) error {
	if amount == nil || amount.Sign() <= 0 {
		return NewRevertError(ReasonWithdrawZero)
	}

	s, ok := l.stakers[staker]
	if !ok || s.AmountStaked.Cmp(amount) < 0 {
		return NewRevertError(ReasonWithdrawTooMuch)
	}
	// compared by difference, StakedAt+minStakeLockTime may not fit into uint64
	if now < s.StakedAt || now-s.StakedAt < l.minStakeLockTime {
		return NewRevertError(ReasonStakeLocked)
	}

	if err := l.token.Transfer(l.self, staker, amount); err != nil {
		return err
	}

	l.accrue(s, now)
	s.AmountStaked.Sub(s.AmountStaked, amount)
	if s.AmountStaked.Sign() == 0 {
		l.removeFromIndex(staker)
	}
	return nil
}

// ClaimRewards pays accrued rewards out of the reward holder's balance, which has to approve the contract
func (l *Ledger) ClaimRewards(staker common.Address, now uint64) error {
	s, ok := l.stakers[staker]
	if !ok {
		return NewRevertError(ReasonNoRewards)
	}
	rewards := l.pendingRewards(s, now)
	rewards.Add(rewards, s.UnclaimedRewards)
	if rewards.Sign() == 0 {
		return NewRevertError(ReasonNoRewards)
	}
	if l.RewardTokenBalance().Cmp(rewards) < 0 {
		return NewRevertError(ReasonNotEnoughRewards)
	}

	if err := l.token.TransferFrom(l.self, l.rewardHolder, staker, rewards); err != nil {
		return err
	}
	s.UnclaimedRewards = new(big.Int)
	s.TimeOfLastUpdate = now
	return nil
}

func (l *Ledger) SetMinStakeLockTime(caller common.Address, seconds uint64) error {
	if caller != l.owner {
		return NewRevertError(ReasonNotAuthorized)
	}
	l.minStakeLockTime = seconds
	return nil
}

func (l *Ledger) MinStakeLockTime() uint64 {
	return l.minStakeLockTime
}

func (l *Ledger) TotalStakers() uint64 {
	return uint64(len(l.index))
}

// RewardTokenBalance is the reward holder's balance of the staking token
func (l *Ledger) RewardTokenBalance() *big.Int {
	return l.token.BalanceOf(l.rewardHolder)
}

func (l *Ledger) StakerAt(i uint64) (*Staker, error) {
	if i >= uint64(len(l.index)) {
		return nil, NewRevertError(ReasonIndexOutOfBounds)
	}
	return l.stakers[l.index[i]].clone(), nil
}

// StakeInfo returns the staked amount and the rewards accrued as of now, without updating state
func (l *Ledger) StakeInfo(staker common.Address, now uint64) (staked *big.Int, rewards *big.Int) {
	s, ok := l.stakers[staker]
	if !ok {
		return new(big.Int), new(big.Int)
	}
	pending := l.pendingRewards(s, now)
	return new(big.Int).Set(s.AmountStaked), pending.Add(pending, s.UnclaimedRewards)
}

// Clone deep-copies the ledger, binding the copy to token
func (l *Ledger) Clone(token TokenBank) *Ledger {
	cp := *l
	cp.rewardNumerator = new(big.Int).Set(l.rewardNumerator)
	cp.rewardDenom = new(big.Int).Set(l.rewardDenom)
	cp.minStakeAmount = new(big.Int).Set(l.minStakeAmount)
	cp.stakers = make(map[common.Address]*Staker, len(l.stakers))
	for addr, s := range l.stakers {
		cp.stakers[addr] = s.clone()
	}
	cp.index = append([]common.Address(nil), l.index...)
	cp.token = token
	return &cp
}

func (l *Ledger) accrue(s *Staker, now uint64) {
	s.UnclaimedRewards.Add(s.UnclaimedRewards, l.pendingRewards(s, now))
	s.TimeOfLastUpdate = now
}

// pendingRewards = staked * completedTimeUnits * numerator / denominator
func (l *Ledger) pendingRewards(s *Staker, now uint64) *big.Int {
	if now <= s.TimeOfLastUpdate || s.AmountStaked.Sign() == 0 {
		return new(big.Int)
	}
	units := (now - s.TimeOfLastUpdate) / l.timeUnit

	r := new(big.Int).Mul(s.AmountStaked, new(big.Int).SetUint64(units))
	r.Mul(r, l.rewardNumerator)
	return r.Quo(r, l.rewardDenom)
}

// removeFromIndex swaps the staker with the last entry, index order is not preserved
func (l *Ledger) removeFromIndex(staker common.Address) {
	for i, addr := range l.index {
		if addr == staker {
			last := len(l.index) - 1
			l.index[i] = l.index[last]
			l.index = l.index[:last]
			return
		}
	}
}
