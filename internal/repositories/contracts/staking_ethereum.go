package contracts

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/jackprotocol/jack-staking/internal/interfaces"
	"github.com/jackprotocol/jack-staking/internal/lib"
	"github.com/jackprotocol/jack-staking/internal/resources/staking"
)

// StakingEthereum is a JackStaking binding over a node connection
type StakingEthereum struct {
	// config
	addr common.Address

	// state
	stakingABI *abi.ABI

	// deps
	contract   *bind.BoundContract
	transactor *Transactor
	log        interfaces.ILogger
}

var _ staking.StakingContract = (*StakingEthereum)(nil)

// NewStakingEthereum binds addr with stakingABI, the built-in ABI is used when it is nil
func NewStakingEthereum(addr common.Address, stakingABI *abi.ABI, transactor *Transactor, log interfaces.ILogger) *StakingEthereum {
	if stakingABI == nil {
		parsed, err := JackStakingMetaData.GetAbi()
		if err != nil {
			panic("invalid staking ABI: " + err.Error())
		}
		stakingABI = parsed
	}
	client := transactor.Client()

	return &StakingEthereum{
		addr:       addr,
		stakingABI: stakingABI,
		contract:   bind.NewBoundContract(addr, *stakingABI, client, client, client),
		transactor: transactor,
		log:        log,
	}
}

func (s *StakingEthereum) Address() common.Address {
	return s.addr
}

func (s *StakingEthereum) Stake(ctx context.Context, from *lib.Account, amount *big.Int) error {
	return s.transact(ctx, from, "stake", amount)
}

func (s *StakingEthereum) Withdraw(ctx context.Context, from *lib.Account, amount *big.Int) error {
	return s.transact(ctx, from, "withdraw", amount)
}

func (s *StakingEthereum) ClaimRewards(ctx context.Context, from *lib.Account) error {
	return s.transact(ctx, from, "claimRewards")
}

func (s *StakingEthereum) SetMinStakeLockTime(ctx context.Context, from *lib.Account, seconds *big.Int) error {
	return s.transact(ctx, from, "setMinStakeLockTime", seconds)
}

func (s *StakingEthereum) TotalStakers(ctx context.Context) (*big.Int, error) {
	return s.callInt(ctx, "totalStakers")
}

func (s *StakingEthereum) GetRewardTokenBalance(ctx context.Context) (*big.Int, error) {
	return s.callInt(ctx, "getRewardTokenBalance")
}

func (s *StakingEthereum) MinStakeLockTime(ctx context.Context) (*big.Int, error) {
	return s.callInt(ctx, "minStakeLockTime")
}

func (s *StakingEthereum) GetStakerAtIndex(ctx context.Context, index *big.Int) (*staking.Staker, error) {
	out, err := s.call(ctx, "getStakerAtIndex", index)
	if err != nil {
		return nil, err
	}
	return decodeStaker(s.stakingABI.Methods["getStakerAtIndex"].Outputs, out)
}

func (s *StakingEthereum) GetStakeInfo(ctx context.Context, staker common.Address) (staked *big.Int, rewards *big.Int, err error) {
	out, err := s.call(ctx, "getStakeInfo", staker)
	if err != nil {
		return nil, nil, err
	}
	if len(out) < 2 {
		return nil, nil, fmt.Errorf("%w: getStakeInfo returned %d values", ErrUnexpectedOutput, len(out))
	}
	if staked, err = toBigInt(out[0]); err != nil {
		return nil, nil, err
	}
	if rewards, err = toBigInt(out[1]); err != nil {
		return nil, nil, err
	}
	return staked, rewards, nil
}

func (s *StakingEthereum) transact(ctx context.Context, from *lib.Account, method string, values ...interface{}) error {
	args, err := packArgs(s.stakingABI, method, values...)
	if err != nil {
		return err
	}

	_, err = s.transactor.Transact(ctx, from, method, func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return s.contract.Transact(opts, method, args...)
	})
	if err != nil {
		s.log.Debugf("%s on %s: %s", method, s.addr, err)
	}
	return err
}

func (s *StakingEthereum) call(ctx context.Context, method string, values ...interface{}) ([]interface{}, error) {
	args, err := packArgs(s.stakingABI, method, values...)
	if err != nil {
		return nil, err
	}

	var out []interface{}
	if err := s.contract.Call(&bind.CallOpts{Context: ctx}, &out, method, args...); err != nil {
		return nil, decodeError(err)
	}
	return out, nil
}

func (s *StakingEthereum) callInt(ctx context.Context, method string) (*big.Int, error) {
	out, err := s.call(ctx, method)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s returned nothing", ErrUnexpectedOutput, method)
	}
	return toBigInt(out[0])
}
