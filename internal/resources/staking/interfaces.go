package staking

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jackprotocol/jack-staking/internal/lib"
)

// TokenContract is the JACK ERC20 token
type TokenContract interface {
	Address() common.Address
	Mint(ctx context.Context, from *lib.Account, to common.Address, amount *big.Int) error
	Approve(ctx context.Context, from *lib.Account, spender common.Address, amount *big.Int) error
	Transfer(ctx context.Context, from *lib.Account, to common.Address, amount *big.Int) error
	BalanceOf(ctx context.Context, addr common.Address) (*big.Int, error)
}

// StakingReader is the read-only part of the JackStaking contract
type StakingReader interface {
	Address() common.Address
	TotalStakers(ctx context.Context) (*big.Int, error)
	GetRewardTokenBalance(ctx context.Context) (*big.Int, error)
	MinStakeLockTime(ctx context.Context) (*big.Int, error)
	GetStakerAtIndex(ctx context.Context, index *big.Int) (*Staker, error)
	GetStakeInfo(ctx context.Context, staker common.Address) (staked *big.Int, rewards *big.Int, err error)
}

// StakingContract is the JackStaking contract. Transacting methods return once the transaction is mined
type StakingContract interface {
	StakingReader
	Stake(ctx context.Context, from *lib.Account, amount *big.Int) error
	Withdraw(ctx context.Context, from *lib.Account, amount *big.Int) error
	ClaimRewards(ctx context.Context, from *lib.Account) error
	SetMinStakeLockTime(ctx context.Context, from *lib.Account, seconds *big.Int) error
}

// Environment is a network the token and staking contracts can be deployed to,
// with development controls over the chain clock and state
type Environment interface {
	Signers(ctx context.Context) ([]*lib.Account, error)
	DeployToken(ctx context.Context, deployer *lib.Account) (TokenContract, error)
	DeployStaking(ctx context.Context, deployer *lib.Account, params DeployParams) (StakingContract, error)

	// IncreaseTo mines a block with timestamp t, which has to be after the latest block
	IncreaseTo(ctx context.Context, t time.Time) error
	LatestTime(ctx context.Context) (time.Time, error)
	Snapshot(ctx context.Context) (string, error)
	Revert(ctx context.Context, id string) error
}
