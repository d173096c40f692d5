// Package stakingsuite holds the JackStaking scenarios. The same suite runs against the in-memory
// chain, go-ethereum's simulated backend and a live development node
package stakingsuite

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/jackprotocol/jack-staking/internal/lib"
	"github.com/jackprotocol/jack-staking/internal/resources/staking"
	"github.com/stretchr/testify/suite"
)

const (
	fixtureMinStakeAmount = 100_000_000_000
	fixtureTimeout        = 2 * time.Minute
)

// fixtureAmount is 10000 JACK, minted to both signers and staked by the owner
var fixtureAmount = lib.MustParseUnits("10000", lib.EtherDecimals)

// Factory returns the environment for the suite and a function releasing it
type Factory func() (env staking.Environment, release func(), err error)

type Suite struct {
	suite.Suite

	factory Factory
	release func()
	env     staking.Environment

	owner        *lib.Account
	rewardHolder *lib.Account

	ctx      context.Context
	cancel   context.CancelFunc
	snapshot string
	token    staking.TokenContract
	staking  staking.StakingContract
}

func New(factory Factory) *Suite {
	return &Suite{factory: factory}
}

func (s *Suite) SetupSuite() {
	env, release, err := s.factory()
	s.Require().NoError(err)
	s.env, s.release = env, release

	signers, err := env.Signers(context.Background())
	s.Require().NoError(err)
	s.Require().GreaterOrEqual(len(signers), 2, "owner and reward holder signers are required")
	s.owner, s.rewardHolder = signers[0], signers[1]
}

func (s *Suite) TearDownSuite() {
	if s.release != nil {
		s.release()
	}
}

// SetupTest deploys a fresh token and staking contract. When the environment supports it the chain
// state is restored after the test, otherwise contracts from previous tests are left behind unused
func (s *Suite) SetupTest() {
	s.ctx, s.cancel = context.WithTimeout(context.Background(), fixtureTimeout)
	r := s.Require()

	id, err := s.env.Snapshot(s.ctx)
	if !errors.Is(err, staking.ErrSnapshotUnsupported) {
		r.NoError(err)
		s.snapshot = id
	}

	s.token, err = s.env.DeployToken(s.ctx, s.owner)
	r.NoError(err)

	r.NoError(s.token.Mint(s.ctx, s.owner, s.rewardHolder.Address, fixtureAmount))
	r.NoError(s.token.Mint(s.ctx, s.owner, s.owner.Address, fixtureAmount))

	params := staking.DefaultDeployParams(s.token.Address(), s.rewardHolder.Address)
	params.MinStakeAmount = big.NewInt(fixtureMinStakeAmount)

	s.staking, err = s.env.DeployStaking(s.ctx, s.owner, params)
	r.NoError(err)

	r.NoError(s.token.Approve(s.ctx, s.owner, s.staking.Address(), fixtureAmount))
}

func (s *Suite) TearDownTest() {
	defer s.cancel()

	if s.snapshot != "" {
		s.Require().NoError(s.env.Revert(s.ctx, s.snapshot))
		s.snapshot = ""
	}
}

// increaseBy mines a block d after the latest block
func (s *Suite) increaseBy(d time.Duration) {
	latest, err := s.env.LatestTime(s.ctx)
	s.Require().NoError(err)
	s.Require().NoError(s.env.IncreaseTo(s.ctx, latest.Add(d)))
}

func (s *Suite) TestTotalStakers() {
	total, err := s.staking.TotalStakers(s.ctx)
	s.Require().NoError(err)
	s.Require().Zero(total.Sign())
}

func (s *Suite) TestGetRewardTokenBalance() {
	bal, err := s.staking.GetRewardTokenBalance(s.ctx)
	s.Require().NoError(err)
	s.Require().Zero(fixtureAmount.Cmp(bal), "got %s", bal)
}

func (s *Suite) TestStake() {
	s.Require().NoError(s.staking.Stake(s.ctx, s.owner, fixtureAmount))
}

func (s *Suite) TestWithdraw() {
	s.Require().NoError(s.staking.Stake(s.ctx, s.owner, fixtureAmount))
	s.increaseBy(3601 * time.Second)
	s.Require().NoError(s.staking.Withdraw(s.ctx, s.owner, fixtureAmount))
}

func (s *Suite) TestWithdrawCorrectBalance() {
	s.Require().NoError(s.staking.Stake(s.ctx, s.owner, fixtureAmount))
	s.increaseBy(13601 * time.Second)
	s.Require().NoError(s.staking.Withdraw(s.ctx, s.owner, fixtureAmount))

	bal, err := s.token.BalanceOf(s.ctx, s.owner.Address)
	s.Require().NoError(err)
	s.Require().Zero(fixtureAmount.Cmp(bal), "got %s", bal)
}

func (s *Suite) TestSetMinStakeLockTime() {
	s.Require().NoError(s.staking.SetMinStakeLockTime(s.ctx, s.owner, big.NewInt(100)))
}

func (s *Suite) TestSetMinStakeLockTimeValue() {
	s.Require().NoError(s.staking.SetMinStakeLockTime(s.ctx, s.owner, big.NewInt(100)))

	v, err := s.staking.MinStakeLockTime(s.ctx)
	s.Require().NoError(err)
	s.Require().EqualValues(100, v.Int64())
}

func (s *Suite) TestStaker() {
	s.Require().NoError(s.staking.Stake(s.ctx, s.owner, fixtureAmount))

	staker, err := s.staking.GetStakerAtIndex(s.ctx, big.NewInt(0))
	s.Require().NoError(err)
	s.Require().Equal(s.owner.Address, staker.Address)
}
