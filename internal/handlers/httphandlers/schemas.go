package httphandlers

import "math/big"

type ConfigResponse struct {
	Version string
	Config  interface{}
}

type StakingResponse struct {
	Address                string
	TotalStakers           uint64
	MinStakeLockTimeSec    uint64
	RewardTokenBalance     string
	RewardTokenBalanceJACK string
}

type Staker struct {
	Index            uint64
	Address          string
	AmountStaked     string
	AmountStakedJACK string
	UnclaimedRewards string
	TimeOfLastUpdate string
	StakedAt         string

	amount *big.Int
}

type StakersResponse struct {
	Total   uint64
	Stakers []Staker
}

type StakeInfoResponse struct {
	Address     string
	Staked      string
	Rewards     string
	RewardsJACK string
}

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}
