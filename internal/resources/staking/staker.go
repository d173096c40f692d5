package staking

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Staker is the record returned by getStakerAtIndex. Address is always the first field
type Staker struct {
	Address          common.Address
	AmountStaked     *big.Int
	TimeOfLastUpdate uint64
	UnclaimedRewards *big.Int
	StakedAt         uint64
}

func (s *Staker) clone() *Staker {
	return &Staker{
		Address:          s.Address,
		AmountStaked:     new(big.Int).Set(s.AmountStaked),
		TimeOfLastUpdate: s.TimeOfLastUpdate,
		UnclaimedRewards: new(big.Int).Set(s.UnclaimedRewards),
		StakedAt:         s.StakedAt,
	}
}
