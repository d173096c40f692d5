package httphandlers

import (
	"errors"
	"math/big"
	"net/http"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/jackprotocol/jack-staking/internal/lib"
	"github.com/jackprotocol/jack-staking/internal/resources/staking"
	"golang.org/x/exp/slices"
)

// MaxStakersPage limits the number of stakers read by a single /stakers request
const MaxStakersPage = 100

func (h *HTTPHandler) GetStaking(ctx *gin.Context) {
	total, err := h.staking.TotalStakers(ctx)
	if err != nil {
		h.nodeError(ctx, err)
		return
	}
	lockTime, err := h.staking.MinStakeLockTime(ctx)
	if err != nil {
		h.nodeError(ctx, err)
		return
	}
	balance, err := h.staking.GetRewardTokenBalance(ctx)
	if err != nil {
		h.nodeError(ctx, err)
		return
	}

	ctx.JSON(200, StakingResponse{
		Address:                h.staking.Address().Hex(),
		TotalStakers:           total.Uint64(),
		MinStakeLockTimeSec:    lockTime.Uint64(),
		RewardTokenBalance:     balance.String(),
		RewardTokenBalanceJACK: lib.FormatUnits(balance, lib.EtherDecimals),
	})
}

// GetStakers lists stakers by contract index from ?offset= (default 0), at most MaxStakersPage of them.
// The page is sorted by staked amount, largest first; there is no ordering across pages.
func (h *HTTPHandler) GetStakers(ctx *gin.Context) {
	offset, err := strconv.ParseUint(ctx.DefaultQuery("offset", "0"), 10, 64)
	if err != nil {
		h.badRequest(ctx, err)
		return
	}

	total, err := h.staking.TotalStakers(ctx)
	if err != nil {
		h.nodeError(ctx, err)
		return
	}

	res := StakersResponse{Total: total.Uint64(), Stakers: []Staker{}}
	for i := offset; i < res.Total && i < offset+MaxStakersPage; i++ {
		s, err := h.staking.GetStakerAtIndex(ctx, new(big.Int).SetUint64(i))
		if err != nil {
			h.nodeError(ctx, err)
			return
		}
		res.Stakers = append(res.Stakers, mapStaker(i, s))
	}

	slices.SortStableFunc(res.Stakers, func(a, b Staker) bool {
		return a.amount.Cmp(b.amount) > 0
	})

	ctx.JSON(200, res)
}

// GetStaker returns the staker record at the index given in the path
func (h *HTTPHandler) GetStaker(ctx *gin.Context) {
	index, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		h.badRequest(ctx, errors.New("staker index must be a non-negative integer"))
		return
	}

	s, err := h.staking.GetStakerAtIndex(ctx, new(big.Int).SetUint64(index))
	if errors.Is(err, staking.ErrReverted) {
		ctx.JSON(http.StatusNotFound, h.errorResponse(ctx, err))
		return
	}
	if err != nil {
		h.nodeError(ctx, err)
		return
	}

	ctx.JSON(200, mapStaker(index, s))
}

func (h *HTTPHandler) GetStakeInfo(ctx *gin.Context) {
	addr := ctx.Param("id")
	if !common.IsHexAddress(addr) {
		h.badRequest(ctx, errors.New("invalid staker address"))
		return
	}
	staker := common.HexToAddress(addr)

	staked, rewards, err := h.staking.GetStakeInfo(ctx, staker)
	if err != nil {
		h.nodeError(ctx, err)
		return
	}

	ctx.JSON(200, StakeInfoResponse{
		Address:     staker.Hex(),
		Staked:      staked.String(),
		Rewards:     rewards.String(),
		RewardsJACK: lib.FormatUnits(rewards, lib.EtherDecimals),
	})
}

func (h *HTTPHandler) badRequest(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, h.errorResponse(ctx, err))
}

// nodeError reports a failed contract read as a bad gateway, the node is the upstream
func (h *HTTPHandler) nodeError(ctx *gin.Context, err error) {
	h.log.Warnf("contract read failed: %s", err)
	h.metrics.NodeErrors.Inc()
	ctx.JSON(http.StatusBadGateway, h.errorResponse(ctx, err))
}

func (h *HTTPHandler) errorResponse(ctx *gin.Context, err error) ErrorResponse {
	return ErrorResponse{Error: err.Error(), RequestID: ctx.GetString(RequestIDKey)}
}

func mapStaker(index uint64, s *staking.Staker) Staker {
	return Staker{
		Index:            index,
		Address:          s.Address.Hex(),
		AmountStaked:     s.AmountStaked.String(),
		AmountStakedJACK: lib.FormatUnits(s.AmountStaked, lib.EtherDecimals),
		UnclaimedRewards: s.UnclaimedRewards.String(),
		TimeOfLastUpdate: formatTimestamp(s.TimeOfLastUpdate),
		StakedAt:         formatTimestamp(s.StakedAt),
		amount:           s.AmountStaked,
	}
}

func formatTimestamp(ts uint64) string {
	return time.Unix(int64(ts), 0).UTC().Format(time.RFC3339)
}
