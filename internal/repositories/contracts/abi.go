package contracts

import (
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
)

// JackStakingMetaData is the public interface of the JackStaking contract. Compiled artifacts
// take precedence when available, this ABI is enough to talk to an already deployed instance
var JackStakingMetaData = &bind.MetaData{
	ABI: `[
	{"type":"constructor","stateMutability":"nonpayable","inputs":[
		{"name":"_timeUnit","type":"uint256"},
		{"name":"_rewardRatioNumerator","type":"uint256"},
		{"name":"_rewardRatioDenominator","type":"uint256"},
		{"name":"_stakingToken","type":"address"},
		{"name":"_rewardTokenHolder","type":"address"},
		{"name":"_nativeTokenWrapper","type":"address"},
		{"name":"_minStakeLockTime","type":"uint256"},
		{"name":"_minStakeAmount","type":"uint256"}]},
	{"type":"function","name":"stake","stateMutability":"payable","inputs":[{"name":"_amount","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"withdraw","stateMutability":"nonpayable","inputs":[{"name":"_amount","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"claimRewards","stateMutability":"nonpayable","inputs":[],"outputs":[]},
	{"type":"function","name":"setMinStakeLockTime","stateMutability":"nonpayable","inputs":[{"name":"_minStakeLockTime","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"minStakeLockTime","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"totalStakers","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"getRewardTokenBalance","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"getStakeInfo","stateMutability":"view","inputs":[{"name":"_staker","type":"address"}],"outputs":[
		{"name":"_tokensStaked","type":"uint256"},
		{"name":"_rewards","type":"uint256"}]},
	{"type":"function","name":"getStakerAtIndex","stateMutability":"view","inputs":[{"name":"_index","type":"uint256"}],"outputs":[
		{"name":"","type":"tuple","internalType":"struct JackStaking.Staker","components":[
			{"name":"staker","type":"address"},
			{"name":"amountStaked","type":"uint256"},
			{"name":"timeOfLastUpdate","type":"uint256"},
			{"name":"unclaimedRewards","type":"uint256"},
			{"name":"stakedAt","type":"uint256"}]}]},
	{"type":"event","name":"TokensStaked","anonymous":false,"inputs":[
		{"name":"staker","type":"address","indexed":true},
		{"name":"amount","type":"uint256","indexed":false}]},
	{"type":"event","name":"TokensWithdrawn","anonymous":false,"inputs":[
		{"name":"staker","type":"address","indexed":true},
		{"name":"amount","type":"uint256","indexed":false}]},
	{"type":"event","name":"RewardsClaimed","anonymous":false,"inputs":[
		{"name":"staker","type":"address","indexed":true},
		{"name":"rewardAmount","type":"uint256","indexed":false}]},
	{"type":"event","name":"UpdatedMinStakeLockTime","anonymous":false,"inputs":[
		{"name":"oldValue","type":"uint256","indexed":false},
		{"name":"newValue","type":"uint256","indexed":false}]}
]`,
}

// JackTokenMetaData is the mintable ERC20 JACK token
var JackTokenMetaData = &bind.MetaData{
	ABI: `[
	{"type":"function","name":"mint","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"transferFrom","stateMutability":"nonpayable","inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"allowance","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"totalSupply","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"decimals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]},
	{"type":"event","name":"Transfer","anonymous":false,"inputs":[
		{"name":"from","type":"address","indexed":true},
		{"name":"to","type":"address","indexed":true},
		{"name":"value","type":"uint256","indexed":false}]}
]`,
}
