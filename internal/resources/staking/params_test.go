package staking

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

const constructor8 = `[{"type":"constructor","inputs":[
	{"name":"_timeUnit","type":"uint80"},
	{"name":"_rewardRatioNumerator","type":"uint256"},
	{"name":"_rewardRatioDenominator","type":"uint256"},
	{"name":"_stakingToken","type":"address"},
	{"name":"_rewardTokenHolder","type":"address"},
	{"name":"_nativeTokenWrapper","type":"address"},
	{"name":"_minStakeLockTime","type":"uint64"},
	{"name":"_minStakeAmount","type":"uint256"}]}]`

const constructor7 = `[{"type":"constructor","inputs":[
	{"name":"_timeUnit","type":"uint256"},
	{"name":"_rewardRatioNumerator","type":"uint256"},
	{"name":"_rewardRatioDenominator","type":"uint256"},
	{"name":"_stakingToken","type":"address"},
	{"name":"_rewardTokenHolder","type":"address"},
	{"name":"_nativeTokenWrapper","type":"address"},
	{"name":"_minStakeLockTime","type":"uint256"}]}]`

func mustABI(t *testing.T, s string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	require.NoError(t, err)
	return parsed
}

func TestDefaultDeployParamsOrder(t *testing.T) {
	token := common.HexToAddress("0x0C06C8d3720de21F0dd1D6DEF2f6f8dcB2CFE0BE")
	holder := common.HexToAddress("0xe1decF69818671FaD8084CB966F9730014A93273")
	values := DefaultDeployParams(token, holder).Values()

	require.Equal(t, []interface{}{
		big.NewInt(3600),
		big.NewInt(1),
		big.NewInt(20),
		token,
		holder,
		NativeTokenSentinel,
		big.NewInt(300),
	}, values)
}

func TestArgsConvertsIntegerWidths(t *testing.T) {
	params := DefaultDeployParams(tokenAddr, holderAddr)
	params.MinStakeAmount = big.NewInt(100000000000)

	args, err := params.Args(mustABI(t, constructor8).Constructor)
	require.NoError(t, err)
	require.Len(t, args, 8)
	require.Equal(t, big.NewInt(3600), args[0], "uint80 is packed from *big.Int")
	require.Equal(t, uint64(300), args[6])
	require.Equal(t, big.NewInt(100000000000), args[7])

	_, err = mustABI(t, constructor8).Pack("", args...)
	require.NoError(t, err)
}

func TestArgsDropsOptionalForSevenInputs(t *testing.T) {
	params := DefaultDeployParams(tokenAddr, holderAddr)
	params.MinStakeAmount = big.NewInt(1)

	args, err := params.Args(mustABI(t, constructor7).Constructor)
	require.NoError(t, err)
	require.Len(t, args, 7)
}

func TestArgsMissingOptional(t *testing.T) {
	params := DefaultDeployParams(tokenAddr, holderAddr)
	_, err := params.Args(mustABI(t, constructor8).Constructor)
	require.ErrorIs(t, err, ErrConstructorMismatch)
}

func TestArgsOverflow(t *testing.T) {
	params := DefaultDeployParams(tokenAddr, holderAddr)
	params.MinStakeAmount = big.NewInt(1)
	params.MinStakeLockTime = new(big.Int).Lsh(big.NewInt(1), 70)

	_, err := params.Args(mustABI(t, constructor8).Constructor)
	require.ErrorIs(t, err, ErrConstructorMismatch)
}

func TestArgsTypeMismatch(t *testing.T) {
	swapped := strings.Replace(constructor7, `"name":"_stakingToken","type":"address"`, `"name":"_stakingToken","type":"uint256"`, 1)
	_, err := DefaultDeployParams(tokenAddr, holderAddr).Args(mustABI(t, swapped).Constructor)
	require.ErrorIs(t, err, ErrConstructorMismatch)
}

func TestValidate(t *testing.T) {
	require.NoError(t, DefaultDeployParams(tokenAddr, holderAddr).Validate())

	p := DefaultDeployParams(common.Address{}, holderAddr)
	require.ErrorIs(t, p.Validate(), ErrInvalidParams)

	p = DefaultDeployParams(tokenAddr, holderAddr)
	p.TimeUnit = big.NewInt(0)
	require.ErrorIs(t, p.Validate(), ErrInvalidParams)
}

func TestIsRevertReason(t *testing.T) {
	require.True(t, IsRevertReason(NewRevertError(ReasonStakeLocked), ReasonStakeLocked))
	require.False(t, IsRevertReason(NewRevertError(ReasonStakeLocked), ReasonStakeZero))
	require.True(t, IsRevertReason(errString("execution reverted: Stake is locked"), ReasonStakeLocked))
	require.False(t, IsRevertReason(nil, ReasonStakeLocked))
}

type errString string

func (e errString) Error() string { return string(e) }
