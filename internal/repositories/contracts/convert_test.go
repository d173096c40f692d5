package contracts

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

var stakerAddr = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

const flatStakerABI = `[{"type":"function","name":"getStakerAtIndex","stateMutability":"view",
	"inputs":[{"name":"_index","type":"uint64"}],
	"outputs":[{"name":"staker","type":"address"},{"name":"amountStaked","type":"uint256"},{"name":"stakedAt","type":"uint64"}]}]`

func TestDecodeStakerTuple(t *testing.T) {
	out := []interface{}{struct {
		Staker           common.Address
		AmountStaked     *big.Int
		TimeOfLastUpdate *big.Int
		UnclaimedRewards *big.Int
		StakedAt         *big.Int
	}{stakerAddr, big.NewInt(10), big.NewInt(20), big.NewInt(30), big.NewInt(40)}}

	s, err := decodeStaker(nil, out)
	require.NoError(t, err)
	require.Equal(t, stakerAddr, s.Address)
	require.Equal(t, big.NewInt(10), s.AmountStaked)
	require.Equal(t, big.NewInt(30), s.UnclaimedRewards)
	require.EqualValues(t, 20, s.TimeOfLastUpdate)
	require.EqualValues(t, 40, s.StakedAt)
}

func TestDecodeStakerFlatOutputs(t *testing.T) {
	parsed, err := abi.JSON(strings.NewReader(flatStakerABI))
	require.NoError(t, err)

	s, err := decodeStaker(parsed.Methods["getStakerAtIndex"].Outputs, []interface{}{stakerAddr, big.NewInt(5), uint64(7)})
	require.NoError(t, err)
	require.Equal(t, stakerAddr, s.Address)
	require.Equal(t, big.NewInt(5), s.AmountStaked)
	require.EqualValues(t, 7, s.StakedAt)
	require.Zero(t, s.UnclaimedRewards.Sign(), "missing fields default to zero")
}

func TestDecodeStakerErrors(t *testing.T) {
	_, err := decodeStaker(nil, nil)
	require.ErrorIs(t, err, ErrUnexpectedOutput)

	_, err = decodeStaker(nil, []interface{}{big.NewInt(1)})
	require.ErrorIs(t, err, ErrUnexpectedOutput)

	_, err = decodeStaker(nil, []interface{}{struct{}{}})
	require.ErrorIs(t, err, ErrUnexpectedOutput)
}

func TestToBigInt(t *testing.T) {
	for _, v := range []interface{}{big.NewInt(42), uint8(42), uint64(42), int32(42)} {
		n, err := toBigInt(v)
		require.NoError(t, err)
		require.EqualValues(t, 42, n.Int64())
	}
	_, err := toBigInt("42")
	require.ErrorIs(t, err, ErrUnexpectedOutput)

	_, err = toUint64(new(big.Int).Lsh(big.NewInt(1), 64))
	require.ErrorIs(t, err, ErrUnexpectedOutput)
}

func TestPackArgsUsesDeclaredWidth(t *testing.T) {
	parsed, err := abi.JSON(strings.NewReader(flatStakerABI))
	require.NoError(t, err)

	args, err := packArgs(&parsed, "getStakerAtIndex", big.NewInt(3))
	require.NoError(t, err)
	require.Equal(t, []interface{}{uint64(3)}, args)

	_, err = packArgs(&parsed, "getStakerAtIndex")
	require.Error(t, err)
	_, err = packArgs(&parsed, "missing")
	require.Error(t, err)
}
