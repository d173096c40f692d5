package contracts

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/jackprotocol/jack-staking/internal/resources/staking"
	"github.com/stretchr/testify/require"
)

type dataError struct {
	msg  string
	data interface{}
}

func (e *dataError) Error() string          { return e.msg }
func (e *dataError) ErrorData() interface{} { return e.data }

// Error(string) encoding of "Stake is locked"
const stakeLockedRevertData = "0x08c379a0" +
	"0000000000000000000000000000000000000000000000000000000000000020" +
	"000000000000000000000000000000000000000000000000000000000000000f" +
	"5374616b65206973206c6f636b65640000000000000000000000000000000000"

func TestDecodeErrorFromRevertData(t *testing.T) {
	_, err := hexutil.Decode(stakeLockedRevertData)
	require.NoError(t, err)

	decoded := decodeError(&dataError{msg: "execution reverted", data: stakeLockedRevertData})

	var revertErr *staking.RevertError
	require.ErrorAs(t, decoded, &revertErr)
	require.Equal(t, staking.ReasonStakeLocked, revertErr.Reason)
}

func TestDecodeErrorFromMessage(t *testing.T) {
	cases := map[string]string{
		"execution reverted: Stake is locked": staking.ReasonStakeLocked,
		"Error: VM Exception while processing transaction: reverted with reason string 'Stake is locked'": staking.ReasonStakeLocked,
		"execution reverted": "",
	}
	for msg, reason := range cases {
		decoded := decodeError(errors.New(msg))
		require.ErrorIs(t, decoded, staking.ErrReverted, msg)

		var revertErr *staking.RevertError
		require.ErrorAs(t, decoded, &revertErr)
		require.Equal(t, reason, revertErr.Reason, msg)
	}
}

func TestDecodeErrorPassesThrough(t *testing.T) {
	require.NoError(t, decodeError(nil))

	err := errors.New("connection refused")
	require.Same(t, err, decodeError(err))
}
