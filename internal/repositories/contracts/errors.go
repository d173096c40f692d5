package contracts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/jackprotocol/jack-staking/internal/resources/staking"
)

var (
	ErrTxFailed          = fmt.Errorf("%w: transaction failed", staking.ErrReverted)
	ErrUnexpectedOutput  = errors.New("unexpected call output")
	ErrDevRPCUnsupported = errors.New("development rpc method is not supported by the node")
)

const (
	revertPrefix        = "execution reverted"
	hardhatReasonPrefix = "reverted with reason string '"
)

// decodeError converts node revert errors into *staking.RevertError, other errors are returned as is
func decodeError(err error) error {
	if err == nil {
		return nil
	}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if data, ok := dataErr.ErrorData().(string); ok {
			if raw, decErr := hexutil.Decode(data); decErr == nil {
				if reason, unpackErr := abi.UnpackRevert(raw); unpackErr == nil {
					return staking.NewRevertError(reason)
				}
			}
		}
	}

	msg := err.Error()
	// hardhat: "VM Exception while processing transaction: reverted with reason string 'Stake is locked'"
	if idx := strings.Index(msg, hardhatReasonPrefix); idx >= 0 {
		reason := msg[idx+len(hardhatReasonPrefix):]
		if end := strings.LastIndex(reason, "'"); end >= 0 {
			reason = reason[:end]
		}
		return staking.NewRevertError(reason)
	}

	idx := strings.Index(msg, revertPrefix)
	if idx < 0 {
		return err
	}
	reason := strings.TrimPrefix(msg[idx+len(revertPrefix):], ":")
	return staking.NewRevertError(strings.TrimSpace(reason))
}
