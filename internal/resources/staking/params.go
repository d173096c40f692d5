package staking

import (
	"fmt"
	"math/big"
	"reflect"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// NativeTokenSentinel is the conventional address standing for the chain's native currency
var NativeTokenSentinel = common.HexToAddress("0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE")

const (
	DefaultTimeUnitSeconds         = 60 * 60
	DefaultRewardRatioNumerator    = 1
	DefaultRewardRatioDenominator  = 20
	DefaultMinStakeLockTimeSeconds = 60 * 5
)

// DeployParams are the JackStaking constructor arguments in declaration order
type DeployParams struct {
	TimeUnit               *big.Int
	RewardRatioNumerator   *big.Int
	RewardRatioDenominator *big.Int
	StakingToken           common.Address
	RewardTokenHolder      common.Address
	NativeTokenWrapper     common.Address
	MinStakeLockTime       *big.Int
	MinStakeAmount         *big.Int // optional trailing argument, nil when the constructor does not take it
}

func DefaultDeployParams(stakingToken, rewardTokenHolder common.Address) DeployParams {
	return DeployParams{
		TimeUnit:               big.NewInt(DefaultTimeUnitSeconds),
		RewardRatioNumerator:   big.NewInt(DefaultRewardRatioNumerator),
		RewardRatioDenominator: big.NewInt(DefaultRewardRatioDenominator),
		StakingToken:           stakingToken,
		RewardTokenHolder:      rewardTokenHolder,
		NativeTokenWrapper:     NativeTokenSentinel,
		MinStakeLockTime:       big.NewInt(DefaultMinStakeLockTimeSeconds),
	}
}

func (p DeployParams) Validate() error {
	switch {
	case p.TimeUnit == nil || p.TimeUnit.Sign() <= 0:
		return fmt.Errorf("%w: time unit must be positive", ErrInvalidParams)
	case p.RewardRatioNumerator == nil || p.RewardRatioNumerator.Sign() < 0:
		return fmt.Errorf("%w: reward ratio numerator must not be negative", ErrInvalidParams)
	case p.RewardRatioDenominator == nil || p.RewardRatioDenominator.Sign() <= 0:
		return fmt.Errorf("%w: reward ratio denominator must be positive", ErrInvalidParams)
	case p.StakingToken == (common.Address{}):
		return fmt.Errorf("%w: staking token is not set", ErrInvalidParams)
	case p.RewardTokenHolder == (common.Address{}):
		return fmt.Errorf("%w: reward token holder is not set", ErrInvalidParams)
	case p.MinStakeLockTime == nil || p.MinStakeLockTime.Sign() < 0:
		return fmt.Errorf("%w: min stake lock time must not be negative", ErrInvalidParams)
	case p.MinStakeAmount != nil && p.MinStakeAmount.Sign() < 0:
		return fmt.Errorf("%w: min stake amount must not be negative", ErrInvalidParams)
	}
	if !p.TimeUnit.IsUint64() || !p.MinStakeLockTime.IsUint64() {
		return fmt.Errorf("%w: durations must fit into 64 bits", ErrInvalidParams)
	}
	return nil
}

// Values returns the positional argument list, 7 or 8 items depending on MinStakeAmount
func (p DeployParams) Values() []interface{} {
	values := []interface{}{
		p.TimeUnit,
		p.RewardRatioNumerator,
		p.RewardRatioDenominator,
		p.StakingToken,
		p.RewardTokenHolder,
		p.NativeTokenWrapper,
		p.MinStakeLockTime,
	}
	if p.MinStakeAmount != nil {
		values = append(values, p.MinStakeAmount)
	}
	return values
}

// Args matches the positional list against the constructor inputs. The optional trailing argument
// is dropped for 7-argument constructors. Integer values are converted to the Go type the ABI packer expects
func (p DeployParams) Args(constructor abi.Method) ([]interface{}, error) {
	values := p.Values()
	inputs := constructor.Inputs

	if len(values) == len(inputs)+1 && p.MinStakeAmount != nil {
		values = values[:len(inputs)]
	}
	if len(values) != len(inputs) {
		return nil, fmt.Errorf("%w: constructor takes %d arguments, got %d", ErrConstructorMismatch, len(inputs), len(values))
	}

	args := make([]interface{}, len(values))
	for i, input := range inputs {
		arg, err := ConvertArg(input, values[i])
		if err != nil {
			return nil, fmt.Errorf("%w: argument %d (%s): %s", ErrConstructorMismatch, i, input.Name, err)
		}
		args[i] = arg
	}

	return args, nil
}

// ConvertArg checks value against an ABI input and converts integers to the Go type the packer expects
func ConvertArg(input abi.Argument, value interface{}) (interface{}, error) {
	switch input.Type.T {
	case abi.AddressTy:
		addr, ok := value.(common.Address)
		if !ok {
			return nil, fmt.Errorf("expected address, got %T", value)
		}
		return addr, nil

	case abi.UintTy, abi.IntTy:
		n, ok := value.(*big.Int)
		if !ok {
			return nil, fmt.Errorf("expected integer, got %T", value)
		}
		if input.Type.T == abi.UintTy && n.Sign() < 0 {
			return nil, fmt.Errorf("negative value for %s", input.Type.String())
		}
		if n.BitLen() > input.Type.Size {
			return nil, fmt.Errorf("value %s overflows %s", n, input.Type.String())
		}

		goType := input.Type.GetType()
		if goType == reflect.TypeOf(&big.Int{}) {
			return new(big.Int).Set(n), nil
		}
		if input.Type.T == abi.UintTy {
			return reflect.ValueOf(n.Uint64()).Convert(goType).Interface(), nil
		}
		return reflect.ValueOf(n.Int64()).Convert(goType).Interface(), nil

	default:
		return nil, fmt.Errorf("unsupported type %s", input.Type.String())
	}
}
