package contracts

import (
	"fmt"
	"math/big"
	"reflect"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/jackprotocol/jack-staking/internal/resources/staking"
)

// packArgs converts arguments to the widths declared by the method, deployed contracts
// are not required to use uint256 everywhere
func packArgs(contractABI *abi.ABI, method string, values ...interface{}) ([]interface{}, error) {
	m, ok := contractABI.Methods[method]
	if !ok {
		return nil, fmt.Errorf("method %s not found in ABI", method)
	}
	if len(m.Inputs) != len(values) {
		return nil, fmt.Errorf("%s takes %d arguments, got %d", method, len(m.Inputs), len(values))
	}
	args := make([]interface{}, len(values))
	for i, input := range m.Inputs {
		arg, err := staking.ConvertArg(input, values[i])
		if err != nil {
			return nil, fmt.Errorf("%s argument %d: %w", method, i, err)
		}
		args[i] = arg
	}
	return args, nil
}

func toBigInt(v interface{}) (*big.Int, error) {
	if n, ok := v.(*big.Int); ok {
		return new(big.Int).Set(n), nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return new(big.Int).SetUint64(rv.Uint()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return big.NewInt(rv.Int()), nil
	}
	return nil, fmt.Errorf("%w: expected integer, got %T", ErrUnexpectedOutput, v)
}

func toUint64(v interface{}) (uint64, error) {
	n, err := toBigInt(v)
	if err != nil {
		return 0, err
	}
	if !n.IsUint64() {
		return 0, fmt.Errorf("%w: %s overflows uint64", ErrUnexpectedOutput, n)
	}
	return n.Uint64(), nil
}

// decodeStaker accepts getStakerAtIndex returning either a single struct or a flat list of values.
// The first field is always the staker address, the rest are matched by name
func decodeStaker(outputs abi.Arguments, out []interface{}) (*staking.Staker, error) {
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: getStakerAtIndex returned nothing", ErrUnexpectedOutput)
	}

	var first interface{}
	fields := make(map[string]interface{})

	if rv := reflect.ValueOf(out[0]); len(out) == 1 && rv.Kind() == reflect.Struct {
		if rv.NumField() == 0 {
			return nil, fmt.Errorf("%w: empty staker struct", ErrUnexpectedOutput)
		}
		first = rv.Field(0).Interface()
		for i := 0; i < rv.NumField(); i++ {
			fields[rv.Type().Field(i).Name] = rv.Field(i).Interface()
		}
	} else {
		first = out[0]
		for i, arg := range outputs {
			if i < len(out) {
				fields[abi.ToCamelCase(arg.Name)] = out[i]
			}
		}
	}

	addr, ok := first.(common.Address)
	if !ok {
		return nil, fmt.Errorf("%w: staker field 0 is %T, expected address", ErrUnexpectedOutput, first)
	}

	s := &staking.Staker{
		Address:          addr,
		AmountStaked:     new(big.Int),
		UnclaimedRewards: new(big.Int),
	}

	var err error
	if v, ok := fields["AmountStaked"]; ok {
		if s.AmountStaked, err = toBigInt(v); err != nil {
			return nil, err
		}
	}
	if v, ok := fields["UnclaimedRewards"]; ok {
		if s.UnclaimedRewards, err = toBigInt(v); err != nil {
			return nil, err
		}
	}
	if v, ok := fields["TimeOfLastUpdate"]; ok {
		if s.TimeOfLastUpdate, err = toUint64(v); err != nil {
			return nil, err
		}
	}
	if v, ok := fields["StakedAt"]; ok {
		if s.StakedAt, err = toUint64(v); err != nil {
			return nil, err
		}
	}
	return s, nil
}
