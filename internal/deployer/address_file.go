package deployer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jackprotocol/jack-staking/internal/lib"
)

var ErrInvalidAddressFile = errors.New("invalid addresses file")

// AddressRecord is the content of the addresses file
type AddressRecord struct {
	Address string `json:"address"`
}

// WriteAddressFile replaces path with {"address": "<addr>"}, creating the parent directory
func WriteAddressFile(path string, addr common.Address) error {
	data, err := json.Marshal(AddressRecord{Address: addr.Hex()})
	if err != nil {
		return err
	}
	return lib.WriteFileAtomic(path, data, 0o644)
}

func ReadAddressFile(path string) (common.Address, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return common.Address{}, err
	}

	var rec AddressRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return common.Address{}, lib.WrapError(ErrInvalidAddressFile, err)
	}
	if !common.IsHexAddress(rec.Address) {
		return common.Address{}, lib.WrapError(ErrInvalidAddressFile, fmt.Errorf("not an address: %q", rec.Address))
	}
	return common.HexToAddress(rec.Address), nil
}
