package lib

import (
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	hdwallet "github.com/miguelmota/go-ethereum-hdwallet"
)

// DevMnemonic is the well-known mnemonic of local development nodes (hardhat, anvil)
const DevMnemonic = "test test test test test test test test test test test junk"

var ErrNoKeyMaterial = errors.New("either mnemonic or private key is required")

// Account is a signer identity able to authorize transactions
type Account struct {
	Address    common.Address
	PrivateKey *ecdsa.PrivateKey
}

func (a *Account) String() string {
	return a.Address.Hex()
}

func AccountFromPrivateKey(privateKey string) (*Account, error) {
	key, err := ParsePrivKey(privateKey)
	if err != nil {
		return nil, err
	}
	addr, err := PrivKeyToAddr(key)
	if err != nil {
		return nil, err
	}
	return &Account{Address: addr, PrivateKey: key}, nil
}

// AccountFromMnemonic derives the account at m/44'/60'/0'/0/index
func AccountFromMnemonic(mnemonic string, index int) (*Account, error) {
	accounts, err := DeriveAccounts(mnemonic, index, 1)
	if err != nil {
		return nil, err
	}
	return accounts[0], nil
}

// DeriveAccounts derives count accounts starting at index using the standard ethereum derivation path
func DeriveAccounts(mnemonic string, index int, count int) ([]*Account, error) {
	wallet, err := hdwallet.NewFromMnemonic(mnemonic)
	if err != nil {
		return nil, err
	}

	accounts := make([]*Account, count)
	for i := 0; i < count; i++ {
		path := hdwallet.MustParseDerivationPath(fmt.Sprintf("m/44'/60'/0'/0/%d", index+i))

		acc, err := wallet.Derive(path, false)
		if err != nil {
			return nil, err
		}

		key, err := wallet.PrivateKey(acc)
		if err != nil {
			return nil, err
		}

		accounts[i] = &Account{Address: acc.Address, PrivateKey: key}
	}

	return accounts, nil
}

// LoadAccount prefers the private key when both are set
func LoadAccount(mnemonic string, index int, privateKey string) (*Account, error) {
	if privateKey != "" {
		return AccountFromPrivateKey(privateKey)
	}
	if mnemonic != "" {
		return AccountFromMnemonic(mnemonic, index)
	}
	return nil, ErrNoKeyMaterial
}
