package contracts

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/jackprotocol/jack-staking/internal/lib"
	"github.com/jackprotocol/jack-staking/internal/resources/staking"
)

// TokenEthereum is an ERC20 binding for the JACK token
type TokenEthereum struct {
	addr       common.Address
	tokenABI   *abi.ABI
	contract   *bind.BoundContract
	transactor *Transactor
}

var _ staking.TokenContract = (*TokenEthereum)(nil)

func NewTokenEthereum(addr common.Address, tokenABI *abi.ABI, transactor *Transactor) *TokenEthereum {
	if tokenABI == nil {
		parsed, err := JackTokenMetaData.GetAbi()
		if err != nil {
			panic("invalid token ABI: " + err.Error())
		}
		tokenABI = parsed
	}
	client := transactor.Client()

	return &TokenEthereum{
		addr:       addr,
		tokenABI:   tokenABI,
		contract:   bind.NewBoundContract(addr, *tokenABI, client, client, client),
		transactor: transactor,
	}
}

func (t *TokenEthereum) Address() common.Address {
	return t.addr
}

func (t *TokenEthereum) Mint(ctx context.Context, from *lib.Account, to common.Address, amount *big.Int) error {
	return t.transact(ctx, from, "mint", to, amount)
}

func (t *TokenEthereum) Approve(ctx context.Context, from *lib.Account, spender common.Address, amount *big.Int) error {
	return t.transact(ctx, from, "approve", spender, amount)
}

func (t *TokenEthereum) Transfer(ctx context.Context, from *lib.Account, to common.Address, amount *big.Int) error {
	return t.transact(ctx, from, "transfer", to, amount)
}

func (t *TokenEthereum) BalanceOf(ctx context.Context, addr common.Address) (*big.Int, error) {
	return t.callInt(ctx, "balanceOf", addr)
}

func (t *TokenEthereum) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	return t.callInt(ctx, "allowance", owner, spender)
}

func (t *TokenEthereum) TotalSupply(ctx context.Context) (*big.Int, error) {
	return t.callInt(ctx, "totalSupply")
}

func (t *TokenEthereum) transact(ctx context.Context, from *lib.Account, method string, values ...interface{}) error {
	args, err := packArgs(t.tokenABI, method, values...)
	if err != nil {
		return err
	}
	_, err = t.transactor.Transact(ctx, from, method, func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return t.contract.Transact(opts, method, args...)
	})
	return err
}

func (t *TokenEthereum) callInt(ctx context.Context, method string, values ...interface{}) (*big.Int, error) {
	args, err := packArgs(t.tokenABI, method, values...)
	if err != nil {
		return nil, err
	}

	var out []interface{}
	if err := t.contract.Call(&bind.CallOpts{Context: ctx}, &out, method, args...); err != nil {
		return nil, decodeError(err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s returned nothing", ErrUnexpectedOutput, method)
	}
	return toBigInt(out[0])
}
