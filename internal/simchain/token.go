package simchain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jackprotocol/jack-staking/internal/lib"
	"github.com/jackprotocol/jack-staking/internal/resources/staking"
)

const (
	reasonNotOwner            = "Ownable: caller is not the owner"
	reasonExceedsBalance      = "ERC20: transfer amount exceeds balance"
	reasonInsufficientAllowed = "ERC20: insufficient allowance"
	reasonTransferToZero      = "ERC20: transfer to the zero address"
	reasonApproveToZero       = "ERC20: approve to the zero address"
	reasonMintToZero          = "ERC20: mint to the zero address"
	reasonOutOfBounds         = "value out of bounds"
)

// tokenState is the storage of an 18-decimals mintable ERC20 token
type tokenState struct {
	self        common.Address
	owner       common.Address
	totalSupply *big.Int
	balances    map[common.Address]*big.Int
	allowances  map[common.Address]map[common.Address]*big.Int
}

func newTokenState(self, owner common.Address) *tokenState {
	return &tokenState{
		self:        self,
		owner:       owner,
		totalSupply: new(big.Int),
		balances:    make(map[common.Address]*big.Int),
		allowances:  make(map[common.Address]map[common.Address]*big.Int),
	}
}

func (t *tokenState) clone() *tokenState {
	cp := newTokenState(t.self, t.owner)
	cp.totalSupply.Set(t.totalSupply)
	for addr, bal := range t.balances {
		cp.balances[addr] = new(big.Int).Set(bal)
	}
	for owner, spenders := range t.allowances {
		m := make(map[common.Address]*big.Int, len(spenders))
		for spender, v := range spenders {
			m[spender] = new(big.Int).Set(v)
		}
		cp.allowances[owner] = m
	}
	return cp
}

func (t *tokenState) BalanceOf(addr common.Address) *big.Int {
	if bal, ok := t.balances[addr]; ok {
		return new(big.Int).Set(bal)
	}
	return new(big.Int)
}

func (t *tokenState) allowance(owner, spender common.Address) *big.Int {
	if v, ok := t.allowances[owner][spender]; ok {
		return new(big.Int).Set(v)
	}
	return new(big.Int)
}

// checkUint256 rejects amounts an ABI encoder could not pack as uint256
func checkUint256(amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 || amount.BitLen() > 256 {
		return staking.NewRevertError(reasonOutOfBounds)
	}
	return nil
}

func (t *tokenState) mint(caller, to common.Address, amount *big.Int) error {
	if err := checkUint256(amount); err != nil {
		return err
	}
	if caller != t.owner {
		return staking.NewRevertError(reasonNotOwner)
	}
	if to == (common.Address{}) {
		return staking.NewRevertError(reasonMintToZero)
	}
	t.totalSupply.Add(t.totalSupply, amount)
	t.balances[to] = new(big.Int).Add(t.BalanceOf(to), amount)
	return nil
}

func (t *tokenState) approve(owner, spender common.Address, amount *big.Int) error {
	if err := checkUint256(amount); err != nil {
		return err
	}
	if spender == (common.Address{}) {
		return staking.NewRevertError(reasonApproveToZero)
	}
	if t.allowances[owner] == nil {
		t.allowances[owner] = make(map[common.Address]*big.Int)
	}
	t.allowances[owner][spender] = new(big.Int).Set(amount)
	return nil
}

func (t *tokenState) Transfer(from, to common.Address, amount *big.Int) error {
	if err := checkUint256(amount); err != nil {
		return err
	}
	if to == (common.Address{}) {
		return staking.NewRevertError(reasonTransferToZero)
	}
	bal := t.BalanceOf(from)
	if bal.Cmp(amount) < 0 {
		return staking.NewRevertError(reasonExceedsBalance)
	}
	t.balances[from] = bal.Sub(bal, amount)
	t.balances[to] = new(big.Int).Add(t.BalanceOf(to), amount)
	return nil
}

func (t *tokenState) TransferFrom(spender, from, to common.Address, amount *big.Int) error {
	if err := checkUint256(amount); err != nil {
		return err
	}
	allowed := t.allowance(from, spender)
	if allowed.Cmp(amount) < 0 {
		return staking.NewRevertError(reasonInsufficientAllowed)
	}
	if err := t.Transfer(from, to, amount); err != nil {
		return err
	}
	if t.allowances[from] == nil {
		t.allowances[from] = make(map[common.Address]*big.Int)
	}
	t.allowances[from][spender] = allowed.Sub(allowed, amount)
	return nil
}

// Token is a handle to a token deployed on the chain
type Token struct {
	chain *Chain
	addr  common.Address
}

func (t *Token) Address() common.Address {
	return t.addr
}

func (t *Token) Mint(ctx context.Context, from *lib.Account, to common.Address, amount *big.Int) error {
	return t.chain.transact(ctx, from.Address, "mint", func(st *worldState, _ uint64) error {
		tok, err := st.token(t.addr)
		if err != nil {
			return err
		}
		return tok.mint(from.Address, to, amount)
	})
}

func (t *Token) Approve(ctx context.Context, from *lib.Account, spender common.Address, amount *big.Int) error {
	return t.chain.transact(ctx, from.Address, "approve", func(st *worldState, _ uint64) error {
		tok, err := st.token(t.addr)
		if err != nil {
			return err
		}
		return tok.approve(from.Address, spender, amount)
	})
}

func (t *Token) Transfer(ctx context.Context, from *lib.Account, to common.Address, amount *big.Int) error {
	return t.chain.transact(ctx, from.Address, "transfer", func(st *worldState, _ uint64) error {
		tok, err := st.token(t.addr)
		if err != nil {
			return err
		}
		return tok.Transfer(from.Address, to, amount)
	})
}

func (t *Token) BalanceOf(ctx context.Context, addr common.Address) (*big.Int, error) {
	var bal *big.Int
	err := t.chain.view(ctx, func(st *worldState, _ uint64) error {
		tok, err := st.token(t.addr)
		if err != nil {
			return err
		}
		bal = tok.BalanceOf(addr)
		return nil
	})
	return bal, err
}

func (t *Token) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	var v *big.Int
	err := t.chain.view(ctx, func(st *worldState, _ uint64) error {
		tok, err := st.token(t.addr)
		if err != nil {
			return err
		}
		v = tok.allowance(owner, spender)
		return nil
	})
	return v, err
}

func (t *Token) TotalSupply(ctx context.Context) (*big.Int, error) {
	var v *big.Int
	err := t.chain.view(ctx, func(st *worldState, _ uint64) error {
		tok, err := st.token(t.addr)
		if err != nil {
			return err
		}
		v = new(big.Int).Set(tok.totalSupply)
		return nil
	})
	return v, err
}
