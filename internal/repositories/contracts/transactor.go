package contracts

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/jackprotocol/jack-staking/internal/interfaces"
	"github.com/jackprotocol/jack-staking/internal/lib"
)

const DefaultWaitTimeout = 1 * time.Minute

// Transactor signs and submits transactions for any number of accounts. Nonces are tracked locally
// so that consecutive transactions from one account do not wait for each other to be mined
type Transactor struct {
	// config
	legacyTx    bool // use legacy transaction fee, for local node testing
	waitTimeout time.Duration

	// state
	nonces  map[common.Address]uint64
	mutex   lib.Mutex
	chainID *big.Int
	idMutex sync.Mutex

	// deps
	client EthereumClient
	log    interfaces.ILogger
}

func NewTransactor(client EthereumClient, log interfaces.ILogger) *Transactor {
	return &Transactor{
		waitTimeout: DefaultWaitTimeout,
		nonces:      make(map[common.Address]uint64),
		mutex:       lib.NewMutex(),
		client:      client,
		log:         log,
	}
}

func (t *Transactor) SetLegacyTx(legacyTx bool) {
	t.legacyTx = legacyTx
}

func (t *Transactor) SetWaitTimeout(timeout time.Duration) {
	if timeout > 0 {
		t.waitTimeout = timeout
	}
}

func (t *Transactor) Client() EthereumClient {
	return t.client
}

// ResetNonces drops locally tracked nonces, required after the chain state is reverted
func (t *Transactor) ResetNonces() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.nonces = make(map[common.Address]uint64)
}

// Send signs the transaction built by send and submits it. The nonce is reserved only if the
// node accepts the transaction
func (t *Transactor) Send(ctx context.Context, from *lib.Account, name string, send func(opts *bind.TransactOpts) (*types.Transaction, error)) (*types.Transaction, error) {
	if err := t.mutex.LockCtx(ctx); err != nil {
		return nil, lib.WrapError(fmt.Errorf("%s: nonce lock", name), err)
	}
	defer t.mutex.Unlock()

	opts, err := t.getTransactOpts(ctx, from)
	if err != nil {
		return nil, err
	}

	tx, err := send(opts)
	if err != nil {
		err = decodeError(err)
		t.log.Debugf("%s from %s failed: %s", name, from.Address, err)
		return nil, err
	}

	t.nonces[from.Address] = tx.Nonce() + 1
	t.log.Debugf("%s from %s sent, tx %s nonce %d", name, from.Address, tx.Hash(), tx.Nonce())
	return tx, nil
}

// Wait blocks until tx is mined and fails if it was reverted
func (t *Transactor) Wait(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, t.waitTimeout)
	defer cancel()

	receipt, err := bind.WaitMined(ctx, t.client, tx)
	if err != nil {
		return nil, err
	}
	if receipt.Status == types.ReceiptStatusFailed {
		return receipt, fmt.Errorf("%w: %s in block %d", ErrTxFailed, tx.Hash(), receipt.BlockNumber)
	}
	return receipt, nil
}

// WaitDeployed blocks until the contract creation tx is mined and code is present at the address
func (t *Transactor) WaitDeployed(ctx context.Context, tx *types.Transaction) (common.Address, error) {
	ctx, cancel := context.WithTimeout(ctx, t.waitTimeout)
	defer cancel()

	addr, err := bind.WaitDeployed(ctx, t.client, tx)
	if err != nil {
		return common.Address{}, err
	}
	return addr, nil
}

func (t *Transactor) Transact(ctx context.Context, from *lib.Account, name string, send func(opts *bind.TransactOpts) (*types.Transaction, error)) (*types.Receipt, error) {
	tx, err := t.Send(ctx, from, name, send)
	if err != nil {
		return nil, err
	}
	return t.Wait(ctx, tx)
}

func (t *Transactor) ChainID(ctx context.Context) (*big.Int, error) {
	t.idMutex.Lock()
	defer t.idMutex.Unlock()

	if t.chainID != nil {
		return t.chainID, nil
	}
	chainID, err := t.client.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	t.chainID = chainID
	return chainID, nil
}

func (t *Transactor) getTransactOpts(ctx context.Context, from *lib.Account) (*bind.TransactOpts, error) {
	chainID, err := t.ChainID(ctx)
	if err != nil {
		return nil, err
	}

	transactOpts, err := bind.NewKeyedTransactorWithChainID(from.PrivateKey, chainID)
	if err != nil {
		return nil, err
	}

	if t.legacyTx {
		gasPrice, err := t.client.SuggestGasPrice(ctx)
		if err != nil {
			return nil, err
		}
		transactOpts.GasPrice = gasPrice
	}

	nonce, err := t.getNonce(ctx, from.Address)
	if err != nil {
		return nil, err
	}

	transactOpts.Value = big.NewInt(0)
	transactOpts.Nonce = nonce
	transactOpts.Context = ctx

	return transactOpts, nil
}

// getNonce must be called with the mutex held
func (t *Transactor) getNonce(ctx context.Context, from common.Address) (*big.Int, error) {
	blockchainNonce, err := t.client.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, err
	}

	nonce := new(big.Int).SetUint64(blockchainNonce)
	if local := t.nonces[from]; local > blockchainNonce {
		nonce.SetUint64(local)
	}
	return nonce, nil
}

// Deploy submits one contract creation transaction and waits until the code is on chain
func (t *Transactor) Deploy(ctx context.Context, from *lib.Account, name string, contractABI abi.ABI, bytecode []byte, args ...interface{}) (common.Address, *types.Transaction, error) {
	tx, err := t.Send(ctx, from, "deploy "+name, func(opts *bind.TransactOpts) (*types.Transaction, error) {
		_, tx, _, err := bind.DeployContract(opts, contractABI, bytecode, t.client, args...)
		return tx, err
	})
	if err != nil {
		return common.Address{}, nil, err
	}

	addr, err := t.WaitDeployed(ctx, tx)
	if err != nil {
		return common.Address{}, tx, err
	}
	return addr, tx, nil
}
