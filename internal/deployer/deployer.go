// Package deployer creates the JackStaking contract on a network and records its address
package deployer

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jackprotocol/jack-staking/internal/artifacts"
	"github.com/jackprotocol/jack-staking/internal/config"
	"github.com/jackprotocol/jack-staking/internal/interfaces"
	"github.com/jackprotocol/jack-staking/internal/lib"
	"github.com/jackprotocol/jack-staking/internal/repositories/contracts"
	"github.com/jackprotocol/jack-staking/internal/resources/staking"
)

var ErrInvalidMinStakeAmount = errors.New("invalid min stake amount")

type Result struct {
	Address       common.Address
	TxHash        common.Hash
	AddressesFile string
	WriteErr      error // address file could not be written, the contract is deployed regardless
}

type Deployer struct {
	timeout time.Duration

	transactor *contracts.Transactor
	artifact   *artifacts.Artifact
	log        interfaces.ILogger
}

func NewDeployer(transactor *contracts.Transactor, artifact *artifacts.Artifact, timeout time.Duration, log interfaces.ILogger) *Deployer {
	return &Deployer{
		timeout:    timeout,
		transactor: transactor,
		artifact:   artifact,
		log:        log,
	}
}

// Deploy submits exactly one contract creation transaction and waits until it is confirmed.
// The returned error is set only if the contract was not deployed, failure to write the
// addresses file is reported in Result.WriteErr
func (d *Deployer) Deploy(ctx context.Context, from *lib.Account, params staking.DeployParams, addressesFile string) (*Result, error) {
	if err := d.artifact.Deployable(); err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	args, err := params.Args(d.artifact.ABI.Constructor)
	if err != nil {
		return nil, err
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	d.log.Infof("deploying %s from %s with %d constructor arguments", d.artifact.Name, from.Address, len(args))

	addr, tx, err := d.transactor.Deploy(ctx, from, d.artifact.Name, d.artifact.ABI, d.artifact.Bytecode, args...)
	if err != nil {
		return nil, fmt.Errorf("deploy %s: %w", d.artifact.Name, err)
	}

	d.log.Infof("%s deployed to %s", d.artifact.Name, addr.Hex())

	res := &Result{Address: addr, TxHash: tx.Hash(), AddressesFile: addressesFile}

	if err := WriteAddressFile(addressesFile, addr); err != nil {
		d.log.Errorf("cannot write address %s to %s: %s", addr.Hex(), addressesFile, err)
		res.WriteErr = err
		return res, nil
	}
	d.log.Infof("writing to %s", addressesFile)

	return res, nil
}

// ParamsFromConfig builds the positional constructor parameters, MinStakeAmount is passed only if set
func ParamsFromConfig(cfg *config.Config) (staking.DeployParams, error) {
	params := staking.DeployParams{
		TimeUnit:               big.NewInt(int64(cfg.Deploy.TimeUnit / time.Second)),
		RewardRatioNumerator:   big.NewInt(cfg.Deploy.RewardRatioNumerator),
		RewardRatioDenominator: big.NewInt(cfg.Deploy.RewardRatioDenominator),
		StakingToken:           common.HexToAddress(cfg.Deploy.StakingToken),
		RewardTokenHolder:      common.HexToAddress(cfg.Deploy.RewardTokenHolder),
		NativeTokenWrapper:     common.HexToAddress(cfg.Deploy.NativeTokenWrapper),
		MinStakeLockTime:       big.NewInt(int64(cfg.Deploy.MinStakeLockTime / time.Second)),
	}

	if cfg.Deploy.MinStakeAmount != "" {
		amount, ok := new(big.Int).SetString(cfg.Deploy.MinStakeAmount, 10)
		if !ok {
			return staking.DeployParams{}, fmt.Errorf("%w: %s", ErrInvalidMinStakeAmount, cfg.Deploy.MinStakeAmount)
		}
		params.MinStakeAmount = amount
	}

	return params, nil
}
