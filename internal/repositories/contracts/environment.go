package contracts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackprotocol/jack-staking/internal/artifacts"
	"github.com/jackprotocol/jack-staking/internal/interfaces"
	"github.com/jackprotocol/jack-staking/internal/lib"
	"github.com/jackprotocol/jack-staking/internal/resources/staking"
)

const (
	TokenContractName   = "JACK"
	StakingContractName = "JackStaking"
)

// Environment runs against an EVM chain, contracts are created from compiled artifacts
type Environment struct {
	node       DevNode
	transactor *Transactor
	accounts   []*lib.Account

	tokenArtifact   *artifacts.Artifact
	stakingArtifact *artifacts.Artifact

	log interfaces.ILogger
}

var _ staking.Environment = (*Environment)(nil)

func NewEnvironment(node DevNode, transactor *Transactor, accounts []*lib.Account, tokenArtifact, stakingArtifact *artifacts.Artifact, log interfaces.ILogger) *Environment {
	return &Environment{
		node:            node,
		transactor:      transactor,
		accounts:        accounts,
		tokenArtifact:   tokenArtifact,
		stakingArtifact: stakingArtifact,
		log:             log,
	}
}

// LoadEnvironment finds the JACK and JackStaking artifacts under artifactsDir
func LoadEnvironment(artifactsDir string, node DevNode, transactor *Transactor, accounts []*lib.Account, log interfaces.ILogger) (*Environment, error) {
	tokenArtifact, err := artifacts.LoadByName(artifactsDir, TokenContractName)
	if err != nil {
		return nil, err
	}
	stakingArtifact, err := artifacts.LoadByName(artifactsDir, StakingContractName)
	if err != nil {
		return nil, err
	}
	for _, a := range []*artifacts.Artifact{tokenArtifact, stakingArtifact} {
		if err := a.Deployable(); err != nil {
			return nil, err
		}
	}
	return NewEnvironment(node, transactor, accounts, tokenArtifact, stakingArtifact, log), nil
}

func (e *Environment) Signers(ctx context.Context) ([]*lib.Account, error) {
	if len(e.accounts) == 0 {
		return nil, lib.ErrNoKeyMaterial
	}
	return append([]*lib.Account(nil), e.accounts...), nil
}

func (e *Environment) DeployToken(ctx context.Context, deployer *lib.Account) (staking.TokenContract, error) {
	addr, _, err := e.transactor.Deploy(ctx, deployer, TokenContractName, e.tokenArtifact.ABI, e.tokenArtifact.Bytecode)
	if err != nil {
		return nil, err
	}
	e.log.Debugf("%s deployed to %s", TokenContractName, addr)

	tokenABI := e.tokenArtifact.ABI
	return NewTokenEthereum(addr, &tokenABI, e.transactor), nil
}

func (e *Environment) DeployStaking(ctx context.Context, deployer *lib.Account, params staking.DeployParams) (staking.StakingContract, error) {
	args, err := params.Args(e.stakingArtifact.ABI.Constructor)
	if err != nil {
		return nil, err
	}

	addr, _, err := e.transactor.Deploy(ctx, deployer, StakingContractName, e.stakingArtifact.ABI, e.stakingArtifact.Bytecode, args...)
	if err != nil {
		return nil, err
	}
	e.log.Debugf("%s deployed to %s", StakingContractName, addr)

	stakingABI := e.stakingArtifact.ABI
	return NewStakingEthereum(addr, &stakingABI, e.transactor, e.log), nil
}

func (e *Environment) IncreaseTo(ctx context.Context, t time.Time) error {
	return e.node.IncreaseTo(ctx, t)
}

func (e *Environment) LatestTime(ctx context.Context) (time.Time, error) {
	return e.node.LatestTime(ctx)
}

func (e *Environment) Snapshot(ctx context.Context) (string, error) {
	id, err := e.node.Snapshot(ctx)
	if errors.Is(err, ErrDevRPCUnsupported) {
		return "", lib.WrapError(staking.ErrSnapshotUnsupported, err)
	}
	return id, err
}

// Revert restores the snapshot and forgets locally tracked nonces, which are ahead of the reverted chain
func (e *Environment) Revert(ctx context.Context, id string) error {
	if err := e.node.Revert(ctx, id); err != nil {
		return fmt.Errorf("revert to %s: %w", id, err)
	}
	e.transactor.ResetNonces()
	return nil
}
