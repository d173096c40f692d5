package test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jackprotocol/jack-staking/internal/artifacts"
	"github.com/jackprotocol/jack-staking/internal/deployer"
	"github.com/jackprotocol/jack-staking/internal/lib"
	"github.com/jackprotocol/jack-staking/internal/repositories/contracts"
	"github.com/jackprotocol/jack-staking/internal/resources/staking"
	"github.com/stretchr/testify/require"
)

// TestDeployNode deploys JackStaking with a freshly deployed JACK token as the staking token,
// then reads the contract back through the recorded address
func TestDeployNode(t *testing.T) {
	dir := requireArtifacts(t)
	url := requireNode(t)
	ctx := context.Background()
	accounts := devAccounts(t)
	owner, holder := accounts[0], accounts[1]
	log := lib.NewTestLogger()

	conn, err := contracts.Connect(ctx, liveNetwork(url), accounts)
	require.NoError(t, err)
	defer conn.Close()

	transactor := contracts.NewTransactor(conn.Client, log)
	transactor.SetLegacyTx(true)
	transactor.SetWaitTimeout(txTimeout)

	env, err := contracts.LoadEnvironment(dir, conn.Node, transactor, accounts, log)
	require.NoError(t, err)
	token, err := env.DeployToken(ctx, owner)
	require.NoError(t, err)

	artifact, err := artifacts.LoadByName(dir, contracts.StakingContractName)
	require.NoError(t, err)

	params := staking.DefaultDeployParams(token.Address(), holder.Address)
	if len(artifact.ABI.Constructor.Inputs) == len(params.Values())+1 {
		params.MinStakeAmount = lib.MustParseUnits("0.0000001", lib.EtherDecimals)
	}

	path := filepath.Join(t.TempDir(), "addresses", "localhost.json")
	res, err := deployer.NewDeployer(transactor, artifact, txTimeout, log).Deploy(ctx, owner, params, path)
	require.NoError(t, err)
	require.NoError(t, res.WriteErr)

	addr, err := deployer.ReadAddressFile(path)
	require.NoError(t, err)
	require.Equal(t, res.Address, addr)

	reader := contracts.NewStakingEthereum(addr, &artifact.ABI, transactor, log)
	total, err := reader.TotalStakers(ctx)
	require.NoError(t, err)
	require.Zero(t, total.Sign())

	lockTime, err := reader.MinStakeLockTime(ctx)
	require.NoError(t, err)
	require.EqualValues(t, staking.DefaultMinStakeLockTimeSeconds, lockTime.Int64())
}
