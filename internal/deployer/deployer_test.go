package deployer

import (
	"bytes"
	"context"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/jackprotocol/jack-staking/internal/artifacts"
	"github.com/jackprotocol/jack-staking/internal/config"
	"github.com/jackprotocol/jack-staking/internal/lib"
	"github.com/jackprotocol/jack-staking/internal/repositories/contracts"
	"github.com/jackprotocol/jack-staking/internal/resources/staking"
	"github.com/stretchr/testify/require"
)

// stubInitCode deploys a contract whose runtime code is a single STOP, constructor arguments are ignored
var stubInitCode = hexutil.MustDecode("0x6001600c60003960016000f300")

type fixture struct {
	deployer *Deployer
	account  *lib.Account
	logs     *bytes.Buffer
	params   staking.DeployParams
}

func newFixture(t *testing.T) *fixture {
	accounts, err := lib.DeriveAccounts(lib.DevMnemonic, 0, 2)
	require.NoError(t, err)

	client := contracts.NewSimulatedClient(accounts)
	t.Cleanup(func() { _ = client.Close() })

	logs := &bytes.Buffer{}
	log, err := lib.NewLoggerMemory(lib.LogOptions{Level: "info"}, logs)
	require.NoError(t, err)

	stakingABI, err := contracts.JackStakingMetaData.GetAbi()
	require.NoError(t, err)
	artifact := &artifacts.Artifact{Name: contracts.StakingContractName, ABI: *stakingABI, Bytecode: stubInitCode}

	params := staking.DefaultDeployParams(accounts[1].Address, accounts[1].Address)
	params.MinStakeAmount = big.NewInt(100_000_000_000)

	return &fixture{
		deployer: NewDeployer(contracts.NewTransactor(client, log), artifact, 10*time.Second, log),
		account:  accounts[0],
		logs:     logs,
		params:   params,
	}
}

func TestDeployWritesAddressFile(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(t.TempDir(), "addresses", "hardhat.json")

	res, err := f.deployer.Deploy(context.Background(), f.account, f.params, path)
	require.NoError(t, err)
	require.NoError(t, res.WriteErr)
	require.Equal(t, crypto.CreateAddress(f.account.Address, 0), res.Address)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.JSONEq(t, `{"address":"`+res.Address.Hex()+`"}`, string(data))

	addr, err := ReadAddressFile(path)
	require.NoError(t, err)
	require.Equal(t, res.Address, addr)

	require.Contains(t, f.logs.String(), "JackStaking deployed to "+res.Address.Hex())
}

func TestDeployWriteFailureKeepsDeployment(t *testing.T) {
	f := newFixture(t)
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	res, err := f.deployer.Deploy(context.Background(), f.account, f.params, filepath.Join(blocker, "localhost.json"))
	require.NoError(t, err)
	require.Error(t, res.WriteErr)
	require.Equal(t, crypto.CreateAddress(f.account.Address, 0), res.Address)
	require.Contains(t, f.logs.String(), res.Address.Hex())
}

func TestDeployRejectsConstructorMismatch(t *testing.T) {
	f := newFixture(t)
	f.params.MinStakeAmount = nil

	_, err := f.deployer.Deploy(context.Background(), f.account, f.params, filepath.Join(t.TempDir(), "a.json"))
	require.ErrorIs(t, err, staking.ErrConstructorMismatch)
}

func TestDeployRejectsInvalidParams(t *testing.T) {
	f := newFixture(t)
	f.params.RewardRatioDenominator = big.NewInt(0)

	_, err := f.deployer.Deploy(context.Background(), f.account, f.params, filepath.Join(t.TempDir(), "a.json"))
	require.ErrorIs(t, err, staking.ErrInvalidParams)
}

func TestReadAddressFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"address":"nope"}`), 0o600))

	_, err := ReadAddressFile(path)
	require.ErrorIs(t, err, ErrInvalidAddressFile)

	_, err = ReadAddressFile(filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestParamsFromConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.SetDefaults()

	params, err := ParamsFromConfig(cfg)
	require.NoError(t, err)
	require.Equal(t, []interface{}{
		big.NewInt(3600),
		big.NewInt(1),
		big.NewInt(20),
		params.StakingToken,
		params.RewardTokenHolder,
		staking.NativeTokenSentinel,
		big.NewInt(300),
	}, params.Values())
	require.Equal(t, common.HexToAddress(config.DefaultStakingToken), params.StakingToken)
	require.Equal(t, common.HexToAddress(config.DefaultRewardTokenHolder), params.RewardTokenHolder)

	cfg.Deploy.MinStakeAmount = "100000000000"
	params, err = ParamsFromConfig(cfg)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(100_000_000_000), params.MinStakeAmount)

	cfg.Deploy.MinStakeAmount = "1e11"
	_, err = ParamsFromConfig(cfg)
	require.ErrorIs(t, err, ErrInvalidMinStakeAmount)
}
