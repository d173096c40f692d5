package test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackprotocol/jack-staking/internal/lib"
	"github.com/jackprotocol/jack-staking/internal/networks"
	"github.com/jackprotocol/jack-staking/internal/repositories/contracts"
	"github.com/jackprotocol/jack-staking/internal/resources/staking"
	"github.com/stretchr/testify/require"
)

// These tests require compiled contracts ("npx hardhat compile" or "forge build"), pointed to by
// STAKING_TEST_ARTIFACTS_DIR. Tests against a node additionally require a development node
// ("npx hardhat node" or "anvil") at STAKING_TEST_ETH_NODE_ADDRESS, e.g. http://127.0.0.1:8545

var LocalNodeConfig = struct {
	ETH_NODE_ADDR string
	ARTIFACTS_DIR string
}{
	ETH_NODE_ADDR: os.Getenv("STAKING_TEST_ETH_NODE_ADDRESS"),
	ARTIFACTS_DIR: os.Getenv("STAKING_TEST_ARTIFACTS_DIR"),
}

const txTimeout = 30 * time.Second

func requireArtifacts(t *testing.T) string {
	if LocalNodeConfig.ARTIFACTS_DIR == "" {
		t.Skip("STAKING_TEST_ARTIFACTS_DIR is not set")
	}
	return LocalNodeConfig.ARTIFACTS_DIR
}

func requireNode(t *testing.T) string {
	if LocalNodeConfig.ETH_NODE_ADDR == "" {
		t.Skip("STAKING_TEST_ETH_NODE_ADDRESS is not set")
	}
	return LocalNodeConfig.ETH_NODE_ADDR
}

func devAccounts(t *testing.T) []*lib.Account {
	accounts, err := lib.DeriveAccounts(lib.DevMnemonic, 0, 2)
	require.NoError(t, err)
	return accounts
}

// makeEnvironment returns an environment deploying the compiled artifacts to network
func makeEnvironment(network networks.Network, artifactsDir string, accounts []*lib.Account) (staking.Environment, func(), error) {
	log := lib.NewTestLogger()

	conn, err := contracts.Connect(context.Background(), network, accounts)
	if err != nil {
		return nil, nil, err
	}

	transactor := contracts.NewTransactor(conn.Client, log.Named("TRANSACTOR"))
	transactor.SetWaitTimeout(txTimeout)
	transactor.SetLegacyTx(network.LegacyTx)

	env, err := contracts.LoadEnvironment(artifactsDir, conn.Node, transactor, accounts, log)
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	return env, conn.Close, nil
}

func liveNetwork(url string) networks.Network {
	return networks.Network{Name: "test", URL: url, LegacyTx: true, AddressesFile: networks.DefaultAddressesFile("test")}
}

func simulatedNetwork() networks.Network {
	network, err := networks.Defaults().Resolve(networks.Hardhat)
	if err != nil {
		panic(err)
	}
	return network
}
