package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackprotocol/jack-staking/internal/artifacts"
	"github.com/jackprotocol/jack-staking/internal/config"
	"github.com/jackprotocol/jack-staking/internal/deployer"
	"github.com/jackprotocol/jack-staking/internal/lib"
	"github.com/jackprotocol/jack-staking/internal/networks"
	"github.com/jackprotocol/jack-staking/internal/repositories/contracts"
)

// Deploys JackStaking to the configured network:
//
//	deploy -network localhost
//	deploy -network hardhat -staking-min-stake-amount 100000000000
func main() {
	os.Exit(run())
}

func run() int {
	var cfg config.Config
	err := config.LoadConfig(&cfg, &os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	log, err := lib.NewLogger(lib.LogOptions{
		Level:    cfg.Log.Level,
		Color:    cfg.Log.Color,
		IsProd:   cfg.Log.IsProd,
		JSON:     cfg.Log.JSON,
		FilePath: cfg.Log.FilePath,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Debugf("config: %+v", cfg.GetSanitized())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-shutdownChan
		log.Warnf("Received signal: %s", s)
		cancel()

		s = <-shutdownChan
		log.Warnf("Received signal: %s. Forcing exit...", s)
		os.Exit(1)
	}()

	registry, err := networks.Load(cfg.Blockchain.NetworksFile)
	if err != nil {
		log.Error(err)
		return 1
	}
	network, err := registry.Resolve(cfg.Blockchain.Network)
	if err != nil {
		log.Error(err)
		return 1
	}
	if cfg.Blockchain.EthNodeAddress != "" {
		network.URL = cfg.Blockchain.EthNodeAddress
		network.Simulated = false
	}

	account, err := lib.LoadAccount(cfg.Wallet.Mnemonic, cfg.Wallet.AccountIndex, cfg.Wallet.PrivateKey)
	if err != nil {
		log.Error(err)
		return 1
	}

	artifact, err := artifacts.LoadByName(cfg.Deploy.ArtifactsDir, contracts.StakingContractName)
	if err != nil {
		log.Error(err)
		return 1
	}

	params, err := deployer.ParamsFromConfig(&cfg)
	if err != nil {
		log.Error(err)
		return 1
	}

	conn, err := contracts.Connect(ctx, network, []*lib.Account{account})
	if err != nil {
		log.Error(err)
		return 1
	}
	defer conn.Close()

	transactor := contracts.NewTransactor(conn.Client, log.Named("TRANSACTOR"))
	transactor.SetLegacyTx(cfg.Blockchain.EthLegacyTx || network.LegacyTx)
	transactor.SetWaitTimeout(cfg.Blockchain.ConfirmationTimeout)

	addressesFile := cfg.Deploy.AddressesFile
	if addressesFile == "" {
		addressesFile = network.AddressesFile
	}

	log.Infof("deploying to network %s", network.Name)

	d := deployer.NewDeployer(transactor, artifact, cfg.Blockchain.ConfirmationTimeout, log)
	res, err := d.Deploy(ctx, account, params, addressesFile)
	if err != nil {
		log.Errorf("deployment failed: %s", err)
		return 1
	}

	// a failed address write is already logged with the address and does not fail the run
	log.Infow("done", "address", res.Address.Hex(), "tx", res.TxHash.Hex(), "addressesFile", res.AddressesFile)
	return 0
}
