package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jackprotocol/jack-staking/internal/config"
	"github.com/jackprotocol/jack-staking/internal/deployer"
	"github.com/jackprotocol/jack-staking/internal/handlers/httphandlers"
	"github.com/jackprotocol/jack-staking/internal/lib"
	"github.com/jackprotocol/jack-staking/internal/networks"
	"github.com/jackprotocol/jack-staking/internal/repositories/contracts"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout   = 10 * time.Second
	readinessInterval = 5 * time.Second
)

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
	if network.Simulated {
		log.Errorf("network %s is an in-process chain, the status api needs a node", network.Name)
		return 1
	}

	stakingAddr, err := resolveStakingAddress(&cfg, network)
	if err != nil {
		log.Error(err)
		return 1
	}

	conn, err := contracts.Connect(ctx, network, nil)
	if err != nil {
		log.Error(err)
		return 1
	}
	defer conn.Close()

	transactor := contracts.NewTransactor(conn.Client, log.Named("TRANSACTOR"))
	reader := contracts.NewStakingEthereum(stakingAddr, nil, transactor, log.Named("STAKING"))
	watcher := contracts.NewLogWatcherPolling(conn.Client, nil, cfg.Blockchain.PollingInterval, cfg.Blockchain.MaxReconnects, log.Named("WATCHER"))

	metrics := httphandlers.NewMetrics()
	ready := atomic.NewBool(false)
	router := httphandlers.NewHTTPHandler(reader, &cfg, metrics, ready, log.Named("HTTP"))
	server := &http.Server{Addr: cfg.Web.Address, Handler: router}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infof("http server is listening: %s", cfg.Web.Address)
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		err := lib.Poll(gctx, cfg.Blockchain.ConfirmationTimeout, func(ctx context.Context) error {
			_, err := reader.TotalStakers(ctx)
			return err
		}, readinessInterval)
		if err != nil {
			return fmt.Errorf("staking contract %s is not reachable: %w", stakingAddr, err)
		}
		ready.Store(true)
		log.Infof("watching JackStaking at %s on %s", stakingAddr.Hex(), network.Name)
		return watcher.Watch(gctx, stakingAddr, nil, metrics.ObserveEvent)
	})

	err = g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Errorf("App exited due to %s", err)
		return 1
	}
	log.Info("App exited")
	return 0
}

// resolveStakingAddress prefers the configured address over the one recorded by the deployer
func resolveStakingAddress(cfg *config.Config, network networks.Network) (common.Address, error) {
	if cfg.Blockchain.StakingAddress != "" {
		return common.HexToAddress(cfg.Blockchain.StakingAddress), nil
	}
	path := cfg.Deploy.AddressesFile
	if path == "" {
		path = network.AddressesFile
	}
	addr, err := deployer.ReadAddressFile(path)
	if err != nil {
		return common.Address{}, fmt.Errorf("staking address is not configured and cannot be read from %s: %w", path, err)
	}
	return addr, nil
}
