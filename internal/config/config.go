package config

import (
	"strings"
	"time"

	"github.com/jackprotocol/jack-staking/internal/lib"
	"github.com/jackprotocol/jack-staking/internal/resources/staking"
)

// Validation tags described here: https://pkg.go.dev/github.com/go-playground/validator/v10
type Config struct {
	Blockchain struct {
		Network             string        `env:"NETWORK"               flag:"network"               desc:"named network from the networks file, e.g. localhost or hardhat"`
		NetworksFile        string        `env:"NETWORKS_FILE"         flag:"networks-file"         desc:"yaml file with additional networks"`
		EthNodeAddress      string        `env:"ETH_NODE_ADDRESS"      flag:"eth-node-address"      validate:"omitempty,url" desc:"overrides the network url"`
		EthLegacyTx         bool          `env:"ETH_NODE_LEGACY_TX"    flag:"eth-node-legacy-tx"    desc:"use it to disable EIP-1559 transactions"`
		ConfirmationTimeout time.Duration `env:"ETH_CONFIRM_TIMEOUT"   flag:"eth-confirm-timeout"   desc:"time to wait for a transaction to be mined"`
		PollingInterval     time.Duration `env:"ETH_POLLING_INTERVAL"  flag:"eth-polling-interval"  desc:"interval between polling for contract events"`
		MaxReconnects       int           `env:"ETH_MAX_RECONNECTS"    flag:"eth-max-reconnects"    validate:"omitempty,number" desc:"maximum number of consecutive failed polls"`
		StakingAddress      string        `env:"STAKING_ADDRESS"       flag:"staking-address"       validate:"omitempty,eth_addr" desc:"deployed JackStaking, falls back to the addresses file"`
	}
	Wallet struct {
		Mnemonic     string `env:"WALLET_MNEMONIC"      flag:"wallet-mnemonic"      validate:"required_without=PrivateKey"`
		AccountIndex int    `env:"WALLET_ACCOUNT_INDEX" flag:"wallet-account-index" validate:"gte=0"`
		PrivateKey   string `env:"WALLET_PRIVATE_KEY"   flag:"wallet-private-key"   validate:"required_without=Mnemonic"`
	}
	Deploy struct {
		ArtifactsDir           string        `env:"ARTIFACTS_DIR"             flag:"artifacts-dir"             validate:"required" desc:"directory with compiled Hardhat or Foundry artifacts"`
		AddressesFile          string        `env:"ADDRESSES_FILE"            flag:"addresses-file"            desc:"output file, defaults to the network's addresses file"`
		TimeUnit               time.Duration `env:"STAKING_TIME_UNIT"         flag:"staking-time-unit"        `
		RewardRatioNumerator   int64         `env:"STAKING_REWARD_NUMERATOR"  flag:"staking-reward-numerator"  validate:"gte=0"`
		RewardRatioDenominator int64         `env:"STAKING_REWARD_DENOMINATOR" flag:"staking-reward-denominator" validate:"gte=0"`
		StakingToken           string        `env:"STAKING_TOKEN"             flag:"staking-token"             validate:"omitempty,eth_addr"`
		RewardTokenHolder      string        `env:"STAKING_REWARD_HOLDER"     flag:"staking-reward-holder"     validate:"omitempty,eth_addr"`
		NativeTokenWrapper     string        `env:"STAKING_NATIVE_WRAPPER"    flag:"staking-native-wrapper"    validate:"omitempty,eth_addr"`
		MinStakeLockTime       time.Duration `env:"STAKING_MIN_LOCK_TIME"     flag:"staking-min-lock-time"    `
		MinStakeAmount         string        `env:"STAKING_MIN_STAKE_AMOUNT"  flag:"staking-min-stake-amount"  validate:"omitempty,numeric" desc:"only passed when the constructor takes it, in token base units"`
	}
	Log struct {
		Color    bool   `env:"LOG_COLOR"     flag:"log-color"`
		FilePath string `env:"LOG_FILE_PATH" flag:"log-file-path" desc:"enables file logging"`
		IsProd   bool   `env:"LOG_IS_PROD"   flag:"log-is-prod"   desc:"affects the format of the log output"`
		JSON     bool   `env:"LOG_JSON"      flag:"log-json"`
		Level    string `env:"LOG_LEVEL"     flag:"log-level"     validate:"omitempty,oneof=debug info warn error dpanic panic fatal"`
	}
	Web struct {
		Address string `env:"WEB_ADDRESS" flag:"web-address" validate:"omitempty,hostname_port" desc:"status api address host:port"`
	}
}

// Values from the original deployment script
const (
	DefaultStakingToken      = "0x0C06C8d3720de21F0dd1D6DEF2f6f8dcB2CFE0BE"
	DefaultRewardTokenHolder = "0xe1decF69818671FaD8084CB966F9730014A93273"
)

func (cfg *Config) SetDefaults() {
	// Blockchain
	if cfg.Blockchain.Network == "" {
		cfg.Blockchain.Network = "localhost"
	}
	if cfg.Blockchain.NetworksFile == "" {
		cfg.Blockchain.NetworksFile = "networks.yaml"
	}
	if cfg.Blockchain.ConfirmationTimeout == 0 {
		cfg.Blockchain.ConfirmationTimeout = 1 * time.Minute
	}
	if cfg.Blockchain.PollingInterval == 0 {
		cfg.Blockchain.PollingInterval = 10 * time.Second
	}
	if cfg.Blockchain.MaxReconnects == 0 {
		cfg.Blockchain.MaxReconnects = 30
	}

	// Wallet

	// normalizes private key
	cfg.Wallet.PrivateKey = strings.TrimPrefix(cfg.Wallet.PrivateKey, "0x")
	if cfg.Wallet.PrivateKey == "" && cfg.Wallet.Mnemonic == "" {
		cfg.Wallet.Mnemonic = lib.DevMnemonic
	}

	// Deploy
	if cfg.Deploy.ArtifactsDir == "" {
		cfg.Deploy.ArtifactsDir = "./artifacts"
	}
	if cfg.Deploy.TimeUnit == 0 {
		cfg.Deploy.TimeUnit = staking.DefaultTimeUnitSeconds * time.Second
	}
	if cfg.Deploy.RewardRatioNumerator == 0 {
		cfg.Deploy.RewardRatioNumerator = staking.DefaultRewardRatioNumerator
	}
	if cfg.Deploy.RewardRatioDenominator == 0 {
		cfg.Deploy.RewardRatioDenominator = staking.DefaultRewardRatioDenominator
	}
	if cfg.Deploy.StakingToken == "" {
		cfg.Deploy.StakingToken = DefaultStakingToken
	}
	if cfg.Deploy.RewardTokenHolder == "" {
		cfg.Deploy.RewardTokenHolder = DefaultRewardTokenHolder
	}
	if cfg.Deploy.NativeTokenWrapper == "" {
		cfg.Deploy.NativeTokenWrapper = staking.NativeTokenSentinel.Hex()
	}
	if cfg.Deploy.MinStakeLockTime == 0 {
		cfg.Deploy.MinStakeLockTime = staking.DefaultMinStakeLockTimeSeconds * time.Second
	}

	// Log
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	// Web
	if cfg.Web.Address == "" {
		cfg.Web.Address = "0.0.0.0:8080"
	}
}

// GetSanitized returns a copy of the config with sensitive data removed
// explicitly adding each field here to avoid accidentally leaking sensitive data
func (cfg *Config) GetSanitized() interface{} {
	publicCfg := Config{}

	publicCfg.Blockchain.Network = cfg.Blockchain.Network
	publicCfg.Blockchain.NetworksFile = cfg.Blockchain.NetworksFile
	publicCfg.Blockchain.EthLegacyTx = cfg.Blockchain.EthLegacyTx
	publicCfg.Blockchain.ConfirmationTimeout = cfg.Blockchain.ConfirmationTimeout
	publicCfg.Blockchain.PollingInterval = cfg.Blockchain.PollingInterval
	publicCfg.Blockchain.MaxReconnects = cfg.Blockchain.MaxReconnects
	publicCfg.Blockchain.StakingAddress = cfg.Blockchain.StakingAddress

	publicCfg.Wallet.AccountIndex = cfg.Wallet.AccountIndex

	publicCfg.Deploy = cfg.Deploy

	publicCfg.Log = cfg.Log

	publicCfg.Web.Address = cfg.Web.Address

	return publicCfg
}
