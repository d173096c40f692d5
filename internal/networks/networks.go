// Package networks resolves named deployment targets, the way a task runner's --network flag does
package networks

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/jackprotocol/jack-staking/internal/lib"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

const (
	Localhost = "localhost"
	Hardhat   = "hardhat"

	DefaultAddressesDir = "./addresses"
)

var (
	ErrUnknownNetwork = errors.New("unknown network")
	ErrInvalidFile    = errors.New("invalid networks file")
)

type Network struct {
	Name          string `yaml:"-"`
	URL           string `yaml:"url"           validate:"required_unless=Simulated true,omitempty,url"`
	ChainID       uint64 `yaml:"chainId"`
	LegacyTx      bool   `yaml:"legacyTx"`
	Simulated     bool   `yaml:"simulated"` // in-process chain discarded on exit
	AddressesFile string `yaml:"addressesFile"`
}

type file struct {
	Networks map[string]Network `yaml:"networks"`
}

type Registry struct {
	networks map[string]Network
}

// Defaults has a local development node and an in-process chain
func Defaults() *Registry {
	return &Registry{networks: map[string]Network{
		Localhost: {
			Name:    Localhost,
			URL:     "http://127.0.0.1:8545",
			ChainID: 31337,
		},
		Hardhat: {
			Name:      Hardhat,
			ChainID:   1337,
			Simulated: true,
		},
	}}
}

// Load reads a YAML networks file on top of the defaults. A missing file is not an error
func Load(path string) (*Registry, error) {
	reg := Defaults()
	if path == "" {
		return reg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return reg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := reg.Parse(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}

func (r *Registry) Parse(data []byte) error {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return lib.WrapError(ErrInvalidFile, err)
	}

	validate := validator.New()
	for name, network := range f.Networks {
		network.Name = name
		if err := validate.Struct(network); err != nil {
			return lib.WrapError(ErrInvalidFile, fmt.Errorf("network %s: %w", name, err))
		}
		r.networks[name] = network
	}
	return nil
}

func (r *Registry) Resolve(name string) (Network, error) {
	network, ok := r.networks[name]
	if !ok {
		return Network{}, fmt.Errorf("%w: %s, known networks: %v", ErrUnknownNetwork, name, r.Names())
	}
	if network.AddressesFile == "" {
		network.AddressesFile = DefaultAddressesFile(name)
	}
	return network, nil
}

func (r *Registry) Names() []string {
	names := maps.Keys(r.networks)
	slices.Sort(names)
	return names
}

// DefaultAddressesFile is ./addresses/<network>.json
func DefaultAddressesFile(name string) string {
	return filepath.Join(DefaultAddressesDir, name+".json")
}
