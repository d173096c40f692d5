// Package artifacts loads compiled contract artifacts produced by Hardhat
// (artifacts/contracts/<Source>.sol/<Name>.json) or Foundry (out/<Source>.sol/<Name>.json).
package artifacts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var (
	ErrArtifactNotFound = errors.New("artifact not found")
	ErrNoBytecode       = errors.New("artifact has no bytecode")
	ErrUnlinked         = errors.New("bytecode has unlinked library references")
	ErrInvalidArtifact  = errors.New("invalid artifact")
)

type Artifact struct {
	Name       string
	SourceName string
	ABI        abi.ABI
	Bytecode   []byte // creation code, empty for interfaces
	Path       string
}

// Deployable returns an error if the artifact cannot be used to create a contract
func (a *Artifact) Deployable() error {
	if len(a.Bytecode) == 0 {
		return fmt.Errorf("%w: %s", ErrNoBytecode, a.Name)
	}
	return nil
}

type rawArtifact struct {
	ContractName string          `json:"contractName"`
	SourceName   string          `json:"sourceName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     json.RawMessage `json:"bytecode"`
}

type foundryBytecode struct {
	Object string `json:"object"`
}

func Load(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	a, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, path)
	}
	if a.Name == "" {
		a.Name = strings.TrimSuffix(filepath.Base(path), ".json")
	}
	a.Path = path
	return a, nil
}

// Parse decodes either artifact format, the bytecode is a hex string for Hardhat and an object for Foundry
func Parse(data []byte) (*Artifact, error) {
	var raw rawArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidArtifact, err)
	}
	if len(raw.ABI) == 0 {
		return nil, fmt.Errorf("%w: missing abi", ErrInvalidArtifact)
	}

	parsedABI, err := abi.JSON(bytes.NewReader(raw.ABI))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidArtifact, err)
	}

	code, err := decodeBytecode(raw.Bytecode)
	if err != nil {
		return nil, err
	}

	return &Artifact{
		Name:       raw.ContractName,
		SourceName: raw.SourceName,
		ABI:        parsedABI,
		Bytecode:   code,
	}, nil
}

func decodeBytecode(raw json.RawMessage) ([]byte, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var hexCode string
	if raw[0] == '{' {
		var fb foundryBytecode
		if err := json.Unmarshal(raw, &fb); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidArtifact, err)
		}
		hexCode = fb.Object
	} else if err := json.Unmarshal(raw, &hexCode); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidArtifact, err)
	}

	if hexCode == "" || hexCode == "0x" {
		return nil, nil
	}
	if !strings.HasPrefix(hexCode, "0x") {
		hexCode = "0x" + hexCode
	}
	if strings.Contains(hexCode, "__") {
		return nil, ErrUnlinked
	}

	code, err := hexutil.Decode(hexCode)
	if err != nil {
		return nil, fmt.Errorf("%w: bytecode: %s", ErrInvalidArtifact, err)
	}
	return code, nil
}

// Find looks up <dir>/**/<Source>.sol/<contractName>.json, skipping build-info and debug files.
// When several sources declare the same contract name the lexically first path wins
func Find(dir string, contractName string) (string, error) {
	fileName := contractName + ".json"
	var found string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "build-info" || d.Name() == "node_modules" {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() != fileName || !strings.HasSuffix(filepath.Dir(path), ".sol") {
			return nil
		}
		found = path
		return filepath.SkipAll
	})
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", fmt.Errorf("%w: %s in %s", ErrArtifactNotFound, contractName, dir)
	}
	return found, nil
}

// LoadByName finds and loads the artifact of contractName under dir
func LoadByName(dir string, contractName string) (*Artifact, error) {
	path, err := Find(dir, contractName)
	if err != nil {
		return nil, err
	}
	return Load(path)
}
