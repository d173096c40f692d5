package test

import (
	"testing"

	"github.com/jackprotocol/jack-staking/internal/resources/staking"
	"github.com/jackprotocol/jack-staking/internal/stakingsuite"
	"github.com/stretchr/testify/suite"
)

func TestJackStakingSimulatedBackend(t *testing.T) {
	dir := requireArtifacts(t)
	accounts := devAccounts(t)

	suite.Run(t, stakingsuite.New(func() (staking.Environment, func(), error) {
		return makeEnvironment(simulatedNetwork(), dir, accounts)
	}))
}

func TestJackStakingNode(t *testing.T) {
	dir := requireArtifacts(t)
	url := requireNode(t)
	accounts := devAccounts(t)

	suite.Run(t, stakingsuite.New(func() (staking.Environment, func(), error) {
		return makeEnvironment(liveNetwork(url), dir, accounts)
	}))
}
