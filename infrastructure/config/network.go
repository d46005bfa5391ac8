package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	"github.com/weightdag/dagd/domain/dagconfig"
)

// NetworkFlags holds the network configuration, that is which network is selected.
type NetworkFlags struct {
	Testnet               bool   `long:"testnet" description:"Use the test network"`
	Simnet                bool   `long:"simnet" description:"Use the simulation test network"`
	Devnet                bool   `long:"devnet" description:"Use the development test network"`
	OverrideDAGParamsFile string `long:"override-dag-params-file" description:"Overrides DAG params (allowed only on devnet)"`

	ActiveNetParams *dagconfig.Params
}

type overrideDAGParamsConfig struct {
	StableHeightLimit                *uint64 `json:"stableHeightLimit"`
	TargetTimePerBlockInMilliSeconds *int64  `json:"targetTimePerBlockInMilliSeconds"`
	MaxTipDeviationPercent           *uint64 `json:"maxTipDeviationPercent"`
	SideBlockRewardPercent           *uint64 `json:"sideBlockRewardPercent"`
	SideBlockLookback                *uint64 `json:"sideBlockLookback"`
	MaxBlockParents                  *int    `json:"maxBlockParents"`
	MaxTipHeightDeviation            *uint64 `json:"maxTipHeightDeviation"`
	MinimumDifficulty                *uint64 `json:"minimumDifficulty"`
	DifficultyWindowSize             *int    `json:"difficultyWindowSize"`
	DifficultyClampPercent           *uint64 `json:"difficultyClampPercent"`
	EnforceDifficulty                *bool   `json:"enforceDifficulty"`
}

// ResolveNetwork parses the network command line argument and sets
// ActiveNetParams to a private copy of the selected network's parameters.
// It returns an error if more than one network was selected.
func (networkFlags *NetworkFlags) ResolveNetwork(parser *flags.Parser) error {
	// Default is mainnet
	params := dagconfig.MainnetParams
	numNets := 0
	if networkFlags.Testnet {
		numNets++
		params = dagconfig.TestnetParams
	}
	if networkFlags.Simnet {
		numNets++
		params = dagconfig.SimnetParams
	}
	if networkFlags.Devnet {
		numNets++
		params = dagconfig.DevnetParams
	}
	if numNets > 1 {
		return errors.New("multiple network parameters (testnet, simnet, devnet) cannot be used " +
			"together. Please choose only one network")
	}
	networkFlags.ActiveNetParams = &params

	err := networkFlags.overrideDAGParams()
	if err != nil {
		return err
	}
	return networkFlags.ActiveNetParams.Validate()
}

// NetParams returns the ActiveNetParams
func (networkFlags *NetworkFlags) NetParams() *dagconfig.Params {
	return networkFlags.ActiveNetParams
}

func (networkFlags *NetworkFlags) overrideDAGParams() error {
	if networkFlags.OverrideDAGParamsFile == "" {
		return nil
	}

	if !networkFlags.Devnet {
		return errors.Errorf("override-dag-params-file is allowed only when using devnet")
	}

	overrideDAGParamsFile, err := os.Open(networkFlags.OverrideDAGParamsFile)
	if err != nil {
		return errors.WithStack(err)
	}
	defer overrideDAGParamsFile.Close()

	decoder := json.NewDecoder(overrideDAGParamsFile)
	decoder.DisallowUnknownFields()
	config := &overrideDAGParamsConfig{}
	err = decoder.Decode(config)
	if err != nil {
		return errors.Wrapf(err, "error parsing %s", networkFlags.OverrideDAGParamsFile)
	}

	params := networkFlags.ActiveNetParams
	if config.StableHeightLimit != nil {
		params.StableHeightLimit = *config.StableHeightLimit
	}
	if config.TargetTimePerBlockInMilliSeconds != nil {
		params.TargetTimePerBlock = time.Duration(*config.TargetTimePerBlockInMilliSeconds) * time.Millisecond
	}
	if config.MaxTipDeviationPercent != nil {
		params.MaxTipDeviationPercent = *config.MaxTipDeviationPercent
	}
	if config.SideBlockRewardPercent != nil {
		params.SideBlockRewardPercent = *config.SideBlockRewardPercent
	}
	if config.SideBlockLookback != nil {
		params.SideBlockLookback = *config.SideBlockLookback
	}
	if config.MaxBlockParents != nil {
		params.MaxBlockParents = *config.MaxBlockParents
	}
	if config.MaxTipHeightDeviation != nil {
		params.MaxTipHeightDeviation = *config.MaxTipHeightDeviation
	}
	if config.MinimumDifficulty != nil {
		params.MinimumDifficulty = *config.MinimumDifficulty
	}
	if config.DifficultyWindowSize != nil {
		params.DifficultyWindowSize = *config.DifficultyWindowSize
	}
	if config.DifficultyClampPercent != nil {
		params.DifficultyClampPercent = *config.DifficultyClampPercent
	}
	if config.EnforceDifficulty != nil {
		params.EnforceDifficulty = *config.EnforceDifficulty
	}
	return nil
}
