package dagconfig

import (
	"testing"

	"github.com/weightdag/dagd/domain/consensus/utils/consensushashing"
)

// TestMustRegisterPanic ensures the mustRegister function panics when used to
// register an invalid network.
func TestMustRegisterPanic(t *testing.T) {
	t.Parallel()

	// Setup a defer to catch the expected panic to ensure it actually
	// paniced.
	defer func() {
		if err := recover(); err == nil {
			t.Error("mustRegister did not panic as expected")
		}
	}()

	// Intentionally try to register duplicate params to force a panic.
	mustRegister(&MainnetParams)
}

func TestDefaultNetworksAreValid(t *testing.T) {
	for _, params := range []*Params{&MainnetParams, &TestnetParams, &DevnetParams, &SimnetParams} {
		err := params.Validate()
		if err != nil {
			t.Fatalf("TestDefaultNetworksAreValid: %s", err)
		}
		if !consensushashing.BlockHash(params.GenesisBlock).Equal(params.GenesisHash) {
			t.Fatalf("TestDefaultNetworksAreValid: %s genesis hash does not match its block", params.Name)
		}
		registered, err := ParamsByName(params.Name)
		if err != nil || registered != params {
			t.Fatalf("TestDefaultNetworksAreValid: %s is not registered", params.Name)
		}
	}

	if MainnetParams.GenesisHash.Equal(TestnetParams.GenesisHash) {
		t.Fatalf("TestDefaultNetworksAreValid: networks share a genesis")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(params *Params)
	}{
		{"height deviation reaches stability", func(params *Params) { params.MaxTipHeightDeviation = params.StableHeightLimit }},
		{"no stability window", func(params *Params) { params.StableHeightLimit = 0 }},
		{"no parents", func(params *Params) { params.MaxBlockParents = 0 }},
		{"clamp too small", func(params *Params) { params.DifficultyClampPercent = 100 }},
		{"zero minimum difficulty", func(params *Params) { params.MinimumDifficulty = 0 }},
		{"side reward above 100", func(params *Params) { params.SideBlockRewardPercent = 101 }},
		{"emission shift too large", func(params *Params) { params.EmissionSpeedFactor = 64 }},
	}

	for _, test := range tests {
		params := SimnetParams
		test.mutate(&params)
		if params.Validate() == nil {
			t.Fatalf("TestValidate: %s: expected an error", test.name)
		}
	}
}

func TestParamsByNameUnknown(t *testing.T) {
	_, err := ParamsByName("nonexistent")
	if err == nil {
		t.Fatalf("TestParamsByNameUnknown: expected an error")
	}
}
