package consensus

import (
	"testing"

	"github.com/weightdag/dagd/domain/dagconfig"
)

func TestNewConsensusReopensExistingDAG(t *testing.T) {
	params := dagconfig.SimnetParams
	db := newTestDatabase(t)

	tc := NewTestConsensusWithDatabase(t, &params, db)
	tip := addChain(t, tc, params.GenesisHash, 3, 10)
	tc.Close()

	reopened, err := NewFactory().NewConsensus(&params, db, nil)
	if err != nil {
		t.Fatalf("TestNewConsensusReopensExistingDAG: %+v", err)
	}
	defer reopened.Close()

	tips, err := reopened.GetTips()
	if err != nil || len(tips) != 1 || !tips[0].Equal(tip) {
		t.Fatalf("TestNewConsensusReopensExistingDAG: unexpected tips after reopening (%v, %v)", tips, err)
	}
	state, err := reopened.GetDAGState()
	if err != nil || state.TopHeight != 3 || state.TopTopoHeight != 3 {
		t.Fatalf("TestNewConsensusReopensExistingDAG: unexpected state after reopening (%v, %v)", state, err)
	}
}

func TestNewConsensusRejectsOtherNetwork(t *testing.T) {
	simnetParams := dagconfig.SimnetParams
	devnetParams := dagconfig.DevnetParams
	db := newTestDatabase(t)

	tc := NewTestConsensusWithDatabase(t, &simnetParams, db)
	tc.Close()

	_, err := NewFactory().NewConsensus(&devnetParams, db, nil)
	if err == nil {
		t.Fatalf("TestNewConsensusRejectsOtherNetwork: expected an error when opening a simnet " +
			"database with devnet parameters")
	}
}

func TestNewConsensusRejectsInvalidParams(t *testing.T) {
	params := dagconfig.SimnetParams
	params.MaxTipHeightDeviation = params.StableHeightLimit

	_, err := NewFactory().NewConsensus(&params, newTestDatabase(t), nil)
	if err == nil {
		t.Fatalf("TestNewConsensusRejectsInvalidParams: expected an error for invalid parameters")
	}
}
