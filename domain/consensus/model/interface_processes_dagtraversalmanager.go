package model

import "github.com/weightdag/dagd/domain/consensus/model/externalapi"

// DAGTraversalManager exposes methods for traversing blocks
// in the DAG
type DAGTraversalManager interface {
	SelectedParent(stagingArea *StagingArea, blockHash *externalapi.DomainHash) (*externalapi.DomainHash, error)
	HeaviestBlock(stagingArea *StagingArea, blockHashes []*externalapi.DomainHash) (*externalapi.DomainHash, error)
	SelectedParentChain(stagingArea *StagingArea, highHash *externalapi.DomainHash, maxBlocks int) ([]*externalapi.DomainHash, error)
	PastConeAboveHeight(stagingArea *StagingArea, highHash *externalapi.DomainHash,
		hasLowHeight bool, lowHeight uint64) ([]*externalapi.DomainHash, error)
}
