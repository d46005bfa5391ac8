package model

import "github.com/weightdag/dagd/domain/consensus/model/externalapi"

// DifficultyManager provides a method to resolve the
// difficulty value of a block
type DifficultyManager interface {
	RequiredDifficulty(window []DifficultyWindowEntry) uint64
	NextRequiredDifficulty(stagingArea *StagingArea, parentHashes []*externalapi.DomainHash) (uint64, error)
}
