package blockmetadatastore

import (
	"github.com/weightdag/dagd/domain/consensus/database/serialization"
	"github.com/weightdag/dagd/domain/consensus/model"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
)

type blockMetadataStagingShard struct {
	store *blockMetadataStore
	toAdd map[externalapi.DomainHash]*externalapi.BlockMetadata
}

func (bms *blockMetadataStore) stagingShard(stagingArea *model.StagingArea) *blockMetadataStagingShard {
	return stagingArea.GetOrCreateShard(shardID, func() model.StagingShard {
		return &blockMetadataStagingShard{
			store: bms,
			toAdd: make(map[externalapi.DomainHash]*externalapi.BlockMetadata),
		}
	}).(*blockMetadataStagingShard)
}

func (bmss *blockMetadataStagingShard) Commit(dbTx model.DBTransaction) error {
	for hash, metadata := range bmss.toAdd {
		hash := hash
		err := dbTx.Put(bmss.store.hashAsKey(&hash), serialization.SerializeBlockMetadata(metadata))
		if err != nil {
			return err
		}
		bmss.store.cache.Remove(&hash)
	}
	return nil
}

func (bmss *blockMetadataStagingShard) isStaged() bool {
	return len(bmss.toAdd) != 0
}
