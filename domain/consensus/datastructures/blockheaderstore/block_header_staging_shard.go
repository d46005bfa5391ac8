package blockheaderstore

import (
	"github.com/weightdag/dagd/domain/consensus/database/serialization"
	"github.com/weightdag/dagd/domain/consensus/model"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
)

type blockHeaderStagingShard struct {
	store *blockHeaderStore
	toAdd map[externalapi.DomainHash]*externalapi.DomainBlockHeader
}

func (bhs *blockHeaderStore) stagingShard(stagingArea *model.StagingArea) *blockHeaderStagingShard {
	return stagingArea.GetOrCreateShard(shardID, func() model.StagingShard {
		return &blockHeaderStagingShard{
			store: bhs,
			toAdd: make(map[externalapi.DomainHash]*externalapi.DomainBlockHeader),
		}
	}).(*blockHeaderStagingShard)
}

func (bhss *blockHeaderStagingShard) Commit(dbTx model.DBTransaction) error {
	if len(bhss.toAdd) == 0 {
		return nil
	}

	count, err := bhss.store.committedCount(dbTx)
	if err != nil {
		return err
	}

	for hash, header := range bhss.toAdd {
		hash := hash
		err := dbTx.Put(bhss.store.hashAsKey(&hash), serialization.SerializeBlockHeader(header))
		if err != nil {
			return err
		}
		bhss.store.cache.Remove(&hash)
	}

	return dbTx.Put(bhss.store.countKey, serialization.SerializeUint64(count+uint64(len(bhss.toAdd))))
}

func (bhss *blockHeaderStagingShard) isStaged() bool {
	return len(bhss.toAdd) != 0
}
