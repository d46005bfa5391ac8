package serialization

import (
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	metadataFieldCumulativeDifficulty protowire.Number = 1
	metadataFieldHasTopoHeight        protowire.Number = 2
	metadataFieldTopoHeight           protowire.Number = 3
	metadataFieldClassification       protowire.Number = 4
	metadataFieldStabilized           protowire.Number = 5
)

// SerializeBlockMetadata serializes block metadata for storage
func SerializeBlockMetadata(metadata *externalapi.BlockMetadata) []byte {
	var b []byte
	b = appendUint64(b, metadataFieldCumulativeDifficulty, metadata.CumulativeDifficulty)
	b = appendBool(b, metadataFieldHasTopoHeight, metadata.HasTopoHeight)
	b = appendUint64(b, metadataFieldTopoHeight, metadata.TopoHeight)
	b = appendUint64(b, metadataFieldClassification, uint64(metadata.Classification))
	b = appendBool(b, metadataFieldStabilized, metadata.Stabilized)
	return b
}

// DeserializeBlockMetadata deserializes block metadata written by
// SerializeBlockMetadata
func DeserializeBlockMetadata(metadataBytes []byte) (*externalapi.BlockMetadata, error) {
	metadata := &externalapi.BlockMetadata{}
	var classification uint64
	err := consumeMessage(metadataBytes, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool, error) {
		switch num {
		case metadataFieldCumulativeDifficulty:
			n, err := consumeUint64(typ, b, &metadata.CumulativeDifficulty)
			return n, true, err
		case metadataFieldHasTopoHeight:
			n, err := consumeBool(typ, b, &metadata.HasTopoHeight)
			return n, true, err
		case metadataFieldTopoHeight:
			n, err := consumeUint64(typ, b, &metadata.TopoHeight)
			return n, true, err
		case metadataFieldClassification:
			n, err := consumeUint64(typ, b, &classification)
			return n, true, err
		case metadataFieldStabilized:
			n, err := consumeBool(typ, b, &metadata.Stabilized)
			return n, true, err
		}
		return 0, false, nil
	})
	if err != nil {
		return nil, err
	}
	metadata.Classification = externalapi.BlockClassification(classification)
	return metadata, nil
}
