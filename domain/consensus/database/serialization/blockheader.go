package serialization

import (
	"github.com/pkg/errors"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	headerFieldVersion          protowire.Number = 1
	headerFieldParentHashes     protowire.Number = 2
	headerFieldHeight           protowire.Number = 3
	headerFieldTimestamp        protowire.Number = 4
	headerFieldDifficulty       protowire.Number = 5
	headerFieldNonce            protowire.Number = 6
	headerFieldMinerAddress     protowire.Number = 7
	headerFieldTransactionsRoot protowire.Number = 8
)

// SerializeBlockHeader serializes a block header for storage
func SerializeBlockHeader(header *externalapi.DomainBlockHeader) []byte {
	var b []byte
	b = appendUint64(b, headerFieldVersion, uint64(header.Version))
	for _, parentHash := range header.ParentHashes {
		b = appendBytes(b, headerFieldParentHashes, parentHash.ByteSlice())
	}
	b = appendUint64(b, headerFieldHeight, header.Height)
	b = appendUint64(b, headerFieldTimestamp, uint64(header.TimeInMilliseconds))
	b = appendUint64(b, headerFieldDifficulty, header.Difficulty)
	b = appendUint64(b, headerFieldNonce, header.Nonce)
	b = appendString(b, headerFieldMinerAddress, header.MinerAddress)
	b = appendBytes(b, headerFieldTransactionsRoot, header.TransactionsRoot.ByteSlice())
	return b
}

// DeserializeBlockHeader deserializes a block header written by
// SerializeBlockHeader
func DeserializeBlockHeader(headerBytes []byte) (*externalapi.DomainBlockHeader, error) {
	header := &externalapi.DomainBlockHeader{ParentHashes: []*externalapi.DomainHash{}}
	var version, timestamp uint64
	hasTransactionsRoot := false
	err := consumeMessage(headerBytes, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool, error) {
		switch num {
		case headerFieldVersion:
			n, err := consumeUint64(typ, b, &version)
			return n, true, err
		case headerFieldParentHashes:
			var parentHash *externalapi.DomainHash
			n, err := consumeHash(typ, b, &parentHash)
			if parentHash != nil {
				header.ParentHashes = append(header.ParentHashes, parentHash)
			}
			return n, true, err
		case headerFieldHeight:
			n, err := consumeUint64(typ, b, &header.Height)
			return n, true, err
		case headerFieldTimestamp:
			n, err := consumeUint64(typ, b, &timestamp)
			return n, true, err
		case headerFieldDifficulty:
			n, err := consumeUint64(typ, b, &header.Difficulty)
			return n, true, err
		case headerFieldNonce:
			n, err := consumeUint64(typ, b, &header.Nonce)
			return n, true, err
		case headerFieldMinerAddress:
			var minerAddress []byte
			n, err := consumeBytes(typ, b, &minerAddress)
			header.MinerAddress = string(minerAddress)
			return n, true, err
		case headerFieldTransactionsRoot:
			var root *externalapi.DomainHash
			n, err := consumeHash(typ, b, &root)
			if root != nil {
				header.TransactionsRoot = *root
				hasTransactionsRoot = true
			}
			return n, true, err
		}
		return 0, false, nil
	})
	if err != nil {
		return nil, err
	}
	if !hasTransactionsRoot {
		return nil, errors.New("block header is missing its transactions root")
	}
	header.Version = uint16(version)
	header.TimeInMilliseconds = int64(timestamp)
	return header, nil
}
