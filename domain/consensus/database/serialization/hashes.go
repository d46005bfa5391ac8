package serialization

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	hashesFieldHash  protowire.Number = 1
	uint64FieldValue protowire.Number = 1
)

// SerializeHashes serializes a list of hashes, keeping their order
func SerializeHashes(hashes []*externalapi.DomainHash) []byte {
	var b []byte
	for _, hash := range hashes {
		b = appendBytes(b, hashesFieldHash, hash.ByteSlice())
	}
	return b
}

// DeserializeHashes deserializes a list written by SerializeHashes
func DeserializeHashes(hashesBytes []byte) ([]*externalapi.DomainHash, error) {
	hashes := []*externalapi.DomainHash{}
	err := consumeMessage(hashesBytes, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool, error) {
		if num != hashesFieldHash {
			return 0, false, nil
		}
		var hash *externalapi.DomainHash
		n, err := consumeHash(typ, b, &hash)
		if hash != nil {
			hashes = append(hashes, hash)
		}
		return n, true, err
	})
	if err != nil {
		return nil, err
	}
	return hashes, nil
}

// SerializeUint64 serializes a single counter or amount
func SerializeUint64(value uint64) []byte {
	b := protowire.AppendTag(nil, uint64FieldValue, protowire.VarintType)
	return protowire.AppendVarint(b, value)
}

// DeserializeUint64 deserializes a value written by SerializeUint64
func DeserializeUint64(valueBytes []byte) (uint64, error) {
	var value uint64
	err := consumeMessage(valueBytes, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool, error) {
		if num != uint64FieldValue {
			return 0, false, nil
		}
		n, err := consumeUint64(typ, b, &value)
		return n, true, err
	})
	if err != nil {
		return 0, err
	}
	return value, nil
}

// Uint64ToKeySuffix encodes value as a big-endian key suffix so cursors
// iterate numeric keys in ascending order.
func Uint64ToKeySuffix(value uint64) []byte {
	var suffix [8]byte
	binary.BigEndian.PutUint64(suffix[:], value)
	return suffix[:]
}

// KeySuffixToUint64 decodes a suffix written by Uint64ToKeySuffix
func KeySuffixToUint64(suffix []byte) (uint64, error) {
	if len(suffix) != 8 {
		return 0, errors.Errorf("numeric key suffix is %d bytes, while it should be 8", len(suffix))
	}
	return binary.BigEndian.Uint64(suffix), nil
}
