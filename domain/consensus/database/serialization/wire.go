// Package serialization converts consensus records to and from their
// database representation. Records use the protobuf wire format, encoded
// field by field with protowire so no generated code is needed.
package serialization

import (
	"github.com/pkg/errors"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
	"google.golang.org/protobuf/encoding/protowire"
)

// fieldHandler consumes the value of one field and returns the number of
// bytes it read. Unknown fields are skipped by the caller when the handler
// returns handled=false.
type fieldHandler func(num protowire.Number, typ protowire.Type, b []byte) (n int, handled bool, err error)

func consumeMessage(b []byte, handle fieldHandler) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return errors.Wrap(protowire.ParseError(n), "malformed field tag")
		}
		b = b[n:]

		n, handled, err := handle(num, typ, b)
		if err != nil {
			return err
		}
		if !handled {
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return errors.Wrapf(protowire.ParseError(n), "malformed field %d", num)
		}
		b = b[n:]
	}
	return nil
}

func appendUint64(b []byte, num protowire.Number, value uint64) []byte {
	if value == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, value)
}

func appendBool(b []byte, num protowire.Number, value bool) []byte {
	if !value {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeBool(value))
}

func appendBytes(b []byte, num protowire.Number, value []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, value)
}

func appendString(b []byte, num protowire.Number, value string) []byte {
	if value == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, value)
}

func consumeUint64(typ protowire.Type, b []byte, target *uint64) (int, error) {
	if typ != protowire.VarintType {
		return 0, errors.Errorf("unexpected wire type %d for a varint field", typ)
	}
	value, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return n, nil
	}
	*target = value
	return n, nil
}

func consumeBool(typ protowire.Type, b []byte, target *bool) (int, error) {
	var value uint64
	n, err := consumeUint64(typ, b, &value)
	if err != nil || n < 0 {
		return n, err
	}
	*target = protowire.DecodeBool(value)
	return n, nil
}

func consumeBytes(typ protowire.Type, b []byte, target *[]byte) (int, error) {
	if typ != protowire.BytesType {
		return 0, errors.Errorf("unexpected wire type %d for a bytes field", typ)
	}
	value, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return n, nil
	}
	*target = append([]byte(nil), value...)
	return n, nil
}

func consumeHash(typ protowire.Type, b []byte, target **externalapi.DomainHash) (int, error) {
	var hashBytes []byte
	n, err := consumeBytes(typ, b, &hashBytes)
	if err != nil || n < 0 {
		return n, err
	}
	hash, err := externalapi.NewDomainHashFromByteSlice(hashBytes)
	if err != nil {
		return 0, err
	}
	*target = hash
	return n, nil
}
