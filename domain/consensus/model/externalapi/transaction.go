package externalapi

import (
	"bytes"
	"encoding/hex"
)

// DomainTransactionID represents the ID of a transaction
type DomainTransactionID DomainHash

// String stringifies a transaction ID.
func (id DomainTransactionID) String() string {
	return DomainHash(id).String()
}

// Equal returns whether id equals to other
func (id *DomainTransactionID) Equal(other *DomainTransactionID) bool {
	return (*DomainHash)(id).Equal((*DomainHash)(other))
}

// DomainTransaction represents a transaction. The core only reads its
// fee; the payload is opaque.
type DomainTransaction struct {
	Sender  string
	Nonce   uint64
	Fee     uint64
	Payload []byte
}

// Clone returns a clone of DomainTransaction
func (tx *DomainTransaction) Clone() *DomainTransaction {
	payloadClone := make([]byte, len(tx.Payload))
	copy(payloadClone, tx.Payload)

	return &DomainTransaction{
		Sender:  tx.Sender,
		Nonce:   tx.Nonce,
		Fee:     tx.Fee,
		Payload: payloadClone,
	}
}

// If this doesn't compile, it means the type definition has been changed, so it's
// an indication to update Equal and Clone accordingly.
var _ = DomainTransaction{"", 0, 0, []byte{}}

// Equal returns whether tx equals to other
func (tx *DomainTransaction) Equal(other *DomainTransaction) bool {
	if tx == nil || other == nil {
		return tx == other
	}

	return tx.Sender == other.Sender &&
		tx.Nonce == other.Nonce &&
		tx.Fee == other.Fee &&
		bytes.Equal(tx.Payload, other.Payload)
}

func (tx *DomainTransaction) String() string {
	return tx.Sender + "/" + hex.EncodeToString(tx.Payload)
}
