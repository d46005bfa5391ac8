package serialization

import (
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	transactionsFieldTransaction protowire.Number = 1

	transactionFieldSender  protowire.Number = 1
	transactionFieldNonce   protowire.Number = 2
	transactionFieldFee     protowire.Number = 3
	transactionFieldPayload protowire.Number = 4
)

// SerializeTransaction serializes a single transaction
func SerializeTransaction(tx *externalapi.DomainTransaction) []byte {
	var b []byte
	b = appendString(b, transactionFieldSender, tx.Sender)
	b = appendUint64(b, transactionFieldNonce, tx.Nonce)
	b = appendUint64(b, transactionFieldFee, tx.Fee)
	if len(tx.Payload) > 0 {
		b = appendBytes(b, transactionFieldPayload, tx.Payload)
	}
	return b
}

// DeserializeTransaction deserializes a transaction written by
// SerializeTransaction
func DeserializeTransaction(txBytes []byte) (*externalapi.DomainTransaction, error) {
	tx := &externalapi.DomainTransaction{Payload: []byte{}}
	err := consumeMessage(txBytes, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool, error) {
		switch num {
		case transactionFieldSender:
			var sender []byte
			n, err := consumeBytes(typ, b, &sender)
			tx.Sender = string(sender)
			return n, true, err
		case transactionFieldNonce:
			n, err := consumeUint64(typ, b, &tx.Nonce)
			return n, true, err
		case transactionFieldFee:
			n, err := consumeUint64(typ, b, &tx.Fee)
			return n, true, err
		case transactionFieldPayload:
			n, err := consumeBytes(typ, b, &tx.Payload)
			return n, true, err
		}
		return 0, false, nil
	})
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// SerializeTransactions serializes the transaction list of a block
func SerializeTransactions(transactions []*externalapi.DomainTransaction) []byte {
	var b []byte
	for _, tx := range transactions {
		b = appendBytes(b, transactionsFieldTransaction, SerializeTransaction(tx))
	}
	return b
}

// DeserializeTransactions deserializes a transaction list written by
// SerializeTransactions
func DeserializeTransactions(transactionsBytes []byte) ([]*externalapi.DomainTransaction, error) {
	transactions := []*externalapi.DomainTransaction{}
	err := consumeMessage(transactionsBytes, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool, error) {
		if num != transactionsFieldTransaction {
			return 0, false, nil
		}
		var txBytes []byte
		n, err := consumeBytes(typ, b, &txBytes)
		if err != nil || n < 0 {
			return n, true, err
		}
		tx, err := DeserializeTransaction(txBytes)
		if err != nil {
			return 0, true, err
		}
		transactions = append(transactions, tx)
		return n, true, nil
	})
	if err != nil {
		return nil, err
	}
	return transactions, nil
}
