package consensushashing

import (
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
	"github.com/weightdag/dagd/domain/consensus/utils/hashes"
)

// TransactionID generates the ID of the given transaction
func TransactionID(tx *externalapi.DomainTransaction) *externalapi.DomainTransactionID {
	writer := hashes.NewTransactionIDWriter()
	writeBytes(writer, []byte(tx.Sender))
	writeUint64(writer, tx.Nonce)
	writeUint64(writer, tx.Fee)
	writeBytes(writer, tx.Payload)
	return (*externalapi.DomainTransactionID)(writer.Finalize())
}

// TransactionIDs returns the IDs of the given transactions, in order
func TransactionIDs(txs []*externalapi.DomainTransaction) []*externalapi.DomainTransactionID {
	ids := make([]*externalapi.DomainTransactionID, len(txs))
	for i, tx := range txs {
		ids[i] = TransactionID(tx)
	}
	return ids
}
