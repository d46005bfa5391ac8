package consensushashing

import (
	"encoding/binary"

	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
	"github.com/weightdag/dagd/domain/consensus/utils/hashes"
)

// BlockHash returns the given block's hash
func BlockHash(block *externalapi.DomainBlock) *externalapi.DomainHash {
	return HeaderHash(block.Header)
}

// HeaderHash returns the given header's hash. Every header field takes part
// in the hash, so the transactions are committed to through
// TransactionsRoot.
func HeaderHash(header *externalapi.DomainBlockHeader) *externalapi.DomainHash {
	writer := hashes.NewBlockHashWriter()
	serializeHeader(writer, header)
	return writer.Finalize()
}

func serializeHeader(w hashes.HashWriter, header *externalapi.DomainBlockHeader) {
	writeUint64(w, uint64(header.Version))
	writeUint64(w, uint64(len(header.ParentHashes)))
	for _, parentHash := range header.ParentHashes {
		w.InfallibleWrite(parentHash.ByteSlice())
	}
	writeUint64(w, header.Height)
	writeUint64(w, uint64(header.TimeInMilliseconds))
	writeUint64(w, header.Difficulty)
	writeUint64(w, header.Nonce)
	writeBytes(w, []byte(header.MinerAddress))
	w.InfallibleWrite(header.TransactionsRoot.ByteSlice())
}

func writeUint64(w hashes.HashWriter, value uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], value)
	w.InfallibleWrite(buf[:])
}

func writeBytes(w hashes.HashWriter, value []byte) {
	writeUint64(w, uint64(len(value)))
	w.InfallibleWrite(value)
}
