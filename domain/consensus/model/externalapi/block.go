package externalapi

// DomainBlock represents a block in the DAG
type DomainBlock struct {
	Header       *DomainBlockHeader
	Transactions []*DomainTransaction
}

// Clone returns a clone of DomainBlock
func (block *DomainBlock) Clone() *DomainBlock {
	transactionClone := make([]*DomainTransaction, len(block.Transactions))
	for i, tx := range block.Transactions {
		transactionClone[i] = tx.Clone()
	}

	return &DomainBlock{
		Header:       block.Header.Clone(),
		Transactions: transactionClone,
	}
}

// If this doesn't compile, it means the type definition has been changed, so it's
// an indication to update Equal and Clone accordingly.
var _ = DomainBlock{&DomainBlockHeader{}, []*DomainTransaction{}}

// Equal returns whether block equals to other
func (block *DomainBlock) Equal(other *DomainBlock) bool {
	if block == nil || other == nil {
		return block == other
	}

	if len(block.Transactions) != len(other.Transactions) {
		return false
	}

	if !block.Header.Equal(other.Header) {
		return false
	}

	for i, tx := range block.Transactions {
		if !tx.Equal(other.Transactions[i]) {
			return false
		}
	}

	return true
}

// DomainBlockHeader represents the header part of a block. Heights are
// not unique in the DAG: sibling blocks share a height.
type DomainBlockHeader struct {
	Version            uint16
	ParentHashes       []*DomainHash
	Height             uint64
	TimeInMilliseconds int64
	Difficulty         uint64
	Nonce              uint64
	MinerAddress       string
	TransactionsRoot   DomainHash
}

// Clone returns a clone of DomainBlockHeader
func (header *DomainBlockHeader) Clone() *DomainBlockHeader {
	return &DomainBlockHeader{
		Version:            header.Version,
		ParentHashes:       CloneHashes(header.ParentHashes),
		Height:             header.Height,
		TimeInMilliseconds: header.TimeInMilliseconds,
		Difficulty:         header.Difficulty,
		Nonce:              header.Nonce,
		MinerAddress:       header.MinerAddress,
		TransactionsRoot:   header.TransactionsRoot,
	}
}

// If this doesn't compile, it means the type definition has been changed, so it's
// an indication to update Equal and Clone accordingly.
var _ = &DomainBlockHeader{0, []*DomainHash{}, 0, 0, 0, 0, "", DomainHash{}}

// Equal returns whether header equals to other
func (header *DomainBlockHeader) Equal(other *DomainBlockHeader) bool {
	if header == nil || other == nil {
		return header == other
	}

	return header.Version == other.Version &&
		HashesEqual(header.ParentHashes, other.ParentHashes) &&
		header.Height == other.Height &&
		header.TimeInMilliseconds == other.TimeInMilliseconds &&
		header.Difficulty == other.Difficulty &&
		header.Nonce == other.Nonce &&
		header.MinerAddress == other.MinerAddress &&
		header.TransactionsRoot.Equal(&other.TransactionsRoot)
}
