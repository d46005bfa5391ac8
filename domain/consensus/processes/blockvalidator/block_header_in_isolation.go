package blockvalidator

import (
	"math/bits"
	"time"

	"github.com/pkg/errors"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
	"github.com/weightdag/dagd/domain/consensus/ruleerrors"
	"github.com/weightdag/dagd/domain/consensus/utils/consensushashing"
	"github.com/weightdag/dagd/domain/consensus/utils/hashset"
	"github.com/weightdag/dagd/domain/consensus/utils/merkle"
	"github.com/weightdag/dagd/util/mstime"
)

// ValidateHeaderInIsolation validates a block in isolation from the current
// consensus state
func (v *blockValidator) ValidateHeaderInIsolation(block *externalapi.DomainBlock) error {
	header := block.Header

	err := v.checkParentsLimit(block)
	if err != nil {
		return err
	}

	err = checkParentsUnique(header)
	if err != nil {
		return err
	}

	err = checkDifficultyIsPositive(header)
	if err != nil {
		return err
	}

	err = checkTransactionsRoot(block)
	if err != nil {
		return err
	}

	err = v.checkTotalFees(block)
	if err != nil {
		return err
	}

	return v.checkBlockTimestampInIsolation(header)
}

func (v *blockValidator) checkParentsLimit(block *externalapi.DomainBlock) error {
	header := block.Header
	if len(header.ParentHashes) == 0 && !consensushashing.BlockHash(block).Equal(v.genesisHash) {
		return errors.Wrapf(ruleerrors.ErrInvalidParentSet, "block has no parents")
	}

	if len(header.ParentHashes) > v.maxBlockParents {
		return errors.Wrapf(ruleerrors.ErrInvalidParentSet, "block header has %d parents, but the maximum allowed amount "+
			"is %d", len(header.ParentHashes), v.maxBlockParents)
	}
	return nil
}

func checkParentsUnique(header *externalapi.DomainBlockHeader) error {
	parents := hashset.New()
	for _, parentHash := range header.ParentHashes {
		if parents.Contains(parentHash) {
			return errors.Wrapf(ruleerrors.ErrInvalidParentSet, "parent %s appears more than once", parentHash)
		}
		parents.Add(parentHash)
	}
	return nil
}

func checkDifficultyIsPositive(header *externalapi.DomainBlockHeader) error {
	if header.Difficulty == 0 {
		return errors.Wrapf(ruleerrors.ErrUnexpectedDifficulty, "block difficulty must be positive")
	}
	return nil
}

func checkTransactionsRoot(block *externalapi.DomainBlock) error {
	calculatedRoot := merkle.CalculateTransactionsRoot(block.Transactions)
	if !block.Header.TransactionsRoot.Equal(calculatedRoot) {
		return errors.Wrapf(ruleerrors.ErrBadMerkleRoot, "block transactions root is invalid - block "+
			"header indicates %s, but calculated value is %s",
			block.Header.TransactionsRoot, calculatedRoot)
	}
	return nil
}

// checkTotalFees ensures the fees of the block add up without overflowing
// and stay within the maximum supply, so crediting them cannot wrap a
// balance
func (v *blockValidator) checkTotalFees(block *externalapi.DomainBlock) error {
	totalFees := uint64(0)
	for _, transaction := range block.Transactions {
		var carry uint64
		totalFees, carry = bits.Add64(totalFees, transaction.Fee, 0)
		if carry != 0 {
			return errors.Wrapf(ruleerrors.ErrExcessiveFees, "block transaction fees overflow")
		}
	}
	if totalFees > v.maxTotalFees {
		return errors.Wrapf(ruleerrors.ErrExcessiveFees, "block transaction fees add up to %d, but the maximum "+
			"allowed is %d", totalFees, v.maxTotalFees)
	}
	return nil
}

// checkBlockTimestampInIsolation ensures the timestamp of the block is not
// too far in the future
func (v *blockValidator) checkBlockTimestampInIsolation(header *externalapi.DomainBlockHeader) error {
	blockTime := mstime.UnixMilliToTime(header.TimeInMilliseconds)
	maxTimestamp := v.timeSource().Add(v.timestampInFutureLimit)
	if blockTime.After(maxTimestamp) {
		return errors.Wrapf(ruleerrors.ErrTimeTooMuchInTheFuture, "block timestamp of %s is too far in the "+
			"future, the maximum allowed is %s", blockTime.Format(time.RFC3339Nano), maxTimestamp.Format(time.RFC3339Nano))
	}
	return nil
}
