package mempool

import "math"

const (
	defaultMaximumTransactionCount     = 100_000
	defaultMaximumTransactionsPerBlock = 1_000
	defaultMaximumPayloadSize          = 100_000
	defaultMinimumTransactionFee       = 0
	defaultMaximumBlockFees            = math.MaxUint64
)

// Config represents a mempool configuration
type Config struct {
	// MaximumTransactionCount is the number of transactions the mempool
	// holds before evicting the lowest fee ones.
	MaximumTransactionCount int

	// MaximumTransactionsPerBlock caps BlockCandidateTransactions.
	MaximumTransactionsPerBlock int

	// MaximumBlockFees caps the total fee of BlockCandidateTransactions.
	// Consensus rejects blocks whose fees add up to more than the maximum
	// supply.
	MaximumBlockFees uint64

	MaximumPayloadSize    int
	MinimumTransactionFee uint64
}

// DefaultConfig returns the default mempool configuration
func DefaultConfig() *Config {
	return &Config{
		MaximumTransactionCount:     defaultMaximumTransactionCount,
		MaximumTransactionsPerBlock: defaultMaximumTransactionsPerBlock,
		MaximumPayloadSize:          defaultMaximumPayloadSize,
		MinimumTransactionFee:       defaultMinimumTransactionFee,
		MaximumBlockFees:            defaultMaximumBlockFees,
	}
}
