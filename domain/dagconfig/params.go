package dagconfig

import (
	"time"

	"github.com/pkg/errors"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
)

// CoinValue is the number of atomic units in one coin.
const CoinValue = 100000

const (
	defaultStableHeightLimit      = 8
	defaultTargetTimePerBlock     = 15 * time.Second
	defaultMaxTipDeviationPercent = 9
	defaultSideBlockRewardPercent = 30
	defaultSideBlockLookback      = 8
	defaultMaxBlockParents        = 3
	defaultMaxTipHeightDeviation  = defaultStableHeightLimit - 1
	defaultGenesisDifficulty      = 1
	defaultDifficultyWindowSize   = 12
	defaultDifficultyClamp        = 200
	defaultTimestampInFuture      = 2 * time.Second
	defaultMaxSupply              = 18_400_000 * CoinValue
	defaultEmissionSpeedFactor    = 21
	defaultDevFeePercent          = 5
)

// Params defines a network by its parameters. These parameters may be
// used by applications to differentiate networks as well as addresses
// and keys for one network from those intended for use on another network.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// DefaultQueryPort is the port the read-only query server listens on
	// unless configured otherwise.
	DefaultQueryPort string

	// GenesisBlock defines the first block of the DAG.
	GenesisBlock *externalapi.DomainBlock

	// GenesisHash is the starting block hash.
	GenesisHash *externalapi.DomainHash

	// StableHeightLimit is the distance below the top height at which
	// blocks become stable and their order is frozen.
	StableHeightLimit uint64

	// TargetTimePerBlock is the desired average time between blocks.
	TargetTimePerBlock time.Duration

	// MaxTipDeviationPercent bounds the cumulative difficulty spread of a
	// parent set, relative to its heaviest member.
	MaxTipDeviationPercent uint64

	// SideBlockRewardPercent is the share of the base reward paid to Side
	// blocks.
	SideBlockRewardPercent uint64

	// SideBlockLookback is the number of preceding topological positions
	// searched for a block at the same or a greater height.
	SideBlockLookback uint64

	// MaxBlockParents is the maximum number of parents a block may have.
	MaxBlockParents int

	// MaxTipHeightDeviation is how far below the top height a parent may
	// be. It must be lower than StableHeightLimit.
	MaxTipHeightDeviation uint64

	// MinimumDifficulty is the floor of the difficulty estimator.
	MinimumDifficulty uint64

	// GenesisDifficulty is the difficulty of the genesis block.
	GenesisDifficulty uint64

	// DifficultyWindowSize is the number of block intervals the
	// difficulty estimator averages over.
	DifficultyWindowSize int

	// DifficultyClampPercent bounds the change of difficulty between two
	// consecutive blocks. 200 allows halving and doubling.
	DifficultyClampPercent uint64

	// TimestampInFutureLimit is how far ahead of local time a block
	// timestamp may be.
	TimestampInFutureLimit time.Duration

	// MaxSupply is the total amount of atomic units that will ever be
	// emitted.
	MaxSupply uint64

	// EmissionSpeedFactor is the right shift applied to the remaining
	// supply to obtain the base block reward.
	EmissionSpeedFactor uint64

	// DevFeePercent is the share of every paid base reward credited to
	// DevAddress.
	DevFeePercent uint64

	// DevAddress receives the developer fee.
	DevAddress string

	// EnforceDifficulty makes the declared difficulty of every block
	// subject to the difficulty estimator.
	EnforceDifficulty bool
}

// Validate checks that the parameters are consistent with each other
func (p *Params) Validate() error {
	if p.StableHeightLimit == 0 {
		return errors.Errorf("%s: stable height limit must be positive", p.Name)
	}
	if p.MaxTipHeightDeviation >= p.StableHeightLimit {
		return errors.Errorf("%s: max tip height deviation %d must be lower than the stable height limit %d",
			p.Name, p.MaxTipHeightDeviation, p.StableHeightLimit)
	}
	if p.MaxBlockParents < 1 {
		return errors.Errorf("%s: max block parents must be at least 1", p.Name)
	}
	if p.TargetTimePerBlock < time.Millisecond {
		return errors.Errorf("%s: target time per block must be at least a millisecond", p.Name)
	}
	if p.DifficultyWindowSize < 1 {
		return errors.Errorf("%s: difficulty window size must be positive", p.Name)
	}
	if p.DifficultyClampPercent <= 100 {
		return errors.Errorf("%s: difficulty clamp percent must be above 100", p.Name)
	}
	if p.MinimumDifficulty == 0 || p.GenesisDifficulty == 0 {
		return errors.Errorf("%s: difficulties must be positive", p.Name)
	}
	if p.SideBlockRewardPercent > 100 || p.DevFeePercent > 100 || p.MaxTipDeviationPercent > 100 {
		return errors.Errorf("%s: percentages must not exceed 100", p.Name)
	}
	if p.EmissionSpeedFactor >= 64 {
		return errors.Errorf("%s: emission speed factor must be lower than 64", p.Name)
	}
	if p.GenesisBlock == nil || p.GenesisHash == nil {
		return errors.Errorf("%s: missing genesis block", p.Name)
	}
	return nil
}

// MainnetParams defines the network parameters for the main network.
var MainnetParams = Params{
	Name:             "mainnet",
	DefaultQueryPort: "18080",

	GenesisBlock: &mainnetGenesisBlock,
	GenesisHash:  mainnetGenesisHash,

	StableHeightLimit:      defaultStableHeightLimit,
	TargetTimePerBlock:     defaultTargetTimePerBlock,
	MaxTipDeviationPercent: defaultMaxTipDeviationPercent,
	SideBlockRewardPercent: defaultSideBlockRewardPercent,
	SideBlockLookback:      defaultSideBlockLookback,
	MaxBlockParents:        defaultMaxBlockParents,
	MaxTipHeightDeviation:  defaultMaxTipHeightDeviation,
	MinimumDifficulty:      150000,
	GenesisDifficulty:      defaultGenesisDifficulty,
	DifficultyWindowSize:   defaultDifficultyWindowSize,
	DifficultyClampPercent: defaultDifficultyClamp,
	TimestampInFutureLimit: defaultTimestampInFuture,
	MaxSupply:              defaultMaxSupply,
	EmissionSpeedFactor:    defaultEmissionSpeedFactor,
	DevFeePercent:          defaultDevFeePercent,
	DevAddress:             mainnetDevAddress,
	EnforceDifficulty:      true,
}

// TestnetParams defines the network parameters for the public test network.
var TestnetParams = Params{
	Name:             "testnet",
	DefaultQueryPort: "18180",

	GenesisBlock: &testnetGenesisBlock,
	GenesisHash:  testnetGenesisHash,

	StableHeightLimit:      defaultStableHeightLimit,
	TargetTimePerBlock:     defaultTargetTimePerBlock,
	MaxTipDeviationPercent: defaultMaxTipDeviationPercent,
	SideBlockRewardPercent: defaultSideBlockRewardPercent,
	SideBlockLookback:      defaultSideBlockLookback,
	MaxBlockParents:        defaultMaxBlockParents,
	MaxTipHeightDeviation:  defaultMaxTipHeightDeviation,
	MinimumDifficulty:      10000,
	GenesisDifficulty:      defaultGenesisDifficulty,
	DifficultyWindowSize:   defaultDifficultyWindowSize,
	DifficultyClampPercent: defaultDifficultyClamp,
	TimestampInFutureLimit: defaultTimestampInFuture,
	MaxSupply:              defaultMaxSupply,
	EmissionSpeedFactor:    defaultEmissionSpeedFactor,
	DevFeePercent:          defaultDevFeePercent,
	DevAddress:             testnetDevAddress,
	EnforceDifficulty:      true,
}

// DevnetParams defines the network parameters for a local development
// network. Difficulty is not enforced so blocks can be produced on demand.
var DevnetParams = Params{
	Name:             "devnet",
	DefaultQueryPort: "18280",

	GenesisBlock: &devnetGenesisBlock,
	GenesisHash:  devnetGenesisHash,

	StableHeightLimit:      defaultStableHeightLimit,
	TargetTimePerBlock:     defaultTargetTimePerBlock,
	MaxTipDeviationPercent: defaultMaxTipDeviationPercent,
	SideBlockRewardPercent: defaultSideBlockRewardPercent,
	SideBlockLookback:      defaultSideBlockLookback,
	MaxBlockParents:        defaultMaxBlockParents,
	MaxTipHeightDeviation:  defaultMaxTipHeightDeviation,
	MinimumDifficulty:      1,
	GenesisDifficulty:      defaultGenesisDifficulty,
	DifficultyWindowSize:   defaultDifficultyWindowSize,
	DifficultyClampPercent: defaultDifficultyClamp,
	TimestampInFutureLimit: defaultTimestampInFuture,
	MaxSupply:              defaultMaxSupply,
	EmissionSpeedFactor:    defaultEmissionSpeedFactor,
	DevFeePercent:          defaultDevFeePercent,
	DevAddress:             devnetDevAddress,
	EnforceDifficulty:      false,
}

// SimnetParams defines the network parameters used by tests.
var SimnetParams = Params{
	Name:             "simnet",
	DefaultQueryPort: "18380",

	GenesisBlock: &simnetGenesisBlock,
	GenesisHash:  simnetGenesisHash,

	StableHeightLimit:      defaultStableHeightLimit,
	TargetTimePerBlock:     defaultTargetTimePerBlock,
	MaxTipDeviationPercent: defaultMaxTipDeviationPercent,
	SideBlockRewardPercent: defaultSideBlockRewardPercent,
	SideBlockLookback:      defaultSideBlockLookback,
	MaxBlockParents:        defaultMaxBlockParents,
	MaxTipHeightDeviation:  defaultMaxTipHeightDeviation,
	MinimumDifficulty:      1,
	GenesisDifficulty:      defaultGenesisDifficulty,
	DifficultyWindowSize:   defaultDifficultyWindowSize,
	DifficultyClampPercent: defaultDifficultyClamp,
	TimestampInFutureLimit: defaultTimestampInFuture,
	MaxSupply:              defaultMaxSupply,
	EmissionSpeedFactor:    defaultEmissionSpeedFactor,
	DevFeePercent:          defaultDevFeePercent,
	DevAddress:             simnetDevAddress,
	EnforceDifficulty:      false,
}

var (
	// ErrDuplicateNet describes an error where the parameters for a
	// network could not be set due to the network already being a standard
	// network or previously-registered into this package.
	ErrDuplicateNet = errors.New("duplicate network")

	// ErrUnknownNet describes an error where the requested network was
	// never registered.
	ErrUnknownNet = errors.New("unknown network")
)

var registeredNets = make(map[string]*Params)

// Register registers the network parameters for a network. This may
// error with ErrDuplicateNet if the network is already registered (either
// due to a previous Register call, or the network being one of the default
// networks).
func Register(params *Params) error {
	if _, ok := registeredNets[params.Name]; ok {
		return ErrDuplicateNet
	}
	err := params.Validate()
	if err != nil {
		return err
	}
	registeredNets[params.Name] = params
	return nil
}

// ParamsByName returns the registered parameters of the named network
func ParamsByName(name string) (*Params, error) {
	params, ok := registeredNets[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownNet, "network %q", name)
	}
	return params, nil
}

// mustRegister performs the same function as Register except it panics if there
// is an error. This should only be called from package init functions.
func mustRegister(params *Params) {
	if err := Register(params); err != nil {
		panic("failed to register network: " + err.Error())
	}
}

func init() {
	// Register all default networks when the package is initialized.
	mustRegister(&MainnetParams)
	mustRegister(&TestnetParams)
	mustRegister(&DevnetParams)
	mustRegister(&SimnetParams)
}
