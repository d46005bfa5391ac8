package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	"github.com/weightdag/dagd/infrastructure/logger"
	"github.com/weightdag/dagd/util/appdata"
	"github.com/weightdag/dagd/version"
)

const (
	defaultConfigFilename         = "dagd.conf"
	defaultDataDirname            = "data"
	defaultLogLevel               = "info"
	defaultLogDirname             = "logs"
	defaultLogFilename            = "dagd.log"
	defaultErrLogFilename         = "dagd_err.log"
	defaultDatabaseCacheMiB       = 256
	defaultMaxMempoolTransactions = 100_000
	defaultMaxBlockTransactions   = 1_000

	// DBTypeLevelDB and DBTypeBadger are the supported --dbtype values
	DBTypeLevelDB = "leveldb"
	DBTypeBadger  = "badger"
	defaultDBType = DBTypeLevelDB
)

var (
	// DefaultAppDir is the default home directory for dagd.
	DefaultAppDir = appdata.Dir("dagd")

	defaultConfigFile = filepath.Join(DefaultAppDir, defaultConfigFilename)
	defaultLogDir     = filepath.Join(DefaultAppDir, defaultLogDirname)
	knownDBTypes      = []string{DBTypeLevelDB, DBTypeBadger}
)

// Flags defines the configuration options for dagd.
//
// See loadConfig for details on the configuration load process.
type Flags struct {
	ShowVersion            bool          `short:"V" long:"version" description:"Display version information and exit"`
	ConfigFile             string        `short:"C" long:"configfile" description:"Path to configuration file"`
	AppDir                 string        `short:"b" long:"appdir" description:"Directory to store data"`
	LogDir                 string        `long:"logdir" description:"Directory to log output."`
	DBType                 string        `long:"dbtype" description:"Database engine to use for the DAG {leveldb, badger}"`
	DatabaseCacheMiB       int           `long:"dbcache" description:"Size of the LevelDB block cache in MiB"`
	QueryListen            string        `long:"querylisten" description:"Interface/port to listen for query server connections (default port: 18080, testnet: 18180, devnet: 18280, simnet: 18380)"`
	DisableQuery           bool          `long:"noquery" description:"Disable the read-only HTTP query server"`
	Generate               bool          `long:"generate" description:"Generate blocks on top of the local DAG"`
	MiningAddr             string        `long:"miningaddr" description:"Address credited for generated blocks -- Required if the generate option is set"`
	GenerateInterval       time.Duration `long:"generateinterval" description:"Time between generated blocks. Defaults to the target block time of the network"`
	MaxMempoolTransactions int           `long:"maxmempooltx" description:"Max number of transactions to keep in the mempool"`
	MaxBlockTransactions   int           `long:"maxblocktx" description:"Max number of mempool transactions to include in a block template"`
	MinTxFee               uint64        `long:"mintxfee" description:"The minimum fee, in atomic units, for a transaction to be accepted into the mempool"`
	DebugLevel             string        `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems -- Use show to list available subsystems"`
	NetworkFlags
}

// Config defines the configuration options for dagd.
//
// See loadConfig for details on the configuration load process.
type Config struct {
	*Flags

	// DataDir is the network specific directory of the database
	DataDir string
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			path = strings.Replace(path, "~", homeDir, 1)
		}
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but the variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}

// validDBType returns whether or not dbType is a supported database type.
func validDBType(dbType string) bool {
	for _, knownType := range knownDBTypes {
		if dbType == knownType {
			return true
		}
	}
	return false
}

func defaultFlags() *Flags {
	return &Flags{
		ConfigFile:             defaultConfigFile,
		AppDir:                 DefaultAppDir,
		LogDir:                 defaultLogDir,
		DBType:                 defaultDBType,
		DatabaseCacheMiB:       defaultDatabaseCacheMiB,
		MaxMempoolTransactions: defaultMaxMempoolTransactions,
		MaxBlockTransactions:   defaultMaxBlockTransactions,
		DebugLevel:             defaultLogLevel,
	}
}

// LoadConfig initializes and parses the config using a config file and
// command line options.
func LoadConfig() (*Config, error) {
	return loadConfig(os.Args[1:])
}

// loadConfig initializes and parses the config using a config file and command
// line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for an alternative config file
//  3. Load configuration file overwriting defaults with any specified options
//  4. Parse CLI options and overwrite/add any specified options
//
// The above results in dagd functioning properly without any config settings
// while still allowing the user to override settings with config files and
// command line options. Command line options always take precedence.
func loadConfig(args []string) (*Config, error) {
	cfgFlags := defaultFlags()

	// Pre-parse the command line options to see if an alternative config
	// file or the version flag was specified. Any errors aside from the
	// help message error can be ignored here since they will be caught by
	// the final parse below.
	preCfg := *cfgFlags
	preParser := flags.NewParser(&preCfg, flags.HelpFlag)
	_, err := preParser.ParseArgs(args)
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stderr, err)
			return nil, err
		}
	}

	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	usageMessage := fmt.Sprintf("Use %s -h to show usage", appName)
	if preCfg.ShowVersion {
		fmt.Println(appName, "version", version.Version())
		os.Exit(0)
	}

	// A custom app directory moves the default config file with it
	configFile := preCfg.ConfigFile
	if configFile == defaultConfigFile && preCfg.AppDir != DefaultAppDir {
		configFile = filepath.Join(cleanAndExpandPath(preCfg.AppDir), defaultConfigFilename)
	}
	configFile = cleanAndExpandPath(configFile)

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		err := createDefaultConfigFile(configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating a default config file: %s\n", err)
		}
	}

	parser := flags.NewParser(cfgFlags, flags.Default)
	err = flags.NewIniParser(parser).ParseFile(configFile)
	if err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			fmt.Fprintf(os.Stderr, "Error parsing config file: %s\n", err)
			fmt.Fprintln(os.Stderr, usageMessage)
			return nil, errors.Wrapf(err, "error parsing config file %s", configFile)
		}
	}

	// Parse command line options again to ensure they take precedence.
	_, err = parser.ParseArgs(args)
	if err != nil {
		var flagsErr *flags.Error
		if !errors.As(err, &flagsErr) || flagsErr.Type != flags.ErrHelp {
			fmt.Fprintln(os.Stderr, usageMessage)
		}
		return nil, err
	}
	cfg := &Config{Flags: cfgFlags}
	cfg.ConfigFile = configFile

	err = cfg.validate(parser)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usageMessage)
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) validate(parser *flags.Parser) error {
	funcName := "loadConfig"

	err := cfg.ResolveNetwork(parser)
	if err != nil {
		return errors.Wrap(err, funcName)
	}

	// Namespace the data and log directories per network
	cfg.AppDir = cleanAndExpandPath(cfg.AppDir)
	cfg.DataDir = filepath.Join(cfg.AppDir, cfg.NetParams().Name, defaultDataDirname)
	if cfg.LogDir == defaultLogDir && cfg.AppDir != DefaultAppDir {
		cfg.LogDir = filepath.Join(cfg.AppDir, defaultLogDirname)
	}
	cfg.LogDir = filepath.Join(cleanAndExpandPath(cfg.LogDir), cfg.NetParams().Name)

	// Special show command to list supported subsystems and exit.
	if cfg.DebugLevel == "show" {
		fmt.Println("Supported subsystems", logger.SupportedSubsystems())
		os.Exit(0)
	}

	err = logger.ParseAndSetLogLevels(cfg.DebugLevel)
	if err != nil {
		return errors.Errorf("%s: %s", funcName, err)
	}

	if !validDBType(cfg.DBType) {
		return errors.Errorf("%s: the specified database type [%s] is invalid -- supported types %s",
			funcName, cfg.DBType, knownDBTypes)
	}
	if cfg.DatabaseCacheMiB <= 0 {
		return errors.Errorf("%s: the dbcache option must be positive -- parsed [%d]", funcName, cfg.DatabaseCacheMiB)
	}

	if cfg.Generate && cfg.MiningAddr == "" {
		return errors.Errorf("%s: the generate flag is set, but there is no mining address specified", funcName)
	}
	if cfg.GenerateInterval < 0 {
		return errors.Errorf("%s: the generateinterval option may not be negative -- parsed [%s]",
			funcName, cfg.GenerateInterval)
	}
	if cfg.GenerateInterval == 0 {
		cfg.GenerateInterval = cfg.NetParams().TargetTimePerBlock
	}

	if cfg.MaxMempoolTransactions <= 0 || cfg.MaxBlockTransactions <= 0 {
		return errors.Errorf("%s: the maxmempooltx and maxblocktx options must be positive", funcName)
	}

	if cfg.QueryListen == "" {
		cfg.QueryListen = net.JoinHostPort("127.0.0.1", cfg.NetParams().DefaultQueryPort)
	}
	_, _, err = net.SplitHostPort(cfg.QueryListen)
	if err != nil {
		return errors.Wrapf(err, "%s: invalid querylisten address %s", funcName, cfg.QueryListen)
	}
	return nil
}

// LogFile returns the path of the main log file
func (cfg *Config) LogFile() string {
	return filepath.Join(cfg.LogDir, defaultLogFilename)
}

// ErrLogFile returns the path of the error log file
func (cfg *Config) ErrLogFile() string {
	return filepath.Join(cfg.LogDir, defaultErrLogFilename)
}

// createDefaultConfigFile writes a commented sample configuration to
// destinationPath
func createDefaultConfigFile(destinationPath string) error {
	// Create the destination directory if it does not exists
	err := os.MkdirAll(filepath.Dir(destinationPath), 0700)
	if err != nil {
		return errors.WithStack(err)
	}

	err = os.WriteFile(destinationPath, []byte(sampleConfig), 0600)
	return errors.WithStack(err)
}
