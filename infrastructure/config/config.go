package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/btcsuite/btcutil"
	"github.com/jessevdk/go-flags"
	"github.com/kaspanet/chaintracker/domain/chaintracker/model/externalapi"
	"github.com/kaspanet/chaintracker/domain/chaintracker/utils/hashes"
	"github.com/kaspanet/chaintracker/version"
	"github.com/pkg/errors"
)

const (
	defaultLogFilename    = "chaintracker.log"
	defaultErrLogFilename = "chaintracker_err.log"
	defaultDataDirname    = "data"
	defaultLogDirname     = "logs"

	defaultAnchorLabel    = "genesis"
	defaultConfirmations  = 6
	defaultLogLevel       = "info"
	defaultDBCacheSizeMiB = 16
)

var (
	// DefaultHomeDir is the directory the data and logs directories are
	// created in unless overridden
	DefaultHomeDir = btcutil.AppDataDir("chaintracker", false)
)

// Flags defines the configuration options of the chain tracker replay tool.
type Flags struct {
	ShowVersion    bool   `short:"V" long:"version" description:"Display version information and exit"`
	HeadersFile    string `long:"headers" description:"File of '<hash> <parent hash> <weight>' lines to replay, - for stdin" required:"true"`
	HomeDir        string `long:"homedir" description:"Directory holding the data and logs directories"`
	DataDir        string `long:"datadir" description:"Directory to store the locked blocks in"`
	LogDir         string `long:"logdir" description:"Directory to log output"`
	LogLevel       string `short:"d" long:"loglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems"`
	Confirmations  uint64 `long:"confirmations" description:"Lock every block buried under this many blocks"`
	Anchor         string `long:"anchor" description:"Hash the chain is built upon, a label if --labels is set (default: the zero hash, or the label genesis)"`
	Labels         bool   `long:"labels" description:"Treat hashes in the headers file as labels instead of hex"`
	DBCacheSizeMiB int    `long:"dbcache" description:"LevelDB block cache size in MiB"`
	MetricsListen  string `long:"metrics-listen" description:"Address to serve prometheus metrics on, e.g. localhost:9090"`
}

// Config is the parsed and resolved configuration
type Config struct {
	*Flags

	AnchorHash *externalapi.DomainHash
	LogFile    string
	ErrLogFile string
}

// Parse parses the given command line arguments and returns a config struct.
func Parse(args []string) (*Config, error) {
	cfgFlags := &Flags{
		HomeDir:        DefaultHomeDir,
		LogLevel:       defaultLogLevel,
		Confirmations:  defaultConfirmations,
		DBCacheSizeMiB: defaultDBCacheSizeMiB,
	}
	parser := flags.NewParser(cfgFlags, flags.PrintErrors|flags.HelpFlag)
	_, err := parser.ParseArgs(args)

	// Show the version and exit if the version flag was specified.
	if cfgFlags.ShowVersion {
		appName := filepath.Base(os.Args[0])
		appName = strings.TrimSuffix(appName, filepath.Ext(appName))
		fmt.Println(appName, "version", version.Version())
		os.Exit(0)
	}

	if err != nil {
		return nil, err
	}

	return resolve(cfgFlags)
}

func resolve(cfgFlags *Flags) (*Config, error) {
	cfg := &Config{Flags: cfgFlags}

	cfg.HomeDir = cleanAndExpandPath(cfg.HomeDir)
	if cfg.DataDir == "" {
		cfg.DataDir = filepath.Join(cfg.HomeDir, defaultDataDirname)
	}
	cfg.DataDir = cleanAndExpandPath(cfg.DataDir)
	if cfg.LogDir == "" {
		cfg.LogDir = filepath.Join(cfg.HomeDir, defaultLogDirname)
	}
	cfg.LogDir = cleanAndExpandPath(cfg.LogDir)
	cfg.LogFile = filepath.Join(cfg.LogDir, defaultLogFilename)
	cfg.ErrLogFile = filepath.Join(cfg.LogDir, defaultErrLogFilename)

	cfg.AnchorHash = &externalapi.ZeroHash
	switch {
	case cfg.Labels && cfg.Anchor == "":
		cfg.AnchorHash = hashes.FromLabel(defaultAnchorLabel)
	case cfg.Labels:
		cfg.AnchorHash = hashes.FromLabel(cfg.Anchor)
	case cfg.Anchor != "":
		anchorHash, err := externalapi.NewDomainHashFromString(cfg.Anchor)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid --anchor %s", cfg.Anchor)
		}
		cfg.AnchorHash = anchorHash
	}

	if cfg.Confirmations == 0 {
		return nil, errors.New("--confirmations must be positive")
	}
	if cfg.DBCacheSizeMiB <= 0 {
		return nil, errors.New("--dbcache must be positive")
	}

	return cfg, nil
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		homeDir := filepath.Dir(DefaultHomeDir)
		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but the variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}
