package logger

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// BackendLog is the logging backend used to create all subsystem loggers.
var BackendLog = NewBackend()

var (
	subsystemLoggers      = make(map[string]*Logger)
	subsystemLoggersMutex sync.Mutex
)

const defaultLogLevel = LevelInfo

// RegisterSubSystem returns the logger of the subsystem with the given tag,
// creating it on BackendLog if this is the first time the tag is seen.
func RegisterSubSystem(subsystem string) *Logger {
	subsystemLoggersMutex.Lock()
	defer subsystemLoggersMutex.Unlock()

	logger, exists := subsystemLoggers[subsystem]
	if !exists {
		logger = BackendLog.Logger(subsystem)
		logger.SetLevel(defaultLogLevel)
		subsystemLoggers[subsystem] = logger
	}
	return logger
}

// InitLog attaches log file and error log file to the backend log and starts it.
func InitLog(logFile, errLogFile string) {
	err := BackendLog.AddLogFile(logFile, LevelTrace)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding log file %s as log rotator for level %s: %s", logFile, LevelTrace, err)
		os.Exit(1)
	}
	err = BackendLog.AddLogFile(errLogFile, LevelWarn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding log file %s as log rotator for level %s: %s", errLogFile, LevelWarn, err)
		os.Exit(1)
	}
	err = BackendLog.AddLogWriter(stdoutWriter{}, LevelInfo)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding stdout to the logger for level %s: %s", LevelInfo, err)
		os.Exit(1)
	}
	err = BackendLog.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting the logger: %s ", err)
		os.Exit(1)
	}
}

// SetLogLevel sets the logging level for provided subsystem. Invalid
// subsystems are ignored. Uninitialized subsystems are dynamically created as
// needed.
func SetLogLevel(subsystemID string, logLevel string) error {
	level, ok := LevelFromString(logLevel)
	if !ok {
		return errors.Errorf("invalid log level %s", logLevel)
	}
	RegisterSubSystem(subsystemID).SetLevel(level)
	return nil
}

// SetLogLevels sets the log level for all subsystem loggers to the passed
// level.
func SetLogLevels(logLevel string) error {
	level, ok := LevelFromString(logLevel)
	if !ok {
		return errors.Errorf("invalid log level %s", logLevel)
	}

	subsystemLoggersMutex.Lock()
	defer subsystemLoggersMutex.Unlock()
	for _, logger := range subsystemLoggers {
		logger.SetLevel(level)
	}
	return nil
}

// SupportedSubsystems returns a sorted slice of the supported subsystems for
// logging purposes.
func SupportedSubsystems() []string {
	subsystemLoggersMutex.Lock()
	defer subsystemLoggersMutex.Unlock()

	subsystems := make([]string, 0, len(subsystemLoggers))
	for subsysID := range subsystemLoggers {
		subsystems = append(subsystems, subsysID)
	}
	sort.Strings(subsystems)
	return subsystems
}

// ParseAndSetLogLevels attempts to parse the specified debug level and set
// the levels accordingly. An appropriate error is returned if anything is
// invalid. The level is either a single level applied to every subsystem or
// a comma separated list of subsystem=level pairs.
func ParseAndSetLogLevels(logLevel string) error {
	if !strings.Contains(logLevel, ",") && !strings.Contains(logLevel, "=") {
		return SetLogLevels(logLevel)
	}

	for _, logLevelPair := range strings.Split(logLevel, ",") {
		if !strings.Contains(logLevelPair, "=") {
			return errors.Errorf("the specified debug level contains an invalid "+
				"subsystem/level pair [%s]", logLevelPair)
		}

		fields := strings.Split(logLevelPair, "=")
		subsysID, levelStr := fields[0], fields[1]
		err := SetLogLevel(subsysID, levelStr)
		if err != nil {
			return err
		}
	}
	return nil
}

// stdoutWriter writes to os.Stdout and leaves it open on Close.
type stdoutWriter struct{}

func (stdoutWriter) Write(p []byte) (int, error) {
	return os.Stdout.Write(p)
}

func (stdoutWriter) Close() error {
	return nil
}
