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
	subsystemLoggersMtx sync.Mutex
	subsystemLoggers    = make(map[string]*Logger)
)

// RegisterSubSystem returns the logger of the given subsystem, creating it
// on the first call.
func RegisterSubSystem(subsystem string) *Logger {
	subsystemLoggersMtx.Lock()
	defer subsystemLoggersMtx.Unlock()

	logger, exists := subsystemLoggers[subsystem]
	if !exists {
		logger = BackendLog.Logger(subsystem)
		subsystemLoggers[subsystem] = logger
	}
	return logger
}

// Get returns the logger of an already registered subsystem.
func Get(subsystem string) (logger *Logger, ok bool) {
	subsystemLoggersMtx.Lock()
	defer subsystemLoggersMtx.Unlock()

	logger, ok = subsystemLoggers[subsystem]
	return
}

// SupportedSubsystems returns a sorted slice of the supported subsystems for
// logging purposes.
func SupportedSubsystems() []string {
	subsystemLoggersMtx.Lock()
	defer subsystemLoggersMtx.Unlock()

	subsystems := make([]string, 0, len(subsystemLoggers))
	for subsysID := range subsystemLoggers {
		subsystems = append(subsystems, subsysID)
	}
	sort.Strings(subsystems)
	return subsystems
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
// level. It also dynamically creates the subsystem loggers as needed, so it
// can be used to initialize the logging system.
func SetLogLevels(logLevel string) error {
	level, ok := LevelFromString(logLevel)
	if !ok {
		return errors.Errorf("invalid log level %s", logLevel)
	}

	subsystemLoggersMtx.Lock()
	defer subsystemLoggersMtx.Unlock()
	for _, logger := range subsystemLoggers {
		logger.SetLevel(level)
	}
	return nil
}

// ParseAndSetDebugLevels applies debugLevel, which is either a single level
// for every subsystem or a comma separated list of SUBSYSTEM=level pairs.
// Only registered subsystems may be named in pairs.
func ParseAndSetDebugLevels(debugLevel string) error {
	if !strings.Contains(debugLevel, "=") {
		return SetLogLevels(debugLevel)
	}

	for _, pair := range strings.Split(debugLevel, ",") {
		fields := strings.Split(pair, "=")
		if len(fields) != 2 {
			return errors.Errorf("the specified debug level contains an "+
				"invalid subsystem/level pair [%s]", pair)
		}
		subsysID, levelName := fields[0], fields[1]
		if _, ok := Get(subsysID); !ok {
			return errors.Errorf("the specified subsystem [%s] is invalid, "+
				"supported subsystems are %s", subsysID, SupportedSubsystems())
		}
		if err := SetLogLevel(subsysID, levelName); err != nil {
			return err
		}
	}
	return nil
}

// InitLog attaches log file and error log file to the backend log.
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
}

type nopCloser struct {
	*os.File
}

func (nopCloser) Close() error { return nil }

// InitLogStdout attaches stdout to the backend log at the given level.
func InitLogStdout(logLevel Level) {
	err := BackendLog.AddLogWriter(nopCloser{os.Stdout}, logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding stdout to the log: %s", err)
		os.Exit(1)
	}
}
