package logger

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/jrick/logrotate/rotator"
	"github.com/pkg/errors"
)

// defaultFlags specifies changes to the default logger behavior. It is set
// from the LOGFLAGS environment variable. New logger backends can override
// these default flags using NewBackendWithFlags.
var defaultFlags = getDefaultFlags()

// Flags to modify Backend's behavior.
const (
	// LogFlagLongFile modifies the logger output to include full path and line number
	// of the logging callsite, e.g. /a/b/c/main.go:123.
	LogFlagLongFile uint32 = 1 << iota

	// LogFlagShortFile modifies the logger output to include filename and line number
	// of the logging callsite, e.g. main.go:123. takes precedence over LogFlagLongFile.
	LogFlagShortFile
)

// Read logger flags from the LOGFLAGS environment variable. Multiple flags can
// be set at once, separated by commas.
func getDefaultFlags() (flags uint32) {
	for _, f := range strings.Split(os.Getenv("LOGFLAGS"), ",") {
		switch f {
		case "longfile":
			flags |= LogFlagLongFile
		case "shortfile":
			flags |= LogFlagShortFile
		}
	}
	return
}

const (
	defaultThresholdKB = 10 * 1000 // 10 MB logs by default.
	defaultMaxRolls    = 4         // keep 4 last logs by default.
)

type logWriter struct {
	io.WriteCloser
	level Level
}

// Backend is a logging backend. Subsystem loggers created from the backend
// write to every writer whose level admits the message. Writes from all
// subsystems are serialized.
type Backend struct {
	flag    uint32
	mtx     sync.Mutex
	writers []logWriter
	closed  bool
}

// NewBackendWithFlags configures a Backend to use the specified flags rather than using
// the package's defaults as determined through the LOGFLAGS environment
// variable.
func NewBackendWithFlags(flags uint32) *Backend {
	return &Backend{flag: flags}
}

// NewBackend creates a new logger backend.
func NewBackend() *Backend {
	return NewBackendWithFlags(defaultFlags)
}

// AddLogFile adds a file which the log will write into on a certain
// log level with the default log rotation settings. It'll create the file if it doesn't exist.
func (b *Backend) AddLogFile(logFile string, logLevel Level) error {
	return b.AddLogFileWithCustomRotator(logFile, logLevel, defaultThresholdKB, defaultMaxRolls)
}

// AddLogFileWithCustomRotator adds a file which the log will write into on a certain
// log level, with the specified log rotation settings.
// It'll create the file if it doesn't exist.
func (b *Backend) AddLogFileWithCustomRotator(logFile string, logLevel Level, thresholdKB int64, maxRolls int) error {
	logDir, _ := filepath.Split(logFile)
	// if the logDir is empty then `logFile` is in the cwd and there's no need to create any directory.
	if logDir != "" {
		err := os.MkdirAll(logDir, 0700)
		if err != nil {
			return errors.Errorf("failed to create log directory: %+v", err)
		}
	}
	r, err := rotator.New(logFile, thresholdKB, false, maxRolls)
	if err != nil {
		return errors.Errorf("failed to create file rotator: %s", err)
	}
	return b.AddLogWriter(r, logLevel)
}

// AddLogWriter adds a type implementing io.WriteCloser which the log will
// write into on a certain log level.
func (b *Backend) AddLogWriter(writer io.WriteCloser, logLevel Level) error {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	if b.closed {
		return errors.New("the logger backend is closed")
	}
	b.writers = append(b.writers, logWriter{WriteCloser: writer, level: logLevel})
	return nil
}

// Close closes every writer of this backend. Messages logged after Close are
// dropped.
func (b *Backend) Close() {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, writer := range b.writers {
		_ = writer.Close()
	}
	b.writers = nil
}

// Logger returns a new logger for a particular subsystem that writes to the
// Backend b. A tag describes the subsystem and is included in all log
// messages. The logger uses the info verbosity level by default.
func (b *Backend) Logger(subsystemTag string) *Logger {
	return &Logger{level: uint32(LevelInfo), tag: subsystemTag, backend: b}
}

// print formats and writes a log entry to every writer admitting level.
// calldepth is used to resolve the callsite when file flags are set.
func (b *Backend) print(level Level, tag string, calldepth int, msg string) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	if b.closed || len(b.writers) == 0 {
		return
	}

	var file string
	var line int
	if b.flag&(LogFlagShortFile|LogFlagLongFile) != 0 {
		file, line = callsite(b.flag, calldepth+1)
	}
	entry := formatHeader(time.Now(), level, tag, file, line)
	entry.WriteString(msg)
	if !strings.HasSuffix(msg, "\n") {
		entry.WriteByte('\n')
	}

	for _, writer := range b.writers {
		if level >= writer.level {
			_, _ = writer.Write(entry.Bytes())
		}
	}
}

func formatHeader(t time.Time, level Level, tag string, file string, line int) *bytes.Buffer {
	buf := &bytes.Buffer{}
	buf.WriteString(t.Format("2006-01-02 15:04:05.000"))
	buf.WriteString(" [")
	buf.WriteString(level.String())
	buf.WriteString("] ")
	buf.WriteString(tag)
	if file != "" {
		buf.WriteByte(' ')
		buf.WriteString(fmt.Sprintf("%s:%d", file, line))
	}
	buf.WriteString(": ")
	return buf
}

// callsite returns the file name and line number of the callsite to the
// subsystem logger.
func callsite(flag uint32, calldepth int) (string, int) {
	_, file, line, ok := runtime.Caller(calldepth)
	if !ok {
		return "???", 0
	}
	if flag&LogFlagShortFile != 0 {
		file = filepath.Base(file)
	}
	return file, line
}
