package panics

import (
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/beevm/beevm/infrastructure/logger"
)

const exitHandlerTimeout = 5 * time.Second

// exitFunc is replaced in tests.
var exitFunc = os.Exit

// HandlePanic recovers panics, writes them to log and exits with code 1.
// It must be deferred directly by the function whose panics it recovers.
func HandlePanic(log *logger.Logger) {
	err := recover()
	if err == nil {
		return
	}

	reason := fmt.Sprintf("Fatal error: %+v", err)
	exit(log, reason, debug.Stack())
}

// Exit prints the given reason to log and exits with code 1.
func Exit(log *logger.Logger, reason string) {
	exit(log, reason, nil)
}

// exit prints the given reason and stack trace (if not nil), waits for the log
// to finish writing, and exits.
func exit(log *logger.Logger, reason string, stackTrace []byte) {
	exitHandlerDone := make(chan struct{})
	go func() {
		log.Criticalf("Exiting: %s", reason)
		if stackTrace != nil {
			log.Criticalf("Stack trace: %s", stackTrace)
		}
		log.Backend().Close()
		close(exitHandlerDone)
	}()

	select {
	case <-time.After(exitHandlerTimeout):
		fmt.Fprintln(os.Stderr, "Couldn't exit gracefully.")
	case <-exitHandlerDone:
	}
	fmt.Fprintln(os.Stderr, reason)
	exitFunc(1)
}
