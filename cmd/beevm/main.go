package main

import (
	"fmt"
	"io"
	"os"

	"github.com/beevm/beevm/domain/txscript"
	"github.com/beevm/beevm/infrastructure/logger"
	"github.com/beevm/beevm/util/panics"
	"github.com/pkg/errors"
)

func main() {
	defer panics.HandlePanic(log)

	cfg, err := parseConfig()
	if err != nil {
		printErrorAndExit(errors.Wrap(err, "error parsing command-line arguments"))
	}
	err = cfg.initLog()
	if err != nil {
		printErrorAndExit(errors.Wrap(err, "invalid log level"))
	}
	defer logger.BackendLog.Close()

	tokens, err := txscript.ParseScript(cfg.scriptText)
	if err != nil {
		panics.Exit(log, err.Error())
	}

	var trace io.Writer = os.Stdout
	if cfg.Quiet {
		trace = io.Discard
	}
	vm := txscript.NewEngine(tokens, cfg.cryptoContext(), cfg.engineOptions())
	dstack, astack, err := run(vm, trace)
	if err != nil {
		panics.Exit(log, errors.Wrap(err, "script execution failed").Error())
	}

	printStacks(os.Stdout, dstack, astack)
}

// run steps vm to completion, writing every token it goes through to trace.
func run(vm *txscript.Engine, trace io.Writer) (*txscript.Stack, *txscript.Stack, error) {
	onEnd := logger.LogAndMeasureExecutionTime(log, "run")
	defer onEnd()

	for {
		pc, token, err := vm.DisasmPC()
		if err == nil {
			fmt.Fprintf(trace, "%04d %s\n", pc, token)
		}

		done, err := vm.Step()
		if err != nil {
			log.Debugf("Script failed at token %d: %s", pc, err)
			return nil, nil, err
		}
		if done {
			break
		}
	}

	dstack, astack := vm.Stacks()
	log.Debugf("Script finished with %d items on the main stack", dstack.Depth())
	return dstack, astack, nil
}

// printErrorAndExit reports errors that happen before logging is set up.
func printErrorAndExit(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	logger.BackendLog.Close()
	os.Exit(1)
}
