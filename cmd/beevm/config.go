package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevm/beevm/domain/txscript"
	"github.com/beevm/beevm/infrastructure/logger"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

const (
	defaultLogLevel       = "info"
	defaultLogFilename    = "beevm.log"
	defaultErrLogFilename = "beevm_err.log"
)

type config struct {
	Script          string `long:"script" short:"s" description:"Script to execute, tokens separated by whitespace"`
	File            string `long:"file" short:"f" description:"Read the script to execute from this file"`
	LogLevel        string `long:"loglevel" short:"d" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical}. Use <subsystem>=<level>,<subsystem2>=<level>,... to set the level of individual subsystems, or show to list the subsystems"`
	LogDir          string `long:"logdir" description:"Directory to write log files to. Logs go to stdout when not set"`
	StrictEncoding  bool   `long:"strictenc" description:"Only accept the ALL, NONE and SINGLE signature hash types, optionally with ANYONECANPAY"`
	LowS            bool   `long:"lows" description:"Reject signatures with an S value above half the curve order"`
	NullDummy       bool   `long:"nulldummy" description:"Require the OP_CHECKMULTISIG dummy argument to be 0"`
	AllowUnclosedIf bool   `long:"allow-unclosed-if" description:"Accept scripts that end inside an OP_IF block"`
	SigCacheSize    uint   `long:"sigcache-size" description:"Maximum number of entries in the signature verification cache (0 disables it)"`
	Quiet           bool   `long:"quiet" short:"q" description:"Only print the final stacks"`

	scriptText string
}

func parseConfig() (*config, error) {
	cfg := &config{
		LogLevel: defaultLogLevel,
	}
	parser := flags.NewParser(cfg, flags.PrintErrors|flags.HelpFlag)
	parser.Usage = "[OPTIONS] [script tokens...]"
	args, err := parser.Parse()
	if err != nil {
		var flagsErr *flags.Error
		if ok := errors.As(err, &flagsErr); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		return nil, err
	}

	// Special show command to list supported subsystems and exit.
	if cfg.LogLevel == "show" {
		fmt.Println("Supported subsystems", logger.SupportedSubsystems())
		os.Exit(0)
	}

	err = cfg.resolveScript(args)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveScript picks the script text from exactly one of --script, --file
// or the positional arguments.
func (cfg *config) resolveScript(args []string) error {
	sources := 0
	if cfg.Script != "" {
		sources++
		cfg.scriptText = cfg.Script
	}
	if cfg.File != "" {
		sources++
		content, err := os.ReadFile(cfg.File)
		if err != nil {
			return errors.Wrapf(err, "cannot read script file %s", cfg.File)
		}
		cfg.scriptText = string(content)
	}
	if len(args) > 0 {
		sources++
		cfg.scriptText = strings.Join(args, " ")
	}

	switch sources {
	case 0:
		return errors.New("no script given: use --script, --file or pass the tokens as arguments")
	case 1:
		return nil
	default:
		return errors.New("only one of --script, --file or script arguments may be given")
	}
}

func (cfg *config) engineOptions() *txscript.EngineOptions {
	opts := &txscript.EngineOptions{
		AllowUnclosedConditional: cfg.AllowUnclosedIf,
	}
	if cfg.StrictEncoding {
		opts.Flags |= txscript.ScriptVerifyStrictEncoding
	}
	if cfg.LowS {
		opts.Flags |= txscript.ScriptVerifyLowS
	}
	if cfg.NullDummy {
		opts.Flags |= txscript.ScriptVerifyNullDummy
	}
	return opts
}

func (cfg *config) cryptoContext() *txscript.CryptoContext {
	if cfg.SigCacheSize == 0 {
		return txscript.NewCryptoContext(nil)
	}
	return txscript.NewCryptoContext(txscript.NewSigCache(cfg.SigCacheSize))
}

// initLog attaches the log outputs and applies --loglevel. Subsystem levels
// do the filtering, so stdout accepts every level.
func (cfg *config) initLog() error {
	if cfg.LogDir != "" {
		logger.InitLog(filepath.Join(cfg.LogDir, defaultLogFilename),
			filepath.Join(cfg.LogDir, defaultErrLogFilename))
	} else {
		logger.InitLogStdout(logger.LevelTrace)
	}
	return logger.ParseAndSetDebugLevels(cfg.LogLevel)
}
