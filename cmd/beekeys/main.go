package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
)

func main() {
	subCmd, config := parseCommandLine()

	var err error
	switch subCmd {
	case generateSubCmd:
		err = generate(config.(*generateConfig))
	case signSubCmd:
		err = sign(config.(*signConfig))
	case messageSubCmd:
		err = message(config.(*messageConfig))
	default:
		err = errors.Errorf("Unknown sub-command '%s'\n", subCmd)
	}

	if err != nil {
		printErrorAndExit(err)
	}
}

func printErrorAndExit(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}
