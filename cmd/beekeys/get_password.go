package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

// readSecret prompts for a secret on the terminal and reads it without echo.
// The terminal state is restored if the user interrupts the prompt.
func readSecret(prompt string) ([]byte, error) {
	stdin := int(os.Stdin.Fd())
	if !term.IsTerminal(stdin) {
		return nil, errors.New("standard input is not a terminal, pass the key with --private-key")
	}
	savedState, err := term.GetState(stdin)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)
	go func() {
		<-interrupt
		_ = term.Restore(stdin, savedState)
		os.Exit(1)
	}()

	fmt.Print(prompt)
	secret, err := term.ReadPassword(stdin)
	fmt.Println()
	if err != nil {
		return nil, errors.Wrap(err, "cannot read from terminal")
	}
	return secret, nil
}
