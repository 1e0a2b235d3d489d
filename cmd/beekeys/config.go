package main

import (
	"os"

	"github.com/beevm/beevm/infrastructure/config"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

const (
	generateSubCmd = "generate"
	signSubCmd     = "sign"
	messageSubCmd  = "message"
)

type configFlags struct{}

type generateConfig struct {
	Mnemonic bool   `long:"mnemonic" description:"Print the mnemonic the key was derived from"`
	Import   string `long:"import" short:"i" description:"Derive the key from this mnemonic instead of generating a new one"`
	config.NetworkFlags
}

type signConfig struct {
	PrivateKey string `long:"private-key" short:"k" description:"The private key of the signer (encoded in hex). Prompted for when not given"`
	Message    string `long:"message" short:"m" description:"The script text to sign, without the signature" required:"true"`
	HashType   uint8  `long:"hash-type" description:"Hash type byte appended to the signature" default:"1"`
}

type messageConfig struct {
	Message string `long:"message" short:"m" description:"The script text to hash, without any signature" required:"true"`
}

func parseCommandLine() (subCommand string, config interface{}) {
	cfg := &configFlags{}
	parser := flags.NewParser(cfg, flags.PrintErrors|flags.HelpFlag)

	generateConf := &generateConfig{}
	parser.AddCommand(generateSubCmd, "Generates a new key pair",
		"Generates a secp256k1 key pair from a fresh BIP39 mnemonic and prints its keys and address", generateConf)

	signConf := &signConfig{}
	parser.AddCommand(signSubCmd, "Signs a script",
		"Prints the signature token a signature check at the end of the given script accepts", signConf)

	messageConf := &messageConfig{}
	parser.AddCommand(messageSubCmd, "Prints the message hash of a script",
		"Prints the double SHA-256 a signature check at the end of the given script verifies against", messageConf)

	_, err := parser.Parse()

	if err != nil {
		var flagsErr *flags.Error
		if ok := errors.As(err, &flagsErr); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		} else {
			os.Exit(1)
		}
		return "", nil
	}

	switch parser.Command.Active.Name {
	case generateSubCmd:
		err := generateConf.ResolveNetwork(parser)
		if err != nil {
			os.Exit(1)
		}
		config = generateConf
	case signSubCmd:
		config = signConf
	case messageSubCmd:
		config = messageConf
	}

	return parser.Command.Active.Name, config
}
