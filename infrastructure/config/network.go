package config

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

// Params defines the address parameters of a network.
type Params struct {
	// Name is the name of the network.
	Name string

	// PubKeyHashAddrID is the version byte of pay-to-pubkey-hash addresses.
	PubKeyHashAddrID byte
}

// MainnetParams defines the parameters of the main network.
var MainnetParams = Params{
	Name:             "mainnet",
	PubKeyHashAddrID: 0x00,
}

// TestnetParams defines the parameters of the test network.
var TestnetParams = Params{
	Name:             "testnet",
	PubKeyHashAddrID: 0x6f,
}

// SimnetParams defines the parameters of the simulation test network.
var SimnetParams = Params{
	Name:             "simnet",
	PubKeyHashAddrID: 0x3f,
}

// NetworkFlags selects the network addresses are encoded for. Embed it in a
// go-flags options struct and call ResolveNetwork after parsing.
type NetworkFlags struct {
	Testnet bool `long:"testnet" description:"Encode addresses for the test network"`
	Simnet  bool `long:"simnet" description:"Encode addresses for the simulation test network"`

	ActiveNetParams *Params
}

// ResolveNetwork sets ActiveNetParams from the parsed flags, defaulting to
// mainnet. Selecting both testnet and simnet is an error, which is also
// printed along with the usage text when parser is not nil.
func (networkFlags *NetworkFlags) ResolveNetwork(parser *flags.Parser) error {
	selected := make([]*Params, 0, 1)
	if networkFlags.Testnet {
		selected = append(selected, &TestnetParams)
	}
	if networkFlags.Simnet {
		selected = append(selected, &SimnetParams)
	}

	switch len(selected) {
	case 0:
		networkFlags.ActiveNetParams = &MainnetParams
	case 1:
		networkFlags.ActiveNetParams = selected[0]
	default:
		err := errors.New("--testnet and --simnet cannot be used together")
		if parser != nil {
			fmt.Fprintln(os.Stderr, err)
			parser.WriteHelp(os.Stderr)
		}
		return err
	}
	return nil
}

// NetParams returns the network selected by ResolveNetwork.
func (networkFlags *NetworkFlags) NetParams() *Params {
	return networkFlags.ActiveNetParams
}
