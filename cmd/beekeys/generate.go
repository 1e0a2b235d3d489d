package main

import (
	"encoding/hex"
	"fmt"
)

func generate(conf *generateConfig) error {
	mnemonic := conf.Import
	if mnemonic == "" {
		var err error
		mnemonic, err = createMnemonic()
		if err != nil {
			return err
		}
	}

	privateKey, err := keyFromMnemonic(mnemonic)
	if err != nil {
		return err
	}
	address := p2pkhAddress(privateKey.PubKey(), conf.NetParams())

	if conf.Mnemonic {
		fmt.Printf("Mnemonic: %s\n", mnemonic)
	}
	fmt.Printf("Private key (hex): %s\n", hex.EncodeToString(privateKey.Serialize()))
	fmt.Printf("Public key (hex): %s\n", hex.EncodeToString(privateKey.PubKey().SerializeCompressed()))
	fmt.Printf("Address (%s): %s\n", conf.NetParams().Name, address)
	return nil
}
