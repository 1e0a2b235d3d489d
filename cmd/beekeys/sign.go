package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/beevm/beevm/domain/txscript"
)

// scriptMessage returns the tokens a signature check placed at the end of
// scriptText verifies against.
func scriptMessage(scriptText string) []string {
	tokens := strings.Fields(scriptText)
	return tokens[txscript.LastCodeSeparator(tokens):]
}

func sign(conf *signConfig) error {
	privateKeyHex := conf.PrivateKey
	if privateKeyHex == "" {
		secret, err := readSecret("Private key (hex): ")
		if err != nil {
			return err
		}
		privateKeyHex = strings.TrimSpace(string(secret))
	}
	privateKey, err := parsePrivateKey(privateKeyHex)
	if err != nil {
		return err
	}

	signature, err := txscript.SignScript(scriptMessage(conf.Message), privateKey,
		txscript.SigHashType(conf.HashType))
	if err != nil {
		return err
	}

	fmt.Printf("Signature: %s\n", signature)
	return nil
}

func message(conf *messageConfig) error {
	hash := txscript.CalcScriptHash(scriptMessage(conf.Message))
	fmt.Printf("Message hash: %s\n", hex.EncodeToString(hash[:]))
	return nil
}
