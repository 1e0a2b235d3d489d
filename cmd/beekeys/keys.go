package main

import (
	"encoding/hex"

	"github.com/beevm/beevm/infrastructure/config"
	"github.com/beevm/beevm/util"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcutil/base58"
	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39"
)

func createMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(256)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return bip39.NewMnemonic(entropy)
}

// keyFromMnemonic derives a private key from the first 32 bytes of the BIP39
// seed of mnemonic, with an empty passphrase.
func keyFromMnemonic(mnemonic string) (*btcec.PrivateKey, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, errors.New("invalid mnemonic")
	}
	seed := bip39.NewSeed(mnemonic, "")
	privateKey, _ := btcec.PrivKeyFromBytes(seed[:btcec.PrivKeyBytesLen])
	return privateKey, nil
}

func parsePrivateKey(privateKeyHex string) (*btcec.PrivateKey, error) {
	privateKeyBytes, err := hex.DecodeString(privateKeyHex)
	if err != nil {
		return nil, errors.Wrap(err, "private key is not hex encoded")
	}
	if len(privateKeyBytes) != btcec.PrivKeyBytesLen {
		return nil, errors.Errorf("private key must be %d bytes, got %d",
			btcec.PrivKeyBytesLen, len(privateKeyBytes))
	}
	privateKey, _ := btcec.PrivKeyFromBytes(privateKeyBytes)
	return privateKey, nil
}

// p2pkhAddress returns the Base58Check pay-to-pubkey-hash address of the
// compressed public key on the given network.
func p2pkhAddress(publicKey *btcec.PublicKey, params *config.Params) string {
	return base58.CheckEncode(util.Hash160(publicKey.SerializeCompressed()), params.PubKeyHashAddrID)
}
