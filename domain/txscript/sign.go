// Copyright (c) 2013-2015 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/pkg/errors"
)

// RawScriptSignature returns the serialized DER signature of hash, with
// hashType appended to it.
func RawScriptSignature(hash [32]byte, hashType SigHashType, key *btcec.PrivateKey) ([]byte, error) {
	if key == nil {
		return nil, errors.New("cannot sign without a private key")
	}
	signature := ecdsa.Sign(key, hash[:])
	return append(signature.Serialize(), byte(hashType)), nil
}

// SignScript signs the message of tokens with key and returns the hex
// encoded signature token, DER body followed by the hash type byte. tokens
// must be the script a signature check will see: the part after the last
// relevant OP_CODESEPARATOR, without the signature itself.
func SignScript(tokens []string, key *btcec.PrivateKey, hashType SigHashType) (string, error) {
	sig, err := RawScriptSignature(CalcScriptHash(tokens), hashType, key)
	if err != nil {
		return "", errors.Wrap(err, "cannot sign script")
	}
	return hex.EncodeToString(sig), nil
}
