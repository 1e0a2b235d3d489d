// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/pkg/errors"
)

// SigHashType represents hash type bits at the end of a signature.
type SigHashType uint8

// Hash type bits from the end of a signature.
const (
	SigHashAll          SigHashType = 0x1
	SigHashNone         SigHashType = 0x2
	SigHashSingle       SigHashType = 0x3
	SigHashAnyOneCanPay SigHashType = 0x80
)

// isStandardSigHashType returns whether the hash type is one of ALL, NONE or
// SINGLE, optionally combined with ANYONECANPAY.
func isStandardSigHashType(hashType SigHashType) bool {
	switch hashType & ^SigHashAnyOneCanPay {
	case SigHashAll, SigHashNone, SigHashSingle:
		return true
	default:
		return false
	}
}

// halfOrder is used to tame ECDSA malleability (see BIP0062).
var halfOrder = new(big.Int).Rsh(btcec.S256().N, 1)

// parsedSignature is a signature operand split into its DER body and its
// trailing hash type byte.
type parsedSignature struct {
	signature *ecdsa.Signature
	der       []byte
	hashType  SigHashType
}

// parsedPubKey is a public key operand along with its serialized bytes.
type parsedPubKey struct {
	key        *btcec.PublicKey
	serialized []byte
}

// decodeHexOperand decodes a hex encoded crypto operand, accepting an
// optional 0x prefix.
func decodeHexOperand(token string) ([]byte, error) {
	return hex.DecodeString(strings.TrimPrefix(token, hexPrefix))
}

// CryptoContext carries the elliptic curve configuration used by the
// signature checking opcodes. The zero value and a nil context are both
// usable and verify every signature from scratch.
type CryptoContext struct {
	sigCache *SigCache
}

// NewCryptoContext returns a context that consults sigCache before running
// ECDSA verification. sigCache may be nil.
func NewCryptoContext(sigCache *SigCache) *CryptoContext {
	return &CryptoContext{sigCache: sigCache}
}

// ParsePublicKey parses a hex encoded SEC1 secp256k1 public key, compressed
// or uncompressed.
func (c *CryptoContext) ParsePublicKey(token string) (*btcec.PublicKey, error) {
	pubKey, err := c.parsePubKey(token)
	if err != nil {
		return nil, err
	}
	return pubKey.key, nil
}

func (c *CryptoContext) parsePubKey(token string) (*parsedPubKey, error) {
	pubKeyBytes, err := decodeHexOperand(token)
	if err != nil {
		str := fmt.Sprintf("public key %q is not hex encoded", token)
		return nil, scriptError(ErrInvalidPublicKey, str)
	}
	pubKey, err := btcec.ParsePubKey(pubKeyBytes)
	if err != nil {
		str := fmt.Sprintf("cannot parse public key %q: %s", token, err)
		return nil, scriptError(ErrInvalidPublicKey, str)
	}
	return &parsedPubKey{key: pubKey, serialized: pubKeyBytes}, nil
}

// parseSignature parses a hex encoded DER signature followed by a single
// hash type byte.
func (c *CryptoContext) parseSignature(token string) (*parsedSignature, error) {
	sigBytes, err := decodeHexOperand(token)
	if err != nil {
		str := fmt.Sprintf("signature %q is not hex encoded", token)
		return nil, scriptError(ErrInvalidSignature, str)
	}
	if len(sigBytes) == 0 {
		return nil, scriptError(ErrInvalidSignature, "signature is empty")
	}

	hashType := SigHashType(sigBytes[len(sigBytes)-1])
	der := sigBytes[:len(sigBytes)-1]
	signature, err := ecdsa.ParseDERSignature(der)
	if err != nil {
		str := fmt.Sprintf("cannot parse signature %q: %s", token, err)
		return nil, scriptError(ErrInvalidSignature, str)
	}
	return &parsedSignature{signature: signature, der: der, hashType: hashType}, nil
}

// verify checks sig against hash and pubKey. Valid results are stored in the
// signature cache when the context has one.
func (c *CryptoContext) verify(sig *parsedSignature, pubKey *parsedPubKey, hash [32]byte) bool {
	var cache *SigCache
	if c != nil {
		cache = c.sigCache
	}
	if cache != nil && cache.Exists(hash, sig.der, pubKey.serialized) {
		return true
	}

	valid := sig.signature.Verify(hash[:], pubKey.key)
	if valid && cache != nil {
		cache.Add(hash, sig.der, pubKey.serialized)
	}
	return valid
}

// checkSignatureEncoding applies the optional encoding rules selected by the
// engine flags to an already parsed signature.
func (vm *Engine) checkSignatureEncoding(sig *parsedSignature) error {
	if vm.hasFlag(ScriptVerifyStrictEncoding) && !isStandardSigHashType(sig.hashType) {
		str := fmt.Sprintf("invalid hash type 0x%x", uint8(sig.hashType))
		return scriptError(ErrInvalidSignature, str)
	}

	if vm.hasFlag(ScriptVerifyLowS) {
		s, err := derSignatureS(sig.der)
		if err != nil {
			return scriptError(ErrInvalidSignature, err.Error())
		}
		if s.Cmp(halfOrder) > 0 {
			return scriptError(ErrInvalidSignature,
				"signature is not canonical due to unnecessarily high S value")
		}
	}
	return nil
}

// derSignatureS extracts the S value of a DER signature.
//
// 0x30 <total length> 0x02 <length of R> <R> 0x02 <length of S> <S>
func derSignatureS(der []byte) (*big.Int, error) {
	const rLenOffset = 3
	if len(der) <= rLenOffset {
		return nil, errors.New("malformed signature: too short")
	}
	sLenOffset := rLenOffset + int(der[rLenOffset]) + 2
	if len(der) <= sLenOffset {
		return nil, errors.New("malformed signature: S length is missing")
	}
	sOffset := sLenOffset + 1
	sEnd := sOffset + int(der[sLenOffset])
	if sEnd > len(der) {
		return nil, errors.New("malformed signature: S is out of bounds")
	}
	return new(big.Int).SetBytes(der[sOffset:sEnd]), nil
}

// signatureMessage returns the hash signatures executed at this point must
// cover: the tokens after the last executed OP_CODESEPARATOR, with every
// token equal to one of sigTokens removed.
func (vm *Engine) signatureMessage(sigTokens ...string) [32]byte {
	return CalcScriptHash(SignatureMessage(vm.tokens[vm.lastCodeSep:], sigTokens...))
}

// opcodeCheckSig treats the top 2 items on the stack as a public key and a
// signature and replaces them with a bool which indicates if the signature
// was successfully verified against the script message.
//
// Stack transformation: [... pubkey signature] -> [... bool]
func opcodeCheckSig(op *opcode, vm *Engine) error {
	if err := requireDepth(op, vm.dstack, 2); err != nil {
		return err
	}
	sigToken, _ := vm.dstack.Pop()
	pubKeyToken, _ := vm.dstack.Pop()

	pubKey, err := vm.ctx.parsePubKey(pubKeyToken)
	if err != nil {
		return err
	}
	sig, err := vm.ctx.parseSignature(sigToken)
	if err != nil {
		return err
	}
	if err := vm.checkSignatureEncoding(sig); err != nil {
		return err
	}

	hash := vm.signatureMessage(sigToken)
	valid := vm.ctx.verify(sig, pubKey, hash)
	log.Tracef("%s", newLogClosure(func() string {
		return fmt.Sprintf("%s: message %x, valid %t", op.name, hash, valid)
	}))

	vm.dstack.Push(fromBool(valid))
	return nil
}

// opcodeCheckSigVerify is a combination of opcodeCheckSig and opcodeVerify.
func opcodeCheckSigVerify(op *opcode, vm *Engine) error {
	err := opcodeCheckSig(op, vm)
	if err == nil {
		err = abstractVerify(op, vm, ErrVerify)
	}
	return err
}

// popCount pops a key or signature count for OP_CHECKMULTISIG.
func (vm *Engine) popCount(op *opcode, ordinal int, what string) (int, error) {
	value, err := vm.popValue(op, ordinal)
	if err != nil {
		return 0, err
	}
	n, err := ToInt32(value)
	if err != nil || n < 0 {
		str := fmt.Sprintf("%s: invalid number of %s %q", op.name, what, value)
		return 0, scriptError(ErrInvalidValue, str)
	}
	return int(n), nil
}

// opcodeCheckMultiSig treats the top item on the stack as an integer number
// of public keys, followed by that many entries as raw data representing the
// public keys, followed by the integer number of signatures, followed by that
// many entries as raw data representing the signatures.
//
// Due to a bug in the original Satoshi client implementation, an additional
// dummy argument is also required by the consensus rules. It is popped and
// discarded.
//
// All of the aforementioned stack items are replaced with a bool which
// indicates if the requisite number of signatures were successfully verified.
//
// Stack transformation:
// [... dummy [sig ...] numsigs [pubkey ...] numpubkeys] -> [... bool]
func opcodeCheckMultiSig(op *opcode, vm *Engine) error {
	if err := requireDepth(op, vm.dstack, 4); err != nil {
		return err
	}

	numPubKeys, err := vm.popCount(op, 1, "public keys")
	if err != nil {
		return err
	}
	if err := requireDepth(op, vm.dstack, numPubKeys+2); err != nil {
		return err
	}

	pubKeys := make([]*parsedPubKey, 0, numPubKeys)
	for i := 0; i < numPubKeys; i++ {
		pubKeyToken, _ := vm.dstack.Pop()
		pubKey, err := vm.ctx.parsePubKey(pubKeyToken)
		if err != nil {
			return err
		}
		pubKeys = append(pubKeys, pubKey)
	}

	numSignatures, err := vm.popCount(op, numPubKeys+2, "signatures")
	if err != nil {
		return err
	}
	if numSignatures > numPubKeys {
		str := fmt.Sprintf("%s: more signatures than pubkeys: %d > %d",
			op.name, numSignatures, numPubKeys)
		return scriptError(ErrInvalidValue, str)
	}
	if err := requireDepth(op, vm.dstack, numSignatures+1); err != nil {
		return err
	}

	sigTokens := make([]string, 0, numSignatures)
	signatures := make([]*parsedSignature, 0, numSignatures)
	for i := 0; i < numSignatures; i++ {
		sigToken, _ := vm.dstack.Pop()
		sig, err := vm.ctx.parseSignature(sigToken)
		if err != nil {
			return err
		}
		if err := vm.checkSignatureEncoding(sig); err != nil {
			return err
		}
		sigTokens = append(sigTokens, sigToken)
		signatures = append(signatures, sig)
	}

	dummy, _ := vm.dstack.Pop()
	if vm.hasFlag(ScriptVerifyNullDummy) && dummy != "0" && dummy != "" {
		str := fmt.Sprintf("%s: multisig dummy argument is %q instead of 0",
			op.name, dummy)
		return scriptError(ErrInvalidValue, str)
	}

	hash := vm.signatureMessage(sigTokens...)

	// Each signature is matched against the public keys that follow the
	// last matched one, so a key never satisfies two signatures.
	validSigs := 0
	pubKeyIdx := 0
	for _, sig := range signatures {
		for pubKeyIdx < len(pubKeys) {
			pubKey := pubKeys[pubKeyIdx]
			pubKeyIdx++
			if vm.ctx.verify(sig, pubKey, hash) {
				validSigs++
				break
			}
		}
	}
	log.Tracef("%s", newLogClosure(func() string {
		return fmt.Sprintf("%s: message %x, %d of %d signatures valid",
			op.name, hash, validSigs, numSignatures)
	}))

	vm.dstack.Push(fromBool(validSigs >= numSignatures))
	return nil
}

// opcodeCheckMultiSigVerify is a combination of opcodeCheckMultiSig and
// opcodeVerify.
func opcodeCheckMultiSigVerify(op *opcode, vm *Engine) error {
	err := opcodeCheckMultiSig(op, vm)
	if err == nil {
		err = abstractVerify(op, vm, ErrVerify)
	}
	return err
}
