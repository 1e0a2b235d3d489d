// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// minScriptTokens is the smallest number of tokens ParseScript accepts.
const minScriptTokens = 3

// ParseScript splits script text into tokens on whitespace. Scripts with
// fewer than three tokens are rejected with ErrInputTooShort.
func ParseScript(text string) ([]string, error) {
	tokens := strings.Fields(text)
	if len(tokens) < minScriptTokens {
		str := fmt.Sprintf("script has %d tokens, at least %d are required",
			len(tokens), minScriptTokens)
		return nil, scriptError(ErrInputTooShort, str)
	}
	return tokens, nil
}

// SignatureMessage returns the tokens a signature is computed over: tokens
// with every token equal to one of sigTokens removed. tokens must already
// start after the last OP_CODESEPARATOR executed before the signature check.
func SignatureMessage(tokens []string, sigTokens ...string) []string {
	message := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if !containsToken(sigTokens, token) {
			message = append(message, token)
		}
	}
	return message
}

func containsToken(tokens []string, token string) bool {
	for _, t := range tokens {
		if t == token {
			return true
		}
	}
	return false
}

// CalcScriptHash returns the double SHA-256 of the concatenated bytes of
// tokens. This is the message signature checking opcodes verify against.
func CalcScriptHash(tokens []string) [32]byte {
	hasher := sha256.New()
	for _, token := range tokens {
		hasher.Write([]byte(token))
	}
	var first [32]byte
	copy(first[:], hasher.Sum(nil))
	return sha256.Sum256(first[:])
}

// LastCodeSeparator returns the index of the first token after the last
// OP_CODESEPARATOR in tokens, or 0 when there is none. It is the start of the
// message seen by a signature check placed after every separator in the
// script.
func LastCodeSeparator(tokens []string) int {
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i] == opcodeArray[OpCodeSeparator].name {
			return i + 1
		}
	}
	return 0
}
