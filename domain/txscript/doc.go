// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package txscript implements a Bitcoin-style script language over textual
tokens.

A script is a list of whitespace separated tokens. Each token either names an
opcode, such as OP_ADD or OP_CHECKSIG, or is a literal value pushed onto the
data stack. Stack items are always kept as their textual token and are
interpreted by the opcode that consumes them: numeric opcodes parse signed
32-bit base-10 integers, crypto opcodes decode hex public keys and
signatures, and hash opcodes hash the raw token bytes.

Execution Overview

Scripts are executed from the first token to the last with a data stack and an
alt stack. OP_IF, OP_NOTIF, OP_ELSE and OP_ENDIF drive a conditional stack;
while a branch is not executed every other token is skipped, literals
included. A block opened inside such a branch starts out false without
consuming a condition, and OP_ELSE negates the innermost block. Execution stops at the first error, which is always an Error whose
ErrorCode identifies the failure.

Signature checks verify ECDSA secp256k1 signatures over the double SHA-256 of
the script tokens that follow the last executed OP_CODESEPARATOR, concatenated
after removing the signature tokens themselves. SignScript produces
signatures in that format.

Errors

Errors returned by this package are of type txscript.Error. Use IsErrorCode
to test for a specific ErrorCode.
*/
package txscript
