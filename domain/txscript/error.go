// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorCode identifies a kind of script error.
type ErrorCode int

// These constants are used to identify a specific Error.
const (
	// ErrMissingValue is returned when an opcode needs a single operand
	// that is not on the stack, or when a positional read falls outside
	// the stack.
	ErrMissingValue ErrorCode = iota

	// ErrMissingValues is returned when an opcode that validates its
	// operands as a group finds fewer items on the stack than it needs.
	ErrMissingValues

	// ErrStackEmpty is returned when OP_IF or OP_NOTIF is executed on an
	// empty stack.
	ErrStackEmpty

	// ErrNumberNotInRange is returned when a stack item is used as a number
	// but is not a base-10 integer within the signed 32-bit range, or when
	// an arithmetic result falls outside that range.
	ErrNumberNotInRange

	// ErrVerify is returned when OP_VERIFY, or the verify step of one of
	// the *VERIFY opcodes, sees a value other than 1.
	ErrVerify

	// ErrUnbalancedConditional is returned when OP_ELSE or OP_ENDIF is
	// encountered without a matching OP_IF, or when a script ends with an
	// open conditional block.
	ErrUnbalancedConditional

	// ErrInvalidHex is returned when a hex stack item cannot be decoded.
	ErrInvalidHex

	// ErrInvalidPublicKey is returned when a public key operand is not a
	// hex encoded SEC1 secp256k1 public key.
	ErrInvalidPublicKey

	// ErrInvalidSignature is returned when a signature operand is not a
	// hex encoded DER signature followed by a hash type byte.
	ErrInvalidSignature

	// ErrInvalidValue is returned when an operand is well-formed but its
	// value is not acceptable to the opcode.
	ErrInvalidValue

	// ErrRollIndexOutOfRange is returned when OP_ROLL is asked to move an
	// item that is not strictly inside the stack.
	ErrRollIndexOutOfRange

	// ErrEarlyReturn is returned when OP_RETURN is executed.
	ErrEarlyReturn

	// ErrReservedOpcode is returned when OP_RESERVED is executed.
	ErrReservedOpcode

	// ErrUnknownOpcode is returned when an OP_ prefixed token does not name
	// a known opcode.
	ErrUnknownOpcode

	// ErrInputTooShort is returned by ParseScript when the script text holds
	// too few tokens.
	ErrInputTooShort

	// numErrorCodes is the maximum error code number used in tests. This
	// entry MUST be the last entry in the enum.
	numErrorCodes
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrMissingValue:          "ErrMissingValue",
	ErrMissingValues:         "ErrMissingValues",
	ErrStackEmpty:            "ErrStackEmpty",
	ErrNumberNotInRange:      "ErrNumberNotInRange",
	ErrVerify:                "ErrVerify",
	ErrUnbalancedConditional: "ErrUnbalancedConditional",
	ErrInvalidHex:            "ErrInvalidHex",
	ErrInvalidPublicKey:      "ErrInvalidPublicKey",
	ErrInvalidSignature:      "ErrInvalidSignature",
	ErrInvalidValue:          "ErrInvalidValue",
	ErrRollIndexOutOfRange:   "ErrRollIndexOutOfRange",
	ErrEarlyReturn:           "ErrEarlyReturn",
	ErrReservedOpcode:        "ErrReservedOpcode",
	ErrUnknownOpcode:         "ErrUnknownOpcode",
	ErrInputTooShort:         "ErrInputTooShort",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// Error identifies a script-related error. It is used to indicate three
// classes of errors:
// 1) Script execution failures due to violating one of the many requirements
//    imposed by the script engine or evaluating to false
// 2) Improper API usage by callers
// 3) Malformed operands such as keys, signatures and numbers
//
// The caller can use type assertions to determine if an error is an Error and
// access the ErrorCode field to ascertain the specific reason for the error.
type Error struct {
	ErrorCode   ErrorCode
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// scriptError creates an Error given a set of arguments.
func scriptError(c ErrorCode, desc string) Error {
	return Error{ErrorCode: c, Description: desc}
}

// IsErrorCode returns whether or not the provided error is a script error
// with the provided error code.
func IsErrorCode(err error, c ErrorCode) bool {
	var serr Error
	if ok := errors.As(err, &serr); ok {
		return serr.ErrorCode == c
	}
	return false
}
