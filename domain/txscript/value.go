// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"encoding/hex"
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// ValueKind is the semantic kind of a stack item. Stack items are always
// stored as their textual token; the kind is derived by inspection every
// time it is needed.
type ValueKind int

const (
	// DecimalValue is a token made only of ASCII digits.
	DecimalValue ValueKind = iota

	// HexValue is a token made only of hex digits, optionally prefixed
	// with 0x.
	HexValue

	// OpaqueValue is any other token, such as a public key with a non-hex
	// character or a label.
	OpaqueValue
)

var valueKindStrings = map[ValueKind]string{
	DecimalValue: "Decimal",
	HexValue:     "Hex",
	OpaqueValue:  "Opaque",
}

func (k ValueKind) String() string {
	if s, ok := valueKindStrings[k]; ok {
		return s
	}
	return fmt.Sprintf("Unknown ValueKind (%d)", int(k))
}

const hexPrefix = "0x"

// ClassifyValue returns the kind of the given token. The first matching rule
// wins: all ASCII digits is decimal, a 0x prefix followed by hex digits is
// hex, all hex digits is hex, anything else is opaque.
func ClassifyValue(token string) ValueKind {
	switch {
	case isDigits(token):
		return DecimalValue
	case strings.HasPrefix(token, hexPrefix) && isHexDigits(token[len(hexPrefix):]):
		return HexValue
	case isHexDigits(token):
		return HexValue
	default:
		return OpaqueValue
	}
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isHexDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return false
		}
	}
	return true
}

// ToInt32 interprets a stack item as a signed 32-bit base-10 integer. Values
// that are not numbers and values outside the int32 range are both reported
// as ErrNumberNotInRange.
func ToInt32(token string) (int32, error) {
	n, err := strconv.ParseInt(token, 10, 32)
	if err != nil {
		str := fmt.Sprintf("%q is not a number in the int32 range", token)
		return 0, scriptError(ErrNumberNotInRange, str)
	}
	return int32(n), nil
}

// fromInt64 serializes an arithmetic result, rejecting results that do not
// fit in an int32 instead of wrapping them.
func fromInt64(n int64) (string, error) {
	if n < minInt32 || n > maxInt32 {
		str := fmt.Sprintf("result %d is outside the int32 range", n)
		return "", scriptError(ErrNumberNotInRange, str)
	}
	return strconv.FormatInt(n, 10), nil
}

const (
	maxInt32 = 1<<31 - 1
	minInt32 = -1 << 31
)

// fromBool serializes a boolean result as "1" or "0".
func fromBool(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

// isTruthy reports whether a conditional value selects the executed branch:
// anything except "0" and case-insensitive "false".
func isTruthy(token string) bool {
	return token != "0" && !strings.EqualFold(token, "false")
}

// ValueSize returns the byte size of a stack item as reported by OP_SIZE.
// Decimal values use the minimal big-endian width of their magnitude, hex
// values their decoded length and opaque values their character count.
func ValueSize(token string) (int, error) {
	switch ClassifyValue(token) {
	case DecimalValue:
		n, err := ToInt32(token)
		if err != nil {
			return 0, err
		}
		return (bits.Len32(uint32(n)) + 7) / 8, nil

	case HexValue:
		decoded, err := hex.DecodeString(strings.TrimPrefix(token, hexPrefix))
		if err != nil {
			str := fmt.Sprintf("cannot decode hex value %q: %s", token, err)
			return 0, scriptError(ErrInvalidHex, str)
		}
		return len(decoded), nil

	default:
		return len([]rune(token)), nil
	}
}
