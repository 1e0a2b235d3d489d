// Copyright (c) 2015-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"testing"
)

func TestClassifyValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		token string
		want  ValueKind
	}{
		{"0", DecimalValue},
		{"1234567890", DecimalValue},
		{"", DecimalValue},
		{"0x", HexValue},
		{"0xdeadBEEF", HexValue},
		{"abcdef", HexValue},
		{"ABC", HexValue},
		{"-5", OpaqueValue},
		{"0xzz", OpaqueValue},
		{"hello", OpaqueValue},
		{"OP_ADD", OpaqueValue},
	}

	for _, test := range tests {
		got := ClassifyValue(test.token)
		if got != test.want {
			t.Errorf("ClassifyValue(%q): got %v, want %v", test.token,
				got, test.want)
		}
	}
}

func TestToInt32(t *testing.T) {
	t.Parallel()

	tests := []struct {
		token string
		want  int32
		err   bool
	}{
		{"0", 0, false},
		{"42", 42, false},
		{"-42", -42, false},
		{"+7", 7, false},
		{"2147483647", 2147483647, false},
		{"-2147483648", -2147483648, false},
		{"2147483648", 0, true},
		{"-2147483649", 0, true},
		{"0x10", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, test := range tests {
		got, err := ToInt32(test.token)
		if test.err {
			if !IsErrorCode(err, ErrNumberNotInRange) {
				t.Errorf("ToInt32(%q): expected ErrNumberNotInRange, got %v",
					test.token, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ToInt32(%q): unexpected error %v", test.token, err)
			continue
		}
		if got != test.want {
			t.Errorf("ToInt32(%q): got %d, want %d", test.token, got, test.want)
		}
	}
}

func TestFromInt64Range(t *testing.T) {
	t.Parallel()

	if s, err := fromInt64(maxInt32); err != nil || s != "2147483647" {
		t.Errorf("fromInt64(maxInt32): got %q, %v", s, err)
	}
	if s, err := fromInt64(minInt32); err != nil || s != "-2147483648" {
		t.Errorf("fromInt64(minInt32): got %q, %v", s, err)
	}
	if _, err := fromInt64(maxInt32 + 1); !IsErrorCode(err, ErrNumberNotInRange) {
		t.Errorf("fromInt64(maxInt32+1): expected ErrNumberNotInRange, got %v", err)
	}
	if _, err := fromInt64(minInt32 - 1); !IsErrorCode(err, ErrNumberNotInRange) {
		t.Errorf("fromInt64(minInt32-1): expected ErrNumberNotInRange, got %v", err)
	}
}

func TestIsTruthy(t *testing.T) {
	t.Parallel()

	for _, token := range []string{"0", "false", "FALSE", "False"} {
		if isTruthy(token) {
			t.Errorf("isTruthy(%q): expected false", token)
		}
	}
	for _, token := range []string{"1", "00", "-0", "true", "", "falsey"} {
		if !isTruthy(token) {
			t.Errorf("isTruthy(%q): expected true", token)
		}
	}
}

func TestValueSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		token   string
		want    int
		errCode ErrorCode
		err     bool
	}{
		{token: "0", want: 0},
		{token: "1", want: 1},
		{token: "255", want: 1},
		{token: "256", want: 2},
		{token: "65535", want: 2},
		{token: "2147483647", want: 4},
		{token: "99999999999", errCode: ErrNumberNotInRange, err: true},
		{token: "0xabcd", want: 2},
		{token: "abcd", want: 2},
		{token: "0x", want: 0},
		{token: "abc", errCode: ErrInvalidHex, err: true},
		{token: "hello", want: 5},
		{token: "héllo", want: 5},
	}

	for _, test := range tests {
		got, err := ValueSize(test.token)
		if test.err {
			if !IsErrorCode(err, test.errCode) {
				t.Errorf("ValueSize(%q): expected %v, got %v", test.token,
					test.errCode, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ValueSize(%q): unexpected error %v", test.token, err)
			continue
		}
		if got != test.want {
			t.Errorf("ValueSize(%q): got %d, want %d", test.token, got, test.want)
		}
	}
}
