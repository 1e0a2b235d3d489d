// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"reflect"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

// scriptTest describes a script along with the data and alt stacks it must
// leave behind, or the code of the error it must fail with.
type scriptTest struct {
	name    string
	script  string
	stack   []string
	alt     []string
	errCode ErrorCode
	err     bool
}

func runScriptTests(t *testing.T, tests []scriptTest, opts *EngineOptions) {
	t.Helper()

	for _, test := range tests {
		vm := NewEngine(strings.Fields(test.script), nil, opts)
		dstack, astack, err := vm.Execute()
		if test.err {
			if !IsErrorCode(err, test.errCode) {
				t.Errorf("%s: expected error %v, got %v", test.name,
					test.errCode, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %v", test.name, err)
			continue
		}

		wantStack := test.stack
		if wantStack == nil {
			wantStack = []string{}
		}
		if !reflect.DeepEqual(dstack.Items(), wantStack) {
			t.Errorf("%s: data stack mismatch\n got: %s want: %s", test.name,
				spew.Sdump(dstack.Items()), spew.Sdump(wantStack))
		}
		wantAlt := test.alt
		if wantAlt == nil {
			wantAlt = []string{}
		}
		if !reflect.DeepEqual(astack.Items(), wantAlt) {
			t.Errorf("%s: alt stack mismatch\n got: %s want: %s", test.name,
				spew.Sdump(astack.Items()), spew.Sdump(wantAlt))
		}
	}
}

// TestOpcodeArray ensures every opcode reachable by name carries its own
// value and name, and that aliases resolve to the canonical opcode.
func TestOpcodeArray(t *testing.T) {
	t.Parallel()

	for name, op := range opcodeByName {
		if op.opfunc == nil {
			t.Errorf("%s: no handler", name)
		}
		if &opcodeArray[op.value] != op {
			t.Errorf("%s: opcode value 0x%02x does not index itself", name, op.value)
		}
		if _, isAlias := opcodeAliases[name]; !isAlias && op.name != name {
			t.Errorf("%s: registered under the wrong name %s", name, op.name)
		}
	}

	if op, _ := lookupOpcode("OP_FALSE"); op.name != "OP_0" {
		t.Errorf("OP_FALSE resolves to %s", op.name)
	}
	if op, _ := lookupOpcode("OP_TRUE"); op.name != "OP_1" {
		t.Errorf("OP_TRUE resolves to %s", op.name)
	}
	if _, ok := lookupOpcode("OP_CAT"); ok {
		t.Errorf("OP_CAT unexpectedly resolved")
	}
}

func TestArithmeticOpcodes(t *testing.T) {
	t.Parallel()

	tests := []scriptTest{
		{name: "add", script: "2 3 OP_ADD", stack: []string{"5"}},
		{name: "add negative", script: "-7 3 OP_ADD", stack: []string{"-4"}},
		{name: "sub a minus b", script: "5 3 OP_SUB", stack: []string{"2"}},
		{name: "sub negative result", script: "3 5 OP_SUB", stack: []string{"-2"}},
		{name: "add overflow", script: "2147483647 1 OP_ADD",
			errCode: ErrNumberNotInRange, err: true},
		{name: "sub underflow", script: "-2147483648 1 OP_SUB",
			errCode: ErrNumberNotInRange, err: true},
		{name: "add non number", script: "abc 1 OP_ADD",
			errCode: ErrNumberNotInRange, err: true},
		{name: "add out of range operand", script: "2147483648 0 OP_ADD",
			errCode: ErrNumberNotInRange, err: true},
		{name: "add missing operand", script: "1 OP_ADD",
			errCode: ErrMissingValue, err: true},
		{name: "1add", script: "9 OP_1ADD", stack: []string{"10"}},
		{name: "1add overflow", script: "2147483647 OP_1ADD",
			errCode: ErrNumberNotInRange, err: true},
		{name: "1sub", script: "9 OP_1SUB", stack: []string{"8"}},
		{name: "negate", script: "5 OP_NEGATE", stack: []string{"-5"}},
		{name: "negate min", script: "-2147483648 OP_NEGATE",
			errCode: ErrNumberNotInRange, err: true},
		{name: "abs", script: "-5 OP_ABS", stack: []string{"5"}},
		{name: "abs min", script: "-2147483648 OP_ABS",
			errCode: ErrNumberNotInRange, err: true},
		{name: "not zero", script: "0 OP_NOT", stack: []string{"1"}},
		{name: "not nonzero", script: "7 OP_NOT", stack: []string{"0"}},
		{name: "0notequal", script: "5 OP_0NOTEQUAL", stack: []string{"1"}},
		{name: "0notequal zero", script: "0 OP_0NOTEQUAL", stack: []string{"0"}},
		{name: "booland", script: "1 0 OP_BOOLAND", stack: []string{"0"}},
		{name: "booland both", script: "3 -1 OP_BOOLAND", stack: []string{"1"}},
		{name: "boolor", script: "1 0 OP_BOOLOR", stack: []string{"1"}},
		{name: "boolor none", script: "0 0 OP_BOOLOR", stack: []string{"0"}},
		{name: "numequal", script: "4 4 OP_NUMEQUAL", stack: []string{"1"}},
		{name: "numequal leading plus", script: "+4 4 OP_NUMEQUAL", stack: []string{"1"}},
		{name: "numequalverify", script: "4 4 OP_NUMEQUALVERIFY"},
		{name: "numequalverify fails", script: "4 5 OP_NUMEQUALVERIFY",
			errCode: ErrVerify, err: true},
		{name: "numnotequal", script: "4 5 OP_NUMNOTEQUAL", stack: []string{"1"}},
		{name: "lessthan", script: "1 2 OP_LESSTHAN", stack: []string{"1"}},
		{name: "lessthan false", script: "3 2 OP_LESSTHAN", stack: []string{"0"}},
		{name: "greaterthan", script: "3 2 OP_GREATERTHAN", stack: []string{"1"}},
		{name: "lessthanorequal", script: "2 2 OP_LESSTHANOREQUAL", stack: []string{"1"}},
		{name: "greaterthanorequal", script: "1 2 OP_GREATERTHANOREQUAL", stack: []string{"0"}},
		{name: "min", script: "4 9 OP_MIN", stack: []string{"4"}},
		{name: "max", script: "4 9 OP_MAX", stack: []string{"9"}},
		{name: "within", script: "2 1 3 OP_WITHIN", stack: []string{"1"}},
		{name: "within lower bound", script: "1 1 3 OP_WITHIN", stack: []string{"1"}},
		{name: "within upper bound", script: "3 1 3 OP_WITHIN", stack: []string{"0"}},
		{name: "within missing", script: "1 3 OP_WITHIN",
			errCode: ErrMissingValue, err: true},
		{name: "verify", script: "1 OP_VERIFY"},
		{name: "verify two", script: "2 OP_VERIFY", errCode: ErrVerify, err: true},
		{name: "verify zero", script: "0 OP_VERIFY", errCode: ErrVerify, err: true},
		{name: "verify empty", script: "OP_VERIFY", errCode: ErrMissingValue, err: true},
		{name: "verify non number", script: "yes OP_VERIFY",
			errCode: ErrNumberNotInRange, err: true},
	}

	runScriptTests(t, tests, nil)
}

func TestStackOpcodes(t *testing.T) {
	t.Parallel()

	tests := []scriptTest{
		{name: "dup", script: "a OP_DUP", stack: []string{"a", "a"}},
		{name: "dup empty", script: "OP_DUP", errCode: ErrMissingValue, err: true},
		{name: "2dup", script: "a b OP_2DUP", stack: []string{"a", "b", "a", "b"}},
		{name: "2dup short", script: "a OP_2DUP", errCode: ErrMissingValue, err: true},
		{name: "3dup", script: "a b c OP_3DUP",
			stack: []string{"a", "b", "c", "a", "b", "c"}},
		{name: "drop", script: "a b OP_DROP", stack: []string{"a"}},
		{name: "drop empty", script: "OP_DROP", errCode: ErrMissingValue, err: true},
		{name: "2drop", script: "a b c OP_2DROP", stack: []string{"a"}},
		{name: "2drop short", script: "a OP_2DROP", errCode: ErrMissingValue, err: true},
		{name: "swap", script: "a b OP_SWAP", stack: []string{"b", "a"}},
		{name: "swap short", script: "a OP_SWAP", errCode: ErrMissingValues, err: true},
		{name: "2swap", script: "a b c d OP_2SWAP", stack: []string{"c", "d", "a", "b"}},
		{name: "2swap short", script: "a b c OP_2SWAP", errCode: ErrMissingValues, err: true},
		{name: "rot", script: "a b c OP_ROT", stack: []string{"b", "c", "a"}},
		{name: "rot short", script: "a b OP_ROT", errCode: ErrMissingValues, err: true},
		{name: "2rot", script: "a b c d e f OP_2ROT",
			stack: []string{"c", "d", "e", "f", "a", "b"}},
		{name: "2rot short", script: "a b c d e OP_2ROT", errCode: ErrMissingValues, err: true},
		{name: "over", script: "a b OP_OVER", stack: []string{"a", "b", "a"}},
		{name: "over short", script: "a OP_OVER", errCode: ErrMissingValue, err: true},
		{name: "2over", script: "a b c d OP_2OVER",
			stack: []string{"a", "b", "c", "d", "a", "b"}},
		{name: "2over short", script: "a b c OP_2OVER", errCode: ErrMissingValue, err: true},
		{name: "pick", script: "a b c 2 OP_PICK", stack: []string{"a", "b", "c", "a"}},
		{name: "pick top", script: "a b c 0 OP_PICK", stack: []string{"a", "b", "c", "c"}},
		{name: "pick out of range", script: "a b c 3 OP_PICK",
			errCode: ErrMissingValue, err: true},
		{name: "pick negative", script: "a -1 OP_PICK", errCode: ErrMissingValue, err: true},
		{name: "roll", script: "a b c 2 OP_ROLL", stack: []string{"b", "c", "a"}},
		{name: "roll top", script: "a 0 OP_ROLL", stack: []string{"a"}},
		{name: "roll out of range", script: "a b c 3 OP_ROLL",
			errCode: ErrRollIndexOutOfRange, err: true},
		{name: "roll empty after index", script: "0 OP_ROLL",
			errCode: ErrRollIndexOutOfRange, err: true},
		{name: "roll no index", script: "OP_ROLL", errCode: ErrMissingValue, err: true},
		{name: "roll negative", script: "a b -1 OP_ROLL", errCode: ErrMissingValue, err: true},
		{name: "nip", script: "a b OP_NIP", stack: []string{"b"}},
		{name: "nip short", script: "a OP_NIP", errCode: ErrMissingValue, err: true},
		{name: "nip empty", script: "OP_NIP", errCode: ErrMissingValue, err: true},
		{name: "tuck", script: "a b OP_TUCK", stack: []string{"b", "a", "b"}},
		{name: "tuck short", script: "a OP_TUCK", errCode: ErrMissingValues, err: true},
		{name: "depth", script: "a b OP_DEPTH", stack: []string{"a", "b", "2"}},
		{name: "depth empty", script: "OP_DEPTH", stack: []string{"0"}},
		{name: "ifdup nonzero", script: "1 OP_IFDUP", stack: []string{"1", "1"}},
		{name: "ifdup zero", script: "0 OP_IFDUP", stack: []string{"0"}},
		{name: "ifdup empty", script: "OP_IFDUP", errCode: ErrMissingValue, err: true},
		{name: "size decimal", script: "256 OP_SIZE", stack: []string{"256", "2"}},
		{name: "size zero", script: "0 OP_SIZE", stack: []string{"0", "0"}},
		{name: "size hex", script: "0xabcd OP_SIZE", stack: []string{"0xabcd", "2"}},
		{name: "size opaque", script: "hello OP_SIZE", stack: []string{"hello", "5"}},
		{name: "size bad hex", script: "abc OP_SIZE", errCode: ErrInvalidHex, err: true},
		{name: "size empty", script: "OP_SIZE", errCode: ErrMissingValue, err: true},
		{name: "toaltstack", script: "a b OP_TOALTSTACK",
			stack: []string{"a"}, alt: []string{"b"}},
		{name: "altstack round trip", script: "a OP_TOALTSTACK OP_FROMALTSTACK",
			stack: []string{"a"}},
		{name: "toaltstack keeps opaque values", script: "not-a-number OP_TOALTSTACK",
			alt: []string{"not-a-number"}},
		{name: "toaltstack empty", script: "OP_TOALTSTACK", errCode: ErrMissingValue, err: true},
		{name: "fromaltstack empty", script: "a OP_FROMALTSTACK",
			errCode: ErrMissingValue, err: true},
	}

	runScriptTests(t, tests, nil)
}

func TestConstantAndControlOpcodes(t *testing.T) {
	t.Parallel()

	tests := []scriptTest{
		{name: "constants", script: "OP_0 OP_FALSE OP_1 OP_TRUE OP_2 OP_16 OP_1NEGATE OP_NOP",
			stack: []string{"0", "0", "1", "1", "2", "16", "-1"}},
		{name: "literals", script: "01 0x00 label", stack: []string{"01", "0x00", "label"}},
		{name: "return", script: "1 OP_RETURN", errCode: ErrEarlyReturn, err: true},
		{name: "reserved", script: "1 OP_RESERVED", errCode: ErrReservedOpcode, err: true},
		{name: "unknown opcode", script: "1 OP_CAT", errCode: ErrUnknownOpcode, err: true},
		{name: "lowercase is a literal", script: "op_add", stack: []string{"op_add"}},
		{name: "equal", script: "a a OP_EQUAL", stack: []string{"1"}},
		{name: "equal compares tokens", script: "1 01 OP_EQUAL", stack: []string{"0"}},
		{name: "equal short", script: "a OP_EQUAL", errCode: ErrMissingValues, err: true},
		{name: "equalverify", script: "a a OP_EQUALVERIFY"},
		{name: "equalverify fails", script: "a b OP_EQUALVERIFY", errCode: ErrVerify, err: true},
		{name: "empty script"},
	}

	runScriptTests(t, tests, nil)
}

func TestConditionalOpcodes(t *testing.T) {
	t.Parallel()

	tests := []scriptTest{
		{name: "if true", script: "1 OP_IF a OP_ELSE b OP_ENDIF", stack: []string{"a"}},
		{name: "if false", script: "0 OP_IF a OP_ELSE b OP_ENDIF", stack: []string{"b"}},
		{name: "if false word", script: "false OP_IF a OP_ELSE b OP_ENDIF",
			stack: []string{"b"}},
		{name: "if FALSE word", script: "FALSE OP_IF a OP_ELSE b OP_ENDIF",
			stack: []string{"b"}},
		{name: "if opaque is truthy", script: "label OP_IF a OP_ENDIF", stack: []string{"a"}},
		{name: "notif", script: "0 OP_NOTIF a OP_ELSE b OP_ENDIF", stack: []string{"a"}},
		{name: "notif true", script: "1 OP_NOTIF a OP_ELSE b OP_ENDIF", stack: []string{"b"}},
		{name: "nested taken", script: "1 OP_IF 0 OP_IF a OP_ELSE b OP_ENDIF c OP_ENDIF",
			stack: []string{"b", "c"}},
		{name: "nested literal script", script: "1 OP_IF 2 OP_IF 3 OP_ENDIF 4 OP_ENDIF",
			stack: []string{"3", "4"}},
		{name: "else after false if", script: "0 OP_IF 2 OP_ELSE 3 OP_ENDIF",
			stack: []string{"3"}},
		{name: "else negates block opened in skipped branch",
			script: "0 OP_IF 1 OP_IF a OP_ELSE b OP_ENDIF OP_ENDIF",
			stack:  []string{"b"}},
		{name: "nested if in skipped branch consumes nothing",
			script: "x 0 OP_IF OP_IF a OP_ENDIF OP_ENDIF", stack: []string{"x"}},
		{name: "notif in skipped branch starts false",
			script: "0 OP_IF OP_NOTIF a OP_ELSE b OP_ENDIF OP_ENDIF",
			stack:  []string{"b"}},
		{name: "multiple else", script: "1 OP_IF a OP_ELSE b OP_ELSE c OP_ENDIF",
			stack: []string{"a", "c"}},
		{name: "skipped tokens have no effect",
			script: "0 OP_IF 1 2 OP_ADD OP_RETURN OP_CAT OP_ENDIF 7",
			stack:  []string{"7"}},
		{name: "if on empty stack", script: "OP_IF", errCode: ErrStackEmpty, err: true},
		{name: "else without if", script: "1 OP_ELSE",
			errCode: ErrUnbalancedConditional, err: true},
		{name: "endif without if", script: "OP_ENDIF",
			errCode: ErrUnbalancedConditional, err: true},
		{name: "unclosed if", script: "1 OP_IF a",
			errCode: ErrUnbalancedConditional, err: true},
	}

	runScriptTests(t, tests, nil)
}

// TestAllowUnclosedConditional ensures the engine option accepts scripts
// ending inside a conditional block.
func TestAllowUnclosedConditional(t *testing.T) {
	t.Parallel()

	tests := []scriptTest{
		{name: "unclosed if", script: "1 OP_IF a", stack: []string{"a"}},
		{name: "unclosed skipped if", script: "0 OP_IF a"},
		{name: "else without if still fails", script: "1 OP_ELSE",
			errCode: ErrUnbalancedConditional, err: true},
	}

	runScriptTests(t, tests, &EngineOptions{AllowUnclosedConditional: true})
}

func TestHashOpcodes(t *testing.T) {
	t.Parallel()

	tests := []scriptTest{
		{name: "sha256", script: "hello OP_SHA256",
			stack: []string{"2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"}},
		{name: "sha1", script: "hello OP_SHA1",
			stack: []string{"aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d"}},
		{name: "ripemd160", script: "hello OP_RIPEMD160",
			stack: []string{"108f07b8382412612c048d07d13f814118445acd"}},
		{name: "hash160", script: "hello OP_HASH160",
			stack: []string{"b6a9c8c230722b7c748331a8b450f05566dc7d0f"}},
		{name: "hash256", script: "hello OP_HASH256",
			stack: []string{"9595c9df90075148eb06860365df33584b75bff782a510c6cd4883a419833d50"}},
		{name: "hash and compare",
			script: "hello OP_SHA256 2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824 OP_EQUAL",
			stack:  []string{"1"}},
		{name: "sha256 empty", script: "OP_SHA256", errCode: ErrMissingValue, err: true},
	}

	runScriptTests(t, tests, nil)
}

// TestStep ensures stepping through a script yields the same result as
// executing it and reports completion on the last token.
func TestStep(t *testing.T) {
	t.Parallel()

	tokens := strings.Fields("2 3 OP_ADD 5 OP_EQUAL")
	vm := NewEngine(tokens, nil, nil)

	steps := 0
	for {
		pc, token, err := vm.DisasmPC()
		if err != nil {
			t.Fatalf("DisasmPC: unexpected error %v", err)
		}
		if token != tokens[pc] {
			t.Fatalf("DisasmPC: got %s at %d, want %s", token, pc, tokens[pc])
		}

		done, err := vm.Step()
		if err != nil {
			t.Fatalf("Step: unexpected error %v", err)
		}
		steps++
		if done {
			break
		}
	}
	if steps != len(tokens) {
		t.Errorf("Step: done after %d steps, want %d", steps, len(tokens))
	}

	dstack, astack := vm.Stacks()
	if !reflect.DeepEqual(dstack.Items(), []string{"1"}) {
		t.Errorf("Step: unexpected data stack %s", spew.Sdump(dstack.Items()))
	}
	if astack.Depth() != 0 {
		t.Errorf("Step: unexpected alt stack %s", spew.Sdump(astack.Items()))
	}
	if _, _, err := vm.DisasmPC(); err == nil {
		t.Errorf("DisasmPC: expected an error past the end of the script")
	}
}

// TestEngineCopiesTokens ensures the engine is not affected by callers
// mutating the token slice after creating it.
func TestEngineCopiesTokens(t *testing.T) {
	t.Parallel()

	tokens := strings.Fields("2 3 OP_ADD")
	vm := NewEngine(tokens, nil, nil)
	tokens[2] = "OP_SUB"

	dstack, _, err := vm.Execute()
	if err != nil {
		t.Fatalf("Execute: unexpected error %v", err)
	}
	if !reflect.DeepEqual(dstack.Items(), []string{"5"}) {
		t.Errorf("Execute: unexpected data stack %s", spew.Sdump(dstack.Items()))
	}
}

// TestStepAfterFailure ensures a failed engine keeps reporting its first
// error and leaves the stacks as the failing token left them.
func TestStepAfterFailure(t *testing.T) {
	t.Parallel()

	vm := NewEngine(strings.Fields("a b c 1 OP_CHECKMULTISIG d"), nil, nil)
	var firstErr error
	for {
		done, err := vm.Step()
		if err != nil {
			firstErr = err
			break
		}
		if done {
			t.Fatalf("Step: script finished without an error")
		}
	}
	if !IsErrorCode(firstErr, ErrInvalidPublicKey) {
		t.Fatalf("Step: expected %v, got %v", ErrInvalidPublicKey, firstErr)
	}

	dstack, _ := vm.Stacks()
	before := dstack.Items()
	pc, _, _ := vm.DisasmPC()
	for i := 0; i < 2; i++ {
		done, err := vm.Step()
		if !done || err != firstErr {
			t.Errorf("Step %d after failure: got (%t, %v), want (true, %v)",
				i, done, err, firstErr)
		}
	}
	if !reflect.DeepEqual(dstack.Items(), before) {
		t.Errorf("Step after failure changed the stack\n got: %s want: %s",
			spew.Sdump(dstack.Items()), spew.Sdump(before))
	}
	if newPC, _, _ := vm.DisasmPC(); newPC != pc {
		t.Errorf("Step after failure moved the program counter from %d to %d",
			pc, newPC)
	}
	if _, _, err := vm.Execute(); err != firstErr {
		t.Errorf("Execute after failure: got %v, want %v", err, firstErr)
	}
}

// TestDupDropRoundTrip ensures n OP_DUP followed by n OP_DROP leaves any
// stack of depth at least one unchanged.
func TestDupDropRoundTrip(t *testing.T) {
	t.Parallel()

	stacks := [][]string{
		{"a"},
		{"1", "2"},
		{"0x01", "label", "-5", "7"},
	}
	for _, items := range stacks {
		for n := 1; n <= 4; n++ {
			script := strings.Join(items, " ") +
				strings.Repeat(" OP_DUP", n) + strings.Repeat(" OP_DROP", n)
			dstack, _, err := Execute(strings.Fields(script), nil)
			if err != nil {
				t.Errorf("%q: unexpected error %v", script, err)
				continue
			}
			if !reflect.DeepEqual(dstack.Items(), items) {
				t.Errorf("%q: got %s want %s", script,
					spew.Sdump(dstack.Items()), spew.Sdump(items))
			}
		}
	}
}

// TestAddSubRoundTrip ensures adding and then subtracting the same operand
// restores the original value, and that an intermediate overflow fails
// instead of wrapping around.
func TestAddSubRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b    string
		errCode ErrorCode
		err     bool
	}{
		{a: "0", b: "0"},
		{a: "5", b: "3"},
		{a: "-7", b: "12"},
		{a: "2147483646", b: "1"},
		{a: "-2147483648", b: "2147483647"},
		{a: "100", b: "-2147483648"},
		{a: "2147483647", b: "1", errCode: ErrNumberNotInRange, err: true},
		{a: "-2147483648", b: "-1", errCode: ErrNumberNotInRange, err: true},
		{a: "1", b: "2147483647", errCode: ErrNumberNotInRange, err: true},
	}

	for _, test := range tests {
		script := []string{"x", test.a, test.b, "OP_ADD", test.b, "OP_SUB"}
		dstack, _, err := Execute(script, nil)
		if test.err {
			if !IsErrorCode(err, test.errCode) {
				t.Errorf("%v: expected error %v, got %v", script, test.errCode, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%v: unexpected error %v", script, err)
			continue
		}
		want := []string{"x", test.a}
		if !reflect.DeepEqual(dstack.Items(), want) {
			t.Errorf("%v: got %s want %s", script,
				spew.Sdump(dstack.Items()), spew.Sdump(want))
		}
	}
}
