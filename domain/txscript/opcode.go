// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"strconv"

	"github.com/beevm/beevm/util"
	"golang.org/x/crypto/ripemd160"
)

// An opcode defines the information related to a txscript opcode. opfunc is
// the function to call to perform the opcode on the engine.
type opcode struct {
	value  byte
	name   string
	opfunc func(*opcode, *Engine) error
}

// These constants are the values of the official opcodes used on the btc
// wiki, in bitcoind and in most if not all other references and software
// related to handling BTC scripts. Scripts refer to them by name.
const (
	Op0                   = 0x00 // 0
	OpFalse               = 0x00 // 0 - AKA Op0
	Op1Negate             = 0x4f // 79
	OpReserved            = 0x50 // 80
	Op1                   = 0x51 // 81 - AKA OpTrue
	OpTrue                = 0x51 // 81
	Op2                   = 0x52 // 82
	Op3                   = 0x53 // 83
	Op4                   = 0x54 // 84
	Op5                   = 0x55 // 85
	Op6                   = 0x56 // 86
	Op7                   = 0x57 // 87
	Op8                   = 0x58 // 88
	Op9                   = 0x59 // 89
	Op10                  = 0x5a // 90
	Op11                  = 0x5b // 91
	Op12                  = 0x5c // 92
	Op13                  = 0x5d // 93
	Op14                  = 0x5e // 94
	Op15                  = 0x5f // 95
	Op16                  = 0x60 // 96
	OpNop                 = 0x61 // 97
	OpIf                  = 0x63 // 99
	OpNotIf               = 0x64 // 100
	OpElse                = 0x67 // 103
	OpEndIf               = 0x68 // 104
	OpVerify              = 0x69 // 105
	OpReturn              = 0x6a // 106
	OpToAltStack          = 0x6b // 107
	OpFromAltStack        = 0x6c // 108
	Op2Drop               = 0x6d // 109
	Op2Dup                = 0x6e // 110
	Op3Dup                = 0x6f // 111
	Op2Over               = 0x70 // 112
	Op2Rot                = 0x71 // 113
	Op2Swap               = 0x72 // 114
	OpIfDup               = 0x73 // 115
	OpDepth               = 0x74 // 116
	OpDrop                = 0x75 // 117
	OpDup                 = 0x76 // 118
	OpNip                 = 0x77 // 119
	OpOver                = 0x78 // 120
	OpPick                = 0x79 // 121
	OpRoll                = 0x7a // 122
	OpRot                 = 0x7b // 123
	OpSwap                = 0x7c // 124
	OpTuck                = 0x7d // 125
	OpSize                = 0x82 // 130
	OpEqual               = 0x87 // 135
	OpEqualVerify         = 0x88 // 136
	Op1Add                = 0x8b // 139
	Op1Sub                = 0x8c // 140
	OpNegate              = 0x8f // 143
	OpAbs                 = 0x90 // 144
	OpNot                 = 0x91 // 145
	Op0NotEqual           = 0x92 // 146
	OpAdd                 = 0x93 // 147
	OpSub                 = 0x94 // 148
	OpBoolAnd             = 0x9a // 154
	OpBoolOr              = 0x9b // 155
	OpNumEqual            = 0x9c // 156
	OpNumEqualVerify      = 0x9d // 157
	OpNumNotEqual         = 0x9e // 158
	OpLessThan            = 0x9f // 159
	OpGreaterThan         = 0xa0 // 160
	OpLessThanOrEqual     = 0xa1 // 161
	OpGreaterThanOrEqual  = 0xa2 // 162
	OpMin                 = 0xa3 // 163
	OpMax                 = 0xa4 // 164
	OpWithin              = 0xa5 // 165
	OpRipeMD160           = 0xa6 // 166
	OpSHA1                = 0xa7 // 167
	OpSHA256              = 0xa8 // 168
	OpHash160             = 0xa9 // 169
	OpHash256             = 0xaa // 170
	OpCodeSeparator       = 0xab // 171
	OpCheckSig            = 0xac // 172
	OpCheckSigVerify      = 0xad // 173
	OpCheckMultiSig       = 0xae // 174
	OpCheckMultiSigVerify = 0xaf // 175
)

// opcodePrefix is the prefix shared by every opcode name. Tokens carrying it
// that don't name a known opcode are rejected instead of being pushed.
const opcodePrefix = "OP_"

// opcodeArray holds details about all possible opcodes such as its name and
// the function that executes it. Values without an entry have a nil opfunc
// and are never reachable from a token.
var opcodeArray = [256]opcode{
	// Constants.
	OpFalse:   {OpFalse, "OP_0", opcodeFalse},
	Op1Negate: {Op1Negate, "OP_1NEGATE", opcode1Negate},
	OpTrue:    {OpTrue, "OP_1", opcodeN},
	Op2:       {Op2, "OP_2", opcodeN},
	Op3:       {Op3, "OP_3", opcodeN},
	Op4:       {Op4, "OP_4", opcodeN},
	Op5:       {Op5, "OP_5", opcodeN},
	Op6:       {Op6, "OP_6", opcodeN},
	Op7:       {Op7, "OP_7", opcodeN},
	Op8:       {Op8, "OP_8", opcodeN},
	Op9:       {Op9, "OP_9", opcodeN},
	Op10:      {Op10, "OP_10", opcodeN},
	Op11:      {Op11, "OP_11", opcodeN},
	Op12:      {Op12, "OP_12", opcodeN},
	Op13:      {Op13, "OP_13", opcodeN},
	Op14:      {Op14, "OP_14", opcodeN},
	Op15:      {Op15, "OP_15", opcodeN},
	Op16:      {Op16, "OP_16", opcodeN},

	// Control opcodes.
	OpNop:      {OpNop, "OP_NOP", opcodeNop},
	OpReserved: {OpReserved, "OP_RESERVED", opcodeReserved},
	OpIf:       {OpIf, "OP_IF", opcodeIf},
	OpNotIf:    {OpNotIf, "OP_NOTIF", opcodeNotIf},
	OpElse:     {OpElse, "OP_ELSE", opcodeElse},
	OpEndIf:    {OpEndIf, "OP_ENDIF", opcodeEndif},
	OpVerify:   {OpVerify, "OP_VERIFY", opcodeVerify},
	OpReturn:   {OpReturn, "OP_RETURN", opcodeReturn},

	// Stack opcodes.
	OpToAltStack:   {OpToAltStack, "OP_TOALTSTACK", opcodeToAltStack},
	OpFromAltStack: {OpFromAltStack, "OP_FROMALTSTACK", opcodeFromAltStack},
	Op2Drop:        {Op2Drop, "OP_2DROP", opcode2Drop},
	Op2Dup:         {Op2Dup, "OP_2DUP", opcode2Dup},
	Op3Dup:         {Op3Dup, "OP_3DUP", opcode3Dup},
	Op2Over:        {Op2Over, "OP_2OVER", opcode2Over},
	Op2Rot:         {Op2Rot, "OP_2ROT", opcode2Rot},
	Op2Swap:        {Op2Swap, "OP_2SWAP", opcode2Swap},
	OpIfDup:        {OpIfDup, "OP_IFDUP", opcodeIfDup},
	OpDepth:        {OpDepth, "OP_DEPTH", opcodeDepth},
	OpDrop:         {OpDrop, "OP_DROP", opcodeDrop},
	OpDup:          {OpDup, "OP_DUP", opcodeDup},
	OpNip:          {OpNip, "OP_NIP", opcodeNip},
	OpOver:         {OpOver, "OP_OVER", opcodeOver},
	OpPick:         {OpPick, "OP_PICK", opcodePick},
	OpRoll:         {OpRoll, "OP_ROLL", opcodeRoll},
	OpRot:          {OpRot, "OP_ROT", opcodeRot},
	OpSwap:         {OpSwap, "OP_SWAP", opcodeSwap},
	OpTuck:         {OpTuck, "OP_TUCK", opcodeTuck},
	OpSize:         {OpSize, "OP_SIZE", opcodeSize},

	// Bitwise logic opcodes.
	OpEqual:       {OpEqual, "OP_EQUAL", opcodeEqual},
	OpEqualVerify: {OpEqualVerify, "OP_EQUALVERIFY", opcodeEqualVerify},

	// Numeric related opcodes.
	Op1Add:               {Op1Add, "OP_1ADD", opcode1Add},
	Op1Sub:               {Op1Sub, "OP_1SUB", opcode1Sub},
	OpNegate:             {OpNegate, "OP_NEGATE", opcodeNegate},
	OpAbs:                {OpAbs, "OP_ABS", opcodeAbs},
	OpNot:                {OpNot, "OP_NOT", opcodeNot},
	Op0NotEqual:          {Op0NotEqual, "OP_0NOTEQUAL", opcode0NotEqual},
	OpAdd:                {OpAdd, "OP_ADD", opcodeAdd},
	OpSub:                {OpSub, "OP_SUB", opcodeSub},
	OpBoolAnd:            {OpBoolAnd, "OP_BOOLAND", opcodeBoolAnd},
	OpBoolOr:             {OpBoolOr, "OP_BOOLOR", opcodeBoolOr},
	OpNumEqual:           {OpNumEqual, "OP_NUMEQUAL", opcodeNumEqual},
	OpNumEqualVerify:     {OpNumEqualVerify, "OP_NUMEQUALVERIFY", opcodeNumEqualVerify},
	OpNumNotEqual:        {OpNumNotEqual, "OP_NUMNOTEQUAL", opcodeNumNotEqual},
	OpLessThan:           {OpLessThan, "OP_LESSTHAN", opcodeLessThan},
	OpGreaterThan:        {OpGreaterThan, "OP_GREATERTHAN", opcodeGreaterThan},
	OpLessThanOrEqual:    {OpLessThanOrEqual, "OP_LESSTHANOREQUAL", opcodeLessThanOrEqual},
	OpGreaterThanOrEqual: {OpGreaterThanOrEqual, "OP_GREATERTHANOREQUAL", opcodeGreaterThanOrEqual},
	OpMin:                {OpMin, "OP_MIN", opcodeMin},
	OpMax:                {OpMax, "OP_MAX", opcodeMax},
	OpWithin:             {OpWithin, "OP_WITHIN", opcodeWithin},

	// Crypto opcodes.
	OpRipeMD160:           {OpRipeMD160, "OP_RIPEMD160", opcodeRipemd160},
	OpSHA1:                {OpSHA1, "OP_SHA1", opcodeSha1},
	OpSHA256:              {OpSHA256, "OP_SHA256", opcodeSha256},
	OpHash160:             {OpHash160, "OP_HASH160", opcodeHash160},
	OpHash256:             {OpHash256, "OP_HASH256", opcodeHash256},
	OpCodeSeparator:       {OpCodeSeparator, "OP_CODESEPARATOR", opcodeCodeSeparator},
	OpCheckSig:            {OpCheckSig, "OP_CHECKSIG", opcodeCheckSig},
	OpCheckSigVerify:      {OpCheckSigVerify, "OP_CHECKSIGVERIFY", opcodeCheckSigVerify},
	OpCheckMultiSig:       {OpCheckMultiSig, "OP_CHECKMULTISIG", opcodeCheckMultiSig},
	OpCheckMultiSigVerify: {OpCheckMultiSigVerify, "OP_CHECKMULTISIGVERIFY", opcodeCheckMultiSigVerify},
}

// opcodeAliases maps alternative opcode names to the canonical opcode value.
var opcodeAliases = map[string]byte{
	"OP_FALSE": OpFalse,
	"OP_TRUE":  OpTrue,
}

// opcodeByName maps every opcode name, aliases included, to its opcode. It is
// built once from opcodeArray.
var opcodeByName = func() map[string]*opcode {
	byName := make(map[string]*opcode, len(opcodeArray)+len(opcodeAliases))
	for i := range opcodeArray {
		op := &opcodeArray[i]
		if op.opfunc == nil {
			continue
		}
		byName[op.name] = op
	}
	for name, value := range opcodeAliases {
		byName[name] = &opcodeArray[value]
	}
	return byName
}()

// lookupOpcode returns the opcode named by token, or false when the token is
// not an opcode name.
func lookupOpcode(token string) (*opcode, bool) {
	op, ok := opcodeByName[token]
	return op, ok
}

// isConditional returns whether or not the opcode is a conditional opcode
// which changes the conditional execution stack when executed.
func (op *opcode) isConditional() bool {
	switch op.value {
	case OpIf, OpNotIf, OpElse, OpEndIf:
		return true
	default:
		return false
	}
}

// missingValue returns the error for a single operand that is not on the
// stack. ordinal counts operands from the top of the stack, starting at 1.
func missingValue(op *opcode, ordinal int) error {
	str := fmt.Sprintf("%s: missing value %d", op.name, ordinal)
	return scriptError(ErrMissingValue, str)
}

// requireDepth returns ErrMissingValues when the stack holds fewer than
// count items.
func requireDepth(op *opcode, stack *Stack, count int) error {
	if stack.Depth() < count {
		str := fmt.Sprintf("%s: needs %d values but the stack holds %d",
			op.name, count, stack.Depth())
		return scriptError(ErrMissingValues, str)
	}
	return nil
}

// popValue pops the top of the data stack, reporting a missing operand by
// its ordinal.
func (vm *Engine) popValue(op *opcode, ordinal int) (string, error) {
	value, ok := vm.dstack.Pop()
	if !ok {
		return "", missingValue(op, ordinal)
	}
	return value, nil
}

// popInt pops the top of the data stack and interprets it as an int32.
func (vm *Engine) popInt(op *opcode, ordinal int) (int32, error) {
	value, err := vm.popValue(op, ordinal)
	if err != nil {
		return 0, err
	}
	return ToInt32(value)
}

// pushInt pushes an arithmetic result, failing if it left the int32 range.
func (vm *Engine) pushInt(n int64) error {
	value, err := fromInt64(n)
	if err != nil {
		return err
	}
	vm.dstack.Push(value)
	return nil
}

// *******************************************
// Opcode implementation functions start here.
// *******************************************

// opcodeReserved is a common handler for OP_RESERVED. It returns an
// appropriate error indicating the opcode is reserved.
func opcodeReserved(op *opcode, vm *Engine) error {
	str := fmt.Sprintf("attempt to execute reserved opcode %s", op.name)
	return scriptError(ErrReservedOpcode, str)
}

// opcodeFalse pushes "0" onto the data stack.
func opcodeFalse(op *opcode, vm *Engine) error {
	vm.dstack.Push("0")
	return nil
}

// opcode1Negate pushes -1 onto the data stack.
func opcode1Negate(op *opcode, vm *Engine) error {
	vm.dstack.Push("-1")
	return nil
}

// opcodeN is a common handler for the small integer opcodes OP_1 through
// OP_16. It pushes the numeric value the opcode represents.
func opcodeN(op *opcode, vm *Engine) error {
	vm.dstack.Push(strconv.Itoa(int(op.value - (Op1 - 1))))
	return nil
}

func opcodeNop(op *opcode, vm *Engine) error {
	return nil
}

// opcodeIf treats the top item on the data stack as a condition and opens a
// conditional block executing its first branch iff the condition is truthy.
// It is processed even inside non-executed branches so that nesting is kept.
func opcodeIf(op *opcode, vm *Engine) error {
	return vm.condStack.openBlock(vm.dstack, false)
}

// opcodeNotIf is opcodeIf with the condition inverted.
func opcodeNotIf(op *opcode, vm *Engine) error {
	return vm.condStack.openBlock(vm.dstack, true)
}

// opcodeElse inverts conditional execution for other half of if/else/endif.
func opcodeElse(op *opcode, vm *Engine) error {
	return vm.condStack.toggle()
}

// opcodeEndif terminates a conditional block, removing the value from the
// conditional execution stack.
func opcodeEndif(op *opcode, vm *Engine) error {
	return vm.condStack.closeBlock()
}

// abstractVerify examines the top item on the data stack as an integer and
// fails with the passed error code unless it is exactly 1.
func abstractVerify(op *opcode, vm *Engine, c ErrorCode) error {
	verified, err := vm.popInt(op, 1)
	if err != nil {
		return err
	}

	if verified != 1 {
		str := fmt.Sprintf("%s failed", op.name)
		return scriptError(c, str)
	}
	return nil
}

// opcodeVerify examines the top item on the data stack and returns an error
// unless it is 1.
func opcodeVerify(op *opcode, vm *Engine) error {
	return abstractVerify(op, vm, ErrVerify)
}

// opcodeReturn returns an appropriate error since it is always an error to
// return early from a script.
func opcodeReturn(op *opcode, vm *Engine) error {
	return scriptError(ErrEarlyReturn, "script returned early")
}

// opcodeToAltStack removes the top item from the main data stack and pushes
// it onto the alternate data stack.
func opcodeToAltStack(op *opcode, vm *Engine) error {
	value, err := vm.popValue(op, 1)
	if err != nil {
		return err
	}
	vm.astack.Push(value)
	return nil
}

// opcodeFromAltStack removes the top item from the alternate data stack and
// pushes it onto the main data stack.
func opcodeFromAltStack(op *opcode, vm *Engine) error {
	value, ok := vm.astack.Pop()
	if !ok {
		return missingValue(op, 1)
	}
	vm.dstack.Push(value)
	return nil
}

// dropN removes the top n items from the data stack.
func dropN(op *opcode, vm *Engine, n int) error {
	for i := 1; i <= n; i++ {
		if _, err := vm.popValue(op, i); err != nil {
			return err
		}
	}
	return nil
}

// dupN duplicates the top n items on the data stack, keeping their order.
//
// Stack transformation (n=2): [... x1 x2] -> [... x1 x2 x1 x2]
func dupN(op *opcode, vm *Engine, n int) error {
	if vm.dstack.Depth() < n {
		return missingValue(op, vm.dstack.Depth()+1)
	}
	for i := 0; i < n; i++ {
		value, _ := vm.dstack.Peek(n - 1)
		vm.dstack.Push(value)
	}
	return nil
}

func opcode2Drop(op *opcode, vm *Engine) error {
	return dropN(op, vm, 2)
}

func opcode2Dup(op *opcode, vm *Engine) error {
	return dupN(op, vm, 2)
}

func opcode3Dup(op *opcode, vm *Engine) error {
	return dupN(op, vm, 3)
}

// opcode2Over copies the pair of items two spaces back in the data stack to
// the top of the stack.
//
// Stack transformation: [... x1 x2 x3 x4] -> [... x1 x2 x3 x4 x1 x2]
func opcode2Over(op *opcode, vm *Engine) error {
	if vm.dstack.Depth() < 4 {
		return missingValue(op, vm.dstack.Depth()+1)
	}
	for i := 0; i < 2; i++ {
		value, _ := vm.dstack.Peek(3)
		vm.dstack.Push(value)
	}
	return nil
}

// opcode2Rot moves the fifth and sixth items to the top of the stack.
//
// Stack transformation: [... x1 x2 x3 x4 x5 x6] -> [... x3 x4 x5 x6 x1 x2]
func opcode2Rot(op *opcode, vm *Engine) error {
	if err := requireDepth(op, vm.dstack, 6); err != nil {
		return err
	}
	for i := 0; i < 2; i++ {
		value, _ := vm.dstack.remove(5)
		vm.dstack.Push(value)
	}
	return nil
}

// opcode2Swap swaps the top two pairs of items on the data stack.
//
// Stack transformation: [... x1 x2 x3 x4] -> [... x3 x4 x1 x2]
func opcode2Swap(op *opcode, vm *Engine) error {
	if err := requireDepth(op, vm.dstack, 4); err != nil {
		return err
	}
	for i := 0; i < 2; i++ {
		value, _ := vm.dstack.remove(3)
		vm.dstack.Push(value)
	}
	return nil
}

// opcodeIfDup duplicates the top item of the stack if it is not zero.
func opcodeIfDup(op *opcode, vm *Engine) error {
	value, ok := vm.dstack.Peek(0)
	if !ok {
		return missingValue(op, 1)
	}
	n, err := ToInt32(value)
	if err != nil {
		return err
	}
	if n != 0 {
		vm.dstack.Push(value)
	}
	return nil
}

// opcodeDepth pushes the depth of the data stack prior to executing this
// opcode.
func opcodeDepth(op *opcode, vm *Engine) error {
	vm.dstack.Push(strconv.Itoa(vm.dstack.Depth()))
	return nil
}

func opcodeDrop(op *opcode, vm *Engine) error {
	return dropN(op, vm, 1)
}

func opcodeDup(op *opcode, vm *Engine) error {
	return dupN(op, vm, 1)
}

// opcodeNip removes the item just below the top of the data stack.
//
// Stack transformation: [... x1 x2] -> [... x2]
func opcodeNip(op *opcode, vm *Engine) error {
	if _, ok := vm.dstack.remove(1); !ok {
		return missingValue(op, vm.dstack.Depth()+1)
	}
	return nil
}

// opcodeOver copies the item just below the top of the stack to the top.
//
// Stack transformation: [... x1 x2] -> [... x1 x2 x1]
func opcodeOver(op *opcode, vm *Engine) error {
	value, ok := vm.dstack.Peek(1)
	if !ok {
		return missingValue(op, 2)
	}
	vm.dstack.Push(value)
	return nil
}

// opcodePick treats the top item on the data stack as an integer and copies
// the item that many items back to the top.
//
// Stack transformation: [xn ... x2 x1 x0 n] -> [xn ... x2 x1 x0 xn]
func opcodePick(op *opcode, vm *Engine) error {
	n, err := vm.popInt(op, 1)
	if err != nil {
		return err
	}

	value, ok := vm.dstack.Peek(int(n))
	if !ok {
		str := fmt.Sprintf("%s: no value at index %d of a stack of "+
			"depth %d", op.name, n, vm.dstack.Depth())
		return scriptError(ErrMissingValue, str)
	}
	vm.dstack.Push(value)
	return nil
}

// opcodeRoll treats the top item on the data stack as an integer and moves
// the item that many items back to the top.
//
// Stack transformation: [xn ... x2 x1 x0 n] -> [... x2 x1 x0 xn]
func opcodeRoll(op *opcode, vm *Engine) error {
	n, err := vm.popInt(op, 1)
	if err != nil {
		return err
	}

	if int(n) >= vm.dstack.Depth() {
		str := fmt.Sprintf("%s: index %d is larger than or equal to the "+
			"stack depth %d", op.name, n, vm.dstack.Depth())
		return scriptError(ErrRollIndexOutOfRange, str)
	}
	value, ok := vm.dstack.remove(int(n))
	if !ok {
		str := fmt.Sprintf("%s: no value at index %d", op.name, n)
		return scriptError(ErrMissingValue, str)
	}
	vm.dstack.Push(value)
	return nil
}

// opcodeRot rotates the top 3 items on the data stack to the left.
//
// Stack transformation: [... x1 x2 x3] -> [... x2 x3 x1]
func opcodeRot(op *opcode, vm *Engine) error {
	if err := requireDepth(op, vm.dstack, 3); err != nil {
		return err
	}
	value, _ := vm.dstack.remove(2)
	vm.dstack.Push(value)
	return nil
}

// opcodeSwap swaps the top two items on the stack.
//
// Stack transformation: [... x1 x2] -> [... x2 x1]
func opcodeSwap(op *opcode, vm *Engine) error {
	if err := requireDepth(op, vm.dstack, 2); err != nil {
		return err
	}
	value, _ := vm.dstack.remove(1)
	vm.dstack.Push(value)
	return nil
}

// opcodeTuck inserts a duplicate of the top item of the data stack before
// the second-to-top item.
//
// Stack transformation: [... x1 x2] -> [... x2 x1 x2]
func opcodeTuck(op *opcode, vm *Engine) error {
	if err := requireDepth(op, vm.dstack, 2); err != nil {
		return err
	}
	value, _ := vm.dstack.Peek(0)
	vm.dstack.insert(2, value)
	return nil
}

// opcodeSize pushes the size of the top item of the data stack onto the data
// stack. See ValueSize for how the size of each kind of value is measured.
func opcodeSize(op *opcode, vm *Engine) error {
	value, ok := vm.dstack.Peek(0)
	if !ok {
		return missingValue(op, 1)
	}
	size, err := ValueSize(value)
	if err != nil {
		return err
	}
	vm.dstack.Push(strconv.Itoa(size))
	return nil
}

// opcodeEqual removes the top 2 items of the data stack, compares them as
// raw tokens, and pushes the result, encoded as a boolean, back to the stack.
func opcodeEqual(op *opcode, vm *Engine) error {
	if err := requireDepth(op, vm.dstack, 2); err != nil {
		return err
	}
	b, _ := vm.dstack.Pop()
	a, _ := vm.dstack.Pop()
	vm.dstack.Push(fromBool(a == b))
	return nil
}

// opcodeEqualVerify is a combination of opcodeEqual and opcodeVerify.
func opcodeEqualVerify(op *opcode, vm *Engine) error {
	err := opcodeEqual(op, vm)
	if err == nil {
		err = abstractVerify(op, vm, ErrVerify)
	}
	return err
}

// unaryNumOp pops one number, applies f and pushes the result.
func unaryNumOp(op *opcode, vm *Engine, f func(int64) int64) error {
	n, err := vm.popInt(op, 1)
	if err != nil {
		return err
	}
	return vm.pushInt(f(int64(n)))
}

// binaryNumOp pops b (the top item) then a, and pushes f(a, b).
func binaryNumOp(op *opcode, vm *Engine, f func(a, b int64) int64) error {
	b, err := vm.popInt(op, 1)
	if err != nil {
		return err
	}
	a, err := vm.popInt(op, 2)
	if err != nil {
		return err
	}
	return vm.pushInt(f(int64(a), int64(b)))
}

// binaryNumCmp pops b (the top item) then a, and pushes f(a, b) as a boolean.
func binaryNumCmp(op *opcode, vm *Engine, f func(a, b int32) bool) error {
	b, err := vm.popInt(op, 1)
	if err != nil {
		return err
	}
	a, err := vm.popInt(op, 2)
	if err != nil {
		return err
	}
	vm.dstack.Push(fromBool(f(a, b)))
	return nil
}

func boolToInt(v bool) int64 {
	if v {
		return 1
	}
	return 0
}

// opcode1Add adds 1 to the top item of the data stack.
func opcode1Add(op *opcode, vm *Engine) error {
	return unaryNumOp(op, vm, func(n int64) int64 { return n + 1 })
}

// opcode1Sub subtracts 1 from the top item of the data stack.
func opcode1Sub(op *opcode, vm *Engine) error {
	return unaryNumOp(op, vm, func(n int64) int64 { return n - 1 })
}

// opcodeNegate negates the top item of the data stack.
func opcodeNegate(op *opcode, vm *Engine) error {
	return unaryNumOp(op, vm, func(n int64) int64 { return -n })
}

// opcodeAbs replaces the top item of the data stack with its absolute value.
func opcodeAbs(op *opcode, vm *Engine) error {
	return unaryNumOp(op, vm, func(n int64) int64 {
		if n < 0 {
			return -n
		}
		return n
	})
}

// opcodeNot replaces the top item with 1 if it is zero and with 0 otherwise.
func opcodeNot(op *opcode, vm *Engine) error {
	return unaryNumOp(op, vm, func(n int64) int64 { return boolToInt(n == 0) })
}

// opcode0NotEqual replaces the top item with 0 if it is zero and with 1
// otherwise.
func opcode0NotEqual(op *opcode, vm *Engine) error {
	return unaryNumOp(op, vm, func(n int64) int64 { return boolToInt(n != 0) })
}

// opcodeAdd pops b and a and pushes a + b.
//
// Stack transformation: [... a b] -> [... a+b]
func opcodeAdd(op *opcode, vm *Engine) error {
	return binaryNumOp(op, vm, func(a, b int64) int64 { return a + b })
}

// opcodeSub pops b and a and pushes a - b, b being subtracted from a.
//
// Stack transformation: [... a b] -> [... a-b]
func opcodeSub(op *opcode, vm *Engine) error {
	return binaryNumOp(op, vm, func(a, b int64) int64 { return a - b })
}

// opcodeBoolAnd pushes 1 if both a and b are not zero, 0 otherwise.
func opcodeBoolAnd(op *opcode, vm *Engine) error {
	return binaryNumCmp(op, vm, func(a, b int32) bool { return a != 0 && b != 0 })
}

// opcodeBoolOr pushes 1 if either a or b is not zero, 0 otherwise.
func opcodeBoolOr(op *opcode, vm *Engine) error {
	return binaryNumCmp(op, vm, func(a, b int32) bool { return a != 0 || b != 0 })
}

func opcodeNumEqual(op *opcode, vm *Engine) error {
	return binaryNumCmp(op, vm, func(a, b int32) bool { return a == b })
}

// opcodeNumEqualVerify is a combination of opcodeNumEqual and opcodeVerify.
func opcodeNumEqualVerify(op *opcode, vm *Engine) error {
	err := opcodeNumEqual(op, vm)
	if err == nil {
		err = abstractVerify(op, vm, ErrVerify)
	}
	return err
}

func opcodeNumNotEqual(op *opcode, vm *Engine) error {
	return binaryNumCmp(op, vm, func(a, b int32) bool { return a != b })
}

// opcodeLessThan pushes 1 if a < b, 0 otherwise.
//
// Stack transformation: [... a b] -> [... bool]
func opcodeLessThan(op *opcode, vm *Engine) error {
	return binaryNumCmp(op, vm, func(a, b int32) bool { return a < b })
}

func opcodeGreaterThan(op *opcode, vm *Engine) error {
	return binaryNumCmp(op, vm, func(a, b int32) bool { return a > b })
}

func opcodeLessThanOrEqual(op *opcode, vm *Engine) error {
	return binaryNumCmp(op, vm, func(a, b int32) bool { return a <= b })
}

func opcodeGreaterThanOrEqual(op *opcode, vm *Engine) error {
	return binaryNumCmp(op, vm, func(a, b int32) bool { return a >= b })
}

func opcodeMin(op *opcode, vm *Engine) error {
	return binaryNumOp(op, vm, func(a, b int64) int64 {
		if a < b {
			return a
		}
		return b
	})
}

func opcodeMax(op *opcode, vm *Engine) error {
	return binaryNumOp(op, vm, func(a, b int64) int64 {
		if a > b {
			return a
		}
		return b
	})
}

// opcodeWithin pops max, min and x and pushes 1 if min <= x < max, 0
// otherwise.
//
// Stack transformation: [... x min max] -> [... bool]
func opcodeWithin(op *opcode, vm *Engine) error {
	maxVal, err := vm.popInt(op, 1)
	if err != nil {
		return err
	}
	minVal, err := vm.popInt(op, 2)
	if err != nil {
		return err
	}
	x, err := vm.popInt(op, 3)
	if err != nil {
		return err
	}
	vm.dstack.Push(fromBool(minVal <= x && x < maxVal))
	return nil
}

// calcHash calculates the hash of hasher over buf.
func calcHash(buf []byte, hasher hash.Hash) []byte {
	hasher.Write(buf)
	return hasher.Sum(nil)
}

// hashOp pops the top item, hashes its token bytes with f and pushes the hex
// encoded digest.
func hashOp(op *opcode, vm *Engine, f func([]byte) []byte) error {
	value, err := vm.popValue(op, 1)
	if err != nil {
		return err
	}
	vm.dstack.Push(hex.EncodeToString(f([]byte(value))))
	return nil
}

func opcodeRipemd160(op *opcode, vm *Engine) error {
	return hashOp(op, vm, func(buf []byte) []byte {
		return calcHash(buf, ripemd160.New())
	})
}

func opcodeSha1(op *opcode, vm *Engine) error {
	return hashOp(op, vm, func(buf []byte) []byte {
		return calcHash(buf, sha1.New())
	})
}

func opcodeSha256(op *opcode, vm *Engine) error {
	return hashOp(op, vm, func(buf []byte) []byte {
		return calcHash(buf, sha256.New())
	})
}

// opcodeHash160 pushes ripemd160(sha256(x)).
func opcodeHash160(op *opcode, vm *Engine) error {
	return hashOp(op, vm, util.Hash160)
}

// opcodeHash256 pushes sha256(sha256(x)).
func opcodeHash256(op *opcode, vm *Engine) error {
	return hashOp(op, vm, func(buf []byte) []byte {
		return calcHash(calcHash(buf, sha256.New()), sha256.New())
	})
}

// opcodeCodeSeparator stores the position just after the current token.
// Signature checks executed afterwards only cover the tokens from there on.
func opcodeCodeSeparator(op *opcode, vm *Engine) error {
	vm.lastCodeSep = vm.pc + 1
	return nil
}
