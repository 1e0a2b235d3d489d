// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

// ScriptFlags is a bitmask defining additional operations or tests that will
// be done when executing a script.
type ScriptFlags uint32

const (
	// ScriptNoFlags runs scripts with the default rules only.
	ScriptNoFlags ScriptFlags = 0

	// ScriptVerifyStrictEncoding defines that signature hash types must be
	// one of ALL, NONE or SINGLE, optionally combined with ANYONECANPAY.
	ScriptVerifyStrictEncoding ScriptFlags = 1 << iota

	// ScriptVerifyLowS defines that signatures are required to comply with
	// the DER format and their S value must be <= order / 2. This is rule 5
	// of BIP0062.
	ScriptVerifyLowS

	// ScriptVerifyNullDummy defines that the dummy argument consumed by
	// OP_CHECKMULTISIG must be zero. Without it the dummy is popped and
	// ignored.
	ScriptVerifyNullDummy
)

// EngineOptions configures an Engine. The zero value runs scripts with the
// default rules.
type EngineOptions struct {
	// Flags selects additional checks.
	Flags ScriptFlags

	// AllowUnclosedConditional lets a script finish successfully while an
	// OP_IF or OP_NOTIF block is still open.
	AllowUnclosedConditional bool
}

// defaultCryptoContext is used when the caller does not supply one.
var defaultCryptoContext = &CryptoContext{}

// Engine is the virtual machine that executes scripts.
type Engine struct {
	tokens      []string
	pc          int
	lastCodeSep int
	dstack      *Stack // data stack
	astack      *Stack // alt stack
	condStack   condStack
	ctx         *CryptoContext
	flags       ScriptFlags
	err         error // first failure, returned by every later Step

	allowUnclosedConditional bool
}

// hasFlag returns whether the script engine instance has the passed flag set.
func (vm *Engine) hasFlag(flag ScriptFlags) bool {
	return vm.flags&flag == flag
}

// isBranchExecuting returns whether or not the current conditional branch is
// actively executing. For example, when the data stack has an OP_FALSE on it
// and an OP_IF is encountered, the branch is inactive until an OP_ELSE or
// OP_ENDIF is encountered. It properly handles nested conditionals.
func (vm *Engine) isBranchExecuting() bool {
	return vm.condStack.executing()
}

// executeToken performs execution on the passed token. It takes into account
// whether or not it is hidden by conditionals.
func (vm *Engine) executeToken(token string) error {
	op, isOpcode := lookupOpcode(token)

	// Nothing left to do when this is not a conditional opcode and it is
	// not in an executing branch.
	if !vm.isBranchExecuting() && !(isOpcode && op.isConditional()) {
		return nil
	}

	if isOpcode {
		return op.opfunc(op, vm)
	}
	if strings.HasPrefix(token, opcodePrefix) {
		str := fmt.Sprintf("attempt to execute unknown opcode %s", token)
		return scriptError(ErrUnknownOpcode, str)
	}

	vm.dstack.Push(token)
	return nil
}

// DisasmPC returns the position and token of the next token to be executed.
func (vm *Engine) DisasmPC() (int, string, error) {
	if vm.pc >= len(vm.tokens) {
		return 0, "", scriptError(ErrInvalidValue,
			fmt.Sprintf("program counter %d beyond script end", vm.pc))
	}
	return vm.pc, vm.tokens[vm.pc], nil
}

// Step executes the next token and moves the program counter to the next
// token in the script. It returns true once the last token has been
// executed or a token failed. Once Step has returned an error, later calls
// return the same error without executing anything. Calling Step after a
// successful end only repeats the final state check.
//
// Step also checks the state of the conditional stack once the script is
// done, so the error of a script with an open OP_IF block is reported by the
// step that executes its last token.
func (vm *Engine) Step() (done bool, err error) {
	if vm.err != nil {
		return true, vm.err
	}
	if vm.pc >= len(vm.tokens) {
		return true, vm.fail(vm.checkFinalState())
	}

	token := vm.tokens[vm.pc]
	if err := vm.executeToken(token); err != nil {
		return true, vm.fail(err)
	}
	vm.pc++

	if vm.pc < len(vm.tokens) {
		return false, nil
	}
	return true, vm.fail(vm.checkFinalState())
}

// fail records err as the outcome of the engine when it is the first error.
func (vm *Engine) fail(err error) error {
	if err != nil && vm.err == nil {
		vm.err = err
	}
	return err
}

// checkFinalState validates the engine once every token has been executed.
func (vm *Engine) checkFinalState() error {
	if vm.condStack.depth() != 0 && !vm.allowUnclosedConditional {
		str := fmt.Sprintf("end of script reached in conditional execution "+
			"with %d open blocks", vm.condStack.depth())
		return scriptError(ErrUnbalancedConditional, str)
	}
	return nil
}

// Stacks returns the data stack and the alt stack of the engine.
func (vm *Engine) Stacks() (*Stack, *Stack) {
	return vm.dstack, vm.astack
}

// Execute will execute all tokens in the script and return the final data
// and alt stacks, or the first error encountered.
func (vm *Engine) Execute() (*Stack, *Stack, error) {
	done := false
	for !done {
		log.Tracef("%s", newLogClosure(func() string {
			pc, token, err := vm.DisasmPC()
			if err != nil {
				return fmt.Sprintf("stepping (%s)", err)
			}
			return fmt.Sprintf("stepping %04d: %s", pc, token)
		}))

		var err error
		done, err = vm.Step()
		if err != nil {
			log.Debugf("script failed at token %d: %s", vm.pc, err)
			return nil, nil, err
		}

		log.Tracef("%s", newLogClosure(func() string {
			var dstr, astr string

			// Log the non-empty stacks when tracing.
			if vm.dstack.Depth() != 0 {
				dstr = "Stack:\n" + spew.Sdump(vm.dstack.Items())
			}
			if vm.astack.Depth() != 0 {
				astr = "AltStack:\n" + spew.Sdump(vm.astack.Items())
			}
			return dstr + astr
		}))
	}

	return vm.dstack, vm.astack, nil
}

// NewEngine returns a new script engine for the provided tokens. A nil ctx
// uses a context without a signature cache, and nil opts the default rules.
// Engines do not share state, so several may run concurrently.
func NewEngine(tokens []string, ctx *CryptoContext, opts *EngineOptions) *Engine {
	if ctx == nil {
		ctx = defaultCryptoContext
	}
	if opts == nil {
		opts = &EngineOptions{}
	}

	scriptTokens := make([]string, len(tokens))
	copy(scriptTokens, tokens)

	return &Engine{
		tokens:                   scriptTokens,
		dstack:                   NewStack(),
		astack:                   NewStack(),
		ctx:                      ctx,
		flags:                    opts.Flags,
		allowUnclosedConditional: opts.AllowUnclosedConditional,
	}
}

// Execute runs tokens with the default rules and returns the final data and
// alt stacks, or the first error encountered.
func Execute(tokens []string, ctx *CryptoContext) (*Stack, *Stack, error) {
	return NewEngine(tokens, ctx, nil).Execute()
}
