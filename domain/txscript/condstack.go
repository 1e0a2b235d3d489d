// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

// condStack tracks nested conditional blocks. Each entry belongs to one open
// OP_IF/OP_NOTIF and records whether its current branch executes.
type condStack struct {
	frames []bool
}

// executing returns whether the current nesting level executes, which is the
// case when no block is open or the innermost branch is taken.
func (c *condStack) executing() bool {
	return len(c.frames) == 0 || c.frames[len(c.frames)-1]
}

// depth returns the number of open conditional blocks.
func (c *condStack) depth() int {
	return len(c.frames)
}

// openBlock opens a conditional block. The condition is popped from dstack
// only when the enclosing level executes. A block opened inside a branch that
// is not executing starts out false and consumes nothing, because that branch
// never pushed its condition. negate selects OP_NOTIF semantics.
func (c *condStack) openBlock(dstack *Stack, negate bool) error {
	if !c.executing() {
		c.frames = append(c.frames, false)
		return nil
	}

	condition, ok := dstack.Pop()
	if !ok {
		return scriptError(ErrStackEmpty,
			"attempt to evaluate a conditional on an empty stack")
	}
	c.frames = append(c.frames, isTruthy(condition) != negate)
	return nil
}

// toggle negates the innermost branch in place for OP_ELSE.
func (c *condStack) toggle() error {
	if len(c.frames) == 0 {
		return scriptError(ErrUnbalancedConditional,
			"encountered OP_ELSE with no matching OP_IF")
	}
	top := len(c.frames) - 1
	c.frames[top] = !c.frames[top]
	return nil
}

// closeBlock closes the innermost block for OP_ENDIF.
func (c *condStack) closeBlock() error {
	if len(c.frames) == 0 {
		return scriptError(ErrUnbalancedConditional,
			"encountered OP_ENDIF with no matching OP_IF")
	}
	c.frames = c.frames[:len(c.frames)-1]
	return nil
}
