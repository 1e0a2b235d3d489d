// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"strings"
)

// Stack represents a stack of immutable string values used by the script
// engine. Offset 0 always refers to the most recently pushed value. The same
// type serves as the main data stack and as the alt stack.
type Stack struct {
	items []string
}

// NewStack returns a stack holding the given items. Items are listed from
// the bottom of the stack to its top, so the last item is at offset 0.
func NewStack(items ...string) *Stack {
	s := &Stack{items: make([]string, len(items))}
	copy(s.items, items)
	return s
}

// Depth returns the number of items on the stack.
func (s *Stack) Depth() int {
	return len(s.items)
}

// Push adds the given value to the top of the stack.
func (s *Stack) Push(value string) {
	s.items = append(s.items, value)
}

// Pop removes and returns the value at the top of the stack. The second
// return value is false when the stack is empty.
func (s *Stack) Pop() (string, bool) {
	if len(s.items) == 0 {
		return "", false
	}
	value := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return value, true
}

// Peek returns the value offset items below the top of the stack without
// removing it. The second return value is false when no such item exists.
func (s *Stack) Peek(offset int) (string, bool) {
	index := s.index(offset)
	if index < 0 {
		return "", false
	}
	return s.items[index], true
}

// remove removes and returns the value offset items below the top of the
// stack.
func (s *Stack) remove(offset int) (string, bool) {
	index := s.index(offset)
	if index < 0 {
		return "", false
	}
	value := s.items[index]
	s.items = append(s.items[:index], s.items[index+1:]...)
	return value, true
}

// insert places value so that it ends up offset items below the top of the
// stack. offset must be in [0, Depth()].
func (s *Stack) insert(offset int, value string) {
	index := len(s.items) - offset
	s.items = append(s.items, "")
	copy(s.items[index+1:], s.items[index:])
	s.items[index] = value
}

func (s *Stack) index(offset int) int {
	if offset < 0 || offset >= len(s.items) {
		return -1
	}
	return len(s.items) - 1 - offset
}

// Items returns a copy of the stack contents from bottom to top.
func (s *Stack) Items() []string {
	items := make([]string, len(s.items))
	copy(items, s.items)
	return items
}

// String returns the stack in a readable format, top item first.
func (s *Stack) String() string {
	var builder strings.Builder
	for offset := 0; offset < len(s.items); offset++ {
		if offset > 0 {
			builder.WriteByte('\n')
		}
		value, _ := s.Peek(offset)
		builder.WriteString(value)
	}
	return builder.String()
}
