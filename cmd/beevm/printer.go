package main

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/beevm/beevm/domain/txscript"
)

// formatBox draws title and lines inside a box sized to the widest of them.
func formatBox(title string, lines []string) string {
	width := utf8.RuneCountInString(title)
	for _, line := range lines {
		if n := utf8.RuneCountInString(line); n > width {
			width = n
		}
	}

	pad := func(s string) string {
		return s + strings.Repeat(" ", width-utf8.RuneCountInString(s))
	}
	border := strings.Repeat("─", width+2)

	var builder strings.Builder
	builder.WriteString("┌" + border + "┐\n")
	builder.WriteString("│ " + pad(title) + " │\n")
	builder.WriteString("├" + border + "┤\n")
	if len(lines) == 0 {
		builder.WriteString("│ " + pad("") + " │\n")
	}
	for _, line := range lines {
		builder.WriteString("│ " + pad(line) + " │\n")
	}
	builder.WriteString("└" + border + "┘\n")
	return builder.String()
}

// stackLines lists the stack items top first.
func stackLines(stack *txscript.Stack) []string {
	items := stack.Items()
	lines := make([]string, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		lines = append(lines, items[i])
	}
	return lines
}

func printStacks(w io.Writer, dstack, astack *txscript.Stack) {
	fmt.Fprint(w, formatBox("Main stack", stackLines(dstack)))
	fmt.Fprint(w, formatBox("Alt stack", stackLines(astack)))
}
