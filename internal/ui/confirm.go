package ui

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Confirm asks a yes/no question on the terminal and returns the answer.
// Anything other than y/yes counts as no.
func Confirm(prompt string) bool {
	fmt.Print(Highlight.Render(prompt) + Muted.Render(" [y/N] "))

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
