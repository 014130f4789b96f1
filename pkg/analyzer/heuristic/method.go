package heuristic

import "strings"

// LongestMethod estimates the length in lines of the longest method body.
// A method starts on a line with an access modifier and a parameter list and
// ends on the next line consisting solely of a closing brace.
func LongestMethod(lines []string) int {
	longest, current := 0, 0
	inMethod := false

	for _, line := range lines {
		t := strings.TrimSpace(line)
		if (strings.Contains(t, "public ") || strings.Contains(t, "private ")) &&
			strings.Contains(t, "(") && strings.Contains(t, ")") {
			inMethod = true
			current = 0
		}
		if !inMethod {
			continue
		}
		current++
		if t == "}" {
			longest = max(longest, current)
			inMethod = false
		}
	}
	return longest
}
