package heuristic

import (
	"regexp"
	"strings"

	"github.com/panbanda/linegauge/pkg/models"
)

// Decision keyword groups for the generic variant. Each group adds at most
// one to the complexity seed per line.
var genericDecisionGroups = [][]string{
	{"if ", "if(", "elif ", "elif("},
	{"for ", "for(", "foreach"},
	{"while ", "while("},
	{"switch"},
	{"catch", "except"},
}

var javaScriptDecisionGroups = [][]string{
	{"if ", "if("},
	{"for ", "for("},
	{"while ", "while("},
	{"switch"},
	{"catch"},
}

var genericCommentPrefixes = []string{"//", "#", "/*", "*"}

var (
	genericMethodPattern = regexp.MustCompile(`(def |function |public |private |protected ).*\(.*\)`)
	genericClassMarkers  = []string{"class ", "interface ", "struct "}
)

// Classify categorizes lines as code, comment or blank and computes the
// cyclomatic complexity seed along with method and class counts.
// It is a pure function of its inputs.
func Classify(lines []string, v Variant) models.LineClassification {
	var c models.LineClassification
	switch v {
	case VariantPython:
		c = classifyPython(lines)
	case VariantJavaScript:
		c = classifyJavaScript(lines)
	default:
		c = classifyGeneric(lines)
	}
	c.TotalLines = len(lines)
	return c
}

func classifyGeneric(lines []string) models.LineClassification {
	c := models.LineClassification{ComplexitySeed: 1}

	for _, line := range lines {
		t := strings.TrimSpace(line)

		if genericMethodPattern.MatchString(t) {
			c.MethodCount++
		}
		if containsAny(t, genericClassMarkers) {
			c.ClassCount++
		}

		switch {
		case t == "":
			c.BlankLines++
		case hasAnyPrefix(t, genericCommentPrefixes):
			c.CommentLines++
		default:
			c.CodeLines++
			c.ComplexitySeed += countGroups(t, genericDecisionGroups)
		}
	}
	return c
}

func classifyPython(lines []string) models.LineClassification {
	c := models.LineClassification{ComplexitySeed: 1}
	inDocstring := false

	for _, line := range lines {
		t := strings.TrimSpace(line)
		if t == "" {
			c.BlankLines++
			continue
		}

		// Only a line starting with a triple quote flips the state, so a
		// one-line """doc""" opens a docstring the next such line closes.
		if isDocstringDelimiter(t) {
			inDocstring = !inDocstring
			c.CommentLines++
			continue
		}
		if inDocstring {
			c.CommentLines++
			continue
		}
		if strings.HasPrefix(t, "#") {
			c.CommentLines++
			continue
		}

		c.CodeLines++
		if startsOrContainsWord(t, "def ") {
			c.MethodCount++
		}
		if startsOrContainsWord(t, "class ") {
			c.ClassCount++
		}

		if startsOrContainsWord(t, "if ") || strings.Contains(t, "elif ") || strings.Contains(t, "else:") {
			c.ComplexitySeed++
		}
		if startsOrContainsWord(t, "for ") {
			c.ComplexitySeed++
		}
		if startsOrContainsWord(t, "while ") {
			c.ComplexitySeed++
		}
		if strings.Contains(t, "except") || strings.Contains(t, "with ") {
			c.ComplexitySeed++
		}
	}
	return c
}

func classifyJavaScript(lines []string) models.LineClassification {
	c := models.LineClassification{ComplexitySeed: 1}
	inBlock := false

	for _, line := range lines {
		t := strings.TrimSpace(line)
		if t == "" {
			c.BlankLines++
			continue
		}

		// A "/*" line enters the block even when it also ends with "*/".
		if strings.HasPrefix(t, "/*") {
			c.CommentLines++
			inBlock = true
			continue
		}
		if inBlock {
			// A line like "*/ x /*" does not end the block.
			c.CommentLines++
			if strings.HasSuffix(t, "*/") {
				inBlock = false
			}
			continue
		}
		if strings.HasPrefix(t, "//") {
			c.CommentLines++
			continue
		}

		c.CodeLines++
		if strings.Contains(t, "function ") || strings.Contains(t, "=>") {
			c.MethodCount++
		}
		if startsOrContainsWord(t, "class ") {
			c.ClassCount++
		}
		c.ComplexitySeed += countGroups(t, javaScriptDecisionGroups)
	}
	return c
}

func isDocstringDelimiter(t string) bool {
	return strings.HasPrefix(t, `"""`) || strings.HasPrefix(t, `'''`)
}

// startsOrContainsWord matches kw at the start of t or preceded by a space.
func startsOrContainsWord(t, kw string) bool {
	return strings.HasPrefix(t, kw) || strings.Contains(t, " "+kw)
}

func countGroups(t string, groups [][]string) int {
	n := 0
	for _, g := range groups {
		if containsAny(t, g) {
			n++
		}
	}
	return n
}

func containsAny(t string, subs []string) bool {
	for _, s := range subs {
		if strings.Contains(t, s) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(t string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(t, p) {
			return true
		}
	}
	return false
}
