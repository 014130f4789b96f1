// Package halstead tokenizes source lines into operators and operands and
// accumulates Halstead software science statistics from them.
package halstead

import (
	"strings"
	"unicode"
)

// TokenKind tags a token as an operator or an operand.
type TokenKind int

const (
	Operator TokenKind = iota
	Operand
)

func (k TokenKind) String() string {
	if k == Operator {
		return "operator"
	}
	return "operand"
}

// Token is a single lexical token of a line.
type Token struct {
	Text string
	Kind TokenKind
}

// vocabulary spans symbols and keywords of C-like, Python-like and JS-like grammars.
var vocabulary = func() map[string]struct{} {
	words := []string{
		"+", "-", "*", "/", "%", "=", "==", "!=", "<", ">", "<=", ">=",
		"&&", "||", "!", "&", "|", "^", "~", "<<", ">>", ">>>",
		"++", "--", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
		"?", ":", ".", ",", ";", "(", ")", "[", "]", "{", "}",
		"if", "else", "for", "while", "do", "switch", "case", "break", "continue",
		"return", "throw", "try", "catch", "finally", "new", "import", "class",
		"def", "lambda", "async", "await", "yield", "with", "as", "in", "is",
		"function", "var", "let", "const", "=>", "typeof", "instanceof",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()

// operatorChars terminate the current token and start an operator token.
const operatorChars = "+-*/%=!<>&|^~?:.,;()[]{}"

// IsOperator reports whether text is in the operator and keyword vocabulary.
func IsOperator(text string) bool {
	_, ok := vocabulary[text]
	return ok
}

// Tokenize splits a line into operator and operand tokens. Fragments that are
// neither (for example half of a string literal containing spaces) are dropped.
func Tokenize(line string) []Token {
	raw := split(line)
	tokens := make([]Token, 0, len(raw))
	for _, text := range raw {
		switch {
		case IsOperator(text):
			tokens = append(tokens, Token{Text: text, Kind: Operator})
		case isOperand(text):
			tokens = append(tokens, Token{Text: text, Kind: Operand})
		}
	}
	return tokens
}

// split scans line character by character. Whitespace ends the current
// token; an operator character ends it and emits an operator, preferring a
// two-character operator when the pair is in the vocabulary.
func split(line string) []string {
	var out []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			flush()
		case strings.ContainsRune(operatorChars, r):
			flush()
			op := string(r)
			if i+1 < len(runes) {
				if pair := string(runes[i : i+2]); IsOperator(pair) {
					op = pair
					i++
				}
			}
			out = append(out, op)
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}

// isOperand matches numeric literals, quoted strings and identifiers.
func isOperand(text string) bool {
	if text == "" {
		return false
	}
	return isNumber(text) || isQuoted(text) || isIdentifier(text)
}

func isNumber(text string) bool {
	for _, r := range text {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isQuoted(text string) bool {
	if len(text) < 2 {
		return false
	}
	first, last := text[0], text[len(text)-1]
	return (first == '"' || first == '\'') && first == last
}

func isIdentifier(text string) bool {
	for i, r := range text {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
