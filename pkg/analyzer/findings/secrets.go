package findings

import (
	"fmt"
	"math"
	"regexp"
)

var (
	awsKeyPattern     = regexp.MustCompile(`A(3|K)IA[0-9A-Z]{16}`)
	privateKeyPattern = regexp.MustCompile(`-----BEGIN (RSA|PRIVATE) KEY-----`)
	tokenPattern      = regexp.MustCompile(`(?i)(api|secret|token|passwd|password|key)["'\s:=]{0,5}[A-Za-z0-9_\-]{8,}`)
	longRunPattern    = regexp.MustCompile(`[A-Za-z0-9_\-]{20,}`)
)

// HighEntropyThreshold is the Shannon entropy, in bits per character, above
// which a token-like match is reported as high entropy.
const HighEntropyThreshold = 4.2

// Secrets flags lines that look like embedded credentials. Matching is
// heuristic. The AWS key, private key header and token checks run
// independently, so one line can yield several findings, in that order.
type Secrets struct{}

// NewSecrets creates a secrets generator.
func NewSecrets() *Secrets {
	return &Secrets{}
}

// Name implements Generator.
func (s *Secrets) Name() string { return "secrets" }

// Find implements Generator.
func (s *Secrets) Find(lines []string) []string {
	var out []string
	for i, line := range lines {
		if ignored(line) {
			continue
		}
		n := i + 1
		if awsKeyPattern.MatchString(line) {
			out = append(out, fmt.Sprintf("Possible AWS access key at line %d", n))
		}
		if privateKeyPattern.MatchString(line) {
			out = append(out, fmt.Sprintf("Possible embedded private key at line %d", n))
		}
		if m := tokenPattern.FindString(line); m != "" {
			if longRunPattern.MatchString(m) && ShannonEntropy(m) > HighEntropyThreshold {
				out = append(out, fmt.Sprintf("High-entropy token-like string at line %d", n))
			} else {
				out = append(out, fmt.Sprintf("Possible token-like string at line %d", n))
			}
		}
	}
	return out
}

// ShannonEntropy returns the Shannon entropy of s in bits per character.
func ShannonEntropy(s string) float64 {
	freq := make(map[rune]int)
	total := 0
	for _, r := range s {
		freq[r]++
		total++
	}
	if total == 0 {
		return 0
	}

	var entropy float64
	for _, count := range freq {
		p := float64(count) / float64(total)
		entropy -= p * math.Log2(p)
	}
	return entropy
}
