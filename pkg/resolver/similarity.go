package resolver

import (
	"sort"
	"strings"
)

// TokenSetRatio scores the similarity of two strings on a 0-100 scale.
// Both inputs are tokenized into sorted unique word sets; the score is the
// best pairwise ratio between the shared-token core and each side's full
// token set. Two strings sharing all of one side's tokens score 100
// regardless of word order or extra tokens on the other side. The score is
// symmetric and deterministic.
func TokenSetRatio(a, b string) int {
	tokensA := tokenSet(a)
	tokensB := tokenSet(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	var shared, onlyA, onlyB []string
	seenB := make(map[string]bool, len(tokensB))
	for _, t := range tokensB {
		seenB[t] = true
	}
	seenA := make(map[string]bool, len(tokensA))
	for _, t := range tokensA {
		seenA[t] = true
		if seenB[t] {
			shared = append(shared, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for _, t := range tokensB {
		if !seenA[t] {
			onlyB = append(onlyB, t)
		}
	}

	core := strings.Join(shared, " ")
	fullA := joinNonEmpty(core, strings.Join(onlyA, " "))
	fullB := joinNonEmpty(core, strings.Join(onlyB, " "))

	score := ratio(core, fullA)
	if s := ratio(core, fullB); s > score {
		score = s
	}
	if s := ratio(fullA, fullB); s > score {
		score = s
	}
	return score
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + " " + b
	}
}

// tokenSet returns the sorted unique whitespace tokens of s.
func tokenSet(s string) []string {
	fields := strings.Fields(s)
	seen := make(map[string]bool, len(fields))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if !seen[f] {
			seen[f] = true
			tokens = append(tokens, f)
		}
	}
	sort.Strings(tokens)
	return tokens
}

// ratio is an indel-distance similarity on a 0-100 scale: the proportion
// of the combined length not consumed by insertions and deletions when
// rewriting a into b (substitutions count as one deletion plus one
// insertion).
func ratio(a, b string) int {
	if a == b {
		return 100
	}
	lensum := len(a) + len(b)
	if lensum == 0 {
		return 100
	}
	dist := indelDistance(a, b)
	return int(float64(lensum-dist)/float64(lensum)*100 + 0.5)
}

// indelDistance computes the insert/delete edit distance between a and b,
// equal to len(a)+len(b) minus twice their longest common subsequence.
func indelDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		curr[0] = 0
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	lcs := prev[len(b)]
	return len(a) + len(b) - 2*lcs
}
