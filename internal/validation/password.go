package validation

import (
	"strings"
	"unicode"
)

// similarityThreshold matches the ratio above which a password is considered
// too close to a user attribute.
const similarityThreshold = 0.7

// minChunkLen skips attribute fragments too short to be meaningful.
const minChunkLen = 3

// PasswordComplexity requires at least one letter and one digit.
func PasswordComplexity(password string) bool {
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

// PasswordTooSimilar reports whether the password resembles any of the given
// user attributes (email, display name). Attributes are split on common
// separators and each chunk is compared by containment and by edit-distance
// ratio.
func PasswordTooSimilar(password string, attrs ...string) bool {
	pw := strings.ToLower(password)
	for _, attr := range attrs {
		for _, chunk := range attributeChunks(attr) {
			if len([]rune(chunk)) < minChunkLen {
				continue
			}
			if strings.Contains(pw, chunk) || strings.Contains(chunk, pw) {
				return true
			}
			if similarityRatio(pw, chunk) >= similarityThreshold {
				return true
			}
		}
	}
	return false
}

func attributeChunks(attr string) []string {
	attr = strings.ToLower(strings.TrimSpace(attr))
	if attr == "" {
		return nil
	}
	fields := strings.FieldsFunc(attr, func(r rune) bool {
		return r == '@' || r == '.' || r == '-' || r == '_' || r == '+' || unicode.IsSpace(r)
	})
	return append(fields, attr)
}

// similarityRatio is 1 - levenshtein/maxlen, in [0,1].
func similarityRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein(ra, rb))/float64(longest)
}

func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min3(cur[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
