package venue

import (
	"strings"
	"unicode"
)

// acceptFloor is the minimum score for a fuzzy match to be accepted.
const acceptFloor = 0.6

// BestMatch resolves a human-entered query to a venue. Exact name matches win
// outright; otherwise venues are scored by normalized similarity with a
// substring bonus of +0.3 (capped at 0.95) or a subsequence bonus of +0.2
// (capped at 0.85), and the best score at or above 0.6 is accepted.
func BestMatch(venues []Venue, query string) (*Venue, bool) {
	q := normalize(query)
	if q == "" {
		return nil, false
	}

	for i := range venues {
		if normalize(venues[i].Name) == q {
			return &venues[i], true
		}
	}

	best := -1
	bestScore := 0.0
	for i := range venues {
		s := Score(query, venues[i].Name)
		if s > bestScore {
			best = i
			bestScore = s
		}
	}
	if best < 0 || bestScore < acceptFloor {
		return nil, false
	}
	return &venues[best], true
}

// Score rates how well query matches name on a 0..1 scale.
func Score(query, name string) float64 {
	q := normalize(query)
	n := normalize(name)
	if q == "" || n == "" {
		return 0
	}
	if q == n {
		return 1
	}

	base := similarity(q, n)
	switch {
	case strings.Contains(n, q):
		return capAt(base+0.3, 0.95)
	case isSubsequence(q, n):
		return capAt(base+0.2, 0.85)
	}
	return base
}

// similarity is the longest-common-subsequence ratio over rune counts.
func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	lcs := prev[len(rb)]
	return 2 * float64(lcs) / float64(len(ra)+len(rb))
}

func isSubsequence(needle, haystack string) bool {
	hs := []rune(haystack)
	j := 0
	for _, r := range needle {
		for j < len(hs) && hs[j] != r {
			j++
		}
		if j == len(hs) {
			return false
		}
		j++
	}
	return true
}

// normalize lowercases and strips whitespace so "Chuo Park" matches
// "chuopark".
func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func capAt(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	return v
}
