// Package jsobj extracts JavaScript object literals from arbitrary page or
// script text.
//
// The upstream reservation site injects its schedule data as hand-rolled JS
// object literals rather than JSON, so a standard parser cannot locate them.
// Extract instead scans bytes: it finds the assignment to a named variable and
// returns the balanced {...} substring that follows, ignoring braces that
// appear inside quoted string literals. The result tolerates unquoted keys,
// single quotes, and trailing content after the closing brace.
package jsobj

import "strings"

// Extract returns the object literal assigned to variablePath within text.
// The variable name match is case-insensitive. The second return value is
// false when no balanced object literal follows an assignment to the
// variable.
func Extract(text, variablePath string) (string, bool) {
	if variablePath == "" {
		return "", false
	}

	idx := indexFold(text, variablePath)
	if idx < 0 {
		return "", false
	}

	eq := strings.IndexByte(text[idx:], '=')
	if eq < 0 {
		return "", false
	}
	open := strings.IndexByte(text[idx+eq:], '{')
	if open < 0 {
		return "", false
	}
	start := idx + eq + open

	depth := 0
	var quote byte
	for i := start; i < len(text); i++ {
		ch := text[i]

		if quote != 0 {
			// Inside a string literal: only an unescaped matching quote
			// exits. Escape detection is a single preceding backslash,
			// matching upstream payloads (a doubled backslash before a
			// quote is still read as an escape).
			if ch == quote && text[i-1] != '\\' {
				quote = 0
			}
			continue
		}

		switch ch {
		case '\'', '"':
			quote = ch
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}

	// Ran out of text with the literal still open.
	return "", false
}

// indexFold is a case-insensitive strings.Index that keeps byte offsets
// aligned with text. Lowering the whole text first would shift offsets
// whenever a multi-byte rune changes length under case mapping. Folding is
// ASCII-only, which covers every upstream variable name.
func indexFold(text, sub string) int {
	for i := 0; i+len(sub) <= len(text); i++ {
		if equalFoldASCII(text[i:i+len(sub)], sub) {
			return i
		}
	}
	return -1
}

func equalFoldASCII(a, b string) bool {
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
