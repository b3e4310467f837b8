package utils

import "strings"

// HasLetter returns true if s contains at least one ASCII letter (a-zA-Z)
func HasLetter(s string) bool {
	for _, r := range s {
		if ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') {
			return true
		}
	}
	return false
}

// HasNumber returns true if s contains at least one ASCII digit (0-9)
func HasNumber(s string) bool {
	for _, r := range s {
		if '0' <= r && r <= '9' {
			return true
		}
	}
	return false
}

// IsAllNumeric returns true if s is non-empty and made only of ASCII digits
func IsAllNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// IsUsername returns true if s only uses letters, digits and @ . + - _
func IsUsername(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if HasLetter(string(r)) || HasNumber(string(r)) || strings.ContainsRune("@.+-_", r) {
			continue
		}
		return false
	}
	return true
}
