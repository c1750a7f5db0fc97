package fares

import "strings"

// RestrictedTokens lists the substrings marking age-restricted fares
// (youth/senior tiers) that must never be persisted.
type RestrictedTokens []string

func DefaultRestrictedTokens() RestrictedTokens {
	return RestrictedTokens{"young", "giovani", "youth", "senior"}
}

// Matches reports whether name denotes a restricted fare. The match is a
// case-insensitive substring check against every token.
func (r RestrictedTokens) Matches(name string) bool {
	lower := strings.ToLower(name)
	for _, token := range r {
		if strings.Contains(lower, strings.ToLower(token)) {
			return true
		}
	}
	return false
}
