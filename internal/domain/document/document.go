// Package document validates Brazilian tax identifiers (CPF for individuals,
// CNPJ for companies) using the standard weighted mod-11 check digits.
package document

import (
	"strings"

	"github.com/colabore/colabore-api/internal/domain/entity"
)

// Valid strips punctuation from doc and runs the checksum that matches the
// account type: the corporate (CNPJ) algorithm for corporate accounts, the
// individual (CPF) algorithm for individual and micro-entrepreneur accounts.
// Malformed input yields false, never an error.
func Valid(doc string, accountType entity.AccountType) bool {
	digits := stripNonDigits(doc)
	if accountType == entity.AccountCorporate {
		return validCNPJ(digits)
	}
	return validCPF(digits)
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func allSame(digits []int) bool {
	for _, d := range digits[1:] {
		if d != digits[0] {
			return false
		}
	}
	return true
}

func toDigits(s string) []int {
	out := make([]int, len(s))
	for i, r := range s {
		out[i] = int(r - '0')
	}
	return out
}

// checkDigit computes a mod-11 check digit: weighted sum of digits, remainder
// below 2 maps to zero, anything else to 11 minus the remainder.
func checkDigit(digits, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += digits[i] * w
	}
	rem := sum % 11
	if rem < 2 {
		return 0
	}
	return 11 - rem
}

// validCPF checks an 11-digit individual identifier. Sequences of a single
// repeated digit pass the checksum but are known invalid and rejected up
// front; other mod-11 collision inputs are deliberately not special-cased.
func validCPF(s string) bool {
	if len(s) != 11 {
		return false
	}
	d := toDigits(s)
	if allSame(d) {
		return false
	}
	first := checkDigit(d[:9], []int{10, 9, 8, 7, 6, 5, 4, 3, 2})
	if d[9] != first {
		return false
	}
	second := checkDigit(d[:10], []int{11, 10, 9, 8, 7, 6, 5, 4, 3, 2})
	return d[10] == second
}

// validCNPJ checks a 14-digit corporate identifier. The second check digit is
// computed over the first twelve digits plus the first check digit.
func validCNPJ(s string) bool {
	if len(s) != 14 {
		return false
	}
	d := toDigits(s)
	if allSame(d) {
		return false
	}
	first := checkDigit(d[:12], []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2})
	if d[12] != first {
		return false
	}
	second := checkDigit(d[:13], []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2})
	return d[13] == second
}
