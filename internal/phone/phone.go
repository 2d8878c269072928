// Package phone handles the two formats customer numbers are stored in.
package phone

import (
	"errors"
	"strings"
	"unicode"
)

// DefaultCountryCode is the prefix of every number the portal accepts.
const DefaultCountryCode = "+91"

var ErrInvalid = errors.New("please enter a valid 10-digit phone number")

// Normalize strips whitespace and requires exactly ten digits.
func Normalize(input string) (string, error) {
	local := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, input)
	if len(local) != 10 {
		return "", ErrInvalid
	}
	for _, r := range local {
		if r < '0' || r > '9' {
			return "", ErrInvalid
		}
	}
	return local, nil
}

// International prefixes a local number with the country code.
func International(local, countryCode string) string {
	if countryCode == "" {
		countryCode = DefaultCountryCode
	}
	return countryCode + local
}

// Variants returns the international and local forms of number, in that
// order. Both are queried because records were written in either format.
func Variants(number, countryCode string) []string {
	if countryCode == "" {
		countryCode = DefaultCountryCode
	}
	number = strings.TrimSpace(number)
	if strings.HasPrefix(number, countryCode) {
		return []string{number, strings.TrimPrefix(number, countryCode)}
	}
	if number == "" {
		return nil
	}
	return []string{countryCode + number, number}
}
