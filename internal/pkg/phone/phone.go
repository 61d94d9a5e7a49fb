package phone

import (
	"fmt"
	"strings"

	"github.com/campus-trust-api/internal/domain"
)

// CountryNG is the only numbering plan currently supported.
const CountryNG = "NG"

// Strip removes every non-digit character (spaces, dashes, dots, parens and
// a leading +) from a raw phone string.
func Strip(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Canonical normalizes a raw phone number to its single canonical form,
// "234" followed by the ten-digit subscriber number. Accepted inputs are the
// local form 0XXXXXXXXXX, the international form 234XXXXXXXXXX and the
// plus-prefixed +234XXXXXXXXXX; anything else is a validation error.
func Canonical(raw, defaultCountry string) (string, error) {
	if defaultCountry != CountryNG {
		return "", fmt.Errorf("unsupported country %q: %w", defaultCountry, domain.ErrBadRequest)
	}
	digits := Strip(raw)
	switch {
	case len(digits) == 13 && strings.HasPrefix(digits, "234") && validSubscriber(digits[3:]):
		return digits, nil
	case len(digits) == 11 && strings.HasPrefix(digits, "0") && validSubscriber(digits[1:]):
		return "234" + digits[1:], nil
	}
	return "", fmt.Errorf("malformed phone number: %w", domain.ErrBadRequest)
}

// validSubscriber reports whether the ten-digit subscriber part starts with
// a mobile prefix assigned under the NG plan (70x, 80x, 81x, 90x, 91x).
func validSubscriber(s string) bool {
	if len(s) != 10 {
		return false
	}
	if s[0] != '7' && s[0] != '8' && s[0] != '9' {
		return false
	}
	return s[1] == '0' || s[1] == '1'
}
