package authority

import (
	"strings"

	"github.com/campus-trust-api/internal/pkg/phone"
)

// Authority decides admin status from a phone/email claim. The allow-lists
// are loaded once at construction and never mutated; IsAdmin is a pure
// function over its inputs and that static state.
type Authority struct {
	emails         map[string]struct{} // lowercased
	canonical      map[string]struct{} // canonical 234XXXXXXXXXX forms
	stripped       map[string]struct{} // separator-stripped forms, for exact match
	defaultCountry string
}

// New builds an Authority from the configured admin email and phone
// allow-lists. Allow-listed phones that do not canonicalize under the
// country plan still participate in exact stripped-string matching.
func New(emails, phones []string, defaultCountry string) *Authority {
	a := &Authority{
		emails:         make(map[string]struct{}, len(emails)),
		canonical:      make(map[string]struct{}, len(phones)),
		stripped:       make(map[string]struct{}, len(phones)),
		defaultCountry: defaultCountry,
	}
	for _, e := range emails {
		a.emails[strings.ToLower(strings.TrimSpace(e))] = struct{}{}
	}
	for _, p := range phones {
		if s := phone.Strip(p); s != "" {
			a.stripped[s] = struct{}{}
		}
		if c, err := phone.Canonical(p, defaultCountry); err == nil {
			a.canonical[c] = struct{}{}
		}
	}
	return a
}

// IsAdmin reports whether the presented identity is an administrator: the
// persisted flag is set, the lowercased email is allow-listed, or the phone
// matches an allow-listed phone in any of its equivalent representations
// (local 0X…, international 234X…, plus-prefixed +234X…). Matching is
// symmetric in which representation was stored and which was presented:
// both sides are reduced to one canonical form and compared.
func (a *Authority) IsAdmin(email, phoneRaw string, persistedFlag bool) bool {
	if persistedFlag {
		return true
	}
	if email != "" {
		if _, ok := a.emails[strings.ToLower(strings.TrimSpace(email))]; ok {
			return true
		}
	}
	if phoneRaw == "" {
		return false
	}
	if s := phone.Strip(phoneRaw); s != "" {
		if _, ok := a.stripped[s]; ok {
			return true
		}
	}
	if c, err := phone.Canonical(phoneRaw, a.defaultCountry); err == nil {
		if _, ok := a.canonical[c]; ok {
			return true
		}
	}
	return false
}
