package contentguard

import (
	"regexp"
	"strings"

	"github.com/campus-trust-api/internal/domain"
)

// The deterministic contact screen runs before any AI call: keeping contact
// exchange on-platform is enforced at near-zero cost, whatever the state of
// the external moderation dependency.

var (
	// NG mobile number in local (0…), international (234…) or plus-prefixed
	// (+234…) form, matched after all whitespace is removed.
	ngPhoneRe = regexp.MustCompile(`(\+?234|0)[789][01][0-9]{8}`)

	// Fallback: any run of eleven digits that were separated only by
	// whitespace in the original text.
	elevenDigitsRe = regexp.MustCompile(`[0-9]{11}`)

	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

	whitespaceRe = regexp.MustCompile(`\s+`)
)

const (
	reasonPhone = "listing contains a phone number; contact must stay on-platform"
	reasonEmail = "listing contains an email address; contact must stay on-platform"
)

// ScanContact detects off-platform contact information in user-authored
// text. Phone detection takes priority over email when both are present.
func ScanContact(text string) domain.Detection {
	compact := whitespaceRe.ReplaceAllString(text, "")
	if ngPhoneRe.MatchString(compact) || elevenDigitsRe.MatchString(compact) {
		return domain.Detection{Detected: true, Reason: reasonPhone}
	}
	if emailRe.MatchString(strings.TrimSpace(text)) {
		return domain.Detection{Detected: true, Reason: reasonEmail}
	}
	return domain.Detection{}
}
