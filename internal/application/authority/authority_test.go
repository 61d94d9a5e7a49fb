package authority

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestAuthority(adminPhone string) *Authority {
	return New(
		[]string{"Admin@Example.com"},
		[]string{adminPhone},
		"NG",
	)
}

func TestIsAdmin_PhoneEquivalenceIsSymmetric(t *testing.T) {
	forms := []string{"08012345678", "2348012345678", "+2348012345678"}

	// Whichever representation is stored, every representation must match.
	for _, stored := range forms {
		a := newTestAuthority(stored)
		for _, presented := range forms {
			assert.True(t, a.IsAdmin("", presented, false),
				"stored %q, presented %q", stored, presented)
		}
	}
}

func TestIsAdmin_PhoneWithSeparators(t *testing.T) {
	a := newTestAuthority("+2348012345678")
	assert.True(t, a.IsAdmin("", "0801-234-5678", false))
	assert.True(t, a.IsAdmin("", "+234 801 234 5678", false))
}

func TestIsAdmin_NonAdminPhone(t *testing.T) {
	a := newTestAuthority("08012345678")
	assert.False(t, a.IsAdmin("", "08098765432", false))
	assert.False(t, a.IsAdmin("", "", false))
	assert.False(t, a.IsAdmin("", "not a phone", false))
}

func TestIsAdmin_EmailLowercaseMatch(t *testing.T) {
	a := newTestAuthority("08012345678")
	assert.True(t, a.IsAdmin("admin@example.com", "", false))
	assert.True(t, a.IsAdmin("ADMIN@EXAMPLE.COM", "", false))
	assert.False(t, a.IsAdmin("other@example.com", "", false))
}

func TestIsAdmin_PersistedFlagWins(t *testing.T) {
	a := newTestAuthority("08012345678")
	assert.True(t, a.IsAdmin("", "", true))
}

func TestIsAdmin_NonCanonicalizableEntryStillExactMatches(t *testing.T) {
	// An allow-list entry outside the NG plan participates only in exact
	// stripped-string matching.
	a := newTestAuthority("12025550100")
	assert.True(t, a.IsAdmin("", "1-202-555-0100", false))
	assert.False(t, a.IsAdmin("", "2025550100", false))
}
