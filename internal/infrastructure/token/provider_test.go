package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/campus-trust-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func TestIssueVerify_RoundTrip(t *testing.T) {
	p := NewProvider(testSecret)

	tok, err := p.Issue("2348012345678", "unilag", true, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 3, len(strings.Split(tok, ".")), "compact JWS triple")

	claims, err := p.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "2348012345678", claims.Phone)
	assert.Equal(t, "unilag", claims.School)
	assert.True(t, claims.IsAdmin)
	assert.True(t, claims.ExpiresAt.After(claims.IssuedAt.Time))
}

func TestVerify_Expired(t *testing.T) {
	p := NewProvider(testSecret)
	tok, err := p.Issue("2348012345678", "unilag", false, time.Millisecond)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = p.Verify(tok)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidToken))
}

func TestVerify_BitFlip(t *testing.T) {
	p := NewProvider(testSecret)
	tok, err := p.Issue("2348012345678", "unilag", true, time.Hour)
	require.NoError(t, err)

	// Flip one bit anywhere in the serialized token.
	for _, pos := range []int{5, len(tok) / 2, len(tok) - 2} {
		b := []byte(tok)
		b[pos] ^= 0x01
		_, err := p.Verify(string(b))
		assert.ErrorIs(t, err, domain.ErrInvalidToken, "bit flip at %d", pos)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	tok, err := NewProvider("secret-a").Issue("2348012345678", "unilag", false, time.Hour)
	require.NoError(t, err)

	_, err = NewProvider("secret-b").Verify(tok)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerify_Malformed(t *testing.T) {
	p := NewProvider(testSecret)
	for _, input := range []string{"", "garbage", "a.b", "a.b.c.d", "????.????.????"} {
		_, err := p.Verify(input)
		assert.ErrorIs(t, err, domain.ErrInvalidToken, "input %q", input)
	}
}

func TestVerify_MissingPhoneClaim(t *testing.T) {
	p := NewProvider(testSecret)
	tok, err := p.Issue("", "unilag", false, time.Hour)
	require.NoError(t, err)

	_, err = p.Verify(tok)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestIssue_NonPositiveTTL(t *testing.T) {
	p := NewProvider(testSecret)
	_, err := p.Issue("2348012345678", "unilag", false, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}
