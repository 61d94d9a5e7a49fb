package phone

import (
	"errors"
	"testing"

	"github.com/campus-trust-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonical(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"local form", "08012345678", "2348012345678"},
		{"international form", "2348012345678", "2348012345678"},
		{"plus prefixed", "+2348012345678", "2348012345678"},
		{"with separators", "0801-234-5678", "2348012345678"},
		{"with spaces and parens", "(0801) 234 5678", "2348012345678"},
		{"91x prefix", "+2349112345678", "2349112345678"},
		{"70x prefix", "07012345678", "2347012345678"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Canonical(tt.raw, CountryNG)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanonical_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"too short", "0801234"},
		{"bad subscriber prefix", "06012345678"},
		{"landline style", "01234567890"},
		{"empty", ""},
		{"letters only", "call me"},
		{"bare ten digits", "8012345678"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Canonical(tt.raw, CountryNG)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrBadRequest))
		})
	}
}

func TestCanonical_UnsupportedCountry(t *testing.T) {
	_, err := Canonical("08012345678", "US")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestStrip(t *testing.T) {
	assert.Equal(t, "2348012345678", Strip("+234 (801) 234-5678"))
	assert.Equal(t, "", Strip("no digits here"))
}
