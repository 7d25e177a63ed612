package passwordx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsStrongPassword(t *testing.T) {
	r := Validate("Password1!")
	require.True(t, r.Valid)
	require.Empty(t, r.Errors)
	require.Equal(t, StrengthStrong, r.Strength)
}

func TestValidateCommonPassword(t *testing.T) {
	r := Validate("password")
	require.False(t, r.Valid)
	require.Equal(t, StrengthFair, r.Strength)

	require.True(t, r.Checks.MinLength)
	require.True(t, r.Checks.MaxLength)
	require.True(t, r.Checks.HasLowercase)
	require.False(t, r.Checks.HasUppercase)
	require.False(t, r.Checks.HasDigit)
	require.False(t, r.Checks.HasSpecialChar)
	require.False(t, r.Checks.NotCommon)
	require.Len(t, r.Errors, 4)
}

func TestValidateCommonPasswordCaseInsensitive(t *testing.T) {
	r := Validate("PASSWORD123")
	require.False(t, r.Checks.NotCommon)
}

func TestValidateTooShort(t *testing.T) {
	r := Validate("Ab1!")
	require.False(t, r.Valid)
	require.False(t, r.Checks.MinLength)
}

func TestValidateTooLong(t *testing.T) {
	r := Validate("Aa1!" + strings.Repeat("x", 80))
	require.False(t, r.Valid)
	require.False(t, r.Checks.MaxLength)
}

func TestValidateAllChecksRun(t *testing.T) {
	// Every failing rule must be reported, not just the first.
	r := Validate("")
	require.False(t, r.Valid)
	require.Equal(t, StrengthWeak, r.Strength)
	require.GreaterOrEqual(t, len(r.Errors), 5)
}

func TestRequirementsMatchChecks(t *testing.T) {
	reqs := Requirements()
	require.Len(t, reqs, 7)

	r := Validate("Password1!")
	for _, req := range reqs {
		require.True(t, req.Met(r.Checks), "requirement %q", req.Text)
	}
}
