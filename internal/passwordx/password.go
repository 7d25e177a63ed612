// Package passwordx validates passwords against the backend's policy so the
// CLI can reject bad values before spending a round trip.
//
// Policy: 8–72 bytes (72 is the bcrypt input limit), at least one uppercase
// letter, one lowercase letter, one digit, one special character, and not a
// known common password.
package passwordx

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	// MinLength is the minimum password length in bytes.
	MinLength = 8
	// MaxLength is the maximum password length in bytes (bcrypt limit).
	MaxLength = 72
)

var commonPasswords = map[string]struct{}{
	"password":    {},
	"12345678":    {},
	"qwerty":      {},
	"abc123":      {},
	"password123": {},
	"password1":   {},
}

var (
	uppercaseRule = validation.Match(regexp.MustCompile(`[A-Z]`))
	lowercaseRule = validation.Match(regexp.MustCompile(`[a-z]`))
	digitRule     = validation.Match(regexp.MustCompile(`[0-9]`))
	specialRule   = validation.Match(regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`))
)

// Strength buckets a password by how many policy checks it passes.
type Strength string

const (
	StrengthWeak   Strength = "weak"
	StrengthFair   Strength = "fair"
	StrengthGood   Strength = "good"
	StrengthStrong Strength = "strong"
)

// Checks holds the outcome of each individual policy check.
type Checks struct {
	MinLength      bool
	MaxLength      bool
	HasUppercase   bool
	HasLowercase   bool
	HasDigit       bool
	HasSpecialChar bool
	NotCommon      bool
}

// Result is the full validation outcome.
type Result struct {
	Valid    bool
	Errors   []string
	Strength Strength
	Checks   Checks
}

func passes(password string, rule validation.Rule) bool {
	// ozzo skips rules on empty values; an empty password meets nothing.
	if password == "" {
		return false
	}
	return validation.Validate(password, rule) == nil
}

// Validate runs every policy check and returns the aggregate result.
// All checks always run so the caller can show complete feedback instead of
// stopping at the first failure.
func Validate(password string) Result {
	checks := Checks{
		MinLength:      len(password) >= MinLength,
		MaxLength:      len(password) <= MaxLength,
		HasUppercase:   passes(password, uppercaseRule),
		HasLowercase:   passes(password, lowercaseRule),
		HasDigit:       passes(password, digitRule),
		HasSpecialChar: passes(password, specialRule),
	}
	_, common := commonPasswords[strings.ToLower(password)]
	checks.NotCommon = !common

	var errs []string
	if !checks.MinLength {
		errs = append(errs, "password must be at least 8 characters long")
	}
	if !checks.MaxLength {
		errs = append(errs, "password must be no more than 72 bytes long")
	}
	if !checks.HasUppercase {
		errs = append(errs, "password must contain at least one uppercase letter (A-Z)")
	}
	if !checks.HasLowercase {
		errs = append(errs, "password must contain at least one lowercase letter (a-z)")
	}
	if !checks.HasDigit {
		errs = append(errs, "password must contain at least one number (0-9)")
	}
	if !checks.HasSpecialChar {
		errs = append(errs, `password must contain at least one special character (!@#$%^&*(),.?":{}|<>)`)
	}
	if !checks.NotCommon {
		errs = append(errs, "password is too common, choose a more unique one")
	}

	return Result{
		Valid:    len(errs) == 0,
		Errors:   errs,
		Strength: strength(checks),
		Checks:   checks,
	}
}

func strength(c Checks) Strength {
	met := 0
	for _, ok := range []bool{c.MinLength, c.MaxLength, c.HasUppercase, c.HasLowercase, c.HasDigit, c.HasSpecialChar, c.NotCommon} {
		if ok {
			met++
		}
	}
	switch {
	case met >= 7:
		return StrengthStrong
	case met >= 5:
		return StrengthGood
	case met >= 3:
		return StrengthFair
	default:
		return StrengthWeak
	}
}

// Requirement describes one policy rule for display next to a password field.
type Requirement struct {
	Text string
	Met  func(Checks) bool
}

// Requirements returns the display list of policy rules in a stable order.
func Requirements() []Requirement {
	return []Requirement{
		{Text: "At least 8 characters", Met: func(c Checks) bool { return c.MinLength }},
		{Text: "No more than 72 bytes", Met: func(c Checks) bool { return c.MaxLength }},
		{Text: "At least one uppercase letter (A-Z)", Met: func(c Checks) bool { return c.HasUppercase }},
		{Text: "At least one lowercase letter (a-z)", Met: func(c Checks) bool { return c.HasLowercase }},
		{Text: "At least one number (0-9)", Met: func(c Checks) bool { return c.HasDigit }},
		{Text: `At least one special character (!@#$%^&*(),.?":{}|<>)`, Met: func(c Checks) bool { return c.HasSpecialChar }},
		{Text: "Not a common password", Met: func(c Checks) bool { return c.NotCommon }},
	}
}
