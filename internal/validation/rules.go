// Package validation holds the pure input predicates for signup: email
// domain, password strength, and username format. No I/O, no side effects.
package validation

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

// Username length bounds (after trimming).
const (
	MinUsernameLength = 3
	MaxUsernameLength = 20
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// Sentinel reasons returned by the validators. Callers branch with errors.Is;
// the ordering of checks is fixed so user-facing messages are deterministic.
var (
	ErrEmailEmpty  = errors.New("email is empty")
	ErrEmailDomain = errors.New("email must use the institutional domain")

	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrPasswordTooWeak  = errors.New("password must contain a letter and a digit")

	ErrUsernameEmpty           = errors.New("username is empty")
	ErrUsernameTooShort        = errors.New("username is too short")
	ErrUsernameTooLong         = errors.New("username is too long")
	ErrUsernameMustStartLetter = errors.New("username must start with a letter")
	ErrUsernameBadCharacters   = errors.New("username may only contain letters, digits and underscores")
	ErrUsernameReserved        = errors.New("username is reserved")
)

var usernameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Rules carries the campus-specific configuration for the validators.
type Rules struct {
	// EmailDomain is the required email suffix without the leading "@",
	// e.g. "berkeley.edu".
	EmailDomain string
	// ReservedUsernames cannot be registered, compared case-insensitively.
	ReservedUsernames []string

	emailRe *regexp.Regexp
}

// NewRules builds Rules for the given domain and reserved-name denylist.
func NewRules(emailDomain string, reserved []string) *Rules {
	domain := strings.ToLower(strings.TrimSpace(emailDomain))
	return &Rules{
		EmailDomain:       domain,
		ReservedUsernames: reserved,
		emailRe:           regexp.MustCompile(`^[A-Za-z0-9._%+-]+@` + regexp.QuoteMeta(domain) + `$`),
	}
}

// IsInstitutionalEmail reports whether email belongs to the configured
// domain. The input is trimmed and lowercased, suffix-checked, then
// re-validated with a conservative address regex.
func (r *Rules) IsInstitutionalEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.HasSuffix(email, "@"+r.EmailDomain) {
		return false
	}
	return r.emailRe.MatchString(email)
}

// ValidateEmail returns nil for a valid institutional email, or the first
// failing reason.
func (r *Rules) ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return ErrEmailEmpty
	}
	if !r.IsInstitutionalEmail(email) {
		return ErrEmailDomain
	}
	return nil
}

// ValidatePassword checks length and letter+digit complexity.
func (r *Rules) ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	var hasLetter, hasDigit bool
	for _, c := range password {
		switch {
		case unicode.IsLetter(c):
			hasLetter = true
		case unicode.IsDigit(c):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return ErrPasswordTooWeak
	}
	return nil
}

// IsValidUsernameFormat reports whether username (after trimming) is 3–20
// characters, starts with a letter, and contains only letters, digits and
// underscores.
func (r *Rules) IsValidUsernameFormat(username string) bool {
	username = strings.TrimSpace(username)
	if len(username) < MinUsernameLength || len(username) > MaxUsernameLength {
		return false
	}
	return usernameRe.MatchString(username)
}

// IsReservedUsername reports case-insensitive membership in the denylist.
func (r *Rules) IsReservedUsername(username string) bool {
	username = strings.ToLower(strings.TrimSpace(username))
	for _, reserved := range r.ReservedUsernames {
		if username == strings.ToLower(reserved) {
			return true
		}
	}
	return false
}

// ValidateUsername composes the username checks in a fixed order:
// empty → too short → too long → must start with letter → bad characters →
// reserved. The first failing reason is returned.
func (r *Rules) ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrUsernameEmpty
	}
	if len(username) < MinUsernameLength {
		return ErrUsernameTooShort
	}
	if len(username) > MaxUsernameLength {
		return ErrUsernameTooLong
	}
	first := rune(username[0])
	if !unicode.IsLetter(first) || first > unicode.MaxASCII {
		return ErrUsernameMustStartLetter
	}
	if !usernameRe.MatchString(username) {
		return ErrUsernameBadCharacters
	}
	if r.IsReservedUsername(username) {
		return ErrUsernameReserved
	}
	return nil
}
