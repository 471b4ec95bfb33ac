// Package validation provides reusable checks for the raw command-line tokens of options and
// positional values. Validators are plain functions and compose with All, OneOf and Not:
//
//	validation.All(
//		validation.Identifier(),
//		validation.MinLength(3),
//		validation.Not(validation.IsOneOf("admin", "root")),
//	)
//
// The same checks can be written as a specification string, see Parse.
package validation

import (
	"fmt"
	"net"
	"net/mail"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/napalu/cmdtree/errs"
	"github.com/napalu/cmdtree/internal/util"
)

// ValidatorFunc validates a raw token and returns an error if it is not acceptable
type ValidatorFunc func(value string) error

var hostnamePattern = regexp.MustCompile(`^([a-zA-Z0-9]|[a-zA-Z0-9][a-zA-Z0-9\-]*[a-zA-Z0-9])(\.([a-zA-Z0-9]|[a-zA-Z0-9][a-zA-Z0-9\-]*[a-zA-Z0-9]))*$`)

// All combines validators, all of which must pass. The first failure is returned.
func All(validators ...ValidatorFunc) ValidatorFunc {
	return func(value string) error {
		for _, validator := range validators {
			if err := validator(value); err != nil {
				return err
			}
		}
		return nil
	}
}

// OneOf combines validators, at least one of which must pass. No validators always pass.
func OneOf(validators ...ValidatorFunc) ValidatorFunc {
	return func(value string) error {
		if len(validators) == 0 {
			return nil
		}
		msgs := make([]string, 0, len(validators))
		for _, validator := range validators {
			err := validator(value)
			if err == nil {
				return nil
			}
			msgs = append(msgs, err.Error())
		}
		return fmt.Errorf("%w: %s", errs.ErrNoValidatorPassed, strings.Join(msgs, " or "))
	}
}

// Not passes only when validator fails
func Not(validator ValidatorFunc) ValidatorFunc {
	return func(value string) error {
		if err := validator(value); err == nil {
			return fmt.Errorf("%w: '%s'", errs.ErrValueNotAllowed, value)
		}
		return nil
	}
}

func Email() ValidatorFunc {
	return func(value string) error {
		if _, err := mail.ParseAddress(value); err != nil {
			return fmt.Errorf("%w: '%s' is not an email address", errs.ErrValueFormat, value)
		}
		return nil
	}
}

// URL validates an absolute URL with a host. When schemes are given the URL must use one of them.
func URL(schemes ...string) ValidatorFunc {
	return func(value string) error {
		u, err := url.Parse(value)
		if err != nil || u.Host == "" {
			return fmt.Errorf("%w: '%s' is not a URL", errs.ErrValueFormat, value)
		}
		if len(schemes) == 0 {
			return nil
		}
		for _, scheme := range schemes {
			if util.EqualFold(u.Scheme, scheme) {
				return nil
			}
		}
		return fmt.Errorf("%w: scheme of '%s' must be one of %s", errs.ErrValueFormat, value, strings.Join(schemes, ", "))
	}
}

// MinLength validates the minimum length in characters, not bytes
func MinLength(min int) ValidatorFunc {
	return func(value string) error {
		if n := utf8.RuneCountInString(value); n < min {
			return fmt.Errorf("%w: '%s' must have at least %d characters", errs.ErrValueLength, value, min)
		}
		return nil
	}
}

// MaxLength validates the maximum length in characters, not bytes
func MaxLength(max int) ValidatorFunc {
	return func(value string) error {
		if n := utf8.RuneCountInString(value); n > max {
			return fmt.Errorf("%w: '%s' must have at most %d characters", errs.ErrValueLength, value, max)
		}
		return nil
	}
}

func Length(exact int) ValidatorFunc {
	return func(value string) error {
		if n := utf8.RuneCountInString(value); n != exact {
			return fmt.Errorf("%w: '%s' must have exactly %d characters", errs.ErrValueLength, value, exact)
		}
		return nil
	}
}

// Range validates a number between min and max, inclusive
func Range(min, max float64) ValidatorFunc {
	return func(value string) error {
		num, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: '%s'", errs.ErrParseFloat, value)
		}
		if num < min || num > max {
			return fmt.Errorf("%w: %s is not between %v and %v", errs.ErrValueOutOfRange, value, min, max)
		}
		return nil
	}
}

// IntRange validates an integer between min and max, inclusive
func IntRange(min, max int) ValidatorFunc {
	return func(value string) error {
		num, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: '%s'", errs.ErrParseInt, value)
		}
		if num < min || num > max {
			return fmt.Errorf("%w: %d is not between %d and %d", errs.ErrValueOutOfRange, num, min, max)
		}
		return nil
	}
}

func Min(min float64) ValidatorFunc {
	return func(value string) error {
		num, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: '%s'", errs.ErrParseFloat, value)
		}
		if num < min {
			return fmt.Errorf("%w: %s is less than %v", errs.ErrValueOutOfRange, value, min)
		}
		return nil
	}
}

func Max(max float64) ValidatorFunc {
	return func(value string) error {
		num, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: '%s'", errs.ErrParseFloat, value)
		}
		if num > max {
			return fmt.Errorf("%w: %s is greater than %v", errs.ErrValueOutOfRange, value, max)
		}
		return nil
	}
}

func Integer() ValidatorFunc {
	return func(value string) error {
		if _, err := strconv.Atoi(value); err != nil {
			return fmt.Errorf("%w: '%s'", errs.ErrParseInt, value)
		}
		return nil
	}
}

func Float() ValidatorFunc {
	return func(value string) error {
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return fmt.Errorf("%w: '%s'", errs.ErrParseFloat, value)
		}
		return nil
	}
}

func Boolean() ValidatorFunc {
	return func(value string) error {
		if _, err := strconv.ParseBool(value); err != nil {
			return fmt.Errorf("%w: '%s'", errs.ErrParseBool, value)
		}
		return nil
	}
}

// AlphaNumeric accepts letters and digits of any script, including combining marks
func AlphaNumeric() ValidatorFunc {
	return func(value string) error {
		if value == "" {
			return fmt.Errorf("%w: empty value is not alphanumeric", errs.ErrValueFormat)
		}
		for _, r := range value {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsMark(r) {
				return fmt.Errorf("%w: '%s' is not alphanumeric", errs.ErrValueFormat, value)
			}
		}
		return nil
	}
}

// Identifier accepts a letter followed by letters, digits, marks and underscores
func Identifier() ValidatorFunc {
	return func(value string) error {
		for i, r := range []rune(value) {
			if unicode.IsLetter(r) || (i > 0 && (unicode.IsDigit(r) || unicode.IsMark(r) || r == '_')) {
				continue
			}
			return fmt.Errorf("%w: '%s' is not an identifier", errs.ErrValueFormat, value)
		}
		if value == "" {
			return fmt.Errorf("%w: empty value is not an identifier", errs.ErrValueFormat)
		}
		return nil
	}
}

func NoWhitespace() ValidatorFunc {
	return func(value string) error {
		if strings.IndexFunc(value, unicode.IsSpace) >= 0 {
			return fmt.Errorf("%w: '%s' contains whitespace", errs.ErrValueFormat, value)
		}
		return nil
	}
}

// FileExtension validates that the value ends with one of extensions, ignoring case
func FileExtension(extensions ...string) ValidatorFunc {
	return func(value string) error {
		for _, ext := range extensions {
			if len(value) >= len(ext) && util.EqualFold(value[len(value)-len(ext):], ext) {
				return nil
			}
		}
		return fmt.Errorf("%w: '%s' must have one of the extensions %s", errs.ErrValueFormat, value, strings.Join(extensions, ", "))
	}
}

// Hostname validates an RFC 1123 host name. Internationalized names must be given in punycode.
func Hostname() ValidatorFunc {
	return func(value string) error {
		if len(value) > 253 || !hostnamePattern.MatchString(value) {
			return fmt.Errorf("%w: '%s' is not a host name", errs.ErrValueFormat, value)
		}
		return nil
	}
}

// IP validates an IPv4 or IPv6 address
func IP() ValidatorFunc {
	return func(value string) error {
		if net.ParseIP(value) == nil {
			return fmt.Errorf("%w: '%s' is not an IP address", errs.ErrValueFormat, value)
		}
		return nil
	}
}

func Port() ValidatorFunc {
	return IntRange(1, 65535)
}

// IsOneOf accepts exactly one of allowed
func IsOneOf(allowed ...string) ValidatorFunc {
	set := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		set[a] = true
	}

	return func(value string) error {
		if !set[value] {
			return fmt.Errorf("%w: '%s' must be one of %s", errs.ErrValueNotAllowed, value, strings.Join(allowed, ", "))
		}
		return nil
	}
}

func IsNotOneOf(forbidden ...string) ValidatorFunc {
	return Not(IsOneOf(forbidden...))
}

func HasPrefix(prefix string) ValidatorFunc {
	return func(value string) error {
		if !strings.HasPrefix(value, prefix) {
			return fmt.Errorf("%w: '%s' must start with '%s'", errs.ErrValueFormat, value, prefix)
		}
		return nil
	}
}

func HasSuffix(suffix string) ValidatorFunc {
	return func(value string) error {
		if !strings.HasSuffix(value, suffix) {
			return fmt.Errorf("%w: '%s' must end with '%s'", errs.ErrValueFormat, value, suffix)
		}
		return nil
	}
}

func Contains(substring string) ValidatorFunc {
	return func(value string) error {
		if !strings.Contains(value, substring) {
			return fmt.Errorf("%w: '%s' must contain '%s'", errs.ErrValueFormat, value, substring)
		}
		return nil
	}
}

// Regex compiles pattern and returns a validator matching against it
func Regex(pattern string) (ValidatorFunc, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: regex '%s': %w", errs.ErrInvalidValidator, pattern, err)
	}

	return func(value string) error {
		if !re.MatchString(value) {
			return fmt.Errorf("%w: '%s' does not match %s", errs.ErrValueFormat, value, pattern)
		}
		return nil
	}, nil
}
