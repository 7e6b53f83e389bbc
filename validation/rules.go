package validation

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func runeLen(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}

func lettersAndSpaces(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

func containsRune(s string, pred func(rune) bool) bool {
	for _, r := range s {
		if pred(r) {
			return true
		}
	}
	return false
}

type nameMessages struct {
	required string
	tooShort string
	invalid  string
}

func (f *formState) checkName(field Field, value string, msgs nameMessages) bool {
	switch {
	case isBlank(value):
		return f.fail(field, msgs.required)
	case runeLen(value) < MinNameLength:
		return f.fail(field, msgs.tooShort)
	case !lettersAndSpaces(value):
		return f.fail(field, msgs.invalid)
	}
	return f.pass(field)
}

func (f *formState) checkEmail(field Field, value string) bool {
	if isBlank(value) {
		return f.fail(field, MsgEmailRequired)
	}
	if err := validate.Var(strings.TrimSpace(value), "email"); err != nil {
		return f.fail(field, MsgEmailInvalid)
	}
	return f.pass(field)
}

// checkPassword applies the rules in a fixed precedence; the first failing
// rule's message wins.
func (f *formState) checkPassword(field Field, value string) bool {
	switch {
	case isBlank(value):
		return f.fail(field, MsgPasswordRequired)
	case utf8.RuneCountInString(value) < MinPasswordLength:
		return f.fail(field, MsgPasswordTooShort)
	case !containsRune(value, unicode.IsUpper):
		return f.fail(field, MsgPasswordUppercase)
	case !containsRune(value, unicode.IsLower):
		return f.fail(field, MsgPasswordLowercase)
	case !containsRune(value, unicode.IsDigit):
		return f.fail(field, MsgPasswordDigit)
	}
	return f.pass(field)
}

type measurementRule struct {
	min, max float64
	required string
	outRange string
}

// plainDecimal matches what the number pad produces: digits with an optional
// fractional part. Signs, exponents and hex floats are rejected.
var plainDecimal = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// parseMeasurement reads a plain decimal number.
func parseMeasurement(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if !plainDecimal.MatchString(value) {
		return 0, false
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func (f *formState) checkMeasurement(field Field, value string, rule measurementRule) bool {
	if isBlank(value) {
		return f.fail(field, rule.required)
	}
	v, ok := parseMeasurement(value)
	if !ok {
		return f.fail(field, MsgInvalidNumber)
	}
	if v < rule.min || v > rule.max {
		return f.fail(field, rule.outRange)
	}
	return f.pass(field)
}

func (f *formState) checkRequired(field Field, value, msg string) bool {
	if isBlank(value) {
		return f.fail(field, msg)
	}
	return f.pass(field)
}

// formatMeasurement renders a validated number with its unit suffix, e.g. "175 cm".
func formatMeasurement(value, unit string) string {
	v, ok := parseMeasurement(value)
	if !ok {
		return strings.TrimSpace(value)
	}
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + unit
}
