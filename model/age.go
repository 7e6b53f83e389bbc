package model

import (
	"strconv"
	"time"
)

// LegacyReferenceYear is the fixed "current year" the mobile client used to
// derive ages. Kept so LegacyAge reproduces the numbers older builds showed.
const LegacyReferenceYear = 2025

// LegacyAge parses the first four characters of birthdate as a year and
// subtracts it from referenceYear. Month and day are ignored. Any parse
// failure yields 0.
func LegacyAge(birthdate string, referenceYear int) int {
	if len(birthdate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(birthdate[:4])
	if err != nil {
		return 0
	}
	return referenceYear - year
}

// AgeAt returns the whole number of years between an ISO birthdate
// (YYYY-MM-DD, optionally followed by a time part) and now. The birthday must
// have been reached in now's year to count. Malformed or future birthdates
// yield 0.
func AgeAt(birthdate string, now time.Time) int {
	if len(birthdate) < len(time.DateOnly) {
		return 0
	}
	born, err := time.Parse(time.DateOnly, birthdate[:len(time.DateOnly)])
	if err != nil {
		return 0
	}
	age := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}
