package model

import (
	"fmt"
	"strings"
)

// Role is the account capability carried by every session.
type Role string

const (
	RolePatient Role = "PATIENT"
	RoleDoctor  Role = "DOCTOR"
)

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RolePatient, RoleDoctor:
		return true
	}
	return false
}

// Display returns the label used by the mobile client ("Patient", "Doctor").
func (r Role) Display() string {
	switch r {
	case RolePatient:
		return "Patient"
	case RoleDoctor:
		return "Doctor"
	}
	return ""
}

// ParseRole converts the legacy spellings ("Patient", "patient", "DOCTOR", ...)
// into the canonical Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", fmt.Errorf("unknown account role %q", s)
	}
	return r, nil
}
