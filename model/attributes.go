package model

import (
	"fmt"
	"strings"
)

type Sex string

const (
	SexMale   Sex = "MALE"
	SexFemale Sex = "FEMALE"
	SexOther  Sex = "OTHER"
)

func (s Sex) IsValid() bool {
	switch s {
	case SexMale, SexFemale, SexOther:
		return true
	}
	return false
}

// Display returns the human readable label shown on appointment cards.
func (s Sex) Display() string {
	switch s {
	case SexMale:
		return "Male"
	case SexFemale:
		return "Female"
	case SexOther:
		return "Other"
	}
	return ""
}

// ParseSex accepts both the stored form ("MALE") and the display form ("Male").
func ParseSex(v string) (Sex, error) {
	s := Sex(strings.ToUpper(strings.TrimSpace(v)))
	if !s.IsValid() {
		return "", fmt.Errorf("unknown sex %q", v)
	}
	return s, nil
}

type BloodType string

const (
	BloodTypeAPositive  BloodType = "A+"
	BloodTypeANegative  BloodType = "A-"
	BloodTypeBPositive  BloodType = "B+"
	BloodTypeBNegative  BloodType = "B-"
	BloodTypeABPositive BloodType = "AB+"
	BloodTypeABNegative BloodType = "AB-"
	BloodTypeOPositive  BloodType = "O+"
	BloodTypeONegative  BloodType = "O-"
)

// BloodTypes lists the selectable blood types in display order.
var BloodTypes = []BloodType{
	BloodTypeAPositive, BloodTypeANegative,
	BloodTypeBPositive, BloodTypeBNegative,
	BloodTypeABPositive, BloodTypeABNegative,
	BloodTypeOPositive, BloodTypeONegative,
}

func (b BloodType) IsValid() bool {
	for _, v := range BloodTypes {
		if v == b {
			return true
		}
	}
	return false
}

// MedicalField is a doctor's specialty. The list is open-ended through FieldOther.
type MedicalField string

const (
	FieldGeneralPractice  MedicalField = "General Practice"
	FieldCardiology       MedicalField = "Cardiology"
	FieldDermatology      MedicalField = "Dermatology"
	FieldEndocrinology    MedicalField = "Endocrinology"
	FieldGastroenterology MedicalField = "Gastroenterology"
	FieldNeurology        MedicalField = "Neurology"
	FieldObstetrics       MedicalField = "Obstetrics & Gynecology"
	FieldOncology         MedicalField = "Oncology"
	FieldOphthalmology    MedicalField = "Ophthalmology"
	FieldOrthopedics      MedicalField = "Orthopedics"
	FieldOtolaryngology   MedicalField = "Otolaryngology"
	FieldPediatrics       MedicalField = "Pediatrics"
	FieldPsychiatry       MedicalField = "Psychiatry"
	FieldPulmonology      MedicalField = "Pulmonology"
	FieldUrology          MedicalField = "Urology"
	FieldOther            MedicalField = "Other"
)

var MedicalFields = []MedicalField{
	FieldGeneralPractice, FieldCardiology, FieldDermatology, FieldEndocrinology,
	FieldGastroenterology, FieldNeurology, FieldObstetrics, FieldOncology,
	FieldOphthalmology, FieldOrthopedics, FieldOtolaryngology, FieldPediatrics,
	FieldPsychiatry, FieldPulmonology, FieldUrology, FieldOther,
}

func (f MedicalField) IsValid() bool {
	for _, v := range MedicalFields {
		if v == f {
			return true
		}
	}
	return false
}

// UniqueTags trims tags, drops blanks and duplicates, and keeps the first
// occurrence of each tag in its original position.
func UniqueTags(tags []string) []string {
	result := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		trimmed := strings.TrimSpace(t)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	return result
}
