package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatientFullNameAndAge(t *testing.T) {
	p := NewPatient("P1", PatientDraft{FirstName: " John ", LastName: "Doe", Email: " John@Example.com ", Birthdate: "1990-06-15"})

	assert.Equal(t, "John Doe", p.FullName())
	assert.Equal(t, "john@example.com", p.Email)
	assert.Equal(t, 35, p.Age(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 34, p.Age(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
}

func TestDoctorFullNameIsPrefixed(t *testing.T) {
	d := NewDoctor("D1", DoctorDraft{FirstName: "Jane", LastName: "Smith"})
	assert.Equal(t, "Dr. Jane Smith", d.FullName())
}

func TestDoctorSpecializations_UniqueInInsertionOrder(t *testing.T) {
	d := NewDoctor("D1", DoctorDraft{
		FirstName:       "Jane",
		LastName:        "Smith",
		Specializations: []string{"Heart failure", " Arrhythmia", "", "Heart failure", "Hypertension"},
	})

	assert.Equal(t, []string{"Heart failure", "Arrhythmia", "Hypertension"}, d.SpecializationList())
}

func TestDoctorSpecializations_Malformed(t *testing.T) {
	d := Doctor{Specializations: []byte("{not json")}
	assert.Empty(t, d.SpecializationList())
	assert.Empty(t, Doctor{}.SpecializationList())
}

func TestAccountModels_Create(t *testing.T) {
	db := setupTestDB(t, "accounts", &Patient{}, &Doctor{})

	patient := NewPatient("P1", PatientDraft{
		FirstName: "John", LastName: "Doe", Email: "john@test.com", Password: "hash",
		Sex: SexMale, Birthdate: "1990-06-15", Height: "175 cm", Weight: "70 kg", BloodType: BloodTypeOPositive,
	})
	require.NoError(t, db.Create(&patient).Error)

	doctor := NewDoctor("D1", DoctorDraft{
		FirstName: "Jane", LastName: "Smith", Email: "jane@test.com", Password: "hash",
		Sex: SexFemale, Birthdate: "1980-01-01", Position: "Consultant", Field: FieldCardiology,
		Specializations: []string{"Arrhythmia"}, Introduction: "Twenty years of cardiology practice.",
	})
	require.NoError(t, db.Create(&doctor).Error)

	var foundPatient Patient
	require.NoError(t, db.First(&foundPatient, "id = ?", "P1").Error)
	assert.Equal(t, BloodTypeOPositive, foundPatient.BloodType)
	assert.Equal(t, "175 cm", foundPatient.Height)

	var foundDoctor Doctor
	require.NoError(t, db.First(&foundDoctor, "id = ?", "D1").Error)
	assert.Equal(t, FieldCardiology, foundDoctor.Field)
	assert.Equal(t, []string{"Arrhythmia"}, foundDoctor.SpecializationList())
	assert.Zero(t, foundDoctor.ReviewCount)
}

func TestAccountModels_UniqueEmail(t *testing.T) {
	db := setupTestDB(t, "accounts_unique", &Patient{})

	first := NewPatient("P1", PatientDraft{FirstName: "A", LastName: "B", Email: "same@test.com", Password: "x"})
	second := NewPatient("P2", PatientDraft{FirstName: "C", LastName: "D", Email: "same@test.com", Password: "x"})
	require.NoError(t, db.Create(&first).Error)
	assert.Error(t, db.Create(&second).Error)
}

func TestEnumerations(t *testing.T) {
	r, err := ParseRole("Patient")
	require.NoError(t, err)
	assert.Equal(t, RolePatient, r)
	assert.Equal(t, "Doctor", RoleDoctor.Display())
	_, err = ParseRole("admin")
	assert.Error(t, err)

	s, err := ParseSex("Female")
	require.NoError(t, err)
	assert.Equal(t, SexFemale, s)
	assert.Equal(t, "Other", SexOther.Display())
	assert.Equal(t, "", Sex("").Display())

	assert.Len(t, BloodTypes, 8)
	assert.True(t, BloodType("AB-").IsValid())
	assert.False(t, BloodType("C+").IsValid())

	assert.Len(t, MedicalFields, 16)
	assert.True(t, FieldOther.IsValid())
	assert.False(t, MedicalField("Astrology").IsValid())
}
