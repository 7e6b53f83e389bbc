package model

import (
	"strings"
	"time"
)

// Patient represents a registered patient account
// @Description Patient account information
type Patient struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)" example:"5f0c7a4e-2f0b-4b8e-9a57-0d0b0f7f6b11"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	FirstName    string    `json:"first_name" gorm:"column:first_name;type:varchar(100);not null" example:"John"`
	LastName     string    `json:"last_name" gorm:"column:last_name;type:varchar(100);not null" example:"Doe"`
	Email        string    `json:"email" gorm:"column:email;type:varchar(191);uniqueIndex;not null" example:"john@example.com"`
	Password     string    `json:"-" gorm:"column:password;not null"`
	PasswordSalt string    `json:"-" gorm:"column:password_salt"`
	Sex          Sex       `json:"sex" gorm:"column:sex;type:varchar(10)" example:"MALE"`
	Birthdate    string    `json:"birthdate" gorm:"column:birthdate;type:varchar(32)" example:"1990-06-15"`
	Height       string    `json:"height" gorm:"column:height;type:varchar(16)" example:"175 cm"`
	Weight       string    `json:"weight" gorm:"column:weight;type:varchar(16)" example:"70 kg"`
	BloodType    BloodType `json:"blood_type" gorm:"column:blood_type;type:varchar(4)" example:"O+"`
}

// PatientDraft carries everything needed to create a patient except the
// identifier, which the store issues.
type PatientDraft struct {
	FirstName    string
	LastName     string
	Email        string
	Password     string
	PasswordSalt string
	Sex          Sex
	Birthdate    string
	Height       string
	Weight       string
	BloodType    BloodType
}

// NewPatient builds a complete patient record around a store-issued id.
func NewPatient(id string, d PatientDraft) Patient {
	return Patient{
		ID:           id,
		FirstName:    strings.TrimSpace(d.FirstName),
		LastName:     strings.TrimSpace(d.LastName),
		Email:        strings.ToLower(strings.TrimSpace(d.Email)),
		Password:     d.Password,
		PasswordSalt: d.PasswordSalt,
		Sex:          d.Sex,
		Birthdate:    d.Birthdate,
		Height:       d.Height,
		Weight:       d.Weight,
		BloodType:    d.BloodType,
	}
}

func (p Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

func (p Patient) Age(now time.Time) int {
	return AgeAt(p.Birthdate, now)
}
