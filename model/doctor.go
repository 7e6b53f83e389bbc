package model

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Doctor represents a registered doctor account
// @Description Doctor account information
type Doctor struct {
	ID              string         `json:"id" gorm:"primaryKey;type:varchar(36)" example:"b8e1f1de-6f6c-4a55-8f7e-0bbf5d0b2a31"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	FirstName       string         `json:"first_name" gorm:"column:first_name;type:varchar(100);not null" example:"Jane"`
	LastName        string         `json:"last_name" gorm:"column:last_name;type:varchar(100);not null" example:"Smith"`
	Email           string         `json:"email" gorm:"column:email;type:varchar(191);uniqueIndex;not null" example:"dr.jane@example.com"`
	Password        string         `json:"-" gorm:"column:password;not null"`
	PasswordSalt    string         `json:"-" gorm:"column:password_salt"`
	Sex             Sex            `json:"sex" gorm:"column:sex;type:varchar(10)" example:"FEMALE"`
	Birthdate       string         `json:"birthdate" gorm:"column:birthdate;type:varchar(32)" example:"1980-01-01"`
	Position        string         `json:"position" gorm:"column:position;type:varchar(100)" example:"Senior Consultant"`
	Field           MedicalField   `json:"field" gorm:"column:field;type:varchar(64);index" example:"Cardiology"`
	Specializations datatypes.JSON `json:"specializations" gorm:"column:specializations;type:json" swaggertype:"array,string"`
	Introduction    string         `json:"introduction" gorm:"column:introduction;type:text"`
	Rating          float64        `json:"rating" gorm:"column:rating;default:0" example:"4.5"`
	ReviewCount     int            `json:"review_count" gorm:"column:review_count;default:0" example:"12"`
}

type DoctorDraft struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	PasswordSalt    string
	Sex             Sex
	Birthdate       string
	Position        string
	Field           MedicalField
	Specializations []string
	Introduction    string
}

// NewDoctor builds a complete doctor record around a store-issued id. New
// doctors start without rating or reviews.
func NewDoctor(id string, d DoctorDraft) Doctor {
	doc := Doctor{
		ID:           id,
		FirstName:    strings.TrimSpace(d.FirstName),
		LastName:     strings.TrimSpace(d.LastName),
		Email:        strings.ToLower(strings.TrimSpace(d.Email)),
		Password:     d.Password,
		PasswordSalt: d.PasswordSalt,
		Sex:          d.Sex,
		Birthdate:    d.Birthdate,
		Position:     strings.TrimSpace(d.Position),
		Field:        d.Field,
		Introduction: strings.TrimSpace(d.Introduction),
	}
	doc.SetSpecializations(d.Specializations)
	return doc
}

// FullName prefixes the doctor's name with "Dr.".
func (d Doctor) FullName() string {
	return strings.TrimSpace("Dr. " + d.FirstName + " " + d.LastName)
}

func (d Doctor) Age(now time.Time) int {
	return AgeAt(d.Birthdate, now)
}

// SpecializationList decodes the stored tags. A malformed column reads as no tags.
func (d Doctor) SpecializationList() []string {
	if len(d.Specializations) == 0 {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal(d.Specializations, &tags); err != nil {
		return []string{}
	}
	return tags
}

// SetSpecializations stores tags deduplicated in insertion order.
func (d *Doctor) SetSpecializations(tags []string) {
	b, _ := json.Marshal(UniqueTags(tags))
	d.Specializations = datatypes.JSON(b)
}
