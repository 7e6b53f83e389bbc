package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// AppointmentStatus tracks a request from creation to resolution.
//
//	PENDING → ACCEPTED → COMPLETED
//	PENDING → DECLINED
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "PENDING"
	StatusAccepted  AppointmentStatus = "ACCEPTED"
	StatusDeclined  AppointmentStatus = "DECLINED"
	StatusCompleted AppointmentStatus = "COMPLETED"
)

var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusAccepted, StatusDeclined},
	StatusAccepted:  {StatusCompleted},
	StatusDeclined:  {},
	StatusCompleted: {},
}

func (s AppointmentStatus) IsValid() bool {
	_, ok := appointmentTransitions[s]
	return ok
}

// ParseAppointmentStatus accepts any letter case ("pending", "Accepted").
func ParseAppointmentStatus(v string) (AppointmentStatus, error) {
	s := AppointmentStatus(strings.ToUpper(strings.TrimSpace(v)))
	if !s.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownAppointmentStatus, v)
	}
	return s, nil
}

// DoctorResponse is attached by the handling doctor when resolving an appointment.
type DoctorResponse struct {
	Diagnosis       string    `json:"diagnosis" example:"Seasonal influenza"`
	Recommendations string    `json:"recommendations" example:"Rest and fluids"`
	RespondedAt     time.Time `json:"responded_at"`
}

// Appointment represents a patient's consultation request
// @Description Appointment information
type Appointment struct {
	ID          string            `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CreatedAt   time.Time         `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time         `json:"updated_at"`
	PatientID   string            `json:"patient_id" gorm:"column:patient_id;type:varchar(36);not null;index"`
	DoctorID    *string           `json:"doctor_id" gorm:"column:doctor_id;type:varchar(36);index"`
	Status      AppointmentStatus `json:"status" gorm:"column:status;type:varchar(16);not null;default:'PENDING';index" example:"PENDING"`
	Symptoms    string            `json:"symptoms" gorm:"column:symptoms;type:varchar(255);not null" example:"Fever, headache"`
	Description string            `json:"description" gorm:"column:description;type:text;not null" example:"Fever for three days"`

	// Response columns; read through Response().
	Diagnosis       string     `json:"-" gorm:"column:diagnosis;type:text"`
	Recommendations string     `json:"-" gorm:"column:recommendations;type:text"`
	RespondedAt     *time.Time `json:"-" gorm:"column:responded_at"`
}

// AppointmentDraft is a patient's request before the store has issued an id.
type AppointmentDraft struct {
	PatientID   string
	DoctorID    *string
	Symptoms    string
	Description string
}

// NewAppointment builds a PENDING appointment around a store-issued id.
func NewAppointment(id string, d AppointmentDraft, now time.Time) Appointment {
	a := Appointment{
		ID:          id,
		CreatedAt:   now,
		UpdatedAt:   now,
		PatientID:   d.PatientID,
		Status:      StatusPending,
		Symptoms:    strings.TrimSpace(d.Symptoms),
		Description: strings.TrimSpace(d.Description),
	}
	if d.DoctorID != nil && *d.DoctorID != "" {
		doctorID := *d.DoctorID
		a.DoctorID = &doctorID
	}
	return a
}

// Response returns the doctor's response, or nil when no doctor has acted.
func (a Appointment) Response() *DoctorResponse {
	if a.RespondedAt == nil {
		return nil
	}
	return &DoctorResponse{
		Diagnosis:       a.Diagnosis,
		Recommendations: a.Recommendations,
		RespondedAt:     *a.RespondedAt,
	}
}

func (a *Appointment) setResponse(r DoctorResponse) {
	respondedAt := r.RespondedAt
	a.Diagnosis = strings.TrimSpace(r.Diagnosis)
	a.Recommendations = strings.TrimSpace(r.Recommendations)
	a.RespondedAt = &respondedAt
}

// IsUnassigned reports whether the appointment sits in the pool every doctor can claim.
func (a Appointment) IsUnassigned() bool {
	return a.DoctorID == nil || *a.DoctorID == ""
}

// ResponseConsistent checks that a response is present exactly when the
// status is past PENDING.
func (a Appointment) ResponseConsistent() bool {
	return (a.Response() != nil) == (a.Status != StatusPending)
}

func (a Appointment) CanTransitionTo(next AppointmentStatus) bool {
	for _, s := range appointmentTransitions[a.Status] {
		if s == next {
			return true
		}
	}
	return false
}

// Accept moves a PENDING appointment to ACCEPTED and assigns it to doctorID.
func (a *Appointment) Accept(doctorID string, r DoctorResponse) error {
	return a.resolve(StatusAccepted, doctorID, r)
}

// Decline moves a PENDING appointment to DECLINED and assigns it to doctorID.
func (a *Appointment) Decline(doctorID string, r DoctorResponse) error {
	return a.resolve(StatusDeclined, doctorID, r)
}

func (a *Appointment) resolve(next AppointmentStatus, doctorID string, r DoctorResponse) error {
	if !a.CanTransitionTo(next) {
		return ErrInvalidStatusTransition
	}
	if doctorID == "" || (!a.IsUnassigned() && *a.DoctorID != doctorID) {
		return ErrAppointmentNotAssigned
	}
	if strings.TrimSpace(r.Diagnosis) == "" {
		return ErrDoctorResponseRequired
	}
	if r.RespondedAt.IsZero() {
		r.RespondedAt = time.Now().UTC()
	}
	id := doctorID
	a.DoctorID = &id
	a.Status = next
	a.setResponse(r)
	return nil
}

// Complete closes an ACCEPTED appointment. Only the assigned doctor may do
// so. A non-nil response replaces the one given at acceptance.
func (a *Appointment) Complete(doctorID string, r *DoctorResponse) error {
	if !a.CanTransitionTo(StatusCompleted) {
		return ErrInvalidStatusTransition
	}
	if a.IsUnassigned() || *a.DoctorID != doctorID {
		return ErrAppointmentNotAssigned
	}
	if r != nil {
		if strings.TrimSpace(r.Diagnosis) == "" {
			return ErrDoctorResponseRequired
		}
		resp := *r
		if resp.RespondedAt.IsZero() {
			resp.RespondedAt = time.Now().UTC()
		}
		a.setResponse(resp)
	}
	a.Status = StatusCompleted
	return nil
}

// MarshalJSON exposes the response columns as a nested doctor_response object.
func (a Appointment) MarshalJSON() ([]byte, error) {
	type appointmentAlias Appointment
	return json.Marshal(struct {
		appointmentAlias
		Response *DoctorResponse `json:"doctor_response"`
	}{appointmentAlias(a), a.Response()})
}
