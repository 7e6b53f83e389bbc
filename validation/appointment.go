package validation

import (
	"strings"

	"github.com/ariebrainware/clinic-appointment/model"
)

// AppointmentForm gates submission of a new appointment request.
type AppointmentForm struct {
	formState

	Symptoms    string `json:"symptoms" example:"Fever, headache"`
	Description string `json:"description" example:"Fever for three days with a mild cough"`
	DoctorID    string `json:"doctor_id,omitempty" example:"6f1c2d9e-6f0b-4b43-9a57-0d2ad2c6e1a4"`
}

func (f *AppointmentForm) ValidateSymptoms() bool {
	return f.checkRequired(FieldSymptoms, f.Symptoms, MsgSymptomsRequired)
}

func (f *AppointmentForm) ValidateDescription() bool {
	return f.checkRequired(FieldDescription, f.Description, MsgDescriptionRequired)
}

func (f *AppointmentForm) Validate() bool {
	return allOf(f.ValidateSymptoms, f.ValidateDescription)
}

// Draft converts a validated form into an appointment draft for patientID.
// A blank doctor id leaves the appointment in the unassigned pool.
func (f *AppointmentForm) Draft(patientID string) model.AppointmentDraft {
	d := model.AppointmentDraft{
		PatientID:   patientID,
		Symptoms:    f.Symptoms,
		Description: f.Description,
	}
	if id := strings.TrimSpace(f.DoctorID); id != "" {
		d.DoctorID = &id
	}
	return d
}
