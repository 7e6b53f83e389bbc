package projection

import (
	"context"
	"time"

	"github.com/ariebrainware/clinic-appointment/model"
)

const (
	AwaitingDoctorName = "Awaiting doctor"
	UnknownDoctorName  = "Unknown Doctor"
)

type DoctorLookup interface {
	LookupDoctor(ctx context.Context, id string) (model.Doctor, bool)
}

type DoctorLookupFunc func(ctx context.Context, id string) (model.Doctor, bool)

func (f DoctorLookupFunc) LookupDoctor(ctx context.Context, id string) (model.Doctor, bool) {
	return f(ctx, id)
}

// PatientAppointmentView is an appointment as listed for the patient who
// requested it.
// @Description Appointment as shown to the requesting patient
type PatientAppointmentView struct {
	ID             string                  `json:"id"`
	DoctorID       *string                 `json:"doctor_id"`
	DoctorName     string                  `json:"doctor_name" example:"Dr. Jane Smith"`
	DoctorField    model.MedicalField      `json:"doctor_field,omitempty" example:"Cardiology"`
	Symptoms       string                  `json:"symptoms"`
	Description    string                  `json:"description"`
	Status         model.AppointmentStatus `json:"status" example:"ACCEPTED"`
	DoctorResponse *model.DoctorResponse   `json:"doctor_response"`
	CreatedAt      time.Time               `json:"created_at"`
}

func ProjectForPatient(ctx context.Context, appt model.Appointment, lookup DoctorLookup) PatientAppointmentView {
	v := PatientAppointmentView{
		ID:             appt.ID,
		DoctorID:       appt.DoctorID,
		DoctorName:     AwaitingDoctorName,
		Symptoms:       appt.Symptoms,
		Description:    appt.Description,
		Status:         appt.Status,
		DoctorResponse: appt.Response(),
		CreatedAt:      appt.CreatedAt,
	}
	if appt.IsUnassigned() {
		return v
	}
	v.DoctorName = UnknownDoctorName
	if lookup == nil {
		return v
	}
	if d, ok := lookup.LookupDoctor(ctx, *appt.DoctorID); ok {
		v.DoctorName = d.FullName()
		v.DoctorField = d.Field
	}
	return v
}

func ProjectAllForPatient(ctx context.Context, appts []model.Appointment, lookup DoctorLookup) []PatientAppointmentView {
	views := make([]PatientAppointmentView, 0, len(appts))
	for _, a := range appts {
		views = append(views, ProjectForPatient(ctx, a, lookup))
	}
	return views
}
