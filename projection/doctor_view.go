// Package projection turns stored appointments into the views shown on the
// doctor worklist and the patient's appointment list.
package projection

import (
	"context"
	"time"

	"github.com/ariebrainware/clinic-appointment/model"
)

const UnknownPatientName = "Unknown Patient"

// PatientLookup resolves a patient by id. A miss, including a failed lookup,
// reports false.
type PatientLookup interface {
	LookupPatient(ctx context.Context, id string) (model.Patient, bool)
}

// PatientLookupFunc adapts a plain function to PatientLookup.
type PatientLookupFunc func(ctx context.Context, id string) (model.Patient, bool)

func (f PatientLookupFunc) LookupPatient(ctx context.Context, id string) (model.Patient, bool) {
	return f(ctx, id)
}

// DoctorAppointmentView is an appointment enriched with the patient details a
// doctor needs on the worklist card.
// @Description Appointment as shown on a doctor's worklist
type DoctorAppointmentView struct {
	ID            string                  `json:"id"`
	PatientID     string                  `json:"patient_id"`
	DoctorID      *string                 `json:"doctor_id"`
	PatientName   string                  `json:"patient_name" example:"John Doe"`
	PatientAge    int                     `json:"patient_age" example:"35"`
	PatientSex    string                  `json:"patient_sex" example:"Male"`
	Symptoms      string                  `json:"symptoms"`
	Description   string                  `json:"description"`
	Status        model.AppointmentStatus `json:"status" example:"PENDING"`
	ScheduledDate string                  `json:"scheduled_date" example:"2025-03-14"`
	DoctorNotes   string                  `json:"doctor_notes"`
	CreatedAt     time.Time               `json:"created_at"`
}

// ProjectForDoctor never fails: an unresolvable patient is rendered as
// "Unknown Patient" with age 0 and no sex.
func ProjectForDoctor(ctx context.Context, appt model.Appointment, lookup PatientLookup, now time.Time) DoctorAppointmentView {
	v := DoctorAppointmentView{
		ID:          appt.ID,
		PatientID:   appt.PatientID,
		DoctorID:    appt.DoctorID,
		PatientName: UnknownPatientName,
		Symptoms:    appt.Symptoms,
		Description: appt.Description,
		Status:      appt.Status,
		CreatedAt:   appt.CreatedAt,
	}

	if lookup != nil {
		if p, ok := lookup.LookupPatient(ctx, appt.PatientID); ok {
			v.PatientName = p.FullName()
			v.PatientAge = p.Age(now)
			v.PatientSex = p.Sex.Display()
		}
	}

	if r := appt.Response(); r != nil {
		v.ScheduledDate = scheduledDate(r.RespondedAt)
		v.DoctorNotes = r.Diagnosis + "\n" + r.Recommendations
	}
	return v
}

// ProjectAllForDoctor projects appts in order.
func ProjectAllForDoctor(ctx context.Context, appts []model.Appointment, lookup PatientLookup, now time.Time) []DoctorAppointmentView {
	views := make([]DoctorAppointmentView, 0, len(appts))
	for _, a := range appts {
		views = append(views, ProjectForDoctor(ctx, a, lookup, now))
	}
	return views
}

// scheduledDate is the date part of the RFC3339 rendering of t.
func scheduledDate(t time.Time) string {
	s := t.Format(time.RFC3339)
	if len(s) > 10 {
		return s[:10]
	}
	return s
}
