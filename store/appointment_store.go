package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ariebrainware/clinic-appointment/model"
)

type AppointmentStore struct {
	db    *gorm.DB
	newID func() string
	now   func() time.Time
}

func NewAppointmentStore(db *gorm.DB) *AppointmentStore {
	return &AppointmentStore{
		db:    db,
		newID: uuid.NewString,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Create persists a new PENDING appointment with a store-issued id.
func (s *AppointmentStore) Create(ctx context.Context, d model.AppointmentDraft) (model.Appointment, error) {
	if strings.TrimSpace(d.PatientID) == "" {
		return model.Appointment{}, ErrMissingPatient
	}
	a := model.NewAppointment(s.newID(), d, s.now())
	if err := s.db.WithContext(ctx).Create(&a).Error; err != nil {
		return model.Appointment{}, fmt.Errorf("create appointment: %w", err)
	}
	return a, nil
}

func (s *AppointmentStore) ByID(ctx context.Context, id string) Result[model.Appointment] {
	if id == "" {
		return Empty[model.Appointment]()
	}
	return firstByID[model.Appointment](ctx, s.db, id, "appointment")
}

func (s *AppointmentStore) list(ctx context.Context, what string, query interface{}, args ...interface{}) Result[[]model.Appointment] {
	var appts []model.Appointment
	err := s.db.WithContext(ctx).
		Where(query, args...).
		Order("created_at DESC").
		Order("id ASC").
		Find(&appts).Error
	if err != nil {
		return Failed[[]model.Appointment](fmt.Errorf("list appointments by %s: %w", what, err))
	}
	return listResult(appts, nil)
}

// ByPatient returns the patient's appointments, newest first.
func (s *AppointmentStore) ByPatient(ctx context.Context, patientID string) Result[[]model.Appointment] {
	return s.list(ctx, "patient", "patient_id = ?", patientID)
}

// ByDoctor returns the appointments assigned to doctorID, newest first.
func (s *AppointmentStore) ByDoctor(ctx context.Context, doctorID string) Result[[]model.Appointment] {
	return s.list(ctx, "doctor", "doctor_id = ?", doctorID)
}

func (s *AppointmentStore) ByStatus(ctx context.Context, status model.AppointmentStatus) Result[[]model.Appointment] {
	return s.list(ctx, "status", "status = ?", status)
}

// UnassignedPending is the pool any doctor may claim.
func (s *AppointmentStore) UnassignedPending(ctx context.Context) Result[[]model.Appointment] {
	return s.list(ctx, "unassigned pool", "status = ? AND (doctor_id IS NULL OR doctor_id = '')", model.StatusPending)
}

// CommitTransition writes appt's status, doctor and response, provided the
// stored row still has status previous. When another request moved the
// appointment first, no row matches and ErrStaleAppointment is returned.
func (s *AppointmentStore) CommitTransition(ctx context.Context, appt *model.Appointment, previous model.AppointmentStatus) error {
	if !appt.Status.IsValid() || appt.Status == previous {
		return model.ErrInvalidStatusTransition
	}
	now := s.now()
	res := s.db.WithContext(ctx).
		Model(&model.Appointment{}).
		Where("id = ? AND status = ?", appt.ID, previous).
		Updates(map[string]interface{}{
			"status":          appt.Status,
			"doctor_id":       appt.DoctorID,
			"diagnosis":       appt.Diagnosis,
			"recommendations": appt.Recommendations,
			"responded_at":    appt.RespondedAt,
			"updated_at":      now,
		})
	if res.Error != nil {
		return fmt.Errorf("commit appointment %s: %w", appt.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrStaleAppointment
	}
	appt.UpdatedAt = now
	return nil
}

