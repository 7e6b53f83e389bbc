package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ariebrainware/clinic-appointment/model"
)

// Account is the role-tagged result of an email lookup at login. Exactly one
// of Patient and Doctor is set.
type Account struct {
	Role    model.Role
	Patient *model.Patient
	Doctor  *model.Doctor
}

func (a Account) ID() string {
	if a.Doctor != nil {
		return a.Doctor.ID
	}
	if a.Patient != nil {
		return a.Patient.ID
	}
	return ""
}

// Credentials returns the stored password hash and salt.
func (a Account) Credentials() (hash, salt string) {
	if a.Doctor != nil {
		return a.Doctor.Password, a.Doctor.PasswordSalt
	}
	if a.Patient != nil {
		return a.Patient.Password, a.Patient.PasswordSalt
	}
	return "", ""
}

type AccountStoreConfig struct {
	PatientCacheSize int
	DoctorCacheTTL   time.Duration
}

type AccountStore struct {
	db        *gorm.DB
	patients  *patientLRU
	directory *doctorDirectory
	newID     func() string
}

func NewAccountStore(db *gorm.DB, cfg AccountStoreConfig) *AccountStore {
	return &AccountStore{
		db:        db,
		patients:  newPatientLRU(cfg.PatientCacheSize),
		directory: newDoctorDirectory(cfg.DoctorCacheTTL),
		newID:     uuid.NewString,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func emailTaken(tx *gorm.DB, email string) (bool, error) {
	var count int64
	if err := tx.Model(&model.Patient{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count patients by email: %w", err)
	}
	if count > 0 {
		return true, nil
	}
	if err := tx.Model(&model.Doctor{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count doctors by email: %w", err)
	}
	return count > 0, nil
}

// EmailTaken reports whether any account, patient or doctor, uses email.
func (s *AccountStore) EmailTaken(ctx context.Context, email string) (bool, error) {
	return emailTaken(s.db.WithContext(ctx), normalizeEmail(email))
}

// CreatePatient issues an id and persists the patient. The email must be
// unused by both patients and doctors, otherwise ErrEmailTaken is returned.
func (s *AccountStore) CreatePatient(ctx context.Context, d model.PatientDraft) (model.Patient, error) {
	p := model.NewPatient(s.newID(), d)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := emailTaken(tx, p.Email)
		if err != nil {
			return err
		}
		if taken {
			return ErrEmailTaken
		}
		return tx.Create(&p).Error
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return model.Patient{}, err
		}
		return model.Patient{}, fmt.Errorf("create patient: %w", err)
	}
	s.patients.set(p)
	return p, nil
}

func (s *AccountStore) CreateDoctor(ctx context.Context, d model.DoctorDraft) (model.Doctor, error) {
	doc := model.NewDoctor(s.newID(), d)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := emailTaken(tx, doc.Email)
		if err != nil {
			return err
		}
		if taken {
			return ErrEmailTaken
		}
		return tx.Create(&doc).Error
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return model.Doctor{}, err
		}
		return model.Doctor{}, fmt.Errorf("create doctor: %w", err)
	}
	s.directory.flush()
	return doc, nil
}

func firstByID[T any](ctx context.Context, db *gorm.DB, id, what string) Result[T] {
	var v T
	err := db.WithContext(ctx).Where("id = ?", id).First(&v).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return Empty[T]()
	case err != nil:
		return Failed[T](fmt.Errorf("find %s %s: %w", what, id, err))
	}
	return Found(v)
}

func (s *AccountStore) PatientByID(ctx context.Context, id string) Result[model.Patient] {
	if id == "" {
		return Empty[model.Patient]()
	}
	if p, ok := s.patients.get(id); ok {
		return Found(p)
	}
	r := firstByID[model.Patient](ctx, s.db, id, "patient")
	if p, ok := r.Get(); ok {
		s.patients.set(p)
	}
	return r
}

func (s *AccountStore) DoctorByID(ctx context.Context, id string) Result[model.Doctor] {
	if id == "" {
		return Empty[model.Doctor]()
	}
	if doc, ok := s.directory.doctor(id); ok {
		return Found(doc)
	}
	r := firstByID[model.Doctor](ctx, s.db, id, "doctor")
	if doc, ok := r.Get(); ok {
		s.directory.setDoctor(doc)
	}
	return r
}

// AccountByEmail finds the account for a login attempt. Doctors are checked
// after patients; registration keeps emails unique across both.
func (s *AccountStore) AccountByEmail(ctx context.Context, email string) Result[Account] {
	email = normalizeEmail(email)
	if email == "" {
		return Empty[Account]()
	}
	db := s.db.WithContext(ctx)

	var p model.Patient
	err := db.Where("email = ?", email).First(&p).Error
	switch {
	case err == nil:
		return Found(Account{Role: model.RolePatient, Patient: &p})
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return Failed[Account](fmt.Errorf("find patient by email: %w", err))
	}

	var doc model.Doctor
	err = db.Where("email = ?", email).First(&doc).Error
	switch {
	case err == nil:
		return Found(Account{Role: model.RoleDoctor, Doctor: &doc})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return Empty[Account]()
	}
	return Failed[Account](fmt.Errorf("find doctor by email: %w", err))
}

// ListDoctors returns the directory ordered by rating, best first. Results
// are cached per filter until the cache TTL expires or a doctor registers.
func (s *AccountStore) ListDoctors(ctx context.Context, f DoctorFilter) Result[[]model.Doctor] {
	if doctors, ok := s.directory.list(f); ok {
		return listResult(doctors, nil)
	}

	query := s.db.WithContext(ctx).Order("rating DESC").Order("last_name ASC")
	if f.Field != "" {
		query = query.Where("field = ?", f.Field)
	}
	if kw := strings.ToLower(strings.TrimSpace(f.Keyword)); kw != "" {
		like := "%" + kw + "%"
		query = query.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(position) LIKE ? OR LOWER(specializations) LIKE ?",
			like, like, like, like)
	}

	var doctors []model.Doctor
	if err := query.Find(&doctors).Error; err != nil {
		return Failed[[]model.Doctor](fmt.Errorf("list doctors: %w", err))
	}
	s.directory.setList(f, doctors)
	return listResult(doctors, nil)
}

// LookupPatient adapts PatientByID for projections; failures read as a miss.
func (s *AccountStore) LookupPatient(ctx context.Context, id string) (model.Patient, bool) {
	return s.PatientByID(ctx, id).Get()
}

func (s *AccountStore) LookupDoctor(ctx context.Context, id string) (model.Doctor, bool) {
	return s.DoctorByID(ctx, id).Get()
}
