package validation

import (
	"strings"

	"github.com/ariebrainware/clinic-appointment/model"
)

// SignUpForm is the multi-step registration form. The first step collects
// the account fields, the second the profile, the third depends on the
// selected account type.
type SignUpForm struct {
	formState

	FirstName       string  `json:"first_name" example:"John"`
	LastName        string  `json:"last_name" example:"Doe"`
	Email           string  `json:"email" example:"john@example.com"`
	Password        string  `json:"password" example:"Secret123"`
	ConfirmPassword string  `json:"confirm_password" example:"Secret123"`
	AccountType     string  `json:"account_type" example:"Patient"`
	TermsAccepted   bool    `json:"terms_accepted" example:"true"`
	Sex             string  `json:"sex" example:"MALE"`
	Birthdate       *string `json:"birthdate" example:"1990-06-15"`

	// Patient step
	Height    string `json:"height,omitempty" example:"175"`
	Weight    string `json:"weight,omitempty" example:"70"`
	BloodType string `json:"blood_type,omitempty" example:"O+"`

	// Doctor step
	Title           string   `json:"title,omitempty" example:"Senior Consultant"`
	Field           string   `json:"field,omitempty" example:"Cardiology"`
	Introduction    string   `json:"introduction,omitempty"`
	Specializations []string `json:"specializations,omitempty"`

	confirmTouched bool
}

// SetPassword updates the password and re-checks the confirmation once the
// user has typed one.
func (f *SignUpForm) SetPassword(v string) {
	f.Password = v
	if f.confirmTouched {
		f.ValidateConfirmPassword()
	}
}

// SetConfirmPassword updates the confirmation and re-checks it against the
// current password.
func (f *SignUpForm) SetConfirmPassword(v string) {
	f.ConfirmPassword = v
	f.confirmTouched = true
	f.ValidateConfirmPassword()
}

// AddSpecialization appends a tag, keeping tags unique in insertion order.
func (f *SignUpForm) AddSpecialization(tag string) {
	f.Specializations = model.UniqueTags(append(f.Specializations, tag))
}

// Role returns the selected account type, or "" when none is selected.
func (f *SignUpForm) Role() model.Role {
	r, err := model.ParseRole(f.AccountType)
	if err != nil {
		return ""
	}
	return r
}

func (f *SignUpForm) ValidateFirstName() bool {
	return f.checkName(FieldFirstName, f.FirstName, nameMessages{MsgFirstNameRequired, MsgFirstNameTooShort, MsgFirstNameInvalid})
}

func (f *SignUpForm) ValidateLastName() bool {
	return f.checkName(FieldLastName, f.LastName, nameMessages{MsgLastNameRequired, MsgLastNameTooShort, MsgLastNameInvalid})
}

func (f *SignUpForm) ValidateEmail() bool {
	return f.checkEmail(FieldEmail, f.Email)
}

func (f *SignUpForm) ValidatePassword() bool {
	return f.checkPassword(FieldPassword, f.Password)
}

func (f *SignUpForm) ValidateConfirmPassword() bool {
	switch {
	case isBlank(f.ConfirmPassword):
		return f.fail(FieldConfirmPassword, MsgConfirmPasswordRequired)
	case f.ConfirmPassword != f.Password:
		return f.fail(FieldConfirmPassword, MsgPasswordMismatch)
	}
	return f.pass(FieldConfirmPassword)
}

func (f *SignUpForm) ValidateAccountType() bool {
	if f.Role() == "" {
		return f.fail(FieldAccountType, MsgAccountTypeRequired)
	}
	return f.pass(FieldAccountType)
}

func (f *SignUpForm) ValidateTerms() bool {
	if !f.TermsAccepted {
		return f.fail(FieldTerms, MsgTermsRequired)
	}
	return f.pass(FieldTerms)
}

func (f *SignUpForm) ValidateSex() bool {
	if _, err := model.ParseSex(f.Sex); err != nil {
		return f.fail(FieldSex, MsgSexRequired)
	}
	return f.pass(FieldSex)
}

func (f *SignUpForm) ValidateBirthdate() bool {
	if f.Birthdate == nil {
		return f.fail(FieldBirthdate, MsgBirthdateRequired)
	}
	return f.pass(FieldBirthdate)
}

func (f *SignUpForm) ValidateHeight() bool {
	return f.checkMeasurement(FieldHeight, f.Height, measurementRule{
		min: MinHeight, max: MaxHeight, required: MsgHeightRequired, outRange: MsgHeightRange,
	})
}

func (f *SignUpForm) ValidateWeight() bool {
	return f.checkMeasurement(FieldWeight, f.Weight, measurementRule{
		min: MinWeight, max: MaxWeight, required: MsgWeightRequired, outRange: MsgWeightRange,
	})
}

func (f *SignUpForm) ValidateBloodType() bool {
	if !model.BloodType(strings.TrimSpace(f.BloodType)).IsValid() {
		return f.fail(FieldBloodType, MsgBloodTypeRequired)
	}
	return f.pass(FieldBloodType)
}

func (f *SignUpForm) ValidateTitle() bool {
	switch {
	case isBlank(f.Title):
		return f.fail(FieldTitle, MsgTitleRequired)
	case runeLen(f.Title) < MinTitleLength:
		return f.fail(FieldTitle, MsgTitleTooShort)
	}
	return f.pass(FieldTitle)
}

func (f *SignUpForm) ValidateField() bool {
	return f.checkRequired(FieldMedicalField, f.Field, MsgFieldRequired)
}

func (f *SignUpForm) ValidateIntroduction() bool {
	switch n := runeLen(f.Introduction); {
	case isBlank(f.Introduction):
		return f.fail(FieldIntroduction, MsgIntroductionRequired)
	case n < MinIntroductionLength:
		return f.fail(FieldIntroduction, MsgIntroductionTooShort)
	case n > MaxIntroductionLength:
		return f.fail(FieldIntroduction, MsgIntroductionTooLong)
	}
	return f.pass(FieldIntroduction)
}

// allOf runs every check and reports whether all of them passed.
func allOf(checks ...func() bool) bool {
	ok := true
	for _, check := range checks {
		if !check() {
			ok = false
		}
	}
	return ok
}

// ValidateAccountStep checks names, email, passwords, account type and terms.
func (f *SignUpForm) ValidateAccountStep() bool {
	f.confirmTouched = true
	return allOf(
		f.ValidateFirstName,
		f.ValidateLastName,
		f.ValidateEmail,
		f.ValidatePassword,
		f.ValidateConfirmPassword,
		f.ValidateAccountType,
		f.ValidateTerms,
	)
}

func (f *SignUpForm) ValidateProfileStep() bool {
	return allOf(f.ValidateSex, f.ValidateBirthdate)
}

func (f *SignUpForm) ValidatePatientStep() bool {
	return allOf(f.ValidateHeight, f.ValidateWeight, f.ValidateBloodType)
}

func (f *SignUpForm) ValidateDoctorStep() bool {
	return allOf(f.ValidateTitle, f.ValidateField, f.ValidateIntroduction)
}

// ValidateAll runs every step. The role-specific step follows the selected
// account type; with no account type only the generic steps run.
func (f *SignUpForm) ValidateAll() bool {
	account := f.ValidateAccountStep()
	profile := f.ValidateProfileStep()
	roleStep := true
	switch f.Role() {
	case model.RolePatient:
		roleStep = f.ValidatePatientStep()
	case model.RoleDoctor:
		roleStep = f.ValidateDoctorStep()
	}
	return account && profile && roleStep
}

func (f *SignUpForm) birthdate() string {
	if f.Birthdate == nil {
		return ""
	}
	b := strings.TrimSpace(*f.Birthdate)
	if len(b) > 10 {
		b = b[:10]
	}
	return b
}

func (f *SignUpForm) sex() model.Sex {
	s, _ := model.ParseSex(f.Sex)
	return s
}

// PatientDraft converts a validated form into a patient draft. The password
// arguments are the already hashed value and its salt.
func (f *SignUpForm) PatientDraft(hashedPassword, salt string) model.PatientDraft {
	return model.PatientDraft{
		FirstName:    f.FirstName,
		LastName:     f.LastName,
		Email:        f.Email,
		Password:     hashedPassword,
		PasswordSalt: salt,
		Sex:          f.sex(),
		Birthdate:    f.birthdate(),
		Height:       formatMeasurement(f.Height, "cm"),
		Weight:       formatMeasurement(f.Weight, "kg"),
		BloodType:    model.BloodType(strings.TrimSpace(f.BloodType)),
	}
}

// DoctorDraft converts a validated form into a doctor draft. A field outside
// the known list is stored as "Other".
func (f *SignUpForm) DoctorDraft(hashedPassword, salt string) model.DoctorDraft {
	field := model.MedicalField(strings.TrimSpace(f.Field))
	if !field.IsValid() {
		field = model.FieldOther
	}
	return model.DoctorDraft{
		FirstName:       f.FirstName,
		LastName:        f.LastName,
		Email:           f.Email,
		Password:        hashedPassword,
		PasswordSalt:    salt,
		Sex:             f.sex(),
		Birthdate:       f.birthdate(),
		Position:        f.Title,
		Field:           field,
		Specializations: f.Specializations,
		Introduction:    f.Introduction,
	}
}
