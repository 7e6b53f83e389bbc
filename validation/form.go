// Package validation holds the form states used to gate account creation and
// appointment submission. Validators write a display-ready message into the
// field's error slot (or clear it) and report whether the field is valid.
// They never return errors and never stop one another.
package validation

// Field names an input whose error slot a validator owns. The values match
// the JSON keys of the request bodies so clients can map messages back.
type Field string

const (
	FieldFirstName       Field = "first_name"
	FieldLastName        Field = "last_name"
	FieldEmail           Field = "email"
	FieldPassword        Field = "password"
	FieldConfirmPassword Field = "confirm_password"
	FieldAccountType     Field = "account_type"
	FieldTerms           Field = "terms_accepted"
	FieldSex             Field = "sex"
	FieldBirthdate       Field = "birthdate"
	FieldHeight          Field = "height"
	FieldWeight          Field = "weight"
	FieldBloodType       Field = "blood_type"
	FieldTitle           Field = "title"
	FieldMedicalField    Field = "field"
	FieldIntroduction    Field = "introduction"
	FieldSymptoms        Field = "symptoms"
	FieldDescription     Field = "description"
)

type formState struct {
	errors map[Field]string
}

func (f *formState) fail(field Field, msg string) bool {
	if f.errors == nil {
		f.errors = make(map[Field]string)
	}
	f.errors[field] = msg
	return false
}

func (f *formState) pass(field Field) bool {
	delete(f.errors, field)
	return true
}

// Error returns the current message for field, or "" when it is valid or
// has not been validated yet.
func (f *formState) Error(field Field) string {
	return f.errors[field]
}

// Errors returns a copy of every non-empty error slot.
func (f *formState) Errors() map[Field]string {
	out := make(map[Field]string, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

func (f *formState) HasErrors() bool {
	return len(f.errors) > 0
}
