package endpoint

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariebrainware/clinic-appointment/model"
	"github.com/ariebrainware/clinic-appointment/projection"
	"github.com/ariebrainware/clinic-appointment/util"
	"github.com/ariebrainware/clinic-appointment/validation"
)

type clinicFixture struct {
	env          *testEnv
	patient      model.Patient
	doctor       model.Doctor
	other        model.Doctor
	patientToken string
	doctorToken  string
	otherToken   string
}

func newClinicFixture(t *testing.T) clinicFixture {
	t.Helper()
	env := setupEndpointTest(t)
	f := clinicFixture{env: env}
	f.patient = env.seedPatient(t, "John", "Doe", "john@example.com")
	f.doctor = env.seedDoctor(t, "Jane", "Smith", "jane@example.com", model.FieldCardiology)
	f.other = env.seedDoctor(t, "Omar", "Hale", "omar@example.com", model.FieldDermatology)
	f.patientToken = env.tokenFor(t, f.patient.ID, model.RolePatient)
	f.doctorToken = env.tokenFor(t, f.doctor.ID, model.RoleDoctor)
	f.otherToken = env.tokenFor(t, f.other.ID, model.RoleDoctor)
	return f
}

func (f clinicFixture) createAppointment(t *testing.T, doctorID string) string {
	t.Helper()
	w, resp := f.env.do(t, requestSpec{
		method: http.MethodPost,
		path:   "/appointment",
		token:  f.patientToken,
		body:   validation.AppointmentForm{Symptoms: "Fever", Description: "Fever for three days", DoctorID: doctorID},
	})
	assertStatus(t, w, http.StatusOK)
	id, _ := dataMap(t, resp)["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func (f clinicFixture) patch(t *testing.T, token, id, action string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	w, resp := f.env.do(t, requestSpec{
		method: http.MethodPatch,
		path:   "/appointment/" + id + "/" + action,
		token:  token,
		body:   body,
	})
	return w.Code, resp
}

func TestCreateAppointment(t *testing.T) {
	f := newClinicFixture(t)

	w, resp := f.env.do(t, requestSpec{
		method: http.MethodPost,
		path:   "/appointment",
		token:  f.patientToken,
		body:   validation.AppointmentForm{Symptoms: " Fever ", Description: "Fever for three days"},
	})
	assertStatus(t, w, http.StatusOK)
	data := dataMap(t, resp)
	assert.Equal(t, string(model.StatusPending), data["status"])
	assert.Equal(t, f.patient.ID, data["patient_id"])
	assert.Nil(t, data["doctor_id"])
	assert.Nil(t, data["doctor_response"])
	assert.Equal(t, "Fever", data["symptoms"])
}

func TestCreateAppointmentValidation(t *testing.T) {
	f := newClinicFixture(t)

	w, resp := f.env.do(t, requestSpec{
		method: http.MethodPost,
		path:   "/appointment",
		token:  f.patientToken,
		body:   validation.AppointmentForm{Symptoms: "   "},
	})
	assertStatus(t, w, http.StatusBadRequest)
	fields := dataMap(t, resp)
	assert.Equal(t, validation.MsgSymptomsRequired, fields["symptoms"])
	assert.Equal(t, validation.MsgDescriptionRequired, fields["description"])
}

func TestCreateAppointmentUnknownDoctor(t *testing.T) {
	f := newClinicFixture(t)
	w, _ := f.env.do(t, requestSpec{
		method: http.MethodPost,
		path:   "/appointment",
		token:  f.patientToken,
		body:   validation.AppointmentForm{Symptoms: "Rash", Description: "Itchy rash", DoctorID: "no-such-doctor"},
	})
	assertStatus(t, w, http.StatusNotFound)
}

func TestCreateAppointmentPatientsOnly(t *testing.T) {
	f := newClinicFixture(t)
	w, _ := f.env.do(t, requestSpec{
		method: http.MethodPost,
		path:   "/appointment",
		token:  f.doctorToken,
		body:   validation.AppointmentForm{Symptoms: "Rash", Description: "Itchy rash"},
	})
	assertStatus(t, w, http.StatusForbidden)
}

func TestDoctorWorklist(t *testing.T) {
	f := newClinicFixture(t)
	pooled := f.createAppointment(t, "")
	mine := f.createAppointment(t, f.doctor.ID)
	theirs := f.createAppointment(t, f.other.ID)

	w, resp := f.env.do(t, requestSpec{method: http.MethodGet, path: "/doctor/appointment", token: f.doctorToken})
	assertStatus(t, w, http.StatusOK)

	var ids []string
	for _, item := range dataList(t, resp) {
		view := item.(map[string]interface{})
		ids = append(ids, view["id"].(string))
		assert.Equal(t, "John Doe", view["patient_name"])
		assert.Equal(t, "Male", view["patient_sex"])
	}
	// assigned entries come before the pool
	assert.Equal(t, []string{mine, pooled}, ids)
	assert.NotContains(t, ids, theirs)

	code, _ := f.patch(t, f.doctorToken, mine, "accept", DoctorResponseRequest{Diagnosis: "Flu", Recommendations: "Rest"})
	require.Equal(t, http.StatusOK, code)

	w, resp = f.env.do(t, requestSpec{method: http.MethodGet, path: "/doctor/appointment?status=pending", token: f.doctorToken})
	assertStatus(t, w, http.StatusOK)
	pending := dataList(t, resp)
	if assert.Len(t, pending, 1) {
		assert.Equal(t, pooled, pending[0].(map[string]interface{})["id"])
	}

	w, resp = f.env.do(t, requestSpec{method: http.MethodGet, path: "/doctor/appointment?status=ACCEPTED", token: f.doctorToken})
	assertStatus(t, w, http.StatusOK)
	accepted := dataList(t, resp)
	if assert.Len(t, accepted, 1) {
		view := accepted[0].(map[string]interface{})
		assert.Equal(t, "Flu\nRest", view["doctor_notes"])
		assert.Len(t, view["scheduled_date"], 10)
	}

	w, _ = f.env.do(t, requestSpec{method: http.MethodGet, path: "/doctor/appointment?status=LATER", token: f.doctorToken})
	assertStatus(t, w, http.StatusBadRequest)
}

func TestDoctorWorklistEmpty(t *testing.T) {
	f := newClinicFixture(t)
	w, resp := f.env.do(t, requestSpec{method: http.MethodGet, path: "/doctor/appointment", token: f.doctorToken})
	assertStatus(t, w, http.StatusOK)
	assert.Empty(t, dataList(t, resp))
}

func TestDoctorWorklistStoreFailure(t *testing.T) {
	f := newClinicFixture(t)
	require.NoError(t, f.env.db.Migrator().DropTable(&model.Appointment{}))

	w, _ := f.env.do(t, requestSpec{method: http.MethodGet, path: "/doctor/appointment", token: f.doctorToken})
	assertStatus(t, w, http.StatusInternalServerError)
}

func TestAppointmentLifecycle(t *testing.T) {
	f := newClinicFixture(t)
	id := f.createAppointment(t, "")

	code, _ := f.patch(t, f.doctorToken, id, "accept", DoctorResponseRequest{Recommendations: "Rest"})
	assert.Equal(t, http.StatusBadRequest, code, "diagnosis is required")

	code, resp := f.patch(t, f.doctorToken, id, "accept", DoctorResponseRequest{Diagnosis: "Flu", Recommendations: "Rest"})
	require.Equal(t, http.StatusOK, code)
	data := dataMap(t, resp)
	assert.Equal(t, string(model.StatusAccepted), data["status"])
	assert.Equal(t, f.doctor.ID, data["doctor_id"])

	code, _ = f.patch(t, f.doctorToken, id, "accept", DoctorResponseRequest{Diagnosis: "Flu"})
	assert.Equal(t, http.StatusConflict, code, "accepting twice")

	code, _ = f.patch(t, f.otherToken, id, "complete", nil)
	assert.Equal(t, http.StatusForbidden, code, "only the assigned doctor completes")

	code, resp = f.patch(t, f.doctorToken, id, "complete", nil)
	require.Equal(t, http.StatusOK, code)
	data = dataMap(t, resp)
	assert.Equal(t, string(model.StatusCompleted), data["status"])
	response := data["doctor_response"].(map[string]interface{})
	assert.Equal(t, "Flu", response["diagnosis"])

	stored := f.env.stores.Appointments.ByID(context.Background(), id).Data()
	assert.Equal(t, model.StatusCompleted, stored.Status)
	assert.True(t, stored.ResponseConsistent())
}

func TestCompleteReplacesResponse(t *testing.T) {
	f := newClinicFixture(t)
	id := f.createAppointment(t, f.doctor.ID)

	code, _ := f.patch(t, f.doctorToken, id, "accept", DoctorResponseRequest{Diagnosis: "Suspected flu"})
	require.Equal(t, http.StatusOK, code)
	code, resp := f.patch(t, f.doctorToken, id, "complete", DoctorResponseRequest{Diagnosis: "Influenza A", Recommendations: "Oseltamivir"})
	require.Equal(t, http.StatusOK, code)
	response := dataMap(t, resp)["doctor_response"].(map[string]interface{})
	assert.Equal(t, "Influenza A", response["diagnosis"])
	assert.Equal(t, "Oseltamivir", response["recommendations"])
}

func TestTransitionAuditUsesCurrentRequest(t *testing.T) {
	f := newClinicFixture(t)
	require.NoError(t, f.env.db.AutoMigrate(&model.SecurityLog{}))
	util.SetSecurityLoggerDB(f.env.db)
	t.Cleanup(func() { util.SetSecurityLoggerDB(nil) })
	id := f.createAppointment(t, f.doctor.ID)

	w, _ := f.env.do(t, requestSpec{
		method:  http.MethodPatch,
		path:    "/appointment/" + id + "/accept",
		token:   f.doctorToken,
		body:    DoctorResponseRequest{Diagnosis: "Flu"},
		headers: map[string]string{"User-Agent": "clinic-app/2.0"},
	})
	assertStatus(t, w, http.StatusOK)

	var entry model.SecurityLog
	require.NoError(t, f.env.db.Where("event_type = ?", string(util.EventAppointmentStatusChanged)).First(&entry).Error)
	assert.Equal(t, f.doctor.ID, entry.AccountID)
	assert.Equal(t, "clinic-app/2.0", entry.UserAgent)
	assert.Equal(t, "192.0.2.1", entry.IP)
}

func TestDeclineAppointment(t *testing.T) {
	f := newClinicFixture(t)
	id := f.createAppointment(t, f.other.ID)

	code, _ := f.patch(t, f.doctorToken, id, "decline", DoctorResponseRequest{Diagnosis: "Not my field"})
	assert.Equal(t, http.StatusForbidden, code)

	code, resp := f.patch(t, f.otherToken, id, "decline", DoctorResponseRequest{Diagnosis: "Refer to GP"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, string(model.StatusDeclined), dataMap(t, resp)["status"])

	code, _ = f.patch(t, f.otherToken, id, "complete", nil)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = f.patch(t, f.otherToken, "missing", "decline", DoctorResponseRequest{Diagnosis: "x"})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestTransitionPatientsForbidden(t *testing.T) {
	f := newClinicFixture(t)
	id := f.createAppointment(t, "")
	code, _ := f.patch(t, f.patientToken, id, "accept", DoctorResponseRequest{Diagnosis: "Self-diagnosed"})
	assert.Equal(t, http.StatusForbidden, code)
}

func TestListPatientAppointments(t *testing.T) {
	f := newClinicFixture(t)
	pooled := f.createAppointment(t, "")
	assigned := f.createAppointment(t, f.doctor.ID)

	w, resp := f.env.do(t, requestSpec{method: http.MethodGet, path: "/appointment", token: f.patientToken})
	assertStatus(t, w, http.StatusOK)

	names := map[string]string{}
	for _, item := range dataList(t, resp) {
		view := item.(map[string]interface{})
		names[view["id"].(string)] = view["doctor_name"].(string)
	}
	assert.Equal(t, projection.AwaitingDoctorName, names[pooled])
	assert.Equal(t, "Dr. Jane Smith", names[assigned])

	w, _ = f.env.do(t, requestSpec{method: http.MethodGet, path: "/appointment", token: f.doctorToken})
	assertStatus(t, w, http.StatusForbidden)
}
