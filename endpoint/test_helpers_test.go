package endpoint

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ariebrainware/clinic-appointment/config"
	"github.com/ariebrainware/clinic-appointment/middleware"
	"github.com/ariebrainware/clinic-appointment/model"
	"github.com/ariebrainware/clinic-appointment/store"
	"github.com/ariebrainware/clinic-appointment/util"
)

// EndpointTestModels defines the standard set of models migrated for endpoint tests
var EndpointTestModels = []interface{}{
	&model.Patient{},
	&model.Doctor{},
	&model.Appointment{},
	&model.Session{},
}

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	stores middleware.Stores
}

// setupEndpointTest returns a router with every API route registered over a
// fresh in-memory database. Redis is disabled.
func setupEndpointTest(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("APPENV", "test")
	util.SetJWTSecret("test-secret-123")
	config.ResetRedisClientForTest()

	db, err := config.ConnectMySQL()
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(EndpointTestModels...))

	env := &testEnv{
		db: db,
		stores: middleware.Stores{
			Accounts:     store.NewAccountStore(db, store.AccountStoreConfig{}),
			Appointments: store.NewAppointmentStore(db),
		},
	}

	r := gin.New()
	r.Use(middleware.DatabaseMiddleware(db), middleware.StoreMiddleware(env.stores))
	r.POST("/signup", Signup)
	r.POST("/login", Login)
	auth := r.Group("/", middleware.ValidateLoginToken())
	auth.DELETE("/logout", Logout)
	auth.GET("/token/validate", ValidateToken)
	auth.GET("/me", GetMe)
	auth.GET("/doctor", ListDoctors)
	auth.GET("/doctor/:id", GetDoctor)
	patient := auth.Group("/", middleware.RequireRole(model.RolePatient))
	patient.POST("/appointment", CreateAppointment)
	patient.GET("/appointment", ListPatientAppointments)
	doctor := auth.Group("/", middleware.RequireRole(model.RoleDoctor))
	doctor.GET("/doctor/appointment", DoctorWorklist)
	doctor.GET("/patient/:id", GetPatient)
	doctor.PATCH("/appointment/:id/accept", AcceptAppointment)
	doctor.PATCH("/appointment/:id/decline", DeclineAppointment)
	doctor.PATCH("/appointment/:id/complete", CompleteAppointment)
	env.router = r
	return env
}

type requestSpec struct {
	method  string
	path    string
	body    interface{}
	token   string
	headers map[string]string
}

func performRequest(r *gin.Engine, rs requestSpec) (*httptest.ResponseRecorder, map[string]interface{}, error) {
	var reader *strings.Reader
	setJSONHeader := false
	switch v := rs.body.(type) {
	case nil:
		reader = strings.NewReader("")
	case string:
		reader = strings.NewReader(v)
		setJSONHeader = true
	default:
		b, _ := json.Marshal(rs.body)
		reader = strings.NewReader(string(b))
		setJSONHeader = true
	}

	req := httptest.NewRequest(rs.method, rs.path, reader)
	if setJSONHeader {
		req.Header.Set("Content-Type", "application/json")
	}
	if rs.token != "" {
		req.Header.Set(middleware.SessionTokenHeader, rs.token)
	}
	for key, value := range rs.headers {
		req.Header.Set(key, value)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var response map[string]interface{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			return w, nil, err
		}
	}
	return w, response, nil
}

// do performs the request and fails the test on an undecodable body.
func (e *testEnv) do(t *testing.T, rs requestSpec) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	w, resp, err := performRequest(e.router, rs)
	require.NoError(t, err, w.Body.String())
	return w, resp
}

// assertStatus asserts that the response HTTP status code matches the expected value
func assertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	assert.Equal(t, expected, w.Code, w.Body.String())
}

func dataMap(t *testing.T, resp map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "data should be an object: %v", resp["data"])
	return data
}

func dataList(t *testing.T, resp map[string]interface{}) []interface{} {
	t.Helper()
	data, ok := resp["data"].([]interface{})
	require.True(t, ok, "data should be a list: %v", resp["data"])
	return data
}

func (e *testEnv) seedPatient(t *testing.T, first, last, email string) model.Patient {
	t.Helper()
	p, err := e.stores.Accounts.CreatePatient(context.Background(), model.PatientDraft{
		FirstName: first,
		LastName:  last,
		Email:     email,
		Password:  "argon2id$unused",
		Sex:       model.SexMale,
		Birthdate: "1990-06-15",
		Height:    "175 cm",
		Weight:    "70 kg",
		BloodType: model.BloodType("O+"),
	})
	require.NoError(t, err)
	return p
}

func (e *testEnv) seedDoctor(t *testing.T, first, last, email string, field model.MedicalField) model.Doctor {
	t.Helper()
	d, err := e.stores.Accounts.CreateDoctor(context.Background(), model.DoctorDraft{
		FirstName:       first,
		LastName:        last,
		Email:           email,
		Password:        "argon2id$unused",
		Sex:             model.SexFemale,
		Birthdate:       "1980-01-01",
		Position:        "Consultant",
		Field:           field,
		Specializations: []string{"Heart failure"},
		Introduction:    "Twenty years of clinical practice in the field.",
	})
	require.NoError(t, err)
	return d
}

// tokenFor records a session for the account and returns its token.
func (e *testEnv) tokenFor(t *testing.T, accountID string, role model.Role) string {
	t.Helper()
	token, expires, err := util.CreateSessionToken(accountID, role, time.Hour)
	require.NoError(t, err)
	require.NoError(t, e.db.Create(&model.Session{
		SessionToken: token,
		AccountID:    accountID,
		Role:         role,
		ExpiresAt:    expires,
	}).Error)
	return token
}
