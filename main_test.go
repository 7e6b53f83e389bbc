package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariebrainware/clinic-appointment/config"
	"github.com/ariebrainware/clinic-appointment/metrics"
	"github.com/ariebrainware/clinic-appointment/middleware"
	"github.com/ariebrainware/clinic-appointment/model"
	"github.com/ariebrainware/clinic-appointment/store"
	"github.com/ariebrainware/clinic-appointment/util"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("APPENV", "test")
	util.SetJWTSecret("router-test-secret")
	config.ResetRedisClientForTest()

	db, err := config.ConnectMySQL()
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Patient{}, &model.Doctor{}, &model.Appointment{}, &model.Session{}))

	reg := prometheus.NewRegistry()
	return setupRouter(routerDeps{
		AppName: "clinic-test",
		DB:      db,
		Stores: middleware.Stores{
			Accounts:     store.NewAccountStore(db, store.AccountStoreConfig{}),
			Appointments: store.NewAppointmentStore(db),
		},
		Metrics:   metrics.NewCollector("clinic_test", reg, reg),
		RateLimit: middleware.RateLimitConfig{Limit: 5, Window: time.Minute},
	})
}

func serve(r *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(middleware.SessionTokenHeader, token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWelcomeRoute(t *testing.T) {
	r := newTestRouter(t)
	w := serve(r, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Welcome to clinic-test!")
}

func TestMetricsRoute(t *testing.T) {
	r := newTestRouter(t)
	serve(r, http.MethodGet, "/", "", "")

	w := serve(r, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "clinic_test_http_requests_total")
}

func TestSwaggerRoute(t *testing.T) {
	r := newTestRouter(t)
	w := serve(r, http.MethodGet, "/swagger/doc.json", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/doctor/appointment")
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	r := newTestRouter(t)
	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/me"},
		{http.MethodGet, "/doctor"},
		{http.MethodGet, "/doctor/appointment"},
		{http.MethodPost, "/appointment"},
		{http.MethodPatch, "/appointment/x/accept"},
		{http.MethodDelete, "/logout"},
	} {
		w := serve(r, route.method, route.path, "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", route.method, route.path)
	}
}

func TestSignupThenWorklist(t *testing.T) {
	r := newTestRouter(t)

	signup := `{"first_name":"Jane","last_name":"Smith","email":"jane@example.com","password":"Secret123",
		"confirm_password":"Secret123","account_type":"Doctor","terms_accepted":true,"sex":"FEMALE",
		"birthdate":"1980-01-01","title":"Consultant","field":"Cardiology",
		"introduction":"Cardiologist with fifteen years of practice."}`
	w := serve(r, http.MethodPost, "/signup", signup, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp util.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	token := resp.Data.(map[string]interface{})["token"].(string)

	// the static worklist route must win over /doctor/:id
	w = serve(r, http.MethodGet, "/doctor/appointment", "", token)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Worklist retrieved")
}
