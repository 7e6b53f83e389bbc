package endpoint

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ariebrainware/clinic-appointment/model"
	"github.com/ariebrainware/clinic-appointment/util"
)

// PatientProfile is a patient as shown to doctors and on the patient's own
// profile screen.
type PatientProfile struct {
	model.Patient
	FullName string `json:"full_name" example:"John Doe"`
	Age      int    `json:"age" example:"35"`
	SexLabel string `json:"sex_label" example:"Male"`
}

func newPatientProfile(p model.Patient, now time.Time) PatientProfile {
	return PatientProfile{Patient: p, FullName: p.FullName(), Age: p.Age(now), SexLabel: p.Sex.Display()}
}

// GetMe godoc
// @Summary      Current account
// @Description  Profile of the authenticated patient or doctor
// @Tags         Account
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse "Account retrieved"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      404 {object} util.APIResponse "Account not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /me [get]
func GetMe(c *gin.Context) {
	session, ok := sessionOrRespond(c)
	if !ok {
		return
	}
	stores, ok := getStoresOrRespond(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	now := time.Now()
	if session.IsDoctor() {
		doc, ok := resultOrRespond(c, stores.Accounts.DoctorByID(ctx, session.AccountID), "doctor_by_id", "Account not found")
		if !ok {
			return
		}
		util.CallSuccessOK(c, util.APISuccessParams{Msg: "Account retrieved", Data: newDoctorProfile(doc, now)})
		return
	}
	p, ok := resultOrRespond(c, stores.Accounts.PatientByID(ctx, session.AccountID), "patient_by_id", "Account not found")
	if !ok {
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Account retrieved", Data: newPatientProfile(p, now)})
}

// GetPatient godoc
// @Summary      Get patient profile
// @Description  Patient details for a doctor reviewing an appointment
// @Tags         Patient
// @Produce      json
// @Security     SessionToken
// @Param        id path string true "Patient ID"
// @Success      200 {object} util.APIResponse{data=PatientProfile} "Patient retrieved"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      403 {object} util.APIResponse "Doctors only"
// @Failure      404 {object} util.APIResponse "Patient not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /patient/{id} [get]
func GetPatient(c *gin.Context) {
	stores, ok := getStoresOrRespond(c)
	if !ok {
		return
	}
	p, ok := resultOrRespond(c, stores.Accounts.PatientByID(c.Request.Context(), c.Param("id")), "patient_by_id", "Patient not found")
	if !ok {
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Patient retrieved", Data: newPatientProfile(p, time.Now())})
}
