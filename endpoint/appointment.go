package endpoint

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ariebrainware/clinic-appointment/middleware"
	"github.com/ariebrainware/clinic-appointment/model"
	"github.com/ariebrainware/clinic-appointment/projection"
	"github.com/ariebrainware/clinic-appointment/store"
	"github.com/ariebrainware/clinic-appointment/util"
	"github.com/ariebrainware/clinic-appointment/validation"
)

// CreateAppointment godoc
// @Summary      Request an appointment
// @Description  Submit symptoms and a description. Without doctor_id the request joins the pool every doctor can claim.
// @Tags         Appointment
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        request body validation.AppointmentForm true "Appointment request"
// @Success      200 {object} util.APIResponse{data=model.Appointment} "Appointment created"
// @Failure      400 {object} util.APIResponse{data=map[string]string} "Validation failed"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      403 {object} util.APIResponse "Patients only"
// @Failure      404 {object} util.APIResponse "Doctor not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /appointment [post]
func CreateAppointment(c *gin.Context) {
	session, ok := sessionOrRespond(c)
	if !ok {
		return
	}
	var form validation.AppointmentForm
	if !bindJSONOrRespond(c, &form, "Invalid request payload") {
		return
	}
	if !form.Validate() {
		util.CallValidationError(c, util.APIErrorParams{
			Msg: "Please correct the highlighted fields",
			Err: fmt.Errorf("validation failed"),
		}, form.Errors())
		return
	}
	stores, ok := getStoresOrRespond(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	draft := form.Draft(session.AccountID)
	if draft.DoctorID != nil {
		if _, ok := resultOrRespond(c, stores.Accounts.DoctorByID(ctx, *draft.DoctorID), "doctor_by_id", "Doctor not found"); !ok {
			return
		}
	}

	appt, err := stores.Appointments.Create(ctx, draft)
	if errors.Is(err, store.ErrMissingPatient) {
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Patient not found", Err: err})
		return
	}
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to create appointment", Err: err})
		return
	}

	middleware.GetMetrics(c).AppointmentCreated(!appt.IsUnassigned())
	util.LogSecurityEvent(util.SecurityEvent{
		EventType: util.EventAppointmentCreated,
		AccountID: session.AccountID,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Message:   fmt.Sprintf("Appointment %s requested", appt.ID),
		Details:   map[string]interface{}{"appointment_id": appt.ID, "assigned": !appt.IsUnassigned()},
	})
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Appointment created", Data: appt})
}

// ListPatientAppointments godoc
// @Summary      My appointments
// @Description  The caller's appointments, newest first, with the handling doctor's name
// @Tags         Appointment
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse{data=[]projection.PatientAppointmentView} "Appointments retrieved"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      403 {object} util.APIResponse "Patients only"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /appointment [get]
func ListPatientAppointments(c *gin.Context) {
	session, ok := sessionOrRespond(c)
	if !ok {
		return
	}
	stores, ok := getStoresOrRespond(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	appts, ok := listOrRespond(c, stores.Appointments.ByPatient(ctx, session.AccountID), "appointments_by_patient")
	if !ok {
		return
	}
	views := projection.ProjectAllForPatient(ctx, appts, stores.Accounts)
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Appointments retrieved", Data: views})
}

// DoctorWorklist godoc
// @Summary      Doctor worklist
// @Description  Appointments assigned to the caller plus the unassigned pending pool, optionally filtered by status
// @Tags         Appointment
// @Produce      json
// @Security     SessionToken
// @Param        status query string false "ALL, PENDING, ACCEPTED, DECLINED or COMPLETED" default(ALL)
// @Success      200 {object} util.APIResponse{data=[]projection.DoctorAppointmentView} "Worklist retrieved"
// @Failure      400 {object} util.APIResponse "Unknown status filter"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      403 {object} util.APIResponse "Doctors only"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /doctor/appointment [get]
func DoctorWorklist(c *gin.Context) {
	session, ok := sessionOrRespond(c)
	if !ok {
		return
	}
	filter, err := projection.ParseStatusFilter(c.Query("status"))
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Unknown status filter", Err: err})
		return
	}
	stores, ok := getStoresOrRespond(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	assigned, ok := listOrRespond(c, stores.Appointments.ByDoctor(ctx, session.AccountID), "appointments_by_doctor")
	if !ok {
		return
	}
	pool, ok := listOrRespond(c, stores.Appointments.UnassignedPending(ctx), "unassigned_pending")
	if !ok {
		return
	}

	merged := projection.MergeCandidatePools(assigned, pool)
	middleware.GetMetrics(c).Worklist(len(merged))
	views := projection.ProjectAllForDoctor(ctx, merged, stores.Accounts, time.Now())
	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Worklist retrieved",
		Data: projection.FilterByStatus(views, filter),
	})
}

// DoctorResponseRequest is the doctor's answer attached to a status change.
type DoctorResponseRequest struct {
	Diagnosis       string `json:"diagnosis" example:"Seasonal influenza"`
	Recommendations string `json:"recommendations" example:"Rest, fluids and paracetamol"`
}

func (r DoctorResponseRequest) response() model.DoctorResponse {
	return model.DoctorResponse{
		Diagnosis:       r.Diagnosis,
		Recommendations: r.Recommendations,
		RespondedAt:     time.Now().UTC(),
	}
}

func (r DoctorResponseRequest) isEmpty() bool {
	return r.Diagnosis == "" && r.Recommendations == ""
}

// transitionFunc applies one lifecycle step for the acting doctor.
type transitionFunc func(appt *model.Appointment, doctorID string, req DoctorResponseRequest) error

func respondTransitionError(c *gin.Context, err error) {
	params := util.APIErrorParams{Err: err}
	switch {
	case errors.Is(err, model.ErrInvalidStatusTransition):
		params.Msg = "Appointment can no longer change to this status"
		util.CallConflict(c, params)
	case errors.Is(err, store.ErrStaleAppointment):
		params.Msg = "Appointment was changed by someone else, reload and try again"
		util.CallConflict(c, params)
	case errors.Is(err, model.ErrAppointmentNotAssigned):
		params.Msg = "Appointment is assigned to another doctor"
		util.CallForbidden(c, params)
	case errors.Is(err, model.ErrDoctorResponseRequired):
		params.Msg = "Please provide a diagnosis"
		util.CallUserError(c, params)
	default:
		params.Msg = "Failed to update appointment"
		util.CallServerError(c, params)
	}
}

// transitionAppointment loads the appointment, applies the step and commits
// it against the status it was loaded with.
func transitionAppointment(c *gin.Context, apply transitionFunc, bodyOptional bool) {
	session, ok := sessionOrRespond(c)
	if !ok {
		return
	}
	var req DoctorResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil && !(bodyOptional && errors.Is(err, io.EOF)) {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid request payload", Err: err})
		return
	}
	stores, ok := getStoresOrRespond(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	appt, ok := resultOrRespond(c, stores.Appointments.ByID(ctx, c.Param("id")), "appointment_by_id", "Appointment not found")
	if !ok {
		return
	}
	previous := appt.Status
	if err := apply(&appt, session.AccountID, req); err != nil {
		respondTransitionError(c, err)
		return
	}
	if err := stores.Appointments.CommitTransition(ctx, &appt, previous); err != nil {
		respondTransitionError(c, err)
		return
	}

	middleware.GetMetrics(c).Transition(previous, appt.Status)
	util.LogAppointmentStatusChanged(session.AccountID, c.ClientIP(), c.Request.UserAgent(), appt.ID, previous, appt.Status)
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Appointment updated", Data: appt})
}

// AcceptAppointment godoc
// @Summary      Accept an appointment
// @Description  Claim a pending appointment (or accept one already assigned to the caller) with a diagnosis
// @Tags         Appointment
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        id path string true "Appointment ID"
// @Param        request body DoctorResponseRequest true "Doctor response"
// @Success      200 {object} util.APIResponse{data=model.Appointment} "Appointment updated"
// @Failure      400 {object} util.APIResponse "Diagnosis missing"
// @Failure      403 {object} util.APIResponse "Assigned to another doctor"
// @Failure      404 {object} util.APIResponse "Appointment not found"
// @Failure      409 {object} util.APIResponse "Status no longer allows this change"
// @Router       /appointment/{id}/accept [patch]
func AcceptAppointment(c *gin.Context) {
	transitionAppointment(c, func(appt *model.Appointment, doctorID string, req DoctorResponseRequest) error {
		return appt.Accept(doctorID, req.response())
	}, false)
}

// DeclineAppointment godoc
// @Summary      Decline an appointment
// @Tags         Appointment
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        id path string true "Appointment ID"
// @Param        request body DoctorResponseRequest true "Doctor response"
// @Success      200 {object} util.APIResponse{data=model.Appointment} "Appointment updated"
// @Failure      400 {object} util.APIResponse "Diagnosis missing"
// @Failure      403 {object} util.APIResponse "Assigned to another doctor"
// @Failure      404 {object} util.APIResponse "Appointment not found"
// @Failure      409 {object} util.APIResponse "Status no longer allows this change"
// @Router       /appointment/{id}/decline [patch]
func DeclineAppointment(c *gin.Context) {
	transitionAppointment(c, func(appt *model.Appointment, doctorID string, req DoctorResponseRequest) error {
		return appt.Decline(doctorID, req.response())
	}, false)
}

// CompleteAppointment godoc
// @Summary      Complete an appointment
// @Description  Close an accepted appointment. A body replaces the response given at acceptance; an empty body keeps it.
// @Tags         Appointment
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        id path string true "Appointment ID"
// @Param        request body DoctorResponseRequest false "Updated doctor response"
// @Success      200 {object} util.APIResponse{data=model.Appointment} "Appointment updated"
// @Failure      403 {object} util.APIResponse "Assigned to another doctor"
// @Failure      404 {object} util.APIResponse "Appointment not found"
// @Failure      409 {object} util.APIResponse "Status no longer allows this change"
// @Router       /appointment/{id}/complete [patch]
func CompleteAppointment(c *gin.Context) {
	transitionAppointment(c, func(appt *model.Appointment, doctorID string, req DoctorResponseRequest) error {
		if req.isEmpty() {
			return appt.Complete(doctorID, nil)
		}
		r := req.response()
		return appt.Complete(doctorID, &r)
	}, true)
}
