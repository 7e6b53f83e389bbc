package endpoint

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ariebrainware/clinic-appointment/model"
	"github.com/ariebrainware/clinic-appointment/store"
	"github.com/ariebrainware/clinic-appointment/util"
)

// DoctorProfile is a doctor as shown in the directory and on the profile
// screen.
type DoctorProfile struct {
	model.Doctor
	FullName string `json:"full_name" example:"Dr. Jane Smith"`
	Age      int    `json:"age" example:"45"`
}

func newDoctorProfile(d model.Doctor, now time.Time) DoctorProfile {
	return DoctorProfile{Doctor: d, FullName: d.FullName(), Age: d.Age(now)}
}

func parseDoctorFilter(c *gin.Context) (store.DoctorFilter, error) {
	f := store.DoctorFilter{Keyword: strings.TrimSpace(c.Query("keyword"))}
	if raw := strings.TrimSpace(c.Query("field")); raw != "" {
		field := model.MedicalField(raw)
		if !field.IsValid() {
			return store.DoctorFilter{}, fmt.Errorf("unknown medical field %q", raw)
		}
		f.Field = field
	}
	return f, nil
}

// ListDoctors godoc
// @Summary      List doctors
// @Description  Doctor directory ordered by rating, optionally filtered by medical field and keyword
// @Tags         Doctor
// @Produce      json
// @Security     SessionToken
// @Param        field query string false "Medical field, e.g. Cardiology"
// @Param        keyword query string false "Matches name, title or specialization"
// @Success      200 {object} util.APIResponse{data=[]DoctorProfile} "Doctors retrieved"
// @Failure      400 {object} util.APIResponse "Unknown medical field"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /doctor [get]
func ListDoctors(c *gin.Context) {
	filter, err := parseDoctorFilter(c)
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Unknown medical field", Err: err})
		return
	}
	stores, ok := getStoresOrRespond(c)
	if !ok {
		return
	}

	doctors, ok := listOrRespond(c, stores.Accounts.ListDoctors(c.Request.Context(), filter), "list_doctors")
	if !ok {
		return
	}
	now := time.Now()
	profiles := make([]DoctorProfile, 0, len(doctors))
	for _, d := range doctors {
		profiles = append(profiles, newDoctorProfile(d, now))
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Doctors retrieved", Data: profiles})
}

// GetDoctor godoc
// @Summary      Get doctor profile
// @Tags         Doctor
// @Produce      json
// @Security     SessionToken
// @Param        id path string true "Doctor ID"
// @Success      200 {object} util.APIResponse{data=DoctorProfile} "Doctor retrieved"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      404 {object} util.APIResponse "Doctor not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /doctor/{id} [get]
func GetDoctor(c *gin.Context) {
	stores, ok := getStoresOrRespond(c)
	if !ok {
		return
	}
	doc, ok := resultOrRespond(c, stores.Accounts.DoctorByID(c.Request.Context(), c.Param("id")), "doctor_by_id", "Doctor not found")
	if !ok {
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Doctor retrieved", Data: newDoctorProfile(doc, time.Now())})
}
