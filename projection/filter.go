package projection

import (
	"fmt"
	"strings"

	"github.com/ariebrainware/clinic-appointment/model"
)

// StatusFilter selects worklist entries by status. FilterAll keeps everything.
type StatusFilter string

const (
	FilterAll       StatusFilter = "ALL"
	FilterPending   StatusFilter = StatusFilter(model.StatusPending)
	FilterAccepted  StatusFilter = StatusFilter(model.StatusAccepted)
	FilterCompleted StatusFilter = StatusFilter(model.StatusCompleted)
	FilterDeclined  StatusFilter = StatusFilter(model.StatusDeclined)
)

// ParseStatusFilter reads a query value. An empty value means FilterAll.
func ParseStatusFilter(v string) (StatusFilter, error) {
	v = strings.ToUpper(strings.TrimSpace(v))
	if v == "" || v == string(FilterAll) {
		return FilterAll, nil
	}
	s, err := model.ParseAppointmentStatus(v)
	if err != nil {
		return "", fmt.Errorf("invalid status filter: %w", err)
	}
	return StatusFilter(s), nil
}

// FilterByStatus keeps the views matching filter, in their original order.
func FilterByStatus(views []DoctorAppointmentView, filter StatusFilter) []DoctorAppointmentView {
	if filter == FilterAll {
		return views
	}
	out := make([]DoctorAppointmentView, 0, len(views))
	for _, v := range views {
		if StatusFilter(v.Status) == filter {
			out = append(out, v)
		}
	}
	return out
}

// MergeCandidatePools unions the doctor's assigned appointments with the
// unassigned pending pool. Assigned entries come first and the first
// occurrence of an id wins.
func MergeCandidatePools(assigned, pending []model.Appointment) []model.Appointment {
	merged := make([]model.Appointment, 0, len(assigned)+len(pending))
	seen := make(map[string]struct{}, len(assigned)+len(pending))
	for _, pool := range [][]model.Appointment{assigned, pending} {
		for _, a := range pool {
			if _, dup := seen[a.ID]; dup {
				continue
			}
			seen[a.ID] = struct{}{}
			merged = append(merged, a)
		}
	}
	return merged
}
