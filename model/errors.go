package model

import "errors"

var (
	ErrInvalidStatusTransition  = errors.New("invalid appointment status transition")
	ErrDoctorResponseRequired   = errors.New("doctor response requires a diagnosis")
	ErrAppointmentNotAssigned   = errors.New("appointment is assigned to another doctor")
	ErrUnknownAppointmentStatus = errors.New("unknown appointment status")
)
