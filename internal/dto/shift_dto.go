package dto

import (
	"time"

	"github.com/google/uuid"
)

type ClockInRequest struct {
	OrganizationId uuid.UUID  `json:"organization_id" validate:"required"`
	ServiceId      *uuid.UUID `json:"service_id"`
	Latitude       *float64   `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude      *float64   `json:"longitude" validate:"required,gte=-180,lte=180"`
}

type ClockOutRequest struct {
	OrganizationId uuid.UUID `json:"organization_id" validate:"required"`
	Latitude       *float64  `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude      *float64  `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
}

type ListShiftsRequest struct {
	OrganizationId uuid.UUID
	From           time.Time
	To             time.Time
	Limit          int
	Offset         int
}

type ShiftResponse struct {
	Id              uuid.UUID  `json:"id"`
	OrganizationId  uuid.UUID  `json:"organization_id"`
	UserId          uuid.UUID  `json:"user_id"`
	ServiceId       *uuid.UUID `json:"service_id,omitempty"`
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	StartLatitude   *float64   `json:"start_latitude,omitempty"`
	StartLongitude  *float64   `json:"start_longitude,omitempty"`
	StartAddress    string     `json:"start_address,omitempty"`
	EndLatitude     *float64   `json:"end_latitude,omitempty"`
	EndLongitude    *float64   `json:"end_longitude,omitempty"`
	EndAddress      string     `json:"end_address,omitempty"`
	DurationSeconds int64      `json:"duration_seconds"`
	Open            bool       `json:"open"`
}
