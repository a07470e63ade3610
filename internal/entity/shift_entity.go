package entity

import (
	"time"

	"github.com/google/uuid"
)

type Shift struct {
	Id             uuid.UUID
	OrganizationId uuid.UUID
	UserId         uuid.UUID
	ServiceId      *uuid.UUID
	StartedAt      time.Time
	EndedAt        *time.Time
	StartLatitude  *float64
	StartLongitude *float64
	StartAddress   string
	EndLatitude    *float64
	EndLongitude   *float64
	EndAddress     string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (s *Shift) IsOpen() bool {
	return s.EndedAt == nil
}

// Duration is measured up to now for a shift that is still open.
func (s *Shift) Duration(now time.Time) time.Duration {
	end := now
	if s.EndedAt != nil {
		end = *s.EndedAt
	}
	if end.Before(s.StartedAt) {
		return 0
	}
	return end.Sub(s.StartedAt)
}
