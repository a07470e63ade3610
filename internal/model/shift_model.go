package model

import (
	"time"

	"github.com/google/uuid"
)

type Shift struct {
	Id             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationId uuid.UUID  `gorm:"type:uuid;not null;index:idx_shift_org_started"`
	UserId         uuid.UUID  `gorm:"type:uuid;not null;index"`
	ServiceId      *uuid.UUID `gorm:"type:uuid;index"`
	StartedAt      time.Time  `gorm:"not null;index:idx_shift_org_started"`
	EndedAt        *time.Time `gorm:"index"`
	StartLatitude  *float64
	StartLongitude *float64
	StartAddress   string `gorm:"type:text"`
	EndLatitude    *float64
	EndLongitude   *float64
	EndAddress     string    `gorm:"type:text"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (Shift) TableName() string {
	return "shifts"
}
