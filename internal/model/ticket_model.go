package model

import (
	"time"

	"github.com/google/uuid"
)

type Ticket struct {
	Id             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationId uuid.UUID  `gorm:"type:uuid;not null;index"`
	ServiceId      uuid.UUID  `gorm:"type:uuid;not null;index"`
	UserId         uuid.UUID  `gorm:"type:uuid;not null;index"`
	Title          string     `gorm:"type:varchar(255);not null"`
	Description    string     `gorm:"type:text"`
	Status         string     `gorm:"type:varchar(20);not null;default:'open';index"`
	Source         string     `gorm:"type:varchar(20);not null;default:'form'"`
	ResolvedAt     *time.Time
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (Ticket) TableName() string {
	return "tickets"
}
