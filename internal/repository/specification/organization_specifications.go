package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByOrganizationID struct {
	OrganizationID uuid.UUID
}

func (s ByOrganizationID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("organization_id = ?", s.OrganizationID)
}

type ByMembershipRole struct {
	Role string
}

func (s ByMembershipRole) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("role = ?", s.Role)
}

// WithUser preloads the member's user row.
type WithUser struct{}

func (s WithUser) Apply(db *gorm.DB) *gorm.DB {
	return db.Preload("User")
}

// MemberOf restricts organizations to those userID belongs to.
type MemberOf struct {
	UserID uuid.UUID
}

func (s MemberOf) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id IN (?)", db.Session(&gorm.Session{NewDB: true}).
		Table("memberships").
		Select("organization_id").
		Where("user_id = ?", s.UserID))
}
