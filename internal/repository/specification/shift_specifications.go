package specification

import (
	"time"

	"gorm.io/gorm"
)

// OpenShift keeps shifts that have not been clocked out.
type OpenShift struct{}

func (s OpenShift) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("ended_at IS NULL")
}

// StartedBetween is half-open: From <= started_at < To. Zero bounds are ignored.
type StartedBetween struct {
	From time.Time
	To   time.Time
}

func (s StartedBetween) Apply(db *gorm.DB) *gorm.DB {
	if !s.From.IsZero() {
		db = db.Where("started_at >= ?", s.From)
	}
	if !s.To.IsZero() {
		db = db.Where("started_at < ?", s.To)
	}
	return db
}
