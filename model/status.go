package model

import (
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Status represents the moderation state of a course or video
type Status string

const (
	StatusDraft    Status = "draft"
	StatusActive   Status = "active"
	StatusRejected Status = "rejected"
)

// moderationTransitions is the set of admin-initiated status moves.
// Resubmission (rejected -> draft) happens through an instructor edit,
// not through moderation, so it is not listed here.
var moderationTransitions = map[Status][]Status{
	StatusDraft: {StatusActive, StatusRejected},
}

// IsValid reports whether s is one of the enumerated statuses
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether moderation may move s to target
func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range moderationTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// GormDBDataType binds status columns to the catalog_status enum on
// postgres; other dialects store plain varchar.
func (Status) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "catalog_status"
	}
	return "varchar(20)"
}
