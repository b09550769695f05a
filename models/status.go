package models

import "time"

// SubmissionStatus is a workflow state with its display label and badge
// colors. Rows are seeded from workflow.Statuses and looked up by name
// through the services status cache.
type SubmissionStatus struct {
	StatusID   int        `gorm:"primaryKey;column:status_id" json:"-"`
	Name       string     `gorm:"column:name;unique" json:"name"`
	Label      string     `gorm:"column:label" json:"label"`
	Background string     `gorm:"column:background" json:"background"`
	Text       string     `gorm:"column:text" json:"text"`
	DeleteAt   *time.Time `gorm:"column:delete_at" json:"-"`
}

// SubmissionStatusHistory records every status change applied by an action,
// including the action name that caused it.
type SubmissionStatusHistory struct {
	HistoryID    int       `gorm:"primaryKey;column:history_id" json:"history_id"`
	SubmissionID int       `gorm:"column:submission_id" json:"submission_id"`
	OldStatusID  *int      `gorm:"column:old_status_id" json:"old_status_id"`
	NewStatusID  int       `gorm:"column:new_status_id" json:"new_status_id"`
	ActionName   string    `gorm:"column:action_name" json:"action_name"`
	ChangedBy    int       `gorm:"column:changed_by" json:"changed_by"`
	Comments     *string   `gorm:"column:comments" json:"comments"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

func (SubmissionStatus) TableName() string {
	return "submission_statuses"
}

func (SubmissionStatusHistory) TableName() string {
	return "submission_status_history"
}
