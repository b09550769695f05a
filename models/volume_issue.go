package models

import "time"

// Volume is a publication grouping; issues belong to a volume and published
// manuscripts belong to an issue.
type Volume struct {
	VolumeID    int        `gorm:"primaryKey;column:volume_id" json:"id"`
	Title       string     `gorm:"column:title" json:"title"`
	Description string     `gorm:"column:description" json:"description"`
	CreatedAt   time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at" json:"updated_at"`
	DeleteAt    *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

type Issue struct {
	IssueID     int            `gorm:"primaryKey;column:issue_id" json:"id"`
	VolumeID    int            `gorm:"column:volume_id" json:"volume_id"`
	Title       string         `gorm:"column:title" json:"title"`
	Thumbnail   FileAttachment `gorm:"embedded;embeddedPrefix:thumbnail_" json:"thumbnail"`
	StartDate   time.Time      `gorm:"column:start_date" json:"start_date"`
	EndDate     time.Time      `gorm:"column:end_date" json:"end_date"`
	Description string         `gorm:"column:description" json:"description"`
	CreatedAt   time.Time      `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at" json:"updated_at"`
	DeleteAt    *time.Time     `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// PublishedManuscript is the record written by the publish action placing a
// submission into a volume and issue.
type PublishedManuscript struct {
	PublishedID  int       `gorm:"primaryKey;column:published_id" json:"id"`
	SubmissionID int       `gorm:"column:submission_id" json:"submission_id"`
	VolumeID     int       `gorm:"column:volume_id" json:"volume_id"`
	IssueID      int       `gorm:"column:issue_id" json:"issue_id"`
	PublishedOn  time.Time `gorm:"column:published_on" json:"published_on"`
}

func (Volume) TableName() string {
	return "volumes"
}

func (Issue) TableName() string {
	return "issues"
}

func (PublishedManuscript) TableName() string {
	return "published_manuscripts"
}
