package models

import "time"

// Submission represents one manuscript moving through the review workflow.
// The status is only ever changed by action processing; see services.ApplyAction.
type Submission struct {
	SubmissionID    int        `gorm:"primaryKey;column:submission_id" json:"submission_id"`
	ReferenceNumber string     `gorm:"column:reference_number;unique" json:"reference_number"`
	Title           string     `gorm:"column:title" json:"title"`
	Category        string     `gorm:"column:category" json:"category"`
	StatusID        int        `gorm:"column:status_id" json:"-"`
	CreatedAt       time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at" json:"updated_at"`
	DeleteAt        *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	Status SubmissionStatus `gorm:"foreignKey:StatusID" json:"status"`
}

// Manuscript is one version of the file attached to a submission. Resubmit
// and overwrite actions append or replace versions; the highest version is
// the one presented for review.
type Manuscript struct {
	ManuscriptID int            `gorm:"primaryKey;column:manuscript_id" json:"id"`
	SubmissionID int            `gorm:"column:submission_id" json:"submission_id"`
	File         FileAttachment `gorm:"embedded;embeddedPrefix:file_" json:"file"`
	Version      int            `gorm:"column:version" json:"version"`
	Comments     *string        `gorm:"column:comments" json:"comments"`
	Checklist    *string        `gorm:"column:checklist" json:"checklist"`
	CreatedAt    time.Time      `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at" json:"updated_at"`
}

// Author is the submitting author of a submission. Authors log in with their
// submission reference number and a password instead of the staff OTP flow.
type Author struct {
	AuthorID     int       `gorm:"primaryKey;column:author_id" json:"id"`
	SubmissionID int       `gorm:"column:submission_id" json:"submission_id"`
	Name         string    `gorm:"column:name" json:"name"`
	Email        string    `gorm:"column:email" json:"email"`
	Mobile       string    `gorm:"column:mobile" json:"mobile"`
	CollegeName  string    `gorm:"column:college_name" json:"college_name"`
	LinkedinURL  string    `gorm:"column:linkedin_url" json:"linkedin_url"`
	Password     string    `gorm:"column:password" json:"-"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`
}

type Coauthor struct {
	CoauthorID   int       `gorm:"primaryKey;column:coauthor_id" json:"id"`
	SubmissionID int       `gorm:"column:submission_id" json:"submission_id"`
	Name         string    `gorm:"column:name" json:"name"`
	Email        string    `gorm:"column:email" json:"email"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Submission) TableName() string {
	return "submissions"
}

func (Manuscript) TableName() string {
	return "manuscripts"
}

func (Author) TableName() string {
	return "authors"
}

func (Coauthor) TableName() string {
	return "coauthors"
}
