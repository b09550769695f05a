package models

import "time"

// ReviewerAssignment links a reviewer to a submission with the deadline the
// coordinator picked for them. Reassigning deletes the old row and creates a
// new one, so active assignments are the rows with delete_at IS NULL.
type ReviewerAssignment struct {
	AssignmentID int        `gorm:"primaryKey;column:assignment_id" json:"assignment_id"`
	SubmissionID int        `gorm:"column:submission_id" json:"submission_id"`
	ReviewerID   int        `gorm:"column:reviewer_id" json:"reviewer_id"`
	Deadline     time.Time  `gorm:"column:deadline" json:"deadline"`
	CreatedAt    time.Time  `gorm:"column:created_at" json:"created_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	Reviewer *TeamMember `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

// EditorAssignment links the single editor responsible for the final check.
type EditorAssignment struct {
	AssignmentID int        `gorm:"primaryKey;column:assignment_id" json:"assignment_id"`
	SubmissionID int        `gorm:"column:submission_id" json:"submission_id"`
	EditorID     int        `gorm:"column:editor_id" json:"editor_id"`
	CreatedAt    time.Time  `gorm:"column:created_at" json:"created_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// SubmissionReview stores the averaged review score recorded by
// partial_ready_to_publish.
type SubmissionReview struct {
	ReviewID     int       `gorm:"primaryKey;column:review_id" json:"review_id"`
	SubmissionID int       `gorm:"column:submission_id" json:"submission_id"`
	ReviewerID   int       `gorm:"column:reviewer_id" json:"reviewer_id"`
	Score        float64   `gorm:"column:score" json:"score"`
	Comments     *string   `gorm:"column:comments" json:"comments"`
	ReviewedAt   time.Time `gorm:"column:reviewed_at" json:"reviewed_at"`
}

// PaymentRecord tracks the publication fee for a submission. payment_pending
// creates the row, payment_done flips its status.
type PaymentRecord struct {
	PaymentID    int        `gorm:"primaryKey;column:payment_id" json:"payment_id"`
	SubmissionID int        `gorm:"column:submission_id" json:"submission_id"`
	Amount       float64    `gorm:"column:amount" json:"amount"`
	Currency     string     `gorm:"column:currency" json:"currency"`
	Status       string     `gorm:"column:status" json:"status"`
	Comments     *string    `gorm:"column:comments" json:"comments"`
	CreatedAt    time.Time  `gorm:"column:created_at" json:"created_at"`
	PaidAt       *time.Time `gorm:"column:paid_at" json:"paid_at,omitempty"`
}

func (ReviewerAssignment) TableName() string {
	return "reviewer_assignments"
}

func (EditorAssignment) TableName() string {
	return "editor_assignments"
}

func (SubmissionReview) TableName() string {
	return "submission_reviews"
}

func (PaymentRecord) TableName() string {
	return "payment_records"
}
