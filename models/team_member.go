package models

import "time"

// Team member availability values.
const (
	MemberAvailable   = "available"
	MemberUnavailable = "unavailable"
)

// TeamMember is a staff user: review coordinator, reviewer, editor or admin.
// Staff authenticate through the OTP flow keyed by mobile number.
type TeamMember struct {
	UserID                     int            `gorm:"primaryKey;column:user_id" json:"user_id"`
	RoleName                   string         `gorm:"column:role_name" json:"role_name"`
	Name                       string         `gorm:"column:name" json:"name"`
	Mobile                     string         `gorm:"column:mobile;unique" json:"mobile"`
	AlternateMobile            *string        `gorm:"column:alternate_mobile" json:"alternate_mobile,omitempty"`
	Email                      string         `gorm:"column:email" json:"email"`
	PostalAddress              string         `gorm:"column:postal_address" json:"postal_address"`
	EducationQualification     string         `gorm:"column:education_qualification" json:"education_qualification"`
	PreferredSubjects          StringList     `gorm:"column:preferred_subjects;type:text" json:"preferred_subjects_for_review"`
	InstitutionName            string         `gorm:"column:institution_name" json:"institution_name"`
	InstitutionMobile          string         `gorm:"column:institution_mobile" json:"institution_mobile"`
	InstitutionAlternateMobile *string        `gorm:"column:institution_alternate_mobile" json:"institution_alternate_mobile,omitempty"`
	InstitutionEmail           string         `gorm:"column:institution_email" json:"institution_email"`
	InstitutionPostalAddress   string         `gorm:"column:institution_postal_address" json:"institution_postal_address"`
	RefereeName                string         `gorm:"column:referee_name" json:"referee_name"`
	RefereeMobile              string         `gorm:"column:referee_mobile" json:"referee_mobile"`
	RefereeAlternateMobile     *string        `gorm:"column:referee_alternate_mobile" json:"referee_alternate_mobile,omitempty"`
	RefereeEmail               string         `gorm:"column:referee_email" json:"referee_email"`
	RefereePostalAddress       string         `gorm:"column:referee_postal_address" json:"referee_postal_address"`
	ProfilePhoto               FileAttachment `gorm:"embedded;embeddedPrefix:profile_photo_" json:"profile_photo"`
	EducationCertificate       FileAttachment `gorm:"embedded;embeddedPrefix:education_certificate_" json:"education_certificate"`
	Status                     string         `gorm:"column:status" json:"status"`
	CreatedAt                  time.Time      `gorm:"column:created_at" json:"created_at"`
	UpdatedAt                  time.Time      `gorm:"column:updated_at" json:"updated_at"`
	DeleteAt                   *time.Time     `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// SubmissionAssigned is the number of submissions currently assigned to
	// this member. Computed in the list endpoints, not stored.
	SubmissionAssigned int `gorm:"-" json:"submission_assigned"`
}

func (TeamMember) TableName() string {
	return "team_members"
}
