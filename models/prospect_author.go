package models

import "time"

// ProspectAuthor is a potential author collected for call-for-paper mailings.
type ProspectAuthor struct {
	ProspectID       int        `gorm:"primaryKey;column:prospect_id" json:"id"`
	Name             string     `gorm:"column:name" json:"name"`
	Email            string     `gorm:"column:email" json:"email"`
	Mobile           string     `gorm:"column:mobile" json:"mobile"`
	NameOfCollege    *string    `gorm:"column:name_of_college" json:"name_of_college"`
	NameOfUniversity *string    `gorm:"column:name_of_university" json:"name_of_university"`
	ShouldNotify     bool       `gorm:"column:should_notify" json:"should_notify"`
	CreatedAt        time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at" json:"updated_at"`
	DeleteAt         *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

func (ProspectAuthor) TableName() string {
	return "prospect_authors"
}
