package models

import "time"

// ChecklistItem is one entry of the server-maintained manuscript checklist
// offered to coordinators during revert actions.
type ChecklistItem struct {
	ItemID   int        `gorm:"primaryKey;column:item_id" json:"id"`
	Item     string     `gorm:"column:item" json:"item"`
	Checked  bool       `gorm:"column:checked" json:"checked"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"-"`
}

func (ChecklistItem) TableName() string {
	return "checklist_items"
}
