package models

import "time"

// Target is the live reference challenge. Only one row (ID 1) ever exists.
type Target struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	ImageRef    string    `gorm:"size:1000;not null" json:"image_ref"`
	Description string    `gorm:"type:text;not null" json:"description"`
	UpdatedAt   time.Time `json:"updated_at"`
}

const TargetRowID = 1

// TargetSnapshot is the copy of a Target kept on each submission.
type TargetSnapshot struct {
	ImageRef    string `gorm:"column:target_image_ref;size:1000" json:"image_ref"`
	Description string `gorm:"column:target_description;type:text" json:"description"`
}

func (t Target) Snapshot() TargetSnapshot {
	return TargetSnapshot{ImageRef: t.ImageRef, Description: t.Description}
}
