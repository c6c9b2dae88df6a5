package models

import "time"

type Participant struct {
	ID           uint      `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	RegisteredAt time.Time `gorm:"not null" json:"registered_at"`
}
