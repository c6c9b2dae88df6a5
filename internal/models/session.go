package models

// CurrentSession points at the participant the submitting client acts as.
// A single row (ID 1) holds the pointer; ParticipantID 0 means nobody.
type CurrentSession struct {
	ID            uint `gorm:"primaryKey"`
	ParticipantID uint `gorm:"not null;default:0"`
}

const CurrentSessionRowID = 1
