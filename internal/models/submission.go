package models

import "time"

type Submission struct {
	ID                int64          `gorm:"primaryKey;autoIncrement:false" json:"id"`
	ParticipantID     uint           `gorm:"index" json:"participant_id"`
	ParticipantEmail  string         `gorm:"size:255;index" json:"participant_email"`
	Prompt            string         `gorm:"type:text;not null" json:"prompt"`
	WordCount         int            `gorm:"not null" json:"word_count"`
	CharCount         int            `gorm:"not null" json:"char_count"`
	Target            TargetSnapshot `gorm:"embedded" json:"target"`
	Category          string         `gorm:"size:50" json:"category,omitempty"`
	GeneratedImageRef string         `gorm:"size:1000" json:"generated_image_ref"`
	Score             int            `gorm:"not null" json:"score"`
	Similarity        int            `gorm:"not null" json:"similarity"`
	Feedback          string         `gorm:"size:500" json:"feedback"`
	SubmittedAt       time.Time      `gorm:"index" json:"submitted_at"`
}
