package models

import "time"

type Summary struct {
	ID string `gorm:"column:id;type:uuid;primaryKey" bson:"_id" json:"id"`

	// empty for summaries created by hand through the API
	TranscriptionID string `gorm:"column:transcription_id;type:text;index" bson:"transcription_id,omitempty" json:"transcription_id,omitempty"`

	Content   string    `gorm:"column:content;type:text" bson:"content" json:"content"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz;index" bson:"created_at" json:"created_at"`
}

func (Summary) TableName() string { return "summaries" }
