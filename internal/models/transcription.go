package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type TranscriptSegment struct {
	Speaker string  `bson:"speaker" json:"speaker"`
	Start   float64 `bson:"start" json:"start"` // seconds
	End     float64 `bson:"end" json:"end"`
	Content string  `bson:"content" json:"content"`
}

// Transcription is written once per completed job and never updated.
type Transcription struct {
	ID       string                                 `gorm:"column:id;type:uuid;primaryKey" bson:"_id" json:"id"`
	Text     string                                 `gorm:"column:text;type:text" bson:"text" json:"text"`
	Segments datatypes.JSONSlice[TranscriptSegment] `gorm:"column:segments;type:jsonb" bson:"segments" json:"segments"`
	Speakers pq.StringArray                         `gorm:"column:speakers;type:text[]" bson:"speakers" json:"speakers"`
	Language string                                 `gorm:"column:language;type:text" bson:"language" json:"language"`

	// remote bookkeeping, not part of the API shape
	JobName   string `gorm:"column:job_name;type:text;index" bson:"job_name" json:"-"`
	SourceKey string `gorm:"column:source_key;type:text" bson:"source_key" json:"-"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" bson:"created_at" json:"created_at"`
}

func (Transcription) TableName() string { return "transcriptions" }
