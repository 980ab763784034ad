package transcript

// Document is the transcription job output. Times are fractional seconds
// encoded as strings; punctuation items carry no timing.
type Document struct {
	JobName string  `json:"jobName,omitempty"`
	Status  string  `json:"status,omitempty"`
	Results Results `json:"results"`
}

type Results struct {
	Transcripts   []Transcript   `json:"transcripts"`
	SpeakerLabels *SpeakerLabels `json:"speaker_labels,omitempty"`
	Items         []Item         `json:"items,omitempty"`
}

type Transcript struct {
	Transcript *string `json:"transcript"`
}

type SpeakerLabels struct {
	Speakers int              `json:"speakers,omitempty"`
	Segments []SpeakerSegment `json:"segments"`
}

type SpeakerSegment struct {
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	SpeakerLabel string `json:"speaker_label"`
}

type Item struct {
	StartTime    string        `json:"start_time,omitempty"`
	EndTime      string        `json:"end_time,omitempty"`
	Type         string        `json:"type,omitempty"`
	Alternatives []Alternative `json:"alternatives"`
	SpeakerLabel string        `json:"speaker_label,omitempty"`
}

type Alternative struct {
	Confidence string `json:"confidence,omitempty"`
	Content    string `json:"content"`
}
