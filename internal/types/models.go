package types

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// SpeakerID is the provider-assigned speaker tag. Providers are inconsistent
// about the JSON shape: AssemblyAI-style services send "A"/"B" strings, others
// send bare numbers. Both decode into the string form.
type SpeakerID string

func (s *SpeakerID) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*s = ""
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = SpeakerID(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = SpeakerID(n.String())
	return nil
}

func (s SpeakerID) String() string { return string(s) }

// Word is one entry of the provider's word-level breakdown.
type Word struct {
	Text    string `json:"text"`
	StartMs int64  `json:"start"`
	EndMs   int64  `json:"end"`
}

// Utterance is one contiguous speech segment as returned by the transcription
// provider. Ordered by StartMs; immutable once received.
type Utterance struct {
	Speaker    SpeakerID `json:"speaker"`
	StartMs    int64     `json:"start"`
	EndMs      int64     `json:"end"`
	Text       string    `json:"text"`
	Confidence float64   `json:"confidence,omitempty"`
	Words      []Word    `json:"words,omitempty"`
}

// NormalizedUtterance carries the same content with the provider tag replaced
// by a stable label assigned in order of first appearance.
type NormalizedUtterance struct {
	Label   string `json:"speaker_label"`
	StartMs int64  `json:"start"`
	EndMs   int64  `json:"end"`
	Text    string `json:"text"`
}

// JobStatus is the provider-observed lifecycle state of a transcription job.
type JobStatus string

const (
	JobQueued     JobStatus = "queued"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobError      JobStatus = "error"
)

// Terminal reports whether the job can no longer change state.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobError
}

// TranscriptResult is the payload of a completed transcription job.
type TranscriptResult struct {
	Utterances  []Utterance `json:"utterances"`
	FullText    string      `json:"text"`
	Words       []Word      `json:"words,omitempty"`
	DurationSec float64     `json:"audio_duration"`
	Confidence  float64     `json:"confidence"`
}

// JobSnapshot is one observation of a transcription job, as returned by a
// status fetch. Result is set only when Status is JobCompleted.
type JobSnapshot struct {
	ID           string            `json:"id"`
	Status       JobStatus         `json:"status"`
	Result       *TranscriptResult `json:"result,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// Metadata summarizes a completed analysis.
type Metadata struct {
	DurationSec  float64 `json:"duration_sec"`
	SpeakerCount int     `json:"speaker_count"`
	WordCount    int     `json:"word_count"`
	Confidence   float64 `json:"confidence"`
}

// AnalysisResult is the final pipeline output, constructed exactly once per
// run and immutable afterwards.
type AnalysisResult struct {
	FullTranscript string   `json:"full_transcript"`
	Summary        string   `json:"summary"`
	Decisions      []string `json:"decisions"`
	Actions        []string `json:"actions"`
	Explicit       []string `json:"explicit"`
	Tacit          []string `json:"tacit"`
	Reasoning      string   `json:"reasoning"`
	Suggestions    []string `json:"suggestions"`
	Metadata       Metadata `json:"metadata"`
}

// SessionRecord is the store payload for one analysis session. The pipeline
// itself never touches it; only the HTTP layer reads and writes sessions.
type SessionRecord struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Status    string          `json:"status"`
	Result    *AnalysisResult `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// FormatDuration renders a duration in seconds as m:ss for report output.
func FormatDuration(sec float64) string {
	total := int64(sec + 0.5)
	return strconv.FormatInt(total/60, 10) + ":" + pad2(total%60)
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
