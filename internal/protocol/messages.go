package protocol

import "time"

// NarrationItem is one unit of work inside a job. A nil PauseSeconds falls
// back to the configured default (0.5s); an empty voice falls back to the
// configured default voice.
type NarrationItem struct {
	Text         string   `json:"text"`
	Voice        string   `json:"voice,omitempty"`
	PauseSeconds *float64 `json:"pause_seconds,omitempty"`
}

// NarrationJob is an ordered batch of items submitted on the bus.
type NarrationJob struct {
	JobID string          `json:"job_id"`
	Items []NarrationItem `json:"items"`
}

// Attachment carries a binary payload, base64-encoded.
type Attachment struct {
	Name     string `json:"name"`
	MIMEType string `json:"mime_type"`
	FileName string `json:"file_name"`
	Data     string `json:"data"`
}

// ItemError describes why an item (or a whole job) failed.
type ItemError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ResultItem is the outcome for one input item. On success it carries the
// audio attachment; on failure it echoes the original input plus the error.
type ResultItem struct {
	Index        int         `json:"index"`
	Status       string      `json:"status"`
	Audio        *Attachment `json:"audio,omitempty"`
	Text         string      `json:"text,omitempty"`
	Voice        string      `json:"voice,omitempty"`
	PauseSeconds *float64    `json:"pause_seconds,omitempty"`
	Error        *ItemError  `json:"error,omitempty"`
}

// NarrationResult is the job reply. Error is set only for job-level failures
// (engine load, invalid job), in which case Items is empty.
type NarrationResult struct {
	JobID     string       `json:"job_id"`
	Items     []ResultItem `json:"items,omitempty"`
	Error     *ItemError   `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

const (
	SubjectJobRequest = "narrate.job.request"
	SubjectJobResult  = "narrate.job.result"
)
