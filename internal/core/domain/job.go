package domain

import "time"

type JobStatus string

const (
	JobUploaded   JobStatus = "uploaded"
	JobProcessing JobStatus = "processing"
	JobReady      JobStatus = "ready"
	JobFailed     JobStatus = "failed"
)

// JobOutput is one merged per-order PDF written by a bulk job.
type JobOutput struct {
	OrderID     string `json:"order_id"`
	Filename    string `json:"filename"`
	StoragePath string `json:"storage_path"`
}

// MergeJob tracks one asynchronous bulk merge from upload to completion.
type MergeJob struct {
	ID           string        `json:"id"`
	LabelPath    string        `json:"label_path"`
	SlipPath     string        `json:"slip_path"`
	Status       JobStatus     `json:"status"`
	Outputs      []JobOutput   `json:"outputs,omitempty"`
	Failures     []BulkFailure `json:"failures,omitempty"`
	ManifestPath string        `json:"manifest_path,omitempty"`
	Error        string        `json:"error,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}
