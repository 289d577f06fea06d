// Package models provides data types and models used in package verifier.

package models

import "time"

// Result holds the classification outcome for a single address.
type Result struct {
	Email        string `json:"email"`
	Verdict      string `json:"verdict"`
	Reason       string `json:"reason"`
	ActiveStatus string `json:"active_status"`
	MXDomain     string `json:"mx_domain"`
}

// Job holds the persistent state of one bulk verification job.
type Job struct {
	JobID     string    `json:"job_id"`
	FileName  string    `json:"file_name"`
	Status    string    `json:"status"`
	Total     int64     `json:"total"`
	Done      int64     `json:"done"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
