// Package modeldto provides models for data transfer objects.

package modeldto

type (
	ResponseJobCreated struct {
		JobID  string `json:"job_id" example:"7a9d2c9e-26cb-47d5-a421-358b0d1b3b2a"`
		Status string `json:"status" example:"started"`
	}

	ResponseJobProgress struct {
		JobID   string  `json:"job_id" example:"7a9d2c9e-26cb-47d5-a421-358b0d1b3b2a"`
		Done    int64   `json:"done" example:"120"`
		Total   int64   `json:"total" example:"4096"`
		Percent float64 `json:"percent" example:"2.93"`
		Status  string  `json:"status" example:"running"`
	}
)
