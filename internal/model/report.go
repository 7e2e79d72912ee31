package model

import "time"

// Report is a single citizen-submitted observation of a civic problem. It is
// immutable after submission except for the proofs array (appended by the
// upload path) and the processed flag (set once by the reconciliation poller).
type Report struct {
	ID           string    `json:"id"`
	CreatorEmail string    `json:"creator_email"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	IssueType    string    `json:"issue_type"` // pothole, garbage, streetlight, waterlogging, ...
	Description  string    `json:"description"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	Duration     string    `json:"duration,omitempty"`
	TrafficFlow  string    `json:"traffic_flow,omitempty"`
	CausingHarm  string    `json:"causing_harm,omitempty"`
	Proofs       []string  `json:"proofs"`
	Points       int       `json:"points"`
	Processed    bool      `json:"processed"`
	Timestamp    time.Time `json:"timestamp"`
}

type CreateReportRequest struct {
	Name        string  `json:"name" validate:"required"`
	Email       string  `json:"email" validate:"required,email"`
	Phone       string  `json:"phone"`
	IssueType   string  `json:"issue_type" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Latitude    float64 `json:"latitude" validate:"latitude"`
	Longitude   float64 `json:"longitude" validate:"longitude"`
	Duration    string  `json:"duration" validate:"required"`
	TrafficFlow string  `json:"traffic_flow" validate:"required"`
	CausingHarm string  `json:"causing_harm" validate:"required"`
	Proofs      []string `json:"proofs"`
}

type CreateReportResponse struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// ListReportsParams filters the reports listing.
type ListReportsParams struct {
	CreatorEmail string
	Processed    *bool
}
