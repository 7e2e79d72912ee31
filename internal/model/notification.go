package model

import "time"

// Notification event types.
const (
	NotificationNewReport = "new_report"
)

// Notification is a dashboard feed entry written when a report is submitted.
type Notification struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	ReportID    string    `json:"report_id"`
	IssueType   string    `json:"issue_type"`
	Description string    `json:"description"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Duration    string    `json:"duration,omitempty"`
	TrafficFlow string    `json:"traffic_flow,omitempty"`
	CausingHarm string    `json:"causing_harm,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
