package model

import "time"

// Priority labels derived from the aggregate report count.
const (
	PriorityNormal        = "normal"
	PriorityVeryImportant = "very important"
)

// PriorityThreshold is the report count above which an issue is escalated.
const PriorityThreshold = 5

// Issue statuses used by the admin dashboard.
const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

// Issue is the deduplicated record aggregating one or more reports that
// describe the same real-world problem.
type Issue struct {
	ID                 string     `json:"id"`
	IssueType          string     `json:"issue_type"`
	Description        string     `json:"description"`
	Latitude           float64    `json:"latitude"`
	Longitude          float64    `json:"longitude"`
	RelativeLocation   string     `json:"relative_location"`
	NoOfReports        int        `json:"no_of_reports"`
	Priority           string     `json:"priority"`
	RelatedReportIDs   []string   `json:"related_report_ids"`
	CreatorEmails      []string   `json:"creator_emails"`
	Proofs             []string   `json:"proofs"`
	Applause           int        `json:"applause"`
	IsSolved           bool       `json:"is_solved"`
	Status             string     `json:"status"`
	AssignedDepartment string     `json:"assigned_department,omitempty"`
	Timestamp          time.Time  `json:"timestamp"`
	TimeCreated        time.Time  `json:"time_created"`
	LastUpdated        time.Time  `json:"last_updated"`
	CompletedTimestamp *time.Time `json:"completed_timestamp,omitempty"`
}

// PriorityFor returns the priority label for a report count. It is the only
// place the escalation rule lives; merges recompute priority through it.
func PriorityFor(noOfReports int) string {
	if noOfReports > PriorityThreshold {
		return PriorityVeryImportant
	}
	return PriorityNormal
}

// HasReport reports whether a report id has already been folded into the issue.
func (i *Issue) HasReport(reportID string) bool {
	for _, id := range i.RelatedReportIDs {
		if id == reportID {
			return true
		}
	}
	return false
}

// HasCreator reports whether an email is already recorded as a contributor.
func (i *Issue) HasCreator(email string) bool {
	for _, e := range i.CreatorEmails {
		if e == email {
			return true
		}
	}
	return false
}

// UnionProofs merges incoming proof URLs into the issue's proofs with set
// semantics, preserving the order proofs were first seen.
func (i *Issue) UnionProofs(incoming []string) {
	seen := make(map[string]bool, len(i.Proofs))
	for _, p := range i.Proofs {
		seen[p] = true
	}
	for _, p := range incoming {
		if !seen[p] {
			i.Proofs = append(i.Proofs, p)
			seen[p] = true
		}
	}
}

// ListIssuesParams filters the issues listing.
type ListIssuesParams struct {
	IssueType    string
	Department   string
	CreatorEmail string
	IsSolved     *bool
}
