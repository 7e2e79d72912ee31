package store

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/innodatatics/city_dashboard/internal/model"
)

const issueColumns = `id, issue_type, description, latitude, longitude,
	relative_location, no_of_reports, priority, related_report_ids,
	creator_emails, proofs, applause, is_solved, status, assigned_department,
	timestamp, time_created, last_updated, completed_timestamp`

func scanIssue(row pgx.Row) (*model.Issue, error) {
	var i model.Issue
	err := row.Scan(
		&i.ID, &i.IssueType, &i.Description, &i.Latitude, &i.Longitude,
		&i.RelativeLocation, &i.NoOfReports, &i.Priority, &i.RelatedReportIDs,
		&i.CreatorEmails, &i.Proofs, &i.Applause, &i.IsSolved, &i.Status,
		&i.AssignedDepartment, &i.Timestamp, &i.TimeCreated, &i.LastUpdated,
		&i.CompletedTimestamp,
	)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// CreateIssue inserts a new aggregated issue.
func (s *Store) CreateIssue(ctx context.Context, i model.Issue) error {
	query := `INSERT INTO issues (` + issueColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19)`

	_, err := s.DB.Pool().Exec(ctx, query,
		i.ID, i.IssueType, i.Description, i.Latitude, i.Longitude,
		i.RelativeLocation, i.NoOfReports, i.Priority, i.RelatedReportIDs,
		i.CreatorEmails, i.Proofs, i.Applause, i.IsSolved, i.Status,
		i.AssignedDepartment, i.Timestamp, i.TimeCreated, i.LastUpdated,
		i.CompletedTimestamp,
	)
	if err != nil {
		return errors.Wrap(err, "insert issue")
	}
	return nil
}

// SaveIssue overwrites the mutable fields of an existing issue. Used by the
// poller's merge path.
func (s *Store) SaveIssue(ctx context.Context, i model.Issue) error {
	query := `UPDATE issues SET
		description = $2, relative_location = $3, no_of_reports = $4,
		priority = $5, related_report_ids = $6, creator_emails = $7,
		proofs = $8, last_updated = $9
		WHERE id = $1`

	_, err := s.DB.Pool().Exec(ctx, query,
		i.ID, i.Description, i.RelativeLocation, i.NoOfReports,
		i.Priority, i.RelatedReportIDs, i.CreatorEmails,
		i.Proofs, i.LastUpdated,
	)
	if err != nil {
		return errors.Wrap(err, "update issue")
	}
	return nil
}

// IssueByID fetches a single issue; (nil, nil) when not found.
func (s *Store) IssueByID(ctx context.Context, id string) (*model.Issue, error) {
	query := `SELECT ` + issueColumns + ` FROM issues WHERE id = $1`

	issue, err := scanIssue(s.DB.Pool().QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get issue")
	}
	return issue, nil
}

// IssuesByType returns every issue of the given type. The poller scans this
// list for a proximity match.
func (s *Store) IssuesByType(ctx context.Context, issueType string) ([]model.Issue, error) {
	query := `SELECT ` + issueColumns + ` FROM issues
		WHERE issue_type = $1 ORDER BY time_created ASC`

	rows, err := s.DB.Pool().Query(ctx, query, issueType)
	if err != nil {
		return nil, errors.Wrap(err, "list issues by type")
	}
	defer rows.Close()

	return collectIssues(rows)
}

// ListIssues returns issues matching the filter, most recently updated first.
func (s *Store) ListIssues(ctx context.Context, params model.ListIssuesParams) ([]model.Issue, error) {
	query := `SELECT ` + issueColumns + ` FROM issues WHERE 1=1`
	args := []interface{}{}

	if params.IssueType != "" {
		args = append(args, params.IssueType)
		query += ` AND issue_type = $` + strconv.Itoa(len(args))
	}
	if params.Department != "" {
		args = append(args, params.Department)
		query += ` AND assigned_department = $` + strconv.Itoa(len(args))
	}
	if params.CreatorEmail != "" {
		args = append(args, params.CreatorEmail)
		query += ` AND $` + strconv.Itoa(len(args)) + ` = ANY(creator_emails)`
	}
	if params.IsSolved != nil {
		args = append(args, *params.IsSolved)
		query += ` AND is_solved = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY last_updated DESC`

	rows, err := s.DB.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list issues")
	}
	defer rows.Close()

	return collectIssues(rows)
}

func collectIssues(rows pgx.Rows) ([]model.Issue, error) {
	var issues []model.Issue
	for rows.Next() {
		i, err := scanIssue(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan issue")
		}
		issues = append(issues, *i)
	}
	return issues, rows.Err()
}

// ApplaudIssue increments the applause counter and returns the new value.
func (s *Store) ApplaudIssue(ctx context.Context, id string) (int, error) {
	var applause int
	err := s.DB.Pool().QueryRow(ctx,
		`UPDATE issues SET applause = applause + 1 WHERE id = $1 RETURNING applause`,
		id).Scan(&applause)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, errors.Wrap(err, "applaud issue")
	}
	return applause, nil
}

// UpdateIssueStatus moves an issue through the admin workflow. Completing an
// issue also marks it solved and stamps the completion time.
func (s *Store) UpdateIssueStatus(ctx context.Context, id, status string) (*model.Issue, error) {
	query := `UPDATE issues SET
		status = $2,
		is_solved = ($2 = '` + model.StatusCompleted + `'),
		completed_timestamp = CASE WHEN $2 = '` + model.StatusCompleted + `'
			THEN $3::timestamptz ELSE completed_timestamp END,
		last_updated = $3
		WHERE id = $1
		RETURNING ` + issueColumns

	issue, err := scanIssue(s.DB.Pool().QueryRow(ctx, query, id, status, time.Now().UTC()))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "update issue status")
	}
	return issue, nil
}

// AssignDepartment routes an issue to a city department. Runs in a
// transaction so the assignment and the audit touch stay consistent.
func (s *Store) AssignDepartment(ctx context.Context, id, department string) (*model.Issue, error) {
	var issue *model.Issue
	err := s.DB.RunInTx(ctx, func(tx pgx.Tx) error {
		query := `UPDATE issues SET
			assigned_department = $2, status = $3, last_updated = $4
			WHERE id = $1
			RETURNING ` + issueColumns

		var err error
		issue, err = scanIssue(tx.QueryRow(ctx, query, id, department,
			model.StatusInProgress, time.Now().UTC()))
		if errors.Is(err, pgx.ErrNoRows) {
			issue = nil
			return nil
		}
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "assign department")
	}
	return issue, nil
}
