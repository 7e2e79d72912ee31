package store

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/innodatatics/city_dashboard/internal/model"
)

const reportColumns = `id, creator_email, name, phone, issue_type, description,
	latitude, longitude, duration, traffic_flow, causing_harm, proofs,
	points, processed, timestamp`

func scanReport(row pgx.Row) (*model.Report, error) {
	var r model.Report
	err := row.Scan(
		&r.ID, &r.CreatorEmail, &r.Name, &r.Phone, &r.IssueType, &r.Description,
		&r.Latitude, &r.Longitude, &r.Duration, &r.TrafficFlow, &r.CausingHarm,
		&r.Proofs, &r.Points, &r.Processed, &r.Timestamp,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateReport inserts a new report.
func (s *Store) CreateReport(ctx context.Context, r model.Report) error {
	query := `INSERT INTO reports (` + reportColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := s.DB.Pool().Exec(ctx, query,
		r.ID, r.CreatorEmail, r.Name, r.Phone, r.IssueType, r.Description,
		r.Latitude, r.Longitude, r.Duration, r.TrafficFlow, r.CausingHarm,
		r.Proofs, r.Points, r.Processed, r.Timestamp,
	)
	if err != nil {
		return errors.Wrap(err, "insert report")
	}
	return nil
}

// ReportByID fetches a single report. Returns (nil, nil) when it does not
// exist; the poller relies on that to detect deleted reports.
func (s *Store) ReportByID(ctx context.Context, id string) (*model.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1`

	report, err := scanReport(s.DB.Pool().QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get report")
	}
	return report, nil
}

// ListReports returns reports matching the filter, newest first.
func (s *Store) ListReports(ctx context.Context, params model.ListReportsParams) ([]model.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE 1=1`
	args := []interface{}{}

	if params.CreatorEmail != "" {
		args = append(args, params.CreatorEmail)
		query += ` AND creator_email = $1`
	}
	if params.Processed != nil {
		args = append(args, *params.Processed)
		query += ` AND processed = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY timestamp DESC`

	rows, err := s.DB.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list reports")
	}
	defer rows.Close()

	var reports []model.Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan report")
		}
		reports = append(reports, *r)
	}
	return reports, rows.Err()
}

// UnprocessedReports returns up to limit reports the poller has not
// reconciled yet, oldest first.
func (s *Store) UnprocessedReports(ctx context.Context, limit int) ([]model.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports
		WHERE processed = false ORDER BY timestamp ASC LIMIT $1`

	rows, err := s.DB.Pool().Query(ctx, query, limit)
	if err != nil {
		return nil, errors.Wrap(err, "list unprocessed reports")
	}
	defer rows.Close()

	var reports []model.Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan report")
		}
		reports = append(reports, *r)
	}
	return reports, rows.Err()
}

// MarkProcessed flips the processed flag after reconciliation.
func (s *Store) MarkProcessed(ctx context.Context, id string) error {
	_, err := s.DB.Pool().Exec(ctx,
		`UPDATE reports SET processed = true WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "mark report processed")
	}
	return nil
}

// AppendProofs adds uploaded proof URLs to a report, keeping existing ones.
func (s *Store) AppendProofs(ctx context.Context, id string, urls []string) (*model.Report, error) {
	query := `UPDATE reports
		SET proofs = (
			SELECT array_agg(DISTINCT p) FROM unnest(proofs || $2::text[]) AS p
		)
		WHERE id = $1
		RETURNING ` + reportColumns

	report, err := scanReport(s.DB.Pool().QueryRow(ctx, query, id, urls))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "append report proofs")
	}
	return report, nil
}

// AddReportPoints credits gamification points to a report's creator.
func (s *Store) AddReportPoints(ctx context.Context, id string, points int) error {
	_, err := s.DB.Pool().Exec(ctx,
		`UPDATE reports SET points = points + $2 WHERE id = $1`, id, points)
	if err != nil {
		return errors.Wrap(err, "add report points")
	}
	return nil
}
