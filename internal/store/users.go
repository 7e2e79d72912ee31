package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/innodatatics/city_dashboard/internal/model"
)

// CreateUser registers a citizen. Re-registering the same email refreshes
// the name and phone instead of failing.
func (s *Store) CreateUser(ctx context.Context, u model.User) error {
	query := `INSERT INTO users (email, name, phone, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET name = $2, phone = $3`

	_, err := s.DB.Pool().Exec(ctx, query, u.Email, u.Name, u.Phone, u.CreatedAt)
	if err != nil {
		return errors.Wrap(err, "insert user")
	}
	return nil
}

// UserByEmail fetches a citizen record; (nil, nil) when not registered.
func (s *Store) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := s.DB.Pool().QueryRow(ctx,
		`SELECT email, name, phone, created_at FROM users WHERE email = $1`,
		email).Scan(&u.Email, &u.Name, &u.Phone, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get user")
	}
	return &u, nil
}

// RecordContribution upserts the per-citizen contribution counter when a
// report is submitted.
func (s *Store) RecordContribution(ctx context.Context, email, reportID string) error {
	query := `INSERT INTO user_contributions (email, report_count, report_ids, last_updated)
		VALUES ($1, 1, ARRAY[$2], $3)
		ON CONFLICT (email) DO UPDATE SET
			report_count = user_contributions.report_count + 1,
			report_ids = array_append(user_contributions.report_ids, $2),
			last_updated = $3`

	_, err := s.DB.Pool().Exec(ctx, query, email, reportID, time.Now().UTC())
	if err != nil {
		return errors.Wrap(err, "record contribution")
	}
	return nil
}

// ContributionByEmail fetches a citizen's contribution record; (nil, nil)
// when they have not filed any reports.
func (s *Store) ContributionByEmail(ctx context.Context, email string) (*model.UserContribution, error) {
	var c model.UserContribution
	err := s.DB.Pool().QueryRow(ctx,
		`SELECT email, report_count, report_ids, last_updated
		 FROM user_contributions WHERE email = $1`,
		email).Scan(&c.Email, &c.ReportCount, &c.ReportIDs, &c.LastUpdated)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get contribution")
	}
	return &c, nil
}
