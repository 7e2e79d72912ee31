package store

import (
	"context"

	"github.com/pkg/errors"

	"github.com/innodatatics/city_dashboard/internal/model"
)

// CreateNotification appends a dashboard feed entry.
func (s *Store) CreateNotification(ctx context.Context, n model.Notification) error {
	query := `INSERT INTO notifications
		(id, type, report_id, issue_type, description, latitude, longitude,
		 duration, traffic_flow, causing_harm, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := s.DB.Pool().Exec(ctx, query,
		n.ID, n.Type, n.ReportID, n.IssueType, n.Description,
		n.Latitude, n.Longitude, n.Duration, n.TrafficFlow, n.CausingHarm,
		n.Timestamp,
	)
	if err != nil {
		return errors.Wrap(err, "insert notification")
	}
	return nil
}

// ListNotifications returns feed entries, newest first.
func (s *Store) ListNotifications(ctx context.Context, limit int) ([]model.Notification, error) {
	query := `SELECT id, type, report_id, issue_type, description, latitude,
		longitude, duration, traffic_flow, causing_harm, timestamp
		FROM notifications ORDER BY timestamp DESC LIMIT $1`

	rows, err := s.DB.Pool().Query(ctx, query, limit)
	if err != nil {
		return nil, errors.Wrap(err, "list notifications")
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(
			&n.ID, &n.Type, &n.ReportID, &n.IssueType, &n.Description,
			&n.Latitude, &n.Longitude, &n.Duration, &n.TrafficFlow,
			&n.CausingHarm, &n.Timestamp,
		); err != nil {
			return nil, errors.Wrap(err, "scan notification")
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}
