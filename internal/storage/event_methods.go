package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shopgrid/storefront-server/internal/models"
)

// CreateEventLog creates an event log entry
func (s *PostgresStore) CreateEventLog(ctx context.Context, event *models.EventLog) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	event.CreatedAt = time.Now()

	query := `
        INSERT INTO event_logs (
            id, created_at, tenant_id, type, level, description, details
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7
        )`

	_, err := s.getDB().ExecContext(ctx, query,
		event.ID, event.CreatedAt, event.TenantID,
		event.Type, event.Level, event.Description, event.Details,
	)

	return err
}

// ListEventLogs lists event log entries matching the filters
func (s *PostgresStore) ListEventLogs(ctx context.Context, filters EventLogFilters, limit, offset int) ([]*models.EventLog, int64, error) {
	where := "1=1"
	args := []interface{}{}
	argN := 0

	addFilter := func(clause string, value interface{}) {
		argN++
		where += fmt.Sprintf(" AND %s $%d", clause, argN)
		args = append(args, value)
	}

	if filters.TenantID != nil {
		addFilter("tenant_id =", *filters.TenantID)
	}
	if filters.Type != nil {
		addFilter("type =", *filters.Type)
	}
	if filters.Level != nil {
		addFilter("level =", *filters.Level)
	}
	if filters.StartTime != nil {
		addFilter("created_at >=", *filters.StartTime)
	}
	if filters.EndTime != nil {
		addFilter("created_at <=", *filters.EndTime)
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM event_logs WHERE ` + where
	if err := s.getDB().QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
        SELECT id, created_at, tenant_id, type, level, description, details
        FROM event_logs
        WHERE %s
        ORDER BY created_at DESC
        LIMIT $%d OFFSET $%d`, where, argN+1, argN+2)
	args = append(args, limit, offset)

	rows, err := s.getDB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var events []*models.EventLog
	for rows.Next() {
		event := &models.EventLog{}
		err := rows.Scan(
			&event.ID, &event.CreatedAt, &event.TenantID,
			&event.Type, &event.Level, &event.Description, &event.Details,
		)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, event)
	}

	return events, total, rows.Err()
}
