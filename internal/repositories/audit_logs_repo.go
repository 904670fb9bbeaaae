package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mentorhub/internal/models"

	"github.com/google/uuid"
)

type AuditLogsRepository interface {
	Create(ctx context.Context, auditLog *models.AuditLog) error
	List(ctx context.Context, orgID string, filters *models.AuditLogFilters) ([]*models.AuditLog, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type auditLogsRepo struct {
	db DB
}

func NewAuditLogsRepo(db DB) AuditLogsRepository {
	return &auditLogsRepo{db: db}
}

func (r *auditLogsRepo) Create(ctx context.Context, auditLog *models.AuditLog) error {
	if auditLog.ID == uuid.Nil {
		auditLog.ID = uuid.New()
	}
	auditLog.CreatedAt = time.Now()

	var newValues, oldValues []byte
	var err error
	if auditLog.NewValues != nil {
		if newValues, err = json.Marshal(auditLog.NewValues); err != nil {
			return fmt.Errorf("failed to marshal new_values: %w", err)
		}
	}
	if auditLog.OldValues != nil {
		if oldValues, err = json.Marshal(auditLog.OldValues); err != nil {
			return fmt.Errorf("failed to marshal old_values: %w", err)
		}
	}

	query := `
		INSERT INTO audit_logs (id, organization_id, entity_type, entity_id, action, new_values, old_values, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = r.db.Exec(ctx, query, auditLog.ID, auditLog.OrganizationID, auditLog.EntityType,
		auditLog.EntityID, auditLog.Action, newValues, oldValues, auditLog.ActorID, auditLog.CreatedAt)
	return err
}

func (r *auditLogsRepo) List(ctx context.Context, orgID string, filters *models.AuditLogFilters) ([]*models.AuditLog, error) {
	query := `
		SELECT id, organization_id, entity_type, entity_id, action, new_values, old_values, actor_id, created_at
		FROM audit_logs
		WHERE organization_id = $1
	`
	args := []any{orgID}
	idx := 2

	if filters != nil {
		if filters.EntityType != nil {
			query += fmt.Sprintf(" AND entity_type = $%d", idx)
			args = append(args, *filters.EntityType)
			idx++
		}
		if filters.Action != nil {
			query += fmt.Sprintf(" AND action = $%d", idx)
			args = append(args, *filters.Action)
			idx++
		}
		if filters.ActorID != nil {
			query += fmt.Sprintf(" AND actor_id = $%d", idx)
			args = append(args, *filters.ActorID)
			idx++
		}
		if filters.Since != nil {
			query += fmt.Sprintf(" AND created_at >= $%d", idx)
			args = append(args, *filters.Since)
			idx++
		}
		if filters.Until != nil {
			query += fmt.Sprintf(" AND created_at <= $%d", idx)
			args = append(args, *filters.Until)
			idx++
		}
	}

	limit, offset := 50, 0
	if filters != nil {
		if filters.Limit > 0 {
			limit = filters.Limit
		}
		if filters.Offset > 0 {
			offset = filters.Offset
		}
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.AuditLog
	for rows.Next() {
		entry := &models.AuditLog{}
		var newValues, oldValues []byte
		if err := rows.Scan(&entry.ID, &entry.OrganizationID, &entry.EntityType, &entry.EntityID,
			&entry.Action, &newValues, &oldValues, &entry.ActorID, &entry.CreatedAt); err != nil {
			return nil, err
		}
		if len(newValues) > 0 {
			if err := json.Unmarshal(newValues, &entry.NewValues); err != nil {
				return nil, fmt.Errorf("failed to unmarshal new_values: %w", err)
			}
		}
		if len(oldValues) > 0 {
			if err := json.Unmarshal(oldValues, &entry.OldValues); err != nil {
				return nil, fmt.Errorf("failed to unmarshal old_values: %w", err)
			}
		}
		logs = append(logs, entry)
	}
	return logs, rows.Err()
}

func (r *auditLogsRepo) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM audit_logs WHERE created_at < $1`
	tag, err := r.db.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
