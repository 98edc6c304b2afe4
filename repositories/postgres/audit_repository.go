package postgres

import (
	"context"

	"github.com/upb/yamdb/models"
	"github.com/upb/yamdb/repositories"
	"go.uber.org/zap"
)

// AuditRepository implements the repositories.AuditRepository interface
type AuditRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *DB, logger *zap.Logger) repositories.AuditRepository {
	return &AuditRepository{
		db:     db,
		logger: logger,
	}
}

// Insert inserts a new audit log entry
func (r *AuditRepository) Insert(ctx context.Context, log *models.AuditLog) error {
	query := `
		INSERT INTO audit_logs (
			id, actor_id, actor_role, action, resource_type, resource_id,
			owner_id, details, request_id, ip_address, user_agent, timestamp
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	var details interface{}
	if len(log.Details) > 0 {
		details = []byte(log.Details)
	}

	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		log.ID,
		log.ActorID,
		log.ActorRole,
		log.Action,
		log.ResourceType,
		log.ResourceID,
		log.OwnerID,
		details,
		log.RequestID,
		log.IPAddress,
		log.UserAgent,
		log.Timestamp,
	)
	if err != nil {
		return wrapError(err, "insert", "audit log")
	}

	r.logger.Debug("audit log inserted", zap.String("id", log.ID.String()), zap.String("action", string(log.Action)))
	return nil
}

// List retrieves a page of audit logs, newest first
func (r *AuditRepository) List(ctx context.Context, params repositories.ListParams) ([]*models.AuditLog, int, error) {
	query := `
		SELECT id, actor_id, actor_role, action, resource_type, resource_id,
		       owner_id, details, request_id, ip_address, user_agent, timestamp,
		       COUNT(*) OVER()
		FROM audit_logs
		ORDER BY timestamp DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, wrapError(err, "query", "audit logs")
	}
	defer rows.Close()

	logs := []*models.AuditLog{}
	total := 0
	for rows.Next() {
		log := &models.AuditLog{}
		var details []byte
		err := rows.Scan(
			&log.ID,
			&log.ActorID,
			&log.ActorRole,
			&log.Action,
			&log.ResourceType,
			&log.ResourceID,
			&log.OwnerID,
			&details,
			&log.RequestID,
			&log.IPAddress,
			&log.UserAgent,
			&log.Timestamp,
			&total,
		)
		if err != nil {
			return nil, 0, wrapError(err, "scan", "audit log")
		}
		log.Details = details
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrapError(err, "iterate", "audit log rows")
	}

	return logs, total, nil
}
