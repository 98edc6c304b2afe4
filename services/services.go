package services

import (
	"context"

	"github.com/upb/yamdb/internal/authz"
	"github.com/upb/yamdb/models"
	"github.com/upb/yamdb/repositories"
	"github.com/upb/yamdb/utils"
	"go.uber.org/zap"
)

// Page size bounds for list endpoints
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// AuditRecorder queues moderation audit entries
type AuditRecorder interface {
	Record(ctx context.Context, entry *models.AuditLog) error
}

// NormalizeListParams clamps pagination to the allowed range
func NormalizeListParams(params repositories.ListParams) repositories.ListParams {
	if params.Limit <= 0 {
		params.Limit = DefaultPageSize
	}
	if params.Limit > MaxPageSize {
		params.Limit = MaxPageSize
	}
	if params.Offset < 0 {
		params.Offset = 0
	}
	return params
}

// validateInput runs struct validation and converts failures into ErrInvalidInput
func validateInput(input interface{}) error {
	if err := utils.ValidateStruct(input); err != nil {
		domainErr := wrap(ErrInvalidInput, err)
		for field, msg := range utils.GetValidationFields(err) {
			domainErr.WithDetail(field, msg)
		}
		return domainErr
	}
	return nil
}

func requireAuthenticated(p authz.Principal) error {
	if !p.IsAuthenticated() {
		return wrap(ErrUnauthorized, authz.ErrUnauthenticated)
	}
	return nil
}

// recordModeration audits a change made to someone else's content
func recordModeration(ctx context.Context, recorder AuditRecorder, logger *zap.Logger, actor authz.Principal, res authz.Resource, entry *models.AuditLog) {
	if actor.IsAuthor(res) {
		return
	}
	recordAudit(ctx, recorder, logger, entry.WithOwner(res.AuthorID()))
}

// recordAudit queues entry. Failures are logged and never fail the request.
func recordAudit(ctx context.Context, recorder AuditRecorder, logger *zap.Logger, entry *models.AuditLog) {
	if recorder == nil {
		return
	}
	if err := recorder.Record(ctx, entry); err != nil {
		logger.Warn("failed to record audit entry",
			zap.String("action", string(entry.Action)),
			zap.String("resource_type", entry.ResourceType),
			zap.Error(err))
	}
}
