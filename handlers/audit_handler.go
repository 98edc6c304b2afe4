package handlers

import (
	"context"
	"net/http"

	"github.com/upb/yamdb/models"
	"github.com/upb/yamdb/repositories"
	"go.uber.org/zap"
)

// AuditLister reads the moderation audit log
type AuditLister interface {
	List(ctx context.Context, params repositories.ListParams) ([]*models.AuditLog, int, error)
}

// AuditHandler handles /audit/logs
type AuditHandler struct {
	audit  AuditLister
	logger *zap.Logger
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(audit AuditLister, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{audit: audit, logger: logger}
}

// HandleList handles GET /audit/logs
func (h *AuditHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	params, err := listParams(r)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	logs, total, err := h.audit.List(r.Context(), params)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeList(w, total, logs, h.logger)
}
