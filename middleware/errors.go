package middleware

import (
	"net/http"

	"github.com/upb/yamdb/services"
	"github.com/upb/yamdb/utils"
	"go.uber.org/zap"
)

// writeError renders the subset of domain errors middleware can produce
func writeError(w http.ResponseWriter, r *http.Request, err error, logger *zap.Logger) {
	var writeErr error
	switch {
	case services.IsUnauthorizedError(err):
		w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
		writeErr = utils.WriteUnauthorized(w, domainMessage(err))
	case services.IsForbiddenError(err):
		writeErr = utils.WriteForbidden(w, domainMessage(err))
	default:
		logger.Error("middleware failure",
			zap.String("request_id", GetRequestIDFromContext(r.Context())),
			zap.Error(err))
		writeErr = utils.WriteInternalServerError(w, "")
	}
	if writeErr != nil {
		logger.Error("failed to write error response", zap.Error(writeErr))
	}
}

func domainMessage(err error) string {
	if msg := services.GetErrorMessage(err); msg != "" {
		return msg
	}
	return err.Error()
}
