// Package handlers holds the thin HTTP layer: decode the request, call one
// service method, render the result with the utils envelopes.
package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/upb/yamdb/repositories"
	"github.com/upb/yamdb/services"
	"github.com/upb/yamdb/utils"
	"go.uber.org/zap"
)

// decodeBody decodes the JSON body into dst and writes a 400 on failure
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}, logger *zap.Logger) bool {
	if err := utils.DecodeJSON(w, r, dst); err != nil {
		if writeErr := utils.WriteBadRequest(w, err.Error(), nil); writeErr != nil {
			logger.Error("failed to write bad request response", zap.Error(writeErr))
		}
		return false
	}
	return true
}

// listParams reads limit, offset and search from the query string
func listParams(r *http.Request) (repositories.ListParams, error) {
	limit, err := utils.QueryInt(r, "limit", services.DefaultPageSize)
	if err != nil {
		return repositories.ListParams{}, services.WrapValidation(err.Error(), nil)
	}
	offset, err := utils.QueryInt(r, "offset", 0)
	if err != nil {
		return repositories.ListParams{}, services.WrapValidation(err.Error(), nil)
	}
	return repositories.ListParams{
		Limit:  limit,
		Offset: offset,
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
	}, nil
}

// pathID parses a UUID path parameter. A malformed id cannot name an
// existing object, so it is reported with the parameter's not-found error.
func pathID(r *http.Request, p pathParam) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, p.name))
	if err != nil {
		return uuid.Nil, p.notFound
	}
	return id, nil
}

// pathIDs parses several UUID path parameters in order
func pathIDs(r *http.Request, params ...pathParam) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(params))
	for _, p := range params {
		id, err := pathID(r, p)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

type pathParam struct {
	name     string
	notFound error
}

var (
	titleParam       = pathParam{"titleID", services.ErrTitleNotFound}
	reviewParam      = pathParam{"reviewID", services.ErrReviewNotFound}
	commentParam     = pathParam{"commentID", services.ErrCommentNotFound}
	postParam        = pathParam{"postID", services.ErrPostNotFound}
	postCommentParam = pathParam{"commentID", services.ErrPostCommentNotFound}
	groupParam       = pathParam{"groupID", services.ErrGroupNotFound}
)

func writeOK(w http.ResponseWriter, data interface{}, logger *zap.Logger) {
	if err := utils.WriteOK(w, data); err != nil {
		logger.Error("failed to write response", zap.Error(err))
	}
}

func writeCreated(w http.ResponseWriter, data interface{}, logger *zap.Logger) {
	if err := utils.WriteCreated(w, data); err != nil {
		logger.Error("failed to write response", zap.Error(err))
	}
}

func writeList(w http.ResponseWriter, count int, results interface{}, logger *zap.Logger) {
	if err := utils.WriteList(w, count, results); err != nil {
		logger.Error("failed to write response", zap.Error(err))
	}
}
