package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	t.Run("successful write", func(t *testing.T) {
		w := httptest.NewRecorder()
		data := map[string]string{"message": "test"}

		err := WriteJSON(w, http.StatusOK, data)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var response map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, "test", response["message"])
	})

	t.Run("nil data", func(t *testing.T) {
		w := httptest.NewRecorder()

		require.NoError(t, WriteJSON(w, http.StatusNoContent, nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})
}

func TestWriteOK(t *testing.T) {
	w := httptest.NewRecorder()
	require.NoError(t, WriteOK(w, map[string]string{"result": "success"}))

	assert.Equal(t, http.StatusOK, w.Code)

	var response SuccessResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	dataMap := response.Data.(map[string]interface{})
	assert.Equal(t, "success", dataMap["result"])
}

func TestWriteCreated(t *testing.T) {
	w := httptest.NewRecorder()
	require.NoError(t, WriteCreated(w, map[string]string{"slug": "drama"}))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"data":{"slug":"drama"}}`, w.Body.String())
}

func TestWriteList(t *testing.T) {
	w := httptest.NewRecorder()
	require.NoError(t, WriteList(w, 42, []string{"a", "b"}))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"count":42,"results":["a","b"]}}`, w.Body.String())
}

func TestWriteNoContent(t *testing.T) {
	w := httptest.NewRecorder()
	WriteNoContent(w)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestErrorWriters(t *testing.T) {
	tests := []struct {
		name    string
		write   func(w http.ResponseWriter) error
		status  int
		code    string
		message string
	}{
		{"bad request", func(w http.ResponseWriter) error {
			return WriteBadRequest(w, "Invalid input", map[string]interface{}{"score": "too high"})
		}, http.StatusBadRequest, "bad_request", "Invalid input"},
		{"unauthorized default", func(w http.ResponseWriter) error { return WriteUnauthorized(w, "") },
			http.StatusUnauthorized, "unauthorized", "Authentication required"},
		{"forbidden default", func(w http.ResponseWriter) error { return WriteForbidden(w, "") },
			http.StatusForbidden, "forbidden", "Access forbidden"},
		{"not found", func(w http.ResponseWriter) error { return WriteNotFound(w, "title not found") },
			http.StatusNotFound, "not_found", "title not found"},
		{"conflict", func(w http.ResponseWriter) error { return WriteConflict(w, "Conflict", nil) },
			http.StatusConflict, "conflict", "Conflict"},
		{"rate limit default", func(w http.ResponseWriter) error { return WriteTooManyRequests(w, "", nil) },
			http.StatusTooManyRequests, "rate_limit_exceeded", "Rate limit exceeded"},
		{"internal default", func(w http.ResponseWriter) error { return WriteInternalServerError(w, "") },
			http.StatusInternalServerError, "internal_error", "Internal server error"},
		{"unavailable", func(w http.ResponseWriter) error {
			return WriteError(w, http.StatusServiceUnavailable, "down", nil)
		}, http.StatusServiceUnavailable, "service_unavailable", "down"},
		{"unknown status", func(w http.ResponseWriter) error { return WriteError(w, http.StatusTeapot, "teapot", nil) },
			http.StatusTeapot, "internal_error", "teapot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			require.NoError(t, tt.write(w))

			assert.Equal(t, tt.status, w.Code)
			var response ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
			assert.Equal(t, tt.code, response.Error)
			assert.Equal(t, tt.message, response.Message)
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Text  string `json:"text"`
		Score int    `json:"score"`
	}

	decode := func(body string) (payload, error) {
		var p payload
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		err := DecodeJSON(httptest.NewRecorder(), req, &p)
		return p, err
	}

	t.Run("valid", func(t *testing.T) {
		p, err := decode(`{"text":"great","score":9}`)
		require.NoError(t, err)
		assert.Equal(t, payload{Text: "great", Score: 9}, p)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := decode("")
		assert.ErrorIs(t, err, ErrEmptyBody)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := decode(`{"text":"x","author":"mallory"}`)
		require.Error(t, err)
		assert.Equal(t, `unknown field "author"`, err.Error())
	})

	t.Run("wrong type", func(t *testing.T) {
		_, err := decode(`{"score":"ten"}`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"score"`)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := decode(`{"text":`)
		assert.Error(t, err)
	})

	t.Run("trailing data", func(t *testing.T) {
		_, err := decode(`{"text":"a"}{"text":"b"}`)
		assert.Error(t, err)
	})

	t.Run("too large", func(t *testing.T) {
		_, err := decode(`{"text":"` + strings.Repeat("a", MaxBodyBytes) + `"}`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must not exceed")
	})
}

func TestQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=5&offset=-1&page=abc", nil)

	v, err := QueryInt(req, "limit", 20)
	require.NoError(t, err)
	assert.Equal(t, 5, v)

	v, err = QueryInt(req, "missing", 20)
	require.NoError(t, err)
	assert.Equal(t, 20, v)

	_, err = QueryInt(req, "offset", 0)
	assert.EqualError(t, err, "offset must be a non-negative integer")

	_, err = QueryInt(req, "page", 0)
	assert.Error(t, err)
}
