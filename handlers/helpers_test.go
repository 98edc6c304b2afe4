package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/upb/yamdb/internal/authz"
	"github.com/upb/yamdb/middleware"
	"github.com/upb/yamdb/models"
	"github.com/upb/yamdb/utils"
)

func newUser(username string, role authz.Role) *models.User {
	u := models.NewUser(username, username+"@example.com")
	u.Role = role
	return u
}

// serve runs one request through h as user; a nil user is anonymous
func serve(h http.Handler, method, target, body string, user *models.User) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if user != nil {
		req = req.WithContext(middleware.WithUser(req.Context(), user))
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, dst))
}

func decodeErr(t *testing.T, w *httptest.ResponseRecorder) utils.ErrorResponse {
	t.Helper()
	var body utils.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

type page struct {
	Count   int               `json:"count"`
	Results []json.RawMessage `json:"results"`
}
