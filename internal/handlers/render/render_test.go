package render

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_BindAndValidate(t *testing.T) {
	t.Parallel()

	type request struct {
		Username string `json:"username" validate:"required,min=2"`
		Password string `json:"password" validate:"required,min=8"`
	}

	t.Run("valid body ok", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username": "alice", "password": "longenough"}`))
		w := httptest.NewRecorder()

		got, err := BindAndValidate[request](w, r)

		require.NoError(t, err)
		assert.Equal(t, "alice", got.Username)
		assert.Equal(t, "longenough", got.Password)
	})

	t.Run("broken json renders decode error", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username": `))
		w := httptest.NewRecorder()

		_, err := BindAndValidate[request](w, r)

		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), DecodingErrorType)
	})

	t.Run("validation failure renders field map with json names", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username": "a", "password": "short"}`))
		w := httptest.NewRecorder()

		_, err := BindAndValidate[request](w, r)

		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `
			{
				"error": "validation_failed",
				"message": "Request validation failed",
				"fields": {
					"username": "Value is too short (minimum 2)",
					"password": "Value is too short (minimum 8)"
				}
			}`, w.Body.String())
	})
}

func Test_JSONWithStatus(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()

	JSONWithStatus(w, map[string]string{"message": "ok"}, http.StatusCreated)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message": "ok"}`, w.Body.String())
}
