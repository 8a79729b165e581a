package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/layer10security/formrelay/internal/api/dto/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runHandleAPIError(t *testing.T, err error) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/contact", nil)

	HandleAPIError(c, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestHandleAPIErrorMapsAPIError(t *testing.T) {
	w, body := runHandleAPIError(t, common.ErrInvalidEmail)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, map[string]interface{}{"error": "Invalid email format"}, body)
}

func TestHandleAPIErrorHidesInternalDetails(t *testing.T) {
	w, body := runHandleAPIError(t, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, map[string]interface{}{"error": "Internal server error"}, body)
	assert.NotContains(t, w.Body.String(), "pq:")
}

func TestAPIErrorIs(t *testing.T) {
	wrapped := common.ErrInternal.WithCause(errors.New("boom"))
	assert.ErrorIs(t, wrapped, common.ErrInternal)
	assert.NotErrorIs(t, wrapped, common.ErrInvalidEmail)
	assert.Equal(t, "Internal server error: boom", wrapped.Error())
}
