package utils_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourdesk/globals"
	"tourdesk/utils"
)

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, utils.StatusFor(utils.Validation("name is required")))
	assert.Equal(t, http.StatusConflict, utils.StatusFor(utils.Capacity("no seats")))
	assert.Equal(t, http.StatusConflict, utils.StatusFor(utils.Conflict("slug taken")))
	assert.Equal(t, http.StatusNotFound, utils.StatusFor(utils.NotFound("group")))
	assert.Equal(t, http.StatusInternalServerError, utils.StatusFor(errors.New("boom")))
}

func TestMessage_StripsSentinel(t *testing.T) {
	err := fmt.Errorf("groups.AddTourist: %w", utils.Validation("name is required"))
	assert.Equal(t, "name is required", utils.Message(err))
	assert.Equal(t, "group not found", utils.Message(utils.NotFound("group")))
}

func TestRespondWithServiceError_HidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)

	utils.RespondWithServiceError(rec, req, errors.New("connection refused"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestDecodeJSON_Invalid(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("{nope"))

	var dst map[string]any
	err := utils.DecodeJSON(rec, req, &dst)

	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestRespondWithServiceError_LogsRequestID(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	req = req.WithContext(context.WithValue(req.Context(), globals.RequestIDKey, "req-42"))
	utils.RespondWithServiceError(httptest.NewRecorder(), req, errors.New("connection refused"))

	assert.Contains(t, buf.String(), `"request_id":"req-42"`)
	assert.Equal(t, "req-42", utils.RequestID(req.Context()))
	assert.Empty(t, utils.RequestID(context.Background()))
}
