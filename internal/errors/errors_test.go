package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"log/slog"
	"os"
)

func TestAPIError(t *testing.T) {
	err := ErrValidation("filename", "must not contain path separators")

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", err.ErrorCode)
	assert.Equal(t, "Request validation failed", err.Error())

	details, ok := err.Details.(ValidationError)
	require.True(t, ok)
	assert.Equal(t, "filename", details.Field)
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := NewStorageError("failed to write export", cause)

	assert.ErrorContains(t, err, "disk full")
	assert.Equal(t, cause, err.Unwrap())
	assert.Equal(t, ErrTypeStorage, err.Type)
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	pd := NewProblemDetails(http.StatusNotFound, TypeSessionNotFound, "Not Found", "session gone", "/api/sessions/abc").
		WithExtension("trace_id", "xyz")

	data, err := json.Marshal(pd)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, TypeSessionNotFound, decoded["type"])
	assert.Equal(t, float64(http.StatusNotFound), decoded["status"])
	assert.Equal(t, "xyz", decoded["trace_id"])
}

func TestErrorHandler_HandleError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	handler := NewErrorHandler(logger, false)

	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedType   string
	}{
		{
			name:           "session not found",
			err:            SessionNotFoundError("abc"),
			expectedStatus: http.StatusNotFound,
			expectedType:   TypeSessionNotFound,
		},
		{
			name:           "malformed csv",
			err:            MalformedCSVError(fmt.Errorf("record on line 3: wrong number of fields")),
			expectedStatus: http.StatusBadRequest,
			expectedType:   TypeMalformedCSV,
		},
		{
			name:           "app parsing error",
			err:            NewParsingError("bad header row", nil),
			expectedStatus: http.StatusBadRequest,
			expectedType:   TypeMalformedCSV,
		},
		{
			name:           "unknown error",
			err:            fmt.Errorf("boom"),
			expectedStatus: http.StatusInternalServerError,
			expectedType:   TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
			rec := httptest.NewRecorder()

			handler.HandleError(rec, req, tt.err)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			var problem map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
			assert.Equal(t, tt.expectedType, problem["type"])
			assert.Equal(t, "/api/test", problem["instance"])
		})
	}
}
