package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusError_Error(t *testing.T) {
	err := &StatusError{
		StatusCode:   404,
		ErrorMessage: "not found",
	}
	if err.Error() != "not found" {
		t.Errorf("Expected 'not found', got '%s'", err.Error())
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *StatusError
		code int
	}{
		{"BadRequest", ErrBadRequest("x"), http.StatusBadRequest},
		{"NotFound", ErrNotFound("x"), http.StatusNotFound},
		{"PayloadTooLarge", ErrPayloadTooLarge("x"), http.StatusRequestEntityTooLarge},
		{"InternalServer", ErrInternalServer("x"), http.StatusInternalServerError},
		{"BadGateway", ErrBadGateway("x"), http.StatusBadGateway},
		{"ServiceUnavailable", ErrServiceUnavailable("x"), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.StatusCode)
			assert.Equal(t, "x", tt.err.Error())
		})
	}
}

func TestWrapError(t *testing.T) {
	err := WrapError(errors.New("connection refused"), http.StatusBadGateway, "upstream failed")
	assert.Equal(t, "upstream failed: connection refused", err.Error())
	assert.Equal(t, http.StatusBadGateway, err.StatusCode)

	err = WrapError(nil, http.StatusBadGateway, "upstream failed")
	assert.Equal(t, "upstream failed", err.Error())
}

func TestStatusError_JSONOmitsStatus(t *testing.T) {
	data, err := json.Marshal(ErrBadRequest("image is required"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"image is required"}`, string(data))
}
