package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"padron/internal/domain"
	"padron/internal/handler"
	"padron/internal/padron"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{&padron.FileParseError{File: "a.xlsx", Cause: "bad"}, http.StatusUnprocessableEntity, "FILE_PARSE_ERROR"},
		{&padron.LookupError{Batch: 2, Size: 100, Err: fmt.Errorf("timeout")}, http.StatusBadGateway, "LOOKUP_FAILED"},
		{domain.ErrSessionNotFound, http.StatusNotFound, "SESSION_NOT_FOUND"},
		{fmt.Errorf("wrapped: %w", domain.ErrObraSocialNotFound), http.StatusNotFound, "OBRA_SOCIAL_NOT_FOUND"},
		{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("%w: unknown field", domain.ErrInvalidMapping), http.StatusBadRequest, "INVALID_MAPPING"},
		{domain.ErrUnsupportedFileType, http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE"},
		{domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{domain.ErrUploadFailed, http.StatusInternalServerError, "UPLOAD_FAILED"},
		{fmt.Errorf("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			status, code, _ := handler.MapDomainError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}
