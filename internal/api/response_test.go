package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veldtlabs/docvault/internal/domain"
)

func TestDomainErrorToHTTP(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{domain.ErrInvalidChunkParams, http.StatusBadRequest},
		{domain.ErrNoExtractableText, http.StatusUnprocessableEntity},
		{domain.ErrUnsupportedFileType, http.StatusUnprocessableEntity},
		{domain.ErrNoChunksIndexed, http.StatusUnprocessableEntity},
		{domain.ErrDocumentNotFound, http.StatusNotFound},
		{domain.ErrPermissionDenied, http.StatusForbidden},
		{domain.ErrMissingUserID, http.StatusUnauthorized},
		{domain.ErrTimeout, http.StatusGatewayTimeout},
		{domain.NewIndexUnavailable(errors.New("down")), http.StatusServiceUnavailable},
		{errors.New("plain error"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, DomainErrorToHTTP(tc.err), "error: %v", tc.err)
	}
}

func TestHandleErrorEmitsCode(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, domain.ErrPermissionDenied)

	assert.Equal(t, http.StatusForbidden, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.ErrCodePermissionDenied, resp.Code)
	assert.NotEmpty(t, resp.Error)
}

func TestSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, http.StatusCreated, map[string]int{"count": 3})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":{"count":3}}`, rec.Body.String())
}
