package httpadapter

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avelichko/faq-assistant/internal/config"
	"github.com/avelichko/faq-assistant/internal/core/domain"
)

func TestGetDocumentByIDReturns404ForNotFound(t *testing.T) {
	docs := &docsFake{err: domain.WrapError(domain.ErrDocumentNotFound, "get", errors.New("id=missing"))}
	handler := newTestHandler(config.Config{}, nil, nil, docs)

	req := httptest.NewRequest(http.MethodGet, "/v1/documents/missing", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
}

func TestGetDocumentByIDRequiresID(t *testing.T) {
	handler := newTestHandler(config.Config{}, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/documents/", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestUploadMapsUnsupportedFormatTo415(t *testing.T) {
	ingest := &ingestFake{err: domain.WrapError(domain.ErrUnsupportedFormat, "upload", errors.New("zip archives not supported"))}
	handler := newTestHandler(config.Config{}, nil, ingest, nil)

	res := postMultipartFile(t, handler, "archive.zip", []byte("PK"))
	if res.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", res.Code)
	}
}

func TestMapErrorToHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.WrapError(domain.ErrInvalidInput, "op", errors.New("x")), http.StatusBadRequest},
		{domain.WrapError(domain.ErrUnsupportedFormat, "op", errors.New("x")), http.StatusUnsupportedMediaType},
		{domain.WrapError(domain.ErrDocumentNotFound, "op", errors.New("x")), http.StatusNotFound},
		{domain.WrapError(domain.ErrTemporary, "op", errors.New("x")), http.StatusServiceUnavailable},
		{errors.New("unclassified"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := mapErrorToHTTPStatus(tc.err); got != tc.want {
			t.Fatalf("mapErrorToHTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
