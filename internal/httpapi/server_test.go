package httpapi

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

type fakeParser struct {
	summary any
	err     error
}

func (f *fakeParser) Parse(filename string, body []byte) (any, error) {
	return f.summary, f.err
}

type fakeStore struct {
	saved bool
}

func (f *fakeStore) SaveSummary(hash, filename string, summary any) error {
	f.saved = true
	return nil
}

func multipartDemo(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	part, err := w.CreateFormFile("demo", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return buf, w.FormDataContentType()
}

func TestHandleUploadNoParserWiredReturnsNotImplemented(t *testing.T) {
	s := New(Config{Logger: zap.NewNop()})

	body, contentType := multipartDemo(t, "match.dem", []byte("fake demo bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/demos", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	s.Router.ServeHTTP(w, req)

	if w.Code != http.StatusNotImplemented {
		t.Fatalf("expected 501, got %d: %s", w.Code, w.Body.String())
	}
	var resp uploadResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.RequestID == "" {
		t.Fatal("expected a request id")
	}
	if resp.Hash == "" {
		t.Fatal("expected a content hash even when no parser is wired")
	}
}

func TestHandleUploadMissingFileReturnsBadRequest(t *testing.T) {
	s := New(Config{Logger: zap.NewNop()})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/demos", bytes.NewReader(nil))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	w := httptest.NewRecorder()

	s.Router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestHandleUploadSuccessPersistsToStore(t *testing.T) {
	store := &fakeStore{}
	s := New(Config{
		Logger: zap.NewNop(),
		Parser: &fakeParser{summary: map[string]string{"map": "cp_badlands"}},
		Store:  store,
	})

	body, contentType := multipartDemo(t, "match.dem", []byte("fake demo bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/demos", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	s.Router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !store.saved {
		t.Fatal("expected summary to be persisted")
	}
}

func TestHandleHealthz(t *testing.T) {
	s := New(Config{Logger: zap.NewNop()})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
