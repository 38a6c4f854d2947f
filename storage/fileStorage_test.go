package storage

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path"
	"strings"
	"testing"

	"booking_backend/errors"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

func newTestStorage(t *testing.T) *FileStorage {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	fs, err := New(t.TempDir(), logger, trace.NewNoopTracerProvider().Tracer(""))
	if err != nil {
		t.Fatalf("failed to build storage: %v", err)
	}
	return fs
}

func makeFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("photos", filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("failed to parse multipart form: %v", err)
	}

	return req.MultipartForm.File["photos"][0]
}

func TestSaveUploadPreservesExtension(t *testing.T) {
	fs := newTestStorage(t)

	content := []byte("fake image bytes")
	name, err := fs.SaveUpload(context.Background(), makeFileHeader(t, "holiday.png", content))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if !strings.HasSuffix(name, ".png") {
		t.Fatalf("extension not preserved: %s", name)
	}
	if strings.Contains(name, "\\") || strings.Contains(name, "/") {
		t.Fatalf("name contains path separators: %s", name)
	}

	stored, err := os.ReadFile(path.Join(fs.root, name))
	if err != nil {
		t.Fatalf("stored file unreadable: %v", err)
	}
	if !bytes.Equal(stored, content) {
		t.Fatal("stored content differs from upload")
	}
}

func TestSaveUploadDistinctNames(t *testing.T) {
	fs := newTestStorage(t)

	first, err := fs.SaveUpload(context.Background(), makeFileHeader(t, "a.jpg", []byte("one")))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	second, err := fs.SaveUpload(context.Background(), makeFileHeader(t, "a.jpg", []byte("two")))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if first == second {
		t.Fatalf("same name for two uploads: %s", first)
	}
}

func TestDownloadImage(t *testing.T) {
	fs := newTestStorage(t)

	content := []byte("remote image bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(content)
	}))
	defer server.Close()

	name, err := fs.DownloadImage(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("download failed: %v", err)
	}

	if !strings.HasPrefix(name, "photo") || !strings.HasSuffix(name, ".jpg") {
		t.Fatalf("unexpected generated name: %s", name)
	}

	stored, err := fs.GetImageContent(context.Background(), name)
	if err != nil {
		t.Fatalf("stored file unreadable: %v", err)
	}
	if !bytes.Equal(stored, content) {
		t.Fatal("stored content differs from remote")
	}
}

func TestDownloadImageRemoteFailure(t *testing.T) {
	fs := newTestStorage(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := fs.DownloadImage(context.Background(), server.URL)
	if err == nil {
		t.Fatal("download of failing url succeeded")
	}

	errResp, ok := err.(errors.ErrResp)
	if !ok {
		t.Fatalf("expected ErrResp, got %T: %v", err, err)
	}
	if errResp.StatusCode != http.StatusNotFound {
		t.Fatalf("unexpected status in error: %d", errResp.StatusCode)
	}
}

func TestDownloadImageUnreachableHost(t *testing.T) {
	fs := newTestStorage(t)

	_, err := fs.DownloadImage(context.Background(), "http://127.0.0.1:1/missing.jpg")
	if err == nil {
		t.Fatal("download from unreachable host succeeded")
	}
	if err.Error() != errors.DownloadError {
		t.Fatalf("unexpected error: %v", err)
	}
}
