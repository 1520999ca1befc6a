package utils

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"
	"time"
)

func fileHeader(t *testing.T, field, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	part.Write(content)
	w.Close()

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("parse form: %v", err)
	}
	return req.MultipartForm.File[field][0]
}

func TestNewULIDFromTimestamp(t *testing.T) {
	id, err := New().NewULIDFromTimestamp(time.Now())
	if err != nil {
		t.Fatalf("NewULIDFromTimestamp() error = %v", err)
	}
	if len(id) != 26 {
		t.Fatalf("ULID %q has length %d", id, len(id))
	}
}

func TestValidateImageFile(t *testing.T) {
	u := New()

	if err := u.ValidateImageFile(nil); !errors.Is(err, ErrNoFile) {
		t.Fatalf("expected ErrNoFile, got %v", err)
	}
	if err := u.ValidateImageFile(fileHeader(t, "frame", "f.jpg", "image/jpeg", []byte("x"))); err != nil {
		t.Fatalf("jpeg rejected: %v", err)
	}
	if err := u.ValidateImageFile(fileHeader(t, "frame", "blob", "application/octet-stream", []byte("x"))); err != nil {
		t.Fatalf("blob rejected: %v", err)
	}
	if err := u.ValidateImageFile(fileHeader(t, "frame", "f.txt", "text/plain", []byte("x"))); !errors.Is(err, ErrNotAnImage) {
		t.Fatalf("expected ErrNotAnImage, got %v", err)
	}
}

func TestValidateVideoFile(t *testing.T) {
	u := New()

	if err := u.ValidateVideoFile(fileHeader(t, "video", "clip.mp4", "video/mp4", []byte("x"))); err != nil {
		t.Fatalf("mp4 rejected: %v", err)
	}
	if err := u.ValidateVideoFile(fileHeader(t, "video", "f.png", "image/png", []byte("x"))); !errors.Is(err, ErrNotAVideo) {
		t.Fatalf("expected ErrNotAVideo, got %v", err)
	}
}

func TestDecodeBase64Image(t *testing.T) {
	u := New()

	got, err := u.DecodeBase64Image("data:image/jpeg;base64,aGVsbG8=")
	if err != nil {
		t.Fatalf("DecodeBase64Image() error = %v", err)
	}
	if string(got) != "hello" {
		t.Fatalf("decoded %q", got)
	}

	if _, err := u.DecodeBase64Image("%%%"); !errors.Is(err, ErrInvalidBase64) {
		t.Fatalf("expected ErrInvalidBase64, got %v", err)
	}
}

func TestSaveTempFile(t *testing.T) {
	u := New()

	path, cleanup, err := u.SaveTempFile(fileHeader(t, "video", "clip.MOV", "video/quicktime", []byte("movie-bytes")))
	if err != nil {
		t.Fatalf("SaveTempFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read temp file: %v", err)
	}
	if string(data) != "movie-bytes" {
		t.Fatalf("temp file content = %q", data)
	}

	cleanup()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("temp file not removed: %v", err)
	}
}
