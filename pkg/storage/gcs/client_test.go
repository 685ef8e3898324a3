package gcs

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func staticTokenSource(token string) *tokenSource {
	return &tokenSource{
		token:  token,
		expiry: time.Now().Add(time.Hour),
		fetch: func(context.Context) (string, time.Time, error) {
			return token, time.Now().Add(time.Hour), nil
		},
	}
}

func TestUpload(t *testing.T) {
	var gotPath, gotAuth, gotContentType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.RequestURI()
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"name":"products/abc.jpg"}`))
	}))
	defer srv.Close()

	c := &Client{
		httpClient:    srv.Client(),
		defaultBucket: "showroom-media",
		tokenSource:   staticTokenSource("tkn"),
		uploadBase:    srv.URL,
		publicBase:    "https://storage.googleapis.com",
	}

	url, err := c.Upload(t.Context(), "products/abc.jpg", "image/jpeg", strings.NewReader("jpegbytes"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if url != "https://storage.googleapis.com/showroom-media/products/abc.jpg" {
		t.Errorf("public url = %q", url)
	}
	if !strings.Contains(gotPath, "/b/showroom-media/o") {
		t.Errorf("request path = %q", gotPath)
	}
	if !strings.Contains(gotPath, "uploadType=media") {
		t.Errorf("missing uploadType=media in %q", gotPath)
	}
	if !strings.Contains(gotPath, "name=products%2Fabc.jpg") {
		t.Errorf("missing escaped object name in %q", gotPath)
	}
	if gotAuth != "Bearer tkn" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotContentType != "image/jpeg" {
		t.Errorf("content type = %q", gotContentType)
	}
	if gotBody != "jpegbytes" {
		t.Errorf("body = %q", gotBody)
	}
}

func TestUploadRejectsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer srv.Close()

	c := &Client{
		httpClient:    srv.Client(),
		defaultBucket: "showroom-media",
		tokenSource:   staticTokenSource("tkn"),
		uploadBase:    srv.URL,
		publicBase:    "https://storage.googleapis.com",
	}

	_, err := c.Upload(t.Context(), "products/abc.jpg", "image/jpeg", strings.NewReader("x"))
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("error should surface response body, got %v", err)
	}
}

func TestUploadValidatesInputs(t *testing.T) {
	c := &Client{
		defaultBucket: "showroom-media",
		tokenSource:   staticTokenSource("tkn"),
		httpClient:    http.DefaultClient,
	}
	if _, err := c.Upload(t.Context(), "", "image/png", strings.NewReader("x")); err == nil {
		t.Error("expected error for empty object name")
	}
	if _, err := c.Upload(t.Context(), "products/a.png", "", strings.NewReader("x")); err == nil {
		t.Error("expected error for empty content type")
	}
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.RequestURI(), "/b/showroom-media/o") {
			t.Errorf("unexpected path %q", r.URL.RequestURI())
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := &Client{
		httpClient:    srv.Client(),
		defaultBucket: "showroom-media",
		tokenSource:   staticTokenSource("tkn"),
		apiBase:       srv.URL,
	}
	if err := c.Ping(t.Context()); err != nil {
		t.Errorf("ping: %v", err)
	}
}

func TestPublicURLEscapesSegments(t *testing.T) {
	c := &Client{defaultBucket: "showroom-media", publicBase: "https://storage.googleapis.com"}
	got := c.PublicURL("products/living room.png")
	want := "https://storage.googleapis.com/showroom-media/products/living%20room.png"
	if got != want {
		t.Errorf("PublicURL = %q, want %q", got, want)
	}
}
