package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/example/picbin/internal/store"
)

func TestUploadSendsMultipartImageField(t *testing.T) {
	var gotName string
	var gotBytes []byte
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/upload" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		f, hdr, err := r.FormFile("image")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		gotName = hdr.Filename
		gotBytes, _ = io.ReadAll(f)
		json.NewEncoder(w).Encode(map[string]string{
			"filename": "2026-08-28_123.png",
			"path":     "/uploads/2026-08-28/2026-08-28_123.png",
			"date":     "2026-08-28",
		})
	}))
	defer ts.Close()

	res, err := New(ts.URL).Upload(context.Background(), "edited_123.png", []byte("png-data"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if gotName != "edited_123.png" || string(gotBytes) != "png-data" {
		t.Fatalf("server saw %q %q", gotName, gotBytes)
	}
	if res.Filename != "2026-08-28_123.png" {
		t.Fatalf("result %+v", res)
	}
}

func TestUploadSurfacesServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "unsupported image type"})
	}))
	defer ts.Close()

	_, err := New(ts.URL).Upload(context.Background(), "x.png", []byte("d"))
	if err == nil || !bytes.Contains([]byte(err.Error()), []byte("unsupported image type")) {
		t.Fatalf("error should carry the server message, got %v", err)
	}
}

func TestListDecodesGroups(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/images" {
			t.Errorf("path %s", r.URL.Path)
		}
		io.WriteString(w, `[{"date":"2026-08-28","images":[{"filename":"a.png","path":"/uploads/2026-08-28/a.png","date":"2026-08-28","uploadTime":"2026-08-28T10:00:00Z"}]}]`)
	}))
	defer ts.Close()

	groups, err := New(ts.URL).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(groups) != 1 || groups[0].Images[0].Filename != "a.png" {
		t.Fatalf("groups %+v", groups)
	}
}

func TestDeleteNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("filename"); got != "missing.png" {
			t.Errorf("filename query %q", got)
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	err := New(ts.URL).Delete(context.Background(), "missing.png")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestFetchImageResolvesServerPaths(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/uploads/2026-08-28/a.png" {
			http.NotFound(w, r)
			return
		}
		png.Encode(w, image.NewRGBA(image.Rect(0, 0, 12, 7)))
	}))
	defer ts.Close()

	img, err := New(ts.URL).FetchImage(context.Background(), "/uploads/2026-08-28/a.png")
	if err != nil {
		t.Fatalf("FetchImage: %v", err)
	}
	if img.Bounds().Dx() != 12 || img.Bounds().Dy() != 7 {
		t.Fatalf("decoded bounds %v", img.Bounds())
	}
}

func TestFindEntry(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"date":"2026-08-28","images":[{"filename":"a.png","path":"/uploads/2026-08-28/a.png"}]}]`)
	}))
	defer ts.Close()

	c := New(ts.URL)
	e, err := c.FindEntry(context.Background(), "a.png")
	if err != nil {
		t.Fatalf("FindEntry: %v", err)
	}
	if e.Path != "/uploads/2026-08-28/a.png" {
		t.Fatalf("entry %+v", e)
	}
	if _, err := c.FindEntry(context.Background(), "nope.png"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
