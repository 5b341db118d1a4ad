// Package client talks to a running picbin server: fetching images for the
// editor, uploading flattened results and driving the remote commands.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	// Register the decoders for the formats the store accepts.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/example/picbin/internal/store"
)

// Client is a thin HTTP wrapper over the server's /api endpoints.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for a server base URL such as
// "http://192.168.1.10:3000".
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// UploadResult is the server's answer to a successful upload.
type UploadResult struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	Date     string `json:"date"`
}

// Upload sends image bytes as a multipart upload under the given filename.
func (c *Client) Upload(ctx context.Context, filename string, data []byte) (UploadResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return UploadResult{}, fmt.Errorf("build upload form: %w", err)
	}
	if _, err := fw.Write(data); err != nil {
		return UploadResult{}, fmt.Errorf("build upload form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return UploadResult{}, fmt.Errorf("build upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", &body)
	if err != nil {
		return UploadResult{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := c.http.Do(req)
	if err != nil {
		return UploadResult{}, fmt.Errorf("upload %s: %w", filename, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return UploadResult{}, apiError("upload", resp)
	}
	var out UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return UploadResult{}, fmt.Errorf("decode upload response: %w", err)
	}
	return out, nil
}

// List fetches the stored images grouped by day.
func (c *Client) List(ctx context.Context) ([]store.DayGroup, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/images", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, apiError("list", resp)
	}
	var groups []store.DayGroup
	if err := json.NewDecoder(resp.Body).Decode(&groups); err != nil {
		return nil, fmt.Errorf("decode image list: %w", err)
	}
	return groups, nil
}

// Delete removes a stored image by filename.
func (c *Client) Delete(ctx context.Context, filename string) error {
	u := c.baseURL + "/api/delete?filename=" + url.QueryEscape(filename)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("delete %s: %w", filename, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return store.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return apiError("delete", resp)
	}
	return nil
}

// FetchImage downloads and decodes an image. ref may be an absolute URL or a
// server path like /uploads/2026-08-28/x.png, resolved against the base URL.
func (c *Client) FetchImage(ctx context.Context, ref string) (image.Image, error) {
	u := ref
	if strings.HasPrefix(ref, "/") {
		u = c.baseURL + ref
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, apiError("fetch", resp)
	}
	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// FindEntry looks a filename up in the server's listing, for opening the
// editor by name.
func (c *Client) FindEntry(ctx context.Context, filename string) (store.Entry, error) {
	groups, err := c.List(ctx)
	if err != nil {
		return store.Entry{}, err
	}
	for _, g := range groups {
		for _, e := range g.Images {
			if e.Filename == filename {
				return e, nil
			}
		}
	}
	return store.Entry{}, store.ErrNotFound
}

func apiError(op string, resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		return fmt.Errorf("%s: server said %q (%s)", op, payload.Error, resp.Status)
	}
	return fmt.Errorf("%s: unexpected status %s", op, resp.Status)
}
