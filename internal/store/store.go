// Package store persists uploaded images under date-partitioned keys and
// lists them grouped by upload day.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound is returned when a filename does not exist in the store.
var ErrNotFound = errors.New("image not found")

// Entry describes one stored image.
type Entry struct {
	Filename   string    `json:"filename"`
	Path       string    `json:"path"`
	Date       string    `json:"date"`
	UploadTime time.Time `json:"uploadTime"`
}

// DayGroup is one day's uploads, newest file first.
type DayGroup struct {
	Date   string  `json:"date"`
	Images []Entry `json:"images"`
}

// Store is an image backend. Filenames are always store-generated (see
// NewFilename); callers never choose keys.
type Store interface {
	// Save writes the image and returns its entry. name is the client's
	// original filename, used only for its extension.
	Save(ctx context.Context, name, contentType string, r io.Reader) (Entry, error)
	// List returns every stored image grouped by day, newest day first.
	List(ctx context.Context) ([]DayGroup, error)
	// Open returns the image bytes and content type.
	Open(ctx context.Context, filename string) (io.ReadCloser, string, error)
	// Delete removes the image, reporting ErrNotFound for unknown names.
	Delete(ctx context.Context, filename string) error
}

// allowedExts is the upload extension allow-list, lowercased with the dot.
var allowedExts = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
}

// AllowedExt reports whether the filename carries an accepted image
// extension.
func AllowedExt(name string) bool {
	_, ok := allowedExts[strings.ToLower(path.Ext(name))]
	return ok
}

// ContentTypeFor returns the content type for a stored filename's extension,
// falling back to application/octet-stream.
func ContentTypeFor(name string) string {
	if ct, ok := allowedExts[strings.ToLower(path.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// NewFilename generates the storage name for an upload:
// <YYYY-MM-DD>_<ms-timestamp><ext>. The date doubles as the partition key.
func NewFilename(original string, now time.Time) (string, error) {
	ext := strings.ToLower(path.Ext(original))
	if _, ok := allowedExts[ext]; !ok {
		return "", fmt.Errorf("unsupported image extension %q", ext)
	}
	return fmt.Sprintf("%s_%d%s", now.Format("2006-01-02"), now.UnixMilli(), ext), nil
}

// ParseFilename splits a store-generated filename back into its date and
// upload time.
func ParseFilename(name string) (date string, uploaded time.Time, err error) {
	stem := strings.TrimSuffix(name, path.Ext(name))
	i := strings.IndexByte(stem, '_')
	if i < 0 {
		return "", time.Time{}, fmt.Errorf("malformed filename %q", name)
	}
	date = stem[:i]
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return "", time.Time{}, fmt.Errorf("malformed filename %q: %w", name, err)
	}
	ms, err := strconv.ParseInt(stem[i+1:], 10, 64)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("malformed filename %q: %w", name, err)
	}
	return date, time.UnixMilli(ms), nil
}

// groupEntries buckets entries by date, newest date first and newest upload
// first within a day.
func groupEntries(entries []Entry) []DayGroup {
	byDate := make(map[string][]Entry)
	for _, e := range entries {
		byDate[e.Date] = append(byDate[e.Date], e)
	}
	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	groups := make([]DayGroup, 0, len(dates))
	for _, d := range dates {
		imgs := byDate[d]
		sort.Slice(imgs, func(i, j int) bool {
			return imgs[i].UploadTime.After(imgs[j].UploadTime)
		})
		groups = append(groups, DayGroup{Date: d, Images: imgs})
	}
	return groups
}
