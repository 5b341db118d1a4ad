package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Disk stores images on the local filesystem as <root>/<date>/<filename>,
// served back under a public URL prefix.
type Disk struct {
	root   string
	prefix string
	now    func() time.Time
}

// NewDisk creates a disk store rooted at dir. prefix is the public URL path
// the server mounts the root under, e.g. "/uploads".
func NewDisk(dir, prefix string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload root: %w", err)
	}
	return &Disk{root: dir, prefix: prefix, now: time.Now}, nil
}

// Root returns the directory uploads live under.
func (d *Disk) Root() string { return d.root }

func (d *Disk) Save(_ context.Context, name, _ string, r io.Reader) (Entry, error) {
	now := d.now()
	filename, err := NewFilename(name, now)
	if err != nil {
		return Entry{}, err
	}
	date := now.Format("2006-01-02")
	dir := filepath.Join(d.root, date)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Entry{}, fmt.Errorf("create date dir: %w", err)
	}
	dst, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return Entry{}, fmt.Errorf("create image file: %w", err)
	}
	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return Entry{}, fmt.Errorf("write image file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return Entry{}, fmt.Errorf("close image file: %w", err)
	}
	return Entry{
		Filename:   filename,
		Path:       d.publicPath(date, filename),
		Date:       date,
		UploadTime: time.UnixMilli(now.UnixMilli()),
	}, nil
}

func (d *Disk) List(_ context.Context) ([]DayGroup, error) {
	days, err := os.ReadDir(d.root)
	if err != nil {
		return nil, fmt.Errorf("read upload root: %w", err)
	}
	var entries []Entry
	for _, day := range days {
		if !day.IsDir() {
			continue
		}
		files, err := os.ReadDir(filepath.Join(d.root, day.Name()))
		if err != nil {
			return nil, fmt.Errorf("read date dir %s: %w", day.Name(), err)
		}
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			date, uploaded, err := ParseFilename(f.Name())
			if err != nil {
				// Foreign files in the tree are skipped, not fatal.
				continue
			}
			entries = append(entries, Entry{
				Filename:   f.Name(),
				Path:       d.publicPath(day.Name(), f.Name()),
				Date:       date,
				UploadTime: uploaded,
			})
		}
	}
	return groupEntries(entries), nil
}

func (d *Disk) Open(_ context.Context, filename string) (io.ReadCloser, string, error) {
	p, err := d.localPath(filename)
	if err != nil {
		return nil, "", err
	}
	f, err := os.Open(p)
	if os.IsNotExist(err) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("open image: %w", err)
	}
	return f, ContentTypeFor(filename), nil
}

func (d *Disk) Delete(_ context.Context, filename string) error {
	p, err := d.localPath(filename)
	if err != nil {
		return err
	}
	err = os.Remove(p)
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}

// localPath resolves a stored filename to its on-disk location. The date
// prefix inside the name selects the partition, so no directory scan is
// needed, and the base-name check keeps traversal out.
func (d *Disk) localPath(filename string) (string, error) {
	if filepath.Base(filename) != filename {
		return "", fmt.Errorf("invalid filename %q", filename)
	}
	date, _, err := ParseFilename(filename)
	if err != nil {
		return "", ErrNotFound
	}
	return filepath.Join(d.root, date, filename), nil
}

func (d *Disk) publicPath(date, filename string) string {
	return d.prefix + "/" + date + "/" + filename
}
